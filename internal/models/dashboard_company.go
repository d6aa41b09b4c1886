package models

import "time"

// DashboardCompany is the dashboard ledger view of a company. Names are unique.
type DashboardCompany struct {
	ID      string       `json:"id" bson:"_id"`
	Name    string       `json:"name" bson:"name"`
	Records []DashRecord `json:"records" bson:"records"`
}

// DashRecord is an amount booked against a dashboard company.
type DashRecord struct {
	ID          string    `json:"id" bson:"id"`
	Date        time.Time `json:"date" bson:"date"`
	Amount      float64   `json:"amount" bson:"amount"`
	Description string    `json:"description" bson:"description"`
}

// DashRecordPatch holds the dashboard record fields to merge.
type DashRecordPatch struct {
	Date        *time.Time `json:"date,omitempty" bson:"date,omitempty"`
	Amount      *float64   `json:"amount,omitempty" bson:"amount,omitempty"`
	Description *string    `json:"description,omitempty" bson:"description,omitempty"`
}

func (p DashRecordPatch) IsEmpty() bool {
	return p.Date == nil && p.Amount == nil && p.Description == nil
}

func (p DashRecordPatch) Apply(r *DashRecord) {
	if p.Date != nil {
		r.Date = *p.Date
	}
	if p.Amount != nil {
		r.Amount = *p.Amount
	}
	if p.Description != nil {
		r.Description = *p.Description
	}
}

func (c *DashboardCompany) FindRecord(recordID string) int {
	for i := range c.Records {
		if c.Records[i].ID == recordID {
			return i
		}
	}
	return -1
}
