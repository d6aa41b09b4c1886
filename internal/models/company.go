package models

import (
	"time"
)

// Company is a trading partner with its payment records embedded.
type Company struct {
	ID      string   `json:"id" bson:"_id"`
	Name    string   `json:"name" bson:"name"`
	Records []Record `json:"records" bson:"records"`
}

// Record is a single payment line owned by a Company.
// Advance is kept as entered; it is parsed only when totals are computed.
type Record struct {
	ID          string    `json:"id" bson:"id"`
	Date        time.Time `json:"date" bson:"date"`
	InvoiceNo   string    `json:"invoiceNo" bson:"invoiceNo"`
	ContainerNo string    `json:"containerNo" bson:"containerNo"`
	Product     string    `json:"product" bson:"product"`
	Advance     string    `json:"advance" bson:"advance"`
}

// CompanyName is the name-only projection returned by the names listing.
type CompanyName struct {
	ID   string `json:"id" bson:"_id"`
	Name string `json:"name" bson:"name"`
}

// CompanyPatch holds the top-level fields of a company update. Nil fields are left untouched.
type CompanyPatch struct {
	Name    *string
	Records *[]Record
}

// RecordPatch holds the record fields to merge into an existing record.
type RecordPatch struct {
	Date        *time.Time `json:"date,omitempty" bson:"date,omitempty"`
	InvoiceNo   *string    `json:"invoiceNo,omitempty" bson:"invoiceNo,omitempty"`
	ContainerNo *string    `json:"containerNo,omitempty" bson:"containerNo,omitempty"`
	Product     *string    `json:"product,omitempty" bson:"product,omitempty"`
	Advance     *string    `json:"advance,omitempty" bson:"advance,omitempty"`
}

// IsEmpty reports whether the patch carries no field at all.
func (p RecordPatch) IsEmpty() bool {
	return p.Date == nil && p.InvoiceNo == nil && p.ContainerNo == nil && p.Product == nil && p.Advance == nil
}

// Apply merges the patch into r.
func (p RecordPatch) Apply(r *Record) {
	if p.Date != nil {
		r.Date = *p.Date
	}
	if p.InvoiceNo != nil {
		r.InvoiceNo = *p.InvoiceNo
	}
	if p.ContainerNo != nil {
		r.ContainerNo = *p.ContainerNo
	}
	if p.Product != nil {
		r.Product = *p.Product
	}
	if p.Advance != nil {
		r.Advance = *p.Advance
	}
}

// FindRecord returns the index of the record with the given id, or -1.
func (c *Company) FindRecord(recordID string) int {
	for i := range c.Records {
		if c.Records[i].ID == recordID {
			return i
		}
	}
	return -1
}
