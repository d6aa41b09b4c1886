package models

import "time"

// DateRange is an inclusive [From, To] filter. A nil bound is open.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// Contains reports whether t falls inside the range, both ends inclusive.
func (r DateRange) Contains(t time.Time) bool {
	if r.From != nil && t.Before(*r.From) {
		return false
	}
	if r.To != nil && t.After(*r.To) {
		return false
	}
	return true
}

// IsOpen reports whether neither bound is set.
func (r DateRange) IsOpen() bool {
	return r.From == nil && r.To == nil
}

// Key renders the range for cache keys; open bounds become "-".
func (r DateRange) Key() (from, to string) {
	from, to = "-", "-"
	if r.From != nil {
		from = r.From.UTC().Format(time.RFC3339)
	}
	if r.To != nil {
		to = r.To.UTC().Format(time.RFC3339)
	}
	return from, to
}

// ReportKind names the entity kind a cached report belongs to.
type ReportKind string

const (
	ReportKindCompany   ReportKind = "company"
	ReportKindDashboard ReportKind = "dashboard"
	ReportKindInventory ReportKind = "inventory"
)
