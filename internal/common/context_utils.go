package common

import (
	"fmt"
	"strings"
	"time"

	"acmeledger/internal/models"
)

const dateLayout = "2006-01-02"

// ValidateRequiredString validates required string fields
func ValidateRequiredString(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return Validation(fieldName, fmt.Sprintf("%s is required", fieldName))
	}
	return nil
}

// ParseDateParam parses a YYYY-MM-DD or RFC 3339 date. An empty string yields nil.
// With endOfDay set, a date-only value is moved to the last instant of that day.
func ParseDateParam(value, fieldName string, endOfDay bool) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		t = t.UTC()
		return &t, nil
	}

	t, err := time.ParseInLocation(dateLayout, value, time.UTC)
	if err != nil {
		return nil, Validation(fieldName, fmt.Sprintf("%s must be in YYYY-MM-DD or RFC 3339 format", fieldName))
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

// ParseDateRange builds a report range from the raw fromDate/toDate values.
func ParseDateRange(from, to string) (models.DateRange, error) {
	var r models.DateRange
	var err error
	if r.From, err = ParseDateParam(from, "fromDate", false); err != nil {
		return r, err
	}
	if r.To, err = ParseDateParam(to, "toDate", true); err != nil {
		return r, err
	}
	return r, ValidateDateRange(r)
}

// ValidateDateRange rejects a range whose start is after its end.
func ValidateDateRange(r models.DateRange) error {
	if r.From != nil && r.To != nil && r.From.After(*r.To) {
		return InvalidRange("fromDate %s is after toDate %s", r.From.Format(dateLayout), r.To.Format(dateLayout))
	}
	return nil
}
