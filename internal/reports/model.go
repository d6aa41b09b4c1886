package reports

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"acmeledger/internal/common"
	"acmeledger/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	dateFormat      = "2006-01-02"
	noRecordsNotice = "No records found for the selected date range."
)

// Row is one table line. Cells are already formatted for display.
type Row struct {
	Cells  []string
	Amount decimal.Decimal
}

// Section groups the rows of one entity (or inventory category) with their subtotal.
type Section struct {
	Title    string
	Rows     []Row
	Subtotal decimal.Decimal
}

// Document is a report ready for rendering: filtered, grouped and totalled.
type Document struct {
	Title    string
	Subtitle string
	Period   string
	Columns  []Column
	// AmountColumn is the index of the column totals are aligned under.
	AmountColumn int
	Sections     []Section
	TotalLabel   string
	GrandTotal   decimal.Decimal
	ShowGrand    bool
	Notice       string
	GeneratedAt  time.Time
}

// RecordCount returns the number of data rows over all sections.
func (d Document) RecordCount() int {
	n := 0
	for _, s := range d.Sections {
		n += len(s.Rows)
	}
	return n
}

func describeRange(r models.DateRange) string {
	switch {
	case r.IsOpen():
		return "Period: all dates"
	case r.From == nil:
		return "Period: up to " + r.To.Format(dateFormat)
	case r.To == nil:
		return "Period: from " + r.From.Format(dateFormat)
	default:
		return fmt.Sprintf("Period: %s to %s", r.From.Format(dateFormat), r.To.Format(dateFormat))
	}
}

func companySection(c *models.Company, r models.DateRange) Section {
	s := Section{Title: c.Name, Subtotal: decimal.Zero}
	records := make([]models.Record, 0, len(c.Records))
	for _, rec := range c.Records {
		if r.Contains(rec.Date) {
			records = append(records, rec)
		}
	}
	sort.SliceStable(records, func(i, j int) bool { return records[i].Date.Before(records[j].Date) })

	for _, rec := range records {
		amount, _ := ParseAmount(rec.Advance)
		s.Rows = append(s.Rows, Row{
			Cells:  []string{rec.Date.Format(dateFormat), rec.InvoiceNo, rec.ContainerNo, rec.Product, FormatStoredAmount(rec.Advance)},
			Amount: amount,
		})
		s.Subtotal = s.Subtotal.Add(amount)
	}
	return s
}

func dashboardSection(c *models.DashboardCompany, r models.DateRange) Section {
	s := Section{Title: c.Name, Subtotal: decimal.Zero}
	records := make([]models.DashRecord, 0, len(c.Records))
	for _, rec := range c.Records {
		if r.Contains(rec.Date) {
			records = append(records, rec)
		}
	}
	sort.SliceStable(records, func(i, j int) bool { return records[i].Date.Before(records[j].Date) })

	for _, rec := range records {
		amount := decimal.NewFromFloat(rec.Amount)
		s.Rows = append(s.Rows, Row{
			Cells:  []string{rec.Date.Format(dateFormat), FormatMoney(amount), rec.Description},
			Amount: amount,
		})
		s.Subtotal = s.Subtotal.Add(amount)
	}
	return s
}

func inventorySection(c models.Category, r models.DateRange) Section {
	s := Section{Title: c.Name, Subtotal: decimal.Zero}
	for _, sub := range c.Subcategories {
		if !r.Contains(sub.Date) {
			continue
		}
		price := decimal.NewFromFloat(sub.Price)
		s.Rows = append(s.Rows, Row{
			Cells:  []string{sub.Name, strings.Join(sub.Details, ", "), FormatMoney(price)},
			Amount: price,
		})
		s.Subtotal = s.Subtotal.Add(price)
	}
	return s
}

// BuildCompanyReport builds the records report of a single company.
func BuildCompanyReport(c *models.Company, r models.DateRange) Document {
	doc := Document{
		Title:        "Company Records Report",
		Subtitle:     "Company: " + c.Name,
		Period:       describeRange(r),
		Columns:      companyColumns,
		AmountColumn: 4,
		TotalLabel:   "Total Advance",
	}
	section := companySection(c, r)
	doc.Sections = []Section{section}
	doc.GrandTotal = section.Subtotal
	if len(section.Rows) == 0 {
		doc.Notice = noRecordsNotice
	}
	return doc
}

// BuildCompaniesReport builds one section per company with matching records and a grand total.
func BuildCompaniesReport(companies []*models.Company, r models.DateRange) (Document, error) {
	if len(companies) == 0 {
		return Document{}, common.NotFound("No companies found")
	}
	doc := Document{
		Title:        "All Companies Records Report",
		Period:       describeRange(r),
		Columns:      companyColumns,
		AmountColumn: 4,
		TotalLabel:   "Grand Total",
		ShowGrand:    true,
		GrandTotal:   decimal.Zero,
	}
	for _, c := range companies {
		section := companySection(c, r)
		if len(section.Rows) == 0 {
			continue
		}
		doc.Sections = append(doc.Sections, section)
		doc.GrandTotal = doc.GrandTotal.Add(section.Subtotal)
	}
	if len(doc.Sections) == 0 {
		doc.Notice = noRecordsNotice
	}
	return doc, nil
}

// BuildDashboardReport builds the details report of a single dashboard company.
func BuildDashboardReport(c *models.DashboardCompany, r models.DateRange) Document {
	doc := Document{
		Title:        "Company Details Report",
		Subtitle:     "Company: " + c.Name,
		Period:       describeRange(r),
		Columns:      dashboardColumns,
		AmountColumn: 1,
		TotalLabel:   "Total Amount",
	}
	section := dashboardSection(c, r)
	doc.Sections = []Section{section}
	doc.GrandTotal = section.Subtotal
	if len(section.Rows) == 0 {
		doc.Notice = noRecordsNotice
	}
	return doc
}

// BuildDashboardsReport builds one section per dashboard company with matching records and a grand total.
func BuildDashboardsReport(companies []*models.DashboardCompany, r models.DateRange) (Document, error) {
	if len(companies) == 0 {
		return Document{}, common.NotFound("No companies found")
	}
	doc := Document{
		Title:        "All Companies Report",
		Period:       describeRange(r),
		Columns:      dashboardColumns,
		AmountColumn: 1,
		TotalLabel:   "Grand Total",
		ShowGrand:    true,
		GrandTotal:   decimal.Zero,
	}
	for _, c := range companies {
		section := dashboardSection(c, r)
		if len(section.Rows) == 0 {
			continue
		}
		doc.Sections = append(doc.Sections, section)
		doc.GrandTotal = doc.GrandTotal.Add(section.Subtotal)
	}
	if len(doc.Sections) == 0 {
		doc.Notice = noRecordsNotice
	}
	return doc, nil
}

// BuildInventoryReport builds one section per category with matching subcategory lines.
func BuildInventoryReport(inv *models.Inventory, r models.DateRange) Document {
	doc := Document{
		Title:        cases.Title(language.English).String(string(inv.Type)) + " Inventory Report",
		Period:       describeRange(r),
		Columns:      inventoryColumns,
		AmountColumn: 2,
		TotalLabel:   "Total Amount",
		ShowGrand:    true,
		GrandTotal:   decimal.Zero,
	}
	for _, c := range inv.Categories {
		section := inventorySection(c, r)
		if len(section.Rows) == 0 {
			continue
		}
		doc.Sections = append(doc.Sections, section)
		doc.GrandTotal = doc.GrandTotal.Add(section.Subtotal)
	}
	if len(doc.Sections) == 0 {
		doc.Notice = "No inventory items found for the selected date range."
	}
	return doc
}
