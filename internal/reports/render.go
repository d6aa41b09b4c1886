package reports

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

// cellPadding is the horizontal room gofpdf keeps inside a cell.
const cellPadding = 2.5

// Output is a fully rendered report.
type Output struct {
	Bytes []byte
	Pages int
}

type Renderer struct {
	style Style
}

func NewRenderer(style Style) *Renderer {
	return &Renderer{style: style}
}

// pager tracks the vertical cursor and starts a new page whenever the next
// block would cross the content limit.
type pager struct {
	pdf   *gofpdf.Fpdf
	style Style
	tr    func(string) string
	y     float64
	top   float64
	limit float64
	left  float64
	width float64
}

func (p *pager) newPage() {
	p.pdf.AddPage()
	p.y = p.top
}

// ensure starts a new page if h does not fit below the cursor. It reports whether a break happened.
func (p *pager) ensure(h float64) bool {
	if p.y+h <= p.limit {
		return false
	}
	p.newPage()
	return true
}

func (p *pager) setFill(c Color) { p.pdf.SetFillColor(c.R, c.G, c.B) }
func (p *pager) setText(c Color) { p.pdf.SetTextColor(c.R, c.G, c.B) }

// fit shortens s with an ellipsis until it fits in width w.
func (p *pager) fit(s string, w float64) string {
	limit := w - cellPadding
	if p.pdf.GetStringWidth(s) <= limit {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + "..."
		if p.pdf.GetStringWidth(candidate) <= limit {
			return candidate
		}
	}
	return ""
}

func (p *pager) cell(w, h float64, text, align string, fill bool) {
	p.pdf.CellFormat(w, h, p.tr(p.fit(text, w)), "", 0, align, fill, 0, "")
}

// Render lays out doc and returns the finished PDF. Nothing is returned until
// the footer pass has completed.
func (r *Renderer) Render(doc Document) (Output, error) {
	s := r.style
	pdf := gofpdf.New(s.Orientation, s.Unit, s.PageSize, "")
	pdf.SetMargins(s.MarginLeft, s.MarginTop, s.MarginRight)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(doc.Title, true)
	pdf.SetAuthor(s.Brand, true)
	if !doc.GeneratedAt.IsZero() {
		pdf.SetCreationDate(doc.GeneratedAt)
	}

	pageW, pageH := pdf.GetPageSize()
	p := &pager{
		pdf:   pdf,
		style: s,
		tr:    pdf.UnicodeTranslatorFromDescriptor(""),
		top:   s.MarginTop,
		limit: pageH - s.MarginBottom,
		left:  s.MarginLeft,
		width: pageW - s.MarginLeft - s.MarginRight,
	}
	columns := scaleColumns(doc.Columns, p.width)

	p.newPage()
	r.drawBand(p, doc, pageW)

	for _, section := range doc.Sections {
		r.drawSection(p, doc, columns, section)
	}

	if doc.Notice != "" {
		p.ensure(s.RowHeight * 2)
		p.y += s.RowHeight / 2
		pdf.SetFont(s.FontFamily, "I", s.BodySize)
		p.setText(s.Muted)
		pdf.SetXY(p.left, p.y)
		p.cell(p.width, s.RowHeight, doc.Notice, AlignCenter, false)
		p.y += s.RowHeight * 1.5
	}

	if doc.ShowGrand {
		p.ensure(s.RowHeight + 2)
		p.y += 2
		r.drawTotal(p, doc, columns, doc.TotalLabel, doc.GrandTotal, s.GrandTotalFill)
	}

	r.stampFooters(p, pageW, pageH)

	if pdf.Err() {
		return Output{}, fmt.Errorf("render %q: %w", doc.Title, pdf.Error())
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return Output{}, fmt.Errorf("write %q: %w", doc.Title, err)
	}
	return Output{Bytes: buf.Bytes(), Pages: pdf.PageCount()}, nil
}

func (r *Renderer) drawBand(p *pager, doc Document, pageW float64) {
	s := r.style
	pdf := p.pdf

	p.setFill(s.Band)
	pdf.Rect(0, 0, pageW, s.BandHeight, "F")

	p.setText(s.BandText)
	pdf.SetFont(s.FontFamily, "", s.FooterSize)
	pdf.SetXY(p.left, 4)
	p.cell(p.width, 5, s.Brand, AlignLeft, false)

	pdf.SetFont(s.FontFamily, "B", s.TitleSize)
	pdf.SetXY(p.left, 10)
	p.cell(p.width, 9, doc.Title, AlignLeft, false)

	p.y = s.BandHeight + 6
	p.setText(s.Text)
	pdf.SetFont(s.FontFamily, "B", s.BodySize+2)
	if doc.Subtitle != "" {
		pdf.SetXY(p.left, p.y)
		p.cell(p.width, 6, doc.Subtitle, AlignLeft, false)
		p.y += 6
	}

	pdf.SetFont(s.FontFamily, "", s.BodySize)
	pdf.SetXY(p.left, p.y)
	p.cell(p.width/2, 5, doc.Period, AlignLeft, false)
	if !doc.GeneratedAt.IsZero() {
		p.cell(p.width/2, 5, "Generated on "+doc.GeneratedAt.Format("2006-01-02 15:04"), AlignRight, false)
	}
	p.y += 9
}

func (r *Renderer) drawSection(p *pager, doc Document, columns []Column, section Section) {
	s := r.style
	pdf := p.pdf

	group := s.HeaderHeight + s.RowHeight
	if doc.ShowGrand {
		group += s.SectionHeight
	}
	p.ensure(group)

	if doc.ShowGrand {
		p.setFill(s.SectionFill)
		p.setText(s.Text)
		pdf.SetFont(s.FontFamily, "B", s.BodySize+1)
		pdf.SetXY(p.left, p.y)
		p.cell(p.width, s.SectionHeight-1, section.Title, AlignLeft, true)
		p.y += s.SectionHeight
	}
	r.drawColumnHeader(p, columns)

	pdf.SetFont(s.FontFamily, "", s.BodySize)
	for i, row := range section.Rows {
		if p.ensure(s.RowHeight) {
			r.drawColumnHeader(p, columns)
			pdf.SetFont(s.FontFamily, "", s.BodySize)
		}
		alt := i%2 == 1
		if alt {
			p.setFill(s.AltRowFill)
		}
		p.setText(s.Text)
		pdf.SetXY(p.left, p.y)
		for j, col := range columns {
			text := ""
			if j < len(row.Cells) {
				text = row.Cells[j]
			}
			p.cell(col.Width, s.RowHeight, text, col.Align, alt)
		}
		p.y += s.RowHeight
	}

	label := doc.TotalLabel
	if doc.ShowGrand {
		label = "Subtotal"
	}
	p.ensure(s.RowHeight)
	r.drawTotal(p, doc, columns, label, section.Subtotal, s.TotalFill)
	p.y += s.RowHeight / 2
}

func (r *Renderer) drawColumnHeader(p *pager, columns []Column) {
	s := r.style
	p.setFill(s.HeaderFill)
	p.setText(s.Text)
	p.pdf.SetFont(s.FontFamily, "B", s.BodySize)
	p.pdf.SetXY(p.left, p.y)
	for _, col := range columns {
		p.cell(col.Width, s.HeaderHeight, col.Header, col.Align, true)
	}
	p.y += s.HeaderHeight
}

// drawTotal draws a label spanning the columns before the amount column and the amount under it.
func (r *Renderer) drawTotal(p *pager, doc Document, columns []Column, label string, amount decimal.Decimal, fill Color) {
	s := r.style
	idx := doc.AmountColumn
	if idx <= 0 || idx >= len(columns) {
		idx = len(columns) - 1
	}

	var before, after float64
	for i, col := range columns {
		switch {
		case i < idx:
			before += col.Width
		case i > idx:
			after += col.Width
		}
	}

	p.setFill(fill)
	p.setText(s.Text)
	p.pdf.SetFont(s.FontFamily, "B", s.BodySize)
	p.pdf.SetXY(p.left, p.y)
	p.cell(before, s.RowHeight, label, AlignRight, true)
	p.cell(columns[idx].Width, s.RowHeight, FormatMoney(amount), AlignRight, true)
	if after > 0 {
		p.cell(after, s.RowHeight, "", AlignLeft, true)
	}
	p.y += s.RowHeight
}

// stampFooters revisits every page once the page count is final.
func (r *Renderer) stampFooters(p *pager, pageW, pageH float64) {
	s := r.style
	pdf := p.pdf
	total := pdf.PageCount()
	for i := 1; i <= total; i++ {
		pdf.SetPage(i)
		p.setText(s.Muted)
		pdf.SetFont(s.FontFamily, "", s.FooterSize)
		pdf.SetDrawColor(s.Muted.R, s.Muted.G, s.Muted.B)
		lineY := pageH - s.FooterOffset - 2
		pdf.Line(p.left, lineY, pageW-s.MarginRight, lineY)
		pdf.SetXY(p.left, pageH-s.FooterOffset)
		p.cell(p.width/2, 5, s.Brand, AlignLeft, false)
		p.cell(p.width/2, 5, fmt.Sprintf("Page %d of %d", i, total), AlignRight, false)
	}
	pdf.SetPage(total)
}

// scaleColumns stretches or shrinks widths proportionally so they fill width.
func scaleColumns(columns []Column, width float64) []Column {
	var sum float64
	for _, c := range columns {
		sum += c.Width
	}
	out := make([]Column, len(columns))
	copy(out, columns)
	if sum <= 0 {
		return out
	}
	factor := width / sum
	for i := range out {
		out[i].Width *= factor
	}
	return out
}
