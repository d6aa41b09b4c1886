package reports

type Color struct {
	R, G, B int
}

// Align values follow gofpdf's CellFormat alignment strings.
const (
	AlignLeft   = "L"
	AlignCenter = "C"
	AlignRight  = "R"
)

// Column is one table column. Widths are in the Style's unit.
type Column struct {
	Header string
	Width  float64
	Align  string
}

// Style configures page geometry, fonts and colors shared by every report variant.
type Style struct {
	Orientation string
	Unit        string
	PageSize    string

	MarginLeft   float64
	MarginTop    float64
	MarginRight  float64
	MarginBottom float64

	RowHeight     float64
	HeaderHeight  float64
	SectionHeight float64
	BandHeight    float64
	// FooterOffset is the distance of the footer line from the bottom edge.
	FooterOffset float64

	FontFamily string
	TitleSize  float64
	BodySize   float64
	FooterSize float64

	Band           Color
	BandText       Color
	Text           Color
	Muted          Color
	HeaderFill     Color
	AltRowFill     Color
	SectionFill    Color
	TotalFill      Color
	GrandTotalFill Color

	// Brand is printed in the header band and the footer.
	Brand string
}

func DefaultStyle() Style {
	return Style{
		Orientation: "P",
		Unit:        "mm",
		PageSize:    "A4",

		MarginLeft:   18,
		MarginTop:    18,
		MarginRight:  18,
		MarginBottom: 22,

		RowHeight:     7,
		HeaderHeight:  8,
		SectionHeight: 9,
		BandHeight:    22,
		FooterOffset:  12,

		FontFamily: "Helvetica",
		TitleSize:  16,
		BodySize:   9,
		FooterSize: 8,

		Band:           Color{44, 62, 80},
		BandText:       Color{255, 255, 255},
		Text:           Color{33, 37, 41},
		Muted:          Color{128, 128, 128},
		HeaderFill:     Color{220, 224, 230},
		AltRowFill:     Color{240, 240, 240},
		SectionFill:    Color{240, 240, 240},
		TotalFill:      Color{225, 232, 240},
		GrandTotalFill: Color{232, 240, 254},

		Brand: "ACME Inventory System",
	}
}

var (
	companyColumns = []Column{
		{Header: "Date", Width: 28, Align: AlignLeft},
		{Header: "Invoice No", Width: 30, Align: AlignLeft},
		{Header: "Container No", Width: 30, Align: AlignLeft},
		{Header: "Product", Width: 56, Align: AlignLeft},
		{Header: "Advance", Width: 30, Align: AlignRight},
	}

	dashboardColumns = []Column{
		{Header: "Date", Width: 35, Align: AlignLeft},
		{Header: "Amount", Width: 35, Align: AlignRight},
		{Header: "Description", Width: 104, Align: AlignLeft},
	}

	inventoryColumns = []Column{
		{Header: "Subcategory", Width: 50, Align: AlignLeft},
		{Header: "Details", Width: 84, Align: AlignLeft},
		{Header: "Price", Width: 40, Align: AlignRight},
	}
)
