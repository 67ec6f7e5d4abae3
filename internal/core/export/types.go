package export

import (
	"io"
	"time"
)

// Format is an export file format.
type Format string

const (
	FormatExcel Format = "xlsx"
	FormatPDF   Format = "pdf"
)

// Exporter renders a table into one file format.
type Exporter interface {
	Export(table *Table, writer io.Writer) error
	GetContentType() string
	GetFileExtension() string
}

// Table is a titled grid of cells ready to be rendered.
type Table struct {
	Title       string
	Description string
	GeneratedAt time.Time

	Headers []string
	Rows    [][]interface{}

	Style Style
}

// Style holds the rendering options shared by every format.
type Style struct {
	Landscape bool

	HeaderBgColor string // hex
	AlternateRows bool
	RowBgColor1   string
	RowBgColor2   string

	FontSize float64

	// Excel only
	FreezeHeader bool
	AutoFilter   bool
	ColumnWidths map[int]float64 // column index -> width
}

// DefaultStyle returns the house style of exported documents.
func DefaultStyle() Style {
	return Style{
		HeaderBgColor: "#1F2937",
		AlternateRows: true,
		RowBgColor1:   "#FFFFFF",
		RowBgColor2:   "#F3F4F6",
		FontSize:      10,
		FreezeHeader:  true,
		AutoFilter:    true,
		ColumnWidths:  make(map[int]float64),
	}
}
