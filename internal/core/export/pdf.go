package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter writes a single table report using gofpdf core fonts.
type PDFExporter struct{}

func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

func (p *PDFExporter) Export(table *Table, writer io.Writer) error {
	if len(table.Headers) == 0 {
		return fmt.Errorf("no headers provided")
	}

	orientation := "P"
	if table.Style.Landscape {
		orientation = "L"
	}
	fontSize := table.Style.FontSize
	if fontSize == 0 {
		fontSize = 10
	}

	pdf := gofpdf.New(orientation, "mm", "A4", "")
	// Core fonts are cp1252; translate accented Portuguese text.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	if table.Title != "" {
		pdf.SetFont("Arial", "B", 16)
		pdf.Cell(0, 10, tr(table.Title))
		pdf.Ln(12)
	}
	if table.Description != "" {
		pdf.SetFont("Arial", "", fontSize)
		pdf.MultiCell(0, 5, tr(table.Description), "", "", false)
		pdf.Ln(4)
	}
	if !table.GeneratedAt.IsZero() {
		pdf.SetFont("Arial", "I", 8)
		pdf.Cell(0, 5, tr("Gerado em "+table.GeneratedAt.Format("02/01/2006 15:04")))
		pdf.Ln(8)
	}

	pageWidth, pageHeight := pdf.GetPageSize()
	left, _, right, bottom := pdf.GetMargins()
	colWidth := (pageWidth - left - right) / float64(len(table.Headers))

	header := func() {
		pdf.SetFont("Arial", "B", fontSize)
		fill := table.Style.HeaderBgColor != ""
		if fill {
			r, g, b := hexToRGB(table.Style.HeaderBgColor)
			pdf.SetFillColor(r, g, b)
			pdf.SetTextColor(255, 255, 255)
		}
		for _, h := range table.Headers {
			pdf.CellFormat(colWidth, 7, tr(h), "1", 0, "C", fill, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Arial", "", fontSize)
	}
	header()

	for i, row := range table.Rows {
		if pdf.GetY() > pageHeight-bottom-10 {
			pdf.AddPage()
			header()
		}

		bg := table.Style.RowBgColor1
		if table.Style.AlternateRows && i%2 == 1 {
			bg = table.Style.RowBgColor2
		}
		r, g, b := hexToRGB(bg)
		pdf.SetFillColor(r, g, b)

		for _, value := range row {
			pdf.CellFormat(colWidth, 6, tr(fmt.Sprintf("%v", value)), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(writer); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

func (p *PDFExporter) GetContentType() string {
	return "application/pdf"
}

func (p *PDFExporter) GetFileExtension() string {
	return ".pdf"
}

// hexToRGB parses "#RRGGBB", falling back to white.
func hexToRGB(hex string) (int, int, int) {
	hex = stripHash(hex)
	if len(hex) != 6 {
		return 255, 255, 255
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 255, 255, 255
	}
	return int(v >> 16 & 0xFF), int(v >> 8 & 0xFF), int(v & 0xFF)
}
