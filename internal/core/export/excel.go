package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Agenda"

// ExcelExporter writes .xlsx workbooks using excelize.
type ExcelExporter struct{}

func NewExcelExporter() *ExcelExporter {
	return &ExcelExporter{}
}

func (e *ExcelExporter) Export(table *Table, writer io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	rowIndex := 1
	if table.Title != "" {
		titleStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
		f.SetCellValue(sheetName, cellName(1, rowIndex), table.Title)
		f.SetCellStyle(sheetName, cellName(1, rowIndex), cellName(1, rowIndex), titleStyle)
		rowIndex++

		if table.Description != "" {
			f.SetCellValue(sheetName, cellName(1, rowIndex), table.Description)
			rowIndex++
		}
		rowIndex++
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: table.Style.FontSize, Color: "FFFFFF"},
		Fill: excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{stripHash(table.Style.HeaderBgColor)},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	headerRow := rowIndex
	for col, header := range table.Headers {
		cell := cellName(col+1, rowIndex)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)

		if width, ok := table.Style.ColumnWidths[col]; ok {
			name := columnName(col + 1)
			f.SetColWidth(sheetName, name, name, width)
		}
	}
	rowIndex++

	oddStyle, _ := rowStyle(f, table.Style, table.Style.RowBgColor1)
	evenStyle := oddStyle
	if table.Style.AlternateRows {
		evenStyle, _ = rowStyle(f, table.Style, table.Style.RowBgColor2)
	}

	for i, row := range table.Rows {
		style := oddStyle
		if i%2 == 1 {
			style = evenStyle
		}
		for col, value := range row {
			cell := cellName(col+1, rowIndex)
			f.SetCellValue(sheetName, cell, value)
			f.SetCellStyle(sheetName, cell, cell, style)
		}
		rowIndex++
	}

	if table.Style.FreezeHeader {
		f.SetPanes(sheetName, &excelize.Panes{
			Freeze:      true,
			YSplit:      headerRow,
			TopLeftCell: cellName(1, headerRow+1),
			ActivePane:  "bottomLeft",
		})
	}

	if table.Style.AutoFilter && len(table.Headers) > 0 {
		ref := fmt.Sprintf("%s:%s", cellName(1, headerRow), cellName(len(table.Headers), headerRow+len(table.Rows)))
		f.AutoFilter(sheetName, ref, nil)
	}

	if err := f.Write(writer); err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}
	return nil
}

func (e *ExcelExporter) GetContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (e *ExcelExporter) GetFileExtension() string {
	return ".xlsx"
}

func rowStyle(f *excelize.File, style Style, bgColor string) (int, error) {
	s := &excelize.Style{Font: &excelize.Font{Size: style.FontSize}}
	if bgColor != "" && bgColor != "#FFFFFF" {
		s.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{stripHash(bgColor)}}
	}
	return f.NewStyle(s)
}

func cellName(col, row int) string {
	return columnName(col) + strconv.Itoa(row)
}

// columnName converts a 1-based column number to its letters (1 -> A, 27 -> AA).
func columnName(col int) string {
	name := ""
	for col > 0 {
		col--
		name = string(rune('A'+(col%26))) + name
		col /= 26
	}
	return name
}

func stripHash(color string) string {
	if len(color) > 0 && color[0] == '#' {
		return color[1:]
	}
	return color
}
