package export

import (
	"bytes"
	"errors"
	"fmt"
)

// ErrUnsupportedFormat is returned for a format without an exporter.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Service picks the exporter for a format.
type Service struct {
	exporters map[Format]Exporter
}

func NewService() *Service {
	return &Service{exporters: map[Format]Exporter{
		FormatExcel: NewExcelExporter(),
		FormatPDF:   NewPDFExporter(),
	}}
}

// File is a rendered export.
type File struct {
	Content     []byte
	ContentType string
	Extension   string
}

// ParseFormat accepts "xlsx", "excel" and "pdf"; empty means xlsx.
func ParseFormat(value string) (Format, error) {
	switch value {
	case "", "xlsx", "excel":
		return FormatExcel, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, value)
	}
}

// Render renders table in the given format.
func (s *Service) Render(table *Table, format Format) (*File, error) {
	exporter, ok := s.exporters[format]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	var buf bytes.Buffer
	if err := exporter.Export(table, &buf); err != nil {
		return nil, fmt.Errorf("%s export failed: %w", format, err)
	}

	return &File{
		Content:     buf.Bytes(),
		ContentType: exporter.GetContentType(),
		Extension:   exporter.GetFileExtension(),
	}, nil
}
