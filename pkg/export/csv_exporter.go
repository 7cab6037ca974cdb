package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// CSVExporter renders each document section as a headed CSV block.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// ContentType implements Renderer.
func (e *CSVExporter) ContentType() string { return "text/csv" }

// Extension implements Renderer.
func (e *CSVExporter) Extension() string { return "csv" }

// Render produces CSV encoded bytes; sections are separated by an empty record.
func (e *CSVExporter) Render(doc Document) ([]byte, error) {
	if len(doc.Sections) == 0 {
		return nil, fmt.Errorf("csv requires at least one section")
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	for i, section := range doc.Sections {
		if len(section.Headers) == 0 {
			return nil, fmt.Errorf("section %q has no headers", section.Heading)
		}
		if i > 0 {
			if err := writer.Write([]string{""}); err != nil {
				return nil, fmt.Errorf("write csv separator: %w", err)
			}
		}
		if section.Heading != "" {
			if err := writer.Write([]string{"# " + section.Heading}); err != nil {
				return nil, fmt.Errorf("write csv heading: %w", err)
			}
		}
		if err := writer.Write(section.Headers); err != nil {
			return nil, fmt.Errorf("write csv headers: %w", err)
		}
		for _, row := range section.Rows {
			record := make([]string, len(section.Headers))
			copy(record, row)
			if err := writer.Write(record); err != nil {
				return nil, fmt.Errorf("write csv row: %w", err)
			}
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
