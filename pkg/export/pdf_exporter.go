package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter renders documents into a landscape tabular PDF.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// ContentType implements Renderer.
func (e *PDFExporter) ContentType() string { return "application/pdf" }

// Extension implements Renderer.
func (e *PDFExporter) Extension() string { return "pdf" }

// Render creates a PDF with a title block followed by one table per section.
func (e *PDFExporter) Render(doc Document) ([]byte, error) {
	if len(doc.Sections) == 0 {
		return nil, fmt.Errorf("pdf requires at least one section")
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.AddPage()
	const usable = 277.0

	if doc.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 9, doc.Title, "", 1, "L", false, 0, "")
	}
	if doc.Subtitle != "" {
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 6, doc.Subtitle, "", 1, "L", false, 0, "")
	}

	for _, section := range doc.Sections {
		if len(section.Headers) == 0 {
			return nil, fmt.Errorf("section %q has no headers", section.Heading)
		}
		pdf.Ln(4)
		if section.Heading != "" {
			pdf.SetFont("Arial", "B", 11)
			pdf.CellFormat(0, 7, section.Heading, "", 1, "L", false, 0, "")
		}

		colWidth := usable / float64(len(section.Headers))
		pdf.SetFont("Arial", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		for _, header := range section.Headers {
			pdf.CellFormat(colWidth, 7, header, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Arial", "", 9)
		if len(section.Rows) == 0 {
			pdf.CellFormat(usable, 7, "-", "1", 1, "C", false, 0, "")
			continue
		}
		for _, row := range section.Rows {
			for i := range section.Headers {
				value := ""
				if i < len(row) {
					value = row[i]
				}
				pdf.CellFormat(colWidth, 6, value, "1", 0, "", false, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
