package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter renders a Dataset as a one-table PDF, the printable form of
// a roster or register handed out in class.
type PDFExporter struct{}

// NewPDFExporter builds a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render lays the dataset out as a titled table on A4 portrait pages.
// Column widths are split evenly across the printable area.
func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetMargins(12, 14, 12)
	doc.AddPage()

	if title != "" {
		doc.SetFont("Helvetica", "B", 13)
		doc.CellFormat(0, 9, title, "", 1, "L", false, 0, "")
		doc.Ln(3)
	}

	width := 186.0 / float64(len(data.Headers))

	doc.SetFont("Helvetica", "B", 10)
	doc.SetFillColor(235, 235, 235)
	for _, header := range data.Headers {
		doc.CellFormat(width, 8, header, "1", 0, "L", true, 0, "")
	}
	doc.Ln(-1)

	doc.SetFont("Helvetica", "", 9)
	for _, row := range data.Rows {
		for _, header := range data.Headers {
			doc.CellFormat(width, 7, row[header], "1", 0, "L", false, 0, "")
		}
		doc.Ln(-1)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
