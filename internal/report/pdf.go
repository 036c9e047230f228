// Package report renders the downloadable AQI summary PDF.
package report

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// Summary holds the flat key/value record the report is built from.
// Values arrive as strings straight from query parameters; the report
// does not re-validate them.
type Summary struct {
	City string
	PM25 string
	CO   string
	NO2  string
	AQI  string
}

// Build renders the report and returns the PDF bytes.
func Build(s Summary) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "", 16)
	pdf.CellFormat(200, 10, "AirAware - AQI Report", "", 1, "C", false, 0, "")
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(200, 10, fmt.Sprintf("City  : %s", s.City), "", 1, "", false, 0, "")
	pdf.CellFormat(200, 10, fmt.Sprintf("PM2.5 : %s", s.PM25), "", 1, "", false, 0, "")
	pdf.CellFormat(200, 10, fmt.Sprintf("CO    : %s", s.CO), "", 1, "", false, 0, "")
	pdf.CellFormat(200, 10, fmt.Sprintf("NO2   : %s", s.NO2), "", 1, "", false, 0, "")
	pdf.CellFormat(200, 10, fmt.Sprintf("AQI   : %s", s.AQI), "", 1, "", false, 0, "")

	pdf.Ln(10)
	pdf.MultiCell(0, 10, "This report was generated using AirAware Dashboard.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	return buf.Bytes(), nil
}
