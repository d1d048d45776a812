package export

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"finledger/internal/core"
)

// column widths in mm for an A4 portrait page
var pdfWidths = [4]float64{35, 75, 35, 30}

// WritePDF renders the expense report as a four-column table.
func WritePDF(w io.Writer, expenses []core.Expense) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Expense Report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, "Expense Report", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range reportHeader {
		pdf.CellFormat(pdfWidths[i], 8, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	var total int64
	for _, e := range expenses {
		pdf.CellFormat(pdfWidths[0], 7, e.Type, "1", 0, "L", false, 0, "")
		pdf.CellFormat(pdfWidths[1], 7, e.Description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(pdfWidths[2], 7, e.DatePurchase.Format("2006-01-02"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(pdfWidths[3], 7, fmt.Sprintf("%.2f", e.Amount.Float()), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
		total += e.Amount.Cents
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(pdfWidths[0]+pdfWidths[1]+pdfWidths[2], 8, "Total", "1", 0, "L", false, 0, "")
	pdf.CellFormat(pdfWidths[3], 8, fmt.Sprintf("%.2f", core.Money{Cents: total}.Float()), "1", 0, "R", false, 0, "")
	pdf.Ln(-1)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}
