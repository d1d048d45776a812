// Package export renders expense listings as downloadable CSV and PDF
// reports. Both formats share the same four columns.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"finledger/internal/core"
)

var reportHeader = []string{"Type", "Description", "Date", "Amount"}

// WriteCSV writes the expense report with the standard header row.
func WriteCSV(w io.Writer, expenses []core.Expense) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(reportHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range expenses {
		record := []string{
			e.Type,
			e.Description,
			e.DatePurchase.Format("2006-01-02"),
			fmt.Sprintf("%.2f", e.Amount.Float()),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
