package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"finledger/internal/core"
)

func sampleExpenses() []core.Expense {
	return []core.Expense{
		{
			Type:         "Food",
			Description:  "groceries, weekly",
			DatePurchase: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			Amount:       core.Money{Cents: 5025},
		},
		{
			Type:         "Travel",
			Description:  "train ticket",
			DatePurchase: time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
			Amount:       core.Money{Cents: 120_000},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleExpenses()); err != nil {
		t.Fatalf("write: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(records))
	}
	if got := strings.Join(records[0], ","); got != "Type,Description,Date,Amount" {
		t.Fatalf("header: got %q", got)
	}
	if records[1][2] != "2025-03-01" {
		t.Fatalf("date format: got %q", records[1][2])
	}
	if records[1][3] != "50.25" {
		t.Fatalf("amount format: got %q", records[1][3])
	}
	// a description containing a comma survives the round trip
	if records[1][1] != "groceries, weekly" {
		t.Fatalf("description: got %q", records[1][1])
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "Type,Description,Date,Amount" {
		t.Fatalf("expected header only, got %q", got)
	}
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePDF(&buf, sampleExpenses()); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Fatal("output does not start with a PDF header")
	}
}
