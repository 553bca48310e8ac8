package excelreport_test

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/zdevbro-cpu/las-backoffice/internal/excelreport"
	"github.com/zdevbro-cpu/las-backoffice/internal/schedule"
	"github.com/zdevbro-cpu/las-backoffice/internal/store"
)

func TestWriteSalesReport(t *testing.T) {
	branch := store.Branch{Code: "B001", Name: "Central"}
	sales := []store.Sale{
		{SaleDate: "2026-03-02", StaffName: "Mika", Product: "Workbook A", Quantity: 2, Amount: 30, Channel: "store"},
		{SaleDate: "2026-03-03", StaffName: "Yuna", Product: "Flash cards", Quantity: 1, Amount: 12, Channel: "online"},
	}

	var buf bytes.Buffer
	if err := excelreport.WriteSalesReport(&buf, branch, sales); err != nil {
		t.Fatalf("write report: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("reopen report: %v", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if got, _ := f.GetCellValue(sheet, "A1"); got != "Date" {
		t.Errorf("A1 = %q, want Date", got)
	}
	if got, _ := f.GetCellValue(sheet, "C2"); got != "Workbook A" {
		t.Errorf("C2 = %q, want Workbook A", got)
	}
	if got, _ := f.GetCellValue(sheet, "E4"); got != "42" {
		t.Errorf("total cell = %q, want 42", got)
	}
}

func TestWriteWeekScheduleReport(t *testing.T) {
	week, err := schedule.ParseWeek("2026-02-23")
	if err != nil {
		t.Fatalf("parse week: %v", err)
	}
	mika := schedule.Employee{ID: 1, Name: "Mika"}
	entries := []schedule.Entry{
		{Employee: mika, Date: "2026-02-23", Start: "09:00", End: "17:00"},
		{Employee: mika, Date: "2026-02-25", Start: "09:00", End: "13:30"},
	}

	var buf bytes.Buffer
	if err := excelreport.WriteWeekScheduleReport(&buf, week, []schedule.Employee{mika}, entries); err != nil {
		t.Fatalf("write report: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("reopen report: %v", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if got, _ := f.GetCellValue(sheet, "B1"); got != "2026-02-23" {
		t.Errorf("B1 = %q, want 2026-02-23", got)
	}
	if got, _ := f.GetCellValue(sheet, "B2"); got != "09:00-17:00 (8.0h)" {
		t.Errorf("B2 = %q", got)
	}
	if got, _ := f.GetCellValue(sheet, "I2"); got != "12.5" {
		t.Errorf("weekly total = %q, want 12.5", got)
	}
}

func TestReadSalesLedgerRoundTrip(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"Date", "Staff", "Product", "Qty", "Amount"},
		{"2026-03-02", "Mika", "Workbook A", 2, 30},
		{"03/05/2026", "Yuna", "Flash cards", "", "1,250"},
		{"not a date", "Yuna", "Broken row", 1, 5},
	}
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				t.Fatalf("set cell: %v", err)
			}
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	parsed, skipped, err := excelreport.ReadSalesLedger(&buf, "ledger.xlsx")
	if err != nil {
		t.Fatalf("read ledger: %v", err)
	}
	if len(parsed) != 2 {
		t.Fatalf("parsed %d rows, want 2 (skipped: %v)", len(parsed), skipped)
	}
	if parsed[0].SaleDate != "2026-03-02" || parsed[0].Quantity != 2 {
		t.Errorf("row 1 = %+v", parsed[0])
	}
	if parsed[1].SaleDate != "2026-03-05" || parsed[1].Amount != 1250 {
		t.Errorf("row 2 = %+v", parsed[1])
	}
	if parsed[1].Quantity != 1 {
		t.Errorf("missing quantity should default to 1, got %d", parsed[1].Quantity)
	}
	if len(skipped) != 1 {
		t.Errorf("expected one skipped row, got %v", skipped)
	}

	sales := excelreport.ToSales(parsed, 7)
	if len(sales) != 2 || sales[0].BranchID != 7 || sales[0].Channel != "import" {
		t.Errorf("converted sales = %+v", sales)
	}
}

func TestReadSalesLedgerRequiresColumns(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	_ = f.SetCellValue(sheet, "A1", "Something")
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	if _, _, err := excelreport.ReadSalesLedger(&buf, "ledger.xlsx"); err == nil {
		t.Fatalf("expected error for missing columns")
	}
}
