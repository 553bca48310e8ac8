// Package excelreport produces the spreadsheets branch managers download
// and consumes the legacy ledgers they upload.
package excelreport

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/zdevbro-cpu/las-backoffice/internal/schedule"
	"github.com/zdevbro-cpu/las-backoffice/internal/store"
)

// WriteSalesReport writes one row per sale plus a total row.
func WriteSalesReport(w io.Writer, branch store.Branch, sales []store.Sale) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	headers := []string{"Date", "Staff", "Product", "Qty", "Amount", "Channel", "Note"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	var total float64
	for i, sale := range sales {
		row := i + 2
		values := []any{sale.SaleDate, sale.StaffName, sale.Product, sale.Quantity, sale.Amount, sale.Channel, sale.Note}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
		total += sale.Amount
	}

	totalRow := len(sales) + 2
	labelCell, _ := excelize.CoordinatesToCellName(1, totalRow)
	totalCell, _ := excelize.CoordinatesToCellName(5, totalRow)
	if err := f.SetCellValue(sheet, labelCell, fmt.Sprintf("Total (%s)", branch.Code)); err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, totalCell, total); err != nil {
		return err
	}

	return f.Write(w)
}

// WriteWeekScheduleReport lays the grid out one employee per row with a
// column per weekday and a weekly-total column.
func WriteWeekScheduleReport(w io.Writer, week schedule.Week, employees []schedule.Employee, entries []schedule.Entry) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	if err := f.SetCellValue(sheet, "A1", "Employee"); err != nil {
		return err
	}
	for i, date := range week.DateStrings() {
		cell, _ := excelize.CoordinatesToCellName(i+2, 1)
		if err := f.SetCellValue(sheet, cell, date); err != nil {
			return err
		}
	}
	totalHeader, _ := excelize.CoordinatesToCellName(9, 1)
	if err := f.SetCellValue(sheet, totalHeader, "Total"); err != nil {
		return err
	}

	byCell := make(map[schedule.CellRef]schedule.Entry, len(entries))
	for _, e := range entries {
		byCell[schedule.CellRef{EmployeeKey: e.Employee.Key(), Date: e.Date}] = e
	}

	for i, emp := range employees {
		row := i + 2
		nameCell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetCellValue(sheet, nameCell, emp.Name); err != nil {
			return err
		}
		for d, date := range week.DateStrings() {
			entry, ok := byCell[schedule.CellRef{EmployeeKey: emp.Key(), Date: date}]
			if !ok {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(d+2, row)
			label := entry.Start + "-" + entry.End
			if h, ok := entry.Hours(); ok {
				label = fmt.Sprintf("%s (%.1fh)", label, h)
			}
			if err := f.SetCellValue(sheet, cell, label); err != nil {
				return err
			}
		}
		totalCell, _ := excelize.CoordinatesToCellName(9, row)
		if err := f.SetCellValue(sheet, totalCell, schedule.WeeklyTotal(entries, emp.Key(), week)); err != nil {
			return err
		}
	}

	return f.Write(w)
}
