package excelreport

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/zdevbro-cpu/las-backoffice/internal/store"
)

// LedgerRow is one parsed line of an uploaded sales ledger.
type LedgerRow struct {
	SaleDate  string
	StaffName string
	Product   string
	Quantity  int64
	Amount    float64
}

// ReadSalesLedger parses a legacy branch ledger (.xls or .xlsx). The
// first row must carry date / staff / product / quantity / amount
// headers in any order; unknown columns are ignored. Rows missing a
// parsable date or amount are skipped with a note rather than failing
// the whole upload.
func ReadSalesLedger(reader io.Reader, filename string) ([]LedgerRow, []string, error) {
	rows, err := readRowsFromSpreadsheet(reader, filename)
	if err != nil {
		return nil, nil, err
	}

	header := rows[0]
	dateIdx, staffIdx, productIdx, qtyIdx, amountIdx := -1, -1, -1, -1, -1
	for idx, cell := range header {
		switch normalizeHeader(cell) {
		case "date", "sale date", "sale_date":
			dateIdx = idx
		case "staff", "staff name", "employee":
			staffIdx = idx
		case "product", "item", "description":
			productIdx = idx
		case "qty", "quantity", "count":
			qtyIdx = idx
		case "amount", "total", "price":
			amountIdx = idx
		}
	}
	if dateIdx < 0 || amountIdx < 0 || productIdx < 0 {
		return nil, nil, fmt.Errorf("ledger must have date, product, and amount columns")
	}

	var (
		out     []LedgerRow
		skipped []string
	)
	for i, row := range rows[1:] {
		date, ok := normalizeLedgerDate(cellValue(row, dateIdx))
		if !ok {
			skipped = append(skipped, fmt.Sprintf("row %d: unreadable date %q", i+2, cellValue(row, dateIdx)))
			continue
		}
		amount, err := strconv.ParseFloat(strings.ReplaceAll(cellValue(row, amountIdx), ",", ""), 64)
		if err != nil {
			skipped = append(skipped, fmt.Sprintf("row %d: unreadable amount %q", i+2, cellValue(row, amountIdx)))
			continue
		}

		qty := int64(1)
		if qtyIdx >= 0 {
			if parsed, err := strconv.ParseInt(cellValue(row, qtyIdx), 10, 64); err == nil && parsed > 0 {
				qty = parsed
			}
		}

		out = append(out, LedgerRow{
			SaleDate:  date,
			StaffName: cellValue(row, staffIdx),
			Product:   cellValue(row, productIdx),
			Quantity:  qty,
			Amount:    amount,
		})
	}
	return out, skipped, nil
}

// ToSales converts ledger rows into sale records for one branch.
func ToSales(rows []LedgerRow, branchID int64) []store.Sale {
	sales := make([]store.Sale, 0, len(rows))
	for _, row := range rows {
		sales = append(sales, store.Sale{
			BranchID:  branchID,
			SaleDate:  row.SaleDate,
			StaffName: row.StaffName,
			Product:   row.Product,
			Quantity:  row.Quantity,
			Amount:    row.Amount,
			Channel:   "import",
		})
	}
	return sales
}

func readRowsFromSpreadsheet(reader io.Reader, filename string) ([][]string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".xls":
		workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
		if err != nil {
			return nil, err
		}
		if workbook.NumSheets() == 0 {
			return nil, fmt.Errorf("no worksheet found")
		}
		rows := workbook.ReadAllCells(100000)
		if len(rows) == 0 {
			return nil, fmt.Errorf("worksheet is empty")
		}
		return rows, nil
	default:
		file, err := excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer func() { _ = file.Close() }()

		sheetName := file.GetSheetName(0)
		if sheetName == "" {
			return nil, fmt.Errorf("no worksheet found")
		}
		rows, err := file.GetRows(sheetName)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return nil, fmt.Errorf("worksheet is empty")
		}
		return rows, nil
	}
}

func normalizeHeader(header string) string {
	return strings.ToLower(strings.TrimSpace(header))
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func normalizeLedgerDate(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}

	// Excel numeric date serial, common in exported ledgers.
	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		if serial >= 20000 && serial <= 80000 {
			if parsed, err := excelize.ExcelDateToTime(serial, false); err == nil {
				return parsed.Format("2006-01-02"), true
			}
		}
		return "", false
	}

	formats := []string{
		"2006-01-02",
		"2006/01/02",
		"1/2/2006",
		"01/02/2006",
		"1-2-2006",
		"Jan 2, 2006",
		"2 Jan 2006",
	}
	for _, layout := range formats {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.Format("2006-01-02"), true
		}
	}
	return "", false
}
