package store

import "context"

// SalesFilter narrows the sales list; zero values mean "no constraint".
type SalesFilter struct {
	BranchID int64
	From     string
	To       string
	Search   string
}

func (s *Store) InsertSale(ctx context.Context, sale Sale) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO sales (branch_id, sale_date, staff_name, product, quantity, amount, channel, note)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sale.BranchID, sale.SaleDate, sale.StaffName, sale.Product,
		sale.Quantity, sale.Amount, sale.Channel, sale.Note,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (s *Store) ListSales(ctx context.Context, filter SalesFilter) ([]Sale, error) {
	query := `SELECT id, branch_id, sale_date, staff_name, product, quantity, amount, channel, note
		FROM sales WHERE 1=1`
	var args []any

	if filter.BranchID != 0 {
		query += ` AND branch_id = ?`
		args = append(args, filter.BranchID)
	}
	if filter.From != "" {
		query += ` AND sale_date >= ?`
		args = append(args, filter.From)
	}
	if filter.To != "" {
		query += ` AND sale_date <= ?`
		args = append(args, filter.To)
	}
	if filter.Search != "" {
		query += ` AND (LOWER(product) LIKE LOWER(?) OR LOWER(staff_name) LIKE LOWER(?))`
		like := "%" + filter.Search + "%"
		args = append(args, like, like)
	}
	query += ` ORDER BY sale_date DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []Sale
	for rows.Next() {
		var sale Sale
		if err := rows.Scan(&sale.ID, &sale.BranchID, &sale.SaleDate, &sale.StaffName,
			&sale.Product, &sale.Quantity, &sale.Amount, &sale.Channel, &sale.Note); err != nil {
			return nil, err
		}
		sales = append(sales, sale)
	}
	return sales, rows.Err()
}

// DailySalesTotal sums amounts for one branch and date; the dashboard's
// headline number.
func (s *Store) DailySalesTotal(ctx context.Context, branchID int64, date string) (float64, error) {
	var total float64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM sales WHERE branch_id = ? AND sale_date = ?`,
		branchID, date,
	).Scan(&total)
	return total, err
}
