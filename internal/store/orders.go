package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Orders advance strictly forward through the pipeline.
var orderStatusRank = map[string]int{
	OrderReceived:  0,
	OrderPacked:    1,
	OrderShipped:   2,
	OrderDelivered: 3,
}

type OrdersFilter struct {
	BranchID int64
	Status   string
	Search   string
}

func (s *Store) InsertOrder(ctx context.Context, o Order) (int64, error) {
	if o.Status == "" {
		o.Status = OrderReceived
	}
	if _, ok := orderStatusRank[o.Status]; !ok {
		return 0, fmt.Errorf("invalid order status %q", o.Status)
	}
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO orders (branch_id, order_no, customer, address, status, placed_date, shipped_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		o.BranchID, o.OrderNo, o.Customer, o.Address, o.Status, o.PlacedDate, o.ShippedDate,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (s *Store) GetOrderByNo(ctx context.Context, orderNo string) (Order, error) {
	var o Order
	err := s.db.QueryRowContext(ctx,
		`SELECT id, branch_id, order_no, customer, address, status, placed_date, shipped_date
		 FROM orders WHERE order_no = ?`,
		orderNo,
	).Scan(&o.ID, &o.BranchID, &o.OrderNo, &o.Customer, &o.Address, &o.Status, &o.PlacedDate, &o.ShippedDate)
	if errors.Is(err, sql.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	return o, err
}

func (s *Store) ListOrders(ctx context.Context, filter OrdersFilter) ([]Order, error) {
	query := `SELECT id, branch_id, order_no, customer, address, status, placed_date, shipped_date
		FROM orders WHERE 1=1`
	var args []any

	if filter.BranchID != 0 {
		query += ` AND branch_id = ?`
		args = append(args, filter.BranchID)
	}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, filter.Status)
	}
	if filter.Search != "" {
		query += ` AND (LOWER(customer) LIKE LOWER(?) OR order_no LIKE ?)`
		like := "%" + filter.Search + "%"
		args = append(args, like, like)
	}
	query += ` ORDER BY placed_date DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.BranchID, &o.OrderNo, &o.Customer, &o.Address,
			&o.Status, &o.PlacedDate, &o.ShippedDate); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// AdvanceOrderStatus moves an order to a later pipeline stage. Moving
// backwards or skipping to an unknown status is rejected before any
// write happens.
func (s *Store) AdvanceOrderStatus(ctx context.Context, orderNo, status, shippedDate string) error {
	rank, ok := orderStatusRank[status]
	if !ok {
		return fmt.Errorf("invalid order status %q", status)
	}

	current, err := s.GetOrderByNo(ctx, orderNo)
	if err != nil {
		return err
	}
	if rank <= orderStatusRank[current.Status] {
		return fmt.Errorf("order %s is already %s", orderNo, current.Status)
	}

	if status == OrderShipped && shippedDate == "" {
		return errors.New("shipped date is required when marking an order shipped")
	}
	if status != OrderShipped {
		shippedDate = current.ShippedDate
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE orders SET status = ?, shipped_date = ? WHERE order_no = ?`,
		status, shippedDate, orderNo,
	)
	return err
}
