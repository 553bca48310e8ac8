package store

import (
	"context"
	"database/sql"
	"errors"
)

func (s *Store) CreateEmployee(ctx context.Context, branchID int64, name string) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO employees (branch_id, name) VALUES (?, ?)`,
		branchID, name,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (s *Store) GetEmployee(ctx context.Context, id int64) (Employee, error) {
	var e Employee
	err := s.db.QueryRowContext(ctx,
		`SELECT id, branch_id, name, archived FROM employees WHERE id = ?`,
		id,
	).Scan(&e.ID, &e.BranchID, &e.Name, &e.Archived)
	if errors.Is(err, sql.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	return e, err
}

// ListBranchEmployees returns the active staff directory for one branch.
func (s *Store) ListBranchEmployees(ctx context.Context, branchID int64) ([]Employee, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, branch_id, name, archived FROM employees
		 WHERE branch_id = ? AND archived = 0 ORDER BY name`,
		branchID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		var e Employee
		if err := rows.Scan(&e.ID, &e.BranchID, &e.Name, &e.Archived); err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

func (s *Store) ArchiveEmployee(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `UPDATE employees SET archived = 1 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
