package store

import (
	"context"
	"database/sql"
	"errors"
)

func (s *Store) CreateBranch(ctx context.Context, b Branch) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO branches (code, name, address, phone) VALUES (?, ?, ?, ?)`,
		b.Code, b.Name, b.Address, b.Phone,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (s *Store) GetBranchByCode(ctx context.Context, code string) (Branch, error) {
	var b Branch
	err := s.db.QueryRowContext(ctx,
		`SELECT id, code, name, address, phone FROM branches WHERE code = ?`,
		code,
	).Scan(&b.ID, &b.Code, &b.Name, &b.Address, &b.Phone)
	if errors.Is(err, sql.ErrNoRows) {
		return Branch{}, ErrNotFound
	}
	return b, err
}

func (s *Store) GetBranch(ctx context.Context, id int64) (Branch, error) {
	var b Branch
	err := s.db.QueryRowContext(ctx,
		`SELECT id, code, name, address, phone FROM branches WHERE id = ?`,
		id,
	).Scan(&b.ID, &b.Code, &b.Name, &b.Address, &b.Phone)
	if errors.Is(err, sql.ErrNoRows) {
		return Branch{}, ErrNotFound
	}
	return b, err
}

func (s *Store) ListBranches(ctx context.Context) ([]Branch, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, code, name, address, phone FROM branches ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var branches []Branch
	for rows.Next() {
		var b Branch
		if err := rows.Scan(&b.ID, &b.Code, &b.Name, &b.Address, &b.Phone); err != nil {
			return nil, err
		}
		branches = append(branches, b)
	}
	return branches, rows.Err()
}

func (s *Store) UpdateBranch(ctx context.Context, code string, name, address, phone string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE branches SET name = ?, address = ?, phone = ? WHERE code = ?`,
		name, address, phone, code,
	)
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

func (s *Store) DeleteBranch(ctx context.Context, code string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM branches WHERE code = ?`, code)
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
