package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/zdevbro-cpu/las-backoffice/internal/security"
)

// LookupUserByUsername returns the user and its stored password hash.
// Verification happens in the handler so the hash never leaves this call
// path.
func (s *Store) LookupUserByUsername(ctx context.Context, username string) (User, string, error) {
	var (
		u        User
		hash     string
		branchID sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, branch_id, is_admin FROM users WHERE username = ?`,
		username,
	).Scan(&u.ID, &u.Username, &hash, &branchID, &u.IsAdmin)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, "", ErrNotFound
	}
	if err != nil {
		return User{}, "", err
	}
	u.BranchID = branchID.Int64
	return u, hash, nil
}

func (s *Store) CreateUser(ctx context.Context, username, password string, branchID int64, isAdmin bool) (int64, error) {
	hash, err := security.HashPassword(password)
	if err != nil {
		return 0, err
	}
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, branch_id, is_admin) VALUES (?, ?, ?, ?)`,
		username, hash, branchID, isAdmin,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// EnsureAdminUser creates the bootstrap admin if no user with that name
// exists yet. The password is re-hashed on every fresh install.
func (s *Store) EnsureAdminUser(ctx context.Context, username, password string) error {
	_, _, err := s.LookupUserByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}
	_, err = s.CreateUser(ctx, username, password, 0, true)
	return err
}

func (s *Store) CreateSession(ctx context.Context, id string, userID int64, csrfToken string, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, csrf_token, expires_at) VALUES (?, ?, ?, ?)`,
		id, userID, csrfToken, expiresAt.UTC(),
	)
	return err
}

// GetSession returns a live session and its user. Expired sessions are
// reaped on sight.
func (s *Store) GetSession(ctx context.Context, id string) (Session, User, error) {
	var (
		sess     Session
		u        User
		branchID sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT s.id, s.user_id, s.csrf_token, s.expires_at, u.username, u.branch_id, u.is_admin
		 FROM sessions s JOIN users u ON u.id = s.user_id
		 WHERE s.id = ?`,
		id,
	).Scan(&sess.ID, &sess.UserID, &sess.CSRFToken, &sess.ExpiresAt, &u.Username, &branchID, &u.IsAdmin)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, User{}, ErrNotFound
	}
	if err != nil {
		return Session{}, User{}, err
	}
	if time.Now().UTC().After(sess.ExpiresAt) {
		_ = s.DeleteSession(ctx, id)
		return Session{}, User{}, ErrNotFound
	}
	u.ID = sess.UserID
	u.BranchID = branchID.Int64
	return sess, u, nil
}

func (s *Store) DeleteSession(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	return err
}

func (s *Store) DeleteExpiredSessions(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < ?`, time.Now().UTC())
	return err
}
