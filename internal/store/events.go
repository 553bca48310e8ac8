package store

import (
	"context"
	"database/sql"
	"errors"
)

func (s *Store) CreateEvent(ctx context.Context, e Event) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO events (branch_id, title, starts_on, ends_on, landing_slug)
		 VALUES (?, ?, ?, ?, ?)`,
		e.BranchID, e.Title, e.StartsOn, e.EndsOn, e.LandingSlug,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (s *Store) ListBranchEvents(ctx context.Context, branchID int64) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, branch_id, title, starts_on, ends_on, landing_slug
		 FROM events WHERE branch_id = ? ORDER BY starts_on DESC`,
		branchID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.BranchID, &e.Title, &e.StartsOn, &e.EndsOn, &e.LandingSlug); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (s *Store) GetEvent(ctx context.Context, id int64) (Event, error) {
	var e Event
	err := s.db.QueryRowContext(ctx,
		`SELECT id, branch_id, title, starts_on, ends_on, landing_slug FROM events WHERE id = ?`,
		id,
	).Scan(&e.ID, &e.BranchID, &e.Title, &e.StartsOn, &e.EndsOn, &e.LandingSlug)
	if errors.Is(err, sql.ErrNoRows) {
		return Event{}, ErrNotFound
	}
	return e, err
}

func (s *Store) GetEventBySlug(ctx context.Context, slug string) (Event, error) {
	var e Event
	err := s.db.QueryRowContext(ctx,
		`SELECT id, branch_id, title, starts_on, ends_on, landing_slug FROM events WHERE landing_slug = ?`,
		slug,
	).Scan(&e.ID, &e.BranchID, &e.Title, &e.StartsOn, &e.EndsOn, &e.LandingSlug)
	if errors.Is(err, sql.ErrNoRows) {
		return Event{}, ErrNotFound
	}
	return e, err
}

func (s *Store) CreateReferral(ctx context.Context, r Referral) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO referrals (event_id, code, referrer_name, phone) VALUES (?, ?, ?, ?)`,
		r.EventID, r.Code, r.ReferrerName, r.Phone,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (s *Store) GetReferralByCode(ctx context.Context, code string) (Referral, error) {
	var r Referral
	err := s.db.QueryRowContext(ctx,
		`SELECT id, event_id, code, referrer_name, phone FROM referrals WHERE code = ?`,
		code,
	).Scan(&r.ID, &r.EventID, &r.Code, &r.ReferrerName, &r.Phone)
	if errors.Is(err, sql.ErrNoRows) {
		return Referral{}, ErrNotFound
	}
	return r, err
}

func (s *Store) ListEventReferrals(ctx context.Context, eventID int64) ([]Referral, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, event_id, code, referrer_name, phone FROM referrals
		 WHERE event_id = ? ORDER BY id DESC`,
		eventID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var referrals []Referral
	for rows.Next() {
		var r Referral
		if err := rows.Scan(&r.ID, &r.EventID, &r.Code, &r.ReferrerName, &r.Phone); err != nil {
			return nil, err
		}
		referrals = append(referrals, r)
	}
	return referrals, rows.Err()
}

func (s *Store) CreateLetterSignup(ctx context.Context, referralID int64, signedUpOn string) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO letter_signups (referral_id, signed_up_on) VALUES (?, ?)`,
		referralID, signedUpOn,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// ListLetterSignups returns every signup reachable from one branch's
// events, with the step numbers already sent for each.
func (s *Store) ListLetterSignups(ctx context.Context, branchID int64) ([]LetterSignup, map[int64][]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT ls.id, ls.referral_id, r.referrer_name, ls.signed_up_on
		 FROM letter_signups ls
		 JOIN referrals r ON r.id = ls.referral_id
		 JOIN events e ON e.id = r.event_id
		 WHERE e.branch_id = ?
		 ORDER BY ls.signed_up_on`,
		branchID,
	)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var signups []LetterSignup
	for rows.Next() {
		var su LetterSignup
		if err := rows.Scan(&su.ID, &su.ReferralID, &su.ReferrerName, &su.SignedUpOn); err != nil {
			return nil, nil, err
		}
		signups = append(signups, su)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	sent := make(map[int64][]int)
	sendRows, err := s.db.QueryContext(ctx,
		`SELECT ls.signup_id, ls.step
		 FROM letter_sends ls
		 JOIN letter_signups su ON su.id = ls.signup_id
		 JOIN referrals r ON r.id = su.referral_id
		 JOIN events e ON e.id = r.event_id
		 WHERE e.branch_id = ?`,
		branchID,
	)
	if err != nil {
		return nil, nil, err
	}
	defer sendRows.Close()

	for sendRows.Next() {
		var signupID int64
		var step int
		if err := sendRows.Scan(&signupID, &step); err != nil {
			return nil, nil, err
		}
		sent[signupID] = append(sent[signupID], step)
	}
	return signups, sent, sendRows.Err()
}

func (s *Store) RecordLetterSend(ctx context.Context, signupID int64, step int, sentOn string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO letter_sends (signup_id, step, sent_on) VALUES (?, ?, ?)`,
		signupID, step, sentOn,
	)
	return err
}
