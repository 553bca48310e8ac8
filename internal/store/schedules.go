package store

import (
	"context"
	"database/sql"
	"errors"
)

// SelectSchedules returns planned intervals for a branch whose date falls
// in [from, to]. The grid asks for its week padded one day on each side.
func (s *Store) SelectSchedules(ctx context.Context, branchID int64, from, to string) ([]ScheduleRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT branch_id, employee_id, work_date, start_time, end_time, hours
		 FROM schedules WHERE branch_id = ? AND work_date >= ? AND work_date <= ?
		 ORDER BY work_date, employee_id`,
		branchID, from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ScheduleRow
	for rows.Next() {
		var row ScheduleRow
		if err := rows.Scan(&row.BranchID, &row.EmployeeID, &row.WorkDate,
			&row.StartTime, &row.EndTime, &row.Hours); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (s *Store) SelectOneSchedule(ctx context.Context, employeeID int64, workDate string) (ScheduleRow, error) {
	var row ScheduleRow
	err := s.db.QueryRowContext(ctx,
		`SELECT branch_id, employee_id, work_date, start_time, end_time, hours
		 FROM schedules WHERE employee_id = ? AND work_date = ?`,
		employeeID, workDate,
	).Scan(&row.BranchID, &row.EmployeeID, &row.WorkDate, &row.StartTime, &row.EndTime, &row.Hours)
	if errors.Is(err, sql.ErrNoRows) {
		return ScheduleRow{}, ErrNotFound
	}
	return row, err
}

func (s *Store) InsertSchedule(ctx context.Context, row ScheduleRow) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO schedules (branch_id, employee_id, work_date, start_time, end_time, hours)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		row.BranchID, row.EmployeeID, row.WorkDate, row.StartTime, row.EndTime, row.Hours,
	)
	return err
}

func (s *Store) UpdateSchedule(ctx context.Context, row ScheduleRow) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE schedules SET start_time = ?, end_time = ?, hours = ?
		 WHERE employee_id = ? AND work_date = ?`,
		row.StartTime, row.EndTime, row.Hours, row.EmployeeID, row.WorkDate,
	)
	return err
}

// UpsertSchedule is a select-by-key followed by a conditional insert or
// update, not an atomic statement. Two sessions flushing the same cell at
// the same time can race, with the later write winning; a known
// limitation of the save flow.
func (s *Store) UpsertSchedule(ctx context.Context, row ScheduleRow) error {
	_, err := s.SelectOneSchedule(ctx, row.EmployeeID, row.WorkDate)
	if errors.Is(err, ErrNotFound) {
		return s.InsertSchedule(ctx, row)
	}
	if err != nil {
		return err
	}
	return s.UpdateSchedule(ctx, row)
}

// DeleteSchedule removes the row for a cleared cell. Clearing must be a
// real delete; an update with empty fields would leave a junk row behind.
func (s *Store) DeleteSchedule(ctx context.Context, employeeID int64, workDate string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM schedules WHERE employee_id = ? AND work_date = ?`,
		employeeID, workDate,
	)
	return err
}

// SelectDiaries returns actual worked intervals for a branch in
// [from, to]. Diaries are read-only to the grid.
func (s *Store) SelectDiaries(ctx context.Context, branchID int64, from, to string) ([]DiaryRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT branch_id, employee_id, work_date, start_time, end_time, hours, checklist_done, note
		 FROM diaries WHERE branch_id = ? AND work_date >= ? AND work_date <= ?
		 ORDER BY work_date, employee_id`,
		branchID, from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DiaryRow
	for rows.Next() {
		var row DiaryRow
		if err := rows.Scan(&row.BranchID, &row.EmployeeID, &row.WorkDate, &row.StartTime,
			&row.EndTime, &row.Hours, &row.ChecklistDone, &row.Note); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// InsertDiary records an actual worked interval. Written by the staff
// check-in flow, never by the schedule grid.
func (s *Store) InsertDiary(ctx context.Context, row DiaryRow) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO diaries (branch_id, employee_id, work_date, start_time, end_time, hours, checklist_done, note)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		row.BranchID, row.EmployeeID, row.WorkDate, row.StartTime, row.EndTime,
		row.Hours, row.ChecklistDone, row.Note,
	)
	return err
}
