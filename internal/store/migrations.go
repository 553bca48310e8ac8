package store

import "database/sql"

func initSchema(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			branch_id INTEGER,
			is_admin INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			user_id INTEGER NOT NULL,
			csrf_token TEXT NOT NULL,
			expires_at DATETIME NOT NULL,
			FOREIGN KEY (user_id) REFERENCES users (id)
		)`,
		`CREATE TABLE IF NOT EXISTS branches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			code TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			address TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS employees (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			branch_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			archived INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (branch_id) REFERENCES branches (id)
		)`,
		`CREATE TABLE IF NOT EXISTS sales (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			branch_id INTEGER NOT NULL,
			sale_date TEXT NOT NULL,
			staff_name TEXT NOT NULL,
			product TEXT NOT NULL,
			quantity INTEGER NOT NULL DEFAULT 1,
			amount REAL NOT NULL,
			channel TEXT NOT NULL DEFAULT 'store',
			note TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (branch_id) REFERENCES branches (id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sales_branch_date ON sales (branch_id, sale_date)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			branch_id INTEGER NOT NULL,
			order_no TEXT NOT NULL UNIQUE,
			customer TEXT NOT NULL,
			address TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'received',
			placed_date TEXT NOT NULL,
			shipped_date TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (branch_id) REFERENCES branches (id)
		)`,
		`CREATE TABLE IF NOT EXISTS events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			branch_id INTEGER NOT NULL,
			title TEXT NOT NULL,
			starts_on TEXT NOT NULL,
			ends_on TEXT NOT NULL,
			landing_slug TEXT NOT NULL UNIQUE,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (branch_id) REFERENCES branches (id)
		)`,
		`CREATE TABLE IF NOT EXISTS referrals (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			event_id INTEGER NOT NULL,
			code TEXT NOT NULL UNIQUE,
			referrer_name TEXT NOT NULL,
			phone TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (event_id) REFERENCES events (id)
		)`,
		`CREATE TABLE IF NOT EXISTS letter_signups (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			referral_id INTEGER NOT NULL,
			signed_up_on TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (referral_id) REFERENCES referrals (id)
		)`,
		`CREATE TABLE IF NOT EXISTS letter_sends (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			signup_id INTEGER NOT NULL,
			step INTEGER NOT NULL,
			sent_on TEXT NOT NULL,
			UNIQUE (signup_id, step),
			FOREIGN KEY (signup_id) REFERENCES letter_signups (id)
		)`,
		`CREATE TABLE IF NOT EXISTS schedules (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			branch_id INTEGER NOT NULL,
			employee_id INTEGER NOT NULL,
			work_date TEXT NOT NULL,
			start_time TEXT NOT NULL DEFAULT '',
			end_time TEXT NOT NULL DEFAULT '',
			hours REAL NOT NULL DEFAULT 0,
			UNIQUE (employee_id, work_date),
			FOREIGN KEY (employee_id) REFERENCES employees (id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_schedules_branch_date ON schedules (branch_id, work_date)`,
		`CREATE TABLE IF NOT EXISTS diaries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			branch_id INTEGER NOT NULL,
			employee_id INTEGER NOT NULL,
			work_date TEXT NOT NULL,
			start_time TEXT NOT NULL DEFAULT '',
			end_time TEXT NOT NULL DEFAULT '',
			hours REAL NOT NULL DEFAULT 0,
			checklist_done INTEGER NOT NULL DEFAULT 0,
			note TEXT NOT NULL DEFAULT '',
			UNIQUE (employee_id, work_date),
			FOREIGN KEY (employee_id) REFERENCES employees (id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_diaries_branch_date ON diaries (branch_id, work_date)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
