package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const currentVersion = 1

// SQLite keeps the document in a SQLite database. Save still rewrites the
// whole document, inside one transaction.
type SQLite struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*SQLite, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*SQLite, error) {
	return New(":memory:")
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *SQLite) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS tasks (
		mode      TEXT NOT NULL,
		position  INTEGER NOT NULL,
		text      TEXT NOT NULL,
		deadline  TEXT NOT NULL DEFAULT '',
		priority  TEXT NOT NULL DEFAULT 'Low',
		done      INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (mode, position)
	);

	CREATE TABLE IF NOT EXISTS session_logs (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp     TEXT NOT NULL,
		label         TEXT NOT NULL,
		duration_sec  INTEGER NOT NULL DEFAULT 0,
		mode          TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_logs_timestamp ON session_logs(timestamp);

	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(ddl)
	return err
}

func (s *SQLite) Load() (*AppData, error) {
	data := NewAppData()

	rows, err := s.db.Query(`SELECT mode, text, deadline, priority, done FROM tasks ORDER BY mode, position`)
	if err != nil {
		return data, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var t Task
		var mode, deadline string
		var done int
		if err := rows.Scan(&mode, &t.Text, &deadline, &t.Priority, &done); err != nil {
			return NewAppData(), err
		}
		if deadline != "" {
			if t.Deadline, err = ParseDate(deadline); err != nil {
				return NewAppData(), err
			}
		}
		t.Done = done == 1
		data.Tasks[Mode(mode)] = append(data.Tasks[Mode(mode)], t)
	}
	if err := rows.Err(); err != nil {
		return NewAppData(), err
	}

	logRows, err := s.db.Query(`SELECT timestamp, label, duration_sec, mode FROM session_logs ORDER BY id`)
	if err != nil {
		return NewAppData(), fmt.Errorf("list session logs: %w", err)
	}
	defer logRows.Close()
	for logRows.Next() {
		var e SessionLogEntry
		var ts, mode string
		if err := logRows.Scan(&ts, &e.Label, &e.DurationSec, &mode); err != nil {
			return NewAppData(), err
		}
		if e.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return NewAppData(), fmt.Errorf("parse log timestamp %q: %w", ts, err)
		}
		e.Mode = Mode(mode)
		data.Logs = append(data.Logs, e)
	}
	if err := logRows.Err(); err != nil {
		return NewAppData(), err
	}

	minutes, ok, err := s.customFocusMinutes()
	if err != nil {
		return NewAppData(), err
	}
	if ok {
		data.CustomFocusMinutes = &minutes
	}
	data.Normalize()
	return data, nil
}

func (s *SQLite) Save(data *AppData) error {
	data.Normalize()
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{`DELETE FROM tasks`, `DELETE FROM session_logs`} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("clear tables: %w", err)
		}
	}

	for mode, tasks := range data.Tasks {
		for i, t := range tasks {
			deadline := ""
			if !t.Deadline.IsZero() {
				deadline = t.Deadline.String()
			}
			done := 0
			if t.Done {
				done = 1
			}
			if _, err := tx.Exec(
				`INSERT INTO tasks (mode, position, text, deadline, priority, done) VALUES (?, ?, ?, ?, ?, ?)`,
				string(mode), i, t.Text, deadline, string(t.Priority), done,
			); err != nil {
				return fmt.Errorf("insert task: %w", err)
			}
		}
	}

	for _, e := range data.Logs {
		if _, err := tx.Exec(
			`INSERT INTO session_logs (timestamp, label, duration_sec, mode) VALUES (?, ?, ?, ?)`,
			e.Timestamp.Format(time.RFC3339Nano), e.Label, e.DurationSec, string(e.Mode),
		); err != nil {
			return fmt.Errorf("insert session log: %w", err)
		}
	}

	if err := setCustomFocusMinutes(tx, data.CustomFocusMinutes); err != nil {
		return err
	}
	return tx.Commit()
}
