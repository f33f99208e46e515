package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
)

const settingCustomFocus = "custom_pomodoro_minutes"

func (s *SQLite) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *SQLite) customFocusMinutes() (int, bool, error) {
	v, err := s.GetSetting(settingCustomFocus)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, false, nil
	}
	return n, true, nil
}

func setCustomFocusMinutes(tx *sql.Tx, minutes *int) error {
	if minutes == nil {
		_, err := tx.Exec(`DELETE FROM settings WHERE key = ?`, settingCustomFocus)
		return err
	}
	_, err := tx.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		settingCustomFocus, strconv.Itoa(*minutes),
	)
	return err
}
