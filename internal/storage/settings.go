package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// GetSetting returns the stored value and whether the key exists.
func (q *Queries) GetSetting(ctx context.Context, key string) (string, bool, error) {
	var v sql.NullString
	err := q.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get setting %s: %w", key, err)
	}
	return v.String, true, nil
}

func (q *Queries) SetSetting(ctx context.Context, key, value string) error {
	if _, err := q.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO settings(key, value) VALUES (?, ?)`, key, value); err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return nil
}
