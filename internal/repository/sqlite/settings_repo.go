package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"teachassist/internal/errs"
)

// SettingsRepo implements SettingsRepository on the settings key-value table.
type SettingsRepo struct{ db *DB }

// NewSettingsRepo constructs a settings repository.
func NewSettingsRepo(db *DB) *SettingsRepo { return &SettingsRepo{db: db} }

// Get returns the value stored under key.
func (r *SettingsRepo) Get(ctx context.Context, key string) (string, error) {
	var v string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key=?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", errs.ErrNotFound
	}
	return v, err
}

// Set stores or replaces the value under key.
func (r *SettingsRepo) Set(ctx context.Context, key, value string) error {
	const q = `INSERT INTO settings (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value=excluded.value`
	_, err := r.db.ExecContext(ctx, q, key, value)
	return err
}

// Delete removes the key; deleting an absent key is a no-op.
func (r *SettingsRepo) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM settings WHERE key=?`, key)
	return err
}
