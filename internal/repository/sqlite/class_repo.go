package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"

	"teachassist/internal/errs"
	"teachassist/internal/model"
)

// ClassRepo implements ClassRepository using SQLite.
type ClassRepo struct{ db *DB }

// NewClassRepo constructs a class repository.
func NewClassRepo(db *DB) *ClassRepo { return &ClassRepo{db: db} }

// Create inserts a new class.
func (r *ClassRepo) Create(ctx context.Context, c *model.ClassInfo) error {
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	const q = `INSERT INTO classes (id, subject, location, start_time, duration_minutes, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q,
		c.ID.String(), c.Subject, c.Location, c.StartTime, c.DurationMinutes, unix(now), unix(now))
	if isConstraintViolation(err) {
		return errs.ErrAlreadyExists
	}
	return err
}

// GetByID loads a class by ID.
func (r *ClassRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.ClassInfo, error) {
	const q = `SELECT id, subject, location, start_time, duration_minutes, created_at, updated_at
FROM classes WHERE id=?`
	return scanClass(r.db.QueryRowContext(ctx, q, id.String()))
}

// GetAll returns all classes ordered by subject.
func (r *ClassRepo) GetAll(ctx context.Context) ([]model.ClassInfo, error) {
	const q = `SELECT id, subject, location, start_time, duration_minutes, created_at, updated_at
FROM classes ORDER BY subject`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ClassInfo
	for rows.Next() {
		c, err := scanClass(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// Update persists mutable class fields.
func (r *ClassRepo) Update(ctx context.Context, c *model.ClassInfo) error {
	c.UpdatedAt = time.Now().UTC()
	const q = `UPDATE classes SET subject=?, location=?, start_time=?, duration_minutes=?, updated_at=?
WHERE id=?`
	res, err := r.db.ExecContext(ctx, q,
		c.Subject, c.Location, c.StartTime, c.DurationMinutes, unix(c.UpdatedAt), c.ID.String())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Delete removes a class; dependent rows cascade.
func (r *ClassRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM classes WHERE id=?`, id.String())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

type rowScanner interface{ Scan(dest ...any) error }

func scanClass(row rowScanner) (*model.ClassInfo, error) {
	var (
		c        model.ClassInfo
		idStr    string
		cre, upd int64
	)
	err := row.Scan(&idStr, &c.Subject, &c.Location, &c.StartTime, &c.DurationMinutes, &cre, &upd)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	c.ID = uuidOrNil(idStr)
	c.CreatedAt, c.UpdatedAt = fromUnix(cre), fromUnix(upd)
	return &c, nil
}
