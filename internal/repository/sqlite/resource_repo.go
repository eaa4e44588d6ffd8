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

// ResourceRepo implements ResourceRepository using SQLite.
type ResourceRepo struct{ db *DB }

// NewResourceRepo constructs a resource repository.
func NewResourceRepo(db *DB) *ResourceRepo { return &ResourceRepo{db: db} }

// Create inserts a new resource.
func (r *ResourceRepo) Create(ctx context.Context, res *model.Resource) error {
	now := time.Now().UTC()
	res.CreatedAt, res.UpdatedAt = now, now
	const q = `INSERT INTO resources (id, class_id, name, kind, location, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q,
		res.ID.String(), uuidText(res.ClassID), res.Name, res.Kind, res.Location, unix(now), unix(now))
	if isConstraintViolation(err) {
		return errs.ErrAlreadyExists
	}
	return err
}

// GetByID loads a resource by ID.
func (r *ResourceRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Resource, error) {
	const q = `SELECT id, class_id, name, kind, location, created_at, updated_at FROM resources WHERE id=?`
	return scanResource(r.db.QueryRowContext(ctx, q, id.String()))
}

// GetAll returns all resources ordered by name.
func (r *ResourceRepo) GetAll(ctx context.Context) ([]model.Resource, error) {
	const q = `SELECT id, class_id, name, kind, location, created_at, updated_at
FROM resources ORDER BY name`
	return r.queryResources(ctx, q)
}

// GetByClass returns resources scoped to a class.
func (r *ResourceRepo) GetByClass(ctx context.Context, classID uuid.UUID) ([]model.Resource, error) {
	const q = `SELECT id, class_id, name, kind, location, created_at, updated_at
FROM resources WHERE class_id=? ORDER BY name`
	return r.queryResources(ctx, q, classID.String())
}

// Delete removes a resource.
func (r *ResourceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM resources WHERE id=?`, id.String())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *ResourceRepo) queryResources(ctx context.Context, q string, args ...any) ([]model.Resource, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Resource
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	return out, rows.Err()
}

func scanResource(row rowScanner) (*model.Resource, error) {
	var (
		res           model.Resource
		idStr, clsStr string
		cre, upd      int64
	)
	err := row.Scan(&idStr, &clsStr, &res.Name, &res.Kind, &res.Location, &cre, &upd)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	res.ID, res.ClassID = uuidOrNil(idStr), uuidOrNil(clsStr)
	res.CreatedAt, res.UpdatedAt = fromUnix(cre), fromUnix(upd)
	return &res, nil
}
