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

// TemplateRepo implements TemplateRepository using SQLite.
type TemplateRepo struct{ db *DB }

// NewTemplateRepo constructs a template repository.
func NewTemplateRepo(db *DB) *TemplateRepo { return &TemplateRepo{db: db} }

// Create inserts a new template.
func (r *TemplateRepo) Create(ctx context.Context, t *model.LessonTemplate) error {
	now := time.Now().UTC()
	t.CreatedAt, t.UpdatedAt = now, now
	const q = `INSERT INTO lesson_templates (id, name, subject, objectives, components, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q,
		t.ID.String(), t.Name, t.Subject, t.Objectives, t.Components, unix(now), unix(now))
	if isConstraintViolation(err) {
		return errs.ErrAlreadyExists
	}
	return err
}

// GetByID loads a template by ID.
func (r *TemplateRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.LessonTemplate, error) {
	const q = `SELECT id, name, subject, objectives, components, created_at, updated_at
FROM lesson_templates WHERE id=?`
	return scanTemplate(r.db.QueryRowContext(ctx, q, id.String()))
}

// GetAll returns all templates ordered by name.
func (r *TemplateRepo) GetAll(ctx context.Context) ([]model.LessonTemplate, error) {
	const q = `SELECT id, name, subject, objectives, components, created_at, updated_at
FROM lesson_templates ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.LessonTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// Update persists mutable template fields.
func (r *TemplateRepo) Update(ctx context.Context, t *model.LessonTemplate) error {
	t.UpdatedAt = time.Now().UTC()
	const q = `UPDATE lesson_templates SET name=?, subject=?, objectives=?, components=?, updated_at=?
WHERE id=?`
	res, err := r.db.ExecContext(ctx, q,
		t.Name, t.Subject, t.Objectives, t.Components, unix(t.UpdatedAt), t.ID.String())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Delete removes a template.
func (r *TemplateRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM lesson_templates WHERE id=?`, id.String())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func scanTemplate(row rowScanner) (*model.LessonTemplate, error) {
	var (
		t        model.LessonTemplate
		idStr    string
		cre, upd int64
	)
	err := row.Scan(&idStr, &t.Name, &t.Subject, &t.Objectives, &t.Components, &cre, &upd)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	t.ID = uuidOrNil(idStr)
	t.CreatedAt, t.UpdatedAt = fromUnix(cre), fromUnix(upd)
	return &t, nil
}
