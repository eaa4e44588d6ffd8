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

// StudentRepo implements StudentRepository using SQLite.
type StudentRepo struct{ db *DB }

// NewStudentRepo constructs a student repository.
func NewStudentRepo(db *DB) *StudentRepo { return &StudentRepo{db: db} }

// Create inserts a new student.
func (r *StudentRepo) Create(ctx context.Context, s *model.Student) error {
	now := time.Now().UTC()
	s.CreatedAt, s.UpdatedAt = now, now
	const q = `INSERT INTO students (id, class_id, name, notes, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q,
		s.ID.String(), s.ClassID.String(), s.Name, s.Notes, unix(now), unix(now))
	if isConstraintViolation(err) {
		return errs.ErrAlreadyExists
	}
	return err
}

// GetByID loads a student by ID.
func (r *StudentRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	const q = `SELECT id, class_id, name, notes, created_at, updated_at FROM students WHERE id=?`
	return scanStudent(r.db.QueryRowContext(ctx, q, id.String()))
}

// GetByClass returns all students in a class ordered by name.
func (r *StudentRepo) GetByClass(ctx context.Context, classID uuid.UUID) ([]model.Student, error) {
	const q = `SELECT id, class_id, name, notes, created_at, updated_at
FROM students WHERE class_id=? ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q, classID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

// Update persists mutable student fields.
func (r *StudentRepo) Update(ctx context.Context, s *model.Student) error {
	s.UpdatedAt = time.Now().UTC()
	const q = `UPDATE students SET class_id=?, name=?, notes=?, updated_at=? WHERE id=?`
	res, err := r.db.ExecContext(ctx, q,
		s.ClassID.String(), s.Name, s.Notes, unix(s.UpdatedAt), s.ID.String())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Delete removes a student.
func (r *StudentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id=?`, id.String())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func scanStudent(row rowScanner) (*model.Student, error) {
	var (
		s             model.Student
		idStr, clsStr string
		cre, upd      int64
	)
	err := row.Scan(&idStr, &clsStr, &s.Name, &s.Notes, &cre, &upd)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	s.ID, s.ClassID = uuidOrNil(idStr), uuidOrNil(clsStr)
	s.CreatedAt, s.UpdatedAt = fromUnix(cre), fromUnix(upd)
	return &s, nil
}
