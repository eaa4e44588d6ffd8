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

// LessonPlanRepo implements LessonPlanRepository using SQLite.
type LessonPlanRepo struct{ db *DB }

// NewLessonPlanRepo constructs a lesson-plan repository.
func NewLessonPlanRepo(db *DB) *LessonPlanRepo { return &LessonPlanRepo{db: db} }

const planColumns = `id, class_id, date, slot, title, objectives, description, components, calendar_event_id, created_at, updated_at`

// Create inserts a new lesson plan.
func (r *LessonPlanRepo) Create(ctx context.Context, p *model.LessonPlan) error {
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	const q = `INSERT INTO lesson_plans (` + planColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q,
		p.ID.String(), p.ClassID.String(), p.Date.Format(dateLayout), p.Slot,
		p.Title, p.Objectives, p.Description, p.Components, p.CalendarEventID,
		unix(now), unix(now))
	if isConstraintViolation(err) {
		return errs.ErrAlreadyExists
	}
	return err
}

// GetByID loads a plan by ID.
func (r *LessonPlanRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.LessonPlan, error) {
	const q = `SELECT ` + planColumns + ` FROM lesson_plans WHERE id=?`
	return scanPlan(r.db.QueryRowContext(ctx, q, id.String()))
}

// GetAll returns all plans ordered by date, then slot.
func (r *LessonPlanRepo) GetAll(ctx context.Context) ([]model.LessonPlan, error) {
	const q = `SELECT ` + planColumns + ` FROM lesson_plans ORDER BY date, slot`
	return r.queryPlans(ctx, q)
}

// GetByClass returns all plans for a class ordered by date, then slot.
func (r *LessonPlanRepo) GetByClass(ctx context.Context, classID uuid.UUID) ([]model.LessonPlan, error) {
	const q = `SELECT ` + planColumns + ` FROM lesson_plans WHERE class_id=? ORDER BY date, slot`
	return r.queryPlans(ctx, q, classID.String())
}

// GetByDate returns all plans on a date ordered by slot.
func (r *LessonPlanRepo) GetByDate(ctx context.Context, date time.Time) ([]model.LessonPlan, error) {
	const q = `SELECT ` + planColumns + ` FROM lesson_plans WHERE date=? ORDER BY slot`
	return r.queryPlans(ctx, q, date.Format(dateLayout))
}

// Update persists mutable plan fields.
func (r *LessonPlanRepo) Update(ctx context.Context, p *model.LessonPlan) error {
	p.UpdatedAt = time.Now().UTC()
	const q = `UPDATE lesson_plans
SET class_id=?, date=?, slot=?, title=?, objectives=?, description=?, components=?, calendar_event_id=?, updated_at=?
WHERE id=?`
	res, err := r.db.ExecContext(ctx, q,
		p.ClassID.String(), p.Date.Format(dateLayout), p.Slot, p.Title,
		p.Objectives, p.Description, p.Components, p.CalendarEventID,
		unix(p.UpdatedAt), p.ID.String())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// SetCalendarEventID stores the remote event link; empty clears it.
func (r *LessonPlanRepo) SetCalendarEventID(ctx context.Context, id uuid.UUID, eventID string) error {
	const q = `UPDATE lesson_plans SET calendar_event_id=?, updated_at=? WHERE id=?`
	res, err := r.db.ExecContext(ctx, q, eventID, unix(time.Now().UTC()), id.String())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Delete removes a plan.
func (r *LessonPlanRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM lesson_plans WHERE id=?`, id.String())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *LessonPlanRepo) queryPlans(ctx context.Context, q string, args ...any) ([]model.LessonPlan, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.LessonPlan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func scanPlan(row rowScanner) (*model.LessonPlan, error) {
	var (
		p             model.LessonPlan
		idStr, clsStr string
		dateStr       string
		cre, upd      int64
	)
	err := row.Scan(&idStr, &clsStr, &dateStr, &p.Slot, &p.Title,
		&p.Objectives, &p.Description, &p.Components, &p.CalendarEventID, &cre, &upd)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.ID, p.ClassID = uuidOrNil(idStr), uuidOrNil(clsStr)
	p.Date, err = time.Parse(dateLayout, dateStr)
	if err != nil {
		return nil, err
	}
	p.CreatedAt, p.UpdatedAt = fromUnix(cre), fromUnix(upd)
	return &p, nil
}
