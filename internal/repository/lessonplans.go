package repository

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"teachassist/internal/model"
)

// LessonPlanRepository provides CRUD access for lesson plans plus the
// calendar-link maintenance used by the sync layer.
type LessonPlanRepository interface {
	// Create inserts a new lesson plan.
	Create(ctx context.Context, p *model.LessonPlan) error
	// GetByID loads a plan by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.LessonPlan, error)
	// GetAll returns all plans ordered by date, then slot.
	GetAll(ctx context.Context) ([]model.LessonPlan, error)
	// GetByClass returns all plans for a class ordered by date, then slot.
	GetByClass(ctx context.Context, classID uuid.UUID) ([]model.LessonPlan, error)
	// GetByDate returns all plans on a calendar date ordered by slot.
	GetByDate(ctx context.Context, date time.Time) ([]model.LessonPlan, error)
	// Update persists mutable plan fields.
	Update(ctx context.Context, p *model.LessonPlan) error
	// SetCalendarEventID stores the remote event link (empty clears it).
	SetCalendarEventID(ctx context.Context, id uuid.UUID, eventID string) error
	// Delete removes a plan.
	Delete(ctx context.Context, id uuid.UUID) error
}
