package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"

	"teachassist/internal/model"
	"teachassist/internal/recurrence"
	"teachassist/internal/repository"
)

// slot positions run 0 through maxSlot within a teaching day.
const maxSlot = 4

// LessonPlanService defines operations over lesson plans.
type LessonPlanService interface {
	// Create validates and stores a new plan, returning its generated ID.
	Create(ctx context.Context, p *model.LessonPlan) (uuid.UUID, error)
	// Get returns a plan by ID.
	Get(ctx context.Context, id uuid.UUID) (*model.LessonPlan, error)
	// List returns all plans ordered by date, then slot.
	List(ctx context.Context) ([]model.LessonPlan, error)
	// ListByClass returns all plans for one class.
	ListByClass(ctx context.Context, classID uuid.UUID) ([]model.LessonPlan, error)
	// ListByDate returns all plans on a calendar date.
	ListByDate(ctx context.Context, date time.Time) ([]model.LessonPlan, error)
	// Update validates and persists mutable plan fields.
	Update(ctx context.Context, p *model.LessonPlan) error
	// Delete removes a plan.
	Delete(ctx context.Context, id uuid.UUID) error
	// Schedule materializes plans from a template on every occurrence of an
	// RFC 5545 recurrence rule within [from, to].
	Schedule(ctx context.Context, classID, templateID uuid.UUID, slot int, rule string, start, from, to time.Time) ([]model.LessonPlan, error)
}

type LessonPlanServiceImpl struct {
	plans     repository.LessonPlanRepository
	templates repository.TemplateRepository
}

// NewLessonPlanService constructs LessonPlanService.
func NewLessonPlanService(plans repository.LessonPlanRepository, templates repository.TemplateRepository) *LessonPlanServiceImpl {
	return &LessonPlanServiceImpl{plans: plans, templates: templates}
}

// Create validates input and delegates to the repository.
// Validation rules:
// - ClassID != uuid.Nil
// - Title not empty
// - Date not zero
// - Slot in [0, 4]
func (s *LessonPlanServiceImpl) Create(ctx context.Context, p *model.LessonPlan) (uuid.UUID, error) {
	if err := validatePlan(p); err != nil {
		return uuid.Nil, err
	}
	if p.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return uuid.Nil, fmt.Errorf("generate id: %w", err)
		}
		p.ID = id
	}
	if err := s.plans.Create(ctx, p); err != nil {
		return uuid.Nil, err
	}
	return p.ID, nil
}

// Get fetches a single plan by id.
func (s *LessonPlanServiceImpl) Get(ctx context.Context, id uuid.UUID) (*model.LessonPlan, error) {
	if id == uuid.Nil {
		return nil, errors.New("validation: empty id")
	}
	return s.plans.GetByID(ctx, id)
}

// List returns every plan.
func (s *LessonPlanServiceImpl) List(ctx context.Context) ([]model.LessonPlan, error) {
	return s.plans.GetAll(ctx)
}

// ListByClass returns the plans belonging to one class.
func (s *LessonPlanServiceImpl) ListByClass(ctx context.Context, classID uuid.UUID) ([]model.LessonPlan, error) {
	if classID == uuid.Nil {
		return nil, errors.New("validation: empty class id")
	}
	return s.plans.GetByClass(ctx, classID)
}

// ListByDate returns the plans scheduled on one day.
func (s *LessonPlanServiceImpl) ListByDate(ctx context.Context, date time.Time) ([]model.LessonPlan, error) {
	if date.IsZero() {
		return nil, errors.New("validation: zero date")
	}
	return s.plans.GetByDate(ctx, date)
}

// Update re-validates the plan and persists it.
func (s *LessonPlanServiceImpl) Update(ctx context.Context, p *model.LessonPlan) error {
	if p == nil || p.ID == uuid.Nil {
		return errors.New("validation: empty id")
	}
	if err := validatePlan(p); err != nil {
		return err
	}
	return s.plans.Update(ctx, p)
}

// Delete removes a plan.
func (s *LessonPlanServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return errors.New("validation: empty id")
	}
	return s.plans.Delete(ctx, id)
}

// Schedule loads the template, expands the recurrence rule and creates one
// plan per occurrence. Creation stops at the first repository error; plans
// already created stay in place.
func (s *LessonPlanServiceImpl) Schedule(ctx context.Context, classID, templateID uuid.UUID, slot int, rule string, start, from, to time.Time) ([]model.LessonPlan, error) {
	if classID == uuid.Nil {
		return nil, errors.New("validation: empty class id")
	}
	if templateID == uuid.Nil {
		return nil, errors.New("validation: empty template id")
	}
	if slot < 0 || slot > maxSlot {
		return nil, fmt.Errorf("validation: slot %d out of range", slot)
	}
	if to.Before(from) {
		return nil, errors.New("validation: range end before start")
	}

	tmpl, err := s.templates.GetByID(ctx, templateID)
	if err != nil {
		return nil, fmt.Errorf("load template: %w", err)
	}
	dates, err := recurrence.Expand(rule, start, from, to)
	if err != nil {
		return nil, fmt.Errorf("expand rule: %w", err)
	}

	created := make([]model.LessonPlan, 0, len(dates))
	for _, d := range dates {
		id, err := uuid.NewV7()
		if err != nil {
			return created, fmt.Errorf("generate id: %w", err)
		}
		p := model.LessonPlan{
			ID:         id,
			ClassID:    classID,
			Date:       time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC),
			Slot:       slot,
			Title:      tmpl.Name,
			Objectives: tmpl.Objectives,
			Components: tmpl.Components,
		}
		if err := s.plans.Create(ctx, &p); err != nil {
			return created, fmt.Errorf("create plan for %s: %w", p.Date.Format("2006-01-02"), err)
		}
		created = append(created, p)
	}
	return created, nil
}

func validatePlan(p *model.LessonPlan) error {
	if p == nil {
		return errors.New("validation: nil plan")
	}
	if p.ClassID == uuid.Nil {
		return errors.New("validation: empty class id")
	}
	if p.Title == "" {
		return errors.New("validation: empty title")
	}
	if p.Date.IsZero() {
		return errors.New("validation: zero date")
	}
	if p.Slot < 0 || p.Slot > maxSlot {
		return fmt.Errorf("validation: slot %d out of range", p.Slot)
	}
	return nil
}
