// Package service holds the application logic layered over repositories.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"

	"teachassist/internal/model"
	"teachassist/internal/repository"
)

// timeOfDayLayout is the class start-time wire form.
const timeOfDayLayout = "15:04"

// ClassService defines operations over classes.
type ClassService interface {
	// Create validates and stores a new class, returning its generated ID.
	Create(ctx context.Context, c *model.ClassInfo) (uuid.UUID, error)
	// Get returns a class by ID.
	Get(ctx context.Context, id uuid.UUID) (*model.ClassInfo, error)
	// List returns all classes ordered by subject.
	List(ctx context.Context) ([]model.ClassInfo, error)
	// Update validates and persists mutable class fields.
	Update(ctx context.Context, c *model.ClassInfo) error
	// Delete removes a class and everything that hangs off it.
	Delete(ctx context.Context, id uuid.UUID) error
}

type ClassServiceImpl struct {
	repo repository.ClassRepository
}

// NewClassService constructs ClassService.
func NewClassService(repo repository.ClassRepository) *ClassServiceImpl {
	return &ClassServiceImpl{repo: repo}
}

// Create validates input and delegates to the repository.
// Validation rules:
// - Subject not empty
// - StartTime parses as "HH:MM"
// - DurationMinutes > 0
func (s *ClassServiceImpl) Create(ctx context.Context, c *model.ClassInfo) (uuid.UUID, error) {
	if err := validateClass(c); err != nil {
		return uuid.Nil, err
	}
	if c.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return uuid.Nil, fmt.Errorf("generate id: %w", err)
		}
		c.ID = id
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return uuid.Nil, err
	}
	return c.ID, nil
}

// Get fetches a single class by id.
func (s *ClassServiceImpl) Get(ctx context.Context, id uuid.UUID) (*model.ClassInfo, error) {
	if id == uuid.Nil {
		return nil, errors.New("validation: empty id")
	}
	return s.repo.GetByID(ctx, id)
}

// List returns every class.
func (s *ClassServiceImpl) List(ctx context.Context) ([]model.ClassInfo, error) {
	return s.repo.GetAll(ctx)
}

// Update re-validates the class and persists it.
func (s *ClassServiceImpl) Update(ctx context.Context, c *model.ClassInfo) error {
	if c.ID == uuid.Nil {
		return errors.New("validation: empty id")
	}
	if err := validateClass(c); err != nil {
		return err
	}
	return s.repo.Update(ctx, c)
}

// Delete removes a class.
func (s *ClassServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return errors.New("validation: empty id")
	}
	return s.repo.Delete(ctx, id)
}

func validateClass(c *model.ClassInfo) error {
	if c == nil {
		return errors.New("validation: nil class")
	}
	if c.Subject == "" {
		return errors.New("validation: empty subject")
	}
	if _, err := time.Parse(timeOfDayLayout, c.StartTime); err != nil {
		return fmt.Errorf("validation: start time %q: %w", c.StartTime, err)
	}
	if c.DurationMinutes <= 0 {
		return errors.New("validation: non-positive duration")
	}
	return nil
}
