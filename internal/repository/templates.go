package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"teachassist/internal/model"
)

// TemplateRepository provides CRUD access for lesson templates.
type TemplateRepository interface {
	// Create inserts a new template.
	Create(ctx context.Context, t *model.LessonTemplate) error
	// GetByID loads a template by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.LessonTemplate, error)
	// GetAll returns all templates ordered by name.
	GetAll(ctx context.Context) ([]model.LessonTemplate, error)
	// Update persists mutable template fields.
	Update(ctx context.Context, t *model.LessonTemplate) error
	// Delete removes a template.
	Delete(ctx context.Context, id uuid.UUID) error
}
