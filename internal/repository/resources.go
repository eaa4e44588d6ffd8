package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"teachassist/internal/model"
)

// ResourceRepository provides CRUD access for teaching resources.
type ResourceRepository interface {
	// Create inserts a new resource.
	Create(ctx context.Context, r *model.Resource) error
	// GetByID loads a resource by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Resource, error)
	// GetAll returns all resources ordered by name.
	GetAll(ctx context.Context) ([]model.Resource, error)
	// GetByClass returns resources scoped to a class.
	GetByClass(ctx context.Context, classID uuid.UUID) ([]model.Resource, error)
	// Delete removes a resource.
	Delete(ctx context.Context, id uuid.UUID) error
}
