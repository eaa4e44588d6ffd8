// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"teachassist/internal/model"
)

// ClassRepository provides CRUD access for classes.
type ClassRepository interface {
	// Create inserts a new class.
	Create(ctx context.Context, c *model.ClassInfo) error
	// GetByID loads a class by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.ClassInfo, error)
	// GetAll returns all classes ordered by subject.
	GetAll(ctx context.Context) ([]model.ClassInfo, error)
	// Update persists mutable class fields.
	Update(ctx context.Context, c *model.ClassInfo) error
	// Delete removes a class and its dependents (cascading).
	Delete(ctx context.Context, id uuid.UUID) error
}
