package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"teachassist/internal/model"
)

// StudentRepository provides CRUD access for students.
type StudentRepository interface {
	// Create inserts a new student.
	Create(ctx context.Context, s *model.Student) error
	// GetByID loads a student by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Student, error)
	// GetByClass returns all students in a class ordered by name.
	GetByClass(ctx context.Context, classID uuid.UUID) ([]model.Student, error)
	// Update persists mutable student fields.
	Update(ctx context.Context, s *model.Student) error
	// Delete removes a student.
	Delete(ctx context.Context, id uuid.UUID) error
}
