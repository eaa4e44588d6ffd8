package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"teachassist/internal/model"
)

// PromptRepository provides CRUD access for stored system prompts.
type PromptRepository interface {
	// Create inserts a new prompt.
	Create(ctx context.Context, p *model.SystemPrompt) error
	// GetByID loads a prompt by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.SystemPrompt, error)
	// GetDefault returns the prompt flagged as default.
	GetDefault(ctx context.Context) (*model.SystemPrompt, error)
	// GetAll returns all prompts ordered by name.
	GetAll(ctx context.Context) ([]model.SystemPrompt, error)
	// Update persists mutable prompt fields; setting IsDefault clears the flag elsewhere.
	Update(ctx context.Context, p *model.SystemPrompt) error
	// Delete removes a prompt.
	Delete(ctx context.Context, id uuid.UUID) error
}
