package repository

import "context"

// SettingsRepository is a string key-value store for user preferences.
// Missing keys surface as errs.ErrNotFound.
type SettingsRepository interface {
	// Get returns the value stored under key.
	Get(ctx context.Context, key string) (string, error)
	// Set stores or replaces the value under key.
	Set(ctx context.Context, key, value string) error
	// Delete removes the key; deleting an absent key is a no-op.
	Delete(ctx context.Context, key string) error
}
