// Package calendar defines the remote calendar provider contract used by the
// sync layer. Concrete providers live in subpackages.
package calendar

import (
	"context"
	"time"

	"teachassist/internal/model"
)

// EventInput carries the outbound event payload. Optional fields are
// omitted from the request when left at their zero value.
type EventInput struct {
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	TimeZone    string

	ColorID    string
	Visibility string
	Attendees  []string
	Recurrence []string

	// Reminders: when UseDefaultReminders is false, Overrides are sent.
	UseDefaultReminders bool
	ReminderOverrides   []model.ReminderOverride
}

// ChangeSet is the result of one incremental poll: every event touched since
// the previous sync token (deleted ones carry status "cancelled"), plus the
// token for the next poll.
type ChangeSet struct {
	Events        []model.CalendarEvent
	NextSyncToken string
}

// Provider is the remote calendar API surface required by the sync layer.
// Implementations return errs.ErrSyncTokenExpired when the remote reports
// the sync token as gone, and errs.ErrNotAuthenticated when credentials are
// missing or unusable.
type Provider interface {
	// IsAuthenticated reports whether usable credentials are available.
	IsAuthenticated(ctx context.Context) bool

	// AcquireSyncToken obtains a fresh sync token without processing events.
	AcquireSyncToken(ctx context.Context) (string, error)

	// Changes lists every event changed since syncToken, following result
	// pages until the full change set is assembled.
	Changes(ctx context.Context, syncToken string) (ChangeSet, error)

	// ListRange lists events within [from, to).
	ListRange(ctx context.Context, from, to time.Time) ([]model.CalendarEvent, error)

	// CreateEvent creates a remote event and returns its ID.
	CreateEvent(ctx context.Context, in EventInput) (string, error)

	// UpdateEvent replaces the remote event identified by eventID.
	UpdateEvent(ctx context.Context, eventID string, in EventInput) error

	// DeleteEvent removes the remote event.
	DeleteEvent(ctx context.Context, eventID string) error
}
