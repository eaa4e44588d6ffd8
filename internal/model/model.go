// Package model defines domain entities used by services, repositories and the sync layer.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// ClassInfo describes a taught class. StartTime is a time-of-day in "HH:MM"
// 24-hour form; DurationMinutes is the lesson length.
type ClassInfo struct {
	ID              uuid.UUID
	Subject         string
	Location        string
	StartTime       string
	DurationMinutes int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Student is a member of a class.
type Student struct {
	ID        uuid.UUID
	ClassID   uuid.UUID
	Name      string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LessonPlan is a single planned lesson. Slot is the position within the
// teaching day (0-4). CalendarEventID links the plan to at most one remote
// calendar event; empty means not yet pushed.
type LessonPlan struct {
	ID              uuid.UUID
	ClassID         uuid.UUID
	Date            time.Time // date component only; time-of-day comes from the class
	Slot            int
	Title           string
	Objectives      string
	Description     string
	Components      string // serialized component blob (JSON)
	CalendarEventID string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Linked reports whether the plan already has a remote calendar event.
func (p *LessonPlan) Linked() bool { return p.CalendarEventID != "" }

// LessonTemplate is a reusable lesson skeleton.
type LessonTemplate struct {
	ID         uuid.UUID
	Name       string
	Subject    string
	Objectives string
	Components string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Resource is a teaching material reference (file path or URL).
type Resource struct {
	ID        uuid.UUID
	ClassID   uuid.UUID // nil UUID when not class-scoped
	Name      string
	Kind      string // "file", "link", ...
	Location  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SystemPrompt is a stored assistant prompt.
type SystemPrompt struct {
	ID        uuid.UUID
	Name      string
	Content   string
	IsDefault bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EventTime is either a date-only value (all-day events) or an exact instant
// with an IANA timezone.
type EventTime struct {
	DateTime time.Time
	Date     string // "YYYY-MM-DD" when all-day; empty otherwise
	TimeZone string
}

// AllDay reports whether the value carries only a date.
func (t EventTime) AllDay() bool { return t.Date != "" }

// EventStatusCancelled is the remote status marking a deleted event in an
// incremental change feed.
const EventStatusCancelled = "cancelled"

// CalendarEvent is the local projection of a remote calendar event. Instances
// are built from API responses and are not persisted.
type CalendarEvent struct {
	ID          string
	Summary     string
	Description string
	Location    string
	Start       EventTime
	End         EventTime
	Creator     string
	Organizer   string
	Created     time.Time
	Updated     time.Time
	HTMLLink    string
	Status      string
	ColorID     string
	Recurrence  []string
}

// Cancelled reports whether the remote event was deleted.
func (e *CalendarEvent) Cancelled() bool { return e.Status == EventStatusCancelled }

// SyncResult counts the outcome of an outbound sync run.
type SyncResult struct {
	Created int
	Updated int
	Failed  int
}

// ReminderOverride is a single reminder entry attached to a pushed event.
type ReminderOverride struct {
	Method  string
	Minutes int
}

// SyncSettings are the user preferences applied to every outbound event.
// They are re-read from the settings store before each call.
type SyncSettings struct {
	ColorID             string
	UseDefaultReminders bool
	Reminders           []ReminderOverride
	Visibility          string
	Attendees           []string
}
