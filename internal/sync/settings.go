package sync

import (
	"context"
	"encoding/json"
	"strconv"

	"teachassist/internal/model"
	"teachassist/internal/repository"
)

// Settings-store keys for outbound event preferences.
const (
	SettingColorID             = "calendar_color_id"
	SettingUseDefaultReminders = "calendar_use_default_reminders"
	SettingReminderMinutes     = "calendar_reminder_minutes"
	SettingReminderMethod      = "calendar_reminder_method"
	SettingVisibility          = "calendar_visibility"
	SettingAttendees           = "calendar_attendees"
)

const (
	defaultReminderMinutes = 10
	defaultReminderMethod  = "popup"
)

// SettingsLoader reads outbound sync preferences from the settings store.
// Every outbound call re-reads, so settings changes take effect on the next
// push without caching.
type SettingsLoader struct {
	store repository.SettingsRepository
}

// NewSettingsLoader constructs a loader over the settings repository.
func NewSettingsLoader(store repository.SettingsRepository) *SettingsLoader {
	return &SettingsLoader{store: store}
}

// Load assembles the current sync settings. Missing keys fall back to
// defaults; malformed values are treated as absent.
func (l *SettingsLoader) Load(ctx context.Context) model.SyncSettings {
	out := model.SyncSettings{UseDefaultReminders: true}

	if v, ok := l.get(ctx, SettingColorID); ok {
		out.ColorID = v
	}
	if v, ok := l.get(ctx, SettingUseDefaultReminders); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			out.UseDefaultReminders = b
		}
	}
	if !out.UseDefaultReminders {
		minutes := defaultReminderMinutes
		if v, ok := l.get(ctx, SettingReminderMinutes); ok {
			if n, err := strconv.Atoi(v); err == nil && n >= 0 {
				minutes = n
			}
		}
		method := defaultReminderMethod
		if v, ok := l.get(ctx, SettingReminderMethod); ok && v != "" {
			method = v
		}
		out.Reminders = []model.ReminderOverride{{Method: method, Minutes: minutes}}
	}
	if v, ok := l.get(ctx, SettingVisibility); ok {
		out.Visibility = v
	}
	if v, ok := l.get(ctx, SettingAttendees); ok && v != "" {
		var attendees []string
		if err := json.Unmarshal([]byte(v), &attendees); err == nil {
			out.Attendees = attendees
		}
	}
	return out
}

func (l *SettingsLoader) get(ctx context.Context, key string) (string, bool) {
	v, err := l.store.Get(ctx, key)
	if err != nil {
		// absent key or transient store failure reads as "unset"
		return "", false
	}
	return v, true
}
