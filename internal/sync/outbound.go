package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"teachassist/internal/calendar"
	"teachassist/internal/errs"
	"teachassist/internal/model"
)

// PushPlan pushes a single lesson plan to the remote calendar: plans without
// a calendar link are created (and the returned event id persisted), linked
// plans are updated in place.
func (s *Syncer) PushPlan(ctx context.Context, planID uuid.UUID) error {
	if !s.provider.IsAuthenticated(ctx) {
		return errs.ErrNotAuthenticated
	}
	plan, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		return fmt.Errorf("load plan: %w", err)
	}
	return s.pushPlan(ctx, plan)
}

// PushAll pushes every lesson plan; a failing plan is logged and counted,
// siblings continue processing.
func (s *Syncer) PushAll(ctx context.Context) (model.SyncResult, error) {
	var res model.SyncResult
	if !s.provider.IsAuthenticated(ctx) {
		return res, errs.ErrNotAuthenticated
	}
	plans, err := s.plans.GetAll(ctx)
	if err != nil {
		return res, fmt.Errorf("load plans: %w", err)
	}
	for i := range plans {
		linked := plans[i].Linked()
		if err := s.pushPlan(ctx, &plans[i]); err != nil {
			res.Failed++
			s.log.Error("push failed",
				zap.String("plan", plans[i].ID.String()),
				zap.Error(err))
			continue
		}
		if linked {
			res.Updated++
		} else {
			res.Created++
		}
	}
	return res, nil
}

// RemovePlan deletes the plan's remote calendar presence and clears the
// local link. A plan without a link is already satisfied (no-op success).
func (s *Syncer) RemovePlan(ctx context.Context, planID uuid.UUID) error {
	plan, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		return fmt.Errorf("load plan: %w", err)
	}
	if !plan.Linked() {
		return nil
	}
	if !s.provider.IsAuthenticated(ctx) {
		return errs.ErrNotAuthenticated
	}
	if err := s.provider.DeleteEvent(ctx, plan.CalendarEventID); err != nil {
		return fmt.Errorf("delete remote event: %w", err)
	}
	if err := s.plans.SetCalendarEventID(ctx, plan.ID, ""); err != nil {
		return fmt.Errorf("clear calendar link: %w", err)
	}
	return nil
}

func (s *Syncer) pushPlan(ctx context.Context, plan *model.LessonPlan) error {
	class, err := s.classes.GetByID(ctx, plan.ClassID)
	if err != nil {
		return fmt.Errorf("load class: %w", err)
	}
	in, err := s.buildEventInput(ctx, plan, class)
	if err != nil {
		return err
	}

	if !plan.Linked() {
		eventID, err := s.provider.CreateEvent(ctx, in)
		if err != nil {
			// plan stays unlinked; the caller sees the failure, no retry
			return fmt.Errorf("create remote event: %w", err)
		}
		if err := s.plans.SetCalendarEventID(ctx, plan.ID, eventID); err != nil {
			// without the link the next push would create a duplicate;
			// undo the remote create
			if delErr := s.provider.DeleteEvent(ctx, eventID); delErr != nil {
				s.log.Error("orphaned remote event: link persist and cleanup both failed",
					zap.String("plan", plan.ID.String()),
					zap.String("event", eventID),
					zap.NamedError("cleanup", delErr))
			}
			return fmt.Errorf("persist calendar link: %w", err)
		}
		plan.CalendarEventID = eventID
		return nil
	}

	if err := s.provider.UpdateEvent(ctx, plan.CalendarEventID, in); err != nil {
		// the local link is kept: a dangling remote event does not break it
		return fmt.Errorf("update remote event: %w", err)
	}
	return nil
}

// buildEventInput derives the outbound payload from a plan and its class.
// Settings are re-read on every call.
func (s *Syncer) buildEventInput(ctx context.Context, plan *model.LessonPlan, class *model.ClassInfo) (calendar.EventInput, error) {
	start, err := lessonStart(plan.Date, class.StartTime, s.tz)
	if err != nil {
		return calendar.EventInput{}, err
	}
	end := start.Add(time.Duration(class.DurationMinutes) * time.Minute)

	st := s.settings.Load(ctx)
	return calendar.EventInput{
		Summary:             fmt.Sprintf("%s - %s", class.Subject, plan.Title),
		Description:         composeDescription(plan),
		Location:            class.Location,
		Start:               start,
		End:                 end,
		TimeZone:            s.tz.String(),
		ColorID:             st.ColorID,
		Visibility:          st.Visibility,
		Attendees:           st.Attendees,
		UseDefaultReminders: st.UseDefaultReminders,
		ReminderOverrides:   st.Reminders,
	}, nil
}

// lessonStart combines the plan's date with the class start time-of-day.
func lessonStart(date time.Time, startTime string, tz *time.Location) (time.Time, error) {
	tod, err := time.Parse("15:04", startTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid class start time %q: %w", startTime, err)
	}
	return time.Date(date.Year(), date.Month(), date.Day(),
		tod.Hour(), tod.Minute(), 0, 0, tz), nil
}

// lessonComponent is the serialized shape stored in LessonPlan.Components.
type lessonComponent struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// composeDescription concatenates objectives, free-text description and
// formatted components; empty sections are omitted.
func composeDescription(plan *model.LessonPlan) string {
	var sections []string
	if plan.Objectives != "" {
		sections = append(sections, "Objectives:\n"+plan.Objectives)
	}
	if plan.Description != "" {
		sections = append(sections, plan.Description)
	}
	if comps := formatComponents(plan.Components); comps != "" {
		sections = append(sections, "Components:\n"+comps)
	}
	return strings.Join(sections, "\n\n")
}

func formatComponents(raw string) string {
	if raw == "" {
		return ""
	}
	var comps []lessonComponent
	if err := json.Unmarshal([]byte(raw), &comps); err != nil {
		// a malformed blob never blocks a push
		return ""
	}
	var lines []string
	for _, c := range comps {
		switch {
		case c.Title != "" && c.Content != "":
			lines = append(lines, "- "+c.Title+": "+c.Content)
		case c.Title != "":
			lines = append(lines, "- "+c.Title)
		case c.Content != "":
			lines = append(lines, "- "+c.Content)
		}
	}
	return strings.Join(lines, "\n")
}
