package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"

	"teachassist/internal/model"
	"teachassist/internal/recurrence"
)

func validPlan(classID uuid.UUID) *model.LessonPlan {
	return &model.LessonPlan{
		ClassID: classID,
		Date:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Slot:    2,
		Title:   "Forces",
	}
}

func TestLessonPlanService_Create(t *testing.T) {
	t.Parallel()
	repo := newFakePlanRepo()
	svc := NewLessonPlanService(repo, newFakeTemplateRepo())
	classID, _ := uuid.NewV7()

	id, err := svc.Create(context.Background(), validPlan(classID))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := svc.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "Forces" || got.Slot != 2 {
		t.Fatalf("plan: %+v", got)
	}
}

func TestLessonPlanService_CreateValidation(t *testing.T) {
	t.Parallel()
	svc := NewLessonPlanService(newFakePlanRepo(), newFakeTemplateRepo())
	classID, _ := uuid.NewV7()

	cases := []struct {
		name   string
		mutate func(*model.LessonPlan)
	}{
		{"empty class", func(p *model.LessonPlan) { p.ClassID = uuid.Nil }},
		{"empty title", func(p *model.LessonPlan) { p.Title = "" }},
		{"zero date", func(p *model.LessonPlan) { p.Date = time.Time{} }},
		{"slot below range", func(p *model.LessonPlan) { p.Slot = -1 }},
		{"slot above range", func(p *model.LessonPlan) { p.Slot = 5 }},
	}
	for _, tc := range cases {
		p := validPlan(classID)
		tc.mutate(p)
		if _, err := svc.Create(context.Background(), p); err == nil {
			t.Fatalf("%s: want validation error", tc.name)
		}
	}
}

func TestLessonPlanService_Schedule(t *testing.T) {
	t.Parallel()
	plans := newFakePlanRepo()
	templates := newFakeTemplateRepo()
	svc := NewLessonPlanService(plans, templates)

	classID, _ := uuid.NewV7()
	tmplID, _ := uuid.NewV7()
	templates.templates[tmplID] = model.LessonTemplate{
		ID:         tmplID,
		Name:       "Lab Session",
		Objectives: "Measure g",
		Components: `[{"type":"activity","title":"Pendulum","content":"Swing it"}]`,
	}

	rule, err := recurrence.WeeklyRule(recurrence.Monday|recurrence.Wednesday, 1, 0, time.Time{})
	if err != nil {
		t.Fatalf("WeeklyRule: %v", err)
	}
	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC) // a Monday
	to := time.Date(2024, 3, 13, 23, 0, 0, 0, time.UTC)

	created, err := svc.Schedule(context.Background(), classID, tmplID, 1, rule, start, start, to)
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	// Mon 4th, Wed 6th, Mon 11th, Wed 13th
	if len(created) != 4 {
		t.Fatalf("created %d plans: %+v", len(created), created)
	}
	for _, p := range created {
		if p.ClassID != classID || p.Slot != 1 {
			t.Fatalf("plan fields: %+v", p)
		}
		if p.Title != "Lab Session" || p.Objectives != "Measure g" {
			t.Fatalf("template fields not carried: %+v", p)
		}
		stored, err := svc.Get(context.Background(), p.ID)
		if err != nil {
			t.Fatalf("stored plan missing: %v", err)
		}
		if !stored.Date.Equal(p.Date) {
			t.Fatalf("date mismatch: %v vs %v", stored.Date, p.Date)
		}
	}
	if !created[0].Date.Equal(time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("first occurrence: %v", created[0].Date)
	}
}

func TestLessonPlanService_ScheduleErrors(t *testing.T) {
	t.Parallel()
	plans := newFakePlanRepo()
	templates := newFakeTemplateRepo()
	svc := NewLessonPlanService(plans, templates)

	classID, _ := uuid.NewV7()
	tmplID, _ := uuid.NewV7()
	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	if _, err := svc.Schedule(context.Background(), uuid.Nil, tmplID, 0, "FREQ=DAILY", start, start, start.AddDate(0, 0, 7)); err == nil {
		t.Fatalf("want error on empty class id")
	}
	if _, err := svc.Schedule(context.Background(), classID, tmplID, 7, "FREQ=DAILY", start, start, start.AddDate(0, 0, 7)); err == nil {
		t.Fatalf("want error on slot out of range")
	}
	if _, err := svc.Schedule(context.Background(), classID, tmplID, 0, "FREQ=DAILY", start, start, start.AddDate(0, 0, -1)); err == nil {
		t.Fatalf("want error on inverted range")
	}
	// missing template
	if _, err := svc.Schedule(context.Background(), classID, tmplID, 0, "FREQ=DAILY", start, start, start.AddDate(0, 0, 7)); err == nil {
		t.Fatalf("want error on missing template")
	}

	templates.templates[tmplID] = model.LessonTemplate{ID: tmplID, Name: "T"}
	if _, err := svc.Schedule(context.Background(), classID, tmplID, 0, "FREQ=BOGUS", start, start, start.AddDate(0, 0, 7)); err == nil {
		t.Fatalf("want error on bad rule")
	}
}

func TestLessonPlanService_SchedulePartialFailure(t *testing.T) {
	t.Parallel()
	plans := newFakePlanRepo()
	templates := newFakeTemplateRepo()
	svc := NewLessonPlanService(plans, templates)

	classID, _ := uuid.NewV7()
	tmplID, _ := uuid.NewV7()
	templates.templates[tmplID] = model.LessonTemplate{ID: tmplID, Name: "T"}

	plans.createErr = errors.New("disk full")
	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	created, err := svc.Schedule(context.Background(), classID, tmplID, 0, "FREQ=DAILY;COUNT=3", start, start, start.AddDate(0, 0, 7))
	if err == nil {
		t.Fatalf("want error from repository")
	}
	if len(created) != 0 {
		t.Fatalf("no plans should survive: %+v", created)
	}
}
