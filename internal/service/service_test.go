package service

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"teachassist/internal/errs"
	"teachassist/internal/model"
)

type fakeClassRepo struct {
	classes map[uuid.UUID]model.ClassInfo
	lastOp  string
}

func newFakeClassRepo() *fakeClassRepo {
	return &fakeClassRepo{classes: map[uuid.UUID]model.ClassInfo{}}
}

func (f *fakeClassRepo) Create(_ context.Context, c *model.ClassInfo) error {
	f.lastOp = "create"
	f.classes[c.ID] = *c
	return nil
}

func (f *fakeClassRepo) GetByID(_ context.Context, id uuid.UUID) (*model.ClassInfo, error) {
	c, ok := f.classes[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &c, nil
}

func (f *fakeClassRepo) GetAll(_ context.Context) ([]model.ClassInfo, error) {
	out := make([]model.ClassInfo, 0, len(f.classes))
	for _, c := range f.classes {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeClassRepo) Update(_ context.Context, c *model.ClassInfo) error {
	f.lastOp = "update"
	if _, ok := f.classes[c.ID]; !ok {
		return errs.ErrNotFound
	}
	f.classes[c.ID] = *c
	return nil
}

func (f *fakeClassRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.lastOp = "delete"
	if _, ok := f.classes[id]; !ok {
		return errs.ErrNotFound
	}
	delete(f.classes, id)
	return nil
}

type fakePlanRepo struct {
	plans     map[uuid.UUID]model.LessonPlan
	createErr error
}

func newFakePlanRepo() *fakePlanRepo {
	return &fakePlanRepo{plans: map[uuid.UUID]model.LessonPlan{}}
}

func (f *fakePlanRepo) Create(_ context.Context, p *model.LessonPlan) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.plans[p.ID] = *p
	return nil
}

func (f *fakePlanRepo) GetByID(_ context.Context, id uuid.UUID) (*model.LessonPlan, error) {
	p, ok := f.plans[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &p, nil
}

func (f *fakePlanRepo) GetAll(_ context.Context) ([]model.LessonPlan, error) {
	out := make([]model.LessonPlan, 0, len(f.plans))
	for _, p := range f.plans {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakePlanRepo) GetByClass(_ context.Context, classID uuid.UUID) ([]model.LessonPlan, error) {
	var out []model.LessonPlan
	for _, p := range f.plans {
		if p.ClassID == classID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePlanRepo) GetByDate(_ context.Context, date time.Time) ([]model.LessonPlan, error) {
	var out []model.LessonPlan
	for _, p := range f.plans {
		if p.Date.Equal(date) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePlanRepo) Update(_ context.Context, p *model.LessonPlan) error {
	if _, ok := f.plans[p.ID]; !ok {
		return errs.ErrNotFound
	}
	f.plans[p.ID] = *p
	return nil
}

func (f *fakePlanRepo) SetCalendarEventID(_ context.Context, id uuid.UUID, eventID string) error {
	p, ok := f.plans[id]
	if !ok {
		return errs.ErrNotFound
	}
	p.CalendarEventID = eventID
	f.plans[id] = p
	return nil
}

func (f *fakePlanRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.plans[id]; !ok {
		return errs.ErrNotFound
	}
	delete(f.plans, id)
	return nil
}

type fakeTemplateRepo struct {
	templates map[uuid.UUID]model.LessonTemplate
}

func newFakeTemplateRepo() *fakeTemplateRepo {
	return &fakeTemplateRepo{templates: map[uuid.UUID]model.LessonTemplate{}}
}

func (f *fakeTemplateRepo) Create(_ context.Context, t *model.LessonTemplate) error {
	f.templates[t.ID] = *t
	return nil
}

func (f *fakeTemplateRepo) GetByID(_ context.Context, id uuid.UUID) (*model.LessonTemplate, error) {
	t, ok := f.templates[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &t, nil
}

func (f *fakeTemplateRepo) GetAll(_ context.Context) ([]model.LessonTemplate, error) {
	out := make([]model.LessonTemplate, 0, len(f.templates))
	for _, t := range f.templates {
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeTemplateRepo) Update(_ context.Context, t *model.LessonTemplate) error {
	if _, ok := f.templates[t.ID]; !ok {
		return errs.ErrNotFound
	}
	f.templates[t.ID] = *t
	return nil
}

func (f *fakeTemplateRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.templates, id)
	return nil
}
