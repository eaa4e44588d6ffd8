// Package sync keeps local lesson-plan calendar links and the remote
// calendar's event set approximately consistent. Inbound changes are polled
// with a sync token; outbound changes are pushed per lesson plan.
package sync

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	gosync "sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"teachassist/internal/calendar"
	"teachassist/internal/errs"
	"teachassist/internal/model"
	"teachassist/internal/repository"
)

// Handler is notified after each poll that produced changes. Handlers run
// sequentially in registration order; a failing handler does not stop the
// others.
type Handler func(ctx context.Context, changed []model.CalendarEvent, deletedIDs []string) error

// DefaultInterval is the polling cadence when none is configured.
const DefaultInterval = 15 * time.Minute

// Syncer orchestrates bidirectional calendar synchronization.
type Syncer struct {
	provider calendar.Provider
	plans    repository.LessonPlanRepository
	classes  repository.ClassRepository
	settings *SettingsLoader
	log      *zap.Logger

	interval time.Duration
	tz       *time.Location

	// mu guards token, inFlight and the lifecycle fields below.
	mu       gosync.Mutex
	token    string
	inFlight bool
	running  bool
	cron     *cron.Cron
	cancel   context.CancelFunc
	wg       gosync.WaitGroup

	hmu      gosync.Mutex
	nextID   int
	handlers []registeredHandler
}

type registeredHandler struct {
	id int
	fn Handler
}

// New constructs a Syncer. interval <= 0 selects DefaultInterval; tz == nil
// selects time.Local.
func New(
	provider calendar.Provider,
	plans repository.LessonPlanRepository,
	classes repository.ClassRepository,
	settings *SettingsLoader,
	interval time.Duration,
	tz *time.Location,
	log *zap.Logger,
) *Syncer {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if tz == nil {
		tz = time.Local
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Syncer{
		provider: provider,
		plans:    plans,
		classes:  classes,
		settings: settings,
		interval: interval,
		tz:       tz,
		log:      log,
	}
}

// RegisterHandler adds a change handler and returns its registration id.
func (s *Syncer) RegisterHandler(fn Handler) int {
	s.hmu.Lock()
	defer s.hmu.Unlock()
	s.nextID++
	s.handlers = append(s.handlers, registeredHandler{id: s.nextID, fn: fn})
	return s.nextID
}

// UnregisterHandler removes a previously registered handler.
func (s *Syncer) UnregisterHandler(id int) {
	s.hmu.Lock()
	defer s.hmu.Unlock()
	for i, h := range s.handlers {
		if h.id == id {
			s.handlers = append(s.handlers[:i], s.handlers[i+1:]...)
			return
		}
	}
}

// Start arms the polling schedule and triggers an immediate first pass.
// Restarting an already-running syncer is a no-op.
func (s *Syncer) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	c := cron.New()
	_, err := c.AddFunc(fmt.Sprintf("@every %s", s.interval), func() {
		if _, err := s.pass(runCtx); err != nil && !errors.Is(err, errs.ErrSyncInProgress) {
			s.log.Warn("scheduled calendar poll failed", zap.Error(err))
		}
	})
	if err != nil {
		cancel()
		return fmt.Errorf("schedule polling: %w", err)
	}

	s.cron = c
	s.cancel = cancel
	s.running = true
	c.Start()

	// immediate first tick; registered with the wait group up front so a
	// Stop racing the spawn still waits for it
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if runCtx.Err() != nil {
			return
		}
		if _, err := s.pass(runCtx); err != nil && !errors.Is(err, errs.ErrSyncInProgress) {
			s.log.Warn("initial calendar poll failed", zap.Error(err))
		}
	}()

	s.log.Info("calendar sync started", zap.Duration("interval", s.interval))
	return nil
}

// Stop disarms the schedule and waits for any pass already in flight.
// The syncer can be restarted afterwards; the sync token is kept.
func (s *Syncer) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	c := s.cron
	cancel := s.cancel
	s.cron, s.cancel = nil, nil
	s.mu.Unlock()

	cancel()
	<-c.Stop().Done()
	s.wg.Wait()
	s.log.Info("calendar sync stopped")
}

// SyncNow triggers a manual poll pass and returns the number of processed
// change items. Returns errs.ErrSyncInProgress when a pass is in flight.
func (s *Syncer) SyncNow(ctx context.Context) (int, error) {
	return s.pass(ctx)
}

// pass performs a single poll: at most one pass runs at a time; overlapping
// invocations are rejected rather than queued.
func (s *Syncer) pass(ctx context.Context) (n int, err error) {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return 0, errs.ErrSyncInProgress
	}
	s.inFlight = true
	token := s.token
	s.wg.Add(1)
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
		s.wg.Done()
	}()

	if !s.provider.IsAuthenticated(ctx) {
		s.log.Warn("calendar poll skipped: not authenticated")
		return 0, errs.ErrNotAuthenticated
	}

	if token == "" {
		tok, err := s.provider.AcquireSyncToken(ctx)
		if err != nil {
			s.log.Error("sync token acquisition failed", zap.Error(err))
			return 0, err
		}
		s.setToken(tok)
		s.log.Info("acquired fresh sync token")
		// the acquisition listing's payload is intentionally not processed
		return 0, nil
	}

	set, err := s.provider.Changes(ctx, token)
	if errors.Is(err, errs.ErrSyncTokenExpired) {
		// expected, recoverable: next pass re-acquires before any processing
		s.setToken("")
		s.log.Info("sync token expired; re-acquiring on next pass")
		return 0, nil
	}
	if err != nil {
		s.log.Error("calendar poll failed", zap.Error(err))
		return 0, err
	}
	if set.NextSyncToken != "" {
		s.setToken(set.NextSyncToken)
	}

	changed, deleted := partition(set.Events)
	if len(changed) == 0 && len(deleted) == 0 {
		return 0, nil
	}

	s.notify(ctx, changed, deleted)
	s.log.Info("calendar poll complete",
		zap.Int("changed", len(changed)),
		zap.Int("deleted", len(deleted)))
	return len(changed) + len(deleted), nil
}

func (s *Syncer) setToken(tok string) {
	s.mu.Lock()
	s.token = tok
	s.mu.Unlock()
}

// partition splits a change feed into changed events and deleted event IDs.
func partition(events []model.CalendarEvent) (changed []model.CalendarEvent, deletedIDs []string) {
	for _, ev := range events {
		if ev.Cancelled() {
			deletedIDs = append(deletedIDs, ev.ID)
			continue
		}
		changed = append(changed, ev)
	}
	return changed, deletedIDs
}

// notify invokes handlers sequentially in registration order, isolating
// errors and panics per handler.
func (s *Syncer) notify(ctx context.Context, changed []model.CalendarEvent, deletedIDs []string) {
	s.hmu.Lock()
	handlers := make([]registeredHandler, len(s.handlers))
	copy(handlers, s.handlers)
	s.hmu.Unlock()

	for _, h := range handlers {
		s.invoke(ctx, h, changed, deletedIDs)
	}
}

func (s *Syncer) invoke(ctx context.Context, h registeredHandler, changed []model.CalendarEvent, deletedIDs []string) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("sync handler panicked",
				zap.Int("handler", h.id),
				zap.Any("reason", r),
				zap.ByteString("stack", debug.Stack()))
		}
	}()
	if err := h.fn(ctx, changed, deletedIDs); err != nil {
		s.log.Error("sync handler failed", zap.Int("handler", h.id), zap.Error(err))
	}
}
