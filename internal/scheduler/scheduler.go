package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"talento/internal/domain"
	"talento/internal/metrics"
	"talento/internal/models"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Scheduler keeps exactly one recurring cron entry per enabled notification
// schedule. Install, Cancel and Reinstall hold that invariant: installing an
// id that already has an entry replaces it, never stacks a second one.
type Scheduler struct {
	cron             *cron.Cron
	store            domain.ScheduleStore
	dispatcher       domain.Dispatcher
	defaultRecipient string
	logger           *zerolog.Logger

	mu      sync.Mutex
	entries map[int64]cron.EntryID
}

// New builds a scheduler. defaultRecipient addresses payloads for schedules
// that carry no recipient of their own.
func New(store domain.ScheduleStore, dispatcher domain.Dispatcher, defaultRecipient string, logger *zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:             cron.New(),
		store:            store,
		dispatcher:       dispatcher,
		defaultRecipient: defaultRecipient,
		logger:           logger,
		entries:          make(map[int64]cron.EntryID),
	}
}

// Start installs every enabled schedule and begins firing triggers.
func (s *Scheduler) Start(ctx context.Context) error {
	schedules, err := s.store.ListEnabledSchedules(ctx)
	if err != nil {
		return fmt.Errorf("list enabled schedules: %w", err)
	}

	for i := range schedules {
		if err := s.Install(&schedules[i]); err != nil {
			s.logger.Error().Err(err).Int64("schedule_id", schedules[i].ID).Msg("install schedule")
		}
	}

	s.cron.Start()
	s.logger.Info().Int("installed", len(schedules)).Msg("notification scheduler started")
	return nil
}

// Stop halts the cron runner and waits for in-flight jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// Install registers one recurring trigger for the schedule. A disabled
// schedule is a no-op beyond cancelling any existing entry.
func (s *Scheduler) Install(schedule *models.NotificationSchedule) error {
	s.Cancel(schedule.ID)

	if !schedule.Enabled {
		return nil
	}
	if !models.ValidScheduleType(schedule.Type) {
		return fmt.Errorf("unknown schedule type %q", schedule.Type)
	}

	spec := cronSpec(schedule)
	id := schedule.ID
	scheduleType := schedule.Type

	entryID, err := s.cron.AddFunc(spec, func() { s.fire(id, scheduleType) })
	if err != nil {
		return fmt.Errorf("add cron entry %q: %w", spec, err)
	}

	s.mu.Lock()
	s.entries[schedule.ID] = entryID
	s.mu.Unlock()

	s.logger.Info().
		Int64("schedule_id", schedule.ID).
		Str("type", schedule.Type).
		Str("spec", spec).
		Msg("schedule installed")
	return nil
}

// Cancel removes the trigger for a schedule id, if one exists.
func (s *Scheduler) Cancel(id int64) {
	s.mu.Lock()
	entryID, ok := s.entries[id]
	if ok {
		delete(s.entries, id)
	}
	s.mu.Unlock()

	if ok {
		s.cron.Remove(entryID)
	}
}

// Reinstall re-reads a schedule from the store and replaces its trigger,
// which is how create/update/toggle land in the running scheduler.
func (s *Scheduler) Reinstall(ctx context.Context, id int64) error {
	schedule, err := s.store.GetSchedule(ctx, id)
	if err != nil {
		return fmt.Errorf("get schedule %d: %w", id, err)
	}
	return s.Install(schedule)
}

// Installed reports whether a trigger currently exists for the id.
func (s *Scheduler) Installed(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[id]
	return ok
}

// fire builds the payload at trigger time, so the message always reflects
// current data, and fans it out over the schedule's channels.
func (s *Scheduler) fire(id int64, scheduleType string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	metrics.IncScheduleFire(scheduleType)

	schedule, err := s.store.GetSchedule(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("schedule_id", id).Msg("load schedule at fire time")
		return
	}
	if !schedule.Enabled {
		return
	}

	payload, err := BuildPayload(ctx, s.store, schedule, s.defaultRecipient)
	if err != nil {
		s.logger.Error().Err(err).Int64("schedule_id", id).Msg("build payload")
		return
	}

	results := s.dispatcher.SendViaAll(ctx, schedule.Channels, payload)
	s.logger.Info().
		Int64("schedule_id", id).
		Str("type", scheduleType).
		Interface("results", results).
		Msg("schedule fired")
}

// cronSpec derives a standard 5-field cron expression: dayOfWeek set means
// weekly, else dayOfMonth set means monthly, else daily at hour:minute.
func cronSpec(schedule *models.NotificationSchedule) string {
	if schedule.DayOfWeek != "" {
		return fmt.Sprintf("%d %d * * %d", schedule.Minute, schedule.Hour, weekdayNumber(schedule.DayOfWeek))
	}
	if schedule.DayOfMonth > 0 {
		return fmt.Sprintf("%d %d %d * *", schedule.Minute, schedule.Hour, schedule.DayOfMonth)
	}
	return fmt.Sprintf("%d %d * * *", schedule.Minute, schedule.Hour)
}

// weekdayNumber accepts English and Spanish day names. Unknown names map to
// Sunday, matching cron's 0.
func weekdayNumber(name string) int {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "monday", "lunes":
		return 1
	case "tuesday", "martes":
		return 2
	case "wednesday", "miercoles", "miércoles":
		return 3
	case "thursday", "jueves":
		return 4
	case "friday", "viernes":
		return 5
	case "saturday", "sabado", "sábado":
		return 6
	default:
		return 0
	}
}
