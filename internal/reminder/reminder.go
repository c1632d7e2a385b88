// Package reminder nudges the learner once a day while today's queue is
// still unfinished.
package reminder

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// Checker reports how many exercises are left today.
type Checker interface {
	RemainingToday(ctx context.Context) (int, error)
}

// Notifier delivers a reminder.
type Notifier interface {
	Remind(ctx context.Context, remaining int) error
}

// WriterNotifier prints reminders to W.
type WriterNotifier struct {
	W io.Writer
}

func (n WriterNotifier) Remind(_ context.Context, remaining int) error {
	_, err := fmt.Fprintf(n.W, "Time for English practice: %d exercise(s) left today.\n", remaining)
	return err
}

// Scheduler runs the daily check.
type Scheduler struct {
	scheduler *gocron.Scheduler
	checker   Checker
	notifier  Notifier
	logger    *zap.Logger
	hour      int
	job       *gocron.Job
}

// New creates a scheduler that checks at hour:00 in loc every day.
func New(loc *time.Location, hour int, checker Checker, notifier Notifier, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(loc),
		checker:   checker,
		notifier:  notifier,
		logger:    logger,
		hour:      hour,
	}
}

// Start registers the daily job and runs the scheduler in the background.
func (s *Scheduler) Start() error {
	job, err := s.scheduler.Every(1).Day().At(fmt.Sprintf("%02d:00", s.hour)).Do(func() {
		if _, err := s.Check(context.Background()); err != nil {
			s.logger.Warn("reminder check failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule reminder: %w", err)
	}
	s.job = job
	s.scheduler.StartAsync()
	s.logger.Info("reminder scheduled", zap.Int("hour", s.hour), zap.Time("next_run", job.NextRun()))
	return nil
}

// NextRun returns when the reminder fires next. Zero before Start.
func (s *Scheduler) NextRun() time.Time {
	if s.job == nil {
		return time.Time{}
	}
	return s.job.NextRun()
}

// Stop terminates the scheduler.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// Check sends a reminder when exercises remain. It reports whether one was sent.
func (s *Scheduler) Check(ctx context.Context) (bool, error) {
	remaining, err := s.checker.RemainingToday(ctx)
	if err != nil {
		return false, fmt.Errorf("count remaining: %w", err)
	}
	if remaining == 0 {
		s.logger.Debug("queue finished, no reminder")
		return false, nil
	}
	if err := s.notifier.Remind(ctx, remaining); err != nil {
		return false, fmt.Errorf("send reminder: %w", err)
	}
	return true, nil
}
