// Package app is the controller that owns the learner's persisted state and
// drives a practice session through the scheduling packages.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/abhisek/dailyenglish/internal/catalog"
	"github.com/abhisek/dailyenglish/internal/config"
	"github.com/abhisek/dailyenglish/internal/datekey"
	"github.com/abhisek/dailyenglish/internal/debounce"
	"github.com/abhisek/dailyenglish/internal/queue"
	"github.com/abhisek/dailyenglish/internal/session"
	"github.com/abhisek/dailyenglish/internal/state"
	"github.com/abhisek/dailyenglish/internal/store"
	"github.com/abhisek/dailyenglish/internal/streak"
)

// ErrNothingToPractice is returned when an operation needs an exercise and
// none is available today.
var ErrNothingToPractice = errors.New("app: nothing to practice today")

// Options holds the controller's collaborators.
type Options struct {
	// Catalog is the exercise pool. Nil uses catalog.Default().
	Catalog *catalog.Catalog

	States *state.Repo

	// Events receives the answer and session logs. Optional.
	Events store.EventRepo

	Schedule config.ScheduleConfig

	// Clock defaults to time.Now.
	Clock datekey.Clock

	// AfterFunc schedules debounced rebuilds. Nil uses real timers.
	AfterFunc debounce.AfterFunc

	Logger *zap.Logger
}

// Controller serializes every operation behind a mutex. Each mutation reads
// the current state, derives a new one and persists it before returning.
type Controller struct {
	mu sync.Mutex

	catalog  *catalog.Catalog
	states   *state.Repo
	events   store.EventRepo
	schedule config.ScheduleConfig
	clock    datekey.Clock
	logger   *zap.Logger
	rebuild  *debounce.Debouncer

	st    state.State
	prefs config.Prefs

	// queue is the session's queue resolved against the catalog.
	queue    []catalog.Exercise
	feedback *session.Feedback
}

// New loads the stored state and prefs and makes sure a session for today
// exists.
func New(ctx context.Context, opts Options) (*Controller, error) {
	if opts.States == nil {
		return nil, errors.New("app: state repository is required")
	}
	c := &Controller{
		catalog:  opts.Catalog,
		states:   opts.States,
		events:   opts.Events,
		schedule: opts.Schedule,
		clock:    opts.Clock,
		logger:   opts.Logger,
		rebuild:  debounce.New(opts.Schedule.RebuildDelay, opts.AfterFunc),
	}
	if c.catalog == nil {
		c.catalog = catalog.Default()
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.schedule.DailyGoal <= 0 {
		c.schedule.DailyGoal = queue.DefaultDailyGoal
	}

	prefs, err := c.states.LoadPrefs(ctx, c.schedule.DailyGoal)
	if err != nil {
		return nil, fmt.Errorf("load prefs: %w", err)
	}
	c.prefs = prefs

	stored, err := c.states.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	if stored != nil {
		c.st = *stored
	} else {
		c.st = state.New()
	}

	if err := c.ensureToday(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Close discards any pending debounced rebuild.
func (c *Controller) Close() {
	c.rebuild.Cancel()
}

// Refresh rebuilds the session immediately if the day or the filters
// changed, dropping any pending debounced rebuild.
func (c *Controller) Refresh(ctx context.Context) error {
	c.rebuild.Cancel()
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ensureToday(ctx)
}

func (c *Controller) today() datekey.Key {
	return datekey.Today(c.clock)
}

func (c *Controller) options() queue.Options {
	return queue.Options{
		ModuleID:     c.prefs.ModuleID,
		LevelCap:     c.prefs.LevelCap,
		DailyGoal:    c.prefs.DailyGoal,
		SeriesLength: c.schedule.SeriesLength,
	}
}

// ensureToday brings the state up to date for today: streak, daily
// challenge and session. Callers hold c.mu.
func (c *Controller) ensureToday(ctx context.Context) error {
	today := c.today()
	next := c.st
	changed := false

	if s := streak.Compute(next.ActivityDays, today); s != next.StreakDays {
		next.StreakDays = s
		changed = true
	}

	if next.DailyChallenge.Date != today {
		next.DailyChallenge = state.Challenge{Date: today}
		if ex, ok := queue.Challenge(c.catalog.All(), c.prefs.LevelCap, today); ok {
			next.DailyChallenge.ExerciseID = ex.ID
		}
		changed = true
	}

	opts := c.options()
	var started *session.Session
	if !next.Session.Matches(today, opts.Filters()) {
		ids := queue.IDs(queue.Build(c.catalog.All(), next.ProgressByID, opts, today))
		s := session.Start(today, ids, opts.Filters(), session.KindDaily)
		next.Session = s
		started = &s
		changed = true
		c.feedback = nil
		c.logger.Debug("session started",
			zap.String("session_id", s.ID),
			zap.String("date", string(today)),
			zap.Int("queue_size", len(ids)))
	}

	if changed {
		if err := c.commit(ctx, next); err != nil {
			return err
		}
	} else {
		c.materialize()
	}
	if started != nil {
		c.logSession(ctx, *started, store.SessionStart)
	}
	return nil
}

// commit persists next and makes it the current state.
func (c *Controller) commit(ctx context.Context, next state.State) error {
	if err := c.states.Save(ctx, next); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	c.st = next
	c.materialize()
	return nil
}

func (c *Controller) materialize() {
	c.queue = queue.Materialize(c.st.Session.QueueIDs, c.catalog)
}

func (c *Controller) logSession(ctx context.Context, s session.Session, action string) {
	if c.events == nil {
		return
	}
	err := c.events.AppendSessionEvent(ctx, store.SessionEventData{
		SessionID: s.ID,
		Kind:      string(s.Kind),
		Action:    action,
		Date:      string(s.Date),
		QueueSize: len(s.QueueIDs),
		Answered:  len(s.AnsweredIDs),
		Correct:   len(s.CorrectIDs),
	})
	if err != nil {
		c.logger.Warn("append session event failed", zap.String("action", action), zap.Error(err))
	}
}
