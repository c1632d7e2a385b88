package app

import (
	"context"
	"fmt"

	"github.com/abhisek/dailyenglish/internal/state"
)

// ResetEffect describes what ApplyReset will clear. It is computed without
// side effects so the caller can ask for confirmation first.
type ResetEffect struct {
	ProgressRecords int
	ActivityDays    int
	StreakDays      int

	ClearPrefs   bool
	ClearHistory bool
}

// PlanReset describes a reset of learning progress. Prefs and the answer
// history are only included when asked for.
func (c *Controller) PlanReset(clearPrefs, clearHistory bool) ResetEffect {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ResetEffect{
		ProgressRecords: len(c.st.ProgressByID),
		ActivityDays:    len(c.st.ActivityDays),
		StreakDays:      c.st.StreakDays,
		ClearPrefs:      clearPrefs,
		ClearHistory:    clearHistory && c.events != nil,
	}
}

// ApplyReset performs effect and starts over with a fresh session.
func (c *Controller) ApplyReset(ctx context.Context, effect ResetEffect) error {
	c.rebuild.Cancel()
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.states.Clear(ctx); err != nil {
		return fmt.Errorf("clear state: %w", err)
	}
	if effect.ClearPrefs {
		if err := c.states.ClearPrefs(ctx); err != nil {
			return fmt.Errorf("clear prefs: %w", err)
		}
		prefs, err := c.states.LoadPrefs(ctx, c.schedule.DailyGoal)
		if err != nil {
			return fmt.Errorf("load prefs: %w", err)
		}
		c.prefs = prefs
	}
	if effect.ClearHistory && c.events != nil {
		if err := c.events.Clear(ctx); err != nil {
			return fmt.Errorf("clear history: %w", err)
		}
	}

	c.logger.Info("progress reset")
	c.st = state.New()
	c.feedback = nil
	return c.ensureToday(ctx)
}
