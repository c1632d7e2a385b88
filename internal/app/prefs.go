package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/dailyenglish/internal/config"
	"github.com/abhisek/dailyenglish/internal/queue"
)

// Prefs returns the learner's preferences.
func (c *Controller) Prefs() config.Prefs {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prefs
}

// Filters returns the queue filters derived from the preferences.
func (c *Controller) Filters() queue.Filters {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.options().Filters()
}

// SetPrefs stores p and schedules a debounced queue rebuild. A burst of
// changes rebuilds once, after the last one.
func (c *Controller) SetPrefs(ctx context.Context, p config.Prefs) (config.Prefs, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p = p.Normalize(c.schedule.DailyGoal)
	if err := c.states.SavePrefs(ctx, p); err != nil {
		return c.prefs, fmt.Errorf("save prefs: %w", err)
	}
	c.prefs = p

	c.rebuild.Schedule(func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if err := c.ensureToday(context.Background()); err != nil {
			c.logger.Warn("debounced rebuild failed", zap.Error(err))
		}
	})
	return p, nil
}

// RebuildPending reports whether a debounced rebuild is waiting.
func (c *Controller) RebuildPending() bool {
	return c.rebuild.Pending()
}
