package app

import (
	"context"
	"fmt"
	"math"

	"github.com/abhisek/dailyenglish/internal/catalog"
	"github.com/abhisek/dailyenglish/internal/datekey"
	"github.com/abhisek/dailyenglish/internal/mastery"
	"github.com/abhisek/dailyenglish/internal/queue"
	"github.com/abhisek/dailyenglish/internal/session"
	"github.com/abhisek/dailyenglish/internal/store"
	"github.com/abhisek/dailyenglish/internal/streak"
)

// TopFailureCount is how many topics Stats lists under common mistakes.
const TopFailureCount = 3

// Stats summarizes today's work and the learner's history.
type Stats struct {
	Today datekey.Key

	QueueSize int
	Remaining int

	// MasteryPercent is the average mastery of today's queue, 0-100.
	MasteryPercent int

	// Review lists failed-yesterday exercises, then other unmastered ones.
	Review          []catalog.Exercise
	FailedYesterday int
	Unmastered      int
	Counts          map[mastery.MasteryState]int
	TopFailures     []mastery.TopicFailures

	Streak int
	Tier   streak.Tier
	Weekly streak.Weekly

	ChallengeID   string
	ChallengeDone bool

	// Lifetime and SessionsThisWeek come from the event log and stay zero
	// without one.
	Lifetime         store.AnswerTotals
	SessionsThisWeek int
}

// Stats computes the summary for today.
func (c *Controller) Stats(ctx context.Context) (Stats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	today := c.today()
	pool := c.catalog.All()
	progress := c.st.ProgressByID
	yesterday := today.Yesterday()

	s := Stats{
		Today:          today,
		QueueSize:      len(c.queue),
		Remaining:      c.st.Session.Remaining(len(c.queue)),
		MasteryPercent: int(math.Round(mastery.AverageMastery(queue.IDs(c.queue), progress) * 100)),
		Counts:         mastery.Counts(pool, progress),
		TopFailures:    mastery.TopFailureTopics(pool, progress, TopFailureCount),
		Streak:         c.st.StreakDays,
		Tier:           streak.TierFor(c.st.StreakDays),
		Weekly:         streak.WeeklyProgress(c.st.ActivityDays, today, c.schedule.WeeklyGoal),
		ChallengeID:    c.st.DailyChallenge.ExerciseID,
		ChallengeDone:  c.st.DailyChallenge.CompletedOn(today),
	}

	var rest []catalog.Exercise
	for _, ex := range pool {
		p, seen := progress.Get(ex.ID)
		switch {
		case !seen:
		case p.LastFailedAt == yesterday:
			s.Review = append(s.Review, ex)
			s.FailedYesterday++
			if !mastery.IsMastered(p) {
				s.Unmastered++
			}
		case !mastery.IsMastered(p):
			rest = append(rest, ex)
			s.Unmastered++
		}
	}
	s.Review = append(s.Review, rest...)

	if c.events != nil {
		totals, err := c.events.AnswerTotals(ctx)
		if err != nil {
			return s, fmt.Errorf("answer totals: %w", err)
		}
		s.Lifetime = totals

		from := today.AddDays(-6).Time()
		n, err := c.events.CompletedSessions(ctx, from)
		if err != nil {
			return s, fmt.Errorf("completed sessions: %w", err)
		}
		s.SessionsThisWeek = n
	}
	return s, nil
}

// RemainingToday returns how many exercises are left in today's session,
// rebuilding it first if the day changed.
func (c *Controller) RemainingToday(ctx context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureToday(ctx); err != nil {
		return 0, err
	}
	if c.st.Session.Phase(c.today(), len(c.queue)) != session.PhaseActive {
		return 0, nil
	}
	return c.st.Session.Remaining(len(c.queue)), nil
}
