package app

import (
	"context"
	"slices"

	"go.uber.org/zap"

	"github.com/abhisek/dailyenglish/internal/answer"
	"github.com/abhisek/dailyenglish/internal/catalog"
	"github.com/abhisek/dailyenglish/internal/mastery"
	"github.com/abhisek/dailyenglish/internal/queue"
	"github.com/abhisek/dailyenglish/internal/session"
	"github.com/abhisek/dailyenglish/internal/store"
	"github.com/abhisek/dailyenglish/internal/streak"
)

// View is a snapshot of the practice screen.
type View struct {
	Phase     session.SessionPhase
	Kind      session.Kind
	SessionID string

	// Current is nil unless Phase is PhaseActive.
	Current *catalog.Exercise

	// Position is the 1-based position of Current in the queue.
	Position  int
	Total     int
	Remaining int

	// Feedback is the result of the last answer to Current, if any.
	Feedback *session.Feedback

	Streak        int
	ChallengeID   string
	ChallengeDone bool
}

// View returns the current practice snapshot.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	today := c.today()
	s := c.st.Session
	v := View{
		Phase:         s.Phase(today, len(c.queue)),
		Kind:          s.Kind,
		SessionID:     s.ID,
		Total:         len(c.queue),
		Remaining:     s.Remaining(len(c.queue)),
		Streak:        c.st.StreakDays,
		ChallengeID:   c.st.DailyChallenge.ExerciseID,
		ChallengeDone: c.st.DailyChallenge.CompletedOn(today),
	}
	if v.Phase == session.PhaseActive {
		ex := c.queue[s.Index]
		v.Current = &ex
		v.Position = s.Index + 1
		if c.feedback != nil {
			fb := *c.feedback
			v.Feedback = &fb
		}
	}
	return v
}

// Queue returns the exercises of the current session in order.
func (c *Controller) Queue() []catalog.Exercise {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.queue)
}

func (c *Controller) current() (catalog.Exercise, bool) {
	s := c.st.Session
	if s.Phase(c.today(), len(c.queue)) != session.PhaseActive {
		return catalog.Exercise{}, false
	}
	return c.queue[s.Index], true
}

// Submit checks input against the current exercise and records the result.
// A forgotten answer counts as wrong without looking at input. confidence
// is optional. The cursor does not move; call Advance for that.
func (c *Controller) Submit(ctx context.Context, input string, forgotten bool, confidence *int) (*session.Feedback, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ex, ok := c.current()
	if !ok {
		return nil, ErrNothingToPractice
	}
	today := c.today()

	correct := !forgotten && answer.Check(input, ex.Answer, ex.Synonyms)

	next := c.st
	var res mastery.Result
	next.ProgressByID, res = mastery.Record(c.st.ProgressByID, ex.ID, correct, confidence, mastery.CapForGoal(c.prefs.DailyGoal), today)
	next.Session = c.st.Session.Record(ex.ID, correct)
	next.LastSessionDate = today

	fb := session.NewFeedback(ex, correct, forgotten, res, c.catalog.All())
	if correct && next.DailyChallenge.Date == today && next.DailyChallenge.ExerciseID == ex.ID && !next.DailyChallenge.Completed {
		next.DailyChallenge.Completed = true
		fb.ChallengeCompleted = true
	}

	if err := c.commit(ctx, next); err != nil {
		return nil, err
	}
	c.feedback = &fb

	if c.events != nil {
		err := c.events.AppendAnswerEvent(ctx, store.AnswerEventData{
			SessionID:     next.Session.ID,
			ExerciseID:    ex.ID,
			Topic:         ex.Topic,
			LearnerAnswer: input,
			Correct:       correct,
			Forgotten:     forgotten,
			Confidence:    confidence,
			MasteryBefore: res.Before.MasteryLevel,
			MasteryAfter:  res.After.MasteryLevel,
		})
		if err != nil {
			c.logger.Warn("append answer event failed", zap.String("exercise_id", ex.ID), zap.Error(err))
		}
	}

	out := fb
	return &out, nil
}

// Advance moves past the current exercise, answered or not. It reports
// whether this call completed the session, in which case today becomes an
// activity day.
func (c *Controller) Advance(ctx context.Context) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.current(); !ok {
		return false, nil
	}
	today := c.today()

	next := c.st
	var finished bool
	next.Session, finished = c.st.Session.Advance(len(c.queue))
	if finished {
		next.ActivityDays = streak.Mark(c.st.ActivityDays, today)
		next.StreakDays = streak.Compute(next.ActivityDays, today)
	}
	if err := c.commit(ctx, next); err != nil {
		return false, err
	}
	c.feedback = nil

	if finished {
		c.logger.Info("session complete",
			zap.String("session_id", next.Session.ID),
			zap.Int("answered", len(next.Session.AnsweredIDs)),
			zap.Int("correct", len(next.Session.CorrectIDs)),
			zap.Int("streak", next.StreakDays))
		c.logSession(ctx, next.Session, store.SessionComplete)
	}
	return finished, nil
}

// QuickReview replaces the session with a short queue built from the
// current filters.
func (c *Controller) QuickReview(ctx context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	today := c.today()
	limit := queue.QuickReviewLimit
	opts := c.options()
	opts.Limit = &limit

	ids := queue.IDs(queue.Build(c.catalog.All(), c.st.ProgressByID, opts, today))
	if len(ids) == 0 {
		return 0, ErrNothingToPractice
	}

	next := c.st
	next.Session = session.Start(today, ids, opts.Filters(), session.KindQuickReview)
	if err := c.commit(ctx, next); err != nil {
		return 0, err
	}
	c.feedback = nil
	c.logSession(ctx, next.Session, store.SessionStart)
	return len(ids), nil
}

// StartChallenge restarts the session with today's challenge in front.
func (c *Controller) StartChallenge(ctx context.Context) (catalog.Exercise, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureToday(ctx); err != nil {
		return catalog.Exercise{}, err
	}
	ex, ok := c.catalog.Get(c.st.DailyChallenge.ExerciseID)
	if !ok {
		return catalog.Exercise{}, ErrNothingToPractice
	}

	next := c.st
	next.Session = c.st.Session.WithFront(ex.ID, session.KindChallenge)
	if err := c.commit(ctx, next); err != nil {
		return catalog.Exercise{}, err
	}
	c.feedback = nil
	c.logSession(ctx, next.Session, store.SessionStart)
	return ex, nil
}
