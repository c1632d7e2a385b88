package session

import (
	"math"

	"github.com/abhisek/dailyenglish/internal/catalog"
	"github.com/abhisek/dailyenglish/internal/mastery"
)

// Example is a second exercise shown after a wrong answer.
type Example struct {
	Prompt string
	Answer string
}

// Feedback is the per-answer result shown to the learner. It is transient
// and cleared when the session advances.
type Feedback struct {
	ExerciseID string
	Correct    bool
	Forgotten  bool

	// Expected lists every accepted answer, joined with " / ".
	Expected string

	// Hint and Extra are only set for wrong answers.
	Hint  string
	Extra *Example

	// MasteryDelta is the signed change in percentage points.
	MasteryDelta int

	MasteryAfter float64
	Tip          string

	// ChallengeCompleted is set when this answer completed the daily challenge.
	ChallengeCompleted bool
}

// ExtraExample returns the first exercise in pool, other than current, that
// shares its topic.
func ExtraExample(pool []catalog.Exercise, current catalog.Exercise) *Example {
	for _, ex := range pool {
		if ex.Topic == current.Topic && ex.ID != current.ID {
			return &Example{Prompt: ex.Prompt, Answer: ex.Answer.Display()}
		}
	}
	return nil
}

// NewFeedback builds the feedback for an answer to ex.
func NewFeedback(ex catalog.Exercise, correct, forgotten bool, res mastery.Result, pool []catalog.Exercise) Feedback {
	fb := Feedback{
		ExerciseID:   ex.ID,
		Correct:      correct,
		Forgotten:    forgotten,
		Expected:     ex.Answer.Display(),
		MasteryDelta: int(math.Round(res.Delta * 100)),
		MasteryAfter: res.After.MasteryLevel,
		Tip:          catalog.TopicTip(ex.Topic),
	}
	if !correct {
		fb.Hint = Hint(ex.Answer.Canonical(), ex.Level)
		fb.Extra = ExtraExample(pool, ex)
	}
	return fb
}
