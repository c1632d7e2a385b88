package mastery

import (
	"math"

	"github.com/abhisek/dailyenglish/internal/datekey"
)

const (
	// MasteredThreshold is the mastery level at which an exercise counts as mastered.
	MasteredThreshold = 0.8

	// CorrectGain is added to the mastery level on a correct answer.
	CorrectGain = 0.4

	// IncorrectPenalty is subtracted from the mastery level on a wrong answer.
	IncorrectPenalty = 0.3

	// FullCap is the mastery ceiling for daily goals without a throttle.
	FullCap = 1.0
)

// Progress is the learning state of one exercise.
type Progress struct {
	Attempts       int         `json:"attempts"`
	Failures       int         `json:"failures"`
	LastFailedAt   datekey.Key `json:"lastFailedAt,omitempty"`
	MasteryLevel   float64     `json:"masteryLevel"`
	LastConfidence *int        `json:"lastConfidence"`
}

// DefaultProgress returns the state of an exercise that has never been answered.
func DefaultProgress() Progress {
	return Progress{}
}

// IsMastered reports whether the mastery level reached MasteredThreshold.
func IsMastered(p Progress) bool {
	return p.MasteryLevel >= MasteredThreshold
}

// Accuracy returns the share of attempts that were correct.
func (p Progress) Accuracy() float64 {
	if p.Attempts == 0 {
		return 0
	}
	return float64(p.Attempts-p.Failures) / float64(p.Attempts)
}

// CapForGoal returns the mastery ceiling for a daily goal. Smaller goals
// throttle how far a single exercise can climb.
func CapForGoal(dailyGoal int) float64 {
	switch dailyGoal {
	case 5:
		return 0.5
	case 10:
		return 0.75
	default:
		return FullCap
	}
}

// Update applies one answer to p and returns the new record. p is not
// modified. confidence is stored as given.
func Update(p Progress, correct bool, confidence *int, cap float64, today datekey.Key) Progress {
	next := p
	next.Attempts++
	if confidence != nil {
		c := *confidence
		next.LastConfidence = &c
	} else {
		next.LastConfidence = nil
	}

	if correct {
		// Clamped even when a previous, larger cap let the level run higher.
		next.MasteryLevel = math.Min(cap, round2(next.MasteryLevel+CorrectGain))
	} else {
		next.Failures++
		next.LastFailedAt = today
		next.MasteryLevel = math.Max(0, round2(next.MasteryLevel-IncorrectPenalty))
	}
	return next
}

// round2 keeps stored levels at two decimals so repeated steps do not drift.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
