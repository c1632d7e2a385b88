// Package streak derives day-level statistics from the set of activity days.
package streak

import (
	"encoding/json"
	"math"
	"slices"

	"github.com/abhisek/dailyenglish/internal/datekey"
)

// DefaultWeeklyGoal is the number of activity days per week that counts as 100%.
const DefaultWeeklyGoal = 4

// Days is the set of activity days. It serializes as a sorted JSON array.
type Days map[datekey.Key]struct{}

// NewDays builds a set from keys.
func NewDays(keys ...datekey.Key) Days {
	d := make(Days, len(keys))
	for _, k := range keys {
		d[k] = struct{}{}
	}
	return d
}

// Has reports whether key is an activity day.
func (d Days) Has(key datekey.Key) bool {
	_, ok := d[key]
	return ok
}

// Sorted returns the days oldest first.
func (d Days) Sorted() []datekey.Key {
	keys := make([]datekey.Key, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (d Days) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Sorted())
}

func (d *Days) UnmarshalJSON(b []byte) error {
	var keys []datekey.Key
	if err := json.Unmarshal(b, &keys); err != nil {
		return err
	}
	*d = NewDays(keys...)
	return nil
}

// Mark returns days with key added. When key is already present days is
// returned as is, so marking twice equals marking once.
func Mark(days Days, key datekey.Key) Days {
	if days.Has(key) {
		return days
	}
	next := make(Days, len(days)+1)
	for k := range days {
		next[k] = struct{}{}
	}
	next[key] = struct{}{}
	return next
}

// Compute returns the number of consecutive activity days ending today, or
// ending yesterday when today has no activity yet.
func Compute(days Days, today datekey.Key) int {
	cursor := today
	if !days.Has(cursor) {
		cursor = today.Yesterday()
	}
	n := 0
	for days.Has(cursor) {
		n++
		cursor = cursor.Yesterday()
	}
	return n
}

// Tier is a cosmetic level for a streak length.
type Tier int

const (
	TierNone Tier = iota
	TierSpark
	TierFlame
	TierBlaze
	TierInferno
	TierLegend
)

// TierFor maps a streak length to its tier.
func TierFor(streakDays int) Tier {
	switch {
	case streakDays >= 30:
		return TierLegend
	case streakDays >= 14:
		return TierInferno
	case streakDays >= 7:
		return TierBlaze
	case streakDays >= 3:
		return TierFlame
	case streakDays >= 1:
		return TierSpark
	default:
		return TierNone
	}
}

// DisplayName returns a human-readable label for the tier.
func (t Tier) DisplayName() string {
	switch t {
	case TierSpark:
		return "Spark"
	case TierFlame:
		return "Flame"
	case TierBlaze:
		return "Blaze"
	case TierInferno:
		return "Inferno"
	case TierLegend:
		return "Legend"
	default:
		return "No streak"
	}
}

// Recent returns the last n days up to and including today, oldest first.
func Recent(today datekey.Key, n int) []datekey.Key {
	if n <= 0 {
		return nil
	}
	keys := make([]datekey.Key, n)
	for i := range keys {
		keys[i] = today.AddDays(i - n + 1)
	}
	return keys
}

// Weekly summarizes activity over the last seven days.
type Weekly struct {
	Days    []datekey.Key
	Active  []bool
	Count   int
	Goal    int
	Percent int
}

// WeeklyProgress counts activity days in the seven days ending today and
// reports them against goal, capped at 100%. A non-positive goal uses
// DefaultWeeklyGoal.
func WeeklyProgress(days Days, today datekey.Key, goal int) Weekly {
	if goal <= 0 {
		goal = DefaultWeeklyGoal
	}
	w := Weekly{Days: Recent(today, 7), Goal: goal}
	w.Active = make([]bool, len(w.Days))
	for i, d := range w.Days {
		if days.Has(d) {
			w.Active[i] = true
			w.Count++
		}
	}
	w.Percent = min(100, int(math.Round(float64(w.Count)/float64(goal)*100)))
	return w
}
