// Package queue builds the ordered list of exercises to practice on a day.
//
// Order of the result:
//
//  1. Exercises failed yesterday, in pool order (pinned).
//  2. A seeded shuffle of: up to three unmastered exercises from the focus
//     topic (the topic with the most failures), followed by unmastered
//     exercises already seen and, only when no backlog exists, new ones.
//
// The whole list is truncated to the effective limit.
package queue

import (
	"fmt"

	"github.com/abhisek/dailyenglish/internal/catalog"
	"github.com/abhisek/dailyenglish/internal/datekey"
	"github.com/abhisek/dailyenglish/internal/mastery"
	"github.com/abhisek/dailyenglish/internal/seeded"
)

const (
	// DefaultDailyGoal is the number of exercises per day when no goal is set.
	DefaultDailyGoal = 12

	// SeriesLength caps the queue when a single module is selected.
	SeriesLength = 10

	// QuickReviewLimit is the queue length for a quick review.
	QuickReviewLimit = 3

	// FocusItems is the number of focus-topic exercises boosted into the queue.
	FocusItems = 3
)

// Options are the filters and limits a queue is built with.
type Options struct {
	// ModuleID restricts the pool to one topic unless it is "all" or empty.
	ModuleID string

	// LevelCap keeps exercises whose level rank is at most LevelCap.
	// Zero disables the filter.
	LevelCap int

	// DailyGoal is the default queue length.
	DailyGoal int

	// SeriesLength overrides the module-scoped length. Zero means SeriesLength.
	SeriesLength int

	// Limit, when set, overrides every other length rule.
	Limit *int
}

// Filters returns the part of the options that identifies a session.
func (o Options) Filters() Filters {
	return Filters{ModuleID: moduleKey(o.ModuleID), LevelCap: o.LevelCap, DailyGoal: o.DailyGoal}
}

// Filters identify the inputs that produced a queue. A stored session is
// rebuilt when they change.
type Filters struct {
	ModuleID  string `json:"moduleId"`
	LevelCap  int    `json:"levelCap"`
	DailyGoal int    `json:"dailyGoal"`
}

// EffectiveLimit returns the maximum queue length for o.
func (o Options) EffectiveLimit() int {
	switch {
	case o.Limit != nil:
		return max(0, *o.Limit)
	case !catalog.IsAll(o.ModuleID):
		if o.SeriesLength > 0 {
			return o.SeriesLength
		}
		return SeriesLength
	case o.DailyGoal > 0:
		return o.DailyGoal
	default:
		return DefaultDailyGoal
	}
}

// SeedKey returns the shuffle key for today and o.
func SeedKey(today datekey.Key, o Options) string {
	levelKey := "all"
	if o.LevelCap > 0 {
		levelKey = fmt.Sprint(o.LevelCap)
	}
	return fmt.Sprintf("%s|%s|%s", today, moduleKey(o.ModuleID), levelKey)
}

func moduleKey(moduleID string) string {
	if catalog.IsAll(moduleID) {
		return catalog.AllModules
	}
	return moduleID
}

// FilterPool applies the level and module filters, keeping pool order.
func FilterPool(pool []catalog.Exercise, moduleID string, levelCap int) []catalog.Exercise {
	out := make([]catalog.Exercise, 0, len(pool))
	for _, ex := range pool {
		if levelCap > 0 && ex.Level.Rank() > levelCap {
			continue
		}
		if !catalog.IsAll(moduleID) && ex.Topic != moduleID {
			continue
		}
		out = append(out, ex)
	}
	return out
}

// Partition splits a filtered pool by scheduling priority.
type Partition struct {
	FailedYesterday []catalog.Exercise
	UnmasteredSeen  []catalog.Exercise
	// New is empty whenever either of the other two groups is not.
	New []catalog.Exercise
}

// HasBacklog reports whether older material is still outstanding.
func (p Partition) HasBacklog() bool {
	return len(p.FailedYesterday) > 0 || len(p.UnmasteredSeen) > 0
}

// Split partitions pool using progress and yesterday's date key.
func Split(pool []catalog.Exercise, progress mastery.ProgressMap, yesterday datekey.Key) Partition {
	var p Partition
	var unseen []catalog.Exercise
	for _, ex := range pool {
		prog, seen := progress.Get(ex.ID)
		switch {
		case seen && prog.LastFailedAt == yesterday:
			p.FailedYesterday = append(p.FailedYesterday, ex)
		case seen && !mastery.IsMastered(prog):
			p.UnmasteredSeen = append(p.UnmasteredSeen, ex)
		case !seen:
			unseen = append(unseen, ex)
		}
	}
	if !p.HasBacklog() {
		p.New = unseen
	}
	return p
}

// FocusTopic returns the topic with the highest summed failures over pool.
// Ties go to the topic encountered first. Returns false when nothing failed.
func FocusTopic(pool []catalog.Exercise, progress mastery.ProgressMap) (string, bool) {
	best := ""
	bestFailures := 0
	for _, tf := range mastery.FailuresByTopic(pool, progress) {
		if tf.Failures > bestFailures {
			best, bestFailures = tf.Topic, tf.Failures
		}
	}
	return best, bestFailures > 0
}

// focusItems returns up to FocusItems exercises from the focus topic, in
// pool order, taken only from the eligible groups so the gating rule holds.
func focusItems(pool []catalog.Exercise, progress mastery.ProgressMap, eligible map[string]bool) []catalog.Exercise {
	topic, ok := FocusTopic(pool, progress)
	if !ok {
		return nil
	}
	var items []catalog.Exercise
	for _, ex := range pool {
		if len(items) == FocusItems {
			break
		}
		if ex.Topic == topic && eligible[ex.ID] {
			items = append(items, ex)
		}
	}
	return items
}

// Build returns today's queue for pool and progress. The result holds no
// duplicate IDs (assuming unique IDs in pool) and never exceeds
// o.EffectiveLimit(). An empty result means there is nothing to practice.
func Build(pool []catalog.Exercise, progress mastery.ProgressMap, o Options, today datekey.Key) []catalog.Exercise {
	filtered := FilterPool(pool, o.ModuleID, o.LevelCap)
	part := Split(filtered, progress, today.Yesterday())

	eligible := make(map[string]bool, len(part.UnmasteredSeen)+len(part.New))
	for _, ex := range part.UnmasteredSeen {
		eligible[ex.ID] = true
	}
	for _, ex := range part.New {
		eligible[ex.ID] = true
	}

	taken := make(map[string]bool, len(eligible))
	merged := make([]catalog.Exercise, 0, len(eligible))
	for _, group := range [][]catalog.Exercise{focusItems(filtered, progress, eligible), part.UnmasteredSeen, part.New} {
		for _, ex := range group {
			if taken[ex.ID] {
				continue
			}
			taken[ex.ID] = true
			merged = append(merged, ex)
		}
	}

	shuffled := seeded.Shuffle(merged, SeedKey(today, o))

	out := make([]catalog.Exercise, 0, len(part.FailedYesterday)+len(shuffled))
	out = append(out, part.FailedYesterday...)
	out = append(out, shuffled...)

	if limit := o.EffectiveLimit(); len(out) > limit {
		out = out[:limit]
	}
	return out
}

// IDs returns the exercise IDs of queue in order.
func IDs(queue []catalog.Exercise) []string {
	ids := make([]string, len(queue))
	for i, ex := range queue {
		ids[i] = ex.ID
	}
	return ids
}

// Challenge picks the daily challenge: the first exercise of the
// level-filtered pool after a shuffle keyed on the day.
func Challenge(pool []catalog.Exercise, levelCap int, today datekey.Key) (catalog.Exercise, bool) {
	filtered := FilterPool(pool, catalog.AllModules, levelCap)
	if len(filtered) == 0 {
		return catalog.Exercise{}, false
	}
	return seeded.Shuffle(filtered, "challenge|"+string(today))[0], true
}

// Lookup resolves an exercise by ID.
type Lookup interface {
	Get(id string) (catalog.Exercise, bool)
}

// Materialize resolves ids through lookup, silently dropping unknown IDs.
func Materialize(ids []string, lookup Lookup) []catalog.Exercise {
	out := make([]catalog.Exercise, 0, len(ids))
	for _, id := range ids {
		if ex, ok := lookup.Get(id); ok {
			out = append(out, ex)
		}
	}
	return out
}
