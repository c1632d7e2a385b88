package mastery

import (
	"sort"

	"github.com/abhisek/dailyenglish/internal/catalog"
	"github.com/abhisek/dailyenglish/internal/datekey"
)

// ProgressMap holds progress records keyed by exercise ID. Treat it as a
// value: With returns a new map and leaves the receiver untouched.
type ProgressMap map[string]Progress

// Get returns the record for id and whether one exists.
func (m ProgressMap) Get(id string) (Progress, bool) {
	p, ok := m[id]
	return p, ok
}

// With returns a copy of m with id set to p.
func (m ProgressMap) With(id string, p Progress) ProgressMap {
	next := make(ProgressMap, len(m)+1)
	for k, v := range m {
		next[k] = v
	}
	next[id] = p
	return next
}

// Clone returns a shallow copy of m. A nil map clones to an empty one.
func (m ProgressMap) Clone() ProgressMap {
	next := make(ProgressMap, len(m))
	for k, v := range m {
		next[k] = v
	}
	return next
}

// Result describes the outcome of recording one answer.
type Result struct {
	Before Progress
	After  Progress
	// Delta is the signed change in mastery level.
	Delta float64
}

// Record applies an answer for exerciseID and returns the updated map
// alongside the before/after records.
func Record(m ProgressMap, exerciseID string, correct bool, confidence *int, cap float64, today datekey.Key) (ProgressMap, Result) {
	before, ok := m.Get(exerciseID)
	if !ok {
		before = DefaultProgress()
	}
	after := Update(before, correct, confidence, cap, today)
	return m.With(exerciseID, after), Result{
		Before: before,
		After:  after,
		Delta:  after.MasteryLevel - before.MasteryLevel,
	}
}

// TopicFailures is the summed failure count for one topic.
type TopicFailures struct {
	Topic    string
	Failures int
}

// FailuresByTopic sums failures per topic over pool, in first-encountered
// topic order. Topics without failures are omitted.
func FailuresByTopic(pool []catalog.Exercise, m ProgressMap) []TopicFailures {
	index := make(map[string]int)
	var out []TopicFailures
	for _, ex := range pool {
		failures := m[ex.ID].Failures
		if failures == 0 {
			continue
		}
		i, ok := index[ex.Topic]
		if !ok {
			i = len(out)
			index[ex.Topic] = i
			out = append(out, TopicFailures{Topic: ex.Topic})
		}
		out[i].Failures += failures
	}
	return out
}

// TopFailureTopics returns up to n topics with the most failures, highest
// first. Ties keep first-encountered order.
func TopFailureTopics(pool []catalog.Exercise, m ProgressMap, n int) []TopicFailures {
	topics := FailuresByTopic(pool, m)
	sort.SliceStable(topics, func(i, j int) bool {
		return topics[i].Failures > topics[j].Failures
	})
	if n >= 0 && len(topics) > n {
		topics = topics[:n]
	}
	return topics
}

// AverageMastery returns the mean mastery level over ids, counting unseen
// exercises as zero. An empty list yields zero.
func AverageMastery(ids []string, m ProgressMap) float64 {
	if len(ids) == 0 {
		return 0
	}
	var sum float64
	for _, id := range ids {
		sum += m[id].MasteryLevel
	}
	return sum / float64(len(ids))
}

// Counts tallies exercises in pool by mastery state.
func Counts(pool []catalog.Exercise, m ProgressMap) map[MasteryState]int {
	counts := map[MasteryState]int{StateNew: 0, StateLearning: 0, StateMastered: 0}
	for _, ex := range pool {
		p, seen := m.Get(ex.ID)
		counts[StateOf(p, seen)]++
	}
	return counts
}
