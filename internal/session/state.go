package session

import (
	"encoding/json"
	"slices"

	"github.com/google/uuid"

	"github.com/abhisek/dailyenglish/internal/datekey"
	"github.com/abhisek/dailyenglish/internal/queue"
)

// SessionPhase represents the current phase of the session.
type SessionPhase int

const (
	PhaseIdle     SessionPhase = iota // No session for today
	PhaseActive                       // Queue built, exercises remaining
	PhaseComplete                     // Cursor past the end or queue empty
)

func (p SessionPhase) String() string {
	switch p {
	case PhaseActive:
		return "active"
	case PhaseComplete:
		return "complete"
	default:
		return "idle"
	}
}

// Kind tells how the session queue was produced.
type Kind string

const (
	KindDaily       Kind = "daily"
	KindQuickReview Kind = "quick-review"
	KindChallenge   Kind = "challenge"
)

// IDSet is a set of exercise IDs. It serializes as a sorted JSON array.
// Like Session, it is treated as a value: With and Without return copies.
type IDSet map[string]struct{}

// Has reports whether id is in the set.
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// With returns a copy of s that contains id.
func (s IDSet) With(id string) IDSet {
	next := make(IDSet, len(s)+1)
	for k := range s {
		next[k] = struct{}{}
	}
	next[id] = struct{}{}
	return next
}

// Without returns a copy of s that does not contain id.
func (s IDSet) Without(id string) IDSet {
	next := make(IDSet, len(s))
	for k := range s {
		if k != id {
			next[k] = struct{}{}
		}
	}
	return next
}

// Sorted returns the IDs in lexical order.
func (s IDSet) Sorted() []string {
	ids := make([]string, 0, len(s))
	for k := range s {
		ids = append(ids, k)
	}
	slices.Sort(ids)
	return ids
}

func (s IDSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

func (s *IDSet) UnmarshalJSON(b []byte) error {
	var ids []string
	if err := json.Unmarshal(b, &ids); err != nil {
		return err
	}
	set := make(IDSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	*s = set
	return nil
}

// Session is the day's in-progress queue. Methods never modify the
// receiver; each transition returns a new Session.
type Session struct {
	// ID is the UUID for this session.
	ID string `json:"id"`

	Kind Kind        `json:"kind"`
	Date datekey.Key `json:"date"`

	// QueueIDs is the ordered exercise list. It may hold duplicates only if
	// the pool it was built from did.
	QueueIDs []string `json:"queueIds"`

	// Index is the cursor into the materialized queue.
	Index int `json:"index"`

	// Completed counts exercises moved past, capped at the queue length.
	Completed int `json:"completed"`

	AnsweredIDs IDSet `json:"answeredIds"`
	CorrectIDs  IDSet `json:"correctIds"`

	// Filters are the inputs that produced QueueIDs.
	queue.Filters
}

// Start creates a fresh session over ids.
func Start(date datekey.Key, ids []string, filters queue.Filters, kind Kind) Session {
	if kind == "" {
		kind = KindDaily
	}
	return Session{
		ID:          uuid.NewString(),
		Kind:        kind,
		Date:        date,
		QueueIDs:    slices.Clone(ids),
		AnsweredIDs: IDSet{},
		CorrectIDs:  IDSet{},
		Filters:     filters,
	}
}

// IsZero reports whether s was never started.
func (s Session) IsZero() bool {
	return s.ID == "" && s.Date.IsZero() && len(s.QueueIDs) == 0
}

// Matches reports whether s is still today's session for filters. A
// mismatch means the queue must be rebuilt.
func (s Session) Matches(today datekey.Key, filters queue.Filters) bool {
	return !s.IsZero() && s.Date == today && s.Filters == filters
}

// Phase returns the phase of s on today for a materialized queue of queueLen.
func (s Session) Phase(today datekey.Key, queueLen int) SessionPhase {
	switch {
	case s.IsZero() || s.Date != today:
		return PhaseIdle
	case queueLen == 0 || s.Index >= queueLen:
		return PhaseComplete
	default:
		return PhaseActive
	}
}

// Record notes an answer for id. A later answer to the same exercise
// replaces the earlier verdict in CorrectIDs.
func (s Session) Record(id string, correct bool) Session {
	next := s
	next.AnsweredIDs = s.AnsweredIDs.With(id)
	if correct {
		next.CorrectIDs = s.CorrectIDs.With(id)
	} else {
		next.CorrectIDs = s.CorrectIDs.Without(id)
	}
	return next
}

// Advance moves the cursor to the next exercise. finished is true only when
// this call completed a non-empty queue of queueLen.
func (s Session) Advance(queueLen int) (next Session, finished bool) {
	next = s
	next.Index = min(s.Index+1, queueLen)
	next.Completed = min(s.Completed+1, queueLen)
	finished = queueLen > 0 && s.Completed < queueLen && next.Completed == queueLen
	return next, finished
}

// Remaining returns how many exercises are left for a queue of queueLen.
func (s Session) Remaining(queueLen int) int {
	return max(queueLen-s.Completed, 0)
}

// CurrentID returns the exercise ID under the cursor of the materialized
// queue ids, or false when the session is complete.
func (s Session) CurrentID(ids []string) (string, bool) {
	if s.Index < 0 || s.Index >= len(ids) {
		return "", false
	}
	return ids[s.Index], true
}

// WithFront returns a restarted session whose queue starts with id. Any
// other occurrence of id is removed.
func (s Session) WithFront(id string, kind Kind) Session {
	ids := make([]string, 0, len(s.QueueIDs)+1)
	ids = append(ids, id)
	for _, other := range s.QueueIDs {
		if other != id {
			ids = append(ids, other)
		}
	}
	return Start(s.Date, ids, s.Filters, kind)
}
