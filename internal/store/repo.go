package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by KV.Get when the key has no value.
var ErrNotFound = errors.New("store: key not found")

// KV stores opaque blobs under fixed keys. Put overwrites the whole value
// in a single statement.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit int       // max results (0 = unlimited)
	After int64     // sequence > After
	From  time.Time // timestamp >= From
}

// AnswerEventData captures one submitted answer.
type AnswerEventData struct {
	SessionID     string
	ExerciseID    string
	Topic         string
	LearnerAnswer string
	Correct       bool
	Forgotten     bool
	Confidence    *int
	MasteryBefore float64
	MasteryAfter  float64
}

// AnswerEvent is a stored answer.
type AnswerEvent struct {
	Sequence  int64
	Timestamp time.Time
	AnswerEventData
}

// SessionEventData captures a session lifecycle change.
type SessionEventData struct {
	SessionID string
	Kind      string
	Action    string // "start" or "complete"
	Date      string
	QueueSize int
	Answered  int
	Correct   int
}

// Session event actions.
const (
	SessionStart    = "start"
	SessionComplete = "complete"
)

// AnswerTotals aggregates the answer log.
type AnswerTotals struct {
	Answers int
	Correct int
}

// Accuracy returns the share of correct answers, or 0 when nothing was answered.
func (t AnswerTotals) Accuracy() float64 {
	if t.Answers == 0 {
		return 0
	}
	return float64(t.Correct) / float64(t.Answers)
}

// EventRepo provides append and query access to the answer and session logs.
type EventRepo interface {
	AppendAnswerEvent(ctx context.Context, data AnswerEventData) error
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// RecentAnswers returns answers newest first.
	RecentAnswers(ctx context.Context, opts QueryOpts) ([]AnswerEvent, error)

	// AnswerTotals returns lifetime answer counts.
	AnswerTotals(ctx context.Context) (AnswerTotals, error)

	// CompletedSessions counts sessions completed since from (zero means ever).
	CompletedSessions(ctx context.Context, from time.Time) (int, error)

	// Clear deletes both logs.
	Clear(ctx context.Context) error
}
