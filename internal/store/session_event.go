package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// eventRepo implements EventRepo with sqlx.
type eventRepo struct {
	db  *sqlx.DB
	seq *sequenceCounter
}

type answerRow struct {
	Sequence      int64         `db:"sequence"`
	Timestamp     int64         `db:"timestamp"`
	SessionID     string        `db:"session_id"`
	ExerciseID    string        `db:"exercise_id"`
	Topic         string        `db:"topic"`
	LearnerAnswer string        `db:"learner_answer"`
	Correct       bool          `db:"correct"`
	Forgotten     bool          `db:"forgotten"`
	Confidence    sql.NullInt64 `db:"confidence"`
	MasteryBefore float64       `db:"mastery_before"`
	MasteryAfter  float64       `db:"mastery_after"`
}

func (row answerRow) event() AnswerEvent {
	ev := AnswerEvent{
		Sequence:  row.Sequence,
		Timestamp: time.UnixMilli(row.Timestamp),
		AnswerEventData: AnswerEventData{
			SessionID:     row.SessionID,
			ExerciseID:    row.ExerciseID,
			Topic:         row.Topic,
			LearnerAnswer: row.LearnerAnswer,
			Correct:       row.Correct,
			Forgotten:     row.Forgotten,
			MasteryBefore: row.MasteryBefore,
			MasteryAfter:  row.MasteryAfter,
		},
	}
	if row.Confidence.Valid {
		c := int(row.Confidence.Int64)
		ev.Confidence = &c
	}
	return ev
}

func (r *eventRepo) AppendAnswerEvent(ctx context.Context, data AnswerEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	row := answerRow{
		Sequence:      seqNum,
		Timestamp:     time.Now().UnixMilli(),
		SessionID:     data.SessionID,
		ExerciseID:    data.ExerciseID,
		Topic:         data.Topic,
		LearnerAnswer: data.LearnerAnswer,
		Correct:       data.Correct,
		Forgotten:     data.Forgotten,
		MasteryBefore: data.MasteryBefore,
		MasteryAfter:  data.MasteryAfter,
	}
	if data.Confidence != nil {
		row.Confidence = sql.NullInt64{Int64: int64(*data.Confidence), Valid: true}
	}

	_, err = r.db.NamedExecContext(ctx, `INSERT INTO answer_events (
		sequence, timestamp, session_id, exercise_id, topic, learner_answer,
		correct, forgotten, confidence, mastery_before, mastery_after
	) VALUES (
		:sequence, :timestamp, :session_id, :exercise_id, :topic, :learner_answer,
		:correct, :forgotten, :confidence, :mastery_before, :mastery_after
	)`, row)
	if err != nil {
		return fmt.Errorf("save answer event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO session_events (
		sequence, timestamp, session_id, kind, action, date, queue_size, answered, correct
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, time.Now().UnixMilli(), data.SessionID, data.Kind, data.Action,
		data.Date, data.QueueSize, data.Answered, data.Correct,
	)
	if err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) RecentAnswers(ctx context.Context, opts QueryOpts) ([]AnswerEvent, error) {
	query := `SELECT sequence, timestamp, session_id, exercise_id, topic, learner_answer,
		correct, forgotten, confidence, mastery_before, mastery_after
		FROM answer_events WHERE sequence > ? AND timestamp >= ?
		ORDER BY sequence DESC`
	args := []any{opts.After, fromMillis(opts.From)}
	if opts.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, opts.Limit)
	}

	var rows []answerRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query recent answers: %w", err)
	}

	events := make([]AnswerEvent, len(rows))
	for i, row := range rows {
		events[i] = row.event()
	}
	return events, nil
}

func (r *eventRepo) AnswerTotals(ctx context.Context) (AnswerTotals, error) {
	var totals struct {
		Answers int           `db:"answers"`
		Correct sql.NullInt64 `db:"correct"`
	}
	err := r.db.GetContext(ctx, &totals,
		`SELECT COUNT(*) AS answers, SUM(CASE WHEN correct THEN 1 ELSE 0 END) AS correct FROM answer_events`)
	if err != nil {
		return AnswerTotals{}, fmt.Errorf("query answer totals: %w", err)
	}
	return AnswerTotals{Answers: totals.Answers, Correct: int(totals.Correct.Int64)}, nil
}

func (r *eventRepo) CompletedSessions(ctx context.Context, from time.Time) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM session_events WHERE action = ? AND timestamp >= ?`,
		SessionComplete, fromMillis(from))
	if err != nil {
		return 0, fmt.Errorf("query completed sessions: %w", err)
	}
	return n, nil
}

func (r *eventRepo) Clear(ctx context.Context) error {
	for _, table := range []string{"answer_events", "session_events"} {
		if _, err := r.db.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

func fromMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}
