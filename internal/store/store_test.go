package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil db handle")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, table := range []string{"kv", "answer_events", "session_events", "global_sequence"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Fatalf("query sqlite_master for %s: %v", table, err)
		}
		if name != table {
			t.Errorf("table name = %q, want %q", name, table)
		}
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.KV().Put(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("put: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	got, err := s.KV().Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != "v" {
		t.Errorf("value = %q, want v", got)
	}
}

func TestKV(t *testing.T) {
	s := openTestStore(t)
	kv := s.KV()
	ctx := context.Background()

	if _, err := kv.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get missing: err = %v, want ErrNotFound", err)
	}

	if err := kv.Put(ctx, "state", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := kv.Put(ctx, "state", []byte(`{"a":2}`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := kv.Get(ctx, "state")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != `{"a":2}` {
		t.Errorf("value = %s, want overwritten value", got)
	}

	if err := kv.Delete(ctx, "state"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := kv.Get(ctx, "state"); !errors.Is(err, ErrNotFound) {
		t.Errorf("get after delete: err = %v, want ErrNotFound", err)
	}
	if err := kv.Delete(ctx, "state"); err != nil {
		t.Errorf("deleting a missing key should succeed: %v", err)
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	sc, err := newSequenceCounter(s.DB())
	if err != nil {
		t.Fatalf("new sequence counter: %v", err)
	}

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := sc.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	// Should be monotonically increasing starting from 1.
	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}

func TestAnswerEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	totals, err := repo.AnswerTotals(ctx)
	if err != nil {
		t.Fatalf("totals (empty): %v", err)
	}
	if totals.Answers != 0 || totals.Accuracy() != 0 {
		t.Errorf("empty totals = %+v", totals)
	}

	conf := 3
	answers := []AnswerEventData{
		{SessionID: "s1", ExerciseID: "ex-001", Topic: "travel", LearnerAnswer: "hi", Correct: true, Confidence: &conf, MasteryAfter: 0.4},
		{SessionID: "s1", ExerciseID: "ex-002", Topic: "food", Forgotten: true, MasteryBefore: 0.4, MasteryAfter: 0.1},
		{SessionID: "s1", ExerciseID: "ex-003", Topic: "food", LearnerAnswer: "x", Correct: true},
	}
	for i, a := range answers {
		if err := repo.AppendAnswerEvent(ctx, a); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	totals, err = repo.AnswerTotals(ctx)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if totals.Answers != 3 || totals.Correct != 2 {
		t.Errorf("totals = %+v, want 3 answers, 2 correct", totals)
	}

	recent, err := repo.RecentAnswers(ctx, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("recent = %d events, want 2", len(recent))
	}
	if recent[0].ExerciseID != "ex-003" || recent[1].ExerciseID != "ex-002" {
		t.Errorf("recent order = %s, %s, want newest first", recent[0].ExerciseID, recent[1].ExerciseID)
	}
	if !recent[1].Forgotten || recent[1].Confidence != nil {
		t.Errorf("event fields lost: %+v", recent[1])
	}

	all, err := repo.RecentAnswers(ctx, QueryOpts{After: recent[1].Sequence})
	if err != nil {
		t.Fatalf("recent after: %v", err)
	}
	if len(all) != 1 || all[0].ExerciseID != "ex-003" {
		t.Errorf("after filter returned %+v", all)
	}

	first, err := repo.RecentAnswers(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("recent all: %v", err)
	}
	last := first[len(first)-1]
	if last.Confidence == nil || *last.Confidence != 3 {
		t.Errorf("confidence = %v, want 3", last.Confidence)
	}
	if last.MasteryAfter != 0.4 {
		t.Errorf("mastery after = %v, want 0.4", last.MasteryAfter)
	}
}

func TestSessionEventsShareSequence(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	if err := repo.AppendSessionEvent(ctx, SessionEventData{SessionID: "s1", Kind: "daily", Action: SessionStart, Date: "2024-05-03", QueueSize: 2}); err != nil {
		t.Fatalf("append start: %v", err)
	}
	if err := repo.AppendAnswerEvent(ctx, AnswerEventData{SessionID: "s1", ExerciseID: "a", Correct: true}); err != nil {
		t.Fatalf("append answer: %v", err)
	}
	if err := repo.AppendSessionEvent(ctx, SessionEventData{SessionID: "s1", Kind: "daily", Action: SessionComplete, Date: "2024-05-03", QueueSize: 2, Answered: 2, Correct: 1}); err != nil {
		t.Fatalf("append complete: %v", err)
	}

	answers, err := repo.RecentAnswers(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(answers) != 1 || answers[0].Sequence != 2 {
		t.Errorf("answer sequence = %+v, want 2 between the session events", answers)
	}

	n, err := repo.CompletedSessions(ctx, time.Time{})
	if err != nil {
		t.Fatalf("completed: %v", err)
	}
	if n != 1 {
		t.Errorf("completed sessions = %d, want 1", n)
	}

	n, err = repo.CompletedSessions(ctx, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("completed (future): %v", err)
	}
	if n != 0 {
		t.Errorf("completed sessions from the future = %d, want 0", n)
	}

	if err := repo.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	totals, err := repo.AnswerTotals(ctx)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if totals.Answers != 0 {
		t.Errorf("answers after clear = %d, want 0", totals.Answers)
	}
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()

	t.Setenv(DBEnv, "")
	t.Setenv("XDG_DATA_HOME", dir)
	p, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("default path: %v", err)
	}
	if want := filepath.Join(dir, "dailyenglish", "dailyenglish.db"); p != want {
		t.Errorf("path = %q, want %q", p, want)
	}

	override := filepath.Join(dir, "custom", "x.db")
	t.Setenv(DBEnv, override)
	p, err = DefaultDBPath()
	if err != nil {
		t.Fatalf("override path: %v", err)
	}
	if p != override {
		t.Errorf("path = %q, want %q", p, override)
	}
}
