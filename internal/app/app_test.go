package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/dailyenglish/internal/catalog"
	"github.com/abhisek/dailyenglish/internal/config"
	"github.com/abhisek/dailyenglish/internal/datekey"
	"github.com/abhisek/dailyenglish/internal/debounce"
	"github.com/abhisek/dailyenglish/internal/mastery"
	"github.com/abhisek/dailyenglish/internal/session"
	"github.com/abhisek/dailyenglish/internal/state"
	"github.com/abhisek/dailyenglish/internal/store"
)

func ex(id, topic string, level catalog.Level, answer string) catalog.Exercise {
	return catalog.Exercise{
		ID:     id,
		Type:   catalog.TypeTranslation,
		Level:  level,
		Topic:  topic,
		Prompt: "prompt " + id,
		Answer: catalog.Answer{answer},
	}
}

func testCatalog() *catalog.Catalog {
	return catalog.New([]catalog.Exercise{
		ex("t1", "travel", catalog.LevelA1, "I'm running late"),
		ex("t2", "travel", catalog.LevelA1, "Where is the station"),
		ex("f1", "food", catalog.LevelA1, "I would like a coffee"),
		ex("f2", "food", catalog.LevelA1, "The bill please"),
		ex("w1", "work", catalog.LevelA1, "I have a meeting"),
		ex("w2", "work", catalog.LevelB2, "Let's circle back"),
	})
}

// testClock is a settable clock starting at 2024-05-03 10:00 local time.
type testClock struct {
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2024, 5, 3, 10, 0, 0, 0, time.Local)}
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) nextDay() { c.now = c.now.AddDate(0, 0, 1) }

type fakeTimer struct{ stopped bool }

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

// manualTimers holds debounced callbacks until the test fires them.
type manualTimers struct {
	fns []func()
}

func (m *manualTimers) AfterFunc(_ time.Duration, f func()) debounce.Timer {
	m.fns = append(m.fns, f)
	return &fakeTimer{}
}

func (m *manualTimers) fireLast() {
	m.fns[len(m.fns)-1]()
}

type fixture struct {
	store  *store.Store
	states *state.Repo
	clock  *testClock
	timers *manualTimers
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return &fixture{
		store:  st,
		states: state.NewRepo(st.KV(), nil),
		clock:  newTestClock(),
		timers: &manualTimers{},
	}
}

func (f *fixture) controller(t *testing.T, cat *catalog.Catalog) *Controller {
	t.Helper()
	c, err := New(context.Background(), Options{
		Catalog:   cat,
		States:    f.states,
		Events:    f.store.EventRepo(),
		Schedule:  config.ScheduleConfig{DailyGoal: 12, WeeklyGoal: 4, SeriesLength: 10},
		Clock:     f.clock.Now,
		AfterFunc: f.timers.AfterFunc,
	})
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

// finish answers every remaining exercise correctly and advances.
func finish(t *testing.T, c *Controller) {
	t.Helper()
	ctx := context.Background()
	for {
		v := c.View()
		if v.Phase != session.PhaseActive {
			return
		}
		_, err := c.Submit(ctx, v.Current.Answer[0], false, nil)
		require.NoError(t, err)
		_, err = c.Advance(ctx)
		require.NoError(t, err)
	}
}

func TestNew_StartsTodaysSession(t *testing.T) {
	f := newFixture(t)
	c := f.controller(t, testCatalog())

	v := c.View()
	assert.Equal(t, session.PhaseActive, v.Phase)
	assert.Equal(t, session.KindDaily, v.Kind)
	assert.Equal(t, 5, v.Total, "B2 exercise is above the default level cap")
	assert.Equal(t, 5, v.Remaining)
	assert.Equal(t, 1, v.Position)
	assert.NotEmpty(t, v.ChallengeID)
	assert.False(t, v.ChallengeDone)

	for _, e := range c.Queue() {
		assert.NotEqual(t, "w2", e.ID)
	}
}

func TestNew_ResumesStoredSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.controller(t, testCatalog())
	_, err := first.Advance(ctx)
	require.NoError(t, err)
	want := first.View()

	second := f.controller(t, testCatalog())
	got := second.View()
	assert.Equal(t, want.SessionID, got.SessionID)
	assert.Equal(t, 2, got.Position)
	assert.Equal(t, want.Current.ID, got.Current.ID)
}

func TestSubmit_Correct(t *testing.T) {
	f := newFixture(t)
	c := f.controller(t, testCatalog())
	ctx := context.Background()

	cur := c.View().Current
	fb, err := c.Submit(ctx, cur.Answer[0], false, nil)
	require.NoError(t, err)
	assert.True(t, fb.Correct)
	assert.Equal(t, 40, fb.MasteryDelta)
	assert.Empty(t, fb.Hint)
	assert.Nil(t, fb.Extra)

	v := c.View()
	assert.Equal(t, 1, v.Position, "submitting does not advance")
	require.NotNil(t, v.Feedback)
	assert.Equal(t, cur.ID, v.Feedback.ExerciseID)

	_, err = c.Advance(ctx)
	require.NoError(t, err)
	assert.Nil(t, c.View().Feedback)
}

func TestSubmit_WrongAndForgotten(t *testing.T) {
	f := newFixture(t)
	c := f.controller(t, testCatalog())
	ctx := context.Background()

	cur := c.View().Current
	fb, err := c.Submit(ctx, cur.Answer[0], true, nil)
	require.NoError(t, err)
	assert.False(t, fb.Correct, "forgotten ignores the input")
	assert.True(t, fb.Forgotten)
	assert.Equal(t, 0, fb.MasteryDelta)
	assert.NotEmpty(t, fb.Hint)
	assert.Equal(t, cur.Answer.Display(), fb.Expected)
	require.NotNil(t, fb.Extra, "every topic in the test catalog has a sibling")

	fb, err = c.Submit(ctx, "something else entirely", false, nil)
	require.NoError(t, err)
	assert.False(t, fb.Correct)

	events, err := f.store.EventRepo().RecentAnswers(ctx, store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.True(t, events[1].Forgotten)
	assert.Equal(t, cur.ID, events[0].ExerciseID)
}

func TestSubmit_RecordsConfidence(t *testing.T) {
	f := newFixture(t)
	c := f.controller(t, testCatalog())
	ctx := context.Background()

	conf := 3
	cur := c.View().Current
	_, err := c.Submit(ctx, cur.Answer[0], false, &conf)
	require.NoError(t, err)

	st, err := f.states.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, st)
	p := st.ProgressByID[cur.ID]
	require.NotNil(t, p.LastConfidence)
	assert.Equal(t, 3, *p.LastConfidence)
	assert.Equal(t, 1, p.Attempts)
	assert.Equal(t, datekey.Key("2024-05-03"), st.LastSessionDate)
}

func TestAdvance_CompletesSessionAndMarksActivity(t *testing.T) {
	f := newFixture(t)
	c := f.controller(t, testCatalog())
	ctx := context.Background()

	finish(t, c)

	v := c.View()
	assert.Equal(t, session.PhaseComplete, v.Phase)
	assert.Equal(t, 0, v.Remaining)
	assert.Equal(t, 1, v.Streak)

	finished, err := c.Advance(ctx)
	require.NoError(t, err)
	assert.False(t, finished, "advancing a complete session is a no-op")

	_, err = c.Submit(ctx, "anything", false, nil)
	assert.ErrorIs(t, err, ErrNothingToPractice)

	st, err := f.states.Load(ctx)
	require.NoError(t, err)
	assert.True(t, st.ActivityDays.Has("2024-05-03"))

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.Lifetime.Answers)
	assert.Equal(t, 5, stats.Lifetime.Correct)
	assert.Equal(t, 1, stats.SessionsThisWeek)
	assert.Equal(t, 1, stats.Weekly.Count)
	assert.Equal(t, 25, stats.Weekly.Percent)
}

func TestRefresh_NewDay(t *testing.T) {
	f := newFixture(t)
	c := f.controller(t, testCatalog())
	ctx := context.Background()

	finish(t, c)
	day1 := c.View().SessionID

	f.clock.nextDay()
	require.NoError(t, c.Refresh(ctx))

	v := c.View()
	assert.NotEqual(t, day1, v.SessionID)
	assert.Equal(t, session.PhaseActive, v.Phase)
	assert.Equal(t, 1, v.Streak, "yesterday still counts")
	assert.Equal(t, 5, v.Total, "every exercise is seen but not yet mastered")

	f.clock.nextDay()
	f.clock.nextDay()
	require.NoError(t, c.Refresh(ctx))
	assert.Equal(t, 0, c.View().Streak)
}

func TestRefresh_FailedYesterdayFirst(t *testing.T) {
	f := newFixture(t)
	c := f.controller(t, testCatalog())
	ctx := context.Background()

	failed := c.View().Current.ID
	_, err := c.Submit(ctx, "wrong", false, nil)
	require.NoError(t, err)

	f.clock.nextDay()
	require.NoError(t, c.Refresh(ctx))

	q := c.Queue()
	require.NotEmpty(t, q)
	assert.Equal(t, failed, q[0].ID)
	assert.Len(t, q, 1, "no new exercises while a backlog exists")
}

func TestSetPrefs_DebouncedRebuild(t *testing.T) {
	f := newFixture(t)
	c := f.controller(t, testCatalog())
	ctx := context.Background()
	before := c.View().SessionID

	p := c.Prefs()
	p.ModuleID = "food"
	_, err := c.SetPrefs(ctx, p)
	require.NoError(t, err)
	p.ModuleID = "work"
	p.LevelCap = 4
	got, err := c.SetPrefs(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, "work", got.ModuleID)

	assert.True(t, c.RebuildPending())
	assert.Equal(t, before, c.View().SessionID, "rebuild waits for the delay")

	f.timers.fireLast()
	assert.False(t, c.RebuildPending())

	v := c.View()
	assert.NotEqual(t, before, v.SessionID)
	assert.Equal(t, 2, v.Total)
	for _, e := range c.Queue() {
		assert.Equal(t, "work", e.Topic)
	}

	stored, err := f.states.LoadPrefs(ctx, 12)
	require.NoError(t, err)
	assert.Equal(t, "work", stored.ModuleID)
	assert.Equal(t, 4, stored.LevelCap)
}

func TestSetPrefs_Normalizes(t *testing.T) {
	f := newFixture(t)
	c := f.controller(t, testCatalog())

	got, err := c.SetPrefs(context.Background(), config.Prefs{LevelCap: 99})
	require.NoError(t, err)
	assert.Equal(t, catalog.AllModules, got.ModuleID)
	assert.Equal(t, config.DefaultLevelCap, got.LevelCap)
	assert.Equal(t, 12, got.DailyGoal)
}

func TestRefresh_AppliesPendingPrefs(t *testing.T) {
	f := newFixture(t)
	c := f.controller(t, testCatalog())
	ctx := context.Background()

	p := c.Prefs()
	p.ModuleID = "travel"
	_, err := c.SetPrefs(ctx, p)
	require.NoError(t, err)

	require.NoError(t, c.Refresh(ctx))
	assert.False(t, c.RebuildPending())
	assert.Equal(t, 2, c.View().Total)
}

func TestQuickReview(t *testing.T) {
	f := newFixture(t)
	c := f.controller(t, testCatalog())
	ctx := context.Background()

	n, err := c.QuickReview(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	v := c.View()
	assert.Equal(t, session.KindQuickReview, v.Kind)
	assert.Equal(t, 3, v.Total)
	assert.Equal(t, 1, v.Position)

	require.NoError(t, c.Refresh(ctx))
	assert.Equal(t, session.KindQuickReview, c.View().Kind, "same day and filters keep the review")
}

func TestStartChallenge(t *testing.T) {
	f := newFixture(t)
	c := f.controller(t, testCatalog())
	ctx := context.Background()

	challenge, err := c.StartChallenge(ctx)
	require.NoError(t, err)

	v := c.View()
	assert.Equal(t, session.KindChallenge, v.Kind)
	assert.Equal(t, challenge.ID, v.Current.ID)
	assert.Equal(t, challenge.ID, v.ChallengeID)

	fb, err := c.Submit(ctx, challenge.Answer[0], false, nil)
	require.NoError(t, err)
	assert.True(t, fb.ChallengeCompleted)
	assert.True(t, c.View().ChallengeDone)

	fb, err = c.Submit(ctx, challenge.Answer[0], false, nil)
	require.NoError(t, err)
	assert.False(t, fb.ChallengeCompleted, "only the first completion is reported")
}

func TestEmptyCatalog(t *testing.T) {
	f := newFixture(t)
	c := f.controller(t, catalog.New(nil))
	ctx := context.Background()

	v := c.View()
	assert.Equal(t, session.PhaseComplete, v.Phase)
	assert.Nil(t, v.Current)

	_, err := c.Submit(ctx, "x", false, nil)
	assert.ErrorIs(t, err, ErrNothingToPractice)
	_, err = c.QuickReview(ctx)
	assert.ErrorIs(t, err, ErrNothingToPractice)
	_, err = c.StartChallenge(ctx)
	assert.ErrorIs(t, err, ErrNothingToPractice)

	n, err := c.RemainingToday(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestReset(t *testing.T) {
	f := newFixture(t)
	c := f.controller(t, testCatalog())
	ctx := context.Background()

	finish(t, c)
	p := c.Prefs()
	p.ModuleID = "food"
	_, err := c.SetPrefs(ctx, p)
	require.NoError(t, err)

	effect := c.PlanReset(false, true)
	assert.Equal(t, 5, effect.ProgressRecords)
	assert.Equal(t, 1, effect.ActivityDays)
	assert.Equal(t, 1, effect.StreakDays)
	assert.True(t, effect.ClearHistory)
	assert.True(t, c.RebuildPending(), "planning has no side effects")

	require.NoError(t, c.ApplyReset(ctx, effect))
	assert.False(t, c.RebuildPending())

	v := c.View()
	assert.Equal(t, 0, v.Streak)
	assert.Equal(t, session.PhaseActive, v.Phase)
	assert.Equal(t, "food", c.Prefs().ModuleID, "prefs survive unless asked")
	assert.Equal(t, 2, v.Total)

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Lifetime.Answers)
	assert.Equal(t, 0, stats.Counts[mastery.StateLearning])

	require.NoError(t, c.ApplyReset(ctx, c.PlanReset(true, false)))
	assert.Equal(t, catalog.AllModules, c.Prefs().ModuleID)
}

func TestStats(t *testing.T) {
	f := newFixture(t)
	c := f.controller(t, testCatalog())
	ctx := context.Background()

	wrong := c.View().Current
	_, err := c.Submit(ctx, "nope", false, nil)
	require.NoError(t, err)
	_, err = c.Advance(ctx)
	require.NoError(t, err)
	right := c.View().Current
	_, err = c.Submit(ctx, right.Answer[0], false, nil)
	require.NoError(t, err)
	_, err = c.Advance(ctx)
	require.NoError(t, err)

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, datekey.Key("2024-05-03"), stats.Today)
	assert.Equal(t, 5, stats.QueueSize)
	assert.Equal(t, 3, stats.Remaining)
	assert.Equal(t, 8, stats.MasteryPercent, "0.4 spread over five exercises")
	assert.Equal(t, 2, stats.Unmastered)
	assert.Equal(t, 0, stats.FailedYesterday)
	require.Len(t, stats.TopFailures, 1)
	assert.Equal(t, wrong.Topic, stats.TopFailures[0].Topic)
	assert.Equal(t, 2, stats.Lifetime.Answers)
	assert.InDelta(t, 0.5, stats.Lifetime.Accuracy(), 1e-9)

	f.clock.nextDay()
	require.NoError(t, c.Refresh(ctx))
	stats, err = c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.FailedYesterday)
	require.NotEmpty(t, stats.Review)
	assert.Equal(t, wrong.ID, stats.Review[0].ID)
}

type staticSource struct {
	cat *catalog.Catalog
	ok  bool
}

func (s staticSource) Replacement(context.Context) (*catalog.Catalog, bool) {
	return s.cat, s.ok
}

func TestLoadCatalog(t *testing.T) {
	f := newFixture(t)
	c := f.controller(t, testCatalog())
	ctx := context.Background()

	assert.False(t, <-c.LoadCatalog(ctx, staticSource{}))
	assert.Equal(t, 6, c.Catalog().Len())

	keep := c.Queue()[0]
	replaced := <-c.LoadCatalog(ctx, staticSource{cat: catalog.New([]catalog.Exercise{keep}), ok: true})
	assert.True(t, replaced)
	assert.Equal(t, 1, c.Catalog().Len())

	v := c.View()
	assert.Equal(t, 1, v.Total, "unknown IDs are dropped from the queue")
	assert.Equal(t, keep.ID, v.Current.ID)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.False(t, <-c.LoadCatalog(cancelled, staticSource{cat: testCatalog(), ok: true}))
	assert.Equal(t, 1, c.Catalog().Len())
}

func TestReplaceCatalog_IgnoresEmpty(t *testing.T) {
	f := newFixture(t)
	c := f.controller(t, testCatalog())
	assert.False(t, c.ReplaceCatalog(catalog.New(nil)))
	assert.False(t, c.ReplaceCatalog(nil))
	assert.Equal(t, 6, c.Catalog().Len())
}

func TestNew_RequiresStates(t *testing.T) {
	_, err := New(context.Background(), Options{})
	assert.Error(t, err)
}
