package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testQuizSet() QuizSet {
	return QuizSet{
		ID:               "quiz-1",
		Title:            "Basics quiz",
		TimeLimitSeconds: 60,
		Questions: []QuizQuestion{
			{Question: "q1", CorrectAnswer: "a", Options: []string{"a", "b"}, Type: MultipleChoice, Points: 2},
			{Question: "q2", CorrectAnswer: "hola", Type: TextInput, Points: 3},
			{Question: "q3", CorrectAnswer: "c", Options: []string{"c", "d"}, Type: MultipleChoice, Points: 5},
		},
	}
}

func newTestSession(t *testing.T, set QuizSet, store *fakeStore, token string, results *[]QuizResult) (*QuizSession, *FileCache) {
	t.Helper()
	cache := NewMemoryCache()
	cfg := QuizConfig{
		UserID:       7,
		Set:          set,
		Cache:        cache,
		Token:        staticToken(token),
		Now:          func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) },
		TickInterval: -1, // ticks driven by the tests
	}
	if store != nil {
		cfg.Statistics = store
	}
	if results != nil {
		cfg.OnComplete = func(r QuizResult) { *results = append(*results, r) }
	}
	return NewQuizSession(cfg), cache
}

func TestQuizSessionScoresAndSubmitsOnce(t *testing.T) {
	store := &fakeStore{}
	var results []QuizResult
	s, cache := newTestSession(t, testQuizSet(), store, "tok", &results)

	require.NoError(t, s.Start(context.Background()))
	assert.Equal(t, 60, s.Remaining())

	correct, err := s.SubmitAnswer("a")
	require.NoError(t, err)
	assert.True(t, correct)

	correct, err = s.SubmitAnswer("adios")
	require.NoError(t, err)
	assert.False(t, correct)

	correct, err = s.SubmitAnswer("c")
	require.NoError(t, err)
	assert.True(t, correct)

	assert.False(t, s.Active())
	require.Len(t, results, 1)
	assert.Equal(t, FinishCompleted, results[0].Reason)
	assert.Equal(t, 7, results[0].Statistic.Score)
	assert.Equal(t, 10, results[0].Statistic.TotalPoints)
	assert.Equal(t, 70, results[0].Statistic.Percentage)

	s.WaitRemote()
	require.Len(t, store.savedQuizStats(), 1)
	assert.Equal(t, "quiz-1", store.savedQuizStats()[0].QuizSetID)

	// The solved marker lands before the remote write resolves.
	var solved []string
	ok, _ := cache.Get(SolvedQuizzesKey(7), &solved)
	require.True(t, ok)
	assert.Equal(t, []string{"quiz-1"}, solved)

	// Further answers bounce off the finished session.
	_, err = s.SubmitAnswer("a")
	assert.ErrorIs(t, err, ErrQuizNotActive)
}

func TestQuizSessionTimeoutSubmitsPartialScore(t *testing.T) {
	set := testQuizSet()
	set.TimeLimitSeconds = 2
	var results []QuizResult
	s, _ := newTestSession(t, set, nil, "", &results)

	require.NoError(t, s.Start(context.Background()))
	_, err := s.SubmitAnswer("a")
	require.NoError(t, err)

	s.Tick()
	assert.Equal(t, 1, s.Remaining())
	assert.True(t, s.Active())

	s.Tick()
	assert.False(t, s.Active())
	require.Len(t, results, 1)
	assert.Equal(t, FinishTimeout, results[0].Reason)
	assert.Equal(t, 2, results[0].Statistic.Score)

	// Ticks after expiry change nothing.
	s.Tick()
	assert.Len(t, results, 1)
}

func TestQuizSessionRefusesSolvedSet(t *testing.T) {
	s, cache := newTestSession(t, testQuizSet(), nil, "", nil)
	require.NoError(t, cache.Set(SolvedQuizzesKey(7), []string{"quiz-1"}))

	assert.ErrorIs(t, s.Start(context.Background()), ErrQuizAlreadySolved)
}

func TestQuizSessionChecksRemoteCompletion(t *testing.T) {
	store := &fakeStore{hasQuiz: true}
	s, _ := newTestSession(t, testQuizSet(), store, "tok", nil)

	assert.ErrorIs(t, s.Start(context.Background()), ErrQuizAlreadySolved)
}

func TestQuizSessionStartsWhenCompletedCheckFails(t *testing.T) {
	store := &fakeStore{hasErr: errors.New("network down")}
	s, _ := newTestSession(t, testQuizSet(), store, "tok", nil)

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.Active())
}

func TestQuizSessionRejectsEmptyAnswer(t *testing.T) {
	s, _ := newTestSession(t, testQuizSet(), nil, "", nil)
	require.NoError(t, s.Start(context.Background()))

	_, err := s.SubmitAnswer("   ")
	assert.ErrorIs(t, err, ErrNothingToCheck)
	assert.Equal(t, 0, s.QuestionIndex())
	assert.True(t, s.Active())
}

func TestQuizSessionEmptySetRejected(t *testing.T) {
	s, _ := newTestSession(t, QuizSet{ID: "empty"}, nil, "", nil)
	assert.ErrorIs(t, s.Start(context.Background()), ErrQuizEmpty)
}

func TestQuizSessionZeroPointQuestionsCountAsOne(t *testing.T) {
	set := QuizSet{
		ID: "quiz-2", Title: "unweighted", TimeLimitSeconds: 30,
		Questions: []QuizQuestion{
			{Question: "q1", CorrectAnswer: "x", Type: TextInput},
			{Question: "q2", CorrectAnswer: "y", Type: TextInput},
		},
	}
	var results []QuizResult
	s, _ := newTestSession(t, set, nil, "", &results)

	require.NoError(t, s.Start(context.Background()))
	s.SubmitAnswer("x")
	s.SubmitAnswer("nope")

	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].Statistic.Score)
	assert.Equal(t, 2, results[0].Statistic.TotalPoints)
	assert.Equal(t, 50, results[0].Statistic.Percentage)
}

func TestQuizSessionPercentageRoundsHalfUp(t *testing.T) {
	set := QuizSet{
		ID: "quiz-4", Title: "thirds", TimeLimitSeconds: 30,
		Questions: []QuizQuestion{
			{Question: "q1", CorrectAnswer: "a", Type: TextInput, Points: 1},
			{Question: "q2", CorrectAnswer: "b", Type: TextInput, Points: 1},
			{Question: "q3", CorrectAnswer: "c", Type: TextInput, Points: 1},
		},
	}
	var results []QuizResult
	s, _ := newTestSession(t, set, nil, "", &results)

	require.NoError(t, s.Start(context.Background()))
	s.SubmitAnswer("a")
	s.SubmitAnswer("b")
	s.SubmitAnswer("wrong")

	require.Len(t, results, 1)
	assert.Equal(t, 2, results[0].Statistic.Score)
	assert.Equal(t, 3, results[0].Statistic.TotalPoints)
	assert.Equal(t, 67, results[0].Statistic.Percentage)
}

func TestQuizSessionRestartsMidAttempt(t *testing.T) {
	s, _ := newTestSession(t, testQuizSet(), nil, "", nil)

	require.NoError(t, s.Start(context.Background()))
	_, err := s.SubmitAnswer("a")
	require.NoError(t, err)
	s.Tick()
	require.Equal(t, 1, s.QuestionIndex())

	// Starting again throws the attempt away and begins fresh.
	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.Active())
	assert.Equal(t, 0, s.QuestionIndex())
	assert.Equal(t, 0, s.Score())
	assert.Equal(t, 60, s.Remaining())
}

func TestQuizSessionTextMatchingDefaultsCaseSensitive(t *testing.T) {
	set := QuizSet{
		ID: "quiz-3", TimeLimitSeconds: 30,
		Questions: []QuizQuestion{{Question: "q", CorrectAnswer: "Hola", Type: TextInput}},
	}

	s, _ := newTestSession(t, set, nil, "", nil)
	require.NoError(t, s.Start(context.Background()))
	correct, err := s.SubmitAnswer("hola")
	require.NoError(t, err)
	assert.False(t, correct)

	cache := NewMemoryCache()
	relaxed := NewQuizSession(QuizConfig{
		UserID: 8, Set: set, Cache: cache, CaseInsensitive: true, TickInterval: -1,
	})
	require.NoError(t, relaxed.Start(context.Background()))
	correct, err = relaxed.SubmitAnswer(" hola ")
	require.NoError(t, err)
	assert.True(t, correct)
}

func TestQuizSessionUnauthenticatedResultStaysLocal(t *testing.T) {
	store := &fakeStore{}
	var results []QuizResult
	s, cache := newTestSession(t, testQuizSet(), store, "", &results)

	require.NoError(t, s.Start(context.Background()))
	s.SubmitAnswer("a")
	s.SubmitAnswer("hola")
	s.SubmitAnswer("c")

	s.WaitRemote()
	assert.Empty(t, store.savedQuizStats())

	var local []QuizStatistic
	ok, err := cache.Get(QuizStatisticsKey(7), &local)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, local, 1)
	assert.Equal(t, 10, local[0].Score)
	assert.Equal(t, 100, local[0].Percentage)
}

func TestQuizSessionFailedRemoteWriteFallsBackLocal(t *testing.T) {
	store := &fakeStore{saveErr: errors.New("boom")}
	s, cache := newTestSession(t, testQuizSet(), store, "tok", nil)

	require.NoError(t, s.Start(context.Background()))
	s.SubmitAnswer("a")
	s.SubmitAnswer("hola")
	s.SubmitAnswer("c")
	s.WaitRemote()

	var local []QuizStatistic
	ok, err := cache.Get(QuizStatisticsKey(7), &local)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, local, 1)
}

func TestQuizSessionAbandonRecordsNothing(t *testing.T) {
	store := &fakeStore{}
	var results []QuizResult
	s, cache := newTestSession(t, testQuizSet(), store, "tok", &results)

	require.NoError(t, s.Start(context.Background()))
	s.SubmitAnswer("a")
	s.Abandon()

	require.Len(t, results, 1)
	assert.Equal(t, FinishAbandoned, results[0].Reason)

	s.WaitRemote()
	assert.Empty(t, store.savedQuizStats())

	var solved []string
	ok, _ := cache.Get(SolvedQuizzesKey(7), &solved)
	assert.False(t, ok)

	// Abandoning leaves the set retryable on the same device.
	again := NewQuizSession(QuizConfig{UserID: 7, Set: testQuizSet(), Cache: cache, TickInterval: -1})
	require.NoError(t, again.Start(context.Background()))
}

func TestQuizSessionTickerCountsDown(t *testing.T) {
	set := testQuizSet()
	set.TimeLimitSeconds = 3

	done := make(chan QuizResult, 1)
	cache := NewMemoryCache()
	s := NewQuizSession(QuizConfig{
		UserID: 7, Set: set, Cache: cache,
		TickInterval: time.Millisecond,
		OnComplete:   func(r QuizResult) { done <- r },
	})

	require.NoError(t, s.Start(context.Background()))

	select {
	case r := <-done:
		assert.Equal(t, FinishTimeout, r.Reason)
	case <-time.After(time.Second):
		t.Fatal("session did not time out")
	}
	assert.False(t, s.Active())
}
