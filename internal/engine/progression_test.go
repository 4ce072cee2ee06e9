package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore implements ProgressStore and StatisticsStore in memory.
type fakeStore struct {
	mu sync.Mutex

	records       []ProgressRecord
	exerciseStats []ExerciseStatistic
	quizStats     []QuizStatistic

	fetched  []ProgressRecord
	fetchErr error
	saveErr  error
	hasQuiz  bool
	hasErr   error
}

func (f *fakeStore) FetchCompleted(ctx context.Context, userID uint, progressType string) ([]ProgressRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return append([]ProgressRecord(nil), f.fetched...), nil
}

func (f *fakeStore) SaveCompletion(ctx context.Context, rec ProgressRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.records = append(f.records, rec)
	return nil
}

func (f *fakeStore) SaveExerciseStatistic(ctx context.Context, s ExerciseStatistic) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.exerciseStats = append(f.exerciseStats, s)
	return nil
}

func (f *fakeStore) SaveQuizStatistic(ctx context.Context, s QuizStatistic) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.quizStats = append(f.quizStats, s)
	return nil
}

func (f *fakeStore) HasQuizStatistic(ctx context.Context, userID uint, quizSetID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hasQuiz, f.hasErr
}

func (f *fakeStore) savedRecords() []ProgressRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ProgressRecord(nil), f.records...)
}

func (f *fakeStore) savedExerciseStats() []ExerciseStatistic {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ExerciseStatistic(nil), f.exerciseStats...)
}

func (f *fakeStore) savedQuizStats() []QuizStatistic {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]QuizStatistic(nil), f.quizStats...)
}

func staticToken(token string) TokenSource {
	return func() string { return token }
}

func makeExercises(n int) []Exercise {
	out := make([]Exercise, n)
	for i := range out {
		out[i] = Exercise{
			ID:            fmt.Sprintf("ex-%d", i+1),
			Type:          Vocabulary,
			Question:      fmt.Sprintf("question %d", i+1),
			CorrectAnswer: fmt.Sprintf("answer %d", i+1),
			Difficulty:    "beginner",
			Category:      "Basics",
		}
	}
	return out
}

func newTestProgression(t *testing.T, exercises []Exercise, store *fakeStore, token string) (*Progression, *FileCache) {
	t.Helper()
	cache := NewMemoryCache()
	cfg := ProgressionConfig{
		UserID:  7,
		Catalog: NewCatalog(exercises, nil),
		Cache:   cache,
		Token:   staticToken(token),
		Now:     func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) },
	}
	if store != nil {
		cfg.Progress = store
		cfg.Statistics = store
	}
	return NewProgression(cfg), cache
}

func answerCurrent(t *testing.T, p *Progression, correct bool) *CheckResult {
	t.Helper()
	ex := p.CurrentExercise()
	require.NotNil(t, ex)
	if correct {
		p.SelectAnswer(ex.CorrectAnswer)
	} else {
		p.SelectAnswer("definitely wrong")
	}
	res, err := p.CheckAnswer(context.Background())
	require.NoError(t, err)
	assert.Equal(t, correct, res.Correct)
	return res
}

func TestProgressionCompletesModuleFirstTry(t *testing.T) {
	store := &fakeStore{}
	p, cache := newTestProgression(t, makeExercises(5), store, "tok")

	require.NoError(t, p.Start(context.Background()))
	assert.Equal(t, StateActive, p.State())
	assert.Equal(t, 1, p.Module())

	for i := 0; i < 5; i++ {
		answerCurrent(t, p, true)
		require.NoError(t, p.NextExercise())
	}

	assert.Equal(t, StateModuleComplete, p.State())
	assert.Equal(t, 5, p.Score())
	assert.Equal(t, 5, p.CompletedCount())

	p.WaitRemote()
	assert.Len(t, store.savedRecords(), 5)
	assert.Len(t, store.savedExerciseStats(), 5)

	var ids []string
	ok, err := cache.Get(CompletedExercisesKey(7), &ids)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, ids, 5)
}

func TestProgressionRetryQueueBecomesPrimary(t *testing.T) {
	store := &fakeStore{}
	p, _ := newTestProgression(t, makeExercises(5), store, "tok")
	require.NoError(t, p.Start(context.Background()))

	// Miss the second exercise on the first pass.
	for i := 0; i < 5; i++ {
		answerCurrent(t, p, i != 1)
		require.NoError(t, p.NextExercise())
	}

	// The missed exercise comes back as its own pass, second presentation.
	require.Equal(t, StateActive, p.State())
	ex := p.CurrentExercise()
	require.NotNil(t, ex)
	assert.Equal(t, "ex-2", ex.ID)

	res := answerCurrent(t, p, true)
	assert.Equal(t, 2, res.AttemptCount)
	require.NoError(t, p.NextExercise())

	assert.Equal(t, StateModuleComplete, p.State())
	// Retry-correct counts toward completion but not toward the session score.
	assert.Equal(t, 4, p.Score())
	assert.Equal(t, 5, p.CompletedCount())

	p.WaitRemote()
	assert.Len(t, store.savedExerciseStats(), 6)
}

func TestProgressionEmptyAnswerRejected(t *testing.T) {
	p, _ := newTestProgression(t, makeExercises(5), nil, "")
	require.NoError(t, p.Start(context.Background()))

	p.SelectAnswer("   ")
	_, err := p.CheckAnswer(context.Background())
	assert.ErrorIs(t, err, ErrNothingToCheck)
	assert.Equal(t, StateActive, p.State())
}

func TestProgressionMatchIsCaseAndSpaceInsensitive(t *testing.T) {
	exercises := makeExercises(5)
	exercises[0].CorrectAnswer = "Hola"
	p, _ := newTestProgression(t, exercises, nil, "")
	require.NoError(t, p.Start(context.Background()))

	p.SelectAnswer("  hOLA ")
	res, err := p.CheckAnswer(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Correct)
}

func TestProgressionResumesFromCachedCompletions(t *testing.T) {
	cache := NewMemoryCache()
	require.NoError(t, cache.Set(CompletedExercisesKey(7),
		[]string{"ex-1", "ex-2", "ex-3", "ex-4", "ex-5"}))

	p := NewProgression(ProgressionConfig{
		UserID:  7,
		Catalog: NewCatalog(makeExercises(10), nil),
		Cache:   cache,
	})
	require.NoError(t, p.Start(context.Background()))

	assert.Equal(t, 2, p.Module())
	ex := p.CurrentExercise()
	require.NotNil(t, ex)
	assert.Equal(t, "ex-6", ex.ID)
}

func TestProgressionReconcileMergesWithoutShrinking(t *testing.T) {
	store := &fakeStore{fetched: []ProgressRecord{
		{UserID: 7, Type: ProgressTypeLanguageExercise, ExerciseID: "ex-9"},
		{UserID: 7, Type: ProgressTypeLanguageExercise, ExerciseID: "ex-1"},
	}}
	cache := NewMemoryCache()
	require.NoError(t, cache.Set(CompletedExercisesKey(7), []string{"ex-1", "ex-2"}))

	p := NewProgression(ProgressionConfig{
		UserID: 7, Catalog: NewCatalog(makeExercises(10), nil),
		Cache: cache, Progress: store, Token: staticToken("tok"),
	})

	require.NoError(t, p.Reconcile(context.Background()))
	assert.Equal(t, 3, p.CompletedCount())

	var ids []string
	ok, err := cache.Get(CompletedExercisesKey(7), &ids)
	require.NoError(t, err)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"ex-1", "ex-2", "ex-9"}, ids)
}

func TestProgressionReconcileToleratesFetchFailure(t *testing.T) {
	store := &fakeStore{fetchErr: errors.New("network down")}
	p, _ := newTestProgression(t, makeExercises(5), store, "tok")
	require.NoError(t, p.Start(context.Background()))
	answerCurrent(t, p, true)

	require.NoError(t, p.Reconcile(context.Background()))
	assert.Equal(t, 1, p.CompletedCount())
}

func TestProgressionReconcileAfterCloseIsNoop(t *testing.T) {
	store := &fakeStore{fetched: []ProgressRecord{
		{UserID: 7, ExerciseID: "ex-3", Type: ProgressTypeLanguageExercise},
	}}
	p, cache := newTestProgression(t, makeExercises(5), store, "tok")
	p.Close()

	require.NoError(t, p.Reconcile(context.Background()))

	var ids []string
	ok, _ := cache.Get(CompletedExercisesKey(7), &ids)
	assert.False(t, ok)
}

func TestProgressionUnauthenticatedStaysLocal(t *testing.T) {
	store := &fakeStore{}
	p, cache := newTestProgression(t, makeExercises(5), store, "")
	require.NoError(t, p.Start(context.Background()))

	answerCurrent(t, p, true)
	p.WaitRemote()

	assert.Empty(t, store.savedRecords())
	assert.Empty(t, store.savedExerciseStats())

	var local []ExerciseStatistic
	ok, err := cache.Get(ExerciseStatisticsKey(7), &local)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, local, 1)

	var ids []string
	ok, _ = cache.Get(CompletedExercisesKey(7), &ids)
	require.True(t, ok)
	assert.Equal(t, []string{"ex-1"}, ids)
}

func TestProgressionLocalStatisticsCapped(t *testing.T) {
	p, cache := newTestProgression(t, makeExercises(5), nil, "")

	seed := make([]ExerciseStatistic, MaxLocalStatistics)
	for i := range seed {
		seed[i] = ExerciseStatistic{UserID: 7, ExerciseID: fmt.Sprintf("old-%d", i)}
	}
	require.NoError(t, cache.Set(ExerciseStatisticsKey(7), seed))

	require.NoError(t, p.Start(context.Background()))
	answerCurrent(t, p, true)

	var list []ExerciseStatistic
	ok, err := cache.Get(ExerciseStatisticsKey(7), &list)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, list, MaxLocalStatistics)
	assert.Equal(t, "old-1", list[0].ExerciseID)
	assert.Equal(t, "ex-1", list[MaxLocalStatistics-1].ExerciseID)
}

func TestProgressionFailedRemoteStatisticGoesPending(t *testing.T) {
	store := &fakeStore{saveErr: errors.New("boom")}
	p, cache := newTestProgression(t, makeExercises(5), store, "tok")
	require.NoError(t, p.Start(context.Background()))

	answerCurrent(t, p, true)
	p.WaitRemote()

	var pending []ExerciseStatistic
	ok, err := cache.Get(PendingStatisticsKey(7), &pending)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, pending, 1)
	assert.Equal(t, "ex-1", pending[0].ExerciseID)

	// Once the store recovers, the flush drains the pending list.
	store.mu.Lock()
	store.saveErr = nil
	store.mu.Unlock()

	require.NoError(t, p.FlushPending(context.Background()))
	ok, err = cache.Get(PendingStatisticsKey(7), &pending)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Len(t, store.savedExerciseStats(), 1)
}

func TestProgressionAdvancesThroughAllModules(t *testing.T) {
	p, _ := newTestProgression(t, makeExercises(10), nil, "")
	require.NoError(t, p.Start(context.Background()))

	for module := 1; module <= 2; module++ {
		assert.Equal(t, module, p.Module())
		for i := 0; i < 5; i++ {
			answerCurrent(t, p, true)
			require.NoError(t, p.NextExercise())
		}
		assert.Equal(t, StateModuleComplete, p.State())
		require.NoError(t, p.NextModule(context.Background()))
	}

	assert.Equal(t, StateAllComplete, p.State())
	assert.Nil(t, p.CurrentExercise())
}

func TestProgressionNextModuleRequiresCompletion(t *testing.T) {
	p, _ := newTestProgression(t, makeExercises(10), nil, "")
	require.NoError(t, p.Start(context.Background()))

	assert.ErrorIs(t, p.NextModule(context.Background()), ErrModuleNotDone)
	assert.ErrorIs(t, p.NextExercise(), ErrNoFeedback)
}
