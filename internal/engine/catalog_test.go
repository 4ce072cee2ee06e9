package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBackfiller struct {
	exercises []Exercise
	err       error
	calls     int
}

func (b *stubBackfiller) VocabularyExercises(ctx context.Context, n int) ([]Exercise, error) {
	b.calls++
	if b.err != nil {
		return nil, b.err
	}
	if n > len(b.exercises) {
		n = len(b.exercises)
	}
	return b.exercises[:n], nil
}

func TestCatalogModuleWindows(t *testing.T) {
	c := NewCatalog(makeExercises(12), nil)

	assert.Equal(t, 3, c.ModuleCount())
	assert.True(t, c.HasModule(1))
	assert.True(t, c.HasModule(3))
	assert.False(t, c.HasModule(0))
	assert.False(t, c.HasModule(4))

	window, err := c.Module(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, window, 5)
	assert.Equal(t, "ex-6", window[0].ID)
	assert.Equal(t, "ex-10", window[4].ID)
}

func TestCatalogModuleOutOfRange(t *testing.T) {
	c := NewCatalog(makeExercises(5), nil)

	_, err := c.Module(context.Background(), 0)
	assert.Error(t, err)
	_, err = c.Module(context.Background(), 2)
	assert.Error(t, err)
}

func TestCatalogShortTailBackfillsFromDictionary(t *testing.T) {
	bf := &stubBackfiller{exercises: []Exercise{
		{ID: "dict-1", Type: Vocabulary, Question: "w1", CorrectAnswer: "a1"},
		{ID: "dict-2", Type: Vocabulary, Question: "w2", CorrectAnswer: "a2"},
		{ID: "dict-3", Type: Vocabulary, Question: "w3", CorrectAnswer: "a3"},
	}}
	c := NewCatalog(makeExercises(12), bf)

	window, err := c.Module(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, window, 5)
	assert.Equal(t, "ex-11", window[0].ID)
	assert.Equal(t, "dict-1", window[2].ID)
	assert.Equal(t, "Module 3", window[2].Category)
	assert.Equal(t, 1, bf.calls)
}

func TestCatalogBackfillerFailureUsesFallback(t *testing.T) {
	bf := &stubBackfiller{err: errors.New("dictionary down")}
	c := NewCatalog(makeExercises(7), bf)

	window, err := c.Module(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, window, 5)

	assert.Equal(t, "ex-6", window[0].ID)
	assert.Equal(t, "fallback-hello-m2", window[2].ID)
	assert.Equal(t, "Module 2", window[2].Category)
}

func TestCatalogFallbackIDsUniquePerModule(t *testing.T) {
	c := NewCatalog(makeExercises(6), nil)

	window, err := c.Module(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, window, 5)

	seen := map[string]bool{}
	for _, ex := range window {
		assert.False(t, seen[ex.ID], "duplicate id %s", ex.ID)
		seen[ex.ID] = true
	}
}
