package service

import (
	"context"
	"encoding/json"
	"engolo_backend/internal/config"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVocabularyExercisesOffline(t *testing.T) {
	// No translate URL: the built-in word pool supplies the answers.
	s := NewDictionaryService(config.DictionaryConfig{TimeoutSeconds: 1})

	exercises, err := s.VocabularyExercises(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, exercises, 3)

	for _, ex := range exercises {
		assert.NotEmpty(t, ex.Question)
		assert.NotEmpty(t, ex.CorrectAnswer)
		require.Len(t, ex.Options, 4)
		assert.Contains(t, ex.Options, ex.CorrectAnswer)
	}
}

func TestVocabularyExercisesClampsRequest(t *testing.T) {
	s := NewDictionaryService(config.DictionaryConfig{TimeoutSeconds: 1})

	exercises, err := s.VocabularyExercises(context.Background(), 1000)
	require.NoError(t, err)
	assert.Len(t, exercises, len(backfillWords))

	exercises, err = s.VocabularyExercises(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, exercises)
}

func TestVocabularyExercisesDistinctOptions(t *testing.T) {
	// The upstream translates every word to "casa", which is also a pool
	// word; no option list may carry the answer twice.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"responseData": map[string]string{"translatedText": "casa"},
		})
	}))
	defer srv.Close()

	s := NewDictionaryService(config.DictionaryConfig{TranslateURL: srv.URL, TimeoutSeconds: 2})

	exercises, err := s.VocabularyExercises(context.Background(), len(backfillWords))
	require.NoError(t, err)
	require.Len(t, exercises, len(backfillWords))

	for _, ex := range exercises {
		assert.Equal(t, "casa", ex.CorrectAnswer)
		require.Len(t, ex.Options, 4)
		seen := make(map[string]bool, len(ex.Options))
		for _, opt := range ex.Options {
			assert.False(t, seen[opt], "duplicate option %q in %v", opt, ex.Options)
			seen[opt] = true
		}
	}
}

func TestTranslateParsesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "hello", r.URL.Query().Get("q"))
		assert.Equal(t, "en|es", r.URL.Query().Get("langpair"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"responseData": map[string]string{"translatedText": "hola"},
		})
	}))
	defer srv.Close()

	s := NewDictionaryService(config.DictionaryConfig{TranslateURL: srv.URL, TimeoutSeconds: 2})

	out, err := s.Translate(context.Background(), "en", "es", "hello")
	require.NoError(t, err)
	assert.Equal(t, "hola", out)
}

func TestLookupNormalizesMeanings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]interface{}{{
			"word":     "casa",
			"phonetic": "ˈkasa",
			"meanings": []map[string]interface{}{{
				"partOfSpeech": "noun",
				"definitions": []map[string]string{
					{"definition": "house", "example": "mi casa"},
					{"definition": "home"},
				},
			}},
		}})
	}))
	defer srv.Close()

	s := NewDictionaryService(config.DictionaryConfig{BaseURL: srv.URL, TimeoutSeconds: 2})

	entry, err := s.Lookup(context.Background(), "es", "casa")
	require.NoError(t, err)
	assert.Equal(t, "casa", entry.Word)
	require.Len(t, entry.Definitions, 2)
	assert.Equal(t, "noun", entry.Definitions[0].PartOfSpeech)
	assert.Equal(t, "mi casa", entry.Definitions[0].Example)
}
