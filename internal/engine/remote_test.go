package engine

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func respond(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"code": 200, "message": "Success", "data": data,
	})
}

func TestRemoteClientFetchCompletedFlat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/progress", r.URL.Path)
		assert.Equal(t, "7", r.URL.Query().Get("userId"))
		assert.Equal(t, ProgressTypeLanguageExercise, r.URL.Query().Get("type"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		respond(w, []map[string]interface{}{
			{"userId": 7, "exerciseId": "ex-1", "type": ProgressTypeLanguageExercise},
			{"userId": 7, "exerciseId": "ex-2", "type": ProgressTypeLanguageExercise},
		})
	}))
	defer srv.Close()

	c := NewRemoteClient(srv.URL, staticToken("tok"))
	records, err := c.FetchCompleted(context.Background(), 7, ProgressTypeLanguageExercise)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "ex-1", records[0].ExerciseID)
}

func TestRemoteClientFetchCompletedAttributesWrapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond(w, []map[string]interface{}{
			{"id": 1, "attributes": map[string]interface{}{"userId": 7, "exerciseId": "ex-9"}},
		})
	}))
	defer srv.Close()

	c := NewRemoteClient(srv.URL, NoToken)
	records, err := c.FetchCompleted(context.Background(), 7, "")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "ex-9", records[0].ExerciseID)
}

func TestRemoteClientFetchCompletedPageWrapper(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond(w, map[string]interface{}{
			"total": 1,
			"list":  []map[string]interface{}{{"userId": 7, "exerciseId": "ex-3"}},
		})
	}))
	defer srv.Close()

	c := NewRemoteClient(srv.URL, NoToken)
	records, err := c.FetchCompleted(context.Background(), 7, "")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "ex-3", records[0].ExerciseID)
}

func TestRemoteClientSaveCompletion(t *testing.T) {
	var got ProgressRecord
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/progress", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		respond(w, nil)
	}))
	defer srv.Close()

	c := NewRemoteClient(srv.URL, staticToken("tok"))
	err := c.SaveCompletion(context.Background(), ProgressRecord{
		UserID: 7, ExerciseID: "ex-1", Type: ProgressTypeLanguageExercise, Score: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "ex-1", got.ExerciseID)
}

func TestRemoteClientWritesRequireToken(t *testing.T) {
	c := NewRemoteClient("http://unused.invalid", NoToken)

	assert.ErrorIs(t, c.SaveCompletion(context.Background(), ProgressRecord{}), ErrNoToken)
	assert.ErrorIs(t, c.SaveExerciseStatistic(context.Background(), ExerciseStatistic{}), ErrNoToken)
	assert.ErrorIs(t, c.SaveQuizStatistic(context.Background(), QuizStatistic{}), ErrNoToken)
}

func TestRemoteClientHasQuizStatistic(t *testing.T) {
	empty := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/quiz-statistics", r.URL.Path)
		assert.Equal(t, "quiz-1", r.URL.Query().Get("quizSetId"))
		if empty {
			respond(w, []interface{}{})
			return
		}
		respond(w, []map[string]interface{}{{"userId": 7, "quizSetId": "quiz-1"}})
	}))
	defer srv.Close()

	c := NewRemoteClient(srv.URL, staticToken("tok"))

	has, err := c.HasQuizStatistic(context.Background(), 7, "quiz-1")
	require.NoError(t, err)
	assert.True(t, has)

	empty = true
	has, err = c.HasQuizStatistic(context.Background(), 7, "quiz-1")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestRemoteClientUnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewRemoteClient(srv.URL, staticToken("tok"))
	_, err := c.FetchCompleted(context.Background(), 7, "")
	assert.Error(t, err)
}
