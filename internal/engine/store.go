package engine

import (
	"context"
	"fmt"
)

// TokenSource supplies the current bearer token; an empty string means the
// learner is unauthenticated and every remote write must be skipped, not
// attempted and failed.
type TokenSource func() string

// NoToken is the TokenSource for local-only operation.
func NoToken() string { return "" }

// ProgressStore is the durable remote progress collection. Implementations
// are append-mostly: records are never deleted and another device may be
// writing concurrently, which is why callers reconcile by union rather than
// last-write-wins.
type ProgressStore interface {
	FetchCompleted(ctx context.Context, userID uint, progressType string) ([]ProgressRecord, error)
	SaveCompletion(ctx context.Context, rec ProgressRecord) error
}

// StatisticsStore is the remote statistics collection for both exercise
// attempts and quiz-set results.
type StatisticsStore interface {
	SaveExerciseStatistic(ctx context.Context, s ExerciseStatistic) error
	SaveQuizStatistic(ctx context.Context, s QuizStatistic) error
	// HasQuizStatistic reports whether a result exists for the pair; used by
	// the session's pre-start completed check.
	HasQuizStatistic(ctx context.Context, userID uint, quizSetID string) (bool, error)
}

// LocalCache is a synchronous string-keyed cache with JSON-serialized values.
// Get reports whether the key existed. All engine writes go here first; the
// cache is the durability backstop when the remote store is unreachable.
type LocalCache interface {
	Get(key string, v interface{}) (bool, error)
	Set(key string, v interface{}) error
	Delete(key string) error
}

// Cache keys are scoped per user per concern so learners sharing a device
// never collide.

func CompletedExercisesKey(userID uint) string {
	return fmt.Sprintf("completed_exercises_%d", userID)
}

func ExerciseStatisticsKey(userID uint) string {
	return fmt.Sprintf("exercise_statistics_%d", userID)
}

func QuizStatisticsKey(userID uint) string {
	return fmt.Sprintf("quiz_statistics_%d", userID)
}

func SolvedQuizzesKey(userID uint) string {
	return fmt.Sprintf("solved_quizzes_%d", userID)
}

func PendingStatisticsKey(userID uint) string {
	return fmt.Sprintf("pending_statistics_%d", userID)
}
