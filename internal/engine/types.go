// Package engine implements the learner-session core of Engolo: the exercise
// progression engine and the timed quiz-set session. It is rendering-free and
// talks to the outside world only through the store interfaces in store.go,
// so a UI adapter (web, TUI, tests) can drive it without any transport or
// DOM coupling.
package engine

import "time"

const (
	// ExercisesPerModule is the fixed module window size over the ordered
	// exercise catalog.
	ExercisesPerModule = 5

	// MaxLocalStatistics caps the per-user locally cached statistic lists;
	// the oldest entries are truncated away once the cap is exceeded.
	MaxLocalStatistics = 100
)

type ExerciseType string

const (
	Translation ExerciseType = "translation"
	Vocabulary  ExerciseType = "vocabulary"
	Grammar     ExerciseType = "grammar"
	Listening   ExerciseType = "listening"
)

// Exercise is an immutable exercise definition. Options is empty for
// free-text exercises.
type Exercise struct {
	ID            string       `json:"id"`
	Type          ExerciseType `json:"type"`
	Question      string       `json:"question"`
	Options       []string     `json:"options,omitempty"`
	CorrectAnswer string       `json:"correctAnswer"`
	Explanation   string       `json:"explanation,omitempty"`
	Difficulty    string       `json:"difficulty"`
	Category      string       `json:"category"`
}

// ProgressRecord marks one exercise as completed by one learner. Only correct
// completions are ever persisted, and completion is monotonic.
type ProgressRecord struct {
	UserID      uint      `json:"userId"`
	Type        string    `json:"type"`
	ExerciseID  string    `json:"exerciseId"`
	Score       int       `json:"score"`
	CompletedAt time.Time `json:"completedAt"`
}

// ProgressTypeLanguageExercise scopes progress records written by the
// progression engine.
const ProgressTypeLanguageExercise = "language_exercise"

// ExerciseStatistic is emitted once per checked answer, correct or not.
type ExerciseStatistic struct {
	UserID           uint         `json:"userId"`
	ExerciseID       string       `json:"exerciseId"`
	ExerciseType     ExerciseType `json:"exerciseType"`
	Module           int          `json:"module"`
	Category         string       `json:"category"`
	Question         string       `json:"question"`
	SelectedAnswer   string       `json:"selectedAnswer"`
	CorrectAnswer    string       `json:"correctAnswer"`
	IsCorrect        bool         `json:"isCorrect"`
	AttemptCount     int          `json:"attemptCount"`
	TimeSpentSeconds int          `json:"timeSpentSeconds"`
	Difficulty       string       `json:"difficulty"`
	CompletedAt      time.Time    `json:"completedAt"`
}

type QuizQuestionType string

const (
	MultipleChoice QuizQuestionType = "multiple_choice"
	TextInput      QuizQuestionType = "text_input"
)

type QuizQuestion struct {
	Question      string           `json:"question"`
	CorrectAnswer string           `json:"correctAnswer"`
	Options       []string         `json:"options,omitempty"`
	Type          QuizQuestionType `json:"type"`
	Points        int              `json:"points"`
	Difficulty    string           `json:"difficulty"`
}

// QuizSet is immutable once handed to a session.
type QuizSet struct {
	ID               string         `json:"id"`
	Title            string         `json:"title"`
	Description      string         `json:"description"`
	Questions        []QuizQuestion `json:"questions"`
	TimeLimitSeconds int            `json:"timeLimitSeconds"`
	IsDaily          bool           `json:"isDaily"`
	Category         string         `json:"category"`
}

// QuizStatistic records one finished quiz-set attempt.
type QuizStatistic struct {
	UserID           uint      `json:"userId"`
	QuizSetID        string    `json:"quizSetId"`
	QuizTitle        string    `json:"quizTitle"`
	Score            int       `json:"score"`
	TotalPoints      int       `json:"totalPoints"`
	Percentage       int       `json:"percentage"`
	TimeSpentSeconds int       `json:"timeSpentSeconds"`
	CompletedAt      time.Time `json:"completedAt"`
}
