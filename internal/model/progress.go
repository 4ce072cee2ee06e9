package model

import "time"

// ProgressTypeLanguageExercise is the only progress type the exercise engine
// writes today; the column exists so other learning surfaces can share the
// collection.
const ProgressTypeLanguageExercise = "language_exercise"

// ExerciseProgress records that a learner answered an exercise correctly.
// Append-only: rows are never mutated or deleted, and (user, exercise) is
// unique so repeated completions stay idempotent.
type ExerciseProgress struct {
	BaseModel
	UserID      uint      `gorm:"index;uniqueIndex:idx_user_exercise" json:"userId"`
	Type        string    `gorm:"size:50;index;default:'language_exercise'" json:"type"`
	ExerciseID  string    `gorm:"type:varchar(36);uniqueIndex:idx_user_exercise" json:"exerciseId"`
	Score       int       `gorm:"default:0" json:"score"`
	CompletedAt time.Time `json:"completedAt"`
}

func (ExerciseProgress) TableName() string {
	return "exercise_progress"
}
