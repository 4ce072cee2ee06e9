package model

import "time"

// ExerciseStatistic is emitted once per checked answer, correct or not.
type ExerciseStatistic struct {
	BaseModel
	UserID           uint         `gorm:"index" json:"userId"`
	ExerciseID       string       `gorm:"type:varchar(36);index" json:"exerciseId"`
	ExerciseType     ExerciseType `gorm:"size:20" json:"exerciseType"`
	Module           int          `json:"module"`
	Category         string       `gorm:"size:100" json:"category"`
	Question         string       `gorm:"type:text" json:"question"`
	SelectedAnswer   string       `gorm:"size:255" json:"selectedAnswer"`
	CorrectAnswer    string       `gorm:"size:255" json:"correctAnswer"`
	IsCorrect        bool         `json:"isCorrect"`
	AttemptCount     int          `gorm:"default:1" json:"attemptCount"`
	TimeSpentSeconds int          `json:"timeSpentSeconds"`
	Difficulty       Difficulty   `gorm:"size:20" json:"difficulty"`
	CompletedAt      time.Time    `json:"completedAt"`
}

func (ExerciseStatistic) TableName() string {
	return "exercise_statistics"
}

// QuizStatistic records one finished quiz-set attempt. At most one row per
// (user, quiz set): the session layer checks before starting and the server
// rejects duplicates.
type QuizStatistic struct {
	BaseModel
	UserID           uint      `gorm:"index;uniqueIndex:idx_user_quizset" json:"userId"`
	QuizSetID        string    `gorm:"type:varchar(36);uniqueIndex:idx_user_quizset" json:"quizSetId"`
	QuizTitle        string    `gorm:"size:255" json:"quizTitle"`
	Score            int       `json:"score"`
	TotalPoints      int       `json:"totalPoints"`
	Percentage       int       `json:"percentage"`
	TimeSpentSeconds int       `json:"timeSpentSeconds"`
	CompletedAt      time.Time `json:"completedAt"`
}

func (QuizStatistic) TableName() string {
	return "quiz_statistics"
}
