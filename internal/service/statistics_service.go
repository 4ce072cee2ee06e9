package service

import (
	"engolo_backend/internal/model"
	"engolo_backend/internal/repository"
	"engolo_backend/pkg/logger"
	"engolo_backend/pkg/monitoring"
	"time"

	"go.uber.org/zap"
)

// XPPerQuizPoint converts quiz-set points into experience.
const XPPerQuizPoint = 2

type StatisticsService struct {
	Statistics *repository.StatisticsRepository
	Users      *repository.UserRepository
}

func NewStatisticsService(statistics *repository.StatisticsRepository, users *repository.UserRepository) *StatisticsService {
	return &StatisticsService{Statistics: statistics, Users: users}
}

type ExerciseStatisticInput struct {
	ExerciseID       string             `json:"exerciseId" binding:"required"`
	ExerciseType     model.ExerciseType `json:"exerciseType"`
	Module           int                `json:"module"`
	Category         string             `json:"category"`
	Question         string             `json:"question"`
	SelectedAnswer   string             `json:"selectedAnswer"`
	CorrectAnswer    string             `json:"correctAnswer"`
	IsCorrect        bool               `json:"isCorrect"`
	AttemptCount     int                `json:"attemptCount"`
	TimeSpentSeconds int                `json:"timeSpentSeconds"`
	Difficulty       model.Difficulty   `json:"difficulty"`
	CompletedAt      time.Time          `json:"completedAt"`
}

func (s *StatisticsService) RecordExercise(userID uint, in ExerciseStatisticInput) (*model.ExerciseStatistic, error) {
	stat := &model.ExerciseStatistic{
		UserID:           userID,
		ExerciseID:       in.ExerciseID,
		ExerciseType:     in.ExerciseType,
		Module:           in.Module,
		Category:         in.Category,
		Question:         in.Question,
		SelectedAnswer:   in.SelectedAnswer,
		CorrectAnswer:    in.CorrectAnswer,
		IsCorrect:        in.IsCorrect,
		AttemptCount:     in.AttemptCount,
		TimeSpentSeconds: in.TimeSpentSeconds,
		Difficulty:       in.Difficulty,
		CompletedAt:      in.CompletedAt,
	}
	if stat.AttemptCount <= 0 {
		stat.AttemptCount = 1
	}
	if stat.CompletedAt.IsZero() {
		stat.CompletedAt = time.Now()
	}

	if err := s.Statistics.CreateExerciseStatistic(stat); err != nil {
		return nil, err
	}
	return stat, nil
}

func (s *StatisticsService) ListExercise(userID uint, limit int) ([]model.ExerciseStatistic, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.Statistics.ListExerciseStatistics(userID, limit)
}

type QuizStatisticInput struct {
	QuizSetID        string    `json:"quizSetId" binding:"required"`
	QuizTitle        string    `json:"quizTitle"`
	Score            int       `json:"score"`
	TotalPoints      int       `json:"totalPoints"`
	Percentage       int       `json:"percentage"`
	TimeSpentSeconds int       `json:"timeSpentSeconds"`
	CompletedAt      time.Time `json:"completedAt"`
}

// RecordQuiz stores a quiz-set result. Duplicate submissions for the same
// (user, set) pair are accepted and silently dropped so client retries stay
// safe; XP is awarded only when the row is new.
func (s *StatisticsService) RecordQuiz(userID uint, in QuizStatisticInput) (*model.QuizStatistic, bool, error) {
	exists, err := s.Statistics.HasQuizStatistic(userID, in.QuizSetID)
	if err != nil {
		return nil, false, err
	}

	stat := &model.QuizStatistic{
		UserID:           userID,
		QuizSetID:        in.QuizSetID,
		QuizTitle:        in.QuizTitle,
		Score:            in.Score,
		TotalPoints:      in.TotalPoints,
		Percentage:       in.Percentage,
		TimeSpentSeconds: in.TimeSpentSeconds,
		CompletedAt:      in.CompletedAt,
	}
	if stat.TotalPoints <= 0 {
		stat.Percentage = 0
	}
	if stat.CompletedAt.IsZero() {
		stat.CompletedAt = time.Now()
	}

	if err := s.Statistics.CreateQuizStatistic(stat); err != nil {
		return nil, false, err
	}
	if exists {
		return stat, false, nil
	}

	monitoring.QuizResultCounter.WithLabelValues(percentageBucket(stat.Percentage)).Inc()

	if err := s.Users.UpdateXP(userID, stat.Score*XPPerQuizPoint); err != nil {
		logger.Log.Warn("xp award failed", zap.Uint("userId", userID), zap.Error(err))
	}
	return stat, true, nil
}

func percentageBucket(p int) string {
	switch {
	case p >= 90:
		return "90-100"
	case p >= 70:
		return "70-89"
	case p >= 50:
		return "50-69"
	default:
		return "0-49"
	}
}

func (s *StatisticsService) ListQuiz(userID uint, quizSetID string) ([]model.QuizStatistic, error) {
	return s.Statistics.ListQuizStatistics(userID, quizSetID)
}

func (s *StatisticsService) HasQuiz(userID uint, quizSetID string) (bool, error) {
	return s.Statistics.HasQuizStatistic(userID, quizSetID)
}

func (s *StatisticsService) Leaderboard(limit int) ([]repository.LeaderboardRow, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	return s.Statistics.QuizLeaderboard(limit)
}
