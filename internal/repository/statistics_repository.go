package repository

import (
	"engolo_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StatisticsRepository struct {
	DB *gorm.DB
}

func NewStatisticsRepository(db *gorm.DB) *StatisticsRepository {
	return &StatisticsRepository{DB: db}
}

func (r *StatisticsRepository) CreateExerciseStatistic(s *model.ExerciseStatistic) error {
	return r.DB.Create(s).Error
}

func (r *StatisticsRepository) ListExerciseStatistics(userID uint, limit int) ([]model.ExerciseStatistic, error) {
	var stats []model.ExerciseStatistic
	query := r.DB.Where("user_id = ?", userID).Order("completed_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&stats).Error
	return stats, err
}

// CreateQuizStatistic inserts a quiz-set result. The (user_id, quiz_set_id)
// unique index makes a duplicate submission a silent no-op, so a client retry
// can never record a second result for the same attempt.
func (r *StatisticsRepository) CreateQuizStatistic(s *model.QuizStatistic) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "quiz_set_id"}},
		DoNothing: true,
	}).Create(s).Error
}

func (r *StatisticsRepository) ListQuizStatistics(userID uint, quizSetID string) ([]model.QuizStatistic, error) {
	var stats []model.QuizStatistic
	query := r.DB.Where("user_id = ?", userID)
	if quizSetID != "" {
		query = query.Where("quiz_set_id = ?", quizSetID)
	}
	err := query.Order("completed_at DESC").Find(&stats).Error
	return stats, err
}

func (r *StatisticsRepository) HasQuizStatistic(userID uint, quizSetID string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.QuizStatistic{}).
		Where("user_id = ? AND quiz_set_id = ?", userID, quizSetID).
		Count(&count).Error
	return count > 0, err
}

type LeaderboardRow struct {
	UserID     uint   `json:"userId"`
	Name       string `json:"name"`
	TotalScore int    `json:"totalScore"`
	QuizCount  int    `json:"quizCount"`
}

func (r *StatisticsRepository) QuizLeaderboard(limit int) ([]LeaderboardRow, error) {
	var rows []LeaderboardRow
	err := r.DB.Model(&model.QuizStatistic{}).
		Select("quiz_statistics.user_id, users.name, SUM(quiz_statistics.score) AS total_score, COUNT(*) AS quiz_count").
		Joins("JOIN users ON users.id = quiz_statistics.user_id").
		Group("quiz_statistics.user_id, users.name").
		Order("total_score DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
