package repository

import (
	"engolo_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// Upsert records a completion. Re-recording the same (user, exercise) pair is
// a no-op, which keeps the collection append-only and duplicate-free even when
// a client replays an offline write.
func (r *ProgressRepository) Upsert(p *model.ExerciseProgress) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "exercise_id"}},
		DoNothing: true,
	}).Create(p).Error
}

func (r *ProgressRepository) ListByUser(userID uint, progressType string) ([]model.ExerciseProgress, error) {
	var records []model.ExerciseProgress
	query := r.DB.Where("user_id = ?", userID)
	if progressType != "" {
		query = query.Where("type = ?", progressType)
	}
	err := query.Order("completed_at ASC").Find(&records).Error
	return records, err
}

func (r *ProgressRepository) CountByUser(userID uint, progressType string) (int64, error) {
	var count int64
	query := r.DB.Model(&model.ExerciseProgress{}).Where("user_id = ?", userID)
	if progressType != "" {
		query = query.Where("type = ?", progressType)
	}
	err := query.Count(&count).Error
	return count, err
}
