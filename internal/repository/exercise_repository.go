package repository

import (
	"engolo_backend/internal/model"

	"gorm.io/gorm"
)

type ExerciseRepository struct {
	DB *gorm.DB
}

func NewExerciseRepository(db *gorm.DB) *ExerciseRepository {
	return &ExerciseRepository{DB: db}
}

func (r *ExerciseRepository) Create(ex *model.Exercise) error {
	return r.DB.Create(ex).Error
}

func (r *ExerciseRepository) FindByID(id string) (*model.Exercise, error) {
	var ex model.Exercise
	err := r.DB.Where("id = ?", id).First(&ex).Error
	if err != nil {
		return nil, err
	}
	return &ex, nil
}

// ListOrdered returns the full catalog in windowing order. Module boundaries
// are computed from this ordering, so it must be stable.
func (r *ExerciseRepository) ListOrdered() ([]model.Exercise, error) {
	var exercises []model.Exercise
	err := r.DB.Order("`order` ASC, created_at ASC").Find(&exercises).Error
	return exercises, err
}

func (r *ExerciseRepository) ListByType(t model.ExerciseType) ([]model.Exercise, error) {
	var exercises []model.Exercise
	err := r.DB.Where("type = ?", t).Order("`order` ASC").Find(&exercises).Error
	return exercises, err
}

func (r *ExerciseRepository) MaxOrder() (int, error) {
	var max int
	err := r.DB.Model(&model.Exercise{}).Select("COALESCE(MAX(`order`), 0)").Scan(&max).Error
	return max, err
}

func (r *ExerciseRepository) Update(ex *model.Exercise) error {
	return r.DB.Save(ex).Error
}

func (r *ExerciseRepository) Delete(id string) error {
	return r.DB.Where("id = ?", id).Delete(&model.Exercise{}).Error
}
