package repository

import (
	"engolo_backend/internal/model"

	"gorm.io/gorm"
)

type QuizSetRepository struct {
	DB *gorm.DB
}

func NewQuizSetRepository(db *gorm.DB) *QuizSetRepository {
	return &QuizSetRepository{DB: db}
}

func (r *QuizSetRepository) Create(qs *model.QuizSet) error {
	return r.DB.Create(qs).Error
}

func (r *QuizSetRepository) FindByID(id string) (*model.QuizSet, error) {
	var qs model.QuizSet
	err := r.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("quiz_questions.order ASC")
	}).Where("id = ?", id).First(&qs).Error
	if err != nil {
		return nil, err
	}
	return &qs, nil
}

func (r *QuizSetRepository) List(page, limit int, category string) ([]model.QuizSet, int64, error) {
	var sets []model.QuizSet
	var total int64

	query := r.DB.Model(&model.QuizSet{})
	if category != "" {
		query = query.Where("category = ?", category)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Questions").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&sets).Error
	return sets, total, err
}

func (r *QuizSetRepository) FindDaily() (*model.QuizSet, error) {
	var qs model.QuizSet
	err := r.DB.Preload("Questions").
		Where("is_daily = ?", true).
		Order("created_at DESC").
		First(&qs).Error
	if err != nil {
		return nil, err
	}
	return &qs, nil
}

func (r *QuizSetRepository) Update(qs *model.QuizSet) error {
	return r.DB.Save(qs).Error
}

func (r *QuizSetRepository) Delete(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quiz_set_id = ?", id).Delete(&model.QuizQuestion{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.QuizSet{}).Error
	})
}

func (r *QuizSetRepository) CreateQuestion(q *model.QuizQuestion) error {
	return r.DB.Create(q).Error
}

func (r *QuizSetRepository) UpdateQuestion(q *model.QuizQuestion) error {
	return r.DB.Save(q).Error
}

func (r *QuizSetRepository) DeleteQuestion(id string) error {
	return r.DB.Where("id = ?", id).Delete(&model.QuizQuestion{}).Error
}

func (r *QuizSetRepository) ListQuestions(quizSetID string) ([]model.QuizQuestion, error) {
	var qs []model.QuizQuestion
	err := r.DB.Where("quiz_set_id = ?", quizSetID).Order("`order` ASC").Find(&qs).Error
	return qs, err
}
