package service

import (
	"engolo_backend/internal/model"
	"engolo_backend/internal/repository"
	"engolo_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
)

// XPPerExercise is the experience award for each newly completed exercise.
const XPPerExercise = 10

type ProgressService struct {
	Progress *repository.ProgressRepository
	Users    *repository.UserRepository
}

func NewProgressService(progress *repository.ProgressRepository, users *repository.UserRepository) *ProgressService {
	return &ProgressService{Progress: progress, Users: users}
}

type ProgressInput struct {
	Type        string    `json:"type"`
	ExerciseID  string    `json:"exerciseId" binding:"required"`
	Score       int       `json:"score"`
	CompletedAt time.Time `json:"completedAt"`
}

// Record persists a completion. Replays of the same (user, exercise) pair are
// accepted and ignored so offline clients can resend safely; XP is only
// awarded for first-time completions.
func (s *ProgressService) Record(userID uint, in ProgressInput) (*model.ExerciseProgress, error) {
	rec := &model.ExerciseProgress{
		UserID:      userID,
		Type:        in.Type,
		ExerciseID:  in.ExerciseID,
		Score:       in.Score,
		CompletedAt: in.CompletedAt,
	}
	if rec.Type == "" {
		rec.Type = model.ProgressTypeLanguageExercise
	}
	if rec.CompletedAt.IsZero() {
		rec.CompletedAt = time.Now()
	}

	before, err := s.Progress.CountByUser(userID, rec.Type)
	if err != nil {
		return nil, err
	}

	if err := s.Progress.Upsert(rec); err != nil {
		return nil, err
	}

	after, err := s.Progress.CountByUser(userID, rec.Type)
	if err != nil {
		return nil, err
	}

	if after > before {
		if err := s.Users.UpdateXP(userID, XPPerExercise); err != nil {
			logger.Log.Warn("xp award failed", zap.Uint("userId", userID), zap.Error(err))
		}
	}

	return rec, nil
}

func (s *ProgressService) List(userID uint, progressType string) ([]model.ExerciseProgress, error) {
	return s.Progress.ListByUser(userID, progressType)
}

func (s *ProgressService) Count(userID uint, progressType string) (int64, error) {
	return s.Progress.CountByUser(userID, progressType)
}
