package service

import (
	"context"
	"engolo_backend/internal/engine"
	"engolo_backend/internal/model"
	"engolo_backend/internal/repository"
	"engolo_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

type ExerciseService struct {
	Exercises  *repository.ExerciseRepository
	Backfiller engine.Backfiller // fills short module windows; may be nil
}

func NewExerciseService(exercises *repository.ExerciseRepository, backfiller engine.Backfiller) *ExerciseService {
	return &ExerciseService{Exercises: exercises, Backfiller: backfiller}
}

type ExerciseInput struct {
	Type          model.ExerciseType `json:"type" binding:"required,oneof=translation vocabulary grammar listening"`
	Question      string             `json:"question" binding:"required"`
	Options       []string           `json:"options"`
	CorrectAnswer string             `json:"correctAnswer" binding:"required"`
	Explanation   string             `json:"explanation"`
	Difficulty    model.Difficulty   `json:"difficulty" binding:"omitempty,oneof=beginner intermediate advanced"`
	Category      string             `json:"category"`
	AudioURL      string             `json:"audioUrl"`
}

// Create appends the exercise to the end of the catalog so existing module
// windows keep their contents.
func (s *ExerciseService) Create(creatorID uint, in ExerciseInput) (*model.Exercise, error) {
	maxOrder, err := s.Exercises.MaxOrder()
	if err != nil {
		return nil, err
	}

	ex := &model.Exercise{
		Type:          in.Type,
		Question:      in.Question,
		Options:       in.Options,
		CorrectAnswer: in.CorrectAnswer,
		Explanation:   in.Explanation,
		Difficulty:    in.Difficulty,
		Category:      in.Category,
		AudioURL:      in.AudioURL,
		Order:         maxOrder + 1,
		CreatorID:     creatorID,
	}
	if ex.Difficulty == "" {
		ex.Difficulty = model.Beginner
	}

	if err := s.Exercises.Create(ex); err != nil {
		return nil, err
	}
	return ex, nil
}

func (s *ExerciseService) Get(id string) (*model.Exercise, error) {
	ex, err := s.Exercises.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrExerciseNotFound
		}
		return nil, err
	}
	return ex, nil
}

func (s *ExerciseService) List() ([]model.Exercise, error) {
	return s.Exercises.ListOrdered()
}

// Module returns one catalog window exactly the way the learner-facing
// engine slices it (including dictionary backfill for a short tail), so the
// API and an embedded engine always agree on module contents.
func (s *ExerciseService) Module(ctx context.Context, n int) ([]engine.Exercise, error) {
	exercises, err := s.EngineExercises()
	if err != nil {
		return nil, err
	}

	catalog := engine.NewCatalog(exercises, s.Backfiller)
	if !catalog.HasModule(n) {
		return nil, util.ErrExerciseNotFound
	}
	return catalog.Module(ctx, n)
}

func (s *ExerciseService) Update(actor *util.Claims, id string, in ExerciseInput) (*model.Exercise, error) {
	ex, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if actor.Role != model.Admin && ex.CreatorID != actor.UserID {
		return nil, util.ErrPermissionDenied
	}

	ex.Type = in.Type
	ex.Question = in.Question
	ex.Options = in.Options
	ex.CorrectAnswer = in.CorrectAnswer
	ex.Explanation = in.Explanation
	if in.Difficulty != "" {
		ex.Difficulty = in.Difficulty
	}
	ex.Category = in.Category
	if in.AudioURL != "" {
		ex.AudioURL = in.AudioURL
	}

	if err := s.Exercises.Update(ex); err != nil {
		return nil, err
	}
	return ex, nil
}

func (s *ExerciseService) Delete(actor *util.Claims, id string) error {
	ex, err := s.Get(id)
	if err != nil {
		return err
	}
	if actor.Role != model.Admin && ex.CreatorID != actor.UserID {
		return util.ErrPermissionDenied
	}
	return s.Exercises.Delete(id)
}

// SetAudio attaches an uploaded listening clip to an exercise.
func (s *ExerciseService) SetAudio(id, audioURL string) error {
	ex, err := s.Get(id)
	if err != nil {
		return err
	}
	ex.AudioURL = audioURL
	return s.Exercises.Update(ex)
}

// EngineExercises maps the stored catalog into the engine's exercise shape,
// preserving windowing order.
func (s *ExerciseService) EngineExercises() ([]engine.Exercise, error) {
	all, err := s.Exercises.ListOrdered()
	if err != nil {
		return nil, err
	}

	out := make([]engine.Exercise, len(all))
	for i, ex := range all {
		out[i] = engine.Exercise{
			ID:            ex.ID,
			Type:          engine.ExerciseType(ex.Type),
			Question:      ex.Question,
			Options:       ex.Options,
			CorrectAnswer: ex.CorrectAnswer,
			Explanation:   ex.Explanation,
			Difficulty:    string(ex.Difficulty),
			Category:      ex.Category,
		}
	}
	return out, nil
}
