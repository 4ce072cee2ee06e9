package service

import (
	"context"
	"encoding/json"
	"engolo_backend/internal/engine"
	"engolo_backend/internal/model"
	"engolo_backend/internal/repository"
	"engolo_backend/internal/util"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// dailyQuizKey caches the current daily set; writes to any daily set drop it.
const (
	dailyQuizKey = "engolo:daily_quiz"
	dailyQuizTTL = 5 * time.Minute
)

type QuizSetService struct {
	QuizSets *repository.QuizSetRepository
	Redis    *redis.Client
}

func NewQuizSetService(quizSets *repository.QuizSetRepository, rdb *redis.Client) *QuizSetService {
	return &QuizSetService{QuizSets: quizSets, Redis: rdb}
}

type QuizQuestionInput struct {
	ID            string                 `json:"id"` // empty for new questions
	Question      string                 `json:"question" binding:"required"`
	Options       []string               `json:"options"`
	CorrectAnswer string                 `json:"correctAnswer" binding:"required"`
	Type          model.QuizQuestionType `json:"type" binding:"omitempty,oneof=multiple_choice text_input"`
	Points        int                    `json:"points" binding:"omitempty,min=1,max=100"`
	Difficulty    model.Difficulty       `json:"difficulty" binding:"omitempty,oneof=beginner intermediate advanced"`
}

type QuizSetInput struct {
	Title            string              `json:"title" binding:"required,max=255"`
	Description      string              `json:"description"`
	TimeLimitSeconds int                 `json:"timeLimitSeconds" binding:"omitempty,min=30,max=3600"`
	IsDaily          bool                `json:"isDaily"`
	Category         string              `json:"category"`
	Questions        []QuizQuestionInput `json:"questions" binding:"required,min=1,dive"`
}

func (in *QuizQuestionInput) toModel(quizSetID string, order int) model.QuizQuestion {
	q := model.QuizQuestion{
		QuizSetID:     quizSetID,
		Question:      in.Question,
		Options:       in.Options,
		CorrectAnswer: in.CorrectAnswer,
		Type:          in.Type,
		Points:        in.Points,
		Difficulty:    in.Difficulty,
		Order:         order,
	}
	if q.Type == "" {
		if len(q.Options) > 0 {
			q.Type = model.MultipleChoice
		} else {
			q.Type = model.TextInput
		}
	}
	if q.Points <= 0 {
		q.Points = 1
	}
	if q.Difficulty == "" {
		q.Difficulty = model.Beginner
	}
	return q
}

func (s *QuizSetService) Create(creatorID uint, in QuizSetInput) (*model.QuizSet, error) {
	qs := &model.QuizSet{
		Title:            in.Title,
		Description:      in.Description,
		TimeLimitSeconds: in.TimeLimitSeconds,
		IsDaily:          in.IsDaily,
		Category:         in.Category,
		CreatorID:        creatorID,
	}
	if qs.TimeLimitSeconds <= 0 {
		qs.TimeLimitSeconds = 300
	}
	for i, q := range in.Questions {
		qs.Questions = append(qs.Questions, q.toModel("", i+1))
	}

	if err := s.QuizSets.Create(qs); err != nil {
		return nil, err
	}
	if qs.IsDaily {
		s.dropDailyCache(context.Background())
	}
	return s.Get(qs.ID)
}

func (s *QuizSetService) Get(id string) (*model.QuizSet, error) {
	qs, err := s.QuizSets.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizSetNotFound
		}
		return nil, err
	}
	return qs, nil
}

func (s *QuizSetService) List(page, limit int, category string) ([]model.QuizSet, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.QuizSets.List(page, limit, category)
}

// Daily serves the current daily set from a short-lived Redis cache; it is
// the hottest read in the app and never changes mid-session.
func (s *QuizSetService) Daily(ctx context.Context) (*model.QuizSet, error) {
	if s.Redis != nil {
		if raw, err := s.Redis.Get(ctx, dailyQuizKey).Bytes(); err == nil {
			var cached model.QuizSet
			if json.Unmarshal(raw, &cached) == nil {
				return &cached, nil
			}
		}
	}

	qs, err := s.QuizSets.FindDaily()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizSetNotFound
		}
		return nil, err
	}

	if s.Redis != nil {
		if raw, err := json.Marshal(qs); err == nil {
			s.Redis.Set(ctx, dailyQuizKey, raw, dailyQuizTTL)
		}
	}
	return qs, nil
}

func (s *QuizSetService) dropDailyCache(ctx context.Context) {
	if s.Redis != nil {
		s.Redis.Del(ctx, dailyQuizKey)
	}
}

// Update replaces the set's metadata and reconciles the question list:
// questions carrying a known id are updated in place, questions without one
// are created, and stored questions missing from the input are deleted.
func (s *QuizSetService) Update(actor *util.Claims, id string, in QuizSetInput) (*model.QuizSet, error) {
	qs, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if actor.Role != model.Admin && qs.CreatorID != actor.UserID {
		return nil, util.ErrPermissionDenied
	}

	qs.Title = in.Title
	qs.Description = in.Description
	if in.TimeLimitSeconds > 0 {
		qs.TimeLimitSeconds = in.TimeLimitSeconds
	}
	qs.IsDaily = in.IsDaily
	qs.Category = in.Category

	existing := make(map[string]model.QuizQuestion, len(qs.Questions))
	for _, q := range qs.Questions {
		existing[q.ID] = q
	}

	keep := make(map[string]bool, len(in.Questions))
	for i, qin := range in.Questions {
		if old, ok := existing[qin.ID]; qin.ID != "" && ok {
			updated := qin.toModel(id, i+1)
			updated.UUIDBase = old.UUIDBase
			if err := s.QuizSets.UpdateQuestion(&updated); err != nil {
				return nil, err
			}
			keep[qin.ID] = true
			continue
		}

		created := qin.toModel(id, i+1)
		if err := s.QuizSets.CreateQuestion(&created); err != nil {
			return nil, err
		}
		keep[created.ID] = true
	}

	for qid := range existing {
		if !keep[qid] {
			if err := s.QuizSets.DeleteQuestion(qid); err != nil {
				return nil, err
			}
		}
	}

	qs.Questions = nil
	if err := s.QuizSets.Update(qs); err != nil {
		return nil, err
	}
	s.dropDailyCache(context.Background())
	return s.Get(id)
}

func (s *QuizSetService) Delete(actor *util.Claims, id string) error {
	qs, err := s.Get(id)
	if err != nil {
		return err
	}
	if actor.Role != model.Admin && qs.CreatorID != actor.UserID {
		return util.ErrPermissionDenied
	}
	if err := s.QuizSets.Delete(id); err != nil {
		return err
	}
	if qs.IsDaily {
		s.dropDailyCache(context.Background())
	}
	return nil
}

// EngineSet maps a stored set into the engine's quiz shape for embedders
// that run sessions server-side.
func EngineSet(qs *model.QuizSet) (*engine.QuizSet, error) {
	if len(qs.Questions) == 0 {
		return nil, util.ErrQuizSetEmpty
	}

	out := &engine.QuizSet{
		ID:               qs.ID,
		Title:            qs.Title,
		Description:      qs.Description,
		TimeLimitSeconds: qs.TimeLimitSeconds,
		IsDaily:          qs.IsDaily,
		Category:         qs.Category,
	}
	for _, q := range qs.Questions {
		out.Questions = append(out.Questions, engine.QuizQuestion{
			Question:      q.Question,
			CorrectAnswer: q.CorrectAnswer,
			Options:       q.Options,
			Type:          engine.QuizQuestionType(q.Type),
			Points:        q.Points,
			Difficulty:    string(q.Difficulty),
		})
	}
	return out, nil
}
