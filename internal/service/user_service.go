package service

import (
	"engolo_backend/internal/model"
	"engolo_backend/internal/repository"
	"engolo_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

type UserService struct {
	Users *repository.UserRepository
}

func NewUserService(users *repository.UserRepository) *UserService {
	return &UserService{Users: users}
}

func (s *UserService) Profile(userID uint) (*model.User, error) {
	user, err := s.Users.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

type UpdateProfileInput struct {
	Name     string `json:"name" binding:"omitempty,min=2,max=100"`
	Language string `json:"language" binding:"omitempty,max=10"`
	Learning string `json:"learning" binding:"omitempty,max=10"`
	Avatar   string `json:"avatar" binding:"omitempty,max=255"`
}

func (s *UserService) UpdateProfile(userID uint, in UpdateProfileInput) (*model.User, error) {
	user, err := s.Profile(userID)
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		user.Name = in.Name
	}
	if in.Language != "" {
		user.Language = in.Language
	}
	if in.Learning != "" {
		user.Learning = in.Learning
	}
	if in.Avatar != "" {
		user.Avatar = in.Avatar
	}

	if err := s.Users.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// AwardXP adds experience points; negative deltas are ignored.
func (s *UserService) AwardXP(userID uint, xp int) error {
	if xp <= 0 {
		return nil
	}
	return s.Users.UpdateXP(userID, xp)
}

func (s *UserService) XPLeaderboard(limit int) ([]model.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	return s.Users.FindTopByXP(limit)
}

func (s *UserService) List(page, limit int) ([]model.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.Users.List(page, limit)
}

// SetDisabled toggles login for a user; admin accounts cannot disable
// themselves.
func (s *UserService) SetDisabled(actorID, userID uint, disabled bool) error {
	if actorID == userID {
		return util.ErrPermissionDenied
	}

	user, err := s.Profile(userID)
	if err != nil {
		return err
	}
	user.Disabled = disabled
	return s.Users.Update(user)
}
