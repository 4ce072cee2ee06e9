package util

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailRegistered      = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrExerciseNotFound     = errors.New("exercise not found")
	ErrQuizSetNotFound      = errors.New("quiz set not found")
	ErrQuizSetEmpty         = errors.New("quiz set has no questions")
	ErrQuizAlreadyCompleted = errors.New("quiz set already completed")
	ErrEmptyAnswer          = errors.New("answer must not be empty")
)
