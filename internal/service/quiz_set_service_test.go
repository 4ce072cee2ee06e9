package service

import (
	"engolo_backend/internal/model"
	"engolo_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuizQuestionInputDefaults(t *testing.T) {
	withOptions := QuizQuestionInput{
		Question:      "Which word means 'dog'?",
		Options:       []string{"perro", "gato"},
		CorrectAnswer: "perro",
	}
	q := withOptions.toModel("set-1", 3)
	assert.Equal(t, model.MultipleChoice, q.Type)
	assert.Equal(t, 1, q.Points)
	assert.Equal(t, model.Beginner, q.Difficulty)
	assert.Equal(t, 3, q.Order)
	assert.Equal(t, "set-1", q.QuizSetID)

	freeText := QuizQuestionInput{
		Question:      "Translate: 'house'",
		CorrectAnswer: "casa",
		Points:        5,
		Difficulty:    model.Advanced,
	}
	q = freeText.toModel("set-1", 1)
	assert.Equal(t, model.TextInput, q.Type)
	assert.Equal(t, 5, q.Points)
	assert.Equal(t, model.Advanced, q.Difficulty)
}

func TestEngineSetMapping(t *testing.T) {
	qs := &model.QuizSet{
		Title:            "Basics quiz",
		TimeLimitSeconds: 120,
		Questions: []model.QuizQuestion{
			{Question: "q1", CorrectAnswer: "a", Options: []string{"a", "b"}, Type: model.MultipleChoice, Points: 2},
			{Question: "q2", CorrectAnswer: "casa", Type: model.TextInput, Points: 3},
		},
	}
	qs.ID = "set-1"

	set, err := EngineSet(qs)
	require.NoError(t, err)
	assert.Equal(t, "set-1", set.ID)
	assert.Equal(t, 120, set.TimeLimitSeconds)
	require.Len(t, set.Questions, 2)
	assert.Equal(t, 2, set.Questions[0].Points)

	_, err = EngineSet(&model.QuizSet{})
	assert.ErrorIs(t, err, util.ErrQuizSetEmpty)
}
