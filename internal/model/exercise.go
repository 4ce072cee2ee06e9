package model

type ExerciseType string

const (
	Translation ExerciseType = "translation"
	Vocabulary  ExerciseType = "vocabulary"
	Grammar     ExerciseType = "grammar"
	Listening   ExerciseType = "listening"
)

type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

// Exercise is one entry of the total-ordered language-exercise catalog.
// Options are empty for free-text exercises.
type Exercise struct {
	UUIDBase
	Type          ExerciseType `gorm:"type:enum('translation','vocabulary','grammar','listening');not null" json:"type"`
	Question      string       `gorm:"type:text;not null" json:"question"`
	Options       []string     `gorm:"type:json;serializer:json" json:"options,omitempty"`
	CorrectAnswer string       `gorm:"size:255;not null" json:"correctAnswer"`
	Explanation   string       `gorm:"type:text" json:"explanation,omitempty"`
	Difficulty    Difficulty   `gorm:"type:enum('beginner','intermediate','advanced');default:'beginner'" json:"difficulty"`
	Category      string       `gorm:"size:100" json:"category"`
	AudioURL      string       `gorm:"size:255" json:"audioUrl,omitempty"` // listening exercises only
	Order         int          `gorm:"index;default:0" json:"order"`       // catalog position, drives module windowing
	CreatorID     uint         `gorm:"index" json:"creatorId"`
}

func (Exercise) TableName() string {
	return "exercises"
}

// StarterExercises seeds a fresh database with enough catalog entries for the
// first modules.
func StarterExercises() []Exercise {
	return []Exercise{
		{Type: Translation, Question: "Translate to Spanish: 'the house'", CorrectAnswer: "la casa", Explanation: "'Casa' is feminine, so it takes the article 'la'.", Difficulty: Beginner, Category: "Basics 1"},
		{Type: Vocabulary, Question: "Which word means 'dog'?", Options: []string{"gato", "perro", "pájaro", "pez"}, CorrectAnswer: "perro", Difficulty: Beginner, Category: "Basics 1"},
		{Type: Grammar, Question: "Complete: 'Yo ___ estudiante.'", Options: []string{"soy", "eres", "es", "son"}, CorrectAnswer: "soy", Explanation: "First person singular of 'ser' is 'soy'.", Difficulty: Beginner, Category: "Basics 1"},
		{Type: Translation, Question: "Translate to Spanish: 'good morning'", CorrectAnswer: "buenos días", Difficulty: Beginner, Category: "Basics 1"},
		{Type: Vocabulary, Question: "Which word means 'water'?", Options: []string{"pan", "leche", "agua", "vino"}, CorrectAnswer: "agua", Difficulty: Beginner, Category: "Basics 1"},
		{Type: Grammar, Question: "Complete: 'Ella ___ en Madrid.' (vivir)", CorrectAnswer: "vive", Explanation: "Third person singular of 'vivir' is 'vive'.", Difficulty: Beginner, Category: "Basics 2"},
		{Type: Translation, Question: "Translate to Spanish: 'I eat bread'", CorrectAnswer: "yo como pan", Difficulty: Beginner, Category: "Basics 2"},
		{Type: Vocabulary, Question: "Which word means 'book'?", Options: []string{"libro", "mesa", "silla", "puerta"}, CorrectAnswer: "libro", Difficulty: Beginner, Category: "Basics 2"},
		{Type: Translation, Question: "Translate to Spanish: 'thank you very much'", CorrectAnswer: "muchas gracias", Difficulty: Beginner, Category: "Basics 2"},
		{Type: Grammar, Question: "Pick the correct article: '___ problema'", Options: []string{"el", "la", "los", "las"}, CorrectAnswer: "el", Explanation: "'Problema' is masculine despite ending in -a.", Difficulty: Intermediate, Category: "Basics 2"},
	}
}
