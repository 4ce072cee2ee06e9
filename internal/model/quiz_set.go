package model

type QuizQuestionType string

const (
	MultipleChoice QuizQuestionType = "multiple_choice"
	TextInput      QuizQuestionType = "text_input"
)

// QuizSet is a teacher-authored, timed collection of questions. Immutable
// from the learner's point of view once a session has started.
type QuizSet struct {
	UUIDBase
	Title            string         `gorm:"size:255;not null" json:"title"`
	Description      string         `gorm:"type:text" json:"description"`
	TimeLimitSeconds int            `gorm:"default:300" json:"timeLimitSeconds"`
	IsDaily          bool           `gorm:"default:false;index" json:"isDaily"`
	Category         string         `gorm:"size:100" json:"category"`
	CreatorID        uint           `gorm:"index" json:"creatorId"`
	Questions        []QuizQuestion `gorm:"foreignKey:QuizSetID" json:"questions"`
}

func (QuizSet) TableName() string {
	return "quiz_sets"
}

type QuizQuestion struct {
	UUIDBase
	QuizSetID     string           `gorm:"index;type:varchar(36);not null" json:"quizSetId"`
	Question      string           `gorm:"type:text;not null" json:"question"`
	Options       []string         `gorm:"type:json;serializer:json" json:"options,omitempty"`
	CorrectAnswer string           `gorm:"size:255;not null" json:"correctAnswer"`
	Type          QuizQuestionType `gorm:"type:enum('multiple_choice','text_input');default:'multiple_choice'" json:"type"`
	Points        int              `gorm:"default:1" json:"points"`
	Difficulty    Difficulty       `gorm:"type:enum('beginner','intermediate','advanced');default:'beginner'" json:"difficulty"`
	Order         int              `gorm:"default:0" json:"order"`
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}
