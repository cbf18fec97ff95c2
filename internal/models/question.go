package models

import "time"

type QuestionType string

const (
	QuestionText           QuestionType = "TEXT"
	QuestionNumber         QuestionType = "NUMBER"
	QuestionSingleChoice   QuestionType = "SINGLE_CHOICE"
	QuestionMultipleChoice QuestionType = "MULTIPLE_CHOICE"
)

// HasOptions reports whether the question type carries answer options.
func (t QuestionType) HasOptions() bool {
	return t == QuestionSingleChoice || t == QuestionMultipleChoice
}

type Question struct {
	ID         uint         `json:"id" gorm:"primaryKey"`
	SurveyID   uint         `json:"survey_id" gorm:"not null;index:idx_questions_survey_order,priority:1"`
	Text       string       `json:"text" gorm:"not null;type:text" validate:"required,min=1"`
	Type       QuestionType `json:"type" gorm:"not null" validate:"required,question_type"`
	IsRequired bool         `json:"is_required" gorm:"default:false"`

	// Order defines the traversal sequence within the survey. It is kept
	// dense and unique per survey by the editor; ties fall back to id.
	Order int `json:"order" gorm:"not null;index:idx_questions_survey_order,priority:2"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Options []AnswerOption `json:"options" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
}

func (Question) TableName() string {
	return "questions"
}

// OptionByID returns the option with the given id, if it belongs to this
// question.
func (q *Question) OptionByID(optionID uint) (*AnswerOption, bool) {
	for i := range q.Options {
		if q.Options[i].ID == optionID {
			return &q.Options[i], true
		}
	}
	return nil, false
}

type AnswerOption struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	QuestionID uint   `json:"question_id" gorm:"not null;index"`
	Text       string `json:"text" gorm:"not null" validate:"required,min=1"`
	Order      int    `json:"order" gorm:"not null"`
}

func (AnswerOption) TableName() string {
	return "answer_options"
}
