package models

import (
	"time"

	"gorm.io/datatypes"
)

// UserResponse is one respondent's completed pass through a survey.
// Rows only ever appear fully populated: the committer writes the response
// and all of its answers in a single transaction.
type UserResponse struct {
	ID       uint `json:"id" gorm:"primaryKey"`
	SurveyID uint `json:"survey_id" gorm:"not null;index"`

	// RespondentID is nil for anonymous responses.
	RespondentID *string        `json:"respondent_id" gorm:"index"`
	SubmittedAt  time.Time      `json:"submitted_at" gorm:"autoCreateTime;index"`
	Metadata     datatypes.JSON `json:"metadata,omitempty" gorm:"type:jsonb"`

	// Relations
	Survey  Survey   `json:"-" gorm:"foreignKey:SurveyID"`
	Answers []Answer `json:"answers" gorm:"foreignKey:UserResponseID;constraint:OnDelete:CASCADE"`
}

func (UserResponse) TableName() string {
	return "user_responses"
}

// Answer is one question's answer within a response. Exactly one of the
// value columns is populated, matching the question's type; a skipped
// optional question produces a row with no value at all. MultipleChoice
// answers carry no scalar value and own ChosenOptions join rows instead.
type Answer struct {
	ID             uint `json:"id" gorm:"primaryKey"`
	UserResponseID uint `json:"user_response_id" gorm:"not null;index"`
	QuestionID     uint `json:"question_id" gorm:"not null;index"`

	TextValue        *string  `json:"text_value" gorm:"type:text"`
	NumberValue      *float64 `json:"number_value"`
	SelectedOptionID *uint    `json:"selected_option_id"`

	// Relations
	ChosenOptions []AnswerSelectedOption `json:"chosen_options" gorm:"foreignKey:AnswerID;constraint:OnDelete:CASCADE"`
}

func (Answer) TableName() string {
	return "answers"
}

// IsEmpty reports whether the row records a skipped question.
func (a *Answer) IsEmpty() bool {
	return a.TextValue == nil && a.NumberValue == nil &&
		a.SelectedOptionID == nil && len(a.ChosenOptions) == 0
}

// AnswerSelectedOption links a MultipleChoice answer to one chosen option.
type AnswerSelectedOption struct {
	AnswerID uint `json:"answer_id" gorm:"primaryKey;autoIncrement:false"`
	OptionID uint `json:"option_id" gorm:"primaryKey;autoIncrement:false"`
}

func (AnswerSelectedOption) TableName() string {
	return "answer_selected_options"
}
