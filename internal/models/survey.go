package models

import (
	"time"

	"gorm.io/gorm"
)

type SurveyStatus string

const (
	StatusDraft     SurveyStatus = "DRAFT"
	StatusPublished SurveyStatus = "PUBLISHED"
	StatusClosed    SurveyStatus = "CLOSED"
)

type Survey struct {
	ID          uint         `json:"id" gorm:"primaryKey"`
	Title       string       `json:"title" gorm:"not null;size:200;index" validate:"required,min=3,max=200"`
	Description *string      `json:"description" gorm:"type:text" validate:"omitempty,max=1000"`
	IsPublic    bool         `json:"is_public" gorm:"default:true"`
	Status      SurveyStatus `json:"status" gorm:"default:DRAFT;index" validate:"omitempty,survey_status"`

	// Metadata
	CreatorID string         `json:"creator_id" gorm:"not null;index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Questions []Question     `json:"questions" gorm:"foreignKey:SurveyID;constraint:OnDelete:CASCADE"`
	Responses []UserResponse `json:"responses,omitempty" gorm:"foreignKey:SurveyID"`

	// Computed fields (not stored)
	QuestionsCount int `json:"questions_count" gorm:"-"`
	ResponsesCount int `json:"responses_count" gorm:"-"`
}

func (Survey) TableName() string {
	return "surveys"
}

// IsOpenForResponses reports whether respondents may start a new response
// against this survey.
func (s *Survey) IsOpenForResponses() bool {
	return s.Status == StatusPublished && s.IsPublic
}
