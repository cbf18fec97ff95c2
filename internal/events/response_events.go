package events

import (
	"time"

	"github.com/ThreeDotsLabs/watermill"
)

type EventType string

const (
	EventResponseSubmitted EventType = "response.submitted"
	EventSurveyPublished   EventType = "survey.published"
	EventSurveyClosed      EventType = "survey.closed"
)

// SurveyEvent is the envelope every published event travels in.
type SurveyEvent struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// NewSurveyEvent wraps payload data in a fully populated envelope.
func NewSurveyEvent(eventType EventType, data interface{}) *SurveyEvent {
	return &SurveyEvent{
		ID:        watermill.NewUUID(),
		Type:      eventType,
		Source:    "survey-service",
		Version:   "1.0",
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// ResponseSubmittedEvent is emitted after a response commit succeeds.
type ResponseSubmittedEvent struct {
	ResponseID   uint      `json:"response_id"`
	SurveyID     uint      `json:"survey_id"`
	RespondentID *string   `json:"respondent_id,omitempty"`
	AnswerCount  int       `json:"answer_count"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

// SurveyStatusEvent is emitted when a survey is published or closed.
type SurveyStatusEvent struct {
	SurveyID  uint   `json:"survey_id"`
	Title     string `json:"title"`
	Status    string `json:"status"`
	CreatorID string `json:"creator_id"`
}
