package engine

import (
	"github.com/surveyhub/survey-service/internal/models"
)

// FinalizedAnswer is the normalized, type-tagged result of validating one
// question's answer. Exactly one value field is populated, matching the
// question's type; a skip carries no value at all.
type FinalizedAnswer struct {
	QuestionID   uint                `json:"question_id"`
	QuestionType models.QuestionType `json:"question_type"`

	TextValue        *string  `json:"text_value,omitempty"`
	NumberValue      *float64 `json:"number_value,omitempty"`
	SelectedOptionID *uint    `json:"selected_option_id,omitempty"`
	ChosenOptionIDs  []uint   `json:"chosen_option_ids,omitempty"`

	Skipped bool `json:"skipped,omitempty"`
}

func textAnswer(q *models.Question, value string) FinalizedAnswer {
	return FinalizedAnswer{
		QuestionID:   q.ID,
		QuestionType: q.Type,
		TextValue:    &value,
	}
}

func numberAnswer(q *models.Question, value float64) FinalizedAnswer {
	return FinalizedAnswer{
		QuestionID:   q.ID,
		QuestionType: q.Type,
		NumberValue:  &value,
	}
}

func singleChoiceAnswer(q *models.Question, optionID uint) FinalizedAnswer {
	return FinalizedAnswer{
		QuestionID:       q.ID,
		QuestionType:     q.Type,
		SelectedOptionID: &optionID,
	}
}

func multipleChoiceAnswer(q *models.Question, optionIDs []uint) FinalizedAnswer {
	ids := make([]uint, len(optionIDs))
	copy(ids, optionIDs)
	return FinalizedAnswer{
		QuestionID:      q.ID,
		QuestionType:    q.Type,
		ChosenOptionIDs: ids,
	}
}

func skippedAnswer(q *models.Question) FinalizedAnswer {
	return FinalizedAnswer{
		QuestionID:   q.ID,
		QuestionType: q.Type,
		Skipped:      true,
	}
}

// IsSkip reports whether the answer records an explicit skip of an optional
// question.
func (a FinalizedAnswer) IsSkip() bool {
	return a.Skipped
}
