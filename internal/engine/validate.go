package engine

import (
	"math"
	"strconv"
	"strings"

	"github.com/surveyhub/survey-service/internal/models"
)

// SubmitValue answers the current Text or Number question with a raw string
// value. Choice questions reject free input with option_input_expected.
//
// Text values are stored verbatim; an empty value on a required question is
// rejected, while on an optional question it finalizes as a skip. Number
// values accept a comma as decimal separator and must parse as a finite
// number.
func (s *Session) SubmitValue(raw string) error {
	q, ok := s.Current()
	if !ok {
		return ErrSessionComplete
	}

	switch q.Type {
	case models.QuestionText:
		if raw == "" {
			if q.IsRequired {
				return reject(q.ID, ReasonRequired)
			}
			return s.advance(skippedAnswer(q))
		}
		return s.advance(textAnswer(q, raw))

	case models.QuestionNumber:
		if raw == "" {
			if q.IsRequired {
				return reject(q.ID, ReasonRequired)
			}
			return s.advance(skippedAnswer(q))
		}
		value, err := parseDecimal(raw)
		if err != nil {
			return reject(q.ID, ReasonNotANumber)
		}
		return s.advance(numberAnswer(q, value))

	default:
		return reject(q.ID, ReasonOptionInputExpected)
	}
}

// SelectOption answers the current SingleChoice question. Selection
// finalizes the answer immediately; there is no pending state.
func (s *Session) SelectOption(optionID uint) error {
	q, ok := s.Current()
	if !ok {
		return ErrSessionComplete
	}
	if q.Type != models.QuestionSingleChoice {
		return s.rejectForInputKind(q)
	}
	if _, ok := q.OptionByID(optionID); !ok {
		return reject(q.ID, ReasonUnknownOption)
	}
	return s.advance(singleChoiceAnswer(q, optionID))
}

// ToggleOption flips the option's membership in the pending selection of
// the current MultipleChoice question and returns the updated selection.
// Toggling never finalizes the answer.
func (s *Session) ToggleOption(optionID uint) ([]uint, error) {
	q, ok := s.Current()
	if !ok {
		return nil, ErrSessionComplete
	}
	if q.Type != models.QuestionMultipleChoice {
		return nil, s.rejectForInputKind(q)
	}
	if _, ok := q.OptionByID(optionID); !ok {
		return nil, reject(q.ID, ReasonUnknownOption)
	}

	for i, id := range s.pending {
		if id == optionID {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return s.PendingSelection(), nil
		}
	}
	s.pending = append(s.pending, optionID)
	return s.PendingSelection(), nil
}

// ConfirmSelection finalizes the pending selection of the current
// MultipleChoice question. An empty selection is rejected on required
// questions and accepted as an empty answer on optional ones.
func (s *Session) ConfirmSelection() error {
	q, ok := s.Current()
	if !ok {
		return ErrSessionComplete
	}
	if q.Type != models.QuestionMultipleChoice {
		return s.rejectForInputKind(q)
	}
	if len(s.pending) == 0 && q.IsRequired {
		return reject(q.ID, ReasonEmptyRequiredChoice)
	}
	return s.advance(multipleChoiceAnswer(q, s.pending))
}

// Skip records an empty answer for the current question, bypassing all
// type-specific checks. Only optional questions may be skipped.
func (s *Session) Skip() error {
	q, ok := s.Current()
	if !ok {
		return ErrSessionComplete
	}
	if q.IsRequired {
		return reject(q.ID, ReasonSkipNotAllowed)
	}
	return s.advance(skippedAnswer(q))
}

// rejectForInputKind names the input the current question actually expects.
func (s *Session) rejectForInputKind(q *models.Question) error {
	if q.Type.HasOptions() {
		return reject(q.ID, ReasonOptionInputExpected)
	}
	return reject(q.ID, ReasonTextInputExpected)
}

// parseDecimal parses a decimal number accepting both "3.14" and "3,14".
func parseDecimal(raw string) (float64, error) {
	normalized := strings.Replace(strings.TrimSpace(raw), ",", ".", 1)
	value, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, strconv.ErrRange
	}
	return value, nil
}
