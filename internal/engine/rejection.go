package engine

import (
	"errors"
	"fmt"
)

// RejectReason identifies why a submitted value was not accepted for the
// current question. Rejections are recoverable: the caller redisplays the
// same question and the session is left untouched.
type RejectReason string

const (
	ReasonRequired            RejectReason = "required"
	ReasonNotANumber          RejectReason = "not_a_number"
	ReasonUnknownOption       RejectReason = "unknown_option"
	ReasonEmptyRequiredChoice RejectReason = "empty_required_multichoice"
	ReasonOptionInputExpected RejectReason = "option_input_expected"
	ReasonTextInputExpected   RejectReason = "text_input_expected"
	ReasonSkipNotAllowed      RejectReason = "skip_not_allowed"
)

// Rejection is returned when a submitted value fails validation for the
// question it targets. It is an error value so callers can propagate it
// through the usual error paths, and distinguish it from infrastructure
// failures with AsRejection.
type Rejection struct {
	QuestionID uint         `json:"question_id"`
	Reason     RejectReason `json:"reason"`
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("answer rejected for question %d: %s", r.QuestionID, r.Reason)
}

func reject(questionID uint, reason RejectReason) error {
	return &Rejection{QuestionID: questionID, Reason: reason}
}

// AsRejection unwraps err into a *Rejection if it is one.
func AsRejection(err error) (*Rejection, bool) {
	var r *Rejection
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}
