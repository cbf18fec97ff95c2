package engine

import "errors"

// Invariant violations. Unlike Rejection values these are programming
// errors: a correct caller never triggers them.
var (
	ErrSessionComplete    = errors.New("session already complete")
	ErrSessionNotComplete = errors.New("session has unanswered questions")
	ErrDuplicateAnswer    = errors.New("question already answered in this session")
	ErrAtFirstQuestion    = errors.New("already at the first question")
	ErrNilSurvey          = errors.New("survey is nil")
	ErrSurveyMismatch     = errors.New("snapshot does not belong to this survey")
	ErrCorruptSnapshot    = errors.New("session snapshot is corrupt")
)
