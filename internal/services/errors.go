package services

import (
	"errors"
	"fmt"

	"github.com/surveyhub/survey-service/internal/engine"
	apperrors "github.com/surveyhub/survey-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrForbidden        = errors.New("forbidden - insufficient permissions")
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")

	// Survey specific errors
	ErrSurveyNotFound      = errors.New("survey not found")
	ErrSurveyAccessDenied  = errors.New("access denied to survey")
	ErrSurveyNotEditable   = errors.New("survey cannot be edited in current status")
	ErrSurveyNotDeletable  = errors.New("survey cannot be deleted - has existing responses")
	ErrSurveyNotPublished  = errors.New("survey is not open for responses")
	ErrSurveyInvalidStatus = errors.New("invalid survey status transition")
	ErrSurveyNoQuestions   = errors.New("survey has no questions to publish")

	// Session specific errors
	ErrSessionNotFound    = errors.New("response session not found")
	ErrSessionNotComplete = errors.New("response session has unanswered questions")
	ErrStaleStep          = errors.New("step targets a question that is no longer current")

	// Response specific errors
	ErrResponseNotFound = errors.New("response not found")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

type PermissionError struct {
	UserID     string `json:"user_id"`
	ResourceID uint   `json:"resource_id"`
	Resource   string `json:"resource"`
	Action     string `json:"action"`
	Reason     string `json:"reason"`
}

func (pe *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %s cannot %s %s %d - %s",
		pe.UserID, pe.Action, pe.Resource, pe.ResourceID, pe.Reason)
}

func NewPermissionError(userID string, resourceID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

// ===== ERROR HELPERS =====

// toValidationError converts a struct-validator error into the shared
// ValidationErrors type so callers can match it with IsValidation.
func toValidationError(err error) error {
	if ve := apperrors.ToValidationErrors(err); len(ve) > 0 {
		return ve
	}
	return fmt.Errorf("%w: %v", ErrValidationFailed, err)
}

// IsNotFound checks if error represents a "not found" condition. A survey
// that is not open for responses is indistinguishable from a missing one
// as far as respondents are concerned.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrSurveyNotFound) ||
		errors.Is(err, ErrSurveyNotPublished) ||
		errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, ErrResponseNotFound)
}

// IsUnauthorized checks if error represents an "unauthorized" condition
func IsUnauthorized(err error) bool {
	if errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrSurveyAccessDenied) {
		return true
	}
	var pe *PermissionError
	return errors.As(err, &pe)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) {
		return true
	}
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}

// IsConflict checks if error represents a state that forbids the operation
func IsConflict(err error) bool {
	return errors.Is(err, engine.ErrSessionComplete) ||
		errors.Is(err, ErrSurveyNotEditable) ||
		errors.Is(err, ErrSurveyNotDeletable) ||
		errors.Is(err, ErrSurveyInvalidStatus) ||
		errors.Is(err, ErrSurveyNoQuestions) ||
		errors.Is(err, ErrSessionNotComplete) ||
		errors.Is(err, ErrStaleStep)
}

// IsRejection checks if error is an answer rejection from the traversal
// engine, carrying the machine-readable reason.
func IsRejection(err error) (*engine.Rejection, bool) {
	return engine.AsRejection(err)
}
