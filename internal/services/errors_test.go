package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/surveyhub/survey-service/internal/engine"
)

// Every sentinel a service can return must be claimed by exactly one
// classifier, otherwise the HTTP layer degrades it to a 500.
func TestErrorClassification(t *testing.T) {
	tests := []struct {
		err        error
		notFound   bool
		authorized bool
		conflict   bool
	}{
		{err: ErrSurveyNotFound, notFound: true},
		{err: ErrSurveyNotPublished, notFound: true},
		{err: ErrSessionNotFound, notFound: true},
		{err: ErrResponseNotFound, notFound: true},
		{err: ErrSurveyAccessDenied, authorized: true},
		{err: NewPermissionError("user-1", 1, "survey", "publish", "not owned"), authorized: true},
		{err: ErrSurveyNotEditable, conflict: true},
		{err: ErrSurveyNotDeletable, conflict: true},
		{err: ErrSurveyInvalidStatus, conflict: true},
		{err: ErrSurveyNoQuestions, conflict: true},
		{err: ErrSessionNotComplete, conflict: true},
		{err: ErrStaleStep, conflict: true},
		{err: engine.ErrSessionComplete, conflict: true},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.notFound, IsNotFound(tt.err))
			assert.Equal(t, tt.authorized, IsUnauthorized(tt.err))
			assert.Equal(t, tt.conflict, IsConflict(tt.err))
		})
	}
}

func TestErrorClassification_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("failed to get survey: %w", ErrSurveyNotPublished)
	assert.True(t, IsNotFound(wrapped))
}

func TestIsRejection(t *testing.T) {
	session, err := engine.NewSession(publishedSurvey())
	assert.NoError(t, err)

	stepErr := session.SelectOption(999)
	rejection, ok := IsRejection(stepErr)
	assert.True(t, ok)
	assert.Equal(t, engine.ReasonUnknownOption, rejection.Reason)

	_, ok = IsRejection(ErrSurveyNotFound)
	assert.False(t, ok)
}
