package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/surveyhub/survey-service/internal/models"
)

// techSurvey mirrors the demo survey used across the service tests:
// Q1 SingleChoice required [A=11, B=12], Q2 MultipleChoice optional
// [X=21, Y=22, Z=23], Q3 Number required.
func techSurvey() *models.Survey {
	return &models.Survey{
		ID:     1,
		Title:  "Technology survey",
		Status: models.StatusPublished,
		Questions: []models.Question{
			{
				ID: 101, SurveyID: 1, Text: "Which framework was made by Google?",
				Type: models.QuestionSingleChoice, IsRequired: true, Order: 1,
				Options: []models.AnswerOption{
					{ID: 11, QuestionID: 101, Text: "A", Order: 1},
					{ID: 12, QuestionID: 101, Text: "B", Order: 2},
				},
			},
			{
				ID: 102, SurveyID: 1, Text: "Which languages are statically typed?",
				Type: models.QuestionMultipleChoice, IsRequired: false, Order: 2,
				Options: []models.AnswerOption{
					{ID: 21, QuestionID: 102, Text: "X", Order: 1},
					{ID: 22, QuestionID: 102, Text: "Y", Order: 2},
					{ID: 23, QuestionID: 102, Text: "Z", Order: 3},
				},
			},
			{
				ID: 103, SurveyID: 1, Text: "Years of programming experience?",
				Type: models.QuestionNumber, IsRequired: true, Order: 3,
			},
		},
	}
}

func TestNewSession_OrdersQuestionsAndOptions(t *testing.T) {
	survey := techSurvey()
	// Scramble declaration order; traversal must follow (order, id).
	survey.Questions[0], survey.Questions[2] = survey.Questions[2], survey.Questions[0]
	survey.Questions[1].Options[0], survey.Questions[1].Options[2] =
		survey.Questions[1].Options[2], survey.Questions[1].Options[0]

	session, err := NewSession(survey)
	require.NoError(t, err)

	q, ok := session.Current()
	require.True(t, ok)
	assert.Equal(t, uint(101), q.ID)

	session.mustAnswerAll(t)
}

func TestNewSession_OrderTieFallsBackToID(t *testing.T) {
	survey := &models.Survey{
		ID: 7,
		Questions: []models.Question{
			{ID: 2, SurveyID: 7, Text: "b", Type: models.QuestionText, Order: 1},
			{ID: 1, SurveyID: 7, Text: "a", Type: models.QuestionText, Order: 1},
		},
	}
	session, err := NewSession(survey)
	require.NoError(t, err)

	q, _ := session.Current()
	assert.Equal(t, uint(1), q.ID)
}

func TestSession_ZeroQuestionsIsImmediatelyComplete(t *testing.T) {
	session, err := NewSession(&models.Survey{ID: 3})
	require.NoError(t, err)

	assert.True(t, session.IsComplete())
	assert.Empty(t, session.Answers())

	_, ok := session.Current()
	assert.False(t, ok)
	assert.ErrorIs(t, session.SubmitValue("anything"), ErrSessionComplete)
}

func TestSession_ForwardTraversalReachesCompletionInQuestionCountSteps(t *testing.T) {
	session, err := NewSession(techSurvey())
	require.NoError(t, err)

	require.NoError(t, session.SelectOption(11))
	assert.False(t, session.IsComplete())
	require.NoError(t, session.ConfirmSelection()) // optional, empty set
	assert.False(t, session.IsComplete())
	require.NoError(t, session.SubmitValue("5"))

	assert.True(t, session.IsComplete())
	assert.Len(t, session.Answers(), session.QuestionCount())
}

func TestSession_RejectionLeavesStateUntouched(t *testing.T) {
	session, err := NewSession(techSurvey())
	require.NoError(t, err)

	err = session.SelectOption(999)
	rej, ok := AsRejection(err)
	require.True(t, ok)
	assert.Equal(t, ReasonUnknownOption, rej.Reason)
	assert.Equal(t, uint(101), rej.QuestionID)

	assert.Equal(t, 0, session.Position())
	assert.Empty(t, session.Answers())
}

func TestSession_BackRemovesRecordedAnswer(t *testing.T) {
	session, err := NewSession(techSurvey())
	require.NoError(t, err)

	require.NoError(t, session.SelectOption(11))
	require.NoError(t, session.ConfirmSelection())
	assert.Equal(t, 2, session.Position())

	q, err := session.Back()
	require.NoError(t, err)
	assert.Equal(t, uint(102), q.ID)
	assert.Len(t, session.Answers(), 1)

	// Re-answer; no question id is ever recorded twice.
	_, err = session.ToggleOption(22)
	require.NoError(t, err)
	require.NoError(t, session.ConfirmSelection())

	seen := map[uint]int{}
	for _, ans := range session.Answers() {
		seen[ans.QuestionID]++
	}
	for id, n := range seen {
		assert.Equalf(t, 1, n, "question %d recorded %d times", id, n)
	}
}

func TestSession_BackAtFirstQuestion(t *testing.T) {
	session, err := NewSession(techSurvey())
	require.NoError(t, err)

	_, err = session.Back()
	assert.ErrorIs(t, err, ErrAtFirstQuestion)
}

func TestSession_BackClearsPendingSelection(t *testing.T) {
	session, err := NewSession(techSurvey())
	require.NoError(t, err)

	require.NoError(t, session.SelectOption(11))
	_, err = session.ToggleOption(21)
	require.NoError(t, err)

	_, err = session.Back()
	require.NoError(t, err)
	assert.Empty(t, session.PendingSelection())
}

// mustAnswerAll drives the session to completion with valid answers.
func (s *Session) mustAnswerAll(t *testing.T) {
	t.Helper()
	for {
		q, ok := s.Current()
		if !ok {
			return
		}
		var err error
		switch q.Type {
		case models.QuestionText:
			err = s.SubmitValue("text")
		case models.QuestionNumber:
			err = s.SubmitValue("1")
		case models.QuestionSingleChoice:
			err = s.SelectOption(q.Options[0].ID)
		case models.QuestionMultipleChoice:
			if q.IsRequired {
				_, err = s.ToggleOption(q.Options[0].ID)
				require.NoError(t, err)
			}
			err = s.ConfirmSelection()
		}
		require.NoError(t, err)
	}
}
