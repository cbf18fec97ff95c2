package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/surveyhub/survey-service/internal/models"
	"github.com/surveyhub/survey-service/internal/repositories"
)

func ownedSurvey() *models.Survey {
	s := publishedSurvey()
	s.CreatorID = "creator-1"
	return s
}

func strPtr(v string) *string { return &v }

func floatPtr(v float64) *float64 { return &v }

func uintPtr(v uint) *uint { return &v }

func TestResultsService_GetSummary(t *testing.T) {
	repo := newMockRepository()
	service := NewResultsService(repo, testLogger())

	repo.survey.On("GetByIDWithQuestions", mock.Anything, uint(1)).Return(ownedSurvey(), nil)
	repo.response.On("CountBySurvey", mock.Anything, uint(1)).Return(int64(3), nil)
	repo.response.On("GetAnswersBySurvey", mock.Anything, uint(1)).Return([]*models.Answer{
		// Response 1: Go, {PostgreSQL, Redis}, 5.5
		{QuestionID: 101, SelectedOptionID: uintPtr(11)},
		{QuestionID: 102, ChosenOptions: []models.AnswerSelectedOption{{OptionID: 21}, {OptionID: 23}}},
		{QuestionID: 103, NumberValue: floatPtr(5.5)},
		// Response 2: Go, skipped, 2
		{QuestionID: 101, SelectedOptionID: uintPtr(11)},
		{QuestionID: 102},
		{QuestionID: 103, NumberValue: floatPtr(2)},
		// Response 3: TypeScript, {PostgreSQL}, 8.5
		{QuestionID: 101, SelectedOptionID: uintPtr(12)},
		{QuestionID: 102, ChosenOptions: []models.AnswerSelectedOption{{OptionID: 21}}},
		{QuestionID: 103, NumberValue: floatPtr(8.5)},
	}, nil)

	results, err := service.GetSummary(context.Background(), 1, "creator-1")
	require.NoError(t, err)

	assert.Equal(t, int64(3), results.ResponseCount)
	require.Len(t, results.Questions, 3)

	single := results.Questions[0]
	assert.Equal(t, 3, single.AnswerCount)
	assert.Equal(t, 0, single.SkipCount)
	require.Len(t, single.OptionCounts, 2)
	assert.Equal(t, 2, single.OptionCounts[0].Count)
	assert.Equal(t, "Go", single.OptionCounts[0].Text)
	assert.Equal(t, 1, single.OptionCounts[1].Count)

	multi := results.Questions[1]
	assert.Equal(t, 2, multi.AnswerCount)
	assert.Equal(t, 1, multi.SkipCount)
	require.Len(t, multi.OptionCounts, 3)
	assert.Equal(t, 2, multi.OptionCounts[0].Count)
	assert.Equal(t, 0, multi.OptionCounts[1].Count)
	assert.Equal(t, 1, multi.OptionCounts[2].Count)

	number := results.Questions[2]
	require.NotNil(t, number.NumberStats)
	assert.Equal(t, 2.0, number.NumberStats.Min)
	assert.Equal(t, 8.5, number.NumberStats.Max)
	assert.InDelta(t, 5.333, number.NumberStats.Average, 0.001)
}

func TestResultsService_GetSummary_NotOwner(t *testing.T) {
	repo := newMockRepository()
	service := NewResultsService(repo, testLogger())
	repo.survey.On("GetByIDWithQuestions", mock.Anything, uint(1)).Return(ownedSurvey(), nil)

	_, err := service.GetSummary(context.Background(), 1, "intruder")
	assert.True(t, IsUnauthorized(err))
	repo.response.AssertNotCalled(t, "GetAnswersBySurvey", mock.Anything, mock.Anything)
}

func TestResultsService_ListResponses(t *testing.T) {
	repo := newMockRepository()
	service := NewResultsService(repo, testLogger())

	repo.survey.On("GetByIDWithQuestions", mock.Anything, uint(1)).Return(ownedSurvey(), nil)
	repo.response.On("GetBySurvey", mock.Anything, uint(1), mock.Anything).
		Return([]*models.UserResponse{{ID: 1, SurveyID: 1}, {ID: 2, SurveyID: 1}}, int64(2), nil)

	responses, total, err := service.ListResponses(context.Background(), 1, repositories.ResponseFilters{}, "creator-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, responses, 2)
}

func TestResultsService_ExportResponses(t *testing.T) {
	repo := newMockRepository()
	service := NewResultsService(repo, testLogger())

	repo.survey.On("GetByIDWithQuestions", mock.Anything, uint(1)).Return(ownedSurvey(), nil)
	repo.response.On("GetBySurvey", mock.Anything, uint(1), mock.Anything).
		Return([]*models.UserResponse{
			{
				ID: 1, SurveyID: 1, RespondentID: strPtr("user-7"),
				Answers: []models.Answer{
					{QuestionID: 101, SelectedOptionID: uintPtr(11)},
					{QuestionID: 102, ChosenOptions: []models.AnswerSelectedOption{{OptionID: 21}, {OptionID: 23}}},
					{QuestionID: 103, NumberValue: floatPtr(5.5)},
				},
			},
			{
				ID: 2, SurveyID: 1,
				Answers: []models.Answer{
					{QuestionID: 101, SelectedOptionID: uintPtr(12)},
					{QuestionID: 102},
					{QuestionID: 103, NumberValue: floatPtr(2)},
				},
			},
		}, int64(2), nil)

	data, err := service.ExportResponses(context.Background(), 1, "creator-1")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Responses")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Response ID", rows[0][0])
	assert.Equal(t, "Which language do you use most?", rows[0][3])

	assert.Equal(t, "user-7", rows[1][2])
	assert.Equal(t, "Go", rows[1][3])
	assert.Equal(t, "PostgreSQL; Redis", rows[1][4])
	assert.Equal(t, "5.5", rows[1][5])

	assert.Equal(t, "anonymous", rows[2][2])
	// Skipped answers leave the cell blank.
	if len(rows[2]) > 4 {
		assert.Equal(t, "", rows[2][4])
	}
}
