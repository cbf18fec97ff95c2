package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/surveyhub/survey-service/internal/events"
	"github.com/surveyhub/survey-service/internal/models"
	"github.com/surveyhub/survey-service/internal/validator"
)

type surveyServiceFixture struct {
	repo      *mockRepository
	publisher *events.MockEventPublisher
	service   SurveyService
}

func newSurveyServiceFixture() *surveyServiceFixture {
	logger := testLogger()
	repo := newMockRepository()
	publisher := events.NewMockEventPublisher(logger)
	return &surveyServiceFixture{
		repo:      repo,
		publisher: publisher,
		service:   NewSurveyService(repo, logger, validator.New(), publisher),
	}
}

func TestSurveyService_Create(t *testing.T) {
	f := newSurveyServiceFixture()
	f.repo.survey.On("Create", mock.Anything, mock.AnythingOfType("*models.Survey")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.Survey).ID = 7
		}).
		Return(nil)

	req := &CreateSurveyRequest{
		Title: "Technology Survey",
		Questions: []QuestionInput{
			{Text: "Which language?", Type: models.QuestionSingleChoice, IsRequired: true,
				Options: []OptionInput{{Text: "Go"}, {Text: "TypeScript"}}},
			{Text: "Years of experience?", Type: models.QuestionNumber},
		},
	}

	survey, err := f.service.Create(context.Background(), req, "creator-1")
	require.NoError(t, err)

	assert.Equal(t, uint(7), survey.ID)
	assert.Equal(t, models.StatusDraft, survey.Status)
	assert.Equal(t, "creator-1", survey.CreatorID)
	assert.True(t, survey.IsPublic)

	// Order is assigned densely from payload sequence.
	require.Len(t, survey.Questions, 2)
	assert.Equal(t, 0, survey.Questions[0].Order)
	assert.Equal(t, 1, survey.Questions[1].Order)
	assert.Equal(t, 0, survey.Questions[0].Options[0].Order)
	assert.Equal(t, 1, survey.Questions[0].Options[1].Order)
}

func TestSurveyService_Create_ValidationFailures(t *testing.T) {
	f := newSurveyServiceFixture()
	ctx := context.Background()

	_, err := f.service.Create(ctx, &CreateSurveyRequest{Title: "ab"}, "creator-1")
	assert.Error(t, err)

	// Choice question without options.
	_, err = f.service.Create(ctx, &CreateSurveyRequest{
		Title: "Valid title",
		Questions: []QuestionInput{
			{Text: "Pick one", Type: models.QuestionSingleChoice},
		},
	}, "creator-1")
	assert.True(t, IsValidation(err))

	// Free-input question with options.
	_, err = f.service.Create(ctx, &CreateSurveyRequest{
		Title: "Valid title",
		Questions: []QuestionInput{
			{Text: "Say something", Type: models.QuestionText,
				Options: []OptionInput{{Text: "Nope"}}},
		},
	}, "creator-1")
	assert.True(t, IsValidation(err))

	f.repo.survey.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSurveyService_Publish(t *testing.T) {
	f := newSurveyServiceFixture()
	draft := &models.Survey{ID: 1, Title: "Survey", Status: models.StatusDraft, CreatorID: "creator-1"}

	f.repo.survey.On("GetByID", mock.Anything, uint(1)).Return(draft, nil)
	f.repo.survey.On("CountQuestions", mock.Anything, uint(1)).Return(int64(3), nil)
	f.repo.survey.On("UpdateStatus", mock.Anything, uint(1), models.StatusPublished).Return(nil)

	survey, err := f.service.Publish(context.Background(), 1, "creator-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPublished, survey.Status)

	published := f.publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventSurveyPublished, published[0].Type)
}

func TestSurveyService_Publish_NoQuestions(t *testing.T) {
	f := newSurveyServiceFixture()
	draft := &models.Survey{ID: 1, Title: "Survey", Status: models.StatusDraft, CreatorID: "creator-1"}

	f.repo.survey.On("GetByID", mock.Anything, uint(1)).Return(draft, nil)
	f.repo.survey.On("CountQuestions", mock.Anything, uint(1)).Return(int64(0), nil)

	_, err := f.service.Publish(context.Background(), 1, "creator-1")
	assert.ErrorIs(t, err, ErrSurveyNoQuestions)
	f.repo.survey.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestSurveyService_Publish_WrongStatus(t *testing.T) {
	f := newSurveyServiceFixture()
	closed := &models.Survey{ID: 1, Title: "Survey", Status: models.StatusClosed, CreatorID: "creator-1"}
	f.repo.survey.On("GetByID", mock.Anything, uint(1)).Return(closed, nil)

	_, err := f.service.Publish(context.Background(), 1, "creator-1")
	assert.ErrorIs(t, err, ErrSurveyInvalidStatus)
}

func TestSurveyService_Publish_NotOwner(t *testing.T) {
	f := newSurveyServiceFixture()
	draft := &models.Survey{ID: 1, Title: "Survey", Status: models.StatusDraft, CreatorID: "creator-1"}
	f.repo.survey.On("GetByID", mock.Anything, uint(1)).Return(draft, nil)

	_, err := f.service.Publish(context.Background(), 1, "intruder")
	assert.True(t, IsUnauthorized(err))
}

func TestSurveyService_Close(t *testing.T) {
	f := newSurveyServiceFixture()
	published := &models.Survey{ID: 1, Title: "Survey", Status: models.StatusPublished, CreatorID: "creator-1"}

	f.repo.survey.On("GetByID", mock.Anything, uint(1)).Return(published, nil)
	f.repo.survey.On("UpdateStatus", mock.Anything, uint(1), models.StatusClosed).Return(nil)

	survey, err := f.service.Close(context.Background(), 1, "creator-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusClosed, survey.Status)

	publishedEvents := f.publisher.GetPublishedEvents()
	require.Len(t, publishedEvents, 1)
	assert.Equal(t, events.EventSurveyClosed, publishedEvents[0].Type)
}

func TestSurveyService_Delete_GuardsResponses(t *testing.T) {
	f := newSurveyServiceFixture()
	survey := &models.Survey{ID: 1, Title: "Survey", Status: models.StatusClosed, CreatorID: "creator-1"}

	f.repo.survey.On("GetByID", mock.Anything, uint(1)).Return(survey, nil)
	f.repo.survey.On("HasResponses", mock.Anything, uint(1)).Return(true, nil)

	err := f.service.Delete(context.Background(), 1, "creator-1")
	assert.ErrorIs(t, err, ErrSurveyNotDeletable)
	f.repo.survey.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestSurveyService_Delete(t *testing.T) {
	f := newSurveyServiceFixture()
	survey := &models.Survey{ID: 1, Title: "Survey", Status: models.StatusDraft, CreatorID: "creator-1"}

	f.repo.survey.On("GetByID", mock.Anything, uint(1)).Return(survey, nil)
	f.repo.survey.On("HasResponses", mock.Anything, uint(1)).Return(false, nil)
	f.repo.survey.On("Delete", mock.Anything, uint(1)).Return(nil)

	require.NoError(t, f.service.Delete(context.Background(), 1, "creator-1"))
	f.repo.survey.AssertExpectations(t)
}

func TestSurveyService_Update_QuestionsFrozenAfterPublish(t *testing.T) {
	f := newSurveyServiceFixture()
	published := &models.Survey{ID: 1, Title: "Survey", Status: models.StatusPublished, CreatorID: "creator-1"}
	f.repo.survey.On("GetByID", mock.Anything, uint(1)).Return(published, nil)

	_, err := f.service.Update(context.Background(), 1, &UpdateSurveyRequest{
		Questions: []QuestionInput{{Text: "New question", Type: models.QuestionText}},
	}, "creator-1")
	assert.ErrorIs(t, err, ErrSurveyNotEditable)
}

func TestSurveyService_Update_ReplacesQuestions(t *testing.T) {
	f := newSurveyServiceFixture()
	draft := &models.Survey{ID: 1, Title: "Survey", Status: models.StatusDraft, CreatorID: "creator-1"}

	f.repo.survey.On("GetByID", mock.Anything, uint(1)).Return(draft, nil)
	f.repo.survey.On("Update", mock.Anything, mock.AnythingOfType("*models.Survey")).Return(nil)
	f.repo.survey.On("ReplaceQuestions", mock.Anything, uint(1), mock.AnythingOfType("[]models.Question")).Return(nil)
	f.repo.survey.On("GetByIDWithQuestions", mock.Anything, uint(1)).Return(draft, nil)

	newTitle := "Renamed"
	_, err := f.service.Update(context.Background(), 1, &UpdateSurveyRequest{
		Title: &newTitle,
		Questions: []QuestionInput{
			{Text: "Only question", Type: models.QuestionText},
		},
	}, "creator-1")
	require.NoError(t, err)
	f.repo.survey.AssertExpectations(t)
}

func TestSurveyService_GetByID_NotFound(t *testing.T) {
	f := newSurveyServiceFixture()
	f.repo.survey.On("GetByIDWithQuestions", mock.Anything, uint(9)).Return(nil, gorm.ErrRecordNotFound)

	_, err := f.service.GetByID(context.Background(), 9, "anyone")
	assert.ErrorIs(t, err, ErrSurveyNotFound)
}

func TestSurveyService_GetByID_DraftHiddenFromOthers(t *testing.T) {
	f := newSurveyServiceFixture()
	draft := &models.Survey{ID: 1, Title: "Survey", Status: models.StatusDraft, IsPublic: true, CreatorID: "creator-1"}
	f.repo.survey.On("GetByIDWithQuestions", mock.Anything, uint(1)).Return(draft, nil)

	_, err := f.service.GetByID(context.Background(), 1, "someone-else")
	assert.True(t, IsUnauthorized(err))

	survey, err := f.service.GetByID(context.Background(), 1, "creator-1")
	require.NoError(t, err)
	assert.Equal(t, uint(1), survey.ID)
}
