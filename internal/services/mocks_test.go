package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/surveyhub/survey-service/internal/models"
	"github.com/surveyhub/survey-service/internal/repositories"
)

// MockSurveyRepository is a mock implementation of repositories.SurveyRepository
type MockSurveyRepository struct {
	mock.Mock
}

func (m *MockSurveyRepository) Create(ctx context.Context, survey *models.Survey) error {
	args := m.Called(ctx, survey)
	return args.Error(0)
}

func (m *MockSurveyRepository) GetByID(ctx context.Context, id uint) (*models.Survey, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Survey), args.Error(1)
}

func (m *MockSurveyRepository) GetByIDWithQuestions(ctx context.Context, id uint) (*models.Survey, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Survey), args.Error(1)
}

func (m *MockSurveyRepository) Update(ctx context.Context, survey *models.Survey) error {
	args := m.Called(ctx, survey)
	return args.Error(0)
}

func (m *MockSurveyRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSurveyRepository) GetForTraversal(ctx context.Context, id uint) (*models.Survey, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Survey), args.Error(1)
}

func (m *MockSurveyRepository) List(ctx context.Context, filters repositories.SurveyFilters) ([]*models.Survey, int64, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*models.Survey), args.Get(1).(int64), args.Error(2)
}

func (m *MockSurveyRepository) ListPublished(ctx context.Context) ([]*models.Survey, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Survey), args.Error(1)
}

func (m *MockSurveyRepository) ListByCreator(ctx context.Context, creatorID string, filters repositories.SurveyFilters) ([]*models.Survey, int64, error) {
	args := m.Called(ctx, creatorID, filters)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*models.Survey), args.Get(1).(int64), args.Error(2)
}

func (m *MockSurveyRepository) ReplaceQuestions(ctx context.Context, surveyID uint, questions []models.Question) error {
	args := m.Called(ctx, surveyID, questions)
	return args.Error(0)
}

func (m *MockSurveyRepository) UpdateStatus(ctx context.Context, id uint, status models.SurveyStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockSurveyRepository) HasResponses(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockSurveyRepository) CountQuestions(ctx context.Context, id uint) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

// MockResponseRepository is a mock implementation of repositories.ResponseRepository
type MockResponseRepository struct {
	mock.Mock
}

func (m *MockResponseRepository) CreateWithAnswers(ctx context.Context, response *models.UserResponse) error {
	args := m.Called(ctx, response)
	return args.Error(0)
}

func (m *MockResponseRepository) GetByID(ctx context.Context, id uint) (*models.UserResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserResponse), args.Error(1)
}

func (m *MockResponseRepository) GetBySurvey(ctx context.Context, surveyID uint, filters repositories.ResponseFilters) ([]*models.UserResponse, int64, error) {
	args := m.Called(ctx, surveyID, filters)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*models.UserResponse), args.Get(1).(int64), args.Error(2)
}

func (m *MockResponseRepository) CountBySurvey(ctx context.Context, surveyID uint) (int64, error) {
	args := m.Called(ctx, surveyID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockResponseRepository) GetAnswersBySurvey(ctx context.Context, surveyID uint) ([]*models.Answer, error) {
	args := m.Called(ctx, surveyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Answer), args.Error(1)
}

// mockRepository bundles the repository mocks behind repositories.Repository.
type mockRepository struct {
	survey   *MockSurveyRepository
	response *MockResponseRepository
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		survey:   new(MockSurveyRepository),
		response: new(MockResponseRepository),
	}
}

func (r *mockRepository) Survey() repositories.SurveyRepository {
	return r.survey
}

func (r *mockRepository) Response() repositories.ResponseRepository {
	return r.response
}
