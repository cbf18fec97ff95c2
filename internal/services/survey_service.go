package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/surveyhub/survey-service/internal/events"
	"github.com/surveyhub/survey-service/internal/models"
	"github.com/surveyhub/survey-service/internal/repositories"
	"github.com/surveyhub/survey-service/internal/validator"
)

// SurveyService covers the creator-facing lifecycle: drafting, editing,
// publishing and closing surveys. Respondent traversal lives in
// ResponseService.
type SurveyService interface {
	Create(ctx context.Context, req *CreateSurveyRequest, creatorID string) (*models.Survey, error)
	GetByID(ctx context.Context, id uint, userID string) (*models.Survey, error)
	Update(ctx context.Context, id uint, req *UpdateSurveyRequest, userID string) (*models.Survey, error)
	Delete(ctx context.Context, id uint, userID string) error

	Publish(ctx context.Context, id uint, userID string) (*models.Survey, error)
	Close(ctx context.Context, id uint, userID string) (*models.Survey, error)

	ListPublished(ctx context.Context) ([]*models.Survey, error)
	ListByCreator(ctx context.Context, creatorID string, filters repositories.SurveyFilters) ([]*models.Survey, int64, error)
}

// ===== REQUEST TYPES =====

type CreateSurveyRequest struct {
	Title       string          `json:"title" validate:"required,min=3,max=200"`
	Description *string         `json:"description" validate:"omitempty,max=1000"`
	IsPublic    *bool           `json:"is_public"`
	Questions   []QuestionInput `json:"questions" validate:"dive"`
}

type UpdateSurveyRequest struct {
	Title       *string         `json:"title" validate:"omitempty,min=3,max=200"`
	Description *string         `json:"description" validate:"omitempty,max=1000"`
	IsPublic    *bool           `json:"is_public"`
	Questions   []QuestionInput `json:"questions" validate:"omitempty,dive"`
}

// QuestionInput is one question in the editor payload. Traversal order is
// the slice order; the service assigns dense Order values from it.
type QuestionInput struct {
	Text       string              `json:"text" validate:"required,min=1"`
	Type       models.QuestionType `json:"type" validate:"required,question_type"`
	IsRequired bool                `json:"is_required"`
	Options    []OptionInput       `json:"options" validate:"dive"`
}

type OptionInput struct {
	Text string `json:"text" validate:"required,min=1"`
}

type surveyService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
}

func NewSurveyService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher) SurveyService {
	return &surveyService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		publisher: publisher,
	}
}

// ===== LIFECYCLE OPERATIONS =====

func (s *surveyService) Create(ctx context.Context, req *CreateSurveyRequest, creatorID string) (*models.Survey, error) {
	s.logger.Info("Creating survey", "title", req.Title, "creator_id", creatorID)

	if err := s.validator.Validate(req); err != nil {
		return nil, toValidationError(err)
	}
	if err := validateQuestionInputs(req.Questions); err != nil {
		return nil, err
	}

	survey := &models.Survey{
		Title:       req.Title,
		Description: req.Description,
		IsPublic:    true,
		Status:      models.StatusDraft,
		CreatorID:   creatorID,
		Questions:   buildQuestions(req.Questions),
	}
	if req.IsPublic != nil {
		survey.IsPublic = *req.IsPublic
	}

	if err := s.repo.Survey().Create(ctx, survey); err != nil {
		return nil, fmt.Errorf("failed to create survey: %w", err)
	}

	s.logger.Info("Survey created", "survey_id", survey.ID, "questions", len(survey.Questions))
	return survey, nil
}

func (s *surveyService) GetByID(ctx context.Context, id uint, userID string) (*models.Survey, error) {
	survey, err := s.repo.Survey().GetByIDWithQuestions(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSurveyNotFound
		}
		return nil, fmt.Errorf("failed to get survey: %w", err)
	}

	// Drafts and private surveys are visible to their creator only.
	if survey.CreatorID != userID && !(survey.IsPublic && survey.Status != models.StatusDraft) {
		return nil, NewPermissionError(userID, id, "survey", "read", "not owner of unpublished survey")
	}

	return survey, nil
}

func (s *surveyService) Update(ctx context.Context, id uint, req *UpdateSurveyRequest, userID string) (*models.Survey, error) {
	s.logger.Info("Updating survey", "survey_id", id, "user_id", userID)

	if err := s.validator.Validate(req); err != nil {
		return nil, toValidationError(err)
	}

	survey, err := s.getOwnedSurvey(ctx, id, userID, "update")
	if err != nil {
		return nil, err
	}

	// Question sets are frozen once respondents can see the survey;
	// metadata edits stay allowed.
	if req.Questions != nil && survey.Status != models.StatusDraft {
		return nil, ErrSurveyNotEditable
	}

	if req.Title != nil {
		survey.Title = *req.Title
	}
	if req.Description != nil {
		survey.Description = req.Description
	}
	if req.IsPublic != nil {
		survey.IsPublic = *req.IsPublic
	}

	if err := s.repo.Survey().Update(ctx, survey); err != nil {
		return nil, fmt.Errorf("failed to update survey: %w", err)
	}

	if req.Questions != nil {
		if err := validateQuestionInputs(req.Questions); err != nil {
			return nil, err
		}
		if err := s.repo.Survey().ReplaceQuestions(ctx, id, buildQuestions(req.Questions)); err != nil {
			return nil, fmt.Errorf("failed to replace questions: %w", err)
		}
	}

	return s.repo.Survey().GetByIDWithQuestions(ctx, id)
}

func (s *surveyService) Delete(ctx context.Context, id uint, userID string) error {
	s.logger.Info("Deleting survey", "survey_id", id, "user_id", userID)

	if _, err := s.getOwnedSurvey(ctx, id, userID, "delete"); err != nil {
		return err
	}

	hasResponses, err := s.repo.Survey().HasResponses(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check responses: %w", err)
	}
	if hasResponses {
		return ErrSurveyNotDeletable
	}

	if err := s.repo.Survey().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete survey: %w", err)
	}

	s.logger.Info("Survey deleted", "survey_id", id)
	return nil
}

// ===== STATUS TRANSITIONS =====

func (s *surveyService) Publish(ctx context.Context, id uint, userID string) (*models.Survey, error) {
	s.logger.Info("Publishing survey", "survey_id", id, "user_id", userID)

	survey, err := s.getOwnedSurvey(ctx, id, userID, "publish")
	if err != nil {
		return nil, err
	}
	if survey.Status != models.StatusDraft {
		return nil, ErrSurveyInvalidStatus
	}

	count, err := s.repo.Survey().CountQuestions(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to count questions: %w", err)
	}
	if count == 0 {
		return nil, ErrSurveyNoQuestions
	}

	if err := s.repo.Survey().UpdateStatus(ctx, id, models.StatusPublished); err != nil {
		return nil, fmt.Errorf("failed to publish survey: %w", err)
	}
	survey.Status = models.StatusPublished

	s.publishStatusEvent(ctx, events.EventSurveyPublished, survey)
	return survey, nil
}

func (s *surveyService) Close(ctx context.Context, id uint, userID string) (*models.Survey, error) {
	s.logger.Info("Closing survey", "survey_id", id, "user_id", userID)

	survey, err := s.getOwnedSurvey(ctx, id, userID, "close")
	if err != nil {
		return nil, err
	}
	if survey.Status != models.StatusPublished {
		return nil, ErrSurveyInvalidStatus
	}

	if err := s.repo.Survey().UpdateStatus(ctx, id, models.StatusClosed); err != nil {
		return nil, fmt.Errorf("failed to close survey: %w", err)
	}
	survey.Status = models.StatusClosed

	s.publishStatusEvent(ctx, events.EventSurveyClosed, survey)
	return survey, nil
}

// ===== LIST OPERATIONS =====

func (s *surveyService) ListPublished(ctx context.Context) ([]*models.Survey, error) {
	surveys, err := s.repo.Survey().ListPublished(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list published surveys: %w", err)
	}
	return surveys, nil
}

func (s *surveyService) ListByCreator(ctx context.Context, creatorID string, filters repositories.SurveyFilters) ([]*models.Survey, int64, error) {
	surveys, total, err := s.repo.Survey().ListByCreator(ctx, creatorID, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list surveys by creator: %w", err)
	}
	return surveys, total, nil
}

// ===== HELPERS =====

func (s *surveyService) getOwnedSurvey(ctx context.Context, id uint, userID, action string) (*models.Survey, error) {
	survey, err := s.repo.Survey().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSurveyNotFound
		}
		return nil, fmt.Errorf("failed to get survey: %w", err)
	}
	if survey.CreatorID != userID {
		return nil, NewPermissionError(userID, id, "survey", action, "not owned by user")
	}
	return survey, nil
}

func (s *surveyService) publishStatusEvent(ctx context.Context, eventType events.EventType, survey *models.Survey) {
	if s.publisher == nil {
		return
	}
	event := events.NewSurveyEvent(eventType, events.SurveyStatusEvent{
		SurveyID:  survey.ID,
		Title:     survey.Title,
		Status:    string(survey.Status),
		CreatorID: survey.CreatorID,
	})
	if err := s.publisher.PublishSurveyEvent(ctx, event); err != nil {
		// Event delivery is best effort; the status change already stuck.
		s.logger.Error("Failed to publish survey status event",
			"survey_id", survey.ID,
			"event_type", eventType,
			"error", err)
	}
}

// validateQuestionInputs enforces the structural rules struct tags cannot
// express: choice questions carry options, free-input questions do not.
func validateQuestionInputs(questions []QuestionInput) error {
	var errs ValidationErrors
	for i, q := range questions {
		if q.Type.HasOptions() && len(q.Options) == 0 {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("questions[%d].options", i),
				Message: "choice questions require at least one option",
			})
		}
		if !q.Type.HasOptions() && len(q.Options) > 0 {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("questions[%d].options", i),
				Message: "options are only allowed on choice questions",
			})
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// buildQuestions maps editor inputs to models, assigning dense order from
// the payload sequence.
func buildQuestions(inputs []QuestionInput) []models.Question {
	questions := make([]models.Question, len(inputs))
	for i, in := range inputs {
		q := models.Question{
			Text:       in.Text,
			Type:       in.Type,
			IsRequired: in.IsRequired,
			Order:      i,
		}
		for j, opt := range in.Options {
			q.Options = append(q.Options, models.AnswerOption{
				Text:  opt.Text,
				Order: j,
			})
		}
		questions[i] = q
	}
	return questions
}
