package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/datatypes"

	"github.com/surveyhub/survey-service/internal/engine"
	"github.com/surveyhub/survey-service/internal/events"
	"github.com/surveyhub/survey-service/internal/models"
	"github.com/surveyhub/survey-service/internal/repositories"
	"github.com/surveyhub/survey-service/internal/sessionstore"
	"github.com/surveyhub/survey-service/internal/validator"
)

// ResponseService drives one respondent through a published survey: it
// starts a session, applies answer steps against the traversal engine,
// persists the session snapshot between requests, and commits the finished
// response atomically.
type ResponseService interface {
	StartSession(ctx context.Context, surveyID uint, sessionKey string) (*SessionState, error)
	GetSession(ctx context.Context, sessionKey string) (*SessionState, error)
	Step(ctx context.Context, sessionKey string, req *StepRequest) (*SessionState, error)
	Commit(ctx context.Context, sessionKey string, req *CommitRequest) (*models.UserResponse, error)
	Abandon(ctx context.Context, sessionKey string) error
}

// ===== REQUEST / RESPONSE TYPES =====

type StepOp string

const (
	OpSubmitValue      StepOp = "submit_value"
	OpSelectOption     StepOp = "select_option"
	OpToggleOption     StepOp = "toggle_option"
	OpConfirmSelection StepOp = "confirm_selection"
	OpSkip             StepOp = "skip"
	OpBack             StepOp = "back"
)

// StepRequest applies one traversal operation. QuestionID names the
// question the client believes it is answering; a mismatch with the
// session's current question means the client is acting on a stale view
// and the step is refused. Back carries no QuestionID.
type StepRequest struct {
	Op         StepOp `json:"op" validate:"required,oneof=submit_value select_option toggle_option confirm_selection skip back"`
	QuestionID uint   `json:"question_id"`
	Value      string `json:"value"`
	OptionID   uint   `json:"option_id"`
}

type CommitRequest struct {
	RespondentID *string        `json:"respondent_id"`
	Metadata     map[string]any `json:"metadata"`
}

// SessionState is the client-facing view of a session after a step: where
// the respondent is, what to present next, and what is already pending.
type SessionState struct {
	SurveyID      uint          `json:"survey_id"`
	SurveyTitle   string        `json:"survey_title"`
	Position      int           `json:"position"`
	QuestionCount int           `json:"question_count"`
	Complete      bool          `json:"complete"`
	Question      *QuestionView `json:"question,omitempty"`
	Pending       []uint        `json:"pending,omitempty"`
}

type QuestionView struct {
	ID         uint                `json:"id"`
	Text       string              `json:"text"`
	Type       models.QuestionType `json:"type"`
	IsRequired bool                `json:"is_required"`
	Options    []OptionView        `json:"options,omitempty"`
}

type OptionView struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

type responseService struct {
	repo      repositories.Repository
	store     sessionstore.Store
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
}

func NewResponseService(repo repositories.Repository, store sessionstore.Store, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher) ResponseService {
	return &responseService{
		repo:      repo,
		store:     store,
		logger:    logger,
		validator: validator,
		publisher: publisher,
	}
}

// ===== SESSION LIFECYCLE =====

func (s *responseService) StartSession(ctx context.Context, surveyID uint, sessionKey string) (*SessionState, error) {
	s.logger.Info("Starting response session", "survey_id", surveyID, "session_key", sessionKey)

	survey, err := s.getOpenSurvey(ctx, surveyID)
	if err != nil {
		return nil, err
	}

	// An interrupted session against the same survey resumes where it
	// left off; anything else starts over.
	if snap, loadErr := s.store.Load(ctx, sessionKey); loadErr == nil && snap.SurveyID == surveyID {
		if session, restoreErr := engine.Restore(survey, snap); restoreErr == nil {
			s.logger.Info("Resuming existing session",
				"survey_id", surveyID,
				"position", session.Position())
			return s.buildState(survey, session), nil
		}
		// A snapshot that no longer fits the survey is discarded.
		s.logger.Warn("Discarding stale session snapshot", "survey_id", surveyID)
	}

	session, err := engine.NewSession(survey)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	if err := s.store.Save(ctx, sessionKey, session.Snapshot()); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return s.buildState(survey, session), nil
}

func (s *responseService) GetSession(ctx context.Context, sessionKey string) (*SessionState, error) {
	survey, session, err := s.loadSession(ctx, sessionKey)
	if err != nil {
		return nil, err
	}
	return s.buildState(survey, session), nil
}

func (s *responseService) Step(ctx context.Context, sessionKey string, req *StepRequest) (*SessionState, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, toValidationError(err)
	}

	survey, session, err := s.loadSession(ctx, sessionKey)
	if err != nil {
		return nil, err
	}

	if err := s.applyStep(session, req); err != nil {
		return nil, err
	}

	if err := s.store.Save(ctx, sessionKey, session.Snapshot()); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return s.buildState(survey, session), nil
}

func (s *responseService) applyStep(session *engine.Session, req *StepRequest) error {
	if req.Op == OpBack {
		_, err := session.Back()
		return err
	}

	current, ok := session.Current()
	if !ok {
		return engine.ErrSessionComplete
	}
	if req.QuestionID != 0 && req.QuestionID != current.ID {
		return ErrStaleStep
	}

	switch req.Op {
	case OpSubmitValue:
		return session.SubmitValue(req.Value)
	case OpSelectOption:
		return session.SelectOption(req.OptionID)
	case OpToggleOption:
		_, err := session.ToggleOption(req.OptionID)
		return err
	case OpConfirmSelection:
		return session.ConfirmSelection()
	case OpSkip:
		return session.Skip()
	default:
		return fmt.Errorf("%w: unknown step op %q", ErrValidationFailed, req.Op)
	}
}

// ===== COMMIT =====

// Commit persists the finished session as a response. The response row,
// one answer row per visited question and the chosen-option joins land in
// a single transaction; on failure the session is kept so the respondent
// can retry.
func (s *responseService) Commit(ctx context.Context, sessionKey string, req *CommitRequest) (*models.UserResponse, error) {
	_, session, err := s.loadSession(ctx, sessionKey)
	if err != nil {
		return nil, err
	}
	if !session.IsComplete() {
		return nil, ErrSessionNotComplete
	}

	response := &models.UserResponse{
		SurveyID: session.SurveyID(),
		Answers:  buildAnswers(session.Answers()),
	}
	if req != nil {
		response.RespondentID = req.RespondentID
		if len(req.Metadata) > 0 {
			metadata, err := marshalMetadata(req.Metadata)
			if err != nil {
				return nil, err
			}
			response.Metadata = metadata
		}
	}

	if err := s.repo.Response().CreateWithAnswers(ctx, response); err != nil {
		s.logger.Error("Failed to commit response",
			"survey_id", session.SurveyID(),
			"session_key", sessionKey,
			"error", err)
		return nil, fmt.Errorf("failed to commit response: %w", err)
	}

	s.logger.Info("Response committed",
		"response_id", response.ID,
		"survey_id", response.SurveyID,
		"answers", len(response.Answers))

	s.publishSubmittedEvent(ctx, response)

	// The session is spent only once the response is durable.
	if err := s.store.Delete(ctx, sessionKey); err != nil {
		s.logger.Warn("Failed to delete committed session", "session_key", sessionKey, "error", err)
	}

	return response, nil
}

func (s *responseService) Abandon(ctx context.Context, sessionKey string) error {
	s.logger.Info("Abandoning response session", "session_key", sessionKey)
	return s.store.Delete(ctx, sessionKey)
}

// ===== HELPERS =====

func (s *responseService) getOpenSurvey(ctx context.Context, surveyID uint) (*models.Survey, error) {
	survey, err := s.repo.Survey().GetForTraversal(ctx, surveyID)
	if err == nil {
		if !survey.IsOpenForResponses() {
			return nil, ErrSurveyNotPublished
		}
		return survey, nil
	}
	if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to get survey: %w", err)
	}

	// Distinguish a missing survey from one that merely is not open.
	if _, lookupErr := s.repo.Survey().GetByID(ctx, surveyID); lookupErr != nil {
		if repositories.IsNotFoundError(lookupErr) {
			return nil, ErrSurveyNotFound
		}
		return nil, fmt.Errorf("failed to get survey: %w", lookupErr)
	}
	return nil, ErrSurveyNotPublished
}

// loadSession rehydrates the session from its stored snapshot against a
// freshly loaded survey catalog.
func (s *responseService) loadSession(ctx context.Context, sessionKey string) (*models.Survey, *engine.Session, error) {
	snap, err := s.store.Load(ctx, sessionKey)
	if err != nil {
		if errors.Is(err, sessionstore.ErrNotFound) {
			return nil, nil, ErrSessionNotFound
		}
		return nil, nil, fmt.Errorf("failed to load session: %w", err)
	}

	survey, err := s.getOpenSurvey(ctx, snap.SurveyID)
	if err != nil {
		return nil, nil, err
	}

	session, err := engine.Restore(survey, snap)
	if err != nil {
		// The survey changed underneath the snapshot; the session cannot
		// continue safely.
		s.logger.Warn("Dropping unrestorable session",
			"survey_id", snap.SurveyID,
			"session_key", sessionKey,
			"error", err)
		if delErr := s.store.Delete(ctx, sessionKey); delErr != nil {
			s.logger.Warn("Failed to delete unrestorable session", "session_key", sessionKey, "error", delErr)
		}
		return nil, nil, ErrSessionNotFound
	}

	return survey, session, nil
}

func (s *responseService) buildState(survey *models.Survey, session *engine.Session) *SessionState {
	state := &SessionState{
		SurveyID:      survey.ID,
		SurveyTitle:   survey.Title,
		Position:      session.Position(),
		QuestionCount: session.QuestionCount(),
		Complete:      session.IsComplete(),
		Pending:       session.PendingSelection(),
	}
	if q, ok := session.Current(); ok {
		view := &QuestionView{
			ID:         q.ID,
			Text:       q.Text,
			Type:       q.Type,
			IsRequired: q.IsRequired,
		}
		for _, opt := range q.Options {
			view.Options = append(view.Options, OptionView{ID: opt.ID, Text: opt.Text})
		}
		state.Question = view
	}
	return state
}

func (s *responseService) publishSubmittedEvent(ctx context.Context, response *models.UserResponse) {
	if s.publisher == nil {
		return
	}
	event := events.NewSurveyEvent(events.EventResponseSubmitted, events.ResponseSubmittedEvent{
		ResponseID:   response.ID,
		SurveyID:     response.SurveyID,
		RespondentID: response.RespondentID,
		AnswerCount:  len(response.Answers),
		SubmittedAt:  response.SubmittedAt,
	})
	if err := s.publisher.PublishSurveyEvent(ctx, event); err != nil {
		// Commit already succeeded; event delivery is best effort.
		s.logger.Error("Failed to publish response event",
			"response_id", response.ID,
			"error", err)
	}
}

func marshalMetadata(metadata map[string]any) (datatypes.JSON, error) {
	data, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response metadata: %w", err)
	}
	return datatypes.JSON(data), nil
}

// buildAnswers maps finalized answers to rows, one per visited question.
// A skipped question still yields a row with no value columns set.
func buildAnswers(finalized []engine.FinalizedAnswer) []models.Answer {
	answers := make([]models.Answer, len(finalized))
	for i, fa := range finalized {
		answer := models.Answer{QuestionID: fa.QuestionID}
		if !fa.IsSkip() {
			answer.TextValue = fa.TextValue
			answer.NumberValue = fa.NumberValue
			answer.SelectedOptionID = fa.SelectedOptionID
			for _, optionID := range fa.ChosenOptionIDs {
				answer.ChosenOptions = append(answer.ChosenOptions, models.AnswerSelectedOption{
					OptionID: optionID,
				})
			}
		}
		answers[i] = answer
	}
	return answers
}
