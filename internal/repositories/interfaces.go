package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/surveyhub/survey-service/internal/models"
	"gorm.io/gorm"
)

// SurveyRepository provides survey and question persistence, including the
// respondent-facing traversal catalog.
type SurveyRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, survey *models.Survey) error
	GetByID(ctx context.Context, id uint) (*models.Survey, error)
	GetByIDWithQuestions(ctx context.Context, id uint) (*models.Survey, error)
	Update(ctx context.Context, survey *models.Survey) error
	Delete(ctx context.Context, id uint) error

	// GetForTraversal returns a published survey with questions ordered by
	// (order, id) ascending and options ordered the same way. Surveys in any
	// other lifecycle status are reported as not found.
	GetForTraversal(ctx context.Context, id uint) (*models.Survey, error)

	// Query operations
	List(ctx context.Context, filters SurveyFilters) ([]*models.Survey, int64, error)
	ListPublished(ctx context.Context) ([]*models.Survey, error)
	ListByCreator(ctx context.Context, creatorID string, filters SurveyFilters) ([]*models.Survey, int64, error)

	// Editor operations
	ReplaceQuestions(ctx context.Context, surveyID uint, questions []models.Question) error
	UpdateStatus(ctx context.Context, id uint, status models.SurveyStatus) error

	// Checks
	HasResponses(ctx context.Context, id uint) (bool, error)
	CountQuestions(ctx context.Context, id uint) (int64, error)
}

// ResponseRepository persists completed responses. CreateWithAnswers is the
// committer's single write path: the response row, its answer rows and any
// selected-option join rows all land in one transaction or not at all.
type ResponseRepository interface {
	CreateWithAnswers(ctx context.Context, response *models.UserResponse) error

	GetByID(ctx context.Context, id uint) (*models.UserResponse, error)
	GetBySurvey(ctx context.Context, surveyID uint, filters ResponseFilters) ([]*models.UserResponse, int64, error)
	CountBySurvey(ctx context.Context, surveyID uint) (int64, error)

	// GetAnswersBySurvey returns every answer row recorded for the survey,
	// with chosen-option joins preloaded, for results aggregation.
	GetAnswersBySurvey(ctx context.Context, surveyID uint) ([]*models.Answer, error)
}

// Repository bundles all repositories behind one dependency.
type Repository interface {
	Survey() SurveyRepository
	Response() ResponseRepository
}

// ===== SHARED FILTER STRUCTS =====

type SurveyFilters struct {
	Status     *models.SurveyStatus `json:"status"`
	CreatorID  *string              `json:"creator_id"`
	PublicOnly bool                 `json:"public_only"`
	DateFrom   *time.Time           `json:"date_from"`
	DateTo     *time.Time           `json:"date_to"`
	Limit      int                  `json:"limit"`
	Offset     int                  `json:"offset"`
	SortBy     string               `json:"sort_by"`    // "created_at", "title"
	SortOrder  string               `json:"sort_order"` // "asc", "desc"
}

type ResponseFilters struct {
	RespondentID *string    `json:"respondent_id"`
	DateFrom     *time.Time `json:"date_from"`
	DateTo       *time.Time `json:"date_to"`
	Limit        int        `json:"limit"`
	Offset       int        `json:"offset"`
}

// IsNotFoundError checks whether err is the storage layer's "no rows" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
