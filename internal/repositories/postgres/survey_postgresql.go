package postgres

import (
	"context"

	"github.com/surveyhub/survey-service/internal/models"
	"github.com/surveyhub/survey-service/internal/repositories"
	"gorm.io/gorm"
)

type SurveyPostgreSQL struct {
	db *gorm.DB
}

func NewSurveyPostgreSQL(db *gorm.DB) repositories.SurveyRepository {
	return &SurveyPostgreSQL{db: db}
}

func (s SurveyPostgreSQL) Create(ctx context.Context, survey *models.Survey) error {
	return s.db.WithContext(ctx).Create(survey).Error
}

func (s SurveyPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Survey, error) {
	var survey models.Survey
	if err := s.db.WithContext(ctx).First(&survey, id).Error; err != nil {
		return nil, err
	}
	return &survey, nil
}

func (s SurveyPostgreSQL) GetByIDWithQuestions(ctx context.Context, id uint) (*models.Survey, error) {
	var survey models.Survey
	if err := s.db.WithContext(ctx).
		Preload("Questions", orderedQuestions).
		Preload("Questions.Options", orderedOptions).
		First(&survey, id).Error; err != nil {
		return nil, err
	}
	return &survey, nil
}

func (s SurveyPostgreSQL) GetForTraversal(ctx context.Context, id uint) (*models.Survey, error) {
	var survey models.Survey
	if err := s.db.WithContext(ctx).
		Where("status = ?", models.StatusPublished).
		Preload("Questions", orderedQuestions).
		Preload("Questions.Options", orderedOptions).
		First(&survey, id).Error; err != nil {
		return nil, err
	}
	return &survey, nil
}

func (s SurveyPostgreSQL) Update(ctx context.Context, survey *models.Survey) error {
	return s.db.WithContext(ctx).Save(survey).Error
}

func (s SurveyPostgreSQL) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Delete(&models.Survey{}, id).Error
}

func (s SurveyPostgreSQL) List(ctx context.Context, filters repositories.SurveyFilters) ([]*models.Survey, int64, error) {
	var surveys []*models.Survey
	var total int64

	// apply filter first
	query := s.db.WithContext(ctx).Model(&models.Survey{})
	query = s.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// then apply pagination and sorting
	query = s.applyPaginationAndSort(query, filters)

	if err := query.Find(&surveys).Error; err != nil {
		return nil, 0, err
	}

	return surveys, total, nil
}

func (s SurveyPostgreSQL) ListPublished(ctx context.Context) ([]*models.Survey, error) {
	var surveys []*models.Survey
	if err := s.db.WithContext(ctx).
		Where("status = ? AND is_public = true", models.StatusPublished).
		Order("created_at DESC").
		Find(&surveys).Error; err != nil {
		return nil, err
	}
	return surveys, nil
}

func (s SurveyPostgreSQL) ListByCreator(ctx context.Context, creatorID string, filters repositories.SurveyFilters) ([]*models.Survey, int64, error) {
	filters.CreatorID = &creatorID
	return s.List(ctx, filters)
}

// ReplaceQuestions swaps the survey's full question set in one transaction,
// the way the editor saves: delete everything, recreate from the submitted
// set. Options ride along on the question rows.
func (s SurveyPostgreSQL) ReplaceQuestions(ctx context.Context, surveyID uint, questions []models.Question) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var questionIDs []uint
		if err := tx.Model(&models.Question{}).
			Where("survey_id = ?", surveyID).
			Pluck("id", &questionIDs).Error; err != nil {
			return err
		}
		if len(questionIDs) > 0 {
			if err := tx.Where("question_id IN ?", questionIDs).
				Delete(&models.AnswerOption{}).Error; err != nil {
				return err
			}
			if err := tx.Where("survey_id = ?", surveyID).
				Delete(&models.Question{}).Error; err != nil {
				return err
			}
		}

		for i := range questions {
			questions[i].ID = 0
			questions[i].SurveyID = surveyID
			for j := range questions[i].Options {
				questions[i].Options[j].ID = 0
				questions[i].Options[j].QuestionID = 0
			}
			if err := tx.Create(&questions[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s SurveyPostgreSQL) UpdateStatus(ctx context.Context, id uint, status models.SurveyStatus) error {
	return s.db.WithContext(ctx).Model(&models.Survey{}).Where("id = ?", id).Update("status", status).Error
}

func (s SurveyPostgreSQL) HasResponses(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.UserResponse{}).
		Where("survey_id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s SurveyPostgreSQL) CountQuestions(ctx context.Context, id uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Question{}).
		Where("survey_id = ?", id).
		Count(&count).Error
	return count, err
}

func orderedQuestions(db *gorm.DB) *gorm.DB {
	return db.Order("questions.\"order\" ASC, questions.id ASC")
}

func orderedOptions(db *gorm.DB) *gorm.DB {
	return db.Order("answer_options.\"order\" ASC, answer_options.id ASC")
}

func (s SurveyPostgreSQL) applyFilters(query *gorm.DB, filters repositories.SurveyFilters) *gorm.DB {
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.CreatorID != nil {
		query = query.Where("creator_id = ?", *filters.CreatorID)
	}
	if filters.PublicOnly {
		query = query.Where("is_public = true")
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}
	return query
}

func (s SurveyPostgreSQL) applyPaginationAndSort(query *gorm.DB, filters repositories.SurveyFilters) *gorm.DB {
	sortBy := filters.SortBy
	switch sortBy {
	case "title", "created_at":
	default:
		sortBy = "created_at"
	}
	order := "DESC"
	if filters.SortOrder == "asc" {
		order = "ASC"
	}
	query = query.Order(sortBy + " " + order)

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}
	return query
}
