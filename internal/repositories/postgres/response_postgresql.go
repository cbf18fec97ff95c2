package postgres

import (
	"context"

	"github.com/surveyhub/survey-service/internal/models"
	"github.com/surveyhub/survey-service/internal/repositories"
	"gorm.io/gorm"
)

type ResponsePostgreSQL struct {
	db *gorm.DB
}

func NewResponsePostgreSQL(db *gorm.DB) repositories.ResponseRepository {
	return &ResponsePostgreSQL{db: db}
}

// CreateWithAnswers writes the response row, every answer row and the
// selected-option join rows inside one transaction. A failure at any point
// rolls the whole response back, so readers never observe a response with a
// partial set of answers.
func (r ResponsePostgreSQL) CreateWithAnswers(ctx context.Context, response *models.UserResponse) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		answers := response.Answers
		response.Answers = nil
		if err := tx.Create(response).Error; err != nil {
			return err
		}

		for i := range answers {
			answers[i].ID = 0
			answers[i].UserResponseID = response.ID
			chosen := answers[i].ChosenOptions
			answers[i].ChosenOptions = nil
			if err := tx.Create(&answers[i]).Error; err != nil {
				return err
			}
			if len(chosen) > 0 {
				for j := range chosen {
					chosen[j].AnswerID = answers[i].ID
				}
				if err := tx.Create(&chosen).Error; err != nil {
					return err
				}
				answers[i].ChosenOptions = chosen
			}
		}

		response.Answers = answers
		return nil
	})
}

func (r ResponsePostgreSQL) GetByID(ctx context.Context, id uint) (*models.UserResponse, error) {
	var response models.UserResponse
	if err := r.db.WithContext(ctx).
		Preload("Answers").
		Preload("Answers.ChosenOptions").
		First(&response, id).Error; err != nil {
		return nil, err
	}
	return &response, nil
}

func (r ResponsePostgreSQL) GetBySurvey(ctx context.Context, surveyID uint, filters repositories.ResponseFilters) ([]*models.UserResponse, int64, error) {
	var responses []*models.UserResponse
	var total int64

	query := r.db.WithContext(ctx).Model(&models.UserResponse{}).Where("survey_id = ?", surveyID)
	query = r.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("submitted_at DESC")
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	if err := query.
		Preload("Answers").
		Preload("Answers.ChosenOptions").
		Find(&responses).Error; err != nil {
		return nil, 0, err
	}

	return responses, total, nil
}

func (r ResponsePostgreSQL) CountBySurvey(ctx context.Context, surveyID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.UserResponse{}).
		Where("survey_id = ?", surveyID).
		Count(&count).Error
	return count, err
}

func (r ResponsePostgreSQL) GetAnswersBySurvey(ctx context.Context, surveyID uint) ([]*models.Answer, error) {
	var answers []*models.Answer
	if err := r.db.WithContext(ctx).
		Joins("JOIN user_responses ON user_responses.id = answers.user_response_id").
		Where("user_responses.survey_id = ?", surveyID).
		Preload("ChosenOptions").
		Find(&answers).Error; err != nil {
		return nil, err
	}
	return answers, nil
}

func (r ResponsePostgreSQL) applyFilters(query *gorm.DB, filters repositories.ResponseFilters) *gorm.DB {
	if filters.RespondentID != nil {
		query = query.Where("respondent_id = ?", *filters.RespondentID)
	}
	if filters.DateFrom != nil {
		query = query.Where("submitted_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("submitted_at <= ?", *filters.DateTo)
	}
	return query
}
