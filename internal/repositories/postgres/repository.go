package postgres

import (
	"github.com/surveyhub/survey-service/internal/repositories"
	"gorm.io/gorm"
)

type repository struct {
	survey   repositories.SurveyRepository
	response repositories.ResponseRepository
}

// NewRepository bundles the PostgreSQL implementations behind the
// repositories.Repository interface.
func NewRepository(db *gorm.DB) repositories.Repository {
	return &repository{
		survey:   NewSurveyPostgreSQL(db),
		response: NewResponsePostgreSQL(db),
	}
}

func (r *repository) Survey() repositories.SurveyRepository {
	return r.survey
}

func (r *repository) Response() repositories.ResponseRepository {
	return r.response
}
