package main

import (
	"os"

	"github.com/surveyhub/survey-service/internal/config"
	"github.com/surveyhub/survey-service/internal/models"
	"github.com/surveyhub/survey-service/internal/utils"
	"github.com/surveyhub/survey-service/pkg"
)

// Seeds a demo survey so the respondent flow can be exercised right after
// a fresh deployment. Running it twice is a no-op.
func main() {
	logger := utils.NewDevelopmentLogger()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := pkg.Migrate(db); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	var existing int64
	if err := db.Model(&models.Survey{}).Where("title = ?", demoTitle).Count(&existing).Error; err != nil {
		logger.Error("Failed to check existing surveys", "error", err)
		os.Exit(1)
	}
	if existing > 0 {
		logger.Info("Demo survey already present, nothing to do")
		return
	}

	survey := demoSurvey()
	if err := db.Create(survey).Error; err != nil {
		logger.Error("Failed to seed demo survey", "error", err)
		os.Exit(1)
	}

	logger.Info("Seeded demo survey", "survey_id", survey.ID, "questions", len(survey.Questions))
}

const demoTitle = "Technology Survey"

func demoSurvey() *models.Survey {
	description := "Help us understand how developers work."
	return &models.Survey{
		Title:       demoTitle,
		Description: &description,
		IsPublic:    true,
		Status:      models.StatusPublished,
		CreatorID:   "seed",
		Questions: []models.Question{
			{
				Text: "Which programming language do you use most?", Type: models.QuestionSingleChoice,
				IsRequired: true, Order: 0,
				Options: []models.AnswerOption{
					{Text: "Go", Order: 0},
					{Text: "TypeScript", Order: 1},
					{Text: "Python", Order: 2},
					{Text: "Java", Order: 3},
				},
			},
			{
				Text: "Which databases have you worked with?", Type: models.QuestionMultipleChoice,
				Order: 1,
				Options: []models.AnswerOption{
					{Text: "PostgreSQL", Order: 0},
					{Text: "MySQL", Order: 1},
					{Text: "MongoDB", Order: 2},
					{Text: "Redis", Order: 3},
				},
			},
			{
				Text: "How many years of professional experience do you have?",
				Type: models.QuestionNumber, IsRequired: true, Order: 2,
			},
			{
				Text:  "What would you improve about your current stack?",
				Type:  models.QuestionText,
				Order: 3,
			},
		},
	}
}
