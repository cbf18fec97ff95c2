package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/surveyhub/survey-service/internal/models"
	"github.com/surveyhub/survey-service/internal/repositories"
)

// ResultsService aggregates committed responses for the survey's creator:
// per-question summaries, the raw response list and a spreadsheet export.
type ResultsService interface {
	GetSummary(ctx context.Context, surveyID uint, userID string) (*SurveyResults, error)
	ListResponses(ctx context.Context, surveyID uint, filters repositories.ResponseFilters, userID string) ([]*models.UserResponse, int64, error)
	ExportResponses(ctx context.Context, surveyID uint, userID string) ([]byte, error)
}

// ===== RESULT TYPES =====

type SurveyResults struct {
	SurveyID      uint              `json:"survey_id"`
	Title         string            `json:"title"`
	ResponseCount int64             `json:"response_count"`
	Questions     []QuestionResults `json:"questions"`
}

// QuestionResults is the aggregate over every answer a question received.
// AnswerCount excludes skips; the value breakdown depends on the type.
type QuestionResults struct {
	QuestionID  uint                `json:"question_id"`
	Text        string              `json:"text"`
	Type        models.QuestionType `json:"type"`
	AnswerCount int                 `json:"answer_count"`
	SkipCount   int                 `json:"skip_count"`

	OptionCounts []OptionCount `json:"option_counts,omitempty"`
	NumberStats  *NumberStats  `json:"number_stats,omitempty"`
	TextAnswers  []string      `json:"text_answers,omitempty"`
}

type OptionCount struct {
	OptionID uint   `json:"option_id"`
	Text     string `json:"text"`
	Count    int    `json:"count"`
}

type NumberStats struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Average float64 `json:"average"`
}

type resultsService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewResultsService(repo repositories.Repository, logger *slog.Logger) ResultsService {
	return &resultsService{repo: repo, logger: logger}
}

func (s *resultsService) GetSummary(ctx context.Context, surveyID uint, userID string) (*SurveyResults, error) {
	survey, err := s.getOwnedSurvey(ctx, surveyID, userID, "view_results")
	if err != nil {
		return nil, err
	}

	responseCount, err := s.repo.Response().CountBySurvey(ctx, surveyID)
	if err != nil {
		return nil, fmt.Errorf("failed to count responses: %w", err)
	}

	answers, err := s.repo.Response().GetAnswersBySurvey(ctx, surveyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get answers: %w", err)
	}

	byQuestion := make(map[uint][]*models.Answer, len(survey.Questions))
	for _, answer := range answers {
		byQuestion[answer.QuestionID] = append(byQuestion[answer.QuestionID], answer)
	}

	results := &SurveyResults{
		SurveyID:      survey.ID,
		Title:         survey.Title,
		ResponseCount: responseCount,
		Questions:     make([]QuestionResults, 0, len(survey.Questions)),
	}
	for i := range survey.Questions {
		question := &survey.Questions[i]
		results.Questions = append(results.Questions, aggregateQuestion(question, byQuestion[question.ID]))
	}

	return results, nil
}

func (s *resultsService) ListResponses(ctx context.Context, surveyID uint, filters repositories.ResponseFilters, userID string) ([]*models.UserResponse, int64, error) {
	if _, err := s.getOwnedSurvey(ctx, surveyID, userID, "view_responses"); err != nil {
		return nil, 0, err
	}

	responses, total, err := s.repo.Response().GetBySurvey(ctx, surveyID, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list responses: %w", err)
	}
	return responses, total, nil
}

func (s *resultsService) ExportResponses(ctx context.Context, surveyID uint, userID string) ([]byte, error) {
	survey, err := s.getOwnedSurvey(ctx, surveyID, userID, "export_responses")
	if err != nil {
		return nil, err
	}

	responses, _, err := s.repo.Response().GetBySurvey(ctx, surveyID, repositories.ResponseFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to get responses: %w", err)
	}

	f := excelize.NewFile()
	sheetName := "Responses"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	// One column per question, in traversal order.
	headers := []string{"Response ID", "Submitted At", "Respondent"}
	for i := range survey.Questions {
		headers = append(headers, survey.Questions[i].Text)
	}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to build cell name: %w", err)
		}
		f.SetCellValue(sheetName, cell, header)
	}

	optionTexts := optionTextIndex(survey)

	for rowIndex, response := range responses {
		row := []interface{}{
			response.ID,
			response.SubmittedAt.Format("2006-01-02 15:04:05"),
		}
		if response.RespondentID != nil {
			row = append(row, *response.RespondentID)
		} else {
			row = append(row, "anonymous")
		}

		byQuestion := make(map[uint]*models.Answer, len(response.Answers))
		for i := range response.Answers {
			byQuestion[response.Answers[i].QuestionID] = &response.Answers[i]
		}
		for i := range survey.Questions {
			row = append(row, formatAnswerCell(byQuestion[survey.Questions[i].ID], optionTexts))
		}

		for colIndex, value := range row {
			cell, err := excelize.CoordinatesToCellName(colIndex+1, rowIndex+2)
			if err != nil {
				return nil, fmt.Errorf("failed to build cell name: %w", err)
			}
			f.SetCellValue(sheetName, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	s.logger.Info("Exported survey responses",
		"survey_id", surveyID,
		"responses", len(responses))

	return buf.Bytes(), nil
}

// ===== HELPERS =====

func (s *resultsService) getOwnedSurvey(ctx context.Context, surveyID uint, userID, action string) (*models.Survey, error) {
	survey, err := s.repo.Survey().GetByIDWithQuestions(ctx, surveyID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSurveyNotFound
		}
		return nil, fmt.Errorf("failed to get survey: %w", err)
	}
	if survey.CreatorID != userID {
		return nil, NewPermissionError(userID, surveyID, "survey", action, "not owned by user")
	}
	return survey, nil
}

func aggregateQuestion(question *models.Question, answers []*models.Answer) QuestionResults {
	result := QuestionResults{
		QuestionID: question.ID,
		Text:       question.Text,
		Type:       question.Type,
	}

	var numbers []float64
	optionCounts := make(map[uint]int)

	for _, answer := range answers {
		if answer.IsEmpty() {
			result.SkipCount++
			continue
		}
		result.AnswerCount++

		switch question.Type {
		case models.QuestionText:
			if answer.TextValue != nil {
				result.TextAnswers = append(result.TextAnswers, *answer.TextValue)
			}
		case models.QuestionNumber:
			if answer.NumberValue != nil {
				numbers = append(numbers, *answer.NumberValue)
			}
		case models.QuestionSingleChoice:
			if answer.SelectedOptionID != nil {
				optionCounts[*answer.SelectedOptionID]++
			}
		case models.QuestionMultipleChoice:
			for _, chosen := range answer.ChosenOptions {
				optionCounts[chosen.OptionID]++
			}
		}
	}

	if question.Type.HasOptions() {
		// Every option appears, zero counts included, in option order.
		for _, option := range question.Options {
			result.OptionCounts = append(result.OptionCounts, OptionCount{
				OptionID: option.ID,
				Text:     option.Text,
				Count:    optionCounts[option.ID],
			})
		}
	}

	if len(numbers) > 0 {
		stats := &NumberStats{Min: numbers[0], Max: numbers[0]}
		var sum float64
		for _, n := range numbers {
			if n < stats.Min {
				stats.Min = n
			}
			if n > stats.Max {
				stats.Max = n
			}
			sum += n
		}
		stats.Average = sum / float64(len(numbers))
		result.NumberStats = stats
	}

	return result
}

func optionTextIndex(survey *models.Survey) map[uint]string {
	texts := make(map[uint]string)
	for i := range survey.Questions {
		for _, option := range survey.Questions[i].Options {
			texts[option.ID] = option.Text
		}
	}
	return texts
}

func formatAnswerCell(answer *models.Answer, optionTexts map[uint]string) string {
	if answer == nil || answer.IsEmpty() {
		return ""
	}
	switch {
	case answer.TextValue != nil:
		return *answer.TextValue
	case answer.NumberValue != nil:
		return strconv.FormatFloat(*answer.NumberValue, 'f', -1, 64)
	case answer.SelectedOptionID != nil:
		return optionTexts[*answer.SelectedOptionID]
	default:
		texts := make([]string, 0, len(answer.ChosenOptions))
		for _, chosen := range answer.ChosenOptions {
			texts = append(texts, optionTexts[chosen.OptionID])
		}
		return strings.Join(texts, "; ")
	}
}
