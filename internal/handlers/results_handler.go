package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/surveyhub/survey-service/internal/repositories"
	"github.com/surveyhub/survey-service/internal/services"
	"github.com/surveyhub/survey-service/internal/utils"
)

// ResultsHandler exposes aggregated results to the survey's creator.
type ResultsHandler struct {
	BaseHandler
	resultsService services.ResultsService
}

func NewResultsHandler(resultsService services.ResultsService, logger utils.Logger) *ResultsHandler {
	return &ResultsHandler{
		BaseHandler:    NewBaseHandler(logger),
		resultsService: resultsService,
	}
}

// GetResults returns per-question aggregates for a survey
func (h *ResultsHandler) GetResults(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	results, err := h.resultsService.GetSummary(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

// ListResponses returns the raw responses of a survey
func (h *ResultsHandler) ListResponses(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	filters := repositories.ResponseFilters{
		Limit:  parseQueryInt(c, "limit", 20),
		Offset: parseQueryInt(c, "offset", 0),
	}

	responses, total, err := h.resultsService.ListResponses(c.Request.Context(), id, filters, currentUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Data: responses, Total: total})
}

// ExportResponses streams the survey's responses as an XLSX workbook
func (h *ResultsHandler) ExportResponses(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Exporting survey responses", "survey_id", id)

	data, err := h.resultsService.ExportResponses(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("survey-%d-responses.xlsx", id)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
