package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/surveyhub/survey-service/internal/services"
	"github.com/surveyhub/survey-service/internal/utils"
)

// ResponseHandler exposes the respondent traversal flow. The client owns
// the session key (a browser session id, a chat conversation id) and sends
// it with every request.
type ResponseHandler struct {
	BaseHandler
	responseService services.ResponseService
}

func NewResponseHandler(responseService services.ResponseService, logger utils.Logger) *ResponseHandler {
	return &ResponseHandler{
		BaseHandler:     NewBaseHandler(logger),
		responseService: responseService,
	}
}

const sessionKeyHeader = "X-Session-Key"

func (h *ResponseHandler) sessionKey(c *gin.Context) string {
	key := c.GetHeader(sessionKeyHeader)
	if key == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Missing " + sessionKeyHeader + " header",
		})
	}
	return key
}

// StartSession starts (or resumes) a response session against a survey
func (h *ResponseHandler) StartSession(c *gin.Context) {
	surveyID := h.parseIDParam(c, "id")
	if surveyID == 0 {
		return
	}
	key := h.sessionKey(c)
	if key == "" {
		return
	}

	h.LogRequest(c, "Starting response session", "survey_id", surveyID)

	state, err := h.responseService.StartSession(c.Request.Context(), surveyID, key)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, state)
}

// GetSession returns the current traversal state
func (h *ResponseHandler) GetSession(c *gin.Context) {
	key := h.sessionKey(c)
	if key == "" {
		return
	}

	state, err := h.responseService.GetSession(c.Request.Context(), key)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

// Step applies one traversal operation to the session
func (h *ResponseHandler) Step(c *gin.Context) {
	key := h.sessionKey(c)
	if key == "" {
		return
	}

	var req services.StepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	state, err := h.responseService.Step(c.Request.Context(), key, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

// Commit persists the completed session as a response
func (h *ResponseHandler) Commit(c *gin.Context) {
	key := h.sessionKey(c)
	if key == "" {
		return
	}

	// An empty body is a plain anonymous commit.
	var req services.CommitRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	// Authenticated respondents are attributed; anonymous commits stay
	// anonymous unless the payload says otherwise.
	if req.RespondentID == nil {
		if userID := currentUserID(c); userID != "" {
			req.RespondentID = &userID
		}
	}

	h.LogRequest(c, "Committing response session")

	response, err := h.responseService.Commit(c.Request.Context(), key, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// AbandonSession discards the session without committing
func (h *ResponseHandler) AbandonSession(c *gin.Context) {
	key := h.sessionKey(c)
	if key == "" {
		return
	}

	h.LogRequest(c, "Abandoning response session")

	if err := h.responseService.Abandon(c.Request.Context(), key); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Session abandoned"})
}
