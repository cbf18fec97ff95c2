package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/surveyhub/survey-service/internal/services"
	"github.com/surveyhub/survey-service/internal/utils"
)

type HandlerManager struct {
	surveyHandler   *SurveyHandler
	responseHandler *ResponseHandler
	resultsHandler  *ResultsHandler
	auth            *Authenticator
}

func NewHandlerManager(
	surveyService services.SurveyService,
	responseService services.ResponseService,
	resultsService services.ResultsService,
	auth *Authenticator,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		surveyHandler:   NewSurveyHandler(surveyService, logger),
		responseHandler: NewResponseHandler(responseService, logger),
		resultsHandler:  NewResultsHandler(resultsService, logger),
		auth:            auth,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "survey-service",
		})
	})

	v1 := router.Group("/api/v1")
	{
		// Public catalog
		v1.GET("/surveys/published", hm.surveyHandler.ListPublishedSurveys)
		v1.GET("/surveys/:id", hm.auth.OptionalAuth(), hm.surveyHandler.GetSurvey)

		// Creator routes
		surveys := v1.Group("/surveys", hm.auth.RequireAuth())
		{
			surveys.POST("", hm.surveyHandler.CreateSurvey)
			surveys.GET("", hm.surveyHandler.ListMySurveys)
			surveys.PUT("/:id", hm.surveyHandler.UpdateSurvey)
			surveys.DELETE("/:id", hm.surveyHandler.DeleteSurvey)
			surveys.POST("/:id/publish", hm.surveyHandler.PublishSurvey)
			surveys.POST("/:id/close", hm.surveyHandler.CloseSurvey)

			surveys.GET("/:id/results", hm.resultsHandler.GetResults)
			surveys.GET("/:id/responses", hm.resultsHandler.ListResponses)
			surveys.GET("/:id/responses/export", hm.resultsHandler.ExportResponses)
		}

		// Respondent routes; anonymous allowed, session key required
		session := v1.Group("", hm.auth.OptionalAuth())
		{
			session.POST("/surveys/:id/session", hm.responseHandler.StartSession)
			session.GET("/session", hm.responseHandler.GetSession)
			session.POST("/session/step", hm.responseHandler.Step)
			session.POST("/session/commit", hm.responseHandler.Commit)
			session.DELETE("/session", hm.responseHandler.AbandonSession)
		}
	}
}
