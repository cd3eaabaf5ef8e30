package routes

import (
	"context"
	"net/http"

	"trivia/handlers"
	"trivia/middleware"
	"trivia/services"

	"github.com/gin-gonic/gin"
)

// HealthCheck reports whether the backing store is reachable.
type HealthCheck func(ctx context.Context) error

func SetupRoutes(
	router *gin.Engine,
	categoryHandler *handlers.CategoryHandler,
	questionHandler *handlers.QuestionHandler,
	quizHandler *handlers.QuizHandler,
	authHandler *handlers.AuthHandler,
	eventsHandler *handlers.EventsHandler,
	authService *services.AuthService,
	healthCheck HealthCheck,
) {
	router.HandleMethodNotAllowed = true
	router.NoRoute(func(c *gin.Context) {
		handlers.Abort(c, http.StatusNotFound)
	})
	router.NoMethod(func(c *gin.Context) {
		handlers.Abort(c, http.StatusMethodNotAllowed)
	})

	categories := router.Group("/categories")
	{
		categories.GET("", categoryHandler.GetCategories)
		categories.GET("/:id", categoryHandler.GetCategoryQuestionsLegacy)
		categories.GET("/:id/questions", categoryHandler.GetCategoryQuestions)
	}

	questions := router.Group("/questions")
	{
		questions.GET("", questionHandler.GetQuestions)
		questions.POST("", middleware.AdminGuard(authService, middleware.IsSearch), questionHandler.CreateOrSearchQuestions)
		questions.DELETE("/:id", middleware.AdminGuard(authService, nil), questionHandler.DeleteQuestion)
	}

	router.POST("/quizzes", quizHandler.NextQuestion)
	router.POST("/auth/token", authHandler.IssueToken)

	if eventsHandler != nil {
		router.GET("/ws/questions", eventsHandler.Subscribe)
	}

	router.GET("/health", func(c *gin.Context) {
		if healthCheck != nil {
			if err := healthCheck(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
