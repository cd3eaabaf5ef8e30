package handlers

import (
	"net/http"

	"trivia/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type QuizHandler struct {
	quiz   QuizPicker
	logger *zap.Logger
}

func NewQuizHandler(quiz QuizPicker, logger *zap.Logger) *QuizHandler {
	return &QuizHandler{
		quiz:   quiz,
		logger: logger,
	}
}

// NextQuestion serves POST /quizzes. When every question in the category has
// been asked it answers {"question": false} with no success flag.
func (h *QuizHandler) NextQuestion(c *gin.Context) {
	var req services.NextQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Info("invalid quiz body", zap.Error(err))
		Abort(c, http.StatusUnprocessableEntity)
		return
	}

	question, err := h.quiz.NextQuestion(c.Request.Context(), *req.QuizCategory.ID, req.PreviousQuestions)
	if err != nil {
		respondError(c, h.logger, writeStatuses, err)
		return
	}
	if question == nil {
		c.JSON(http.StatusOK, gin.H{"question": false})
		return
	}

	previous := append(req.PreviousQuestions, question.ID)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"question": gin.H{
			"id":         question.ID,
			"question":   question.Question,
			"answer":     question.Answer,
			"difficulty": question.Difficulty,
			"category":   question.Category,
		},
		"previousQuestion": previous,
	})
}
