package handlers

import (
	"net/http"

	"trivia/models"
	"trivia/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type QuestionHandler struct {
	questions  QuestionStore
	categories CategoryStore
	publisher  services.Publisher
	logger     *zap.Logger
}

// NewQuestionHandler builds the question routes. publisher may be nil, in
// which case no events are sent.
func NewQuestionHandler(questions QuestionStore, categories CategoryStore, publisher services.Publisher, logger *zap.Logger) *QuestionHandler {
	return &QuestionHandler{
		questions:  questions,
		categories: categories,
		publisher:  publisher,
		logger:     logger,
	}
}

func (h *QuestionHandler) GetQuestions(c *gin.Context) {
	ctx := c.Request.Context()

	questions, total, err := h.questions.ListQuestions(ctx, services.QuestionFilter{}, currentPage(c))
	if err != nil {
		respondError(c, h.logger, readStatuses, err)
		return
	}
	if len(questions) == 0 {
		Abort(c, http.StatusNotFound)
		return
	}

	categories, err := h.categories.ListCategories(ctx)
	if err != nil {
		respondError(c, h.logger, readStatuses, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"questions":        questions,
		"total_questions":  total,
		"categories":       models.CategoryMap(categories),
		"current_category": nil,
	})
}

// CreateOrSearchQuestions serves POST /questions. A body with a non-empty
// searchTerm is a search; any other body is a new question.
func (h *QuestionHandler) CreateOrSearchQuestions(c *gin.Context) {
	var req services.CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Info("invalid question body", zap.Error(err))
		Abort(c, http.StatusUnprocessableEntity)
		return
	}

	if req.SearchTerm != "" {
		h.searchQuestions(c, req.SearchTerm)
		return
	}
	h.createQuestion(c, &req)
}

func (h *QuestionHandler) searchQuestions(c *gin.Context, term string) {
	questions, total, err := h.questions.ListQuestions(c.Request.Context(), services.QuestionFilter{Search: term}, currentPage(c))
	if err != nil {
		respondError(c, h.logger, writeStatuses, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"questions":       questions,
		"total_questions": total,
	})
}

func (h *QuestionHandler) createQuestion(c *gin.Context, req *services.CreateQuestionRequest) {
	ctx := c.Request.Context()

	question, err := h.questions.CreateQuestion(ctx, req)
	if err != nil {
		respondError(c, h.logger, writeStatuses, err)
		return
	}
	h.publish(c, services.EventQuestionCreated, question)

	questions, total, err := h.questions.ListQuestions(ctx, services.QuestionFilter{}, currentPage(c))
	if err != nil {
		respondError(c, h.logger, writeStatuses, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"created":         question.ID,
		"questions":       questions,
		"total_questions": total,
	})
}

func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		Abort(c, http.StatusNotFound)
		return
	}

	if err := h.questions.DeleteQuestion(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, deleteStatuses, err)
		return
	}
	h.publish(c, services.EventQuestionDeleted, gin.H{"id": id})

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// publish never fails the request; the write has already been committed.
func (h *QuestionHandler) publish(c *gin.Context, eventType string, payload interface{}) {
	if h.publisher == nil {
		return
	}
	if err := h.publisher.Publish(c.Request.Context(), eventType, payload); err != nil {
		h.logger.Warn("failed to publish question event", zap.String("type", eventType), zap.Error(err))
	}
}
