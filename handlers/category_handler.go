package handlers

import (
	"net/http"

	"trivia/models"
	"trivia/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CategoryHandler struct {
	categories CategoryStore
	questions  QuestionStore
	logger     *zap.Logger
}

func NewCategoryHandler(categories CategoryStore, questions QuestionStore, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		categories: categories,
		questions:  questions,
		logger:     logger,
	}
}

func (h *CategoryHandler) GetCategories(c *gin.Context) {
	categories, err := h.categories.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, readStatuses, err)
		return
	}
	if len(categories) == 0 {
		Abort(c, http.StatusNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"categories":       models.CategoryMap(categories),
		"category_list":    categories,
		"total_categories": len(categories),
		"current_category": nil,
	})
}

// GetCategoryQuestions serves GET /categories/:id/questions.
func (h *CategoryHandler) GetCategoryQuestions(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		Abort(c, http.StatusNotFound)
		return
	}

	category, err := h.categories.GetCategory(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, readStatuses, err)
		return
	}

	questions, total, err := h.questions.ListQuestions(c.Request.Context(), services.QuestionFilter{Category: &id}, currentPage(c))
	if err != nil {
		respondError(c, h.logger, readStatuses, err)
		return
	}
	if len(questions) == 0 {
		Abort(c, http.StatusNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"questions":        questions,
		"total_questions":  total,
		"current_category": category.Type,
	})
}

// GetCategoryQuestionsLegacy serves GET /categories/:id for older clients. It
// skips the category check, allows an empty page, and keeps the "succes" key
// those clients read.
func (h *CategoryHandler) GetCategoryQuestionsLegacy(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		Abort(c, http.StatusNotFound)
		return
	}

	questions, total, err := h.questions.ListQuestions(c.Request.Context(), services.QuestionFilter{Category: &id}, currentPage(c))
	if err != nil {
		respondError(c, h.logger, readStatuses, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"succes":          true,
		"questions":       questions,
		"total_questions": total,
	})
}
