package handlers

import (
	"context"
	"strconv"

	"trivia/models"
	"trivia/services"

	"github.com/gin-gonic/gin"
)

// CategoryStore is the category access the handlers need. *services.CategoryService
// implements it against the database.
type CategoryStore interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id uint) (*models.Category, error)
}

// QuestionStore is the question access the handlers need. *services.QuestionService
// implements it against the database.
type QuestionStore interface {
	ListQuestions(ctx context.Context, filter services.QuestionFilter, page services.Page) ([]models.Question, int64, error)
	CreateQuestion(ctx context.Context, req *services.CreateQuestionRequest) (*models.Question, error)
	DeleteQuestion(ctx context.Context, id uint) error
}

type QuizPicker interface {
	NextQuestion(ctx context.Context, categoryID int, previous []uint) (*models.Question, error)
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

func currentPage(c *gin.Context) services.Page {
	return services.ParsePage(c.DefaultQuery("page", "1"))
}
