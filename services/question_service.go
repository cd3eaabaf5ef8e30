package services

import (
	"context"
	"strings"

	"trivia/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type QuestionService struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewQuestionService(db *gorm.DB, logger *zap.Logger) *QuestionService {
	return &QuestionService{db: db, logger: logger}
}

// QuestionFilter narrows a listing. The zero value matches every question.
type QuestionFilter struct {
	Category *uint
	Search   string
}

type CreateQuestionRequest struct {
	Question   string  `json:"question"`
	Answer     string  `json:"answer"`
	Category   FlexInt `json:"category"`
	Difficulty FlexInt `json:"difficulty"`
	SearchTerm string  `json:"searchTerm"`
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (f QuestionFilter) apply(db *gorm.DB) *gorm.DB {
	if f.Category != nil {
		db = db.Where("category = ?", *f.Category)
	}
	if f.Search != "" {
		pattern := "%" + likeEscaper.Replace(f.Search) + "%"
		db = db.Where(`LOWER(question) LIKE LOWER(?) ESCAPE '\'`, pattern)
	}
	return db
}

// ListQuestions returns one page of the questions matching filter, ordered by
// id, together with the total number of matches across all pages.
func (s *QuestionService) ListQuestions(ctx context.Context, filter QuestionFilter, page Page) ([]models.Question, int64, error) {
	db := s.db.WithContext(ctx)

	var total int64
	if err := filter.apply(db.Model(&models.Question{})).Count(&total).Error; err != nil {
		s.logger.Error("count questions", zap.Error(err))
		return nil, 0, storageError("list questions", err, nil)
	}

	questions := []models.Question{}
	if !page.Valid() || int64(page.Offset()) >= total {
		return questions, total, nil
	}

	err := filter.apply(db).
		Order("id").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&questions).Error
	if err != nil {
		s.logger.Error("list questions", zap.Error(err))
		return nil, 0, storageError("list questions", err, nil)
	}
	return questions, total, nil
}

func (s *QuestionService) GetQuestion(ctx context.Context, id uint) (*models.Question, error) {
	var question models.Question
	if err := s.db.WithContext(ctx).First(&question, id).Error; err != nil {
		return nil, storageError("get question", err, ErrQuestionNotFound)
	}
	return &question, nil
}

// CreateQuestion inserts the question. Missing fields are stored as their zero
// value and the category is not checked against the categories table.
func (s *QuestionService) CreateQuestion(ctx context.Context, req *CreateQuestionRequest) (*models.Question, error) {
	if req.Category < 0 {
		return nil, newError(KindInvalid, "create question", ErrInvalidInput)
	}
	question := models.Question{
		Question:   req.Question,
		Answer:     req.Answer,
		Category:   uint(req.Category),
		Difficulty: int(req.Difficulty),
	}

	if err := s.db.WithContext(ctx).Create(&question).Error; err != nil {
		s.logger.Error("create question", zap.Error(err))
		return nil, storageError("create question", err, nil)
	}
	return &question, nil
}

func (s *QuestionService) DeleteQuestion(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Question{}, id)
	if result.Error != nil {
		s.logger.Error("delete question", zap.Uint("id", id), zap.Error(result.Error))
		return storageError("delete question", result.Error, nil)
	}
	if result.RowsAffected == 0 {
		return newError(KindNotFound, "delete question", ErrQuestionNotFound)
	}
	return nil
}
