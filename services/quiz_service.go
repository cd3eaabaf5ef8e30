package services

import (
	"context"
	"math/rand/v2"

	"trivia/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AllCategories is the quiz_category id that selects from every question.
const AllCategories = 0

type QuizService struct {
	db     *gorm.DB
	logger *zap.Logger
	intn   func(n int) int
}

func NewQuizService(db *gorm.DB, logger *zap.Logger) *QuizService {
	return &QuizService{db: db, logger: logger, intn: rand.IntN}
}

// WithRandom replaces the source used to pick a question. intn must return a
// value in [0, n).
func (s *QuizService) WithRandom(intn func(n int) int) *QuizService {
	s.intn = intn
	return s
}

type QuizCategory struct {
	ID   *int   `json:"id" binding:"required"`
	Type string `json:"type"`
}

type NextQuestionRequest struct {
	QuizCategory      *QuizCategory `json:"quiz_category" binding:"required"`
	PreviousQuestions []uint        `json:"previous_questions" binding:"required"`
}

// NextQuestion picks a random question from the category that is not in
// previous. A nil question with a nil error means the pool is exhausted.
func (s *QuizService) NextQuestion(ctx context.Context, categoryID int, previous []uint) (*models.Question, error) {
	if categoryID < 0 {
		return nil, newError(KindBadRequest, "next question", ErrCategoryNotFound)
	}

	db := s.db.WithContext(ctx)
	pool := db.Model(&models.Question{})

	if categoryID != AllCategories {
		var count int64
		if err := db.Model(&models.Category{}).Where("id = ?", categoryID).Count(&count).Error; err != nil {
			s.logger.Error("check quiz category", zap.Int("category", categoryID), zap.Error(err))
			return nil, storageError("next question", err, nil)
		}
		if count == 0 {
			return nil, newError(KindBadRequest, "next question", ErrCategoryNotFound)
		}
		pool = pool.Where("category = ?", categoryID)
	}
	if len(previous) > 0 {
		pool = pool.Where("id NOT IN ?", previous)
	}

	var candidates []models.Question
	if err := pool.Order("id").Find(&candidates).Error; err != nil {
		s.logger.Error("load quiz pool", zap.Int("category", categoryID), zap.Error(err))
		return nil, storageError("next question", err, nil)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	picked := candidates[s.intn(len(candidates))]
	return &picked, nil
}
