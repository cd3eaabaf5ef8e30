package services

import (
	"context"

	"trivia/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CategoryService struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewCategoryService(db *gorm.DB, logger *zap.Logger) *CategoryService {
	return &CategoryService{db: db, logger: logger}
}

// ListCategories returns every category ordered by id.
func (s *CategoryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.WithContext(ctx).Order("id").Find(&categories).Error; err != nil {
		s.logger.Error("list categories", zap.Error(err))
		return nil, storageError("list categories", err, nil)
	}
	return categories, nil
}

func (s *CategoryService) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, storageError("get category", err, ErrCategoryNotFound)
	}
	return &category, nil
}
