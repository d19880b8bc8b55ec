package market

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/sokohub/backend/internal/apperrors"
	"github.com/sokohub/backend/internal/models"
	"gorm.io/gorm"
)

// Service manages markets merchants trade in
type Service struct {
	db *gorm.DB
}

// NewService creates a new market service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Create registers a new market
func (s *Service) Create(ctx context.Context, name, location, description string) (*models.Market, error) {
	marketSlug := slug.Make(name)

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Market{}).Where("slug = ?", marketSlug).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check market slug: %w", err)
	}
	if count > 0 {
		return nil, apperrors.BadRequest("a market with this name already exists")
	}

	m := models.Market{
		ID:          uuid.New(),
		Name:        name,
		Slug:        marketSlug,
		Location:    location,
		Description: description,
	}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, fmt.Errorf("failed to create market: %w", err)
	}
	return &m, nil
}

// List returns all markets
func (s *Service) List(ctx context.Context) ([]models.Market, error) {
	var markets []models.Market
	if err := s.db.WithContext(ctx).Order("name").Find(&markets).Error; err != nil {
		return nil, fmt.Errorf("failed to list markets: %w", err)
	}
	return markets, nil
}

// GetBySlug returns a market with its merchants
func (s *Service) GetBySlug(ctx context.Context, marketSlug string) (*models.Market, error) {
	var m models.Market
	err := s.db.WithContext(ctx).Preload("Merchants").Where("slug = ?", marketSlug).First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("market not found")
		}
		return nil, fmt.Errorf("failed to load market: %w", err)
	}
	return &m, nil
}
