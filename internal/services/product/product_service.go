package product

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/sokohub/backend/internal/apperrors"
	"github.com/sokohub/backend/internal/models"
	"gorm.io/gorm"
)

// Service manages merchant product listings
type Service struct {
	db *gorm.DB
}

// NewService creates a new product service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// CreateInput holds new listing fields. Price is in minor currency units.
type CreateInput struct {
	Name        string
	Description string
	Price       int64
	Stock       int
	Category    string
	ImageURL    string
}

// Create adds a listing for the merchant
func (s *Service) Create(ctx context.Context, merchantID uuid.UUID, input CreateInput) (*models.Product, error) {
	if input.Price < 0 {
		return nil, apperrors.BadRequest("price cannot be negative")
	}

	p := models.Product{
		ID:          uuid.New(),
		MerchantID:  merchantID,
		Name:        input.Name,
		Slug:        s.uniqueSlug(ctx, input.Name),
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		Category:    input.Category,
		ImageURL:    input.ImageURL,
	}
	if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return &p, nil
}

// UpdateInput holds optional listing updates; nil fields are left unchanged
type UpdateInput struct {
	Name        *string
	Description *string
	Price       *int64
	Stock       *int
	Category    *string
	ImageURL    *string
}

// Update modifies a listing the merchant owns
func (s *Service) Update(ctx context.Context, productID, merchantID uuid.UUID, input UpdateInput) (*models.Product, error) {
	p, err := s.owned(ctx, productID, merchantID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, apperrors.BadRequest("price cannot be negative")
		}
		updates["price"] = *input.Price
	}
	if input.Stock != nil {
		updates["stock"] = *input.Stock
	}
	if input.Category != nil {
		updates["category"] = *input.Category
	}
	if input.ImageURL != nil {
		updates["image_url"] = *input.ImageURL
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(p).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
	}
	return p, nil
}

// Delete removes a listing the merchant owns
func (s *Service) Delete(ctx context.Context, productID, merchantID uuid.UUID) error {
	p, err := s.owned(ctx, productID, merchantID)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(p).Error; err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

// ListFilter narrows a product listing query
type ListFilter struct {
	MerchantID *uuid.UUID
	MarketID   *uuid.UUID
	Category   string
	Search     string
}

// List returns listings matching the filter
func (s *Service) List(ctx context.Context, filter ListFilter) ([]models.Product, error) {
	query := s.db.WithContext(ctx).Model(&models.Product{})

	if filter.MerchantID != nil {
		query = query.Where("merchant_id = ?", *filter.MerchantID)
	}
	if filter.MarketID != nil {
		query = query.
			Joins("JOIN merchants ON merchants.id = products.merchant_id").
			Where("merchants.market_id = ?", *filter.MarketID)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Search != "" {
		query = query.Where("products.name LIKE ?", "%"+filter.Search+"%")
	}

	var products []models.Product
	if err := query.Order("products.created_at DESC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// GetBySlug returns a listing by slug
func (s *Service) GetBySlug(ctx context.Context, productSlug string) (*models.Product, error) {
	var p models.Product
	err := s.db.WithContext(ctx).Where("slug = ?", productSlug).First(&p).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("product not found")
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	return &p, nil
}

func (s *Service) owned(ctx context.Context, productID, merchantID uuid.UUID) (*models.Product, error) {
	var p models.Product
	if err := s.db.WithContext(ctx).Where("id = ?", productID).First(&p).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("product not found")
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if p.MerchantID != merchantID {
		return nil, apperrors.Unauthorized("product belongs to another merchant")
	}
	return &p, nil
}

func (s *Service) uniqueSlug(ctx context.Context, name string) string {
	base := slug.Make(name)
	candidate := base
	for i := 2; ; i++ {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Product{}).Where("slug = ?", candidate).Count(&count).Error; err != nil || count == 0 {
			return candidate
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
