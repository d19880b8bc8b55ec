package rating

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sokohub/backend/internal/apperrors"
	"github.com/sokohub/backend/internal/models"
	"gorm.io/gorm"
)

// Service manages product ratings
type Service struct {
	db *gorm.DB
}

// NewService creates a new rating service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Rate records a customer's rating of a product. One rating per customer per
// product.
func (s *Service) Rate(ctx context.Context, customerID, productID uuid.UUID, stars int, comment string) (*models.Rating, error) {
	if stars < 1 || stars > 5 {
		return nil, apperrors.BadRequest("stars must be between 1 and 5")
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", productID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to look up product: %w", err)
	}
	if count == 0 {
		return nil, apperrors.NotFound("product not found")
	}

	var existing models.Rating
	err := s.db.WithContext(ctx).
		Where("customer_id = ? AND product_id = ?", customerID, productID).
		First(&existing).Error
	if err == nil {
		return nil, apperrors.BadRequest("product already rated")
	}
	if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to check existing rating: %w", err)
	}

	r := models.Rating{
		ID:         uuid.New(),
		CustomerID: customerID,
		ProductID:  productID,
		Stars:      stars,
		Comment:    comment,
	}
	if err := s.db.WithContext(ctx).Create(&r).Error; err != nil {
		return nil, fmt.Errorf("failed to create rating: %w", err)
	}
	return &r, nil
}

// ForProduct lists a product's ratings and their average
func (s *Service) ForProduct(ctx context.Context, productID uuid.UUID) ([]models.Rating, float64, error) {
	var ratings []models.Rating
	err := s.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&ratings).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list ratings: %w", err)
	}

	if len(ratings) == 0 {
		return ratings, 0, nil
	}

	var sum int
	for _, r := range ratings {
		sum += r.Stars
	}
	return ratings, float64(sum) / float64(len(ratings)), nil
}
