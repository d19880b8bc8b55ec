package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sokohub/backend/internal/apperrors"
	"github.com/sokohub/backend/internal/models"
	"gorm.io/gorm"
)

// Service manages customer carts
type Service struct {
	db *gorm.DB
}

// NewService creates a new cart service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// AddItem puts a product in the customer's cart, adding to the quantity if
// it is already there
func (s *Service) AddItem(ctx context.Context, customerID, productID uuid.UUID, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, apperrors.BadRequest("quantity must be positive")
	}

	var product models.Product
	if err := s.db.WithContext(ctx).Where("id = ?", productID).First(&product).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("product not found")
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}

	var item models.CartItem
	err := s.db.WithContext(ctx).
		Where("customer_id = ? AND product_id = ?", customerID, productID).
		First(&item).Error
	switch err {
	case nil:
		item.Quantity += quantity
		if err := s.db.WithContext(ctx).Model(&item).Update("quantity", item.Quantity).Error; err != nil {
			return nil, fmt.Errorf("failed to update cart item: %w", err)
		}
	case gorm.ErrRecordNotFound:
		item = models.CartItem{
			ID:         uuid.New(),
			CustomerID: customerID,
			ProductID:  productID,
			Quantity:   quantity,
		}
		if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
			return nil, fmt.Errorf("failed to create cart item: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to look up cart item: %w", err)
	}

	return &item, nil
}

// UpdateItem sets the quantity of a cart item the customer owns
func (s *Service) UpdateItem(ctx context.Context, customerID, itemID uuid.UUID, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, apperrors.BadRequest("quantity must be positive")
	}

	item, err := s.owned(ctx, customerID, itemID)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(item).Update("quantity", quantity).Error; err != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}
	item.Quantity = quantity
	return item, nil
}

// RemoveItem deletes a cart item the customer owns
func (s *Service) RemoveItem(ctx context.Context, customerID, itemID uuid.UUID) error {
	item, err := s.owned(ctx, customerID, itemID)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(item).Error; err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}
	return nil
}

// Items lists the customer's cart with product details
func (s *Service) Items(ctx context.Context, customerID uuid.UUID) ([]models.CartItem, error) {
	var items []models.CartItem
	err := s.db.WithContext(ctx).
		Preload("Product").
		Where("customer_id = ?", customerID).
		Order("created_at").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}
	return items, nil
}

func (s *Service) owned(ctx context.Context, customerID, itemID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	if err := s.db.WithContext(ctx).Where("id = ?", itemID).First(&item).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("cart item not found")
		}
		return nil, fmt.Errorf("failed to load cart item: %w", err)
	}
	if item.CustomerID != customerID {
		return nil, apperrors.Unauthorized("cart item belongs to another customer")
	}
	return &item, nil
}
