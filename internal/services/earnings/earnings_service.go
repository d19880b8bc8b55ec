package earnings

import (
	"context"
	"fmt"
	"log"
	"math"

	"github.com/google/uuid"
	"github.com/sokohub/backend/internal/models"
	"gorm.io/gorm"
)

// Service computes referral commission for marketers whose merchants buy ads
type Service struct {
	db                *gorm.DB
	commissionPercent float64
}

// NewService creates a new earnings service
func NewService(db *gorm.DB, commissionPercent float64) *Service {
	return &Service{
		db:                db,
		commissionPercent: commissionPercent,
	}
}

// CreditForAd records commission for the marketer who referred the merchant
// owning the ad's product. No-op when the merchant has no referrer or when
// the ad has already been credited; the unique index on ad_id backstops the
// existence check against concurrent verification calls.
func (s *Service) CreditForAd(ctx context.Context, adID uuid.UUID, amount int64) error {
	var paidAd models.Ad
	if err := s.db.WithContext(ctx).Where("id = ?", adID).First(&paidAd).Error; err != nil {
		return fmt.Errorf("failed to load ad %s: %w", adID, err)
	}

	var product models.Product
	if err := s.db.WithContext(ctx).Where("id = ?", paidAd.ProductID).First(&product).Error; err != nil {
		return fmt.Errorf("failed to load product %s: %w", paidAd.ProductID, err)
	}

	var merchant models.Merchant
	if err := s.db.WithContext(ctx).Where("id = ?", product.MerchantID).First(&merchant).Error; err != nil {
		return fmt.Errorf("failed to load merchant %s: %w", product.MerchantID, err)
	}

	if merchant.ReferredByID == nil {
		return nil
	}

	var existing models.MarketerEarning
	result := s.db.WithContext(ctx).Where("ad_id = ?", adID).First(&existing)
	if result.Error == nil {
		log.Printf("commission for ad %s already recorded", adID)
		return nil
	}
	if result.Error != gorm.ErrRecordNotFound {
		return fmt.Errorf("failed to check existing earning: %w", result.Error)
	}

	earning := models.MarketerEarning{
		ID:         uuid.New(),
		MarketerID: *merchant.ReferredByID,
		MerchantID: merchant.ID,
		AdID:       adID,
		Amount:     s.Commission(amount),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&earning).Error
	})
	if err != nil {
		return fmt.Errorf("failed to record marketer earning: %w", err)
	}

	log.Printf("recorded commission of %d for marketer %s on ad %s", earning.Amount, earning.MarketerID, adID)
	return nil
}

// Commission returns the commission owed on an ad spend amount, in minor
// currency units
func (s *Service) Commission(amount int64) int64 {
	return int64(math.Round(float64(amount) * s.commissionPercent / 100))
}

// ForMarketer lists a marketer's earnings along with totals
func (s *Service) ForMarketer(ctx context.Context, marketerID uuid.UUID) ([]models.MarketerEarning, int64, error) {
	var earnings []models.MarketerEarning
	err := s.db.WithContext(ctx).
		Where("marketer_id = ?", marketerID).
		Order("created_at DESC").
		Find(&earnings).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list earnings: %w", err)
	}

	var total int64
	for _, e := range earnings {
		total += e.Amount
	}
	return earnings, total, nil
}
