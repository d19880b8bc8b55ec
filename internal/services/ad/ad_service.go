package ad

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sokohub/backend/internal/apperrors"
	"github.com/sokohub/backend/internal/cache"
	"github.com/sokohub/backend/internal/config"
	"github.com/sokohub/backend/internal/jobs"
	"github.com/sokohub/backend/internal/metrics"
	"github.com/sokohub/backend/internal/models"
	"github.com/sokohub/backend/internal/queue"
	"github.com/sokohub/backend/internal/services/payment/providers/interswitch"
	"github.com/sokohub/backend/internal/utils"
	"gorm.io/gorm"
)

// Response codes the gateway documents for a completed lookup. Approved
// codes require an exact amount match before the transaction is settled.
var approvedResponseCodes = map[string]bool{
	"00": true,
	"10": true,
	"11": true,
}

const pendingResponseCode = "09"

// Gateway is the payment gateway surface the ad lifecycle needs
type Gateway interface {
	PaymentParams(reference string, amount int64) interswitch.PaymentParams
	VerifyPayment(ctx context.Context, reference string, amount int64) (*interswitch.VerifyResponse, error)
}

// Service orchestrates the advertisement lifecycle: free activation, paid
// initialization, payment verification and expiry-based visibility.
type Service struct {
	db       *gorm.DB
	gateway  Gateway
	jobQueue queue.Enqueuer
	counters *cache.Counters
	cfg      config.AdsConfig
}

// NewService creates a new ad lifecycle service
func NewService(db *gorm.DB, gateway Gateway, jobQueue queue.Enqueuer, counters *cache.Counters, cfg config.AdsConfig) *Service {
	return &Service{
		db:       db,
		gateway:  gateway,
		jobQueue: jobQueue,
		counters: counters,
		cfg:      cfg,
	}
}

// InitializeResult is returned from a paid ad initialization
type InitializeResult struct {
	Ad          models.Ad                 `json:"ad"`
	Transaction models.Transaction        `json:"transaction"`
	Payment     interswitch.PaymentParams `json:"payment"`
}

// ActivateFreeAd creates a free-tier ad for a product the merchant owns.
// A product can hold at most one non-expired free ad at a time.
func (s *Service) ActivateFreeAd(ctx context.Context, productID, merchantID uuid.UUID) (*models.Ad, error) {
	product, err := s.ownedProduct(ctx, productID, merchantID)
	if err != nil {
		return nil, err
	}

	var existing models.Ad
	err = s.db.WithContext(ctx).
		Where("product_id = ? AND level = ? AND expires_at > ?", product.ID, models.AdLevelFree, time.Now()).
		First(&existing).Error
	if err == nil {
		return nil, apperrors.BadRequest("product already has an active free ad")
	}
	if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to check existing free ad: %w", err)
	}

	expiresAt := time.Now().Add(s.cfg.FreeDuration)
	newAd := models.Ad{
		ID:        uuid.New(),
		ProductID: product.ID,
		Level:     models.AdLevelFree,
		ExpiresAt: &expiresAt,
	}
	if err := s.db.WithContext(ctx).Create(&newAd).Error; err != nil {
		return nil, fmt.Errorf("failed to create free ad: %w", err)
	}

	metrics.AdActivations.WithLabelValues("0").Inc()
	return &newAd, nil
}

// InitializeAdPayment creates a paid-tier ad with no visibility window yet,
// records an INITIALIZED transaction priced off the tier table, and returns
// the gateway checkout payload
func (s *Service) InitializeAdPayment(ctx context.Context, level int, productID, merchantID uuid.UUID) (*InitializeResult, error) {
	product, err := s.ownedProduct(ctx, productID, merchantID)
	if err != nil {
		return nil, err
	}

	price, ok := s.cfg.TierPrices[level]
	if !ok {
		return nil, apperrors.BadRequest("invalid ad level")
	}

	newAd := models.Ad{
		ID:        uuid.New(),
		ProductID: product.ID,
		Level:     level,
	}
	txn := models.Transaction{
		ID:        uuid.New(),
		Amount:    price,
		For:       models.TransactionForAdvertisement,
		Status:    models.TransactionStatusInitialized,
		Reference: newAd.ID.String(),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&newAd).Error; err != nil {
			return fmt.Errorf("failed to create ad: %w", err)
		}
		if err := tx.Create(&txn).Error; err != nil {
			return fmt.Errorf("failed to create transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	reference := utils.AdPaymentReference(txn.ID)
	return &InitializeResult{
		Ad:          newAd,
		Transaction: txn,
		Payment:     s.gateway.PaymentParams(reference, txn.Amount),
	}, nil
}

// VerifyAdPayment settles an ad payment transaction against the gateway.
// Approved response codes settle the transaction only when the collected
// amount matches exactly; the ad then becomes visible for its tier's window
// and marketer commission is scheduled. An already-settled transaction is
// returned as-is without a second gateway call; an expired one is refused.
func (s *Service) VerifyAdPayment(ctx context.Context, reference string) (*models.Transaction, error) {
	txnID, err := utils.ParseAdPaymentReference(reference)
	if err != nil {
		return nil, apperrors.BadRequest("invalid payment reference")
	}

	var txn models.Transaction
	if err := s.db.WithContext(ctx).Where("id = ?", txnID).First(&txn).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.BadRequest("transaction not found")
		}
		return nil, fmt.Errorf("failed to load transaction: %w", err)
	}

	if txn.Status == models.TransactionStatusSuccess {
		return &txn, nil
	}
	if txn.Status == models.TransactionStatusExpired {
		return nil, apperrors.BadRequest("transaction expired")
	}

	resp, err := s.gateway.VerifyPayment(ctx, reference, txn.Amount)
	if err != nil {
		metrics.RecordVerification("error")
		return nil, apperrors.BadRequestWrap("payment verification failed", err)
	}

	switch {
	case approvedResponseCodes[resp.ResponseCode]:
		if resp.Amount != txn.Amount {
			metrics.RecordVerification("amount_mismatch")
			return nil, apperrors.BadRequest("payment amount mismatch")
		}
		if err := s.settleTransaction(ctx, &txn); err != nil {
			return nil, err
		}
		metrics.RecordVerification("success")

	case resp.ResponseCode == pendingResponseCode:
		txn.Status = models.TransactionStatusPending
		if err := s.db.WithContext(ctx).Model(&txn).Update("status", txn.Status).Error; err != nil {
			return nil, fmt.Errorf("failed to mark transaction pending: %w", err)
		}
		metrics.RecordVerification("pending")

	default:
		// Declined or unrecognized code: leave the transaction untouched
		metrics.RecordVerification("declined")
	}

	return &txn, nil
}

// settleTransaction marks the transaction successful and, for advertisement
// payments, opens the ad's visibility window and schedules commission
func (s *Service) settleTransaction(ctx context.Context, txn *models.Transaction) error {
	txn.Status = models.TransactionStatusSuccess
	if err := s.db.WithContext(ctx).Model(txn).Update("status", txn.Status).Error; err != nil {
		return fmt.Errorf("failed to mark transaction successful: %w", err)
	}

	if txn.For != models.TransactionForAdvertisement {
		return nil
	}

	adID, err := uuid.Parse(txn.Reference)
	if err != nil {
		return fmt.Errorf("transaction %s has invalid ad reference %q: %w", txn.ID, txn.Reference, err)
	}

	var paidAd models.Ad
	if err := s.db.WithContext(ctx).Where("id = ?", adID).First(&paidAd).Error; err != nil {
		return fmt.Errorf("failed to load ad %s: %w", adID, err)
	}

	duration, ok := s.cfg.TierDurations[paidAd.Level]
	if !ok {
		return fmt.Errorf("no duration configured for ad level %d", paidAd.Level)
	}

	expiresAt := time.Now().Add(duration)
	err = s.db.WithContext(ctx).Model(&paidAd).Updates(map[string]interface{}{
		"paid_for":   true,
		"expires_at": expiresAt,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to activate ad %s: %w", adID, err)
	}

	metrics.AdActivations.WithLabelValues(fmt.Sprintf("%d", paidAd.Level)).Inc()

	if err := jobs.EnqueueMarketerEarnings(s.jobQueue, adID, txn.Amount); err != nil {
		// Commission is retried by the queue; verification itself succeeded
		return fmt.Errorf("failed to enqueue marketer earnings for ad %s: %w", adID, err)
	}
	return nil
}

// ActiveAds returns all currently visible ads with their products
func (s *Service) ActiveAds(ctx context.Context) ([]models.Ad, error) {
	var ads []models.Ad
	err := s.db.WithContext(ctx).
		Preload("Product").
		Where("expires_at IS NOT NULL AND expires_at > ?", time.Now()).
		Order("level DESC").
		Find(&ads).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active ads: %w", err)
	}
	return ads, nil
}

// RecordView buffers a view impression for an ad
func (s *Service) RecordView(ctx context.Context, adID uuid.UUID) error {
	if err := s.ensureAdExists(ctx, adID); err != nil {
		return err
	}
	metrics.RecordView()
	if s.counters == nil {
		return s.db.WithContext(ctx).Model(&models.Ad{}).
			Where("id = ?", adID).
			UpdateColumn("ad_views", gorm.Expr("ad_views + 1")).Error
	}
	return s.counters.IncrView(ctx, adID)
}

// RecordClick buffers a click impression for an ad
func (s *Service) RecordClick(ctx context.Context, adID uuid.UUID) error {
	if err := s.ensureAdExists(ctx, adID); err != nil {
		return err
	}
	metrics.RecordClick()
	if s.counters == nil {
		return s.db.WithContext(ctx).Model(&models.Ad{}).
			Where("id = ?", adID).
			UpdateColumn("ad_clicks", gorm.Expr("ad_clicks + 1")).Error
	}
	return s.counters.IncrClick(ctx, adID)
}

func (s *Service) ensureAdExists(ctx context.Context, adID uuid.UUID) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Ad{}).Where("id = ?", adID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to look up ad: %w", err)
	}
	if count == 0 {
		return apperrors.NotFound("ad not found")
	}
	return nil
}

// ownedProduct loads a product and checks the requesting merchant owns it
func (s *Service) ownedProduct(ctx context.Context, productID, merchantID uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).Where("id = ?", productID).First(&product).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("product not found")
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if product.MerchantID != merchantID {
		return nil, apperrors.Unauthorized("product belongs to another merchant")
	}
	return &product, nil
}
