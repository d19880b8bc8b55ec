package earnings

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/sokohub/backend/internal/database"
	"github.com/sokohub/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

// seedPaidAd creates a marketer (optional), a merchant referred by them,
// a product and an ad, returning the ids the commission path walks
func seedPaidAd(t *testing.T, db *gorm.DB, withReferrer bool) (adID uuid.UUID, marketerID, merchantID uuid.UUID) {
	var referredBy *uuid.UUID
	if withReferrer {
		marketer := models.Marketer{
			ID:           uuid.New(),
			Email:        fmt.Sprintf("%s@example.com", uuid.NewString()[:8]),
			Password:     "x",
			ReferralCode: uuid.NewString(),
		}
		require.NoError(t, db.Create(&marketer).Error)
		marketerID = marketer.ID
		referredBy = &marketer.ID
	}

	merchant := models.Merchant{
		ID:           uuid.New(),
		Email:        fmt.Sprintf("%s@example.com", uuid.NewString()[:8]),
		Password:     "x",
		BusinessName: "Iya Basira Foods",
		Slug:         uuid.NewString(),
		ReferredByID: referredBy,
	}
	require.NoError(t, db.Create(&merchant).Error)

	p := models.Product{
		ID:         uuid.New(),
		MerchantID: merchant.ID,
		Name:       "Palm Oil",
		Slug:       uuid.NewString(),
		Price:      1500,
	}
	require.NoError(t, db.Create(&p).Error)

	paidAd := models.Ad{
		ID:        uuid.New(),
		ProductID: p.ID,
		Level:     1,
		PaidFor:   true,
	}
	require.NoError(t, db.Create(&paidAd).Error)

	return paidAd.ID, marketerID, merchant.ID
}

func TestCreditForAd(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, 5.0)
	adID, marketerID, merchantID := seedPaidAd(t, db, true)

	require.NoError(t, svc.CreditForAd(context.Background(), adID, 1000))

	var rows []models.MarketerEarning
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, marketerID, rows[0].MarketerID)
	assert.Equal(t, merchantID, rows[0].MerchantID)
	assert.Equal(t, adID, rows[0].AdID)
	assert.Equal(t, int64(50), rows[0].Amount)
	assert.False(t, rows[0].Paid)
}

func TestCreditForAd_NoReferrer(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, 5.0)
	adID, _, _ := seedPaidAd(t, db, false)

	require.NoError(t, svc.CreditForAd(context.Background(), adID, 1000))

	var count int64
	require.NoError(t, db.Model(&models.MarketerEarning{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreditForAd_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, 5.0)
	adID, _, _ := seedPaidAd(t, db, true)

	require.NoError(t, svc.CreditForAd(context.Background(), adID, 2500))
	require.NoError(t, svc.CreditForAd(context.Background(), adID, 2500))

	var count int64
	require.NoError(t, db.Model(&models.MarketerEarning{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

// Two verifications racing past the existence check both try to insert a
// commission row; the unique index on ad_id must reject the loser so exactly
// one row survives.
func TestCreditForAd_RacingDuplicateInsertRejected(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, 5.0)
	adID, marketerID, merchantID := seedPaidAd(t, db, true)

	require.NoError(t, svc.CreditForAd(context.Background(), adID, 1000))

	// Simulate the competing writer that already passed the existence check
	err := db.Create(&models.MarketerEarning{
		ID:         uuid.New(),
		MarketerID: marketerID,
		MerchantID: merchantID,
		AdID:       adID,
		Amount:     50,
	}).Error
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&models.MarketerEarning{}).Where("ad_id = ?", adID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreditForAd_MissingAd(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, 5.0)

	err := svc.CreditForAd(context.Background(), uuid.New(), 1000)
	assert.Error(t, err)
}

func TestCommission(t *testing.T) {
	svc := NewService(nil, 5.0)

	assert.Equal(t, int64(50), svc.Commission(1000))
	assert.Equal(t, int64(125), svc.Commission(2500))
	assert.Equal(t, int64(250), svc.Commission(5000))
	// Rounds to the nearest minor unit
	assert.Equal(t, int64(1), svc.Commission(25))
	assert.Equal(t, int64(0), svc.Commission(0))
}

func TestForMarketer(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, 5.0)

	marketer := models.Marketer{
		ID:           uuid.New(),
		Email:        "aisha@example.com",
		Password:     "x",
		ReferralCode: uuid.NewString(),
	}
	require.NoError(t, db.Create(&marketer).Error)

	for _, amount := range []int64{50, 125} {
		require.NoError(t, db.Create(&models.MarketerEarning{
			ID:         uuid.New(),
			MarketerID: marketer.ID,
			MerchantID: uuid.New(),
			AdID:       uuid.New(),
			Amount:     amount,
		}).Error)
	}
	// Another marketer's earning must not leak into the listing
	require.NoError(t, db.Create(&models.MarketerEarning{
		ID:         uuid.New(),
		MarketerID: uuid.New(),
		MerchantID: uuid.New(),
		AdID:       uuid.New(),
		Amount:     999,
	}).Error)

	list, total, err := svc.ForMarketer(context.Background(), marketer.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, int64(175), total)
}
