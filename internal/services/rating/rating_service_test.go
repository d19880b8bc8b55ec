package rating

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/sokohub/backend/internal/apperrors"
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

func seedProduct(t *testing.T, db *gorm.DB) uuid.UUID {
	merchant := models.Merchant{
		ID:           uuid.New(),
		Email:        fmt.Sprintf("%s@example.com", uuid.NewString()[:8]),
		Password:     "x",
		BusinessName: "Test Stores",
		Slug:         uuid.NewString(),
	}
	require.NoError(t, db.Create(&merchant).Error)

	p := models.Product{
		ID:         uuid.New(),
		MerchantID: merchant.ID,
		Name:       "Groundnut Oil",
		Slug:       uuid.NewString(),
		Price:      2200,
	}
	require.NoError(t, db.Create(&p).Error)
	return p.ID
}

func requireErrorKind(t *testing.T, err error, kind apperrors.Kind) {
	t.Helper()
	var appErr *apperrors.Error
	require.True(t, errors.As(err, &appErr), "expected categorized error, got %v", err)
	assert.Equal(t, kind, appErr.Kind)
}

func TestRate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	productID := seedProduct(t, db)
	customerID := uuid.New()

	r, err := svc.Rate(context.Background(), customerID, productID, 4, "solid product")
	require.NoError(t, err)
	assert.Equal(t, 4, r.Stars)

	// One rating per customer per product
	_, err = svc.Rate(context.Background(), customerID, productID, 5, "changed my mind")
	requireErrorKind(t, err, apperrors.KindBadRequest)
}

func TestRate_Validation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	productID := seedProduct(t, db)

	for _, stars := range []int{0, 6, -1} {
		_, err := svc.Rate(context.Background(), uuid.New(), productID, stars, "")
		requireErrorKind(t, err, apperrors.KindBadRequest)
	}

	_, err := svc.Rate(context.Background(), uuid.New(), uuid.New(), 3, "")
	requireErrorKind(t, err, apperrors.KindNotFound)
}

func TestForProduct_Average(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	productID := seedProduct(t, db)

	for _, stars := range []int{5, 4, 2} {
		_, err := svc.Rate(context.Background(), uuid.New(), productID, stars, "")
		require.NoError(t, err)
	}

	ratings, average, err := svc.ForProduct(context.Background(), productID)
	require.NoError(t, err)
	assert.Len(t, ratings, 3)
	assert.InDelta(t, 11.0/3.0, average, 0.001)

	empty, average, err := svc.ForProduct(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.Zero(t, average)
}
