package cart

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

func seedCustomerAndProduct(t *testing.T, db *gorm.DB) (uuid.UUID, uuid.UUID) {
	customer := models.Customer{
		ID:       uuid.New(),
		Email:    fmt.Sprintf("%s@example.com", uuid.NewString()[:8]),
		Password: "x",
	}
	require.NoError(t, db.Create(&customer).Error)

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
		Name:       "Rice 5kg",
		Slug:       uuid.NewString(),
		Price:      6500,
		Stock:      20,
	}
	require.NoError(t, db.Create(&p).Error)

	return customer.ID, p.ID
}

func requireErrorKind(t *testing.T, err error, kind apperrors.Kind) {
	t.Helper()
	var appErr *apperrors.Error
	require.True(t, errors.As(err, &appErr), "expected categorized error, got %v", err)
	assert.Equal(t, kind, appErr.Kind)
}

func TestAddItem_AccumulatesQuantity(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	customerID, productID := seedCustomerAndProduct(t, db)

	item, err := svc.AddItem(context.Background(), customerID, productID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)

	// Adding the same product again tops up the existing line
	item, err = svc.AddItem(context.Background(), customerID, productID, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, item.Quantity)

	items, err := svc.Items(context.Background(), customerID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Rice 5kg", items[0].Product.Name)
}

func TestAddItem_Validation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	customerID, productID := seedCustomerAndProduct(t, db)

	_, err := svc.AddItem(context.Background(), customerID, productID, 0)
	requireErrorKind(t, err, apperrors.KindBadRequest)

	_, err = svc.AddItem(context.Background(), customerID, uuid.New(), 1)
	requireErrorKind(t, err, apperrors.KindNotFound)
}

func TestUpdateAndRemoveItem(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	customerID, productID := seedCustomerAndProduct(t, db)

	item, err := svc.AddItem(context.Background(), customerID, productID, 1)
	require.NoError(t, err)

	updated, err := svc.UpdateItem(context.Background(), customerID, item.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Quantity)

	// Another customer cannot touch the item
	_, err = svc.UpdateItem(context.Background(), uuid.New(), item.ID, 1)
	requireErrorKind(t, err, apperrors.KindUnauthorized)

	require.NoError(t, svc.RemoveItem(context.Background(), customerID, item.ID))

	items, err := svc.Items(context.Background(), customerID)
	require.NoError(t, err)
	assert.Empty(t, items)
}
