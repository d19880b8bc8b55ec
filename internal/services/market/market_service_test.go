package market

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

func TestCreate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	m, err := svc.Create(context.Background(), "Onitsha Main Market", "Onitsha", "Largest market in West Africa")
	require.NoError(t, err)
	assert.Equal(t, "onitsha-main-market", m.Slug)

	// Duplicate names collide on the slug
	_, err = svc.Create(context.Background(), "Onitsha Main Market", "Elsewhere", "")
	var appErr *apperrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.KindBadRequest, appErr.Kind)
}

func TestGetBySlug_WithMerchants(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	m, err := svc.Create(context.Background(), "Kurmi Market", "Kano", "")
	require.NoError(t, err)

	merchant := models.Merchant{
		ID:           uuid.New(),
		Email:        "dankano@example.com",
		Password:     "x",
		BusinessName: "Dan Kano Leather",
		Slug:         "dan-kano-leather",
		MarketID:     &m.ID,
	}
	require.NoError(t, db.Create(&merchant).Error)

	got, err := svc.GetBySlug(context.Background(), "kurmi-market")
	require.NoError(t, err)
	require.Len(t, got.Merchants, 1)
	assert.Equal(t, "Dan Kano Leather", got.Merchants[0].BusinessName)

	_, err = svc.GetBySlug(context.Background(), "no-such-market")
	var appErr *apperrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.KindNotFound, appErr.Kind)
}

func TestList(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	for _, name := range []string{"Mile 12 Market", "Ariaria Market"} {
		_, err := svc.Create(context.Background(), name, "", "")
		require.NoError(t, err)
	}

	markets, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, markets, 2)
	// Ordered by name
	assert.Equal(t, "Ariaria Market", markets[0].Name)
}
