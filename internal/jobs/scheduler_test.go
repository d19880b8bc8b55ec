package jobs

import (
	"context"
	"fmt"
	"testing"
	"time"

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

func createTransaction(t *testing.T, db *gorm.DB, status models.TransactionStatus, age time.Duration) models.Transaction {
	txn := models.Transaction{
		ID:        uuid.New(),
		Amount:    1000,
		For:       models.TransactionForAdvertisement,
		Status:    status,
		Reference: uuid.NewString(),
		CreatedAt: time.Now().Add(-age),
	}
	require.NoError(t, db.Create(&txn).Error)
	return txn
}

func TestExpireStaleTransactions(t *testing.T) {
	db := setupTestDB(t)

	stale := createTransaction(t, db, models.TransactionStatusInitialized, 25*time.Hour)
	fresh := createTransaction(t, db, models.TransactionStatusInitialized, time.Hour)
	settled := createTransaction(t, db, models.TransactionStatusSuccess, 48*time.Hour)
	pending := createTransaction(t, db, models.TransactionStatusPending, 48*time.Hour)

	expired, err := ExpireStaleTransactions(context.Background(), db, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), expired)

	statuses := map[uuid.UUID]models.TransactionStatus{
		stale.ID:   models.TransactionStatusExpired,
		fresh.ID:   models.TransactionStatusInitialized,
		settled.ID: models.TransactionStatusSuccess,
		pending.ID: models.TransactionStatusPending,
	}
	for id, want := range statuses {
		var got models.Transaction
		require.NoError(t, db.First(&got, "id = ?", id).Error)
		assert.Equal(t, want, got.Status, "transaction %s", id)
	}

	// A second sweep finds nothing left to expire
	expired, err = ExpireStaleTransactions(context.Background(), db, 24*time.Hour)
	require.NoError(t, err)
	assert.Zero(t, expired)
}
