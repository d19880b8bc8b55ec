package jobs

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sokohub/backend/internal/cache"
	"github.com/sokohub/backend/internal/models"
	"gorm.io/gorm"
)

// Checkouts abandoned for longer than this are expired by the sweep
const staleTransactionAge = 24 * time.Hour

// StartScheduler starts the recurring maintenance sweep: flushing buffered
// ad impression counters into the database and expiring abandoned checkout
// transactions, once a minute.
func StartScheduler(db *gorm.DB, counters *cache.Counters) (*gocron.Scheduler, error) {
	scheduler := gocron.NewScheduler(time.UTC)

	_, err := scheduler.Every(1).Minute().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := counters.Flush(ctx, db); err != nil {
			log.Printf("failed to flush ad impression counters: %v", err)
		}

		expired, err := ExpireStaleTransactions(ctx, db, staleTransactionAge)
		if err != nil {
			log.Printf("failed to expire stale transactions: %v", err)
		} else if expired > 0 {
			log.Printf("expired %d stale transactions", expired)
		}
	})
	if err != nil {
		return nil, err
	}

	scheduler.StartAsync()
	return scheduler, nil
}

// ExpireStaleTransactions marks INITIALIZED transactions older than the given
// age as EXPIRED so abandoned checkouts can no longer be settled. Returns the
// number of transactions expired.
func ExpireStaleTransactions(ctx context.Context, db *gorm.DB, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	result := db.WithContext(ctx).Model(&models.Transaction{}).
		Where("status = ? AND created_at < ?", models.TransactionStatusInitialized, cutoff).
		Update("status", models.TransactionStatusExpired)
	return result.RowsAffected, result.Error
}
