package cache

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/sokohub/backend/internal/config"
	"github.com/sokohub/backend/internal/models"
	"gorm.io/gorm"
)

// Redis hash keys buffering impression counters before they are flushed to
// the ad rows
const (
	viewsKey  = "ads:views"
	clicksKey = "ads:clicks"
)

// Counters buffers ad view/click increments in Redis so that hot listing
// endpoints don't issue a database write per impression. A sweep job flushes
// the buffered counts into the Ad rows.
type Counters struct {
	client *redis.Client
}

// NewCounters creates a counter buffer backed by a new Redis client
func NewCounters(cfg config.RedisConfig) *Counters {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.URL,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &Counters{client: client}
}

// NewCountersWithClient creates a counter buffer around an existing client
func NewCountersWithClient(client *redis.Client) *Counters {
	return &Counters{client: client}
}

// IncrView buffers one view for an ad
func (c *Counters) IncrView(ctx context.Context, adID uuid.UUID) error {
	return c.client.HIncrBy(ctx, viewsKey, adID.String(), 1).Err()
}

// IncrClick buffers one click for an ad
func (c *Counters) IncrClick(ctx context.Context, adID uuid.UUID) error {
	return c.client.HIncrBy(ctx, clicksKey, adID.String(), 1).Err()
}

// Flush drains the buffered counters into the ad rows. Each hash is renamed
// aside first so increments arriving during the flush land in a fresh buffer.
func (c *Counters) Flush(ctx context.Context, db *gorm.DB) error {
	if err := c.flushKey(ctx, db, viewsKey, "ad_views"); err != nil {
		return err
	}
	return c.flushKey(ctx, db, clicksKey, "ad_clicks")
}

func (c *Counters) flushKey(ctx context.Context, db *gorm.DB, key, column string) error {
	drainKey := key + ":draining"
	if err := c.client.Rename(ctx, key, drainKey).Err(); err != nil {
		if err == redis.Nil || err.Error() == "ERR no such key" {
			return nil
		}
		return fmt.Errorf("failed to rotate counter key %s: %w", key, err)
	}

	counts, err := c.client.HGetAll(ctx, drainKey).Result()
	if err != nil {
		return fmt.Errorf("failed to read counter key %s: %w", drainKey, err)
	}

	for id, raw := range counts {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			continue
		}
		err = db.Model(&models.Ad{}).
			Where("id = ?", id).
			UpdateColumn(column, gorm.Expr(column+" + ?", n)).Error
		if err != nil {
			log.Printf("failed to flush %s counter for ad %s: %v", column, id, err)
		}
	}

	return c.client.Del(ctx, drainKey).Err()
}

// Close closes the underlying Redis client
func (c *Counters) Close() error {
	return c.client.Close()
}
