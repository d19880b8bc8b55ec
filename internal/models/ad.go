package models

import (
	"time"

	"github.com/google/uuid"
)

// Ad levels. Level 0 is the free tier; levels 1-3 are paid tiers with
// increasing price and visibility duration.
const (
	AdLevelFree = 0
	AdLevelMax  = 3
)

// Ad represents an advertisement slot for a product. A paid ad's ExpiresAt
// stays nil until its payment is verified; an ad is visible while ExpiresAt
// is set and in the future. Expired ads are filtered at query time, never
// deleted.
type Ad struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID uuid.UUID  `gorm:"type:uuid;not null;index" json:"product_id"`
	Level     int        `gorm:"default:0" json:"level"`
	ExpiresAt *time.Time `json:"expires_at"`
	PaidFor   bool       `gorm:"default:false" json:"paid_for"`
	AdViews   int64      `gorm:"default:0" json:"ad_views"`
	AdClicks  int64      `gorm:"default:0" json:"ad_clicks"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	// Relationships
	Product Product `json:"product,omitempty"`
}

// Active reports whether the ad is currently visible
func (a *Ad) Active(now time.Time) bool {
	return a.ExpiresAt != nil && a.ExpiresAt.After(now)
}
