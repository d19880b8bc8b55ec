package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer represents a buyer in the marketplace
type Customer struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	FirstName string         `json:"first_name"`
	LastName  string         `json:"last_name"`
	Phone     string         `json:"phone"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	CartItems []CartItem `json:"cart_items,omitempty"`
	Ratings   []Rating   `json:"ratings,omitempty"`
}

// Merchant represents a seller operating inside a market
type Merchant struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	Password     string         `gorm:"not null" json:"-"`
	BusinessName string         `gorm:"not null" json:"business_name"`
	Slug         string         `gorm:"uniqueIndex" json:"slug"`
	Phone        string         `json:"phone"`
	MarketID     *uuid.UUID     `gorm:"type:uuid" json:"market_id"`
	ReferredByID *uuid.UUID     `gorm:"type:uuid" json:"referred_by_id"` // marketer who referred this merchant
	Verified     bool           `gorm:"default:false" json:"verified"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Products []Product `json:"products,omitempty"`
}

// Marketer represents an affiliate whose referral code earns commission
// on the ad spend of merchants they brought onto the platform
type Marketer struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	Password     string         `gorm:"not null" json:"-"`
	FirstName    string         `json:"first_name"`
	LastName     string         `json:"last_name"`
	Phone        string         `json:"phone"`
	ReferralCode string         `gorm:"uniqueIndex" json:"referral_code"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Earnings []MarketerEarning `json:"earnings,omitempty"`
}
