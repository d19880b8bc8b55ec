package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Market represents a physical or virtual market merchants trade in
type Market struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	Slug        string         `gorm:"uniqueIndex" json:"slug"`
	Location    string         `json:"location"`
	Description string         `json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Merchants []Merchant `json:"merchants,omitempty"`
}
