package models

import (
	"time"

	"github.com/google/uuid"
)

// TransactionPurpose identifies what a transaction pays for
type TransactionPurpose string

const (
	TransactionForAdvertisement TransactionPurpose = "ADVERTISEMENT"
	TransactionForOrder         TransactionPurpose = "ORDER"
)

// TransactionStatus is the payment state of a transaction
type TransactionStatus string

const (
	TransactionStatusInitialized TransactionStatus = "INITIALIZED"
	TransactionStatusPending     TransactionStatus = "PENDING"
	TransactionStatusSuccess     TransactionStatus = "SUCCESS"
	TransactionStatusExpired     TransactionStatus = "EXPIRED"
)

// Transaction represents a payment transaction. Amount is in minor currency
// units. Reference holds the id of the record the payment is for (the ad id
// for advertisement transactions).
type Transaction struct {
	ID        uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	Amount    int64              `json:"amount"`
	For       TransactionPurpose `gorm:"column:purpose" json:"for"`
	Status    TransactionStatus  `gorm:"default:INITIALIZED" json:"status"`
	Reference string             `gorm:"index" json:"reference"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// MarketerEarning represents referral commission owed to a marketer for a
// merchant's paid ad. The unique index on AdID guarantees at most one
// commission per ad even under concurrent payment verification.
type MarketerEarning struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	MarketerID uuid.UUID `gorm:"type:uuid;not null;index" json:"marketer_id"`
	MerchantID uuid.UUID `gorm:"type:uuid;not null" json:"merchant_id"`
	AdID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"ad_id"`
	Amount     int64     `json:"amount"`
	Paid       bool      `gorm:"default:false" json:"paid"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
