package utils

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AdPaymentReferencePrefix is prepended to the transaction id to form the
// reference sent to the payment gateway.
const AdPaymentReferencePrefix = "txn-"

// AdPaymentReference builds the gateway reference for an ad payment transaction
func AdPaymentReference(transactionID uuid.UUID) string {
	return AdPaymentReferencePrefix + transactionID.String()
}

// ParseAdPaymentReference strips the gateway reference prefix and parses the
// embedded transaction id
func ParseAdPaymentReference(reference string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimPrefix(reference, AdPaymentReferencePrefix))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid payment reference %q: %w", reference, err)
	}
	return id, nil
}

// GenerateCode generates a short unique code with a prefix, used for
// marketer referral codes
func GenerateCode(prefix string) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, 8)
	for i := range result {
		result[i] = charset[rand.Intn(len(charset))]
	}

	timestamp := time.Now().Format("20060102")
	return fmt.Sprintf("%s_%s_%s", prefix, timestamp, string(result))
}
