package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/sokohub/backend/internal/apperrors"
	"github.com/sokohub/backend/internal/database"
	"github.com/sokohub/backend/internal/utils"
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

func requireErrorKind(t *testing.T, err error, kind apperrors.Kind) {
	t.Helper()
	var appErr *apperrors.Error
	require.True(t, errors.As(err, &appErr), "expected categorized error, got %v", err)
	assert.Equal(t, kind, appErr.Kind)
}

func TestRegisterCustomerAndLogin(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	customer, token, err := svc.RegisterCustomer(context.Background(), RegisterCustomerInput{
		Email:     "Chidi@Example.com",
		Password:  "secret123",
		FirstName: "Chidi",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "chidi@example.com", customer.Email)
	assert.NotEqual(t, "secret123", customer.Password)

	loginToken, id, err := svc.Login(context.Background(), utils.RoleCustomer, "chidi@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, customer.ID, id)

	claims, err := utils.ValidateToken(loginToken)
	require.NoError(t, err)
	assert.Equal(t, utils.RoleCustomer, claims.Role)
	assert.Equal(t, customer.ID, claims.UserID)
}

func TestRegisterCustomer_DuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	_, _, err := svc.RegisterCustomer(context.Background(), RegisterCustomerInput{Email: "ada@example.com", Password: "pw"})
	require.NoError(t, err)

	_, _, err = svc.RegisterCustomer(context.Background(), RegisterCustomerInput{Email: "ADA@example.com", Password: "pw"})
	requireErrorKind(t, err, apperrors.KindBadRequest)
}

func TestRegisterMerchant_WithReferralCode(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	marketer, _, err := svc.RegisterMarketer(context.Background(), RegisterMarketerInput{
		Email:    "tunde@example.com",
		Password: "pw",
	})
	require.NoError(t, err)
	require.NotEmpty(t, marketer.ReferralCode)

	merchant, _, err := svc.RegisterMerchant(context.Background(), RegisterMerchantInput{
		Email:        "shop@example.com",
		Password:     "pw",
		BusinessName: "Tunde Electronics",
		ReferralCode: marketer.ReferralCode,
	})
	require.NoError(t, err)
	require.NotNil(t, merchant.ReferredByID)
	assert.Equal(t, marketer.ID, *merchant.ReferredByID)
	assert.Equal(t, "tunde-electronics", merchant.Slug)
}

func TestRegisterMerchant_UnknownReferralCode(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	_, _, err := svc.RegisterMerchant(context.Background(), RegisterMerchantInput{
		Email:        "shop@example.com",
		Password:     "pw",
		BusinessName: "Nameless Stores",
		ReferralCode: "MKT-DOES-NOT-EXIST",
	})
	requireErrorKind(t, err, apperrors.KindBadRequest)
}

func TestRegisterMerchant_SlugCollision(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	first, _, err := svc.RegisterMerchant(context.Background(), RegisterMerchantInput{
		Email:        "one@example.com",
		Password:     "pw",
		BusinessName: "Golden Stores",
	})
	require.NoError(t, err)
	assert.Equal(t, "golden-stores", first.Slug)

	second, _, err := svc.RegisterMerchant(context.Background(), RegisterMerchantInput{
		Email:        "two@example.com",
		Password:     "pw",
		BusinessName: "Golden Stores",
	})
	require.NoError(t, err)
	assert.Equal(t, "golden-stores-2", second.Slug)
}

func TestRegisterMerchant_MissingMarket(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	missing := uuid.New()
	_, _, err := svc.RegisterMerchant(context.Background(), RegisterMerchantInput{
		Email:        "shop@example.com",
		Password:     "pw",
		BusinessName: "Lost Stores",
		MarketID:     &missing,
	})
	requireErrorKind(t, err, apperrors.KindNotFound)
}

func TestLogin_WrongPassword(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	_, _, err := svc.RegisterCustomer(context.Background(), RegisterCustomerInput{Email: "ada@example.com", Password: "right"})
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), utils.RoleCustomer, "ada@example.com", "wrong")
	requireErrorKind(t, err, apperrors.KindUnauthorized)
}

func TestLogin_UnknownEmailAndRole(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	_, _, err := svc.Login(context.Background(), utils.RoleMerchant, "nobody@example.com", "pw")
	requireErrorKind(t, err, apperrors.KindUnauthorized)

	_, _, err = svc.Login(context.Background(), "admin", "nobody@example.com", "pw")
	requireErrorKind(t, err, apperrors.KindBadRequest)
}
