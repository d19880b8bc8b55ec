package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/sokohub/backend/internal/apperrors"
	"github.com/sokohub/backend/internal/models"
	"github.com/sokohub/backend/internal/utils"
	"gorm.io/gorm"
)

// Service handles account registration and login for all tenant types
type Service struct {
	db *gorm.DB
}

// NewService creates a new auth service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// RegisterCustomerInput holds customer signup fields
type RegisterCustomerInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

// RegisterCustomer creates a customer account and returns a signed token
func (s *Service) RegisterCustomer(ctx context.Context, input RegisterCustomerInput) (*models.Customer, string, error) {
	if err := s.checkEmailFree(ctx, &models.Customer{}, input.Email); err != nil {
		return nil, "", err
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	customer := models.Customer{
		ID:        uuid.New(),
		Email:     strings.ToLower(input.Email),
		Password:  hash,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
	}
	if err := s.db.WithContext(ctx).Create(&customer).Error; err != nil {
		return nil, "", fmt.Errorf("failed to create customer: %w", err)
	}

	token, err := utils.GenerateToken(customer.ID, customer.Email, utils.RoleCustomer)
	if err != nil {
		return nil, "", fmt.Errorf("failed to sign token: %w", err)
	}
	return &customer, token, nil
}

// RegisterMerchantInput holds merchant signup fields. ReferralCode optionally
// attaches the marketer who referred this merchant.
type RegisterMerchantInput struct {
	Email        string
	Password     string
	BusinessName string
	Phone        string
	MarketID     *uuid.UUID
	ReferralCode string
}

// RegisterMerchant creates a merchant account and returns a signed token
func (s *Service) RegisterMerchant(ctx context.Context, input RegisterMerchantInput) (*models.Merchant, string, error) {
	if err := s.checkEmailFree(ctx, &models.Merchant{}, input.Email); err != nil {
		return nil, "", err
	}

	var referredBy *uuid.UUID
	if input.ReferralCode != "" {
		var marketer models.Marketer
		err := s.db.WithContext(ctx).Where("referral_code = ?", input.ReferralCode).First(&marketer).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, "", apperrors.BadRequest("unknown referral code")
			}
			return nil, "", fmt.Errorf("failed to look up referral code: %w", err)
		}
		referredBy = &marketer.ID
	}

	if input.MarketID != nil {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Market{}).Where("id = ?", *input.MarketID).Count(&count).Error; err != nil {
			return nil, "", fmt.Errorf("failed to look up market: %w", err)
		}
		if count == 0 {
			return nil, "", apperrors.NotFound("market not found")
		}
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	merchant := models.Merchant{
		ID:           uuid.New(),
		Email:        strings.ToLower(input.Email),
		Password:     hash,
		BusinessName: input.BusinessName,
		Slug:         s.uniqueMerchantSlug(ctx, input.BusinessName),
		Phone:        input.Phone,
		MarketID:     input.MarketID,
		ReferredByID: referredBy,
	}
	if err := s.db.WithContext(ctx).Create(&merchant).Error; err != nil {
		return nil, "", fmt.Errorf("failed to create merchant: %w", err)
	}

	token, err := utils.GenerateToken(merchant.ID, merchant.Email, utils.RoleMerchant)
	if err != nil {
		return nil, "", fmt.Errorf("failed to sign token: %w", err)
	}
	return &merchant, token, nil
}

// RegisterMarketerInput holds marketer signup fields
type RegisterMarketerInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

// RegisterMarketer creates a marketer account with a fresh referral code
func (s *Service) RegisterMarketer(ctx context.Context, input RegisterMarketerInput) (*models.Marketer, string, error) {
	if err := s.checkEmailFree(ctx, &models.Marketer{}, input.Email); err != nil {
		return nil, "", err
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	marketer := models.Marketer{
		ID:           uuid.New(),
		Email:        strings.ToLower(input.Email),
		Password:     hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Phone:        input.Phone,
		ReferralCode: utils.GenerateCode("MKT"),
	}
	if err := s.db.WithContext(ctx).Create(&marketer).Error; err != nil {
		return nil, "", fmt.Errorf("failed to create marketer: %w", err)
	}

	token, err := utils.GenerateToken(marketer.ID, marketer.Email, utils.RoleMarketer)
	if err != nil {
		return nil, "", fmt.Errorf("failed to sign token: %w", err)
	}
	return &marketer, token, nil
}

// Login authenticates an account of the given role and returns a signed token
func (s *Service) Login(ctx context.Context, role, email, password string) (string, uuid.UUID, error) {
	email = strings.ToLower(email)

	var (
		id   uuid.UUID
		hash string
	)
	switch role {
	case utils.RoleCustomer:
		var customer models.Customer
		if err := s.db.WithContext(ctx).Where("email = ?", email).First(&customer).Error; err != nil {
			return "", uuid.Nil, apperrors.Unauthorized("invalid credentials")
		}
		id, hash = customer.ID, customer.Password
	case utils.RoleMerchant:
		var merchant models.Merchant
		if err := s.db.WithContext(ctx).Where("email = ?", email).First(&merchant).Error; err != nil {
			return "", uuid.Nil, apperrors.Unauthorized("invalid credentials")
		}
		id, hash = merchant.ID, merchant.Password
	case utils.RoleMarketer:
		var marketer models.Marketer
		if err := s.db.WithContext(ctx).Where("email = ?", email).First(&marketer).Error; err != nil {
			return "", uuid.Nil, apperrors.Unauthorized("invalid credentials")
		}
		id, hash = marketer.ID, marketer.Password
	default:
		return "", uuid.Nil, apperrors.BadRequest("unknown account role")
	}

	if !utils.CheckPasswordHash(password, hash) {
		return "", uuid.Nil, apperrors.Unauthorized("invalid credentials")
	}

	token, err := utils.GenerateToken(id, email, role)
	if err != nil {
		return "", uuid.Nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, id, nil
}

// checkEmailFree fails with BadRequest when the email is already registered
// for the given account model
func (s *Service) checkEmailFree(ctx context.Context, model interface{}, email string) error {
	var count int64
	err := s.db.WithContext(ctx).Model(model).Where("email = ?", strings.ToLower(email)).Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if count > 0 {
		return apperrors.BadRequest("email already registered")
	}
	return nil
}

func (s *Service) uniqueMerchantSlug(ctx context.Context, businessName string) string {
	base := slug.Make(businessName)
	candidate := base
	for i := 2; ; i++ {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Merchant{}).Where("slug = ?", candidate).Count(&count).Error; err != nil || count == 0 {
			return candidate
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
