package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sokohub/backend/internal/services/auth"
	"github.com/sokohub/backend/internal/utils"
)

// AuthHandler handles signup and login for all account types
type AuthHandler struct {
	authService *auth.Service
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// SignupCustomerRequest represents a customer signup request
type SignupCustomerRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Phone     string `json:"phone"`
}

// SignupCustomer creates a customer account
func (h *AuthHandler) SignupCustomer(c *gin.Context) {
	var req SignupCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer, token, err := h.authService.RegisterCustomer(c.Request.Context(), auth.RegisterCustomerInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":   "success",
		"customer": customer,
		"token":    token,
	})
}

// SignupMerchantRequest represents a merchant signup request
type SignupMerchantRequest struct {
	Email        string     `json:"email" binding:"required,email"`
	Password     string     `json:"password" binding:"required,min=8"`
	BusinessName string     `json:"business_name" binding:"required"`
	Phone        string     `json:"phone"`
	MarketID     *uuid.UUID `json:"market_id"`
	ReferralCode string     `json:"referral_code"`
}

// SignupMerchant creates a merchant account, optionally crediting a marketer's
// referral code
func (h *AuthHandler) SignupMerchant(c *gin.Context) {
	var req SignupMerchantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	merchant, token, err := h.authService.RegisterMerchant(c.Request.Context(), auth.RegisterMerchantInput{
		Email:        req.Email,
		Password:     req.Password,
		BusinessName: req.BusinessName,
		Phone:        req.Phone,
		MarketID:     req.MarketID,
		ReferralCode: req.ReferralCode,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":   "success",
		"merchant": merchant,
		"token":    token,
	})
}

// SignupMarketerRequest represents a marketer signup request
type SignupMarketerRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Phone     string `json:"phone"`
}

// SignupMarketer creates a marketer account with a fresh referral code
func (h *AuthHandler) SignupMarketer(c *gin.Context) {
	var req SignupMarketerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	marketer, token, err := h.authService.RegisterMarketer(c.Request.Context(), auth.RegisterMarketerInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":   "success",
		"marketer": marketer,
		"token":    token,
	})
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginCustomer authenticates a customer
func (h *AuthHandler) LoginCustomer(c *gin.Context) {
	h.login(c, utils.RoleCustomer)
}

// LoginMerchant authenticates a merchant
func (h *AuthHandler) LoginMerchant(c *gin.Context) {
	h.login(c, utils.RoleMerchant)
}

// LoginMarketer authenticates a marketer
func (h *AuthHandler) LoginMarketer(c *gin.Context) {
	h.login(c, utils.RoleMarketer)
}

func (h *AuthHandler) login(c *gin.Context, role string) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, id, err := h.authService.Login(c.Request.Context(), role, req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"user_id": id,
		"token":   token,
	})
}
