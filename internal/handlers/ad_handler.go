package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sokohub/backend/internal/middleware"
	"github.com/sokohub/backend/internal/services/ad"
)

// AdHandler handles advertisement lifecycle requests
type AdHandler struct {
	adService *ad.Service
}

// NewAdHandler creates a new ad handler
func NewAdHandler(adService *ad.Service) *AdHandler {
	return &AdHandler{adService: adService}
}

// ActivateFreeAd activates a free-tier ad for one of the merchant's products
func (h *AdHandler) ActivateFreeAd(c *gin.Context) {
	merchantID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	newAd, err := h.adService.ActivateFreeAd(c.Request.Context(), productID, merchantID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"ad":     newAd,
	})
}

// InitializeAdPayment creates a paid-tier ad and returns the checkout payload
func (h *AdHandler) InitializeAdPayment(c *gin.Context) {
	merchantID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	level, err := strconv.Atoi(c.Param("level"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ad level"})
		return
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	result, err := h.adService.InitializeAdPayment(c.Request.Context(), level, productID, merchantID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":      "success",
		"ad":          result.Ad,
		"transaction": result.Transaction,
		"payment":     result.Payment,
	})
}

// VerifyAdPayment settles an ad payment by gateway reference. This is the
// redirect target after checkout, so it is unauthenticated.
func (h *AdHandler) VerifyAdPayment(c *gin.Context) {
	txn, err := h.adService.VerifyAdPayment(c.Request.Context(), c.Param("reference"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "success",
		"transaction": txn,
	})
}

// ActiveAds lists currently visible ads
func (h *AdHandler) ActiveAds(c *gin.Context) {
	ads, err := h.adService.ActiveAds(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"ads":    ads,
	})
}

// RecordView counts a view impression for an ad
func (h *AdHandler) RecordView(c *gin.Context) {
	adID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ad id"})
		return
	}

	if err := h.adService.RecordView(c.Request.Context(), adID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// RecordClick counts a click impression for an ad
func (h *AdHandler) RecordClick(c *gin.Context) {
	adID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ad id"})
		return
	}

	if err := h.adService.RecordClick(c.Request.Context(), adID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
