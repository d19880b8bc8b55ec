package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sokohub/backend/internal/middleware"
	"github.com/sokohub/backend/internal/services/earnings"
)

// MarketerHandler handles marketer-facing requests
type MarketerHandler struct {
	earningsService *earnings.Service
}

// NewMarketerHandler creates a new marketer handler
func NewMarketerHandler(earningsService *earnings.Service) *MarketerHandler {
	return &MarketerHandler{earningsService: earningsService}
}

// GetEarnings lists the authenticated marketer's referral commission
func (h *MarketerHandler) GetEarnings(c *gin.Context) {
	marketerID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	list, total, err := h.earningsService.ForMarketer(c.Request.Context(), marketerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "success",
		"earnings": list,
		"total":    total,
	})
}
