package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sokohub/backend/internal/services/market"
)

// MarketHandler handles market requests
type MarketHandler struct {
	marketService *market.Service
}

// NewMarketHandler creates a new market handler
func NewMarketHandler(marketService *market.Service) *MarketHandler {
	return &MarketHandler{marketService: marketService}
}

// CreateMarketRequest represents a request to create a market
type CreateMarketRequest struct {
	Name        string `json:"name" binding:"required"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

// CreateMarket registers a new market
func (h *MarketHandler) CreateMarket(c *gin.Context) {
	var req CreateMarketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	m, err := h.marketService.Create(c.Request.Context(), req.Name, req.Location, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"market": m,
	})
}

// ListMarkets lists all markets
func (h *MarketHandler) ListMarkets(c *gin.Context) {
	markets, err := h.marketService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"markets": markets,
	})
}

// GetMarket returns a market by slug
func (h *MarketHandler) GetMarket(c *gin.Context) {
	m, err := h.marketService.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"market": m,
	})
}
