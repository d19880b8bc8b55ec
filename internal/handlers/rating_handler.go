package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sokohub/backend/internal/middleware"
	"github.com/sokohub/backend/internal/services/rating"
)

// RatingHandler handles product rating requests
type RatingHandler struct {
	ratingService *rating.Service
}

// NewRatingHandler creates a new rating handler
func NewRatingHandler(ratingService *rating.Service) *RatingHandler {
	return &RatingHandler{ratingService: ratingService}
}

// RateProductRequest represents a request to rate a product
type RateProductRequest struct {
	Stars   int    `json:"stars" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// RateProduct records the authenticated customer's rating of a product
func (h *RatingHandler) RateProduct(c *gin.Context) {
	customerID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	var req RateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	r, err := h.ratingService.Rate(c.Request.Context(), customerID, productID, req.Stars, req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"rating": r,
	})
}

// ListRatings lists a product's ratings with their average
func (h *RatingHandler) ListRatings(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	ratings, average, err := h.ratingService.ForProduct(c.Request.Context(), productID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"ratings": ratings,
		"average": average,
	})
}
