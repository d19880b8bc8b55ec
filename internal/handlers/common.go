package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sokohub/backend/internal/apperrors"
)

// respondError writes a categorized error response. Domain errors keep their
// message; unexpected errors are logged and masked.
func respondError(c *gin.Context, err error) {
	apperrors.Respond(c, err)
}
