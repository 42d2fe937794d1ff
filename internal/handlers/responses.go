package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hyvacanteen/canteen-coupon-backend/internal/services"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// MessageResponse represents a simple success acknowledgement
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// respondServiceError translates a service failure into the matching HTTP
// status. Unknown errors are reported as internal failures without leaking
// the underlying cause.
func respondServiceError(c *gin.Context, err error) {
	kind := services.KindOf(err)
	message := services.MessageOf(err)

	switch kind {
	case services.KindNotFound:
		c.JSON(http.StatusNotFound, ErrorResponse{Error: string(kind), Message: message})
	case services.KindInvalidState, services.KindInsufficientPool:
		c.JSON(http.StatusConflict, ErrorResponse{Error: string(kind), Message: message})
	case services.KindValidation:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: string(kind), Message: message})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: string(services.KindTransient), Message: message})
	}
}

func respondValidation(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "validation_error",
		Message: message,
	})
}
