package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hyvacanteen/canteen-coupon-backend/internal/middleware"
	"github.com/hyvacanteen/canteen-coupon-backend/internal/models"
	"github.com/hyvacanteen/canteen-coupon-backend/internal/services"
	"github.com/hyvacanteen/canteen-coupon-backend/pkg/jwt"
)

// GuestRequestHandler handles the guest coupon approval workflow
type GuestRequestHandler struct {
	guestRequestService *services.GuestRequestService
}

// NewGuestRequestHandler creates a new guest request handler
func NewGuestRequestHandler(guestRequestService *services.GuestRequestService) *GuestRequestHandler {
	return &GuestRequestHandler{guestRequestService: guestRequestService}
}

// CreateGuestRequestRequest represents an employee asking for a guest coupon
type CreateGuestRequestRequest struct {
	GuestName    string            `json:"guestName" binding:"required"`
	GuestCompany string            `json:"guestCompany"`
	CouponType   models.CouponType `json:"couponType" binding:"required"`
}

// Create handles POST /api/v1/guest-requests
func (h *GuestRequestHandler) Create(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists || userCtx.ActorType != jwt.ActorEmployee {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "Only employees can request guest coupons",
		})
		return
	}

	var req CreateGuestRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "Guest name and coupon type are required")
		return
	}

	request, err := h.guestRequestService.Create(userCtx.ActorID, req.GuestName, req.GuestCompany, req.CouponType)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, request)
}

// List handles GET /api/v1/guest-requests
func (h *GuestRequestHandler) List(c *gin.Context) {
	requests, err := h.guestRequestService.List()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// Approve handles POST /api/v1/guest-requests/:id/approve
func (h *GuestRequestHandler) Approve(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidation(c, "Invalid request id")
		return
	}

	request, err := h.guestRequestService.Approve(requestID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Guest request approved.",
		"request": request,
	})
}

// Reject handles POST /api/v1/guest-requests/:id/reject
func (h *GuestRequestHandler) Reject(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidation(c, "Invalid request id")
		return
	}

	request, err := h.guestRequestService.Reject(requestID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Guest request rejected.",
		"request": request,
	})
}
