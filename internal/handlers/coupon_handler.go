package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hyvacanteen/canteen-coupon-backend/internal/database"
	"github.com/hyvacanteen/canteen-coupon-backend/internal/services"
	"github.com/hyvacanteen/canteen-coupon-backend/internal/utils"
	"github.com/hyvacanteen/canteen-coupon-backend/pkg/validator"
)

// CouponHandler handles ledger-wide coupon requests and redemption
type CouponHandler struct {
	couponService     *services.CouponService
	redemptionService *services.RedemptionService
	logRepo           *database.RedemptionLogRepository
	codeValidator     *validator.CodeValidator
}

// NewCouponHandler creates a new coupon handler
func NewCouponHandler(
	couponService *services.CouponService,
	redemptionService *services.RedemptionService,
	logRepo *database.RedemptionLogRepository,
	codeValidator *validator.CodeValidator,
) *CouponHandler {
	return &CouponHandler{
		couponService:     couponService,
		redemptionService: redemptionService,
		logRepo:           logRepo,
		codeValidator:     codeValidator,
	}
}

// RedeemRequest represents a redemption attempt by code
type RedeemRequest struct {
	Code string `json:"code" binding:"required"`
}

// List handles GET /api/v1/coupons
func (h *CouponHandler) List(c *gin.Context) {
	coupons, err := h.couponService.ListAll()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"coupons": coupons})
}

// Redeem handles POST /api/v1/coupons/redeem. The outcome always comes back
// as 200 with a success flag; a malformed or unknown code is a recorded
// failed attempt, not a request error.
func (h *CouponHandler) Redeem(c *gin.Context) {
	var req RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "Redemption code is required")
		return
	}

	code := h.codeValidator.Sanitize(req.Code)
	meta := services.AttemptMeta{
		IPAddress:  utils.GetRealIP(c.Request),
		DeviceInfo: utils.DeviceSummary(utils.GetUserAgent(c.Request)),
	}

	result := h.redemptionService.RedeemByCode(code, meta)
	c.JSON(http.StatusOK, result)
}

// Delete handles DELETE /api/v1/coupons/:id
func (h *CouponHandler) Delete(c *gin.Context) {
	couponID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidation(c, "Invalid coupon id")
		return
	}

	if err := h.couponService.Remove(couponID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "Coupon deleted."})
}

// ListRedemptionLogs handles GET /api/v1/logs/redemptions
func (h *CouponHandler) ListRedemptionLogs(c *gin.Context) {
	logs, err := h.logRepo.ListAll()
	if err != nil {
		respondServiceError(c, services.TransientError("Failed to retrieve redemption logs.", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"logs": logs})
}
