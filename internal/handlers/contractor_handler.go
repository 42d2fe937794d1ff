package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/hyvacanteen/canteen-coupon-backend/internal/database"
	"github.com/hyvacanteen/canteen-coupon-backend/internal/models"
	"github.com/hyvacanteen/canteen-coupon-backend/internal/services"
)

// ContractorHandler handles contractor management and pool operations
type ContractorHandler struct {
	contractorRepo    *database.ContractorRepository
	allocationService *services.AllocationService
	authService       *services.AuthService
	logger            *logrus.Logger
}

// NewContractorHandler creates a new contractor handler
func NewContractorHandler(
	contractorRepo *database.ContractorRepository,
	allocationService *services.AllocationService,
	authService *services.AuthService,
	logger *logrus.Logger,
) *ContractorHandler {
	return &ContractorHandler{
		contractorRepo:    contractorRepo,
		allocationService: allocationService,
		authService:       authService,
		logger:            logger,
	}
}

// CreateContractorRequest represents a new contractor record
type CreateContractorRequest struct {
	Name         string `json:"name" binding:"required"`
	BusinessName string `json:"businessName" binding:"required"`
	ContractorID string `json:"contractorId" binding:"required"`
	Password     string `json:"password" binding:"required"`
}

// UpdateContractorRequest represents editable contractor fields
type UpdateContractorRequest struct {
	Name         string `json:"name" binding:"required"`
	BusinessName string `json:"businessName" binding:"required"`
}

// AssignCouponsRequest represents a pool-to-employee assignment order
type AssignCouponsRequest struct {
	EmployeeID int64             `json:"employeeId" binding:"required"`
	CouponType models.CouponType `json:"couponType" binding:"required"`
	Quantity   int               `json:"quantity"`
}

// List handles GET /api/v1/contractors
func (h *ContractorHandler) List(c *gin.Context) {
	contractors, err := h.contractorRepo.ListAll()
	if err != nil {
		h.logger.WithError(err).Error("Failed to list contractors")
		respondServiceError(c, services.TransientError("Failed to retrieve contractors.", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"contractors": contractors})
}

// Create handles POST /api/v1/contractors
func (h *ContractorHandler) Create(c *gin.Context) {
	var req CreateContractorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "Name, business name, contractor ID and password are required")
		return
	}

	passwordHash, err := h.authService.HashPassword(req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	contractor := &models.Contractor{
		Name:           req.Name,
		BusinessName:   req.BusinessName,
		ContractorCode: req.ContractorID,
		PasswordHash:   passwordHash,
	}

	if err := h.contractorRepo.Create(contractor); err != nil {
		h.logger.WithError(err).WithField("contractor_code", req.ContractorID).Error("Failed to create contractor")
		respondServiceError(c, services.TransientError("Failed to create contractor.", err))
		return
	}

	c.JSON(http.StatusCreated, contractor)
}

// Update handles PUT /api/v1/contractors/:id
func (h *ContractorHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateContractorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "Name and business name are required")
		return
	}

	contractor, err := h.contractorRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, database.ErrContractorNotFound) {
			respondServiceError(c, services.NotFoundError("Contractor not found."))
			return
		}
		respondServiceError(c, services.TransientError("Failed to retrieve contractor.", err))
		return
	}

	contractor.Name = req.Name
	contractor.BusinessName = req.BusinessName

	if err := h.contractorRepo.Update(contractor); err != nil {
		respondServiceError(c, services.TransientError("Failed to update contractor.", err))
		return
	}

	c.JSON(http.StatusOK, contractor)
}

// Delete handles DELETE /api/v1/contractors/:id
func (h *ContractorHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.contractorRepo.Delete(id); err != nil {
		respondServiceError(c, services.TransientError("Failed to delete contractor.", err))
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "Contractor deleted."})
}

// GenerateCoupons handles POST /api/v1/contractors/:id/generate-coupons
func (h *ContractorHandler) GenerateCoupons(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req GenerateCouponsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "Coupon type is required")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	coupons, err := h.allocationService.GenerateForContractor(id, req.CouponType, req.Quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Coupons generated successfully.",
		"coupons": coupons,
	})
}

// AssignCoupons handles POST /api/v1/contractors/:id/assign-coupons
func (h *ContractorHandler) AssignCoupons(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req AssignCouponsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "Employee ID and coupon type are required")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	if err := h.allocationService.AssignToEmployee(id, req.EmployeeID, req.CouponType, req.Quantity); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{
		Success: true,
		Message: "Coupons assigned successfully.",
	})
}

// PoolCounts handles GET /api/v1/contractors/:id/pool
func (h *ContractorHandler) PoolCounts(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	counts, err := h.allocationService.PoolCounts(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"pool": counts})
}
