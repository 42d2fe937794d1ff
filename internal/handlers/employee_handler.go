package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/hyvacanteen/canteen-coupon-backend/internal/database"
	"github.com/hyvacanteen/canteen-coupon-backend/internal/models"
	"github.com/hyvacanteen/canteen-coupon-backend/internal/services"
)

// EmployeeHandler handles employee management and per-employee coupon requests
type EmployeeHandler struct {
	employeeRepo      *database.EmployeeRepository
	notificationRepo  *database.NotificationRepository
	couponService     *services.CouponService
	allocationService *services.AllocationService
	authService       *services.AuthService
	logger            *logrus.Logger
}

// NewEmployeeHandler creates a new employee handler
func NewEmployeeHandler(
	employeeRepo *database.EmployeeRepository,
	notificationRepo *database.NotificationRepository,
	couponService *services.CouponService,
	allocationService *services.AllocationService,
	authService *services.AuthService,
	logger *logrus.Logger,
) *EmployeeHandler {
	return &EmployeeHandler{
		employeeRepo:      employeeRepo,
		notificationRepo:  notificationRepo,
		couponService:     couponService,
		allocationService: allocationService,
		authService:       authService,
		logger:            logger,
	}
}

// CreateEmployeeRequest represents a new employee record
type CreateEmployeeRequest struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email"`
	EmployeeID string `json:"employeeId" binding:"required"`
	Password   string `json:"password" binding:"required"`
	Role       string `json:"role" binding:"required"`
	Department string `json:"department"`
	Contractor string `json:"contractor"`
}

// UpdateEmployeeRequest represents editable employee fields
type UpdateEmployeeRequest struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email"`
	Role       string `json:"role" binding:"required"`
	Department string `json:"department"`
	Contractor string `json:"contractor"`
}

// GenerateCouponsRequest represents a batch generation order
type GenerateCouponsRequest struct {
	CouponType models.CouponType `json:"couponType" binding:"required"`
	Quantity   int               `json:"quantity"`
}

// List handles GET /api/v1/employees
func (h *EmployeeHandler) List(c *gin.Context) {
	employees, err := h.employeeRepo.ListAll()
	if err != nil {
		h.logger.WithError(err).Error("Failed to list employees")
		respondServiceError(c, services.TransientError("Failed to retrieve employees.", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"employees": employees})
}

// Create handles POST /api/v1/employees
func (h *EmployeeHandler) Create(c *gin.Context) {
	var req CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "Name, employee ID, password and role are required")
		return
	}

	if !models.ValidEmployeeRole(req.Role) {
		respondValidation(c, "Unknown role: "+req.Role)
		return
	}

	passwordHash, err := h.authService.HashPassword(req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	employee := &models.Employee{
		Name:         req.Name,
		Email:        models.NewNullString(req.Email),
		EmployeeCode: req.EmployeeID,
		PasswordHash: passwordHash,
		Role:         req.Role,
		Department:   models.NewNullString(req.Department),
		Contractor:   models.NewNullString(req.Contractor),
		Status:       models.EmployeeStatusActive,
	}

	if err := h.employeeRepo.Create(employee); err != nil {
		h.logger.WithError(err).WithField("employee_code", req.EmployeeID).Error("Failed to create employee")
		respondServiceError(c, services.TransientError("Failed to create employee.", err))
		return
	}

	c.JSON(http.StatusCreated, employee)
}

// Update handles PUT /api/v1/employees/:id
func (h *EmployeeHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "Name and role are required")
		return
	}

	if !models.ValidEmployeeRole(req.Role) {
		respondValidation(c, "Unknown role: "+req.Role)
		return
	}

	employee, err := h.employeeRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, database.ErrEmployeeNotFound) {
			respondServiceError(c, services.NotFoundError("Employee not found."))
			return
		}
		respondServiceError(c, services.TransientError("Failed to retrieve employee.", err))
		return
	}

	employee.Name = req.Name
	employee.Email = models.NewNullString(req.Email)
	employee.Role = req.Role
	employee.Department = models.NewNullString(req.Department)
	employee.Contractor = models.NewNullString(req.Contractor)

	if err := h.employeeRepo.Update(employee); err != nil {
		respondServiceError(c, services.TransientError("Failed to update employee.", err))
		return
	}

	c.JSON(http.StatusOK, employee)
}

// Delete handles DELETE /api/v1/employees/:id
func (h *EmployeeHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.employeeRepo.Delete(id); err != nil {
		respondServiceError(c, services.TransientError("Failed to delete employee.", err))
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "Employee deleted."})
}

// ToggleStatus handles POST /api/v1/employees/:id/toggle-status
func (h *EmployeeHandler) ToggleStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.employeeRepo.ToggleStatus(id); err != nil {
		if errors.Is(err, database.ErrEmployeeNotFound) {
			respondServiceError(c, services.NotFoundError("Employee not found."))
			return
		}
		respondServiceError(c, services.TransientError("Failed to update employee status.", err))
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "Employee status updated."})
}

// ListCoupons handles GET /api/v1/employees/:id/coupons
func (h *EmployeeHandler) ListCoupons(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	coupons, err := h.couponService.ListForEmployee(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"coupons": coupons})
}

// GenerateCoupons handles POST /api/v1/employees/:id/generate-coupons
func (h *EmployeeHandler) GenerateCoupons(c *gin.Context) {
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

	coupons, err := h.allocationService.GenerateForEmployee(id, req.CouponType, req.Quantity)
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

// RemoveLastBatch handles POST /api/v1/employees/:id/remove-last-batch
func (h *EmployeeHandler) RemoveLastBatch(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	removed, err := h.couponService.RemoveLastBatch(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "Last coupon batch removed.",
		"removedCount": removed,
	})
}

// ListNotifications handles GET /api/v1/employees/:id/notifications
func (h *EmployeeHandler) ListNotifications(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	notifications, err := h.notificationRepo.ListByEmployee(id)
	if err != nil {
		respondServiceError(c, services.TransientError("Failed to retrieve notifications.", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// MarkAllNotificationsRead handles POST /api/v1/employees/:id/notifications/mark-all-read
func (h *EmployeeHandler) MarkAllNotificationsRead(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	count, err := h.notificationRepo.MarkAllRead(id)
	if err != nil {
		respondServiceError(c, services.TransientError("Failed to update notifications.", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "Notifications marked as read.",
		"updatedCount": count,
	})
}

// pathID parses a numeric id path parameter, responding with a validation
// error when it is malformed.
func pathID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil {
		respondValidation(c, "Invalid "+param+" parameter")
		return 0, false
	}
	return id, true
}
