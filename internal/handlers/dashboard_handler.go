package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hyvacanteen/canteen-coupon-backend/internal/services"
)

// DashboardHandler serves reporting views. Every response is computed from
// the ledger at request time; nothing here is cached.
type DashboardHandler struct {
	reportingService *services.ReportingService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(reportingService *services.ReportingService) *DashboardHandler {
	return &DashboardHandler{reportingService: reportingService}
}

// Stats handles GET /api/v1/dashboard/stats
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.reportingService.Dashboard()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// EmployeeStats handles GET /api/v1/dashboard/employee-stats
func (h *DashboardHandler) EmployeeStats(c *gin.Context) {
	stats, err := h.reportingService.EmployeeStats()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"employeeStats": stats})
}

// StatsForEmployee handles GET /api/v1/dashboard/employee-stats/:id
func (h *DashboardHandler) StatsForEmployee(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	stats, err := h.reportingService.StatsForEmployee(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// MonthlyTotals handles GET /api/v1/dashboard/monthly
func (h *DashboardHandler) MonthlyTotals(c *gin.Context) {
	totals, err := h.reportingService.MonthlyTotals()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"monthlyTotals": totals})
}

// RedemptionsByType handles GET /api/v1/dashboard/redemptions-by-type.
// An optional date query parameter (YYYY-MM-DD) selects the day; it
// defaults to today.
func (h *DashboardHandler) RedemptionsByType(c *gin.Context) {
	day := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondValidation(c, "Invalid date parameter, expected YYYY-MM-DD")
			return
		}
		day = parsed
	}

	counts, err := h.reportingService.RedemptionsByTypeForDay(day)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"redemptionsByType": counts})
}
