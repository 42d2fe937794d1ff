package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hyvacanteen/canteen-coupon-backend/internal/database"
	"github.com/hyvacanteen/canteen-coupon-backend/internal/models"
	"github.com/hyvacanteen/canteen-coupon-backend/internal/services"
)

// MenuHandler handles daily menu reads and updates
type MenuHandler struct {
	menuRepo *database.MenuRepository
}

// NewMenuHandler creates a new menu handler
func NewMenuHandler(menuRepo *database.MenuRepository) *MenuHandler {
	return &MenuHandler{menuRepo: menuRepo}
}

// UpsertMenuRequest represents the menu text for one day
type UpsertMenuRequest struct {
	BreakfastMenu   string `json:"breakfastMenu"`
	LunchDinnerMenu string `json:"lunchDinnerMenu"`
}

// Get handles GET /api/v1/menus/:date
func (h *MenuHandler) Get(c *gin.Context) {
	dateID, ok := menuDate(c)
	if !ok {
		return
	}

	menu, err := h.menuRepo.GetByDate(dateID)
	if err != nil {
		if errors.Is(err, database.ErrMenuNotFound) {
			respondServiceError(c, services.NotFoundError("No menu published for "+dateID+"."))
			return
		}
		respondServiceError(c, services.TransientError("Failed to retrieve menu.", err))
		return
	}

	c.JSON(http.StatusOK, menu)
}

// Upsert handles PUT /api/v1/menus/:date
func (h *MenuHandler) Upsert(c *gin.Context) {
	dateID, ok := menuDate(c)
	if !ok {
		return
	}

	var req UpsertMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "Invalid request body")
		return
	}

	menu := &models.DailyMenu{
		ID:              dateID,
		BreakfastMenu:   req.BreakfastMenu,
		LunchDinnerMenu: req.LunchDinnerMenu,
	}

	if err := h.menuRepo.Upsert(menu); err != nil {
		respondServiceError(c, services.TransientError("Failed to save menu.", err))
		return
	}

	c.JSON(http.StatusOK, menu)
}

// menuDate validates the :date path parameter as YYYY-MM-DD
func menuDate(c *gin.Context) (string, bool) {
	dateID := c.Param("date")
	if _, err := time.Parse("2006-01-02", dateID); err != nil {
		respondValidation(c, "Invalid date parameter, expected YYYY-MM-DD")
		return "", false
	}
	return dateID, true
}
