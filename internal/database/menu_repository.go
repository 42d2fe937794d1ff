package database

import (
	"database/sql"
	"fmt"

	"github.com/hyvacanteen/canteen-coupon-backend/internal/models"
)

// ErrMenuNotFound indicates no menu exists for the requested date
var ErrMenuNotFound = fmt.Errorf("menu not found")

// MenuRepository handles daily menu database operations
type MenuRepository struct {
	db DB
}

// NewMenuRepository creates a new MenuRepository
func NewMenuRepository(db DB) *MenuRepository {
	return &MenuRepository{db: db}
}

// GetByDate retrieves the menu for a date (YYYY-MM-DD)
func (r *MenuRepository) GetByDate(dateID string) (*models.DailyMenu, error) {
	query := `
		SELECT id, breakfast_menu, lunch_dinner_menu, updated_at
		FROM daily_menus
		WHERE id = $1
	`

	var menu models.DailyMenu
	if err := r.db.Get(&menu, query, dateID); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrMenuNotFound
		}
		return nil, fmt.Errorf("failed to get menu: %w", err)
	}

	return &menu, nil
}

// Upsert inserts or replaces the menu for a date
func (r *MenuRepository) Upsert(menu *models.DailyMenu) error {
	query := `
		INSERT INTO daily_menus (id, breakfast_menu, lunch_dinner_menu, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (id) DO UPDATE
		SET breakfast_menu = EXCLUDED.breakfast_menu,
		    lunch_dinner_menu = EXCLUDED.lunch_dinner_menu,
		    updated_at = NOW()
	`

	if _, err := r.db.Exec(query, menu.ID, menu.BreakfastMenu, menu.LunchDinnerMenu); err != nil {
		return fmt.Errorf("failed to upsert menu: %w", err)
	}

	return nil
}
