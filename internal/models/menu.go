package models

import "time"

// DailyMenu is the canteen menu for a single calendar date.
// The ID is the date in YYYY-MM-DD form.
type DailyMenu struct {
	ID             string    `json:"id" db:"id"`
	BreakfastMenu  string    `json:"breakfastMenu" db:"breakfast_menu"`
	LunchDinnerMenu string   `json:"lunchDinnerMenu" db:"lunch_dinner_menu"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}
