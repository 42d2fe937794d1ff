package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification is an in-app message for an employee (coupons assigned,
// guest request decided)
type Notification struct {
	ID         uuid.UUID `json:"id" db:"id"`
	EmployeeID int64     `json:"employeeId" db:"employee_id"`
	Message    string    `json:"message" db:"message"`
	Read       bool      `json:"read" db:"read"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}
