package models

import "time"

// Role values supported by the system
const (
	RoleAdmin               = "admin"
	RoleEmployee            = "employee"
	RoleContractualEmployee = "contractual employee"
	RoleCanteenManager      = "canteen manager"
	RoleContractor          = "contractor"
)

// ValidEmployeeRole reports whether the role can be stored on an employee
// record. Contractors authenticate from their own table and are excluded.
func ValidEmployeeRole(role string) bool {
	switch role {
	case RoleAdmin, RoleEmployee, RoleContractualEmployee, RoleCanteenManager:
		return true
	}
	return false
}

// Employee statuses
const (
	EmployeeStatusActive      = "active"
	EmployeeStatusDeactivated = "deactivated"
)

// Employee is a person who can log in and hold coupons. Contractual employees
// carry a contractor affiliation; the coupon's employeeId/contractorId columns
// are weak references into this table (lookup only).
type Employee struct {
	ID           int64      `json:"id" db:"id"`
	Name         string     `json:"name" db:"name"`
	Email        NullString `json:"email,omitempty" db:"email"`
	EmployeeCode string     `json:"employeeId" db:"employee_code"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Role         string     `json:"role" db:"role"`
	Department   NullString `json:"department,omitempty" db:"department"`
	Contractor   NullString `json:"contractor,omitempty" db:"contractor"`
	Status       string     `json:"status" db:"status"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// Contractor is an external company that receives pooled coupons and
// distributes them to its contractual employees
type Contractor struct {
	ID             int64     `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	BusinessName   string    `json:"businessName" db:"business_name"`
	ContractorCode string    `json:"contractorId" db:"contractor_code"`
	PasswordHash   string    `json:"-" db:"password_hash"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}
