package database

import (
	"database/sql"
	"fmt"

	"github.com/hyvacanteen/canteen-coupon-backend/internal/models"
)

// ErrEmployeeNotFound indicates no employee matches the given id or code
var ErrEmployeeNotFound = fmt.Errorf("employee not found")

const employeeColumns = `id, name, email, employee_code, password_hash, role, department,
	contractor, status, created_at, updated_at`

// EmployeeRepository handles employee database operations
type EmployeeRepository struct {
	db DB
}

// NewEmployeeRepository creates a new EmployeeRepository
func NewEmployeeRepository(db DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// Create stores a new employee and fills in the generated id and timestamps
func (r *EmployeeRepository) Create(employee *models.Employee) error {
	if employee.Status == "" {
		employee.Status = models.EmployeeStatusActive
	}

	query := `
		INSERT INTO employees (
			name, email, employee_code, password_hash, role, department, contractor, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		query,
		employee.Name, employee.Email, employee.EmployeeCode, employee.PasswordHash,
		employee.Role, employee.Department, employee.Contractor, employee.Status,
	).Scan(&employee.ID, &employee.CreatedAt, &employee.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create employee: %w", err)
	}

	return nil
}

// GetByID retrieves an employee by id
func (r *EmployeeRepository) GetByID(id int64) (*models.Employee, error) {
	query := fmt.Sprintf(`SELECT %s FROM employees WHERE id = $1`, employeeColumns)

	var employee models.Employee
	if err := r.db.Get(&employee, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}

	return &employee, nil
}

// GetByCode retrieves an employee by login code (e.g. HYV001)
func (r *EmployeeRepository) GetByCode(code string) (*models.Employee, error) {
	query := fmt.Sprintf(`SELECT %s FROM employees WHERE employee_code = $1`, employeeColumns)

	var employee models.Employee
	if err := r.db.Get(&employee, query, code); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to get employee by code: %w", err)
	}

	return &employee, nil
}

// ListAll retrieves all employees ordered by name
func (r *EmployeeRepository) ListAll() ([]models.Employee, error) {
	query := fmt.Sprintf(`SELECT %s FROM employees ORDER BY name`, employeeColumns)

	employees := []models.Employee{}
	if err := r.db.Select(&employees, query); err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	return employees, nil
}

// Update modifies an employee's profile fields
func (r *EmployeeRepository) Update(employee *models.Employee) error {
	query := `
		UPDATE employees
		SET name = $2, email = $3, role = $4, department = $5, contractor = $6, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(
		query,
		employee.ID, employee.Name, employee.Email, employee.Role,
		employee.Department, employee.Contractor,
	)
	if err != nil {
		return fmt.Errorf("failed to update employee: %w", err)
	}

	return requireEmployeeRow(result)
}

// UpdatePasswordHash replaces an employee's password hash
func (r *EmployeeRepository) UpdatePasswordHash(id int64, passwordHash string) error {
	result, err := r.db.Exec(
		`UPDATE employees SET password_hash = $2, updated_at = NOW() WHERE id = $1`,
		id, passwordHash,
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return requireEmployeeRow(result)
}

// ToggleStatus flips an employee between active and deactivated
func (r *EmployeeRepository) ToggleStatus(id int64) error {
	result, err := r.db.Exec(`
		UPDATE employees
		SET status = CASE WHEN status = 'active' THEN 'deactivated' ELSE 'active' END,
		    updated_at = NOW()
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("failed to toggle employee status: %w", err)
	}

	return requireEmployeeRow(result)
}

// Delete removes an employee
func (r *EmployeeRepository) Delete(id int64) error {
	result, err := r.db.Exec(`DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}

	return requireEmployeeRow(result)
}

func requireEmployeeRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to count affected employees: %w", err)
	}
	if affected == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}
