package database

import (
	"database/sql"
	"fmt"

	"github.com/hyvacanteen/canteen-coupon-backend/internal/models"
)

// ErrContractorNotFound indicates no contractor matches the given id or code
var ErrContractorNotFound = fmt.Errorf("contractor not found")

const contractorColumns = `id, name, business_name, contractor_code, password_hash, created_at, updated_at`

// ContractorRepository handles contractor database operations
type ContractorRepository struct {
	db DB
}

// NewContractorRepository creates a new ContractorRepository
func NewContractorRepository(db DB) *ContractorRepository {
	return &ContractorRepository{db: db}
}

// Create stores a new contractor and fills in the generated id and timestamps
func (r *ContractorRepository) Create(contractor *models.Contractor) error {
	query := `
		INSERT INTO contractors (name, business_name, contractor_code, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		query,
		contractor.Name, contractor.BusinessName, contractor.ContractorCode, contractor.PasswordHash,
	).Scan(&contractor.ID, &contractor.CreatedAt, &contractor.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create contractor: %w", err)
	}

	return nil
}

// GetByID retrieves a contractor by id
func (r *ContractorRepository) GetByID(id int64) (*models.Contractor, error) {
	query := fmt.Sprintf(`SELECT %s FROM contractors WHERE id = $1`, contractorColumns)

	var contractor models.Contractor
	if err := r.db.Get(&contractor, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrContractorNotFound
		}
		return nil, fmt.Errorf("failed to get contractor: %w", err)
	}

	return &contractor, nil
}

// GetByCode retrieves a contractor by login code (e.g. abc-services)
func (r *ContractorRepository) GetByCode(code string) (*models.Contractor, error) {
	query := fmt.Sprintf(`SELECT %s FROM contractors WHERE contractor_code = $1`, contractorColumns)

	var contractor models.Contractor
	if err := r.db.Get(&contractor, query, code); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrContractorNotFound
		}
		return nil, fmt.Errorf("failed to get contractor by code: %w", err)
	}

	return &contractor, nil
}

// ListAll retrieves all contractors ordered by business name
func (r *ContractorRepository) ListAll() ([]models.Contractor, error) {
	query := fmt.Sprintf(`SELECT %s FROM contractors ORDER BY business_name`, contractorColumns)

	contractors := []models.Contractor{}
	if err := r.db.Select(&contractors, query); err != nil {
		return nil, fmt.Errorf("failed to list contractors: %w", err)
	}

	return contractors, nil
}

// Update modifies a contractor's profile fields
func (r *ContractorRepository) Update(contractor *models.Contractor) error {
	result, err := r.db.Exec(
		`UPDATE contractors SET name = $2, business_name = $3, updated_at = NOW() WHERE id = $1`,
		contractor.ID, contractor.Name, contractor.BusinessName,
	)
	if err != nil {
		return fmt.Errorf("failed to update contractor: %w", err)
	}

	return requireContractorRow(result)
}

// UpdatePasswordHash replaces a contractor's password hash
func (r *ContractorRepository) UpdatePasswordHash(id int64, passwordHash string) error {
	result, err := r.db.Exec(
		`UPDATE contractors SET password_hash = $2, updated_at = NOW() WHERE id = $1`,
		id, passwordHash,
	)
	if err != nil {
		return fmt.Errorf("failed to update contractor password: %w", err)
	}

	return requireContractorRow(result)
}

// Delete removes a contractor
func (r *ContractorRepository) Delete(id int64) error {
	result, err := r.db.Exec(`DELETE FROM contractors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete contractor: %w", err)
	}

	return requireContractorRow(result)
}

func requireContractorRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to count affected contractors: %w", err)
	}
	if affected == 0 {
		return ErrContractorNotFound
	}
	return nil
}
