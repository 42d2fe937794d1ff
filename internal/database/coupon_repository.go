package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hyvacanteen/canteen-coupon-backend/internal/models"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	// ErrCouponNotFound indicates no coupon matches the given id or code
	ErrCouponNotFound = fmt.Errorf("coupon not found")

	// ErrCouponAlreadyRedeemed indicates the coupon was already redeemed
	ErrCouponAlreadyRedeemed = fmt.Errorf("coupon already redeemed")

	// ErrDuplicateCode indicates the redemption code collides with an issued coupon.
	// A partial unique index on (redemption_code) WHERE status = 'issued' raises this.
	ErrDuplicateCode = fmt.Errorf("redemption code already in use")

	// ErrInsufficientPool indicates a contractor pool has fewer unassigned
	// coupons than the requested quantity
	ErrInsufficientPool = fmt.Errorf("insufficient coupons in contractor pool")
)

const couponColumns = `coupon_id, coupon_type, redemption_code, status, date_issued, redeem_date,
	employee_id, contractor_id, is_guest_coupon, guest_name, shared_by_employee_id, batch_id`

// CouponRepository handles database operations for the coupon ledger.
// It holds *sqlx.DB directly because assignment and batch removal run
// multi-statement transactions.
type CouponRepository struct {
	db *sqlx.DB
}

// NewCouponRepository creates a new CouponRepository
func NewCouponRepository(db *sqlx.DB) *CouponRepository {
	return &CouponRepository{db: db}
}

// Insert stores a new coupon in state issued. The caller supplies the
// redemption code; an insert that collides with another issued coupon's code
// returns ErrDuplicateCode so the caller can regenerate and retry.
func (r *CouponRepository) Insert(coupon *models.Coupon) error {
	query := `
		INSERT INTO coupons (
			coupon_id, coupon_type, redemption_code, status, date_issued,
			employee_id, contractor_id, is_guest_coupon, guest_name,
			shared_by_employee_id, batch_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	if coupon.CouponID == uuid.Nil {
		coupon.CouponID = uuid.New()
	}
	if coupon.DateIssued.IsZero() {
		coupon.DateIssued = time.Now()
	}
	coupon.Status = models.CouponStatusIssued

	_, err := r.db.Exec(
		query,
		coupon.CouponID, coupon.CouponType, coupon.RedemptionCode, coupon.Status,
		coupon.DateIssued, coupon.EmployeeID, coupon.ContractorID,
		coupon.IsGuestCoupon, coupon.GuestName, coupon.SharedByEmployeeID,
		coupon.BatchID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateCode
		}
		return fmt.Errorf("failed to insert coupon: %w", err)
	}

	return nil
}

// GetByID retrieves a coupon by its id
func (r *CouponRepository) GetByID(couponID uuid.UUID) (*models.Coupon, error) {
	query := fmt.Sprintf(`SELECT %s FROM coupons WHERE coupon_id = $1`, couponColumns)

	var coupon models.Coupon
	if err := r.db.Get(&coupon, query, couponID); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCouponNotFound
		}
		return nil, fmt.Errorf("failed to get coupon: %w", err)
	}

	return &coupon, nil
}

// GetByCode retrieves the coupon holding a redemption code. Codes are unique
// among issued coupons but may recur on redeemed ones, so the issued coupon
// wins; among redeemed ones the most recently issued is returned.
func (r *CouponRepository) GetByCode(code string) (*models.Coupon, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM coupons
		WHERE redemption_code = $1
		ORDER BY CASE WHEN status = 'issued' THEN 0 ELSE 1 END, date_issued DESC
		LIMIT 1
	`, couponColumns)

	var coupon models.Coupon
	if err := r.db.Get(&coupon, query, code); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCouponNotFound
		}
		return nil, fmt.Errorf("failed to get coupon by code: %w", err)
	}

	return &coupon, nil
}

// CodeInUse reports whether a redemption code is held by any issued coupon
func (r *CouponRepository) CodeInUse(code string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM coupons WHERE redemption_code = $1 AND status = 'issued')`
	if err := r.db.Get(&exists, query, code); err != nil {
		return false, fmt.Errorf("failed to check redemption code: %w", err)
	}
	return exists, nil
}

// Redeem applies the single lifecycle mutation issued -> redeemed as a
// compare-and-set on status, so two concurrent attempts cannot both succeed.
// Returns ErrCouponAlreadyRedeemed or ErrCouponNotFound when the CAS misses.
func (r *CouponRepository) Redeem(couponID uuid.UUID) (*models.Coupon, error) {
	query := fmt.Sprintf(`
		UPDATE coupons
		SET status = 'redeemed', redeem_date = NOW()
		WHERE coupon_id = $1 AND status = 'issued'
		RETURNING %s
	`, couponColumns)

	var coupon models.Coupon
	err := r.db.Get(&coupon, query, couponID)
	if err == nil {
		return &coupon, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to redeem coupon: %w", err)
	}

	// CAS missed: distinguish a missing coupon from an already-redeemed one
	existing, getErr := r.GetByID(couponID)
	if getErr != nil {
		return nil, getErr
	}
	if existing.Status == models.CouponStatusRedeemed {
		return nil, ErrCouponAlreadyRedeemed
	}
	return nil, fmt.Errorf("failed to redeem coupon %s: concurrent state change", couponID)
}

// AssignToEmployee moves qty unassigned pool coupons of the given type from a
// contractor to an employee. The whole batch is one transaction: eligible rows
// are locked with FOR UPDATE SKIP LOCKED and the update only commits when
// exactly qty rows were captured, so a shortfall can never leave a partial
// assignment behind.
func (r *CouponRepository) AssignToEmployee(contractorID, employeeID int64, couponType models.CouponType, qty int) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin assignment transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		UPDATE coupons
		SET employee_id = $1
		WHERE coupon_id IN (
			SELECT coupon_id FROM coupons
			WHERE contractor_id = $2
			  AND employee_id IS NULL
			  AND status = 'issued'
			  AND coupon_type = $3
			LIMIT $4
			FOR UPDATE SKIP LOCKED
		)
	`, employeeID, contractorID, couponType, qty)
	if err != nil {
		return fmt.Errorf("failed to assign coupons: %w", err)
	}

	assigned, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to count assigned coupons: %w", err)
	}

	if assigned < int64(qty) {
		// Rolled back by the deferred Rollback: no coupon may stay assigned
		return ErrInsufficientPool
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit assignment: %w", err)
	}

	return nil
}

// Delete hard-removes a coupon (administrative removal, outside the lifecycle)
func (r *CouponRepository) Delete(couponID uuid.UUID) error {
	result, err := r.db.Exec(`DELETE FROM coupons WHERE coupon_id = $1`, couponID)
	if err != nil {
		return fmt.Errorf("failed to delete coupon: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to count deleted coupons: %w", err)
	}
	if affected == 0 {
		return ErrCouponNotFound
	}

	return nil
}

// RemoveLastBatch deletes the still-issued coupons of the most recent batch
// generated for an employee and returns how many were removed. Redeemed
// coupons are never deleted. The subquery pins the batch inside the same
// statement, keeping the removal atomic.
func (r *CouponRepository) RemoveLastBatch(employeeID int64) (int, error) {
	result, err := r.db.Exec(`
		DELETE FROM coupons
		WHERE employee_id = $1
		  AND status = 'issued'
		  AND batch_id = (
			SELECT batch_id FROM coupons
			WHERE employee_id = $1 AND status = 'issued'
			ORDER BY date_issued DESC, coupon_id
			LIMIT 1
		  )
	`, employeeID)
	if err != nil {
		return 0, fmt.Errorf("failed to remove last batch: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count removed coupons: %w", err)
	}

	return int(removed), nil
}

// ListAll retrieves every coupon, newest first
func (r *CouponRepository) ListAll() ([]models.Coupon, error) {
	query := fmt.Sprintf(`SELECT %s FROM coupons ORDER BY date_issued DESC`, couponColumns)

	coupons := []models.Coupon{}
	if err := r.db.Select(&coupons, query); err != nil {
		return nil, fmt.Errorf("failed to list coupons: %w", err)
	}

	return coupons, nil
}

// ListByEmployee retrieves the coupons assigned to an employee, newest first
func (r *CouponRepository) ListByEmployee(employeeID int64) ([]models.Coupon, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM coupons WHERE employee_id = $1 ORDER BY date_issued DESC
	`, couponColumns)

	coupons := []models.Coupon{}
	if err := r.db.Select(&coupons, query, employeeID); err != nil {
		return nil, fmt.Errorf("failed to list employee coupons: %w", err)
	}

	return coupons, nil
}

// PoolCounts returns, per coupon type, how many unassigned issued coupons a
// contractor currently holds
func (r *CouponRepository) PoolCounts(contractorID int64) ([]models.TypeCount, error) {
	query := `
		SELECT coupon_type, COUNT(*) AS count
		FROM coupons
		WHERE contractor_id = $1 AND employee_id IS NULL AND status = 'issued'
		GROUP BY coupon_type
	`

	counts := []models.TypeCount{}
	if err := r.db.Select(&counts, query, contractorID); err != nil {
		return nil, fmt.Errorf("failed to count contractor pool: %w", err)
	}

	return counts, nil
}

// isUniqueViolation reports whether err is a Postgres unique constraint violation
func isUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	return false
}
