package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hyvacanteen/canteen-coupon-backend/internal/models"
	"github.com/jmoiron/sqlx"
)

var (
	// ErrRequestNotFound indicates no guest coupon request matches the id
	ErrRequestNotFound = fmt.Errorf("guest coupon request not found")

	// ErrRequestAlreadyDecided indicates the request has left the pending state
	ErrRequestAlreadyDecided = fmt.Errorf("guest coupon request already decided")
)

const guestRequestColumns = `id, requesting_employee_id, requesting_employee_name, guest_name,
	guest_company, coupon_type, status, request_date, decision_date, generated_coupon_id`

// GuestRequestRepository handles database operations for guest coupon requests.
// Approval mints the guest coupon in the same transaction as the status flip,
// so it holds *sqlx.DB directly.
type GuestRequestRepository struct {
	db *sqlx.DB
}

// NewGuestRequestRepository creates a new GuestRequestRepository
func NewGuestRequestRepository(db *sqlx.DB) *GuestRequestRepository {
	return &GuestRequestRepository{db: db}
}

// Create stores a new pending guest coupon request
func (r *GuestRequestRepository) Create(request *models.GuestCouponRequest) error {
	if request.ID == uuid.Nil {
		request.ID = uuid.New()
	}
	if request.RequestDate.IsZero() {
		request.RequestDate = time.Now()
	}
	request.Status = models.GuestRequestPending

	query := `
		INSERT INTO guest_coupon_requests (
			id, requesting_employee_id, requesting_employee_name,
			guest_name, guest_company, coupon_type, status, request_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(
		query,
		request.ID, request.RequestingEmployeeID, request.RequestingEmployeeName,
		request.GuestName, request.GuestCompany, request.CouponType,
		request.Status, request.RequestDate,
	)
	if err != nil {
		return fmt.Errorf("failed to create guest request: %w", err)
	}

	return nil
}

// GetByID retrieves a guest coupon request by id
func (r *GuestRequestRepository) GetByID(requestID uuid.UUID) (*models.GuestCouponRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM guest_coupon_requests WHERE id = $1`, guestRequestColumns)

	var request models.GuestCouponRequest
	if err := r.db.Get(&request, query, requestID); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to get guest request: %w", err)
	}

	return &request, nil
}

// ListAll retrieves all guest coupon requests, newest first
func (r *GuestRequestRepository) ListAll() ([]models.GuestCouponRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM guest_coupon_requests ORDER BY request_date DESC`, guestRequestColumns)

	requests := []models.GuestCouponRequest{}
	if err := r.db.Select(&requests, query); err != nil {
		return nil, fmt.Errorf("failed to list guest requests: %w", err)
	}

	return requests, nil
}

// Approve flips a pending request to approved and mints its guest coupon in
// one transaction. The status update is a compare-and-set on status='pending',
// so a second approval (or an approval racing a rejection) fails with
// ErrRequestAlreadyDecided and mints nothing.
func (r *GuestRequestRepository) Approve(requestID uuid.UUID, coupon *models.Coupon) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin approval transaction: %w", err)
	}
	defer tx.Rollback()

	if coupon.CouponID == uuid.Nil {
		coupon.CouponID = uuid.New()
	}
	if coupon.DateIssued.IsZero() {
		coupon.DateIssued = time.Now()
	}
	coupon.Status = models.CouponStatusIssued

	result, err := tx.Exec(`
		UPDATE guest_coupon_requests
		SET status = 'approved', decision_date = NOW(), generated_coupon_id = $2
		WHERE id = $1 AND status = 'pending'
	`, requestID, coupon.CouponID)
	if err != nil {
		return fmt.Errorf("failed to approve guest request: %w", err)
	}

	if err := r.requireDecision(result, requestID); err != nil {
		return err
	}

	_, err = tx.Exec(`
		INSERT INTO coupons (
			coupon_id, coupon_type, redemption_code, status, date_issued,
			employee_id, contractor_id, is_guest_coupon, guest_name,
			shared_by_employee_id, batch_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		coupon.CouponID, coupon.CouponType, coupon.RedemptionCode, coupon.Status,
		coupon.DateIssued, coupon.EmployeeID, coupon.ContractorID,
		coupon.IsGuestCoupon, coupon.GuestName, coupon.SharedByEmployeeID,
		coupon.BatchID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateCode
		}
		return fmt.Errorf("failed to mint guest coupon: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit approval: %w", err)
	}

	return nil
}

// Reject flips a pending request to rejected. Same one-shot guard as Approve;
// no coupon is minted.
func (r *GuestRequestRepository) Reject(requestID uuid.UUID) error {
	result, err := r.db.Exec(`
		UPDATE guest_coupon_requests
		SET status = 'rejected', decision_date = NOW()
		WHERE id = $1 AND status = 'pending'
	`, requestID)
	if err != nil {
		return fmt.Errorf("failed to reject guest request: %w", err)
	}

	return r.requireDecision(result, requestID)
}

// requireDecision turns a zero-row CAS miss into the right sentinel error
func (r *GuestRequestRepository) requireDecision(result sql.Result, requestID uuid.UUID) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to count updated requests: %w", err)
	}
	if affected > 0 {
		return nil
	}

	if _, err := r.GetByID(requestID); err != nil {
		return err // ErrRequestNotFound or a query failure
	}
	return ErrRequestAlreadyDecided
}
