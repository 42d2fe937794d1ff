package database

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hyvacanteen/canteen-coupon-backend/internal/models"
)

// RedemptionLogRepository handles the append-only redemption audit trail.
// Rows are inserted and read, never updated or deleted.
type RedemptionLogRepository struct {
	db DB
}

// NewRedemptionLogRepository creates a new RedemptionLogRepository
func NewRedemptionLogRepository(db DB) *RedemptionLogRepository {
	return &RedemptionLogRepository{db: db}
}

// Append writes one audit record for a redemption attempt
func (r *RedemptionLogRepository) Append(entry *models.RedemptionLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	query := `
		INSERT INTO redemption_logs (
			id, timestamp, code, status, message,
			employee_name, coupon_type, ip_address, device_info
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(
		query,
		entry.ID, entry.Timestamp, entry.Code, entry.Status, entry.Message,
		entry.EmployeeName, entry.CouponType, entry.IPAddress, entry.DeviceInfo,
	)
	if err != nil {
		return fmt.Errorf("failed to append redemption log: %w", err)
	}

	return nil
}

// ListAll retrieves the full audit trail, newest first
func (r *RedemptionLogRepository) ListAll() ([]models.RedemptionLog, error) {
	query := `
		SELECT id, timestamp, code, status, message, employee_name, coupon_type, ip_address, device_info
		FROM redemption_logs
		ORDER BY timestamp DESC
	`

	logs := []models.RedemptionLog{}
	if err := r.db.Select(&logs, query); err != nil {
		return nil, fmt.Errorf("failed to list redemption logs: %w", err)
	}

	return logs, nil
}
