package database

import (
	"fmt"
	"time"

	"github.com/hyvacanteen/canteen-coupon-backend/internal/models"
)

// ReportingRepository runs the read-only aggregations the dashboards show.
// Every method is a fresh query over the current ledger state; nothing here
// is cached or precomputed.
type ReportingRepository struct {
	db DB
}

// NewReportingRepository creates a new ReportingRepository
func NewReportingRepository(db DB) *ReportingRepository {
	return &ReportingRepository{db: db}
}

// DashboardStats returns lifetime and today's issued/redeemed counters
func (r *ReportingRepository) DashboardStats(now time.Time) (*models.DashboardStats, error) {
	query := `
		SELECT
			COUNT(*) AS total_issued,
			COUNT(*) FILTER (WHERE status = 'redeemed') AS total_redeemed,
			COUNT(*) FILTER (WHERE date_issued >= $1 AND date_issued < $2) AS todays_issued,
			COUNT(*) FILTER (WHERE status = 'redeemed' AND redeem_date >= $1 AND redeem_date < $2) AS todays_redeemed
		FROM coupons
	`

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var stats models.DashboardStats
	err := r.db.QueryRow(query, dayStart, dayEnd).Scan(
		&stats.TotalIssued, &stats.TotalRedeemed, &stats.TodaysIssued, &stats.TodaysRedeemed,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compute dashboard stats: %w", err)
	}

	return &stats, nil
}

// EmployeeStats returns issued/redeemed counts per employee
func (r *ReportingRepository) EmployeeStats() ([]models.EmployeeCouponStats, error) {
	query := `
		SELECT
			employee_id,
			COUNT(*) AS issued,
			COUNT(*) FILTER (WHERE status = 'redeemed') AS redeemed
		FROM coupons
		WHERE employee_id IS NOT NULL
		GROUP BY employee_id
		ORDER BY employee_id
	`

	stats := []models.EmployeeCouponStats{}
	if err := r.db.Select(&stats, query); err != nil {
		return nil, fmt.Errorf("failed to compute employee stats: %w", err)
	}

	return stats, nil
}

// StatsForEmployee returns one employee's issued/redeemed counts
func (r *ReportingRepository) StatsForEmployee(employeeID int64) (*models.EmployeeCouponStats, error) {
	query := `
		SELECT
			COUNT(*) AS issued,
			COUNT(*) FILTER (WHERE status = 'redeemed') AS redeemed
		FROM coupons
		WHERE employee_id = $1
	`

	stats := models.EmployeeCouponStats{EmployeeID: employeeID}
	if err := r.db.QueryRow(query, employeeID).Scan(&stats.Issued, &stats.Redeemed); err != nil {
		return nil, fmt.Errorf("failed to compute stats for employee %d: %w", employeeID, err)
	}

	return &stats, nil
}

// MonthlyTotals returns per-month, per-type issuance counts, newest month first
func (r *ReportingRepository) MonthlyTotals() ([]models.MonthlyTypeCount, error) {
	query := `
		SELECT
			to_char(date_trunc('month', date_issued), 'YYYY-MM') AS month,
			coupon_type,
			COUNT(*) AS count
		FROM coupons
		GROUP BY month, coupon_type
		ORDER BY month DESC, coupon_type
	`

	totals := []models.MonthlyTypeCount{}
	if err := r.db.Select(&totals, query); err != nil {
		return nil, fmt.Errorf("failed to compute monthly totals: %w", err)
	}

	return totals, nil
}

// RedemptionsByTypeForDay groups one day's redemptions by coupon type
func (r *ReportingRepository) RedemptionsByTypeForDay(day time.Time) ([]models.TypeCount, error) {
	query := `
		SELECT coupon_type, COUNT(*) AS count
		FROM coupons
		WHERE status = 'redeemed' AND redeem_date >= $1 AND redeem_date < $2
		GROUP BY coupon_type
		ORDER BY coupon_type
	`

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	counts := []models.TypeCount{}
	if err := r.db.Select(&counts, query, dayStart, dayEnd); err != nil {
		return nil, fmt.Errorf("failed to group redemptions by type: %w", err)
	}

	return counts, nil
}
