package services

import (
	"time"

	"github.com/hyvacanteen/canteen-coupon-backend/internal/database"
	"github.com/hyvacanteen/canteen-coupon-backend/internal/models"
)

// ReportingService exposes the derived, read-only views over the ledger.
// Every call recomputes from the current ledger snapshot; results are
// idempotent for an unchanged ledger and never cached.
type ReportingService struct {
	reportingRepo *database.ReportingRepository
	now           func() time.Time
}

// NewReportingService creates a new ReportingService
func NewReportingService(reportingRepo *database.ReportingRepository) *ReportingService {
	return &ReportingService{
		reportingRepo: reportingRepo,
		now:           time.Now,
	}
}

// Dashboard returns the headline counters (lifetime + today)
func (s *ReportingService) Dashboard() (*models.DashboardStats, error) {
	stats, err := s.reportingRepo.DashboardStats(s.now())
	if err != nil {
		return nil, TransientError("Failed to compute dashboard stats.", err)
	}
	return stats, nil
}

// EmployeeStats returns issued/redeemed counts per employee
func (s *ReportingService) EmployeeStats() ([]models.EmployeeCouponStats, error) {
	stats, err := s.reportingRepo.EmployeeStats()
	if err != nil {
		return nil, TransientError("Failed to compute employee stats.", err)
	}
	return stats, nil
}

// StatsForEmployee returns one employee's issued/redeemed counts
func (s *ReportingService) StatsForEmployee(employeeID int64) (*models.EmployeeCouponStats, error) {
	stats, err := s.reportingRepo.StatsForEmployee(employeeID)
	if err != nil {
		return nil, TransientError("Failed to compute employee stats.", err)
	}
	return stats, nil
}

// MonthlyTotals returns per-month issuance counts by coupon type
func (s *ReportingService) MonthlyTotals() ([]models.MonthlyTypeCount, error) {
	totals, err := s.reportingRepo.MonthlyTotals()
	if err != nil {
		return nil, TransientError("Failed to compute monthly totals.", err)
	}
	return totals, nil
}

// RedemptionsByTypeForDay groups a day's redemptions by coupon type
func (s *ReportingService) RedemptionsByTypeForDay(day time.Time) ([]models.TypeCount, error) {
	counts, err := s.reportingRepo.RedemptionsByTypeForDay(day)
	if err != nil {
		return nil, TransientError("Failed to group redemptions.", err)
	}
	return counts, nil
}
