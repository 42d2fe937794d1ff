package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/hyvacanteen/canteen-coupon-backend/internal/config"
	"github.com/hyvacanteen/canteen-coupon-backend/internal/database"
	"github.com/hyvacanteen/canteen-coupon-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// AllocationService computes and applies coupon allocations: direct issuance
// to employees, pooled issuance to contractors, and assignment of pooled
// coupons to a contractor's employees.
type AllocationService struct {
	couponService    *CouponService
	couponRepo       *database.CouponRepository
	employeeRepo     *database.EmployeeRepository
	contractorRepo   *database.ContractorRepository
	notificationRepo *database.NotificationRepository
	cfg              config.CouponConfig
	logger           *logrus.Logger
}

// NewAllocationService creates a new AllocationService
func NewAllocationService(
	couponService *CouponService,
	couponRepo *database.CouponRepository,
	employeeRepo *database.EmployeeRepository,
	contractorRepo *database.ContractorRepository,
	notificationRepo *database.NotificationRepository,
	cfg config.CouponConfig,
	logger *logrus.Logger,
) *AllocationService {
	return &AllocationService{
		couponService:    couponService,
		couponRepo:       couponRepo,
		employeeRepo:     employeeRepo,
		contractorRepo:   contractorRepo,
		notificationRepo: notificationRepo,
		cfg:              cfg,
		logger:           logger,
	}
}

// GenerateForEmployee issues qty coupons of one type directly to an employee.
// All coupons of the call share a batch id so the batch can be removed again.
func (s *AllocationService) GenerateForEmployee(employeeID int64, couponType models.CouponType, qty int) ([]models.Coupon, error) {
	if err := s.validateQuantity(qty); err != nil {
		return nil, err
	}

	employee, err := s.employeeRepo.GetByID(employeeID)
	if err == database.ErrEmployeeNotFound {
		return nil, NotFoundError("Employee not found.")
	}
	if err != nil {
		return nil, TransientError("Failed to look up employee.", err)
	}
	if employee.Status == models.EmployeeStatusDeactivated {
		return nil, InvalidStateError("Cannot generate coupons for a deactivated employee.")
	}

	batchID := uuid.New()
	coupons := make([]models.Coupon, 0, qty)
	for i := 0; i < qty; i++ {
		coupon, err := s.couponService.Issue(models.CouponSpec{
			CouponType: couponType,
			EmployeeID: &employeeID,
			BatchID:    batchID,
		})
		if err != nil {
			return nil, err
		}
		coupons = append(coupons, *coupon)
	}

	s.notify(employeeID, fmt.Sprintf("%d %s coupon(s) have been issued to you.", qty, couponType))

	return coupons, nil
}

// GenerateForContractor issues qty unassigned pool coupons for a contractor
func (s *AllocationService) GenerateForContractor(contractorID int64, couponType models.CouponType, qty int) ([]models.Coupon, error) {
	if err := s.validateQuantity(qty); err != nil {
		return nil, err
	}

	if _, err := s.contractorRepo.GetByID(contractorID); err != nil {
		if err == database.ErrContractorNotFound {
			return nil, NotFoundError("Contractor not found.")
		}
		return nil, TransientError("Failed to look up contractor.", err)
	}

	batchID := uuid.New()
	coupons := make([]models.Coupon, 0, qty)
	for i := 0; i < qty; i++ {
		coupon, err := s.couponService.Issue(models.CouponSpec{
			CouponType:   couponType,
			ContractorID: &contractorID,
			BatchID:      batchID,
		})
		if err != nil {
			return nil, err
		}
		coupons = append(coupons, *coupon)
	}

	return coupons, nil
}

// AssignToEmployee moves qty coupons of one type from a contractor's
// unassigned pool to an employee. The repository applies all qty updates as
// one transaction; a shortfall assigns nothing.
func (s *AllocationService) AssignToEmployee(contractorID, employeeID int64, couponType models.CouponType, qty int) error {
	if err := s.validateQuantity(qty); err != nil {
		return err
	}
	if !models.ValidCouponType(couponType) {
		return ValidationError(fmt.Sprintf("Unknown coupon type %q.", couponType))
	}

	employee, err := s.employeeRepo.GetByID(employeeID)
	if err == database.ErrEmployeeNotFound {
		return NotFoundError("Employee not found.")
	}
	if err != nil {
		return TransientError("Failed to look up employee.", err)
	}
	if employee.Status == models.EmployeeStatusDeactivated {
		return InvalidStateError("Cannot assign coupons to a deactivated employee.")
	}

	err = s.couponRepo.AssignToEmployee(contractorID, employeeID, couponType, qty)
	if err == database.ErrInsufficientPool {
		return InsufficientPoolError(fmt.Sprintf("Not enough unassigned %s coupons in the pool.", couponType))
	}
	if err != nil {
		return TransientError("Failed to assign coupons.", err)
	}

	s.notify(employeeID, fmt.Sprintf("%d %s coupon(s) have been assigned to you.", qty, couponType))

	return nil
}

// PoolCounts returns the contractor's unassigned pool size per coupon type
func (s *AllocationService) PoolCounts(contractorID int64) ([]models.TypeCount, error) {
	counts, err := s.couponRepo.PoolCounts(contractorID)
	if err != nil {
		return nil, TransientError("Failed to count contractor pool.", err)
	}
	return counts, nil
}

func (s *AllocationService) validateQuantity(qty int) error {
	if qty < 1 {
		return ValidationError("Quantity must be at least 1.")
	}
	if qty > s.cfg.MaxBatchQuantity {
		return ValidationError(fmt.Sprintf("Quantity may not exceed %d.", s.cfg.MaxBatchQuantity))
	}
	return nil
}

// notify is best-effort: allocation already committed, a failed notification
// must not fail the operation
func (s *AllocationService) notify(employeeID int64, message string) {
	err := s.notificationRepo.Create(&models.Notification{
		EmployeeID: employeeID,
		Message:    message,
	})
	if err != nil {
		s.logger.WithError(err).WithField("employee_id", employeeID).Warn("Failed to create notification")
	}
}
