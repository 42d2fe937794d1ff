package services

import (
	"strings"

	"github.com/google/uuid"
	"github.com/hyvacanteen/canteen-coupon-backend/internal/metrics"
	"github.com/hyvacanteen/canteen-coupon-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// Result messages surfaced to the point of service
const (
	msgInvalidCode     = "Invalid coupon code."
	msgAlreadyRedeemed = "This coupon has already been redeemed."
	msgRedeemed        = "Coupon redeemed successfully."
	msgRedeemFailed    = "Failed to redeem coupon."
)

// Dependencies of the redemption processor (interfaces to allow mocking).
// The ledger contract is satisfied by CouponService.
type couponLedger interface {
	Find(code string) (*models.Coupon, error)
	TransitionToRedeemed(couponID uuid.UUID) (*models.Coupon, error)
}

type auditTrail interface {
	Append(entry *models.RedemptionLog) error
}

type employeeLookup interface {
	GetByID(id int64) (*models.Employee, error)
}

// RedemptionResult is the structured outcome of a redemption attempt
type RedemptionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// AttemptMeta carries request metadata into the audit trail
type AttemptMeta struct {
	IPAddress  string
	DeviceInfo string
}

// RedemptionService validates a redemption code against the ledger, applies
// the single issued -> redeemed transition, and appends one audit log entry
// per attempt regardless of outcome.
type RedemptionService struct {
	ledger    couponLedger
	audit     auditTrail
	employees employeeLookup
	logger    *logrus.Logger
}

// NewRedemptionService creates a new RedemptionService
func NewRedemptionService(ledger couponLedger, audit auditTrail, employees employeeLookup, logger *logrus.Logger) *RedemptionService {
	return &RedemptionService{
		ledger:    ledger,
		audit:     audit,
		employees: employees,
		logger:    logger,
	}
}

// RedeemByCode consumes the coupon holding code. Every attempt is written to
// the redemption log before the result is returned, so the audit trail stays
// complete even when the caller disconnects.
func (s *RedemptionService) RedeemByCode(code string, meta AttemptMeta) RedemptionResult {
	code = strings.TrimSpace(code)

	coupon, err := s.ledger.Find(code)
	if err != nil {
		s.record(code, models.RedemptionError, err.Error(), nil, meta)
		return RedemptionResult{Success: false, Message: msgRedeemFailed}
	}
	if coupon == nil {
		s.record(code, models.RedemptionNotFound, msgInvalidCode, nil, meta)
		return RedemptionResult{Success: false, Message: msgInvalidCode}
	}

	if coupon.Status == models.CouponStatusRedeemed {
		s.record(code, models.RedemptionAlreadyRedeemed, msgAlreadyRedeemed, coupon, meta)
		return RedemptionResult{Success: false, Message: msgAlreadyRedeemed}
	}

	redeemed, err := s.ledger.TransitionToRedeemed(coupon.CouponID)
	if KindOf(err) == KindInvalidState {
		// Lost a race with a concurrent attempt; the CAS guarantees at most
		// one of them succeeded
		s.record(code, models.RedemptionAlreadyRedeemed, msgAlreadyRedeemed, coupon, meta)
		return RedemptionResult{Success: false, Message: msgAlreadyRedeemed}
	}
	if err != nil {
		s.record(code, models.RedemptionError, err.Error(), coupon, meta)
		return RedemptionResult{Success: false, Message: msgRedeemFailed}
	}

	s.record(code, models.RedemptionSuccess, msgRedeemed, redeemed, meta)
	return RedemptionResult{Success: true, Message: msgRedeemed}
}

// record appends the audit entry and bumps the redemption metrics. A failed
// append is logged loudly but does not change the redemption outcome: the
// ledger state is already what the result says it is.
func (s *RedemptionService) record(code string, outcome models.RedemptionOutcome, message string, coupon *models.Coupon, meta AttemptMeta) {
	entry := &models.RedemptionLog{
		Code:    code,
		Status:  outcome,
		Message: message,
	}

	if meta.IPAddress != "" {
		entry.IPAddress.Valid = true
		entry.IPAddress.String = meta.IPAddress
	}
	if meta.DeviceInfo != "" {
		entry.DeviceInfo.Valid = true
		entry.DeviceInfo.String = meta.DeviceInfo
	}

	if coupon != nil {
		entry.CouponType.Valid = true
		entry.CouponType.String = string(coupon.CouponType)
		entry.EmployeeName.Valid = true
		entry.EmployeeName.String = s.holderName(coupon)
	}

	if err := s.audit.Append(entry); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"code":    code,
			"outcome": outcome,
		}).Error("Failed to append redemption log entry")
	}

	metrics.RedemptionAttempts.WithLabelValues(string(outcome)).Inc()
}

// holderName resolves who the coupon belongs to for the audit record
func (s *RedemptionService) holderName(coupon *models.Coupon) string {
	if coupon.IsGuestCoupon && coupon.GuestName.Valid {
		return coupon.GuestName.String + " (Guest)"
	}

	if coupon.EmployeeID.Valid {
		employee, err := s.employees.GetByID(coupon.EmployeeID.Int64)
		if err == nil {
			return employee.Name
		}
		s.logger.WithError(err).WithField("employee_id", coupon.EmployeeID.Int64).Warn("Failed to resolve coupon holder")
	}

	return "Unassigned"
}
