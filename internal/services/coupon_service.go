package services

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"github.com/hyvacanteen/canteen-coupon-backend/internal/config"
	"github.com/hyvacanteen/canteen-coupon-backend/internal/database"
	"github.com/hyvacanteen/canteen-coupon-backend/internal/metrics"
	"github.com/hyvacanteen/canteen-coupon-backend/internal/models"
)

// CouponService is the coupon ledger: the single authority for minting
// coupons, looking them up, applying the issued -> redeemed transition and
// removing records. Redemption codes are unique among currently-issued
// coupons; a code frees up again once its coupon is redeemed.
type CouponService struct {
	couponRepo *database.CouponRepository
	cfg        config.CouponConfig
}

// NewCouponService creates a new CouponService
func NewCouponService(couponRepo *database.CouponRepository, cfg config.CouponConfig) *CouponService {
	return &CouponService{
		couponRepo: couponRepo,
		cfg:        cfg,
	}
}

// NewCode generates a random numeric redemption code not currently held by
// any issued coupon. The check-then-use gap is closed by the ledger's partial
// unique index; Issue retries on that collision.
func (s *CouponService) NewCode() (string, error) {
	for attempt := 0; attempt < s.cfg.CodeMaxAttempts; attempt++ {
		code, err := randomNumericCode(s.cfg.CodeLength)
		if err != nil {
			return "", TransientError("Failed to generate redemption code.", err)
		}

		inUse, err := s.couponRepo.CodeInUse(code)
		if err != nil {
			return "", TransientError("Failed to check redemption code.", err)
		}
		if !inUse {
			return code, nil
		}
	}

	return "", TransientError("Redemption code space exhausted.", fmt.Errorf("no free code after %d attempts", s.cfg.CodeMaxAttempts))
}

// Issue mints one coupon in state issued from the given CouponSpec
func (s *CouponService) Issue(spec models.CouponSpec) (*models.Coupon, error) {
	if !models.ValidCouponType(spec.CouponType) {
		return nil, ValidationError(fmt.Sprintf("Unknown coupon type %q.", spec.CouponType))
	}

	coupon := &models.Coupon{
		CouponID:      uuid.New(),
		CouponType:    spec.CouponType,
		IsGuestCoupon: spec.IsGuestCoupon,
		BatchID:       spec.BatchID,
	}
	if coupon.BatchID == uuid.Nil {
		coupon.BatchID = uuid.New()
	}
	if spec.EmployeeID != nil {
		coupon.EmployeeID.Valid = true
		coupon.EmployeeID.Int64 = *spec.EmployeeID
	}
	if spec.ContractorID != nil {
		coupon.ContractorID.Valid = true
		coupon.ContractorID.Int64 = *spec.ContractorID
	}
	if spec.GuestName != "" {
		coupon.GuestName.Valid = true
		coupon.GuestName.String = spec.GuestName
	}
	if spec.SharedByEmployeeID != nil {
		coupon.SharedByEmployeeID.Valid = true
		coupon.SharedByEmployeeID.Int64 = *spec.SharedByEmployeeID
	}

	// Retry on code collision: another issuance can win the same code between
	// the free-code check and the insert
	for attempt := 0; attempt < s.cfg.CodeMaxAttempts; attempt++ {
		code, err := s.NewCode()
		if err != nil {
			return nil, err
		}
		coupon.RedemptionCode = code

		err = s.couponRepo.Insert(coupon)
		if err == nil {
			metrics.CouponsIssued.WithLabelValues(string(coupon.CouponType)).Inc()
			return coupon, nil
		}
		if err != database.ErrDuplicateCode {
			return nil, TransientError("Failed to issue coupon.", err)
		}
	}

	return nil, TransientError("Failed to issue coupon.", fmt.Errorf("code collisions exhausted %d attempts", s.cfg.CodeMaxAttempts))
}

// Find looks up a coupon by redemption code. Returns nil with no error when
// no coupon holds the code.
func (s *CouponService) Find(code string) (*models.Coupon, error) {
	coupon, err := s.couponRepo.GetByCode(code)
	if err == database.ErrCouponNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, TransientError("Failed to look up coupon.", err)
	}
	return coupon, nil
}

// TransitionToRedeemed applies the one-way issued -> redeemed transition.
// This is the single mutation point of the coupon lifecycle.
func (s *CouponService) TransitionToRedeemed(couponID uuid.UUID) (*models.Coupon, error) {
	coupon, err := s.couponRepo.Redeem(couponID)
	switch err {
	case nil:
		return coupon, nil
	case database.ErrCouponNotFound:
		return nil, NotFoundError("Coupon not found.")
	case database.ErrCouponAlreadyRedeemed:
		return nil, InvalidStateError("This coupon has already been redeemed.")
	default:
		return nil, TransientError("Failed to redeem coupon.", err)
	}
}

// Remove hard-deletes a coupon (administrative removal)
func (s *CouponService) Remove(couponID uuid.UUID) error {
	err := s.couponRepo.Delete(couponID)
	switch err {
	case nil:
		return nil
	case database.ErrCouponNotFound:
		return NotFoundError("Coupon not found.")
	default:
		return TransientError("Failed to remove coupon.", err)
	}
}

// RemoveLastBatch deletes the most recent still-issued batch generated for an
// employee and reports how many coupons were removed
func (s *CouponService) RemoveLastBatch(employeeID int64) (int, error) {
	removed, err := s.couponRepo.RemoveLastBatch(employeeID)
	if err != nil {
		return 0, TransientError("Failed to remove coupon batch.", err)
	}
	return removed, nil
}

// ListAll returns every coupon in the ledger, newest first
func (s *CouponService) ListAll() ([]models.Coupon, error) {
	coupons, err := s.couponRepo.ListAll()
	if err != nil {
		return nil, TransientError("Failed to list coupons.", err)
	}
	return coupons, nil
}

// ListForEmployee returns the coupons assigned to one employee
func (s *CouponService) ListForEmployee(employeeID int64) ([]models.Coupon, error) {
	coupons, err := s.couponRepo.ListByEmployee(employeeID)
	if err != nil {
		return nil, TransientError("Failed to list employee coupons.", err)
	}
	return coupons, nil
}

// randomNumericCode returns a random code of length digits with leading zeros
func randomNumericCode(length int) (string, error) {
	max := big.NewInt(1)
	for i := 0; i < length; i++ {
		max.Mul(max, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%0*d", length, n.Int64()), nil
}
