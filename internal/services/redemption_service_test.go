package services

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyvacanteen/canteen-coupon-backend/internal/models"
)

// The production wiring hands the processor a CouponService
var _ couponLedger = (*CouponService)(nil)

type fakeLedger struct {
	coupon        *models.Coupon
	findErr       error
	redeemed      *models.Coupon
	transitionErr error
}

func (f *fakeLedger) Find(code string) (*models.Coupon, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.coupon, nil
}

func (f *fakeLedger) TransitionToRedeemed(couponID uuid.UUID) (*models.Coupon, error) {
	if f.transitionErr != nil {
		return nil, f.transitionErr
	}
	return f.redeemed, nil
}

type fakeAudit struct {
	entries   []*models.RedemptionLog
	appendErr error
}

func (f *fakeAudit) Append(entry *models.RedemptionLog) error {
	f.entries = append(f.entries, entry)
	return f.appendErr
}

type fakeEmployees struct {
	employee *models.Employee
	err      error
}

func (f *fakeEmployees) GetByID(id int64) (*models.Employee, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.employee, nil
}

func issuedCoupon(code string) *models.Coupon {
	return &models.Coupon{
		CouponID:       uuid.New(),
		CouponType:     models.CouponTypeLunchDinner,
		RedemptionCode: code,
		Status:         models.CouponStatusIssued,
	}
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func TestRedeemByCode_Success(t *testing.T) {
	coupon := issuedCoupon("0427")
	redeemed := *coupon
	redeemed.Status = models.CouponStatusRedeemed

	ledger := &fakeLedger{coupon: coupon, redeemed: &redeemed}
	audit := &fakeAudit{}
	svc := NewRedemptionService(ledger, audit, &fakeEmployees{}, testLogger())

	result := svc.RedeemByCode("0427", AttemptMeta{IPAddress: "10.0.0.4", DeviceInfo: "Desktop / Linux / Firefox"})

	assert.True(t, result.Success)
	assert.Equal(t, "Coupon redeemed successfully.", result.Message)

	require.Len(t, audit.entries, 1)
	entry := audit.entries[0]
	assert.Equal(t, "0427", entry.Code)
	assert.Equal(t, models.RedemptionSuccess, entry.Status)
	assert.Equal(t, "Coupon redeemed successfully.", entry.Message)
	assert.Equal(t, "10.0.0.4", entry.IPAddress.String)
	assert.Equal(t, "Desktop / Linux / Firefox", entry.DeviceInfo.String)
}

func TestRedeemByCode_UnknownCode(t *testing.T) {
	ledger := &fakeLedger{coupon: nil}
	audit := &fakeAudit{}
	svc := NewRedemptionService(ledger, audit, &fakeEmployees{}, testLogger())

	result := svc.RedeemByCode("9999", AttemptMeta{})

	assert.False(t, result.Success)
	assert.Equal(t, "Invalid coupon code.", result.Message)

	// The failed attempt still lands in the audit trail with the code tried
	require.Len(t, audit.entries, 1)
	assert.Equal(t, "9999", audit.entries[0].Code)
	assert.Equal(t, models.RedemptionNotFound, audit.entries[0].Status)
	assert.False(t, audit.entries[0].CouponType.Valid)
}

func TestRedeemByCode_AlreadyRedeemed(t *testing.T) {
	coupon := issuedCoupon("0427")
	coupon.Status = models.CouponStatusRedeemed

	ledger := &fakeLedger{coupon: coupon}
	audit := &fakeAudit{}
	svc := NewRedemptionService(ledger, audit, &fakeEmployees{}, testLogger())

	result := svc.RedeemByCode("0427", AttemptMeta{})

	assert.False(t, result.Success)
	assert.Equal(t, "This coupon has already been redeemed.", result.Message)

	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.RedemptionAlreadyRedeemed, audit.entries[0].Status)
}

func TestRedeemByCode_LostRace(t *testing.T) {
	coupon := issuedCoupon("0427")

	ledger := &fakeLedger{coupon: coupon, transitionErr: InvalidStateError("This coupon has already been redeemed.")}
	audit := &fakeAudit{}
	svc := NewRedemptionService(ledger, audit, &fakeEmployees{}, testLogger())

	result := svc.RedeemByCode("0427", AttemptMeta{})

	assert.False(t, result.Success)
	assert.Equal(t, "This coupon has already been redeemed.", result.Message)
	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.RedemptionAlreadyRedeemed, audit.entries[0].Status)
}

func TestRedeemByCode_StorageError(t *testing.T) {
	ledger := &fakeLedger{findErr: TransientError("Failed to look up coupon.", fmt.Errorf("connection reset"))}
	audit := &fakeAudit{}
	svc := NewRedemptionService(ledger, audit, &fakeEmployees{}, testLogger())

	result := svc.RedeemByCode("0427", AttemptMeta{})

	assert.False(t, result.Success)
	assert.Equal(t, "Failed to redeem coupon.", result.Message)
	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.RedemptionError, audit.entries[0].Status)
}

func TestRedeemByCode_AuditFailureKeepsOutcome(t *testing.T) {
	coupon := issuedCoupon("0427")
	redeemed := *coupon
	redeemed.Status = models.CouponStatusRedeemed

	ledger := &fakeLedger{coupon: coupon, redeemed: &redeemed}
	audit := &fakeAudit{appendErr: fmt.Errorf("disk full")}
	svc := NewRedemptionService(ledger, audit, &fakeEmployees{}, testLogger())

	result := svc.RedeemByCode("0427", AttemptMeta{})

	// The ledger transition already happened; a broken audit write must not
	// turn a redeemed coupon into a reported failure
	assert.True(t, result.Success)
	assert.Equal(t, "Coupon redeemed successfully.", result.Message)
}

func TestRedeemByCode_TrimsWhitespace(t *testing.T) {
	coupon := issuedCoupon("0427")
	redeemed := *coupon
	redeemed.Status = models.CouponStatusRedeemed

	ledger := &fakeLedger{coupon: coupon, redeemed: &redeemed}
	audit := &fakeAudit{}
	svc := NewRedemptionService(ledger, audit, &fakeEmployees{}, testLogger())

	result := svc.RedeemByCode("  0427  ", AttemptMeta{})

	assert.True(t, result.Success)
	require.Len(t, audit.entries, 1)
	assert.Equal(t, "0427", audit.entries[0].Code)
}

func TestHolderName(t *testing.T) {
	t.Run("Guest Coupon", func(t *testing.T) {
		svc := NewRedemptionService(&fakeLedger{}, &fakeAudit{}, &fakeEmployees{}, testLogger())

		coupon := issuedCoupon("0427")
		coupon.IsGuestCoupon = true
		coupon.GuestName = models.NewNullString("A. Visitor")

		assert.Equal(t, "A. Visitor (Guest)", svc.holderName(coupon))
	})

	t.Run("Employee Coupon", func(t *testing.T) {
		employees := &fakeEmployees{employee: &models.Employee{ID: 7, Name: "Nimal Perera"}}
		svc := NewRedemptionService(&fakeLedger{}, &fakeAudit{}, employees, testLogger())

		coupon := issuedCoupon("0427")
		coupon.EmployeeID.Valid = true
		coupon.EmployeeID.Int64 = 7

		assert.Equal(t, "Nimal Perera", svc.holderName(coupon))
	})

	t.Run("Unassigned Pool Coupon", func(t *testing.T) {
		svc := NewRedemptionService(&fakeLedger{}, &fakeAudit{}, &fakeEmployees{}, testLogger())

		assert.Equal(t, "Unassigned", svc.holderName(issuedCoupon("0427")))
	})
}
