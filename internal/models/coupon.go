package models

import (
	"time"

	"github.com/google/uuid"
)

// CouponType is the meal category a coupon is valid for
type CouponType string

const (
	CouponTypeBreakfast   CouponType = "Breakfast"
	CouponTypeLunchDinner CouponType = "Lunch/Dinner"
	CouponTypeSnacks      CouponType = "Snacks"
	CouponTypeBeverage    CouponType = "Beverage"
)

// CouponStatus is the lifecycle state of a coupon
type CouponStatus string

const (
	CouponStatusIssued   CouponStatus = "issued"
	CouponStatusRedeemed CouponStatus = "redeemed"
)

// ValidCouponType reports whether t is one of the four meal categories
func ValidCouponType(t CouponType) bool {
	switch t {
	case CouponTypeBreakfast, CouponTypeLunchDinner, CouponTypeSnacks, CouponTypeBeverage:
		return true
	}
	return false
}

// Coupon is a single meal-benefit unit tied to a redemption code.
// The JSON field names form the durable schema other systems depend on.
type Coupon struct {
	CouponID           uuid.UUID    `json:"couponId" db:"coupon_id"`
	CouponType         CouponType   `json:"couponType" db:"coupon_type"`
	RedemptionCode     string       `json:"redemptionCode" db:"redemption_code"`
	Status             CouponStatus `json:"status" db:"status"`
	DateIssued         time.Time    `json:"dateIssued" db:"date_issued"`
	RedeemDate         NullTime     `json:"redeemDate" db:"redeem_date"`
	EmployeeID         NullInt64    `json:"employeeId" db:"employee_id"`
	ContractorID       NullInt64    `json:"contractorId" db:"contractor_id"`
	IsGuestCoupon      bool         `json:"isGuestCoupon" db:"is_guest_coupon"`
	GuestName          NullString   `json:"guestName,omitempty" db:"guest_name"`
	SharedByEmployeeID NullInt64    `json:"sharedByEmployeeId,omitempty" db:"shared_by_employee_id"`
	BatchID            uuid.UUID    `json:"batchId" db:"batch_id"`
}

// CouponSpec describes a coupon to be minted by the ledger
type CouponSpec struct {
	CouponType         CouponType
	EmployeeID         *int64
	ContractorID       *int64
	IsGuestCoupon      bool
	GuestName          string
	SharedByEmployeeID *int64
	BatchID            uuid.UUID
}
