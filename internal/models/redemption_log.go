package models

import (
	"time"

	"github.com/google/uuid"
)

// RedemptionOutcome classifies a redemption attempt
type RedemptionOutcome string

const (
	RedemptionSuccess         RedemptionOutcome = "success"
	RedemptionNotFound        RedemptionOutcome = "not_found"
	RedemptionAlreadyRedeemed RedemptionOutcome = "already_redeemed"
	RedemptionError           RedemptionOutcome = "error"
)

// RedemptionLog is an immutable audit record of a single redemption attempt.
// One row is written for every attempt regardless of outcome; rows are never
// updated or deleted.
type RedemptionLog struct {
	ID           uuid.UUID         `json:"id" db:"id"`
	Timestamp    time.Time         `json:"timestamp" db:"timestamp"`
	Code         string            `json:"code" db:"code"`
	Status       RedemptionOutcome `json:"status" db:"status"`
	Message      string            `json:"message" db:"message"`
	EmployeeName NullString        `json:"employeeName,omitempty" db:"employee_name"`
	CouponType   NullString        `json:"couponType,omitempty" db:"coupon_type"`
	IPAddress    NullString        `json:"ipAddress,omitempty" db:"ip_address"`
	DeviceInfo   NullString        `json:"deviceInfo,omitempty" db:"device_info"`
}
