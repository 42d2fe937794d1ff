package models

import (
	"time"

	"github.com/google/uuid"
)

// GuestRequestStatus is the decision state of a guest coupon request
type GuestRequestStatus string

const (
	GuestRequestPending  GuestRequestStatus = "pending"
	GuestRequestApproved GuestRequestStatus = "approved"
	GuestRequestRejected GuestRequestStatus = "rejected"
)

// GuestCouponRequest is an employee-initiated ask to issue a coupon to a
// non-employee guest, subject to admin approval
type GuestCouponRequest struct {
	ID                      uuid.UUID          `json:"id" db:"id"`
	RequestingEmployeeID    int64              `json:"requestingEmployeeId" db:"requesting_employee_id"`
	RequestingEmployeeName  string             `json:"requestingEmployeeName" db:"requesting_employee_name"`
	GuestName               string             `json:"guestName" db:"guest_name"`
	GuestCompany            string             `json:"guestCompany" db:"guest_company"`
	CouponType              CouponType         `json:"couponType" db:"coupon_type"`
	Status                  GuestRequestStatus `json:"status" db:"status"`
	RequestDate             time.Time          `json:"requestDate" db:"request_date"`
	DecisionDate            NullTime           `json:"decisionDate" db:"decision_date"`
	GeneratedCouponID       uuid.NullUUID      `json:"generatedCouponId" db:"generated_coupon_id"`
}
