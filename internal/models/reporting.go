package models

// DashboardStats are the headline counters shown on the admin dashboard.
// Recomputed from the ledger on every request; never cached.
type DashboardStats struct {
	TotalIssued    int `json:"totalIssued"`
	TotalRedeemed  int `json:"totalRedeemed"`
	TodaysIssued   int `json:"todaysIssued"`
	TodaysRedeemed int `json:"todaysRedeemed"`
}

// EmployeeCouponStats are per-employee issued/redeemed counts
type EmployeeCouponStats struct {
	EmployeeID int64 `json:"employeeId" db:"employee_id"`
	Issued     int   `json:"issued" db:"issued"`
	Redeemed   int   `json:"redeemed" db:"redeemed"`
}

// TypeCount is a count of coupons for one coupon type
type TypeCount struct {
	CouponType CouponType `json:"couponType" db:"coupon_type"`
	Count      int        `json:"count" db:"count"`
}

// MonthlyTypeCount is a per-month, per-type issuance total
type MonthlyTypeCount struct {
	Month      string     `json:"month" db:"month"`
	CouponType CouponType `json:"couponType" db:"coupon_type"`
	Count      int        `json:"count" db:"count"`
}
