package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "canteen_http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "canteen_http_request_duration_seconds",
			Help: "Duration of HTTP request handling in seconds",
		},
		[]string{"method", "path"},
	)

	RedemptionAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "canteen_redemption_attempts_total",
			Help: "Redemption attempts by outcome (success, not_found, already_redeemed, error)",
		},
		[]string{"outcome"},
	)

	CouponsIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "canteen_coupons_issued_total",
			Help: "Coupons issued by type",
		},
		[]string{"coupon_type"},
	)
)
