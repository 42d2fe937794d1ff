package database

import (
	"sort"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyvacanteen/canteen-coupon-backend/internal/models"
)

func newReportingRepo(t *testing.T) (*ReportingRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	pgDB := &PostgresDB{DB: sqlx.NewDb(db, "sqlmock")}
	return NewReportingRepository(pgDB), mock
}

func TestDashboardStats(t *testing.T) {
	repo, mock := newReportingRepo(t)

	now := time.Date(2026, 8, 31, 12, 30, 0, 0, time.UTC)
	dayStart := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	mock.ExpectQuery(`SELECT`).
		WithArgs(dayStart, dayEnd).
		WillReturnRows(sqlmock.NewRows([]string{
			"total_issued", "total_redeemed", "todays_issued", "todays_redeemed",
		}).AddRow(120, 85, 14, 9))

	stats, err := repo.DashboardStats(now)
	require.NoError(t, err)
	assert.Equal(t, 120, stats.TotalIssued)
	assert.Equal(t, 85, stats.TotalRedeemed)
	assert.Equal(t, 14, stats.TodaysIssued)
	assert.Equal(t, 9, stats.TodaysRedeemed)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeStats(t *testing.T) {
	repo, mock := newReportingRepo(t)

	mock.ExpectQuery(`SELECT`).
		WillReturnRows(sqlmock.NewRows([]string{"employee_id", "issued", "redeemed"}).
			AddRow(int64(3), 10, 7).
			AddRow(int64(7), 4, 4))

	stats, err := repo.EmployeeStats()
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, int64(3), stats[0].EmployeeID)
	assert.Equal(t, 10, stats[0].Issued)
	assert.Equal(t, 7, stats[0].Redeemed)

	assert.NoError(t, mock.ExpectationsWereMet())
}

// ledgerRow is one coupon of a fixed ledger snapshot. employeeID 0 means the
// coupon is unassigned: a contractor pool coupon or a guest coupon.
type ledgerRow struct {
	employeeID int64
	redeemed   bool
}

// snapshotEmployeeStats applies the same scoping as the per-employee queries:
// only coupons carrying an employee_id count, ordered by employee id.
func snapshotEmployeeStats(snapshot []ledgerRow) []models.EmployeeCouponStats {
	byID := map[int64]*models.EmployeeCouponStats{}
	for _, row := range snapshot {
		if row.employeeID == 0 {
			continue
		}
		stats := byID[row.employeeID]
		if stats == nil {
			stats = &models.EmployeeCouponStats{EmployeeID: row.employeeID}
			byID[row.employeeID] = stats
		}
		stats.Issued++
		if row.redeemed {
			stats.Redeemed++
		}
	}

	result := []models.EmployeeCouponStats{}
	for _, stats := range byID {
		result = append(result, *stats)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].EmployeeID < result[j].EmployeeID })
	return result
}

// One snapshot drives the aggregate, the itemized and the per-employee views.
// Dashboard totals span the whole ledger, so the sum of per-employee counts
// equals the totals minus the unassigned pool and guest coupons.
func TestReportingViewsConsistentForSnapshot(t *testing.T) {
	repo, mock := newReportingRepo(t)

	snapshot := []ledgerRow{
		{employeeID: 3},
		{employeeID: 3, redeemed: true},
		{employeeID: 3, redeemed: true},
		{employeeID: 7},
		{employeeID: 7, redeemed: true},
		{},               // contractor pool, not yet assigned
		{},               // contractor pool, not yet assigned
		{redeemed: true}, // guest coupon, redeemed at the counter
	}

	var totalRedeemed, unassigned, unassignedRedeemed int
	for _, row := range snapshot {
		if row.redeemed {
			totalRedeemed++
		}
		if row.employeeID == 0 {
			unassigned++
			if row.redeemed {
				unassignedRedeemed++
			}
		}
	}
	perEmployee := snapshotEmployeeStats(snapshot)

	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	dayStart := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT`).
		WithArgs(dayStart, dayStart.AddDate(0, 0, 1)).
		WillReturnRows(sqlmock.NewRows([]string{
			"total_issued", "total_redeemed", "todays_issued", "todays_redeemed",
		}).AddRow(len(snapshot), totalRedeemed, 0, 0))

	aggregateRows := sqlmock.NewRows([]string{"employee_id", "issued", "redeemed"})
	for _, stats := range perEmployee {
		aggregateRows.AddRow(stats.EmployeeID, stats.Issued, stats.Redeemed)
	}
	mock.ExpectQuery(`SELECT`).WillReturnRows(aggregateRows)

	for _, stats := range perEmployee {
		mock.ExpectQuery(`SELECT`).
			WithArgs(stats.EmployeeID).
			WillReturnRows(sqlmock.NewRows([]string{"issued", "redeemed"}).
				AddRow(stats.Issued, stats.Redeemed))
	}

	dashboard, err := repo.DashboardStats(now)
	require.NoError(t, err)

	aggregate, err := repo.EmployeeStats()
	require.NoError(t, err)
	require.Len(t, aggregate, len(perEmployee))

	// The aggregate view and the per-employee view agree row for row
	var sumIssued, sumRedeemed int
	for _, row := range aggregate {
		itemized, err := repo.StatsForEmployee(row.EmployeeID)
		require.NoError(t, err)
		assert.Equal(t, row, *itemized)
		sumIssued += row.Issued
		sumRedeemed += row.Redeemed
	}

	// Per-employee counts add up to the dashboard totals once the coupons
	// that carry no employee_id are taken out
	assert.Equal(t, dashboard.TotalIssued-unassigned, sumIssued)
	assert.Equal(t, dashboard.TotalRedeemed-unassignedRedeemed, sumRedeemed)

	assert.NoError(t, mock.ExpectationsWereMet())
}

// Repeated reads of an unchanged ledger return identical results, and each
// read hits the database again. A cached second call would leave the second
// expectation unmet.
func TestEmployeeStatsRecomputedPerCall(t *testing.T) {
	repo, mock := newReportingRepo(t)

	for i := 0; i < 2; i++ {
		mock.ExpectQuery(`SELECT`).
			WillReturnRows(sqlmock.NewRows([]string{"employee_id", "issued", "redeemed"}).
				AddRow(int64(3), 10, 7).
				AddRow(int64(7), 4, 4))
	}

	first, err := repo.EmployeeStats()
	require.NoError(t, err)
	second, err := repo.EmployeeStats()
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedemptionsByTypeForDay(t *testing.T) {
	repo, mock := newReportingRepo(t)

	day := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	dayStart := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	mock.ExpectQuery(`SELECT coupon_type`).
		WithArgs(dayStart, dayEnd).
		WillReturnRows(sqlmock.NewRows([]string{"coupon_type", "count"}).
			AddRow(models.CouponTypeBreakfast, 5).
			AddRow(models.CouponTypeLunchDinner, 12))

	counts, err := repo.RedemptionsByTypeForDay(day)
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, models.CouponTypeBreakfast, counts[0].CouponType)
	assert.Equal(t, 5, counts[0].Count)

	assert.NoError(t, mock.ExpectationsWereMet())
}
