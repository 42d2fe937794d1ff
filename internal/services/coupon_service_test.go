package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyvacanteen/canteen-coupon-backend/internal/config"
	"github.com/hyvacanteen/canteen-coupon-backend/internal/database"
	"github.com/hyvacanteen/canteen-coupon-backend/internal/models"
)

func newCouponService(t *testing.T) (*CouponService, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := database.NewCouponRepository(sqlx.NewDb(db, "sqlmock"))
	cfg := config.CouponConfig{CodeLength: 4, CodeMaxAttempts: 5, MaxBatchQuantity: 100}
	return NewCouponService(repo, cfg), mock
}

func codeInUseRows(inUse bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"exists"}).AddRow(inUse)
}

func TestRandomNumericCode(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := randomNumericCode(4)
		require.NoError(t, err)
		assert.Len(t, code, 4)
		for _, ch := range code {
			assert.GreaterOrEqual(t, ch, '0')
			assert.LessOrEqual(t, ch, '9')
		}
	}
}

func TestNewCode(t *testing.T) {
	t.Run("First Candidate Free", func(t *testing.T) {
		svc, mock := newCouponService(t)

		mock.ExpectQuery(`SELECT EXISTS`).
			WillReturnRows(codeInUseRows(false))

		code, err := svc.NewCode()
		require.NoError(t, err)
		assert.Len(t, code, 4)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Skips Codes In Use", func(t *testing.T) {
		svc, mock := newCouponService(t)

		mock.ExpectQuery(`SELECT EXISTS`).WillReturnRows(codeInUseRows(true))
		mock.ExpectQuery(`SELECT EXISTS`).WillReturnRows(codeInUseRows(true))
		mock.ExpectQuery(`SELECT EXISTS`).WillReturnRows(codeInUseRows(false))

		code, err := svc.NewCode()
		require.NoError(t, err)
		assert.Len(t, code, 4)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Gives Up After Max Attempts", func(t *testing.T) {
		svc, mock := newCouponService(t)

		for i := 0; i < 5; i++ {
			mock.ExpectQuery(`SELECT EXISTS`).WillReturnRows(codeInUseRows(true))
		}

		_, err := svc.NewCode()
		require.Error(t, err)
		assert.Equal(t, KindTransient, KindOf(err))

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestIssue(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc, mock := newCouponService(t)

		mock.ExpectQuery(`SELECT EXISTS`).WillReturnRows(codeInUseRows(false))
		mock.ExpectExec(`INSERT INTO coupons`).WillReturnResult(sqlmock.NewResult(0, 1))

		employeeID := int64(7)
		coupon, err := svc.Issue(models.CouponSpec{
			CouponType: models.CouponTypeBreakfast,
			EmployeeID: &employeeID,
		})
		require.NoError(t, err)
		assert.Equal(t, models.CouponTypeBreakfast, coupon.CouponType)
		assert.Equal(t, models.CouponStatusIssued, coupon.Status)
		assert.Len(t, coupon.RedemptionCode, 4)
		assert.True(t, coupon.EmployeeID.Valid)
		assert.Equal(t, employeeID, coupon.EmployeeID.Int64)
		assert.NotEqual(t, uuid.Nil, coupon.BatchID)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Retries On Code Collision", func(t *testing.T) {
		svc, mock := newCouponService(t)

		// The free-code check passes but the insert hits the partial unique
		// index; the second attempt succeeds with a fresh code
		mock.ExpectQuery(`SELECT EXISTS`).WillReturnRows(codeInUseRows(false))
		mock.ExpectExec(`INSERT INTO coupons`).WillReturnError(&pq.Error{Code: "23505"})
		mock.ExpectQuery(`SELECT EXISTS`).WillReturnRows(codeInUseRows(false))
		mock.ExpectExec(`INSERT INTO coupons`).WillReturnResult(sqlmock.NewResult(0, 1))

		coupon, err := svc.Issue(models.CouponSpec{CouponType: models.CouponTypeSnacks})
		require.NoError(t, err)
		assert.Len(t, coupon.RedemptionCode, 4)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Rejects Unknown Type", func(t *testing.T) {
		svc, _ := newCouponService(t)

		_, err := svc.Issue(models.CouponSpec{CouponType: "High Tea"})
		require.Error(t, err)
		assert.Equal(t, KindValidation, KindOf(err))
	})
}

func TestFind(t *testing.T) {
	t.Run("Unknown Code Is Not An Error", func(t *testing.T) {
		svc, mock := newCouponService(t)

		mock.ExpectQuery(`SELECT (.+) FROM coupons`).
			WithArgs("9999").
			WillReturnRows(sqlmock.NewRows([]string{"coupon_id"}))

		coupon, err := svc.Find("9999")
		require.NoError(t, err)
		assert.Nil(t, coupon)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTransitionToRedeemed(t *testing.T) {
	t.Run("Already Redeemed Maps To Invalid State", func(t *testing.T) {
		svc, mock := newCouponService(t)
		couponID := uuid.New()

		mock.ExpectQuery(`UPDATE coupons`).
			WithArgs(couponID).
			WillReturnRows(sqlmock.NewRows([]string{"coupon_id"}))
		mock.ExpectQuery(`SELECT (.+) FROM coupons`).
			WithArgs(couponID).
			WillReturnRows(sqlmock.NewRows([]string{
				"coupon_id", "coupon_type", "redemption_code", "status", "date_issued",
				"redeem_date", "employee_id", "contractor_id", "is_guest_coupon",
				"guest_name", "shared_by_employee_id", "batch_id",
			}).AddRow(
				couponID, models.CouponTypeBreakfast, "0427", models.CouponStatusRedeemed,
				time.Now(), nil, nil, nil, false, nil, nil, uuid.New(),
			))

		_, err := svc.TransitionToRedeemed(couponID)
		require.Error(t, err)
		assert.Equal(t, KindInvalidState, KindOf(err))
		assert.Equal(t, "This coupon has already been redeemed.", MessageOf(err))

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing Coupon Maps To Not Found", func(t *testing.T) {
		svc, mock := newCouponService(t)
		couponID := uuid.New()

		mock.ExpectQuery(`UPDATE coupons`).
			WithArgs(couponID).
			WillReturnRows(sqlmock.NewRows([]string{"coupon_id"}))
		mock.ExpectQuery(`SELECT (.+) FROM coupons`).
			WithArgs(couponID).
			WillReturnRows(sqlmock.NewRows([]string{"coupon_id"}))

		_, err := svc.TransitionToRedeemed(couponID)
		require.Error(t, err)
		assert.Equal(t, KindNotFound, KindOf(err))

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
