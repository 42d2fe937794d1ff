package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/hyvacanteen/canteen-coupon-backend/internal/database"
	"github.com/hyvacanteen/canteen-coupon-backend/internal/models"
	"github.com/hyvacanteen/canteen-coupon-backend/pkg/jwt"
)

func newAuthService(t *testing.T) (*AuthService, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	pgDB := &database.PostgresDB{DB: sqlx.NewDb(db, "sqlmock")}
	jwtService := jwt.NewService("test-access-secret", "test-refresh-secret", time.Hour, 24*time.Hour)

	svc := NewAuthService(
		database.NewEmployeeRepository(pgDB),
		database.NewContractorRepository(pgDB),
		jwtService,
		bcrypt.MinCost,
	)
	return svc, mock
}

func hashedPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func employeeLoginRows(t *testing.T, password, status string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "name", "email", "employee_code", "password_hash", "role",
		"department", "contractor", "status", "created_at", "updated_at",
	}).AddRow(
		int64(7), "Nimal Perera", nil, "HYV007", hashedPassword(t, password), models.RoleEmployee,
		nil, nil, status, now, now,
	)
}

func TestLogin(t *testing.T) {
	t.Run("Employee Success", func(t *testing.T) {
		svc, mock := newAuthService(t)

		mock.ExpectQuery(`SELECT (.+) FROM employees`).
			WithArgs("HYV007").
			WillReturnRows(employeeLoginRows(t, "secret123", models.EmployeeStatusActive))

		resp, err := svc.Login("HYV007", "secret123")
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)
		assert.Equal(t, int64(7), resp.ActorID)
		assert.Equal(t, jwt.ActorEmployee, resp.ActorType)
		assert.Equal(t, models.RoleEmployee, resp.Role)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Wrong Password", func(t *testing.T) {
		svc, mock := newAuthService(t)

		mock.ExpectQuery(`SELECT (.+) FROM employees`).
			WithArgs("HYV007").
			WillReturnRows(employeeLoginRows(t, "secret123", models.EmployeeStatusActive))

		_, err := svc.Login("HYV007", "wrong")
		require.Error(t, err)
		assert.Equal(t, "Invalid Login ID or Password.", MessageOf(err))

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Deactivated Employee", func(t *testing.T) {
		svc, mock := newAuthService(t)

		mock.ExpectQuery(`SELECT (.+) FROM employees`).
			WithArgs("HYV007").
			WillReturnRows(employeeLoginRows(t, "secret123", models.EmployeeStatusDeactivated))

		_, err := svc.Login("HYV007", "secret123")
		require.Error(t, err)
		assert.Equal(t, KindInvalidState, KindOf(err))
		assert.Equal(t, "This account has been deactivated.", MessageOf(err))

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown Login Id Falls Through To Contractors", func(t *testing.T) {
		svc, mock := newAuthService(t)
		now := time.Now()

		mock.ExpectQuery(`SELECT (.+) FROM employees`).
			WithArgs("abc-services").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectQuery(`SELECT (.+) FROM contractors`).
			WithArgs("abc-services").
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "name", "business_name", "contractor_code", "password_hash",
				"created_at", "updated_at",
			}).AddRow(
				int64(3), "Acme", "Acme Services Ltd", "abc-services",
				hashedPassword(t, "secret123"), now, now,
			))

		resp, err := svc.Login("abc-services", "secret123")
		require.NoError(t, err)
		assert.Equal(t, jwt.ActorContractor, resp.ActorType)
		assert.Equal(t, models.RoleContractor, resp.Role)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Completely Unknown Login Id", func(t *testing.T) {
		svc, mock := newAuthService(t)

		mock.ExpectQuery(`SELECT (.+) FROM employees`).
			WithArgs("nobody").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectQuery(`SELECT (.+) FROM contractors`).
			WithArgs("nobody").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := svc.Login("nobody", "secret123")
		require.Error(t, err)
		assert.Equal(t, KindNotFound, KindOf(err))
		assert.Equal(t, "Invalid Login ID or Password.", MessageOf(err))

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Empty Credentials", func(t *testing.T) {
		svc, _ := newAuthService(t)

		_, err := svc.Login("", "")
		assert.Equal(t, KindValidation, KindOf(err))
	})
}

func TestRefresh(t *testing.T) {
	t.Run("Deactivation Takes Effect On Refresh", func(t *testing.T) {
		svc, mock := newAuthService(t)

		login := employeeLoginRows(t, "secret123", models.EmployeeStatusActive)
		mock.ExpectQuery(`SELECT (.+) FROM employees`).
			WithArgs("HYV007").
			WillReturnRows(login)

		resp, err := svc.Login("HYV007", "secret123")
		require.NoError(t, err)

		mock.ExpectQuery(`SELECT (.+) FROM employees`).
			WithArgs(int64(7)).
			WillReturnRows(employeeLoginRows(t, "secret123", models.EmployeeStatusDeactivated))

		_, err = svc.Refresh(resp.RefreshToken)
		require.Error(t, err)
		assert.Equal(t, KindInvalidState, KindOf(err))

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Garbage Token", func(t *testing.T) {
		svc, _ := newAuthService(t)

		_, err := svc.Refresh("not-a-token")
		assert.Equal(t, KindValidation, KindOf(err))
	})
}
