package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyvacanteen/canteen-coupon-backend/internal/models"
	"github.com/hyvacanteen/canteen-coupon-backend/pkg/jwt"
)

func testJWTService() *jwt.Service {
	return jwt.NewService("test-access-secret", "test-refresh-secret", time.Hour, 24*time.Hour)
}

func authedRequest(t *testing.T, router *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	jwtService := testJWTService()

	router := gin.New()
	router.Use(AuthMiddleware(jwtService))
	router.GET("/protected", func(c *gin.Context) {
		userCtx, exists := GetUserContext(c)
		require.True(t, exists)
		c.JSON(http.StatusOK, gin.H{"actorId": userCtx.ActorID})
	})

	t.Run("Valid Token", func(t *testing.T) {
		token, err := jwtService.GenerateAccessToken(7, jwt.ActorEmployee, "EMP007", "Nimal Perera", models.RoleEmployee)
		require.NoError(t, err)

		w := authedRequest(t, router, http.MethodGet, "/protected", token)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Missing Header", func(t *testing.T) {
		w := authedRequest(t, router, http.MethodGet, "/protected", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "MISSING_AUTH_HEADER")
	})

	t.Run("Garbage Token", func(t *testing.T) {
		w := authedRequest(t, router, http.MethodGet, "/protected", "not-a-token")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
	})

	t.Run("Refresh Token Rejected As Access Token", func(t *testing.T) {
		token, err := jwtService.GenerateRefreshToken(7, jwt.ActorEmployee, "EMP007")
		require.NoError(t, err)

		w := authedRequest(t, router, http.MethodGet, "/protected", token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	jwtService := testJWTService()

	router := gin.New()
	router.Use(AuthMiddleware(jwtService))
	router.GET("/admin-only", RequireRole(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	t.Run("Allowed Role", func(t *testing.T) {
		token, err := jwtService.GenerateAccessToken(1, jwt.ActorEmployee, "ADM001", "Admin", models.RoleAdmin)
		require.NoError(t, err)

		w := authedRequest(t, router, http.MethodGet, "/admin-only", token)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Forbidden Role", func(t *testing.T) {
		token, err := jwtService.GenerateAccessToken(7, jwt.ActorEmployee, "EMP007", "Nimal Perera", models.RoleEmployee)
		require.NoError(t, err)

		w := authedRequest(t, router, http.MethodGet, "/admin-only", token)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestRequireSelfOrRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	jwtService := testJWTService()

	router := gin.New()
	router.Use(AuthMiddleware(jwtService))
	router.GET("/employees/:id/coupons",
		RequireSelfOrRole("id", jwt.ActorEmployee, models.RoleAdmin),
		func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("Self Access", func(t *testing.T) {
		token, err := jwtService.GenerateAccessToken(7, jwt.ActorEmployee, "EMP007", "Nimal Perera", models.RoleEmployee)
		require.NoError(t, err)

		w := authedRequest(t, router, http.MethodGet, "/employees/7/coupons", token)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Other Employee Denied", func(t *testing.T) {
		token, err := jwtService.GenerateAccessToken(7, jwt.ActorEmployee, "EMP007", "Nimal Perera", models.RoleEmployee)
		require.NoError(t, err)

		w := authedRequest(t, router, http.MethodGet, "/employees/8/coupons", token)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Admin Bypasses Self Check", func(t *testing.T) {
		token, err := jwtService.GenerateAccessToken(1, jwt.ActorEmployee, "ADM001", "Admin", models.RoleAdmin)
		require.NoError(t, err)

		w := authedRequest(t, router, http.MethodGet, "/employees/8/coupons", token)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Contractor With Matching Id Denied", func(t *testing.T) {
		// A contractor whose numeric id collides with an employee id must not
		// pass the self check on employee routes
		token, err := jwtService.GenerateAccessToken(7, jwt.ActorContractor, "CON007", "Acme", models.RoleContractor)
		require.NoError(t, err)

		w := authedRequest(t, router, http.MethodGet, "/employees/7/coupons", token)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
