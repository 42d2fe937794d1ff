package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *Service {
	return NewService(
		"test-access-secret-key-123456789",
		"test-refresh-secret-key-123456789",
		time.Hour,
		24*time.Hour,
	)
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	service := newTestService()

	token, err := service.GenerateAccessToken(42, ActorEmployee, "HYV001", "John Doe", "employee")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.ValidateAccessToken(token)
	require.NoError(t, err)

	assert.Equal(t, int64(42), claims.ActorID)
	assert.Equal(t, ActorEmployee, claims.ActorType)
	assert.Equal(t, "HYV001", claims.LoginID)
	assert.Equal(t, "John Doe", claims.Name)
	assert.Equal(t, "employee", claims.Role)
	assert.Equal(t, AccessToken, claims.TokenType)
	assert.Equal(t, "employee:42", claims.Subject)
}

func TestGenerateAndValidateRefreshToken(t *testing.T) {
	service := newTestService()

	token, err := service.GenerateRefreshToken(7, ActorContractor, "abc-services")
	require.NoError(t, err)

	claims, err := service.ValidateRefreshToken(token)
	require.NoError(t, err)

	assert.Equal(t, int64(7), claims.ActorID)
	assert.Equal(t, ActorContractor, claims.ActorType)
	assert.Equal(t, RefreshToken, claims.TokenType)
}

func TestValidateAccessToken_RejectsRefreshToken(t *testing.T) {
	service := newTestService()

	refresh, err := service.GenerateRefreshToken(1, ActorEmployee, "HYV001")
	require.NoError(t, err)

	_, err = service.ValidateAccessToken(refresh)
	assert.Error(t, err)
}

func TestValidateAccessToken_WrongSecret(t *testing.T) {
	service := newTestService()
	other := NewService("different-secret", "another-secret", time.Hour, 24*time.Hour)

	token, err := service.GenerateAccessToken(1, ActorEmployee, "HYV001", "John Doe", "employee")
	require.NoError(t, err)

	_, err = other.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestValidateAccessToken_Expired(t *testing.T) {
	service := NewService("access-secret", "refresh-secret", -time.Minute, 24*time.Hour)

	token, err := service.GenerateAccessToken(1, ActorEmployee, "HYV001", "John Doe", "employee")
	require.NoError(t, err)

	_, err = service.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestValidateAccessToken_Garbage(t *testing.T) {
	service := newTestService()

	_, err := service.ValidateAccessToken("not-a-token")
	assert.Error(t, err)
}
