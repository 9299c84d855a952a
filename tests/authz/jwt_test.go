package authz_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/nordvik-interiors/ops-api/internal/authz"
	"github.com/nordvik-interiors/ops-api/internal/config"
	"github.com/nordvik-interiors/ops-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTokenService(lifetimeMinutes int) *authz.TokenService {
	return authz.NewTokenService(&config.AuthConfig{
		JWTSecret:       "test-secret-for-token-tests",
		Issuer:          "ops-api-test",
		LifetimeMinutes: lifetimeMinutes,
	})
}

func testUser(role domain.AdminRole) *domain.AdminUser {
	user := &domain.AdminUser{
		Name:  "Kari Hansen",
		Email: "kari@example.com",
		Role:  role,
	}
	user.ID = uuid.New()
	return user
}

func TestIssueAndValidateToken(t *testing.T) {
	svc := newTokenService(60)
	user := testUser(domain.RoleSales)

	token, err := svc.IssueToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userCtx, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userCtx.UserID)
	assert.Equal(t, user.Name, userCtx.Name)
	assert.Equal(t, user.Email, userCtx.Email)
	assert.Equal(t, domain.RoleSales, userCtx.Role)
}

func TestValidateExpiredToken(t *testing.T) {
	svc := newTokenService(-1)

	token, err := svc.IssueToken(testUser(domain.RoleAdmin))
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, authz.ErrExpiredToken)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := newTokenService(60).IssueToken(testUser(domain.RoleAdmin))
	require.NoError(t, err)

	other := authz.NewTokenService(&config.AuthConfig{
		JWTSecret:       "a-different-secret",
		Issuer:          "ops-api-test",
		LifetimeMinutes: 60,
	})

	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, authz.ErrInvalidToken)
}

func TestValidateTokenWrongIssuer(t *testing.T) {
	issued := authz.NewTokenService(&config.AuthConfig{
		JWTSecret:       "test-secret-for-token-tests",
		Issuer:          "someone-else",
		LifetimeMinutes: 60,
	})
	token, err := issued.IssueToken(testUser(domain.RoleManager))
	require.NoError(t, err)

	_, err = newTokenService(60).ValidateToken(token)
	assert.ErrorIs(t, err, authz.ErrInvalidToken)
}

func TestValidateGarbageToken(t *testing.T) {
	_, err := newTokenService(60).ValidateToken("not.a.token")
	assert.ErrorIs(t, err, authz.ErrInvalidToken)
}
