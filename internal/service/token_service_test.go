package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/clinic-admin-api/internal/models"
	appErrors "github.com/noah-isme/clinic-admin-api/pkg/errors"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("secret")
	token, err := svc.Issue(models.JWTClaims{UserID: "u-1", Role: models.RoleDoctor, ClinicID: clinicA}, time.Hour)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, clinicA, claims.ClinicID)
	assert.Equal(t, "u-1", claims.Subject)
}

func TestTokenRejectsWrongSecretAndExpiry(t *testing.T) {
	issuer := NewTokenService("other")
	token, err := issuer.Issue(models.JWTClaims{UserID: "u-1", Role: models.RoleSuperAdmin}, time.Hour)
	require.NoError(t, err)

	svc := NewTokenService("secret")
	_, err = svc.ValidateToken(token)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))

	expired, err := svc.Issue(models.JWTClaims{UserID: "u-1", Role: models.RoleSuperAdmin}, time.Minute)
	require.NoError(t, err)
	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.ValidateToken(expired)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}

func TestTokenRejectsOtherAlgorithms(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, &models.JWTClaims{UserID: "u-1", Role: models.RoleSuperAdmin})
	signed, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewTokenService("secret").ValidateToken(signed)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}

func TestTokenRequiresClinicForTenantRoles(t *testing.T) {
	svc := NewTokenService("secret")
	token, err := svc.Issue(models.JWTClaims{UserID: "u-1", Role: models.RoleNurse}, time.Hour)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))
}
