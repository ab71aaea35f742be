package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestIssueAndVerify(t *testing.T) {
	svc := NewJWTService(testSecret, time.Hour)

	token, exp, err := svc.Issue(Identity{
		UserID:           "dr_cardiology",
		Role:             "doctor",
		DoctorID:         "DOC-CARDIO-001",
		DoctorName:       "Dr. Sarah Johnson",
		DoctorSpeciality: "Cardiology",
	})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "dr_cardiology", claims.Subject)
	assert.Equal(t, "doctor", claims.Role)
	assert.Equal(t, "DOC-CARDIO-001", claims.Identity().DoctorID)
	assert.NotEmpty(t, claims.ID)
}

func TestVerifyExpiredToken(t *testing.T) {
	past := time.Now().Add(-48 * time.Hour)
	issuer := NewJWTService(testSecret, time.Hour, WithClock(func() time.Time { return past }))

	token, _, err := issuer.Issue(Identity{UserID: "admin_hospital", Role: "admin"})
	require.NoError(t, err)

	_, err = NewJWTService(testSecret, time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	token, _, err := NewJWTService("other-secret", time.Hour).Issue(Identity{UserID: "x", Role: "admin"})
	require.NoError(t, err)

	_, err = NewJWTService(testSecret, time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyRejectsUnexpectedAlgorithm(t *testing.T) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "hospital-api",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role: "admin",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewJWTService(testSecret, time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyGarbage(t *testing.T) {
	_, err := NewJWTService(testSecret, time.Hour).Verify("not-a-token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestDenylist(t *testing.T) {
	d := NewDenylist(time.Minute)

	d.Revoke("jti-1", time.Now().Add(time.Hour))
	d.Revoke("jti-2", time.Now().Add(-time.Hour))
	d.Revoke("", time.Now().Add(time.Hour))

	assert.True(t, d.IsRevoked("jti-1"))
	assert.False(t, d.IsRevoked("jti-2"))
	assert.False(t, d.IsRevoked("jti-3"))
}
