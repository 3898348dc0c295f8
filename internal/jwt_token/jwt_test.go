package jwttoken

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "healthbridge/pkg/domain"
	dErrors "healthbridge/pkg/domain-errors"
	"healthbridge/pkg/requestcontext"
	"healthbridge/pkg/testutil"
)

var jwtService = NewJWTService(
	"test-signing-key",
	"test-issuer",
	"test-audience",
	time.Hour,
)

func Test_GenerateAccessToken_RoundTripsEachRole(t *testing.T) {
	actors := map[string]id.Actor{
		"patient":  id.PatientActor{ID: testutil.TestIDs.Patient1},
		"doctor":   id.DoctorActor{ID: testutil.TestIDs.Doctor1, HospitalID: testutil.TestIDs.Hospital1},
		"hospital": id.HospitalActor{ID: testutil.TestIDs.Hospital2},
	}
	for name, actor := range actors {
		t.Run(name, func(t *testing.T) {
			token, err := jwtService.GenerateAccessToken(context.Background(), actor)
			require.NoError(t, err)

			claims, err := jwtService.Validator().ValidateToken(token)
			require.NoError(t, err)
			assert.NotEmpty(t, claims.JTI)

			got, err := id.NewActor(id.Role(claims.Role), claims.Subject, claims.HospitalID)
			require.NoError(t, err)
			assert.Equal(t, actor, got)
		})
	}
}

func Test_GenerateAccessToken_RequiresActor(t *testing.T) {
	_, err := jwtService.GenerateAccessToken(context.Background(), nil)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func Test_ValidateToken_Expired(t *testing.T) {
	ctx := requestcontext.WithTime(context.Background(), time.Now().Add(-2*time.Hour))
	token, err := jwtService.GenerateAccessToken(ctx, id.PatientActor{ID: testutil.TestIDs.Patient1})
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	require.ErrorContains(t, err, "token expired")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func Test_ValidateToken_Rejections(t *testing.T) {
	actor := id.PatientActor{ID: testutil.TestIDs.Patient1}

	t.Run("garbage", func(t *testing.T) {
		_, err := jwtService.ValidateToken("invalid-token-string")
		require.ErrorContains(t, err, "invalid token")
	})

	t.Run("wrong signing key", func(t *testing.T) {
		other := NewJWTService("other-key", "test-issuer", "test-audience", time.Hour)
		token, err := other.GenerateAccessToken(context.Background(), actor)
		require.NoError(t, err)
		_, err = jwtService.ValidateToken(token)
		require.ErrorContains(t, err, "invalid token")
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewJWTService("test-signing-key", "someone-else", "test-audience", time.Hour)
		token, err := other.GenerateAccessToken(context.Background(), actor)
		require.NoError(t, err)
		_, err = jwtService.ValidateToken(token)
		require.ErrorContains(t, err, "invalid token issuer")
	})

	t.Run("wrong audience", func(t *testing.T) {
		other := NewJWTService("test-signing-key", "test-issuer", "other-audience", time.Hour)
		token, err := other.GenerateAccessToken(context.Background(), actor)
		require.NoError(t, err)
		_, err = jwtService.ValidateToken(token)
		require.Error(t, err)
	})

	t.Run("none algorithm", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, AccessTokenClaims{
			Role: string(id.RolePatient),
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   actor.Ref(),
				Issuer:    "test-issuer",
				Audience:  []string{"test-audience"},
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})
		token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = jwtService.ValidateToken(token)
		require.Error(t, err)
	})
}
