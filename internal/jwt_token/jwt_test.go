package jwttoken

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nyaya/pkg/domain"
	dErrors "nyaya/pkg/domain-errors"
)

var jwtService = NewJWTService("test-signing-key", "test-issuer", "test-audience")

func Test_GenerateAccessToken(t *testing.T) {
	token, err := jwtService.GenerateAccessToken("IO_42", domain.RolePolice, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "IO_42", claims.Subject)
	assert.Equal(t, "police", claims.Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func Test_ValidateToken_InvalidToken(t *testing.T) {
	_, err := jwtService.ValidateToken("invalid-token-string")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func Test_ValidateToken_ExpiredToken(t *testing.T) {
	token, err := jwtService.GenerateAccessToken("IO_42", domain.RolePolice, -time.Hour)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	require.Error(t, err)
	assert.Equal(t, "token has expired", err.Error())
}

func Test_ValidateToken_WrongKey(t *testing.T) {
	other := NewJWTService("other-key", "test-issuer", "test-audience")
	token, err := other.GenerateAccessToken("IO_42", domain.RolePolice, time.Hour)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func Test_ValidateToken_WrongAudience(t *testing.T) {
	other := NewJWTService("test-signing-key", "test-issuer", "another-audience")
	token, err := other.GenerateAccessToken("IO_42", domain.RolePolice, time.Hour)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func Test_ValidateToken_ClockAndLeeway(t *testing.T) {
	issued := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	current := issued
	clock := func() time.Time { return current }

	strict := NewJWTService("test-signing-key", "test-issuer", "test-audience", WithClock(clock))
	lenient := NewJWTService("test-signing-key", "test-issuer", "test-audience",
		WithClock(clock), WithLeeway(2*time.Minute))

	token, err := strict.GenerateAccessToken("IO_42", domain.RolePolice, 10*time.Minute)
	require.NoError(t, err)

	current = issued.Add(11 * time.Minute)
	_, err = strict.ValidateToken(token)
	assert.EqualError(t, err, "token has expired")

	claims, err := lenient.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "IO_42", claims.Subject)
}

func TestAdapter(t *testing.T) {
	adapter := NewJWTServiceAdapter(jwtService)

	t.Run("maps claims", func(t *testing.T) {
		token, err := jwtService.GenerateAccessToken("SP_X", domain.RoleSupervisor, time.Hour)
		require.NoError(t, err)

		claims, err := adapter.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, domain.ActorID("SP_X"), claims.Actor)
		assert.Equal(t, domain.RoleSupervisor, claims.Role)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		token, err := jwtService.GenerateAccessToken("SP_X", domain.Role("root"), time.Hour)
		require.NoError(t, err)

		_, err = adapter.ValidateToken(token)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}
