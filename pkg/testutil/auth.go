package testutil

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	jwttoken "nyaya/internal/jwt_token"
	"nyaya/pkg/domain"
)

// Token issuer settings shared by the server and tests.
const (
	TestSigningKey = "test-signing-key"
	TestIssuer     = "nyaya"
	TestAudience   = "nyaya-api"
)

// NewJWTService returns the token service tests sign with.
func NewJWTService() *jwttoken.JWTService {
	return jwttoken.NewJWTService(TestSigningKey, TestIssuer, TestAudience)
}

// MintToken signs a one-hour access token for actor.
func MintToken(t *testing.T, actor domain.ActorID, role domain.Role) string {
	t.Helper()
	token, err := NewJWTService().GenerateAccessToken(actor, role, time.Hour)
	require.NoError(t, err)
	return token
}

// WithBearer sets the Authorization header.
func WithBearer(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}
