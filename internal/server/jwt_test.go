package server

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jonathan/blyn/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt-signing-minimum-32-bytes"

func newTestJWTService(ttl time.Duration) *JWTService {
	return NewJWTService(&config.JWTConfig{Secret: testSecret, TTL: ttl, Issuer: "blyn"})
}

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestJWTService_GenerateToken(t *testing.T) {
	service := newTestJWTService(24 * time.Hour)
	ownerID := uuid.New()

	token, err := service.GenerateToken(ownerID)
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, ownerID.String(), claims.Subject)
	assert.Equal(t, "blyn", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, time.Minute)

	again, err := service.GenerateToken(ownerID)
	require.NoError(t, err)
	againClaims, err := service.ValidateToken(again)
	require.NoError(t, err)
	assert.NotEqual(t, claims.ID, againClaims.ID)

	owner, err := service.ResolveOwner(token)
	require.NoError(t, err)
	assert.Equal(t, ownerID, owner)
}

func TestJWTService_GenerateToken_RequiresOwner(t *testing.T) {
	_, err := newTestJWTService(time.Hour).GenerateToken(uuid.Nil)
	assert.ErrorContains(t, err, "owner ID is required")
}

func TestJWTService_ValidateToken_Errors(t *testing.T) {
	service := newTestJWTService(time.Hour)
	now := time.Now()
	valid := func(subject string) jwt.RegisteredClaims {
		return jwt.RegisteredClaims{
			Issuer:    "blyn",
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		}
	}

	expiredClaims := valid(uuid.NewString())
	expiredClaims.IssuedAt = jwt.NewNumericDate(now.Add(-2 * time.Hour))
	expiredClaims.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Hour))

	foreignIssuer := valid(uuid.NewString())
	foreignIssuer.Issuer = "someone-else"

	noExpiry := valid(uuid.NewString())
	noExpiry.ExpiresAt = nil

	tests := []struct {
		name    string
		token   string
		wantErr string
	}{
		{name: "empty", token: "", wantErr: "empty"},
		{name: "one part", token: "invalid", wantErr: "malformed"},
		{name: "two parts", token: "invalid.token", wantErr: "malformed"},
		{name: "bad base64", token: "invalid.base64.signature", wantErr: "malformed"},
		{name: "expired", token: sign(t, jwt.SigningMethodHS256, []byte(testSecret), expiredClaims), wantErr: "expired"},
		{name: "wrong secret", token: sign(t, jwt.SigningMethodHS256, []byte("different-secret-key-for-jwt-signing-32b"), valid(uuid.NewString())), wantErr: "signature"},
		{name: "wrong issuer", token: sign(t, jwt.SigningMethodHS256, []byte(testSecret), foreignIssuer), wantErr: "another issuer"},
		{name: "other algorithm", token: sign(t, jwt.SigningMethodHS512, []byte(testSecret), valid(uuid.NewString())), wantErr: "signature"},
		{name: "no expiry", token: sign(t, jwt.SigningMethodHS256, []byte(testSecret), noExpiry), wantErr: "failed to parse token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := service.ValidateToken(tt.token)
			require.Error(t, err)
			assert.Nil(t, claims)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestJWTService_ResolveOwner_Subject(t *testing.T) {
	service := newTestJWTService(time.Hour)
	now := time.Now()
	claims := func(subject string) jwt.RegisteredClaims {
		return jwt.RegisteredClaims{
			Issuer:    "blyn",
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		}
	}

	tests := []struct {
		name    string
		subject string
		wantErr string
	}{
		{name: "no subject", subject: "", wantErr: "no owner"},
		{name: "not a uuid", subject: "ada", wantErr: "not an owner ID"},
		{name: "nil uuid", subject: uuid.Nil.String(), wantErr: "not an owner ID"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, err := service.ResolveOwner(sign(t, jwt.SigningMethodHS256, []byte(testSecret), claims(tt.subject)))
			require.Error(t, err)
			assert.Equal(t, uuid.Nil, owner)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
