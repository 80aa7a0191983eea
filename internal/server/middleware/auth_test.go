package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/blyn/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tokenTable resolves only the tokens it holds.
func tokenTable(tokens map[string]uuid.UUID) OwnerResolver {
	return OwnerResolverFunc(func(token string) (uuid.UUID, error) {
		owner, ok := tokens[token]
		if !ok {
			return uuid.Nil, fmt.Errorf("invalid token")
		}
		return owner, nil
	})
}

func serve(t *testing.T, resolver OwnerResolver, setup func(r *http.Request)) (*httptest.ResponseRecorder, *types.Session) {
	t.Helper()
	var got *types.Session
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := GetSession(r)
		require.NoError(t, err)
		got = &session
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/deploy", nil)
	if setup != nil {
		setup(req)
	}
	w := httptest.NewRecorder()
	SessionMiddleware(resolver)(handler).ServeHTTP(w, req)
	return w, got
}

func TestSessionMiddleware_ValidToken(t *testing.T) {
	ownerID := uuid.New()

	w, session := serve(t, tokenTable(map[string]uuid.UUID{"valid-token": ownerID}), func(r *http.Request) {
		r.Header.Set("Authorization", "bearer valid-token")
		r.Header.Set(DeployTokenHeader, "  nfp_secret ")
	})

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, session)
	assert.Equal(t, ownerID, session.OwnerID)
	assert.Equal(t, "nfp_secret", session.DeployToken)
}

func TestSessionMiddleware_Rejects(t *testing.T) {
	resolver := tokenTable(map[string]uuid.UUID{"valid-token": uuid.New()})

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "wrong scheme", header: "Basic valid-token"},
		{name: "no token", header: "Bearer"},
		{name: "extra parts", header: "Bearer valid-token extra"},
		{name: "unknown token", header: "Bearer other-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, session := serve(t, resolver, func(r *http.Request) {
				if tt.header != "" {
					r.Header.Set("Authorization", tt.header)
				}
			})
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, `Bearer realm="blyn"`, w.Header().Get("WWW-Authenticate"))
			assert.Nil(t, session, "handler should not run")
		})
	}
}

func TestSessionMiddleware_Anonymous(t *testing.T) {
	w, session := serve(t, nil, func(r *http.Request) {
		r.Header.Set(DeployTokenHeader, "nfp_secret")
	})

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, session)
	assert.Equal(t, uuid.Nil, session.OwnerID)
	assert.Equal(t, "nfp_secret", session.DeployToken)
}

func TestGetSession(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := GetSession(req)
	assert.ErrorContains(t, err, "session not found")

	want := types.Session{OwnerID: uuid.New()}
	req = req.WithContext(WithSession(context.Background(), want))
	got, err := GetSession(req)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
