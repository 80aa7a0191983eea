// Package middleware turns bearer tokens into the explicit request Session.
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/blyn/internal/types"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

const sessionKey ContextKey = "session"

// DeployTokenHeader carries the hosting provider token. It is copied into the
// Session and never persisted.
const DeployTokenHeader = "X-Deploy-Token"

// OwnerResolver maps a bearer token to the profile owner it was issued for.
type OwnerResolver interface {
	ResolveOwner(token string) (uuid.UUID, error)
}

// OwnerResolverFunc adapts a function to OwnerResolver.
type OwnerResolverFunc func(token string) (uuid.UUID, error)

func (f OwnerResolverFunc) ResolveOwner(token string) (uuid.UUID, error) {
	return f(token)
}

// SessionMiddleware resolves the Authorization header to an owner and stores the
// resulting Session on the request context. A nil resolver admits every request
// with an anonymous session.
func SessionMiddleware(resolver OwnerResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := types.Session{DeployToken: strings.TrimSpace(r.Header.Get(DeployTokenHeader))}

			if resolver != nil {
				tokenString, ok := bearerToken(r.Header.Get("Authorization"))
				if !ok {
					unauthorized(w)
					return
				}
				owner, err := resolver.ResolveOwner(tokenString)
				if err != nil {
					unauthorized(w)
					return
				}
				session.OwnerID = owner
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="blyn"`)
	http.Error(w, "Unauthorized", http.StatusUnauthorized)
}

// bearerToken parses "Bearer <token>", accepting any casing of the scheme.
func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// WithSession returns a copy of ctx carrying session.
func WithSession(ctx context.Context, session types.Session) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}

// GetSession extracts the Session stored by SessionMiddleware.
func GetSession(r *http.Request) (types.Session, error) {
	session, ok := r.Context().Value(sessionKey).(types.Session)
	if !ok {
		return types.Session{}, fmt.Errorf("session not found in request context")
	}
	return session, nil
}
