// Package middleware provides HTTP middlewares for session checks, logging and metrics.
package middleware

import (
	"context"
	"net/http"

	"github.com/atinyakov/ImpactMatch/internal/models"
)

type ctxKey string

const userKey ctxKey = "user"

// SessionFunc returns the user of the active session, if any.
type SessionFunc func() (models.User, bool)

// SessionAuth rejects requests with 401 when there is no active session.
// Otherwise it stores the session user in the request context, so it can be
// used downstream by handlers and RequireRole.
func SessionAuth(current SessionFunc) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := current()
			if !ok {
				http.Error(w, "not logged in", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), userKey, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects requests with 403 unless the context user has role.
// It must run after SessionAuth.
func RequireRole(role models.Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := GetUserFromContext(r.Context())
			if !ok {
				http.Error(w, "not logged in", http.StatusUnauthorized)
				return
			}
			if u.Role != role {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetUserFromContext extracts the session user stored by SessionAuth.
func GetUserFromContext(ctx context.Context) (models.User, bool) {
	u, ok := ctx.Value(userKey).(models.User)
	return u, ok
}
