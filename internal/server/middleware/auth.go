// Package middleware provides the admin session gate.
//
// The gate runs at the routing boundary: an unauthenticated request to an
// admin route never reaches an admin handler, so no admin markup or data is
// produced before the session cookie verifies. The decision is never cached;
// every admin navigation re-verifies the token.
package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// SessionCookie is the cookie carrying the signed admin session token.
const SessionCookie = "adminToken"

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

// adminIDKey is the context key for storing the authenticated admin ID.
const adminIDKey ContextKey = "adminID"

// TokenValidator is an interface for validating session tokens.
// This allows the middleware to work with any JWT service implementation.
type TokenValidator interface {
	ValidateToken(tokenString string) (AdminIDGetter, error)
}

// AdminIDGetter is an interface for extracting the admin ID from token claims.
type AdminIDGetter interface {
	GetAdminID() uuid.UUID
}

// RequireAdmin creates middleware for admin API routes. Requests without a
// valid session cookie receive 401 with a JSON message and never reach the
// wrapped handler.
func RequireAdmin(jwtService TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			adminID, ok := verifySession(jwtService, r)
			if !ok {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"message": "Unauthorized"})
				return
			}

			ctx := context.WithValue(r.Context(), adminIDKey, adminID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RedirectToLogin creates middleware for admin page routes. Requests without
// a valid session cookie are redirected to the login page instead of seeing
// any admin content.
func RedirectToLogin(jwtService TokenValidator, loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			adminID, ok := verifySession(jwtService, r)
			if !ok {
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), adminIDKey, adminID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// verifySession extracts and validates the session cookie. Both the missing
// cookie and a failed verification land in the same unauthenticated branch.
func verifySession(jwtService TokenValidator, r *http.Request) (uuid.UUID, bool) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return uuid.Nil, false
	}

	claims, err := jwtService.ValidateToken(cookie.Value)
	if err != nil {
		return uuid.Nil, false
	}

	return claims.GetAdminID(), true
}

// GetAdminID extracts the authenticated admin ID from the request context.
func GetAdminID(r *http.Request) (uuid.UUID, error) {
	adminID, ok := r.Context().Value(adminIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, fmt.Errorf("admin ID not found in request context")
	}
	return adminID, nil
}
