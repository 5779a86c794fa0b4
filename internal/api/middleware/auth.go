package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/akehlen/buzzquiz/internal/api/apierr"
	"github.com/akehlen/buzzquiz/internal/model"
	"github.com/akehlen/buzzquiz/internal/services/auth"
)

type contextKey string

const tokenContextKey contextKey = "token"

// Auth creates authentication middleware. Gameplay endpoints do not use
// it; accounts only exist to tag players for lifetime stats.
func Auth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := extractToken(r)
			if raw == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			token, err := authService.Validate(raw)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), tokenContextKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth extracts the token if present but doesn't require it.
// Used on join/create endpoints so registered users get stats attribution
// while guests play untagged.
func OptionalAuth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if raw := extractToken(r); raw != "" {
				if token, err := authService.Validate(raw); err == nil {
					ctx := context.WithValue(r.Context(), tokenContextKey, token)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractToken extracts the bearer token from the request
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	cookie, err := r.Cookie("token")
	if err == nil {
		return cookie.Value
	}

	return ""
}

// GetToken returns the validated token from the request context, or nil
func GetToken(ctx context.Context) *auth.Token {
	token, _ := ctx.Value(tokenContextKey).(*auth.Token)
	return token
}

// GetUserID returns the authenticated user's ID, or empty for guests
func GetUserID(ctx context.Context) model.UserID {
	if token := GetToken(ctx); token != nil {
		return token.UserID
	}
	return ""
}

// MustGetToken returns the validated token or panics
func MustGetToken(ctx context.Context) *auth.Token {
	token := GetToken(ctx)
	if token == nil {
		panic("no token in context - auth middleware not applied?")
	}
	return token
}
