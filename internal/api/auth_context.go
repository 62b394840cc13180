package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/prompthub/prompthub-server/internal/auth"
	"github.com/prompthub/prompthub-server/internal/domain"
	domainerrors "github.com/prompthub/prompthub-server/internal/errors"
)

// ctxKey is the type for context keys to avoid collisions.
type ctxKey string

const (
	identityKey  ctxKey = "identity"
	authErrorKey ctxKey = "authError"
)

// GetIdentity returns the authenticated caller from context.
// Returns a 401 error if the request carried no valid identity token.
func GetIdentity(ctx context.Context) (domain.Identity, error) {
	who, ok := ctx.Value(identityKey).(domain.Identity)
	if ok && who.Email != "" {
		return who, nil
	}
	if err, ok := ctx.Value(authErrorKey).(error); ok {
		return domain.Identity{}, err
	}
	return domain.Identity{}, domainerrors.Unauthorized("authentication required")
}

// OptionalIdentity returns the caller when one is authenticated, nil otherwise.
func OptionalIdentity(ctx context.Context) *domain.Identity {
	who, ok := ctx.Value(identityKey).(domain.Identity)
	if !ok || who.Email == "" {
		return nil
	}
	return &who
}

// withIdentity stores the caller in context.
func withIdentity(ctx context.Context, who domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, who)
}

// authMiddleware returns a middleware that validates Bearer tokens and stores the identity in context.
// If no token is present or invalid, continues without identity in context.
// Handlers use GetIdentity to check authentication.
func authMiddleware(tokens *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := tokens.VerifyIdentityToken(strings.TrimSpace(authHeader[7:]))
			if err != nil {
				// Invalid token - continue without identity (handler will reject if auth required)
				ctx := context.WithValue(r.Context(), authErrorKey, error(err))
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), claims.Identity())))
		})
	}
}
