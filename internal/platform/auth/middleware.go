package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	applog "github.com/mkarvo/profile-api/internal/platform/logging"
)

// Fixed client-visible messages. Every credential failure maps to the same
// 401 body so callers cannot probe which sub-case occurred.
const (
	msgNotAuthenticated = "Not authenticated"
	msgUnauthorized     = "Unauthorized"
	msgAuthUnavailable  = "authentication service temporarily unavailable"
)

// principalContextKey is the context key for the authenticated principal.
type principalContextKey struct{}

// NewMiddleware creates huma middleware enforcing bearer authentication on
// operations that declare a security requirement. A missing header yields
// 403, a present-but-invalid credential 401, a provider outage 503.
func NewMiddleware(api huma.API, verifier Verifier) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if len(ctx.Operation().Security) == 0 {
			next(ctx)
			return
		}

		token, err := ExtractBearerToken(ctx.Header("Authorization"))
		if err != nil {
			if errors.Is(err, ErrNoToken) {
				applog.LogWarn(ctx.Context(), "auth failed: missing credentials",
					zap.String("reason", "no_token"))
				_ = huma.WriteErr(api, ctx, http.StatusForbidden, msgNotAuthenticated)
				return
			}
			applog.LogWarn(ctx.Context(), "auth failed: malformed authorization header",
				zap.String("reason", "malformed_header"))
			ctx.SetHeader("WWW-Authenticate", "Bearer")
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, msgUnauthorized)
			return
		}

		principal, err := verifier.Verify(ctx.Context(), token)
		if err != nil {
			applog.LogWarn(ctx.Context(), "auth failed: token verification failed",
				zap.String("reason", categorizeAuthError(err)))

			if errors.Is(err, ErrCertificateFetch) {
				ctx.SetHeader("Retry-After", "30")
				_ = huma.WriteErr(api, ctx, http.StatusServiceUnavailable, msgAuthUnavailable)
				return
			}
			ctx.SetHeader("WWW-Authenticate", "Bearer")
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, msgUnauthorized)
			return
		}

		ctx = huma.WithValue(ctx, principalContextKey{}, principal)
		next(ctx)
	}
}

// categorizeAuthError returns a safe category string for logging.
func categorizeAuthError(err error) string {
	switch {
	case errors.Is(err, ErrTokenExpired):
		return "token_expired"
	case errors.Is(err, ErrTokenRevoked):
		return "token_revoked"
	case errors.Is(err, ErrUserDisabled):
		return "user_disabled"
	case errors.Is(err, ErrCertificateFetch):
		return "certificate_fetch_failed"
	case errors.Is(err, ErrInvalidToken):
		return "invalid_token"
	default:
		return "unknown"
	}
}

// PrincipalFromContext retrieves the authenticated principal from context.
// Returns nil when the request was not authenticated.
func PrincipalFromContext(ctx context.Context) *Principal {
	principal, _ := ctx.Value(principalContextKey{}).(*Principal)
	return principal
}
