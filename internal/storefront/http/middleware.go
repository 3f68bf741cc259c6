package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/merchantry/storefront/internal/storefront/domain"
	"github.com/merchantry/storefront/internal/storefront/service"
	"github.com/merchantry/storefront/pkg/httpx"
)

type contextKey string

const userContextKey contextKey = "storefront.user"

// UserFromContext returns the credential record attached by the
// authentication middleware, if any.
func UserFromContext(ctx context.Context) (domain.User, bool) {
	u, ok := ctx.Value(userContextKey).(domain.User)
	return u, ok
}

func withUser(ctx context.Context, u domain.User) context.Context {
	return context.WithValue(ctx, userContextKey, u)
}

// bearerToken extracts the token from an Authorization: Bearer header.
// Returns "" when absent or not a bearer scheme.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

// RequireAuth verifies the bearer token and attaches the resolved record to
// the request context. Requests without a resolvable, active identity are
// rejected with 401.
func RequireAuth(authn *service.Authenticator) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := authn.Authenticate(r.Context(), bearerToken(r))
			if err != nil {
				writeServiceError(r.Context(), w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
		})
	}
}

// OptionalAuth attaches an identity when a valid bearer token is presented
// and silently proceeds anonymously on absence or any failure. Used on
// public endpoints that personalize output for logged-in callers.
func OptionalAuth(authn *service.Authenticator) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user, err := authn.Authenticate(r.Context(), bearerToken(r)); err == nil {
				r = r.WithContext(withUser(r.Context(), user))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole gates a route on flat role equality. It must compose after
// RequireAuth; a request reaching it without an attached identity is a
// wiring bug and is rejected as unauthenticated.
func RequireRole(role domain.Role) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				writeServiceError(r.Context(), w, service.ErrUnauthenticated)
				return
			}
			if err := service.Authorize(user, role); err != nil {
				writeServiceError(r.Context(), w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
