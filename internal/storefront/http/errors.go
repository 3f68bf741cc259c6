package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/merchantry/storefront/internal/storefront/service"
	"github.com/merchantry/storefront/internal/storefront/store"
	"github.com/merchantry/storefront/pkg/httpx"
	"github.com/merchantry/storefront/pkg/slogx"
)

// writeServiceError maps the service error taxonomy onto HTTP statuses and
// the failure envelope. Anything outside the taxonomy is a 500 and gets
// logged; the sentinels are expected outcomes and are not.
func writeServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusBadRequest, "invalid email or password")
	case errors.Is(err, service.ErrEmailTaken):
		httpx.WriteError(w, http.StatusBadRequest, "email is already registered")
	case errors.Is(err, service.ErrInvalidActionToken):
		httpx.WriteError(w, http.StatusBadRequest, "token is invalid or expired")
	case errors.Is(err, service.ErrAlreadyVerified):
		httpx.WriteError(w, http.StatusBadRequest, "email is already verified")
	case errors.Is(err, service.ErrExpiredToken):
		httpx.WriteError(w, http.StatusUnauthorized, "session expired, please log in again")
	case errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrWrongTokenPurpose):
		httpx.WriteError(w, http.StatusUnauthorized, "invalid session token")
	case errors.Is(err, service.ErrUnauthenticated):
		httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, service.ErrAccountDeactivated):
		httpx.WriteError(w, http.StatusUnauthorized, "account is deactivated")
	case errors.Is(err, service.ErrForbidden):
		httpx.WriteError(w, http.StatusForbidden, "insufficient permissions")
	case errors.Is(err, service.ErrEmailNotFound),
		errors.Is(err, store.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "not found")
	default:
		slogx.FromContext(ctx).Error("request failed", slog.Any("error", err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON reads a JSON request body into dst, rejecting unknown fields.
// It writes the 400 itself and reports whether decoding succeeded.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
