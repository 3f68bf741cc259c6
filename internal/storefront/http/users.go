package http

import (
	"net/http"

	"github.com/merchantry/storefront/internal/storefront/service"
	"github.com/merchantry/storefront/pkg/httpx"
)

// UsersHandler carries the admin-only user management endpoints.
type UsersHandler struct {
	UserService *service.UserService
}

func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.UserService.ListUsers(r.Context())
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, newUserResponses(users))
}

func (h *UsersHandler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	if err := h.UserService.DeactivateUser(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.Response{
		Success: true,
		Message: "user deactivated",
	})
}
