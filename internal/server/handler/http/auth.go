// Package http provides the JSON API handlers of the ImpactMatch server.
package http

import (
	"context"
	"net/http"

	"github.com/atinyakov/ImpactMatch/internal/models"
	"github.com/atinyakov/ImpactMatch/internal/service"
)

// AuthService defines the session operations required by the HTTP handlers.
type AuthService interface {
	Authenticate(ctx context.Context, username, password string) (models.User, error)
	Register(ctx context.Context, r service.Registration) (models.User, error)
	Logout(ctx context.Context) error
	// CurrentUser returns the session user, if any.
	CurrentUser() (models.User, bool)
}

// AuthHandler handles HTTP requests for registration, login and logout.
type AuthHandler struct {
	// AuthService performs the underlying session operations.
	AuthService AuthService
}

// LoginRequest represents the JSON payload for login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register handles POST /api/register.
// It expects a service.Registration body and returns the new user with 201.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.Registration
	if !decode(w, r, &req) {
		return
	}

	u, err := h.AuthService.Register(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decode(w, r, &req) {
		return
	}

	u, err := h.AuthService.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// Logout handles POST /api/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.AuthService.Logout(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Session handles GET /api/session and returns the session user or 401.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	u, ok := h.AuthService.CurrentUser()
	if !ok {
		http.Error(w, "not logged in", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
