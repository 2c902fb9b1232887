package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/martomarzo/shutupandtakemythings/internal/auth"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	Auth *auth.Service
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, user, err := h.Auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			slog.Warn("login failed", "username", req.Username, "remote", r.RemoteAddr)
		}
		writeError(w, r, err, "user not found")
		return
	}

	slog.Info("admin logged in", "user", user.Username)
	jsonResponse(w, http.StatusOK, loginResponse{Token: token, Username: user.Username})
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		writeError(w, r, auth.ErrUnauthenticated, "")
		return
	}

	if err := h.Auth.Logout(r.Context(), claims); err != nil {
		writeError(w, r, err, "")
		return
	}

	slog.Info("admin logged out", "user", claims.Username)
	jsonMessage(w, "logged out")
}

// ChangePassword handles POST /api/admin/change-password.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		writeError(w, r, auth.ErrUnauthenticated, "")
		return
	}

	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Auth.ChangePassword(r.Context(), claims, req.CurrentPassword, req.NewPassword); err != nil {
		writeError(w, r, err, "user not found")
		return
	}

	slog.Info("admin changed password", "user", claims.Username)
	jsonMessage(w, "password changed successfully")
}
