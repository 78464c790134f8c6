package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/sakif/daybook/internal/auth"
	"github.com/sakif/daybook/internal/cache"
	"github.com/sakif/daybook/internal/service"
)

// AuthHandler exposes registration, login, logout, and the current-user
// endpoint. Login mirrors its outcome into the settings store (isLoggedIn,
// userEmail) the way the mobile UI does.
type AuthHandler struct {
	authSvc  *service.AuthService
	settings *cache.SettingsStore
	logger   *slog.Logger
}

func NewAuthHandler(authSvc *service.AuthService, settings *cache.SettingsStore, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, settings: settings, logger: logger}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// HandleRegister creates a new account.
//
// HTTP: POST /api/auth/register
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "bad_request", Message: "invalid JSON body"})
		return
	}

	user, err := h.authSvc.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// HandleLogin authenticates and sets the HttpOnly session cookie.
//
// HTTP: POST /api/auth/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "bad_request", Message: "invalid JSON body"})
		return
	}

	result, err := h.authSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    result.Token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(30 * 24 * time.Hour),
	})

	if err := h.settings.SetLoggedIn(r.Context(), true); err != nil {
		h.logger.Warn("failed to persist login flag", slog.String("error", err.Error()))
	}
	if err := h.settings.SetUserEmail(r.Context(), result.User.Email); err != nil {
		h.logger.Warn("failed to persist user email", slog.String("error", err.Error()))
	}

	writeJSON(w, http.StatusOK, result.User)
}

// HandleLogout clears the session cookie and the persisted login state.
//
// HTTP: POST /api/auth/logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	if err := h.settings.ClearUserData(r.Context()); err != nil {
		h.logger.Warn("failed to clear user settings", slog.String("error", err.Error()))
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleMe returns the authenticated user.
//
// HTTP: GET /api/me (behind RequireAuth)
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "valid authentication required"})
		return
	}

	user, err := h.authSvc.GetUserByID(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
