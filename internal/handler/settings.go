package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/daybook/internal/cache"
)

// SettingsHandler exposes the flat app settings.
type SettingsHandler struct {
	settings *cache.SettingsStore
	logger   *slog.Logger
}

func NewSettingsHandler(settings *cache.SettingsStore, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{settings: settings, logger: logger}
}

// settingsUpdate uses pointers so absent fields are left untouched.
type settingsUpdate struct {
	DarkMode  *bool   `json:"isDarkMode"`
	LoggedIn  *bool   `json:"isLoggedIn"`
	UserEmail *string `json:"userEmail"`
}

// HandleGet returns every setting.
//
// HTTP: GET /api/settings
func (h *SettingsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.All(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, settings)
}

// HandleUpdate applies the provided settings; fields not in the body keep
// their current values.
//
// HTTP: PUT /api/settings
func (h *SettingsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var update settingsUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "bad_request", Message: "invalid JSON body"})
		return
	}

	ctx := r.Context()
	if update.DarkMode != nil {
		if err := h.settings.SetDarkMode(ctx, *update.DarkMode); err != nil {
			writeError(w, err)
			return
		}
	}
	if update.LoggedIn != nil {
		if err := h.settings.SetLoggedIn(ctx, *update.LoggedIn); err != nil {
			writeError(w, err)
			return
		}
	}
	if update.UserEmail != nil {
		if err := h.settings.SetUserEmail(ctx, *update.UserEmail); err != nil {
			writeError(w, err)
			return
		}
	}

	settings, err := h.settings.All(ctx)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, settings)
}

// HandleClearUserData removes the login flag and remembered email only.
//
// HTTP: DELETE /api/settings/user
func (h *SettingsHandler) HandleClearUserData(w http.ResponseWriter, r *http.Request) {
	if err := h.settings.ClearUserData(r.Context()); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleClearAll wipes every setting.
//
// HTTP: DELETE /api/settings
func (h *SettingsHandler) HandleClearAll(w http.ResponseWriter, r *http.Request) {
	if err := h.settings.ClearAll(r.Context()); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
