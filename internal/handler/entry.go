package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/daybook/internal/model"
	"github.com/sakif/daybook/internal/service"
)

// EntryHandler manages CRUD, search, and favorites for journal entries.
type EntryHandler struct {
	entries *service.EntryService
	logger  *slog.Logger
}

func NewEntryHandler(entries *service.EntryService, logger *slog.Logger) *EntryHandler {
	return &EntryHandler{entries: entries, logger: logger}
}

// HandleList returns all entries, or the search subset when ?q= is present.
//
// HTTP: GET /api/entries?q=walk
func (h *EntryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	entries, err := h.entries.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

// HandleCreate inserts a new entry.
//
// HTTP: POST /api/entries
// BODY: {"title":"Day 1","content":"Hello world","date":"2026-01-05"}
func (h *EntryHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var entry model.Entry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "bad_request", Message: "invalid JSON body"})
		return
	}
	entry.ID = 0 // ids are assigned by the store

	if err := h.entries.Create(r.Context(), &entry); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

// HandleGetByID returns a single entry.
//
// HTTP: GET /api/entries/{id}
func (h *EntryHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := entryID(w, r)
	if !ok {
		return
	}

	entry, err := h.entries.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

// HandleUpdate replaces the full record, favorite flag included. Clients
// send the complete entry — unchanged fields carried forward.
//
// HTTP: PUT /api/entries/{id}
func (h *EntryHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := entryID(w, r)
	if !ok {
		return
	}

	var entry model.Entry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "bad_request", Message: "invalid JSON body"})
		return
	}
	entry.ID = id // the path wins over any id in the body

	if err := h.entries.Update(r.Context(), &entry); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

// HandleDelete removes one entry.
//
// HTTP: DELETE /api/entries/{id}
func (h *EntryHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := entryID(w, r)
	if !ok {
		return
	}

	if err := h.entries.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleDeleteAll clears the journal.
//
// HTTP: DELETE /api/entries
func (h *EntryHandler) HandleDeleteAll(w http.ResponseWriter, r *http.Request) {
	removed, err := h.entries.DeleteAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"removed": removed})
}

// HandleFavorites returns favorited entries.
//
// HTTP: GET /api/entries/favorites
func (h *EntryHandler) HandleFavorites(w http.ResponseWriter, r *http.Request) {
	entries, err := h.entries.Favorites(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

// entryID parses the {id} path parameter, writing a 400 on failure.
func entryID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "bad_request", Message: "entry id must be a positive integer"})
		return 0, false
	}
	return id, true
}
