package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/daybook/internal/model"
	"github.com/sakif/daybook/internal/service"
)

// QuoteHandler exposes the quote-of-the-day orchestration and the quote
// favorite set.
type QuoteHandler struct {
	quotes *service.QuoteService
	logger *slog.Logger
}

func NewQuoteHandler(quotes *service.QuoteService, logger *slog.Logger) *QuoteHandler {
	return &QuoteHandler{quotes: quotes, logger: logger}
}

// HandleToday returns today's quote: cached when fresh, fetched otherwise,
// with the weekly window as offline fallback.
//
// HTTP: GET /api/quote/today
func (h *QuoteHandler) HandleToday(w http.ResponseWriter, r *http.Request) {
	quote, err := h.quotes.QuoteOfTheDay(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, quote)
}

// HandleRefresh forces a fresh fetch regardless of cache freshness.
//
// HTTP: POST /api/quote/refresh
func (h *QuoteHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	quote, err := h.quotes.Refresh(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, quote)
}

// HandleWeekly returns the rolling 7-day window, oldest first.
//
// HTTP: GET /api/quote/weekly
func (h *QuoteHandler) HandleWeekly(w http.ResponseWriter, r *http.Request) {
	weekly, err := h.quotes.WeeklyQuotes(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, weekly)
}

// HandleFavorites returns the favorited quotes.
//
// HTTP: GET /api/quote/favorites
func (h *QuoteHandler) HandleFavorites(w http.ResponseWriter, r *http.Request) {
	favorites, err := h.quotes.FavoriteQuotes(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, favorites)
}

// HandleToggleFavorite flips favorite membership for the quote identified by
// (text, author) and returns the new state.
//
// HTTP: POST /api/quote/favorites/toggle
// BODY: {"text":"...","author":"..."}
func (h *QuoteHandler) HandleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	var quote model.Quote
	if err := json.NewDecoder(r.Body).Decode(&quote); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "bad_request", Message: "invalid JSON body"})
		return
	}
	if quote.Text == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "bad_request", Message: "quote text is required"})
		return
	}

	favorited, err := h.quotes.ToggleFavorite(r.Context(), quote)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"isFavorite": favorited})
}

// HandleClearCache hard-resets the quote cache.
//
// HTTP: DELETE /api/quote/cache
func (h *QuoteHandler) HandleClearCache(w http.ResponseWriter, r *http.Request) {
	if err := h.quotes.ClearCache(r.Context()); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
