// Package cache implements the quote-of-the-day cache and the app settings
// store on top of the namespaced key-value repository.
//
// The quote cache keeps three things: the most recently served quote with the
// calendar date it was cached on, a rolling window of the 7 most recent
// (quote, date) pairs used as offline fallback, and the set of favorited
// quotes keyed by (text, author) identity. An older schema stored a single
// favorite under its own key; that record is migrated into the set exactly
// once, at store construction, guarded by a schema-version marker.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"strconv"

	"github.com/sakif/daybook/internal/model"
	"github.com/sakif/daybook/internal/repository"
)

const (
	quotesNamespace   = "quotes"
	settingsNamespace = "settings"

	keyLastQuote      = "lastQuote"
	keyLastQuoteDate  = "lastQuoteDate"
	keyWeeklyQuotes   = "weeklyQuotes"
	keyFavoriteQuotes = "favoriteQuotes"
	keyLegacyFavorite = "favoriteQuote" // pre-v2 single-favorite record
	keySchemaVersion  = "schemaVersion"
	keyLastOpenDate   = "lastOpenDate"

	// quoteSchemaVersion 2 replaced the single favoriteQuote record with the
	// favoriteQuotes set.
	quoteSchemaVersion = 2

	// weeklyWindowSize bounds the rolling history; the oldest pair is
	// evicted first.
	weeklyWindowSize = 7
)

// quoteRecord is the canonical stored form of a quote. The transient
// favorite flag is deliberately absent: it is computed at read time.
type quoteRecord struct {
	Text   string `json:"text"`
	Author string `json:"author"`
}

// quoteKey is the (text, author) identity used for favorite membership.
// A comparable struct, not a delimiter-joined string, so quote text
// containing any particular character sequence cannot collide.
type quoteKey struct {
	text   string
	author string
}

func keyOf(text, author string) quoteKey {
	return quoteKey{text: text, author: author}
}

// WeeklyQuote is one element of the rolling window.
type WeeklyQuote struct {
	Quote model.Quote `json:"quote"`
	Date  string      `json:"date"`
}

type weeklyRecord struct {
	Quote quoteRecord `json:"quote"`
	Date  string      `json:"date"`
}

// QuoteStore is the quote cache. It owns the "quotes" namespace of the
// key-value store plus the settings-adjacent lastOpenDate key.
type QuoteStore struct {
	kv     repository.KVStore
	logger *slog.Logger
}

// NewQuoteStore creates the store and runs the one-time legacy-favorite
// migration if the schema-version marker shows it hasn't happened yet.
func NewQuoteStore(ctx context.Context, kv repository.KVStore, logger *slog.Logger) (*QuoteStore, error) {
	s := &QuoteStore{kv: kv, logger: logger}
	if err := s.migrateLegacyFavorite(ctx); err != nil {
		return nil, fmt.Errorf("cache: migrating legacy favorite: %w", err)
	}
	return s, nil
}

// migrateLegacyFavorite converts the pre-v2 single favoriteQuote record into
// the favoriteQuotes set, then records the schema version so the scan never
// repeats. Idempotent: once the marker is current this is a no-op.
func (s *QuoteStore) migrateLegacyFavorite(ctx context.Context) error {
	if raw, ok, err := s.kv.GetValue(ctx, quotesNamespace, keySchemaVersion); err != nil {
		return err
	} else if ok {
		if v, err := strconv.Atoi(raw); err == nil && v >= quoteSchemaVersion {
			return nil
		}
	}

	legacyRaw, legacyPresent, err := s.kv.GetValue(ctx, quotesNamespace, keyLegacyFavorite)
	if err != nil {
		return err
	}

	if legacyPresent {
		favorites, err := s.loadFavorites(ctx)
		if err != nil {
			return err
		}

		// The legacy record only wins when the new set is still empty.
		if len(favorites) == 0 {
			var legacy quoteRecord
			if err := json.Unmarshal([]byte(legacyRaw), &legacy); err != nil {
				return fmt.Errorf("decoding legacy favorite: %w", err)
			}
			if err := s.saveFavorites(ctx, []quoteRecord{legacy}); err != nil {
				return err
			}
			s.logger.Info("migrated legacy favorite quote", slog.String("author", legacy.Author))

			if err := s.kv.DeleteValue(ctx, quotesNamespace, keyLegacyFavorite); err != nil {
				return err
			}
		}
	}

	return s.kv.SetValue(ctx, quotesNamespace, keySchemaVersion,
		strconv.Itoa(quoteSchemaVersion))
}

// SaveQuote records the quote as today's quote and appends it to the weekly
// window, evicting the oldest pair once the window exceeds 7 entries.
func (s *QuoteStore) SaveQuote(ctx context.Context, quote model.Quote, date string) error {
	rec := quoteRecord{Text: quote.Text, Author: quote.Author}

	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("cache: encoding quote: %w", err)
	}
	if err := s.kv.SetValue(ctx, quotesNamespace, keyLastQuote, string(raw)); err != nil {
		return err
	}
	if err := s.kv.SetValue(ctx, quotesNamespace, keyLastQuoteDate, date); err != nil {
		return err
	}

	weekly, err := s.loadWeekly(ctx)
	if err != nil {
		return err
	}
	weekly = append(weekly, weeklyRecord{Quote: rec, Date: date})
	if len(weekly) > weeklyWindowSize {
		weekly = weekly[len(weekly)-weeklyWindowSize:]
	}

	return s.saveWeekly(ctx, weekly)
}

// LastQuote returns the most recently cached quote, or nil when nothing has
// been cached yet. The favorite flag is filled in from the favorite set.
func (s *QuoteStore) LastQuote(ctx context.Context) (*model.Quote, error) {
	raw, ok, err := s.kv.GetValue(ctx, quotesNamespace, keyLastQuote)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var rec quoteRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, fmt.Errorf("cache: decoding last quote: %w", err)
	}

	return s.toQuote(ctx, rec)
}

// LastQuoteDate returns the calendar date the last quote was cached on,
// empty if unset.
func (s *QuoteStore) LastQuoteDate(ctx context.Context) (string, error) {
	raw, _, err := s.kv.GetValue(ctx, quotesNamespace, keyLastQuoteDate)
	return raw, err
}

// IsFromToday reports whether the cached quote was stored on currentDate.
func (s *QuoteStore) IsFromToday(ctx context.Context, currentDate string) (bool, error) {
	date, err := s.LastQuoteDate(ctx)
	if err != nil {
		return false, err
	}
	return date != "" && date == currentDate, nil
}

// WeeklyQuotes returns the rolling window, oldest first, at most 7 items.
func (s *QuoteStore) WeeklyQuotes(ctx context.Context) ([]WeeklyQuote, error) {
	weekly, err := s.loadWeekly(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]WeeklyQuote, 0, len(weekly))
	for _, w := range weekly {
		q, err := s.toQuote(ctx, w.Quote)
		if err != nil {
			return nil, err
		}
		out = append(out, WeeklyQuote{Quote: *q, Date: w.Date})
	}
	return out, nil
}

// RandomCachedQuote picks one entry from the weekly window uniformly at
// random, or returns nil when the window is empty.
func (s *QuoteStore) RandomCachedQuote(ctx context.Context) (*model.Quote, error) {
	weekly, err := s.loadWeekly(ctx)
	if err != nil {
		return nil, err
	}
	if len(weekly) == 0 {
		return nil, nil
	}

	return s.toQuote(ctx, weekly[rand.Intn(len(weekly))].Quote)
}

// IsFavorited reports membership of the quote in the favorite set by
// (text, author) identity.
func (s *QuoteStore) IsFavorited(ctx context.Context, quote model.Quote) (bool, error) {
	favorites, err := s.loadFavorites(ctx)
	if err != nil {
		return false, err
	}

	want := keyOf(quote.Text, quote.Author)
	for _, f := range favorites {
		if keyOf(f.Text, f.Author) == want {
			return true, nil
		}
	}
	return false, nil
}

// AddFavorite adds the quote to the favorite set. A quote already present by
// identity is left alone.
func (s *QuoteStore) AddFavorite(ctx context.Context, quote model.Quote) error {
	favorites, err := s.loadFavorites(ctx)
	if err != nil {
		return err
	}

	want := keyOf(quote.Text, quote.Author)
	for _, f := range favorites {
		if keyOf(f.Text, f.Author) == want {
			return nil
		}
	}

	favorites = append(favorites, quoteRecord{Text: quote.Text, Author: quote.Author})
	return s.saveFavorites(ctx, favorites)
}

// RemoveFavorite removes the quote by identity; absent quotes are a no-op.
func (s *QuoteStore) RemoveFavorite(ctx context.Context, quote model.Quote) error {
	favorites, err := s.loadFavorites(ctx)
	if err != nil {
		return err
	}

	want := keyOf(quote.Text, quote.Author)
	kept := favorites[:0]
	for _, f := range favorites {
		if keyOf(f.Text, f.Author) != want {
			kept = append(kept, f)
		}
	}
	if len(kept) == len(favorites) {
		return nil
	}

	return s.saveFavorites(ctx, kept)
}

// ToggleFavorite flips the quote's membership in the favorite set and
// returns the resulting state.
func (s *QuoteStore) ToggleFavorite(ctx context.Context, quote model.Quote) (bool, error) {
	favorited, err := s.IsFavorited(ctx, quote)
	if err != nil {
		return false, err
	}

	if favorited {
		if err := s.RemoveFavorite(ctx, quote); err != nil {
			return false, err
		}
		return false, nil
	}

	if err := s.AddFavorite(ctx, quote); err != nil {
		return false, err
	}
	return true, nil
}

// FavoriteQuotes returns every favorited quote, each flagged favorited.
func (s *QuoteStore) FavoriteQuotes(ctx context.Context) ([]model.Quote, error) {
	favorites, err := s.loadFavorites(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]model.Quote, 0, len(favorites))
	for _, f := range favorites {
		out = append(out, model.Quote{Text: f.Text, Author: f.Author, IsFavorite: true})
	}
	return out, nil
}

// ClearCache wipes the entire quote namespace: last quote, weekly window,
// and favorites. A hard reset, not selective.
func (s *QuoteStore) ClearCache(ctx context.Context) error {
	return s.kv.DeleteNamespace(ctx, quotesNamespace)
}

// SetLastOpenDate records the calendar date the app was last opened.
// Lives next to the settings keys rather than in the quote namespace so
// ClearCache leaves it intact.
func (s *QuoteStore) SetLastOpenDate(ctx context.Context, date string) error {
	return s.kv.SetValue(ctx, settingsNamespace, keyLastOpenDate, date)
}

// LastOpenDate returns the recorded open date, empty if never set.
func (s *QuoteStore) LastOpenDate(ctx context.Context) (string, error) {
	raw, _, err := s.kv.GetValue(ctx, settingsNamespace, keyLastOpenDate)
	return raw, err
}

func (s *QuoteStore) toQuote(ctx context.Context, rec quoteRecord) (*model.Quote, error) {
	q := model.Quote{Text: rec.Text, Author: rec.Author}

	favorited, err := s.IsFavorited(ctx, q)
	if err != nil {
		return nil, err
	}
	q.IsFavorite = favorited

	return &q, nil
}

func (s *QuoteStore) loadWeekly(ctx context.Context) ([]weeklyRecord, error) {
	raw, ok, err := s.kv.GetValue(ctx, quotesNamespace, keyWeeklyQuotes)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var weekly []weeklyRecord
	if err := json.Unmarshal([]byte(raw), &weekly); err != nil {
		return nil, fmt.Errorf("cache: decoding weekly quotes: %w", err)
	}
	return weekly, nil
}

func (s *QuoteStore) saveWeekly(ctx context.Context, weekly []weeklyRecord) error {
	raw, err := json.Marshal(weekly)
	if err != nil {
		return fmt.Errorf("cache: encoding weekly quotes: %w", err)
	}
	return s.kv.SetValue(ctx, quotesNamespace, keyWeeklyQuotes, string(raw))
}

func (s *QuoteStore) loadFavorites(ctx context.Context) ([]quoteRecord, error) {
	raw, ok, err := s.kv.GetValue(ctx, quotesNamespace, keyFavoriteQuotes)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var favorites []quoteRecord
	if err := json.Unmarshal([]byte(raw), &favorites); err != nil {
		return nil, fmt.Errorf("cache: decoding favorite quotes: %w", err)
	}
	return favorites, nil
}

func (s *QuoteStore) saveFavorites(ctx context.Context, favorites []quoteRecord) error {
	raw, err := json.Marshal(favorites)
	if err != nil {
		return fmt.Errorf("cache: encoding favorite quotes: %w", err)
	}
	return s.kv.SetValue(ctx, quotesNamespace, keyFavoriteQuotes, string(raw))
}
