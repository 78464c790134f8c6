package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/daybook/internal/apperror"
	"github.com/sakif/daybook/internal/cache"
	"github.com/sakif/daybook/internal/model"
	"github.com/sakif/daybook/internal/quoteapi"
)

// Fetcher is the external quote collaborator. quoteapi.Client implements it;
// tests substitute stubs.
type Fetcher interface {
	FetchToday(ctx context.Context) (*model.Quote, error)
}

// QuoteService orchestrates quote delivery. Each request resolves through
// one of three states: the cache already holds today's quote (no network
// call), a fresh fetch succeeds (cache and return), or the fetch fails and
// the rolling weekly window provides a fallback. Only when the window is
// empty too does the caller see a failure.
type QuoteService struct {
	cache   *cache.QuoteStore
	fetcher Fetcher
	logger  *slog.Logger
	now     func() time.Time // injectable clock for tests
}

func NewQuoteService(quotes *cache.QuoteStore, fetcher Fetcher, logger *slog.Logger) *QuoteService {
	return &QuoteService{
		cache:   quotes,
		fetcher: fetcher,
		logger:  logger,
		now:     time.Now,
	}
}

// QuoteOfTheDay returns today's quote, from cache when fresh, otherwise via
// a bounded fetch with the weekly window as fallback.
func (s *QuoteService) QuoteOfTheDay(ctx context.Context) (*model.Quote, error) {
	today := s.today()

	// Requesting today's quote is the app-open signal; record it best-effort.
	if err := s.cache.SetLastOpenDate(ctx, today); err != nil {
		s.logger.Warn("failed to record open date", slog.String("error", err.Error()))
	}

	fresh, err := s.cache.IsFromToday(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("service/quote: checking cache freshness: %w", err)
	}
	if fresh {
		quote, err := s.cache.LastQuote(ctx)
		if err != nil {
			return nil, fmt.Errorf("service/quote: reading cached quote: %w", err)
		}
		if quote != nil {
			return quote, nil
		}
		// lastQuoteDate without lastQuote means a partially cleared cache;
		// fall through to a fresh fetch.
	}

	quote, fetchErr := s.fetch(ctx, today)
	if fetchErr == nil {
		return quote, nil
	}

	fallback, err := s.cache.RandomCachedQuote(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/quote: reading fallback quote: %w", err)
	}
	if fallback == nil {
		return nil, apperror.Unavailable("no quote available: fetch failed and the cache is empty")
	}

	return fallback, nil
}

// Refresh always attempts a fresh fetch regardless of cache freshness. On
// failure it falls back to the last cached quote — not the random window —
// before surfacing a terminal failure.
func (s *QuoteService) Refresh(ctx context.Context) (*model.Quote, error) {
	quote, fetchErr := s.fetch(ctx, s.today())
	if fetchErr == nil {
		return quote, nil
	}

	last, err := s.cache.LastQuote(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/quote: reading last quote: %w", err)
	}
	if last == nil {
		return nil, apperror.Unavailable("no quote available: refresh failed and nothing is cached")
	}

	return last, nil
}

// fetch performs one bounded fetch attempt and caches the result under date.
func (s *QuoteService) fetch(ctx context.Context, date string) (*model.Quote, error) {
	attempt := xid.New().String()

	fctx, cancel := context.WithTimeout(ctx, quoteapi.Timeout)
	defer cancel()

	quote, err := s.fetcher.FetchToday(fctx)
	if err != nil {
		s.logger.Warn("quote fetch failed",
			slog.String("attempt", attempt),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	if err := s.cache.SaveQuote(ctx, *quote, date); err != nil {
		return nil, fmt.Errorf("service/quote: caching quote: %w", err)
	}

	s.logger.Info("quote fetched and cached",
		slog.String("attempt", attempt),
		slog.String("date", date),
	)

	// Re-read through the cache so the favorite flag is filled in.
	favorited, err := s.cache.IsFavorited(ctx, *quote)
	if err != nil {
		return nil, fmt.Errorf("service/quote: checking favorite state: %w", err)
	}
	quote.IsFavorite = favorited

	return quote, nil
}

// WeeklyQuotes exposes the rolling window, oldest first.
func (s *QuoteService) WeeklyQuotes(ctx context.Context) ([]cache.WeeklyQuote, error) {
	return s.cache.WeeklyQuotes(ctx)
}

// FavoriteQuotes returns the favorited set.
func (s *QuoteService) FavoriteQuotes(ctx context.Context) ([]model.Quote, error) {
	return s.cache.FavoriteQuotes(ctx)
}

// ToggleFavorite flips favorite membership and returns the new state.
func (s *QuoteService) ToggleFavorite(ctx context.Context, quote model.Quote) (bool, error) {
	return s.cache.ToggleFavorite(ctx, quote)
}

// ClearCache hard-resets the quote cache.
func (s *QuoteService) ClearCache(ctx context.Context) error {
	return s.cache.ClearCache(ctx)
}

func (s *QuoteService) today() string {
	return s.now().Format(model.DateLayout)
}
