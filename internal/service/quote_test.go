package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sakif/daybook/internal/apperror"
	"github.com/sakif/daybook/internal/cache"
	"github.com/sakif/daybook/internal/model"
)

// fakeKV backs a real cache.QuoteStore with a map so the orchestration is
// tested against genuine cache behavior, just without sqlite.
type fakeKV struct {
	data map[string]string
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: make(map[string]string)}
}

func (f *fakeKV) GetValue(_ context.Context, namespace, key string) (string, bool, error) {
	v, ok := f.data[namespace+"/"+key]
	return v, ok, nil
}

func (f *fakeKV) SetValue(_ context.Context, namespace, key, value string) error {
	f.data[namespace+"/"+key] = value
	return nil
}

func (f *fakeKV) DeleteValue(_ context.Context, namespace, key string) error {
	delete(f.data, namespace+"/"+key)
	return nil
}

func (f *fakeKV) DeleteNamespace(_ context.Context, namespace string) error {
	prefix := namespace + "/"
	for k := range f.data {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			delete(f.data, k)
		}
	}
	return nil
}

// stubFetcher returns a fixed quote or error and counts invocations.
type stubFetcher struct {
	quote *model.Quote
	err   error
	calls int
}

func (s *stubFetcher) FetchToday(_ context.Context) (*model.Quote, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	q := *s.quote
	return &q, nil
}

var testClock = func() time.Time {
	return time.Date(2026, time.August, 23, 9, 0, 0, 0, time.UTC)
}

const testToday = "2026-08-23"

func newTestQuoteService(t *testing.T, fetcher Fetcher) (*QuoteService, *cache.QuoteStore) {
	t.Helper()
	store, err := cache.NewQuoteStore(context.Background(), newFakeKV(), discardLogger())
	if err != nil {
		t.Fatalf("NewQuoteStore() error = %v", err)
	}
	svc := NewQuoteService(store, fetcher, discardLogger())
	svc.now = testClock
	return svc, store
}

func TestQuoteOfTheDay_CacheHitSkipsFetch(t *testing.T) {
	fetcher := &stubFetcher{quote: &model.Quote{Text: "fresh", Author: "net"}}
	svc, store := newTestQuoteService(t, fetcher)
	ctx := context.Background()

	cached := model.Quote{Text: "cached", Author: "disk"}
	if err := store.SaveQuote(ctx, cached, testToday); err != nil {
		t.Fatalf("SaveQuote() error = %v", err)
	}

	quote, err := svc.QuoteOfTheDay(ctx)
	if err != nil {
		t.Fatalf("QuoteOfTheDay() error = %v", err)
	}
	if quote.Text != "cached" {
		t.Errorf("QuoteOfTheDay() = %q, want the cached quote", quote.Text)
	}
	if fetcher.calls != 0 {
		t.Errorf("fetcher called %d times on a cache hit", fetcher.calls)
	}

	opened, err := store.LastOpenDate(ctx)
	if err != nil {
		t.Fatalf("LastOpenDate() error = %v", err)
	}
	if opened != testToday {
		t.Errorf("LastOpenDate() = %q, want %q recorded on request", opened, testToday)
	}
}

func TestQuoteOfTheDay_StaleCacheFetchesAndCaches(t *testing.T) {
	fetcher := &stubFetcher{quote: &model.Quote{Text: "fresh", Author: "net"}}
	svc, store := newTestQuoteService(t, fetcher)
	ctx := context.Background()

	if err := store.SaveQuote(ctx, model.Quote{Text: "stale", Author: "disk"}, "2026-08-22"); err != nil {
		t.Fatalf("SaveQuote() error = %v", err)
	}

	quote, err := svc.QuoteOfTheDay(ctx)
	if err != nil {
		t.Fatalf("QuoteOfTheDay() error = %v", err)
	}
	if quote.Text != "fresh" {
		t.Errorf("QuoteOfTheDay() = %q, want the fetched quote", quote.Text)
	}
	if fetcher.calls != 1 {
		t.Errorf("fetcher called %d times, want 1", fetcher.calls)
	}

	// The fetched quote replaced the stale one in the cache.
	last, err := store.LastQuote(ctx)
	if err != nil {
		t.Fatalf("LastQuote() error = %v", err)
	}
	if last == nil || last.Text != "fresh" {
		t.Errorf("LastQuote() = %+v, want the fetched quote cached", last)
	}
	fresh, err := store.IsFromToday(ctx, testToday)
	if err != nil {
		t.Fatalf("IsFromToday() error = %v", err)
	}
	if !fresh {
		t.Error("cache not stamped with today's date after fetch")
	}
}

func TestQuoteOfTheDay_FetchFailureFallsBackToWindow(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("network down")}
	svc, store := newTestQuoteService(t, fetcher)
	ctx := context.Background()

	if err := store.SaveQuote(ctx, model.Quote{Text: "yesterday", Author: "disk"}, "2026-08-22"); err != nil {
		t.Fatalf("SaveQuote() error = %v", err)
	}

	quote, err := svc.QuoteOfTheDay(ctx)
	if err != nil {
		t.Fatalf("QuoteOfTheDay() error = %v", err)
	}
	if quote.Text != "yesterday" {
		t.Errorf("QuoteOfTheDay() = %q, want the window fallback", quote.Text)
	}
}

func TestQuoteOfTheDay_FetchFailureEmptyCacheIsUnavailable(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("network down")}
	svc, _ := newTestQuoteService(t, fetcher)

	_, err := svc.QuoteOfTheDay(context.Background())
	if !errors.Is(err, apperror.ErrUnavailable) {
		t.Errorf("QuoteOfTheDay() error = %v, want ErrUnavailable", err)
	}
}

func TestQuoteOfTheDay_FavoriteFlagSurvivesFetch(t *testing.T) {
	fetched := model.Quote{Text: "fresh", Author: "net"}
	fetcher := &stubFetcher{quote: &fetched}
	svc, store := newTestQuoteService(t, fetcher)
	ctx := context.Background()

	if err := store.AddFavorite(ctx, fetched); err != nil {
		t.Fatalf("AddFavorite() error = %v", err)
	}

	quote, err := svc.QuoteOfTheDay(ctx)
	if err != nil {
		t.Fatalf("QuoteOfTheDay() error = %v", err)
	}
	if !quote.IsFavorite {
		t.Error("QuoteOfTheDay() lost the favorite flag on a fetched quote")
	}
}

func TestRefresh_AlwaysFetches(t *testing.T) {
	fetcher := &stubFetcher{quote: &model.Quote{Text: "fresh", Author: "net"}}
	svc, store := newTestQuoteService(t, fetcher)
	ctx := context.Background()

	// Cache is already fresh for today; Refresh must still hit the network.
	if err := store.SaveQuote(ctx, model.Quote{Text: "cached", Author: "disk"}, testToday); err != nil {
		t.Fatalf("SaveQuote() error = %v", err)
	}

	quote, err := svc.Refresh(ctx)
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if quote.Text != "fresh" {
		t.Errorf("Refresh() = %q, want the fetched quote", quote.Text)
	}
	if fetcher.calls != 1 {
		t.Errorf("fetcher called %d times, want 1", fetcher.calls)
	}
}

func TestRefresh_FailureFallsBackToLastQuote(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("network down")}
	svc, store := newTestQuoteService(t, fetcher)
	ctx := context.Background()

	if err := store.SaveQuote(ctx, model.Quote{Text: "cached", Author: "disk"}, "2026-08-20"); err != nil {
		t.Fatalf("SaveQuote() error = %v", err)
	}

	quote, err := svc.Refresh(ctx)
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if quote.Text != "cached" {
		t.Errorf("Refresh() = %q, want the last cached quote", quote.Text)
	}
}

func TestRefresh_FailureWithEmptyCacheIsUnavailable(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("network down")}
	svc, _ := newTestQuoteService(t, fetcher)

	_, err := svc.Refresh(context.Background())
	if !errors.Is(err, apperror.ErrUnavailable) {
		t.Errorf("Refresh() error = %v, want ErrUnavailable", err)
	}
}
