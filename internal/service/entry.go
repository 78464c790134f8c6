package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/sakif/daybook/internal/apperror"
	"github.com/sakif/daybook/internal/model"
	"github.com/sakif/daybook/internal/repository"
)

// EntryService is the caller-side logic in front of the entry store:
// non-empty validation, the empty-query search bypass, and rows-affected to
// NotFound translation. The repository stays rule-free.
type EntryService struct {
	entries repository.EntryRepository
	logger  *slog.Logger
}

func NewEntryService(entries repository.EntryRepository, logger *slog.Logger) *EntryService {
	return &EntryService{entries: entries, logger: logger}
}

// Create validates and inserts a new entry. A blank date defaults to today.
func (s *EntryService) Create(ctx context.Context, entry *model.Entry) error {
	if entry.Date == "" {
		entry.Date = time.Now().Format(model.DateLayout)
	}
	if err := validateEntry(entry); err != nil {
		return err
	}

	if err := s.entries.Insert(ctx, entry); err != nil {
		return fmt.Errorf("service/entry: creating entry: %w", err)
	}

	s.logger.Info("entry created",
		slog.Int64("entryID", entry.ID),
		slog.String("date", entry.Date),
	)

	return nil
}

// List returns entries newest first. A blank query bypasses search and
// returns everything; anything else is a case-insensitive substring match
// over title and content.
func (s *EntryService) List(ctx context.Context, query string) ([]model.Entry, error) {
	if strings.TrimSpace(query) == "" {
		entries, err := s.entries.GetAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("service/entry: listing entries: %w", err)
		}
		return entries, nil
	}

	entries, err := s.entries.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("service/entry: searching entries: %w", err)
	}
	return entries, nil
}

// Get returns one entry by id.
func (s *EntryService) Get(ctx context.Context, id int64) (*model.Entry, error) {
	entry, err := s.entries.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service/entry: fetching entry %d: %w", id, err)
	}
	return entry, nil
}

// Update replaces the full record. The caller carries forward unchanged
// fields — editing the text must not silently drop the favorite flag.
func (s *EntryService) Update(ctx context.Context, entry *model.Entry) error {
	if entry.ID <= 0 {
		return apperror.ValidationFailed("id", "entry id is required for update")
	}
	if err := validateEntry(entry); err != nil {
		return err
	}

	rows, err := s.entries.Update(ctx, entry)
	if err != nil {
		return fmt.Errorf("service/entry: updating entry %d: %w", entry.ID, err)
	}
	if rows == 0 {
		return apperror.NotFound("entry", strconv.FormatInt(entry.ID, 10))
	}

	return nil
}

// Delete removes one entry.
func (s *EntryService) Delete(ctx context.Context, id int64) error {
	rows, err := s.entries.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("service/entry: deleting entry %d: %w", id, err)
	}
	if rows == 0 {
		return apperror.NotFound("entry", strconv.FormatInt(id, 10))
	}
	return nil
}

// DeleteAll clears the journal and returns how many entries were removed.
func (s *EntryService) DeleteAll(ctx context.Context) (int64, error) {
	rows, err := s.entries.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("service/entry: deleting all entries: %w", err)
	}

	s.logger.Info("journal cleared", slog.Int64("removed", rows))

	return rows, nil
}

// Favorites returns favorited entries, newest first.
func (s *EntryService) Favorites(ctx context.Context) ([]model.Entry, error) {
	entries, err := s.entries.GetFavorites(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/entry: listing favorites: %w", err)
	}
	return entries, nil
}

func validateEntry(entry *model.Entry) error {
	if strings.TrimSpace(entry.Title) == "" {
		return apperror.ValidationFailed("title", "title must not be empty")
	}
	if strings.TrimSpace(entry.Content) == "" {
		return apperror.ValidationFailed("content", "content must not be empty")
	}
	if _, err := time.Parse(model.DateLayout, entry.Date); err != nil {
		return apperror.ValidationFailed("date", "date must be in YYYY-MM-DD form")
	}
	return nil
}
