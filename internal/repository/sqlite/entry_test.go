package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/sakif/daybook/internal/apperror"
	"github.com/sakif/daybook/internal/model"
)

// newTestDB opens a fresh in-memory database for one test.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func insertTestEntry(t *testing.T, db *DB, title, content, date string) *model.Entry {
	t.Helper()
	entry := &model.Entry{Title: title, Content: content, Date: date}
	if err := db.Insert(context.Background(), entry); err != nil {
		t.Fatalf("failed to insert test entry: %v", err)
	}
	return entry
}

func TestInsert_AssignsID(t *testing.T) {
	db := newTestDB(t)

	entry := &model.Entry{Title: "Day 1", Content: "Hello world", Date: "2026-01-05"}
	if err := db.Insert(context.Background(), entry); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if entry.ID == 0 {
		t.Error("Insert() did not set entry.ID")
	}

	second := insertTestEntry(t, db, "Day 2", "More words", "2026-01-06")
	if second.ID == entry.ID {
		t.Errorf("Insert() reused id %d", entry.ID)
	}
}

func TestInsert_GetByIDRoundTrip(t *testing.T) {
	db := newTestDB(t)
	original := insertTestEntry(t, db, "Day 1", "Hello world", "2026-01-05")

	found, err := db.GetByID(context.Background(), original.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}

	if found.Title != original.Title {
		t.Errorf("Title = %q, want %q", found.Title, original.Title)
	}
	if found.Content != original.Content {
		t.Errorf("Content = %q, want %q", found.Content, original.Content)
	}
	if found.Date != original.Date {
		t.Errorf("Date = %q, want %q", found.Date, original.Date)
	}
	if found.IsFavorite {
		t.Error("IsFavorite = true, want false by default")
	}
}

func TestGetByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetByID(context.Background(), 9999)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestGetAll_OrderedByDateDescending(t *testing.T) {
	db := newTestDB(t)
	insertTestEntry(t, db, "oldest", "a", "2026-01-01")
	insertTestEntry(t, db, "newest", "b", "2026-01-10")
	insertTestEntry(t, db, "middle", "c", "2026-01-05")

	entries, err := db.GetAll(context.Background())
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}

	if len(entries) != 3 {
		t.Fatalf("GetAll() returned %d entries, want 3", len(entries))
	}
	want := []string{"newest", "middle", "oldest"}
	for i, title := range want {
		if entries[i].Title != title {
			t.Errorf("entries[%d].Title = %q, want %q", i, entries[i].Title, title)
		}
	}
}

func TestUpdate_FullReplaceAndIdempotent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	entry := insertTestEntry(t, db, "before", "text", "2026-01-05")

	entry.Title = "after"
	entry.IsFavorite = true

	rows, err := db.Update(ctx, entry)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if rows != 1 {
		t.Errorf("Update() rows = %d, want 1", rows)
	}

	// Applying the identical update again must leave the same stored state.
	if _, err := db.Update(ctx, entry); err != nil {
		t.Fatalf("second Update() error = %v", err)
	}

	found, err := db.GetByID(ctx, entry.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if found.Title != "after" || !found.IsFavorite {
		t.Errorf("stored entry = %+v, want title %q and favorite", found, "after")
	}
}

func TestUpdate_MissingIDAffectsNoRows(t *testing.T) {
	db := newTestDB(t)

	rows, err := db.Update(context.Background(), &model.Entry{
		ID: 4242, Title: "x", Content: "y", Date: "2026-01-05",
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if rows != 0 {
		t.Errorf("Update() rows = %d, want 0", rows)
	}
}

func TestDelete(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	entry := insertTestEntry(t, db, "gone", "soon", "2026-01-05")

	rows, err := db.Delete(ctx, entry.ID)
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if rows != 1 {
		t.Errorf("Delete() rows = %d, want 1", rows)
	}

	if _, err := db.GetByID(ctx, entry.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrNotFound", err)
	}
}

func TestDeleteAll(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	insertTestEntry(t, db, "a", "1", "2026-01-01")
	insertTestEntry(t, db, "b", "2", "2026-01-02")

	rows, err := db.DeleteAll(ctx)
	if err != nil {
		t.Fatalf("DeleteAll() error = %v", err)
	}
	if rows != 2 {
		t.Errorf("DeleteAll() rows = %d, want 2", rows)
	}

	entries, err := db.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("GetAll() after DeleteAll returned %d entries", len(entries))
	}
}

func TestSearch_CaseInsensitiveOverTitleAndContent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	insertTestEntry(t, db, "Morning Walk", "cold but sunny", "2026-01-03")
	insertTestEntry(t, db, "groceries", "walked to the SHOP", "2026-01-04")
	insertTestEntry(t, db, "reading", "quiet evening", "2026-01-05")

	results, err := db.Search(ctx, "WALK")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("Search() returned %d entries, want 2", len(results))
	}
	// Newest date first.
	if results[0].Title != "groceries" || results[1].Title != "Morning Walk" {
		t.Errorf("Search() order = [%q, %q]", results[0].Title, results[1].Title)
	}
}

func TestSearch_LikeWildcardsAreLiteral(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	insertTestEntry(t, db, "percent 100%", "done", "2026-01-03")
	insertTestEntry(t, db, "other", "nothing here", "2026-01-04")

	results, err := db.Search(ctx, "100%")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 || results[0].Title != "percent 100%" {
		t.Errorf("Search(%q) = %v, want the percent entry only", "100%", results)
	}
}

func TestGetFavorites(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	plain := insertTestEntry(t, db, "plain", "a", "2026-01-03")
	fav := insertTestEntry(t, db, "starred", "b", "2026-01-04")

	fav.IsFavorite = true
	if _, err := db.Update(ctx, fav); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	favorites, err := db.GetFavorites(ctx)
	if err != nil {
		t.Fatalf("GetFavorites() error = %v", err)
	}
	if len(favorites) != 1 || favorites[0].ID != fav.ID {
		t.Errorf("GetFavorites() = %v, want only entry %d", favorites, fav.ID)
	}
	_ = plain
}

// TestMigrate_AddsFavoriteColumnToV1Schema simulates a database created
// before is_favorite existed and verifies opening it upgrades in place.
func TestMigrate_AddsFavoriteColumnToV1Schema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.db")

	raw, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("opening raw db: %v", err)
	}
	_, err = raw.Exec(`
		CREATE TABLE journal_entries (
			id      INTEGER PRIMARY KEY AUTOINCREMENT,
			title   TEXT NOT NULL,
			content TEXT NOT NULL,
			date    TEXT NOT NULL
		);
		INSERT INTO journal_entries (title, content, date)
		VALUES ('old entry', 'written under schema v1', '2025-12-01');
	`)
	if err != nil {
		t.Fatalf("seeding v1 schema: %v", err)
	}
	if err := raw.Close(); err != nil {
		t.Fatalf("closing raw db: %v", err)
	}

	db, err := New(path)
	if err != nil {
		t.Fatalf("New() on v1 database error = %v", err)
	}
	defer db.Close()

	entries, err := db.GetAll(context.Background())
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("GetAll() returned %d entries, want the preserved row", len(entries))
	}
	if entries[0].Title != "old entry" {
		t.Errorf("Title = %q, want %q", entries[0].Title, "old entry")
	}
	if entries[0].IsFavorite {
		t.Error("IsFavorite = true, want default false after migration")
	}
}
