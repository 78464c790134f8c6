package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/sakif/daybook/internal/apperror"
	"github.com/sakif/daybook/internal/model"
	"github.com/sakif/daybook/internal/repository"
)

// compile-time check that *DB implements repository.EntryRepository
var _ repository.EntryRepository = (*DB)(nil)

const entryColumns = `id, title, content, date, is_favorite`

// Insert persists a new entry and writes the generated id back into it.
func (db *DB) Insert(ctx context.Context, entry *model.Entry) error {
	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO journal_entries (title, content, date, is_favorite)
		 VALUES (?, ?, ?, ?)`,
		entry.Title,
		entry.Content,
		entry.Date,
		entry.IsFavorite,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading entry id: %w", err)
	}
	entry.ID = id

	return nil
}

// GetAll returns every entry, newest date first.
func (db *DB) GetAll(ctx context.Context) ([]model.Entry, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+entryColumns+`
		 FROM journal_entries
		 ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// GetByID returns a single entry, or apperror.ErrNotFound when absent.
func (db *DB) GetByID(ctx context.Context, id int64) (*model.Entry, error) {
	var e model.Entry

	err := db.conn.QueryRowContext(ctx,
		`SELECT `+entryColumns+`
		 FROM journal_entries
		 WHERE id = ?`,
		id,
	).Scan(&e.ID, &e.Title, &e.Content, &e.Date, &e.IsFavorite)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("entry", strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("sqlite: getting entry %d: %w", id, err)
	}

	return &e, nil
}

// Update replaces the full record keyed by entry.ID, including the favorite
// flag. Returns the number of rows affected (0 when the id matched nothing).
func (db *DB) Update(ctx context.Context, entry *model.Entry) (int64, error) {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE journal_entries
		 SET title = ?, content = ?, date = ?, is_favorite = ?
		 WHERE id = ?`,
		entry.Title,
		entry.Content,
		entry.Date,
		entry.IsFavorite,
		entry.ID,
	)
	if err != nil {
		return 0, fmt.Errorf("sqlite: updating entry %d: %w", entry.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}

	return rowsAffected, nil
}

// Delete removes one entry by id. Returns the number of rows affected.
func (db *DB) Delete(ctx context.Context, id int64) (int64, error) {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM journal_entries WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("sqlite: deleting entry %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}

	return rowsAffected, nil
}

// DeleteAll wipes the journal. Returns the number of entries removed.
func (db *DB) DeleteAll(ctx context.Context) (int64, error) {
	result, err := db.conn.ExecContext(ctx, `DELETE FROM journal_entries`)
	if err != nil {
		return 0, fmt.Errorf("sqlite: deleting all entries: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}

	return rowsAffected, nil
}

// Search returns entries whose title or content contains the query,
// case-insensitively, newest date first.
func (db *DB) Search(ctx context.Context, query string) ([]model.Entry, error) {
	// instr on lowered text rather than LIKE: the query stays a plain
	// substring even when it contains % or _.
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+entryColumns+`
		 FROM journal_entries
		 WHERE instr(lower(title), lower(?)) > 0
		    OR instr(lower(content), lower(?)) > 0
		 ORDER BY date DESC, id DESC`,
		query, query)
	if err != nil {
		return nil, fmt.Errorf("sqlite: searching entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// GetFavorites returns favorited entries, newest date first.
func (db *DB) GetFavorites(ctx context.Context) ([]model.Entry, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+entryColumns+`
		 FROM journal_entries
		 WHERE is_favorite = 1
		 ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing favorite entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]model.Entry, error) {
	entries := []model.Entry{}
	for rows.Next() {
		var e model.Entry
		if err := rows.Scan(&e.ID, &e.Title, &e.Content, &e.Date, &e.IsFavorite); err != nil {
			return nil, fmt.Errorf("sqlite: scanning entry row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating entries: %w", err)
	}
	return entries, nil
}
