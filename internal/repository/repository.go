// Package repository defines the storage interfaces the rest of the
// application depends on. The sqlite subpackage provides the only concrete
// implementation; tests substitute in-memory mocks.
package repository

import (
	"context"

	"github.com/sakif/daybook/internal/model"
)

// EntryRepository persists journal entries.
//
// Lists are ordered by date descending (newest first). Update and Delete
// report the number of rows affected; zero means the id matched nothing.
type EntryRepository interface {
	// Insert assigns a fresh id to the entry and persists it.
	Insert(ctx context.Context, entry *model.Entry) error
	GetAll(ctx context.Context) ([]model.Entry, error)
	// GetByID returns apperror.ErrNotFound (wrapped) when no entry has the id.
	GetByID(ctx context.Context, id int64) (*model.Entry, error)
	// Update replaces the full record keyed by entry.ID, favorite flag
	// included. Callers carry forward unchanged fields themselves.
	Update(ctx context.Context, entry *model.Entry) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
	// Search matches the query case-insensitively against title or content.
	// Behavior for an empty query is unspecified; callers use GetAll instead.
	Search(ctx context.Context, query string) ([]model.Entry, error)
	GetFavorites(ctx context.Context) ([]model.Entry, error)
}

// UserRepository persists local account records. Emails arrive already
// normalized from the service layer.
type UserRepository interface {
	// CreateUser assigns a fresh id and created-at timestamp (unless preset)
	// and persists the user. A duplicate email yields apperror.ErrConflict.
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	UpdateUser(ctx context.Context, user *model.User) (int64, error)
	DeleteUser(ctx context.Context, id int64) (int64, error)
	// ListUsers returns all users ordered by created_at descending.
	ListUsers(ctx context.Context) ([]model.User, error)
}

// KVStore is a namespaced key-value store backing the quote cache and the
// settings store. Values are opaque strings; callers handle encoding.
type KVStore interface {
	// GetValue reports the value and whether the key was present. A missing
	// key is not an error.
	GetValue(ctx context.Context, namespace, key string) (string, bool, error)
	SetValue(ctx context.Context, namespace, key, value string) error
	DeleteValue(ctx context.Context, namespace, key string) error
	// DeleteNamespace removes every key in the namespace.
	DeleteNamespace(ctx context.Context, namespace string) error
}
