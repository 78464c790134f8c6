package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sakif/daybook/internal/repository"
)

// compile-time check that *DB implements repository.KVStore
var _ repository.KVStore = (*DB)(nil)

// GetValue returns the value stored under (namespace, key) and whether it
// was present. A missing key is (_, false, nil), not an error.
func (db *DB) GetValue(ctx context.Context, namespace, key string) (string, bool, error) {
	var value string

	err := db.conn.QueryRowContext(ctx,
		`SELECT value FROM kv_store WHERE namespace = ? AND key = ?`,
		namespace, key,
	).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, fmt.Errorf("sqlite: getting kv %s/%s: %w", namespace, key, err)
	}

	return value, true, nil
}

// SetValue writes the value under (namespace, key), replacing any previous
// value.
func (db *DB) SetValue(ctx context.Context, namespace, key, value string) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO kv_store (namespace, key, value) VALUES (?, ?, ?)
		 ON CONFLICT(namespace, key) DO UPDATE SET value = excluded.value`,
		namespace, key, value,
	)
	if err != nil {
		return fmt.Errorf("sqlite: setting kv %s/%s: %w", namespace, key, err)
	}

	return nil
}

// DeleteValue removes a single key. Deleting an absent key is a no-op.
func (db *DB) DeleteValue(ctx context.Context, namespace, key string) error {
	_, err := db.conn.ExecContext(ctx,
		`DELETE FROM kv_store WHERE namespace = ? AND key = ?`,
		namespace, key,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting kv %s/%s: %w", namespace, key, err)
	}

	return nil
}

// DeleteNamespace wipes every key in the namespace.
func (db *DB) DeleteNamespace(ctx context.Context, namespace string) error {
	_, err := db.conn.ExecContext(ctx,
		`DELETE FROM kv_store WHERE namespace = ?`, namespace)
	if err != nil {
		return fmt.Errorf("sqlite: clearing kv namespace %s: %w", namespace, err)
	}

	return nil
}
