package store

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"
)

// StateRepository persists the client's durable key/value state
// (session keys and one-time markers) under a namespace.
type StateRepository struct {
	db        *sql.DB
	namespace string
	postgres  bool
}

// NewStateRepository constructs a repository. driver selects the SQL
// placeholder style ("postgres" uses $n, anything else uses ?).
func NewStateRepository(db *sql.DB, driver, namespace string) *StateRepository {
	if strings.TrimSpace(namespace) == "" {
		namespace = "default"
	}
	return &StateRepository{
		db:        db,
		namespace: namespace,
		postgres:  driver == "postgres",
	}
}

func (r *StateRepository) Get(ctx context.Context, key string) (string, error) {
	query := r.rebind(`
		SELECT value
		FROM client_state
		WHERE namespace = ? AND state_key = ?`)
	var value string
	err := r.db.QueryRowContext(ctx, query, r.namespace, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

func (r *StateRepository) Set(ctx context.Context, key, value string) error {
	query := r.rebind(`
		INSERT INTO client_state (namespace, state_key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (namespace, state_key)
		DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`)
	_, err := r.db.ExecContext(ctx, query, r.namespace, key, value, time.Now().UTC())
	return err
}

// Delete removes the given keys. Missing keys are not an error.
func (r *StateRepository) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	query := r.rebind(`DELETE FROM client_state WHERE namespace = ? AND state_key = ?`)
	for _, key := range keys {
		if _, err := tx.ExecContext(ctx, query, r.namespace, key); err != nil {
			return err
		}
	}

	committed = true
	return tx.Commit()
}

func (r *StateRepository) rebind(query string) string {
	if !r.postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}
