package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"conferencecentral/internal/domain"

	"github.com/lib/pq"
)

//go:embed schema.sql
var schema string

// Migrate creates the tables and indexes if they do not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// SQLSTATE codes for transactions aborted by a concurrent one.
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// mapTxError turns commit races into domain.ErrTxConflict so callers can retry.
func mapTxError(err error) error {
	var perr *pq.Error
	if errors.As(err, &perr) && (perr.Code == codeSerializationFailure || perr.Code == codeDeadlockDetected) {
		return fmt.Errorf("%w: %s", domain.ErrTxConflict, perr.Message)
	}
	return err
}

// notFound maps sql.ErrNoRows to domain.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

// inTx runs fn inside a transaction, committing when it returns nil.
func inTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return mapTxError(err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return mapTxError(err)
	}
	return mapTxError(tx.Commit())
}

// orderByIDs reorders items to follow ids, skipping ids with no item.
func orderByIDs[T any](ids []string, items []*T, id func(*T) string) []*T {
	byID := make(map[string]*T, len(items))
	for _, it := range items {
		byID[id(it)] = it
	}
	out := make([]*T, 0, len(ids))
	for _, k := range ids {
		if it, ok := byID[k]; ok {
			out = append(out, it)
		}
	}
	return out
}
