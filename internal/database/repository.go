package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"procrastination-tracker/internal/utils"
)

type Repository struct {
	Db  *Database
	now func() time.Time
}

func NewRepository(db *Database) *Repository {
	return &Repository{Db: db, now: time.Now}
}

// SetClock replaces the clock used for assignment and log timestamps.
func (r *Repository) SetClock(now func() time.Time) {
	r.now = now
}

func (r *Repository) timestamp() string {
	return utils.FormatTimestamp(r.now())
}

// withTx runs fn inside a transaction and commits when fn succeeds.
func (r *Repository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.Db.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("%w: %v (rollback: %v)", ErrPartialWrite, err, rbErr)
		}
		return err
	}
	return tx.Commit()
}

func nullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	value := ns.String
	return &value
}
