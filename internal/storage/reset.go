package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/MoneNarendra/unibudget/internal/common"
	"github.com/MoneNarendra/unibudget/internal/service"
)

var _ service.Storage = (*SQLiteStorage)(nil)

// Clear deletes every record in one collection.
func (s *SQLiteStorage) Clear(ctx context.Context, collection service.Collection) error {
	table, err := tableFor(collection)
	if err != nil {
		return err
	}

	return s.withDB(ctx, func(db *sql.DB) error {
		if _, err := db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", collection, err)
		}
		return nil
	})
}

// Count returns the number of records in one collection.
func (s *SQLiteStorage) Count(ctx context.Context, collection service.Collection) (int, error) {
	table, err := tableFor(collection)
	if err != nil {
		return 0, err
	}

	var n int
	err = s.withDB(ctx, func(db *sql.DB) error {
		return db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", collection, err)
	}
	return n, nil
}

// ResetAll empties all four collections in a single transaction.
// Either every collection is emptied or none is; the database file is kept.
func (s *SQLiteStorage) ResetAll(ctx context.Context) error {
	err := s.withDB(ctx, func(db *sql.DB) error {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		for _, c := range service.Collections() {
			table, err := tableFor(c)
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("failed to clear %s: %w", c, err)
			}
		}

		return tx.Commit()
	})
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrResetFailed, err)
	}

	slog.Info("Reset all collections", "path", s.dbPath)
	return nil
}
