package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MoneNarendra/unibudget/internal/common"
	"github.com/MoneNarendra/unibudget/internal/model"
)

// ListTransactions returns every stored transaction in no particular order.
func (s *SQLiteStorage) ListTransactions(ctx context.Context) ([]model.Transaction, error) {
	var txns []model.Transaction
	err := s.withDB(ctx, func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, `
			SELECT id, amount, type, category, method, date, note
			FROM transactions
		`)
		if err != nil {
			return fmt.Errorf("failed to query transactions: %w", err)
		}
		defer func() { _ = rows.Close() }()

		txns, err = scanTransactions(rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	return txns, nil
}

// GetTransaction returns the transaction with the given ID, or common.ErrNotFound.
func (s *SQLiteStorage) GetTransaction(ctx context.Context, id string) (*model.Transaction, error) {
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	var txn *model.Transaction
	err := s.withDB(ctx, func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, `
			SELECT id, amount, type, category, method, date, note
			FROM transactions WHERE id = ?
		`, id)
		if err != nil {
			return fmt.Errorf("failed to query transaction: %w", err)
		}
		defer func() { _ = rows.Close() }()

		txns, err := scanTransactions(rows)
		if err != nil {
			return err
		}
		if len(txns) == 0 {
			return fmt.Errorf("transaction %s: %w", id, common.ErrNotFound)
		}
		txn = &txns[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// SaveTransaction inserts or fully replaces a transaction by ID.
func (s *SQLiteStorage) SaveTransaction(ctx context.Context, txn model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransaction(txn); err != nil {
		return err
	}

	return s.withDB(ctx, func(db *sql.DB) error {
		_, err := db.ExecContext(ctx, `
			INSERT OR REPLACE INTO transactions (id, amount, type, category, method, date, note)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`,
			txn.ID,
			txn.Amount.String(),
			string(txn.Type),
			txn.Category,
			string(txn.Method),
			formatTime(txn.Date),
			txn.Note,
		)
		if err != nil {
			return fmt.Errorf("failed to save transaction %s: %w", txn.ID, err)
		}
		return nil
	})
}

// DeleteTransaction removes a transaction. Deleting a missing ID is not an error.
func (s *SQLiteStorage) DeleteTransaction(ctx context.Context, id string) error {
	if err := validateString(id, "id"); err != nil {
		return err
	}

	return s.withDB(ctx, func(db *sql.DB) error {
		if _, err := db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete transaction %s: %w", id, err)
		}
		return nil
	})
}

func scanTransactions(rows *sql.Rows) ([]model.Transaction, error) {
	var txns []model.Transaction
	for rows.Next() {
		var (
			txn    model.Transaction
			amount string
			txType string
			method string
			date   string
		)
		if err := rows.Scan(&txn.ID, &amount, &txType, &txn.Category, &method, &date, &txn.Note); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		var err error
		if txn.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("transaction %s has invalid amount %q: %w", txn.ID, amount, err)
		}
		if txn.Date, err = parseTime(date); err != nil {
			return nil, fmt.Errorf("transaction %s has invalid date %q: %w", txn.ID, date, err)
		}
		txn.Type = model.TransactionType(txType)
		txn.Method = model.PaymentMethod(method)

		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return txns, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
