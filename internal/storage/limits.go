package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/MoneNarendra/unibudget/internal/model"
)

// ListLimits returns every budget limit.
func (s *SQLiteStorage) ListLimits(ctx context.Context) ([]model.BudgetLimit, error) {
	var limits []model.BudgetLimit
	err := s.withDB(ctx, func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, `SELECT category, amount FROM budget_limits`)
		if err != nil {
			return fmt.Errorf("failed to query budget limits: %w", err)
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			var (
				l      model.BudgetLimit
				amount string
			)
			if err := rows.Scan(&l.Category, &amount); err != nil {
				return fmt.Errorf("failed to scan budget limit: %w", err)
			}
			if l.Limit, err = decimal.NewFromString(amount); err != nil {
				return fmt.Errorf("budget limit %s has invalid amount %q: %w", l.Category, amount, err)
			}
			limits = append(limits, l)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return limits, nil
}

// SaveLimit sets the limit for a category, replacing any existing one.
func (s *SQLiteStorage) SaveLimit(ctx context.Context, limit model.BudgetLimit) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(limit.Category, "category"); err != nil {
		return err
	}

	return s.withDB(ctx, func(db *sql.DB) error {
		_, err := db.ExecContext(ctx, `
			INSERT INTO budget_limits (category, amount) VALUES (?, ?)
			ON CONFLICT(category) DO UPDATE SET amount = excluded.amount
		`, limit.Category, limit.Limit.String())
		if err != nil {
			return fmt.Errorf("failed to save budget limit %s: %w", limit.Category, err)
		}
		return nil
	})
}

// DeleteLimit removes the limit for a category. A missing category is not an error.
func (s *SQLiteStorage) DeleteLimit(ctx context.Context, category string) error {
	if err := validateString(category, "category"); err != nil {
		return err
	}

	return s.withDB(ctx, func(db *sql.DB) error {
		if _, err := db.ExecContext(ctx, `DELETE FROM budget_limits WHERE category = ?`, category); err != nil {
			return fmt.Errorf("failed to delete budget limit %s: %w", category, err)
		}
		return nil
	})
}
