package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MoneNarendra/unibudget/internal/model"
)

// ListCustomCategories returns every user-defined category.
func (s *SQLiteStorage) ListCustomCategories(ctx context.Context) ([]model.CustomCategory, error) {
	var categories []model.CustomCategory
	err := s.withDB(ctx, func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, `SELECT id, name, icon, color FROM custom_categories`)
		if err != nil {
			return fmt.Errorf("failed to query custom categories: %w", err)
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			var c model.CustomCategory
			if err := rows.Scan(&c.ID, &c.Name, &c.IconKey, &c.Color); err != nil {
				return fmt.Errorf("failed to scan custom category: %w", err)
			}
			categories = append(categories, c)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// SaveCustomCategory stores a custom category, replacing one with the same ID.
func (s *SQLiteStorage) SaveCustomCategory(ctx context.Context, category model.CustomCategory) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCustomCategory(category); err != nil {
		return err
	}

	return s.withDB(ctx, func(db *sql.DB) error {
		_, err := db.ExecContext(ctx, `
			INSERT OR REPLACE INTO custom_categories (id, name, icon, color)
			VALUES (?, ?, ?, ?)
		`, category.ID, category.Name, category.IconKey, category.Color)
		if err != nil {
			return fmt.Errorf("failed to save custom category %s: %w", category.Name, err)
		}
		return nil
	})
}
