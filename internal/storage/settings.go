package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MoneNarendra/unibudget/internal/model"
)

// GetTheme returns the saved theme, or model.DefaultTheme when none is saved.
func (s *SQLiteStorage) GetTheme(ctx context.Context) (model.Theme, error) {
	var value string
	err := s.withDB(ctx, func(db *sql.DB) error {
		return db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, model.ThemeSettingKey).Scan(&value)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return model.DefaultTheme, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read theme: %w", err)
	}

	theme, err := model.ParseTheme(value)
	if err != nil {
		return model.DefaultTheme, nil
	}
	return theme, nil
}

// SaveTheme stores the theme preference.
func (s *SQLiteStorage) SaveTheme(ctx context.Context, theme model.Theme) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if _, err := model.ParseTheme(string(theme)); err != nil {
		return err
	}

	return s.withDB(ctx, func(db *sql.DB) error {
		_, err := db.ExecContext(ctx, `
			INSERT INTO settings (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`, model.ThemeSettingKey, string(theme))
		if err != nil {
			return fmt.Errorf("failed to save theme: %w", err)
		}
		return nil
	})
}
