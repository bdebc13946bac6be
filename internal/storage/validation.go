// Package storage provides the SQLite record store for the ledger.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MoneNarendra/unibudget/internal/model"
	"github.com/MoneNarendra/unibudget/internal/service"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidCategory    = errors.New("invalid custom category")
	ErrUnknownCollection  = errors.New("unknown collection")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateTransaction checks that a transaction can be stored.
// Amount positivity is an entry rule and is not enforced here.
func validateTransaction(txn model.Transaction) error {
	if txn.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidTransaction)
	}
	if txn.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidTransaction)
	}
	if !txn.Type.Valid() {
		return fmt.Errorf("%w: type %q", ErrInvalidTransaction, txn.Type)
	}
	if !txn.Method.Valid() {
		return fmt.Errorf("%w: method %q", ErrInvalidTransaction, txn.Method)
	}
	return nil
}

func validateCustomCategory(c model.CustomCategory) error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidCategory)
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidCategory)
	}
	return nil
}

// tableFor maps a collection to its table.
func tableFor(c service.Collection) (string, error) {
	switch c {
	case service.CollectionTransactions:
		return "transactions", nil
	case service.CollectionLimits:
		return "budget_limits", nil
	case service.CollectionCustomCategories:
		return "custom_categories", nil
	case service.CollectionSettings:
		return "settings", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCollection, c)
	}
}
