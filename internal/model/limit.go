package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// BudgetLimit is a monthly spending cap for one category.
// There is at most one limit per category; saving again replaces it.
type BudgetLimit struct {
	Category string
	Limit    decimal.Decimal
}

// Validate checks that the limit can be stored.
func (l BudgetLimit) Validate() error {
	if strings.TrimSpace(l.Category) == "" {
		return fmt.Errorf("budget limit: %w", ErrMissingCategory)
	}
	if l.Limit.IsNegative() {
		return fmt.Errorf("budget limit for %s: %w", l.Category, ErrInvalidAmount)
	}
	return nil
}
