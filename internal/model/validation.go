package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValidation is the parent of every entry validation failure.
var ErrValidation = errors.New("validation failed")

var (
	// ErrInvalidAmount indicates a missing, non-numeric, or non-positive amount.
	ErrInvalidAmount = fmt.Errorf("%w: please enter a valid amount greater than 0", ErrValidation)
	// ErrMissingCategory indicates no category was chosen.
	ErrMissingCategory = fmt.Errorf("%w: please select a category", ErrValidation)
	// ErrMissingDate indicates no date was chosen.
	ErrMissingDate = fmt.Errorf("%w: please select a date and time", ErrValidation)
	// ErrInsufficientFunds indicates an expense larger than the balance of its payment method.
	ErrInsufficientFunds = fmt.Errorf("%w: insufficient funds", ErrValidation)
	// ErrLineBreak indicates a category or note spanning more than one line.
	ErrLineBreak = fmt.Errorf("%w: category and note must fit on one line", ErrValidation)
)

// ValidateEntry checks a transaction before it is applied.
//
// For expenses the amount must not exceed the current balance of the chosen method.
// When existing is an expense being edited with the same method, its amount is
// credited back before the comparison.
func ValidateEntry(t Transaction, summary FinancialSummary, existing *Transaction) error {
	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrMissingCategory
	}
	if t.Date.IsZero() {
		return ErrMissingDate
	}
	if strings.ContainsAny(t.Category, "\r\n") || strings.ContainsAny(t.Note, "\r\n") {
		return ErrLineBreak
	}
	if !t.Type.Valid() {
		return fmt.Errorf("%w: unknown transaction type %q", ErrValidation, t.Type)
	}
	if !t.Method.Valid() {
		return fmt.Errorf("%w: unknown payment method %q", ErrValidation, t.Method)
	}

	if t.Type != TypeExpense {
		return nil
	}

	available := summary.BalanceFor(t.Method)
	if existing != nil && existing.Type == TypeExpense && existing.Method == t.Method {
		available = available.Add(existing.Amount)
	}
	if t.Amount.GreaterThan(available) {
		return fmt.Errorf("%w in %s, available: %s", ErrInsufficientFunds, t.Method, available.StringFixed(2))
	}
	return nil
}
