// Package model defines the ledger's record types and the rules applied to them at the entry boundary.
package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates whether money came in or went out.
type TransactionType string

const (
	// TypeIncome represents money received.
	TypeIncome TransactionType = "INCOME"
	// TypeExpense represents money spent.
	TypeExpense TransactionType = "EXPENSE"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// ParseTransactionType parses a transaction type, ignoring case and surrounding space.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
	return t, nil
}

// PaymentMethod is the balance a transaction is drawn from or paid into.
type PaymentMethod string

const (
	// MethodCash is physical cash.
	MethodCash PaymentMethod = "CASH"
	// MethodCard is any card or bank account.
	MethodCard PaymentMethod = "CARD"
)

// Valid reports whether m is one of the known payment methods.
func (m PaymentMethod) Valid() bool {
	return m == MethodCash || m == MethodCard
}

// ParsePaymentMethod parses a payment method, ignoring case and surrounding space.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(strings.ToUpper(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("unknown payment method %q", s)
	}
	return m, nil
}

// Transaction is a single income or expense entry.
// ID is immutable once assigned; every other field is replaced as a whole on edit.
type Transaction struct {
	Date     time.Time
	ID       string
	Category string
	Note     string
	Type     TransactionType
	Method   PaymentMethod
	Amount   decimal.Decimal
}

// IsIncome reports whether the transaction adds to a balance.
func (t Transaction) IsIncome() bool {
	return t.Type == TypeIncome
}

// IsCash reports whether the transaction moves the cash balance.
func (t Transaction) IsCash() bool {
	return t.Method == MethodCash
}

// Normalized returns a copy with the date converted to UTC, which is how dates are kept at rest.
func (t Transaction) Normalized() Transaction {
	t.Date = t.Date.UTC()
	return t
}
