// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/MoneNarendra/unibudget/internal/model"
)

// Collection names one of the store's record collections.
type Collection string

// Record collections.
const (
	CollectionTransactions     Collection = "transactions"
	CollectionLimits           Collection = "limits"
	CollectionCustomCategories Collection = "customCategories"
	CollectionSettings         Collection = "settings"
)

// Collections lists every collection in reset order.
func Collections() []Collection {
	return []Collection{
		CollectionTransactions,
		CollectionLimits,
		CollectionCustomCategories,
		CollectionSettings,
	}
}

// Storage defines the contract for our persistence layer.
// Every write is durable before the call returns.
type Storage interface {
	// Transaction operations
	ListTransactions(ctx context.Context) ([]model.Transaction, error)
	SaveTransaction(ctx context.Context, txn model.Transaction) error
	DeleteTransaction(ctx context.Context, id string) error

	// Budget limit operations
	ListLimits(ctx context.Context) ([]model.BudgetLimit, error)
	SaveLimit(ctx context.Context, limit model.BudgetLimit) error
	DeleteLimit(ctx context.Context, category string) error

	// Custom category operations
	ListCustomCategories(ctx context.Context) ([]model.CustomCategory, error)
	SaveCustomCategory(ctx context.Context, category model.CustomCategory) error

	// Settings
	GetTheme(ctx context.Context) (model.Theme, error)
	SaveTheme(ctx context.Context, theme model.Theme) error

	// Collection management
	Clear(ctx context.Context, collection Collection) error
	Count(ctx context.Context, collection Collection) (int, error)
	ResetAll(ctx context.Context) error

	Close() error
}

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// IDGenerator mints identifiers for new records.
type IDGenerator interface {
	NewID() string
}

// Advisor produces short natural-language advice about spending.
type Advisor interface {
	Advise(ctx context.Context, txns []model.Transaction) (string, error)
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
