package testutil

import (
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MoneNarendra/unibudget/internal/model"
)

// FixedClock always reports the same instant.
type FixedClock struct {
	T time.Time
}

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time { return c.T }

// SequentialIDs mints "id-1", "id-2", ... in order.
type SequentialIDs struct {
	Prefix string
	mu     sync.Mutex
	n      int
}

// NewID returns the next identifier.
func (g *SequentialIDs) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	prefix := g.Prefix
	if prefix == "" {
		prefix = "id"
	}
	return fmt.Sprintf("%s-%d", prefix, g.n)
}

// Txn builds a transaction for tests. amount is parsed as a decimal string.
func Txn(id, amount string, typ model.TransactionType, method model.PaymentMethod, category string, date time.Time) model.Transaction {
	return model.Transaction{
		ID:       id,
		Amount:   decimal.RequireFromString(amount),
		Type:     typ,
		Method:   method,
		Category: category,
		Date:     date,
	}
}
