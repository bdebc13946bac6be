// Package budget compares monthly category spending against budget limits.
package budget

import (
	"github.com/shopspring/decimal"

	"github.com/MoneNarendra/unibudget/internal/ledger"
	"github.com/MoneNarendra/unibudget/internal/model"
	"github.com/MoneNarendra/unibudget/internal/service"
)

// LimitStatus is the state of one budget limit for the current month.
type LimitStatus struct {
	Limit     model.BudgetLimit
	Spent     decimal.Decimal
	Remaining decimal.Decimal
	// Progress is the spent fraction of the limit, capped at 1.
	Progress float64
	IsOver   bool
}

// Tracker evaluates limits against the calendar month of the clock's current time.
type Tracker struct {
	clock service.Clock
}

// NewTracker creates a tracker reading time from clock.
func NewTracker(clock service.Clock) *Tracker {
	return &Tracker{clock: clock}
}

// Status returns one entry per limit, in the order of limits.
// Spending is matched to a limit by exact category name.
func (t *Tracker) Status(limits []model.BudgetLimit, txns []model.Transaction) []LimitStatus {
	spent := t.SpentByCategory(txns)

	out := make([]LimitStatus, 0, len(limits))
	for _, l := range limits {
		out = append(out, Evaluate(l, spent[l.Category]))
	}
	return out
}

// SpentByCategory sums this month's expenses per category.
func (t *Tracker) SpentByCategory(txns []model.Transaction) map[string]decimal.Decimal {
	month := ledger.MonthOf(t.clock.Now())

	spent := make(map[string]decimal.Decimal)
	for _, txn := range txns {
		if txn.Type != model.TypeExpense || !month.Contains(txn.Date) {
			continue
		}
		spent[txn.Category] = spent[txn.Category].Add(txn.Amount)
	}
	return spent
}

// Evaluate computes the status of one limit given the amount spent against it.
func Evaluate(l model.BudgetLimit, spent decimal.Decimal) LimitStatus {
	return LimitStatus{
		Limit:     l,
		Spent:     spent,
		Remaining: l.Limit.Sub(spent),
		IsOver:    spent.GreaterThan(l.Limit),
		Progress:  progress(spent, l.Limit),
	}
}

func progress(spent, limit decimal.Decimal) float64 {
	if !limit.IsPositive() {
		if spent.IsPositive() {
			return 1
		}
		return 0
	}
	f := spent.Div(limit).InexactFloat64()
	if f > 1 {
		return 1
	}
	if f < 0 {
		return 0
	}
	return f
}
