// Package ledger derives totals and period views from the transaction collection.
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/MoneNarendra/unibudget/internal/model"
)

// Summarize computes the financial summary in one pass. The result does not
// depend on the order of txns and no rounding is applied.
func Summarize(txns []model.Transaction) model.FinancialSummary {
	s := model.FinancialSummary{
		TotalBalance: decimal.Zero,
		CashBalance:  decimal.Zero,
		CardBalance:  decimal.Zero,
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}

	for _, t := range txns {
		signed := t.Amount
		switch t.Type {
		case model.TypeIncome:
			s.TotalIncome = s.TotalIncome.Add(t.Amount)
		case model.TypeExpense:
			s.TotalExpense = s.TotalExpense.Add(t.Amount)
			signed = t.Amount.Neg()
		default:
			continue
		}

		s.TotalBalance = s.TotalBalance.Add(signed)
		if t.Method == model.MethodCash {
			s.CashBalance = s.CashBalance.Add(signed)
		} else {
			s.CardBalance = s.CardBalance.Add(signed)
		}
	}

	return s
}
