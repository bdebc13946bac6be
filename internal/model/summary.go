package model

import "github.com/shopspring/decimal"

// FinancialSummary holds derived totals over a set of transactions.
// TotalBalance always equals CashBalance+CardBalance and TotalIncome-TotalExpense.
type FinancialSummary struct {
	TotalBalance decimal.Decimal
	CashBalance  decimal.Decimal
	CardBalance  decimal.Decimal
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
}

// BalanceFor returns the balance of the given payment method.
func (s FinancialSummary) BalanceFor(m PaymentMethod) decimal.Decimal {
	if m == MethodCash {
		return s.CashBalance
	}
	return s.CardBalance
}
