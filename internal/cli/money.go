package cli

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/MoneNarendra/unibudget/internal/model"
)

// Money formats decimal amounts in one currency.
type Money struct {
	currency *money.Currency
	code     string
}

// NewMoney returns a formatter for the ISO currency code. Unknown codes
// fall back to INR.
func NewMoney(code string) Money {
	cur := money.GetCurrency(code)
	if cur == nil {
		code = money.INR
		cur = money.GetCurrency(code)
	}
	return Money{currency: cur, code: code}
}

// Code is the ISO code in use.
func (m Money) Code() string {
	return m.code
}

// Format renders amount with the currency symbol and grouping, rounded to
// the currency's minor unit.
func (m Money) Format(amount decimal.Decimal) string {
	minor := amount.Shift(int32(m.currency.Fraction)).Round(0).IntPart()
	return money.New(minor, m.code).Display()
}

// Signed prefixes income with + and expense with -.
func (m Money) Signed(t model.Transaction) string {
	if t.IsIncome() {
		return "+" + m.Format(t.Amount)
	}
	return "-" + m.Format(t.Amount)
}

// Styled renders Signed in the income or expense color.
func (m Money) Styled(t model.Transaction) string {
	if t.IsIncome() {
		return IncomeStyle.Render(m.Signed(t))
	}
	return ExpenseStyle.Render(m.Signed(t))
}
