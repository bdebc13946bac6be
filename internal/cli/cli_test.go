package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MoneNarendra/unibudget/internal/budget"
	"github.com/MoneNarendra/unibudget/internal/ledger"
	"github.com/MoneNarendra/unibudget/internal/model"
)

func TestMoney_Format(t *testing.T) {
	usd := NewMoney("USD")
	assert.Equal(t, "$1,234.50", usd.Format(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "$0.01", usd.Format(decimal.RequireFromString("0.005")), "rounds half away from zero")
	assert.Equal(t, "USD", usd.Code())

	inr := NewMoney("INR")
	assert.Contains(t, inr.Format(decimal.NewFromInt(100)), "₹")
	assert.Contains(t, inr.Format(decimal.NewFromInt(100)), "100.00")

	assert.Equal(t, "INR", NewMoney("NOPE").Code())
}

func TestMoney_Signed(t *testing.T) {
	m := NewMoney("USD")
	income := model.Transaction{Type: model.TypeIncome, Amount: decimal.NewFromInt(5)}
	expense := model.Transaction{Type: model.TypeExpense, Amount: decimal.NewFromInt(5)}

	assert.Equal(t, "+$5.00", m.Signed(income))
	assert.Equal(t, "-$5.00", m.Signed(expense))
	assert.Contains(t, m.Styled(expense), "-$5.00")
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, strings.Repeat("█", 5)+strings.Repeat("░", 5), ProgressBar(0.5, 10))
	assert.Equal(t, strings.Repeat("░", 10), ProgressBar(-1, 10))
	assert.Contains(t, ProgressBar(3, 10), strings.Repeat("█", 10))
}

func TestRenderer_Transactions(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, NewMoney("USD"), nil)

	require.NoError(t, r.Transactions(nil))
	assert.Contains(t, buf.String(), "No transactions yet")

	buf.Reset()
	require.NoError(t, r.Transactions([]model.Transaction{{
		ID:       "0123456789abcdef",
		Amount:   decimal.NewFromInt(100),
		Type:     model.TypeExpense,
		Category: "Food",
		Method:   model.MethodCash,
		Date:     time.Date(2024, 1, 15, 10, 30, 0, 0, time.Local),
		Note:     "lunch",
	}}))

	out := buf.String()
	assert.Contains(t, out, "01234567")
	assert.NotContains(t, out, "0123456789abcdef")
	assert.Contains(t, out, "2024-01-15 10:30")
	assert.Contains(t, out, "-$100.00")
	assert.Contains(t, out, "lunch")
}

func TestRenderer_Limits(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, NewMoney("USD"), nil)

	require.NoError(t, r.Limits([]budget.LimitStatus{{
		Limit:     model.BudgetLimit{Category: "Food", Limit: decimal.NewFromInt(500)},
		Spent:     decimal.NewFromInt(600),
		Remaining: decimal.NewFromInt(-100),
		Progress:  1,
		IsOver:    true,
	}}))

	out := buf.String()
	assert.Contains(t, out, "Food")
	assert.Contains(t, out, "$600.00")
	assert.Contains(t, out, "over")
}

func TestRenderer_SummaryAndStats(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, NewMoney("USD"), model.NewCatalog(nil))

	require.NoError(t, r.Summary(model.FinancialSummary{
		TotalBalance: decimal.NewFromInt(900),
		CashBalance:  decimal.NewFromInt(400),
		CardBalance:  decimal.NewFromInt(500),
		TotalIncome:  decimal.NewFromInt(1000),
		TotalExpense: decimal.NewFromInt(100),
	}))
	assert.Contains(t, buf.String(), "$900.00")

	buf.Reset()
	require.NoError(t, r.MonthStats("January 2024", ledger.MonthStats{
		Expense: decimal.NewFromInt(100), Count: 2,
	}, []ledger.CategoryTotal{{Category: "Food", Total: decimal.NewFromInt(100)}}))
	assert.Contains(t, buf.String(), "January 2024")
	assert.Contains(t, buf.String(), strings.Repeat("█", 20))
}

func TestRenderer_Categories(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, NewMoney("USD"), nil)

	require.NoError(t, r.Categories([]model.CustomCategory{{Name: "Gym", IconKey: model.IconHeart, Color: "#FF0000"}}))
	out := buf.String()
	assert.Contains(t, out, "Food")
	assert.Contains(t, out, "Gym")
	assert.Contains(t, out, "custom")
}

func TestRenderMarkdown(t *testing.T) {
	out, err := RenderMarkdown("- **save** more", model.ThemeDark, 60)
	require.NoError(t, err)
	assert.Contains(t, out, "save")
	assert.Contains(t, out, "more")
}

func TestImportProgress(t *testing.T) {
	var buf bytes.Buffer
	p := NewImportProgress(&buf, "Importing")
	p.Update(1, 3)
	p.Update(3, 3)
	p.Finish()
	assert.Contains(t, buf.String(), "3/3")
}
