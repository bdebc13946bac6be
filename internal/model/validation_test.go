package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEntry(t *testing.T) {
	date := time.Date(2024, 3, 5, 12, 30, 0, 0, time.UTC)
	summary := FinancialSummary{
		CashBalance: decimal.NewFromInt(100),
		CardBalance: decimal.NewFromInt(50),
	}
	valid := Transaction{
		ID:       "t1",
		Amount:   decimal.NewFromInt(40),
		Type:     TypeExpense,
		Category: CategoryFood,
		Method:   MethodCash,
		Date:     date,
	}

	tests := []struct {
		mutate   func(*Transaction)
		existing *Transaction
		wantErr  error
		name     string
	}{
		{name: "valid expense", mutate: func(*Transaction) {}},
		{name: "zero amount", mutate: func(tx *Transaction) { tx.Amount = decimal.Zero }, wantErr: ErrInvalidAmount},
		{name: "negative amount", mutate: func(tx *Transaction) { tx.Amount = decimal.NewFromInt(-3) }, wantErr: ErrInvalidAmount},
		{name: "blank category", mutate: func(tx *Transaction) { tx.Category = "  " }, wantErr: ErrMissingCategory},
		{name: "missing date", mutate: func(tx *Transaction) { tx.Date = time.Time{} }, wantErr: ErrMissingDate},
		{name: "expense over card balance", mutate: func(tx *Transaction) { tx.Method = MethodCard }, wantErr: ErrInsufficientFunds},
		{name: "expense equal to balance", mutate: func(tx *Transaction) { tx.Amount = decimal.NewFromInt(100) }},
		{name: "income ignores balance", mutate: func(tx *Transaction) {
			tx.Type = TypeIncome
			tx.Amount = decimal.NewFromInt(10000)
		}},
		{
			name:     "edit credits back the original expense",
			mutate:   func(tx *Transaction) { tx.Method = MethodCard; tx.Amount = decimal.NewFromInt(70) },
			existing: &Transaction{ID: "t1", Amount: decimal.NewFromInt(30), Type: TypeExpense, Method: MethodCard},
		},
		{
			name:     "edit with a different method gets no credit",
			mutate:   func(tx *Transaction) { tx.Method = MethodCard; tx.Amount = decimal.NewFromInt(70) },
			existing: &Transaction{ID: "t1", Amount: decimal.NewFromInt(30), Type: TypeExpense, Method: MethodCash},
			wantErr:  ErrInsufficientFunds,
		},
		{name: "newline in note", mutate: func(tx *Transaction) { tx.Note = "line1\nline2" }, wantErr: ErrLineBreak},
		{name: "carriage return in note", mutate: func(tx *Transaction) { tx.Note = "lunch\r" }, wantErr: ErrLineBreak},
		{name: "newline in category", mutate: func(tx *Transaction) { tx.Category = "Food\nExtra" }, wantErr: ErrLineBreak},
		{name: "unknown method", mutate: func(tx *Transaction) { tx.Method = "CHEQUE" }, wantErr: ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := valid
			tt.mutate(&tx)
			err := ValidateEntry(tx, summary, tt.existing)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestParseTransactionType(t *testing.T) {
	got, err := ParseTransactionType(" income ")
	require.NoError(t, err)
	assert.Equal(t, TypeIncome, got)

	_, err = ParseTransactionType("TRANSFER")
	assert.Error(t, err)
}

func TestParsePaymentMethod(t *testing.T) {
	got, err := ParsePaymentMethod("card")
	require.NoError(t, err)
	assert.Equal(t, MethodCard, got)

	_, err = ParsePaymentMethod("")
	assert.Error(t, err)
}

func TestParseTheme(t *testing.T) {
	for _, in := range []string{"light", "DARK", "System"} {
		_, err := ParseTheme(in)
		assert.NoError(t, err, in)
	}
	_, err := ParseTheme("solarized")
	assert.Error(t, err)
}

func TestBudgetLimitValidate(t *testing.T) {
	assert.NoError(t, BudgetLimit{Category: "Food", Limit: decimal.NewFromInt(500)}.Validate())
	assert.NoError(t, BudgetLimit{Category: "Food", Limit: decimal.Zero}.Validate())
	assert.ErrorIs(t, BudgetLimit{Category: "", Limit: decimal.NewFromInt(1)}.Validate(), ErrMissingCategory)
	assert.ErrorIs(t, BudgetLimit{Category: "Food", Limit: decimal.NewFromInt(-1)}.Validate(), ErrInvalidAmount)
}
