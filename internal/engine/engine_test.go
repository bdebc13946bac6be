package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MoneNarendra/unibudget/internal/common"
	"github.com/MoneNarendra/unibudget/internal/csvcodec"
	"github.com/MoneNarendra/unibudget/internal/model"
	"github.com/MoneNarendra/unibudget/internal/service"
	"github.com/MoneNarendra/unibudget/internal/testutil"
)

var (
	errDiskFull = errors.New("disk full")
	now         = time.Date(2024, 3, 20, 14, 0, 0, 0, time.UTC)
)

// flakyStorage fails writes on demand.
type flakyStorage struct {
	service.Storage
	failWrites bool
	failReset  bool
}

func (f *flakyStorage) SaveTransaction(ctx context.Context, t model.Transaction) error {
	if f.failWrites {
		return errDiskFull
	}
	return f.Storage.SaveTransaction(ctx, t)
}

func (f *flakyStorage) DeleteTransaction(ctx context.Context, id string) error {
	if f.failWrites {
		return errDiskFull
	}
	return f.Storage.DeleteTransaction(ctx, id)
}

func (f *flakyStorage) SaveLimit(ctx context.Context, l model.BudgetLimit) error {
	if f.failWrites {
		return errDiskFull
	}
	return f.Storage.SaveLimit(ctx, l)
}

func (f *flakyStorage) SaveTheme(ctx context.Context, theme model.Theme) error {
	if f.failWrites {
		return errDiskFull
	}
	return f.Storage.SaveTheme(ctx, theme)
}

func (f *flakyStorage) ResetAll(ctx context.Context) error {
	if f.failReset {
		return fmt.Errorf("%w: %w", common.ErrResetFailed, errDiskFull)
	}
	return f.Storage.ResetAll(ctx)
}

type fixture struct {
	coord   *Coordinator
	db      *testutil.TestDB
	store   *flakyStorage
	advisor *MockAdvisor
	events  []Reconciliation
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	f := &fixture{
		db:      db,
		store:   &flakyStorage{Storage: db.Storage},
		advisor: &MockAdvisor{Reply: "Spend less on Fun."},
	}
	ids := &testutil.SequentialIDs{}
	opts = append([]Option{
		WithReconcileHandler(func(r Reconciliation) { f.events = append(f.events, r) }),
		WithCodec(csvcodec.New(ids, csvcodec.WithLocation(time.UTC))),
	}, opts...)
	f.coord = New(Dependencies{
		Storage: f.store,
		Clock:   testutil.FixedClock{T: now},
		IDs:     ids,
		Advisor: f.advisor,
	}, opts...)
	require.NoError(t, f.coord.Load(context.Background()))
	return f
}

func draft(amount string, typ model.TransactionType, method model.PaymentMethod, category string) model.Transaction {
	return model.Transaction{
		Amount:   decimal.RequireFromString(amount),
		Type:     typ,
		Method:   method,
		Category: category,
		Date:     now,
	}
}

func TestCoordinator_SaveTransaction(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	income, err := f.coord.SaveTransaction(ctx, draft("1000", model.TypeIncome, model.MethodCash, model.CategoryAllowance))
	require.NoError(t, err)
	assert.Equal(t, "id-1", income.ID)

	lunch, err := f.coord.SaveTransaction(ctx, draft("120", model.TypeExpense, model.MethodCash, model.CategoryFood))
	require.NoError(t, err)

	txns := f.coord.Transactions()
	require.Len(t, txns, 2)
	assert.Equal(t, lunch.ID, txns[0].ID, "new transactions are prepended")
	assert.Len(t, f.db.Transactions(), 2)

	summary := f.coord.Summary()
	assert.Equal(t, "880", summary.CashBalance.String())
	assert.Empty(t, f.events)
}

func TestCoordinator_SaveTransactionValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.coord.SaveTransaction(ctx, draft("50", model.TypeExpense, model.MethodCard, model.CategoryFood))
	assert.ErrorIs(t, err, model.ErrInsufficientFunds)

	_, err = f.coord.SaveTransaction(ctx, draft("0", model.TypeIncome, model.MethodCard, model.CategoryFood))
	assert.ErrorIs(t, err, model.ErrInvalidAmount)

	assert.Empty(t, f.coord.Transactions())
	assert.Empty(t, f.db.Transactions())
}

func TestCoordinator_EditTransaction(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.coord.SaveTransaction(ctx, draft("100", model.TypeIncome, model.MethodCard, model.CategoryAllowance))
	require.NoError(t, err)
	expense, err := f.coord.SaveTransaction(ctx, draft("80", model.TypeExpense, model.MethodCard, model.CategoryBooks))
	require.NoError(t, err)

	// Balance is 20, but the 80 being edited is credited back.
	edited := expense
	edited.Amount = decimal.NewFromInt(95)
	edited.Note = "textbook"
	_, err = f.coord.SaveTransaction(ctx, edited)
	require.NoError(t, err)

	got, ok := f.coord.Transaction(expense.ID)
	require.True(t, ok)
	assert.Equal(t, "95", got.Amount.String())
	assert.Equal(t, "textbook", got.Note)
	assert.Len(t, f.coord.Transactions(), 2)

	_, err = f.coord.SaveTransaction(ctx, model.Transaction{ID: "ghost", Amount: decimal.NewFromInt(1), Type: model.TypeIncome, Method: model.MethodCash, Category: "x", Date: now})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestCoordinator_WriteFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.coord.SaveLimit(ctx, model.BudgetLimit{Category: "Food", Limit: decimal.NewFromInt(500)}))
	f.store.failWrites = true

	err := f.coord.SaveLimit(ctx, model.BudgetLimit{Category: "Food", Limit: decimal.NewFromInt(900)})
	require.ErrorIs(t, err, errDiskFull)

	limits := f.coord.Limits()
	require.Len(t, limits, 1)
	assert.Equal(t, "500", limits[0].Limit.String())

	require.Len(t, f.events, 1)
	ev := f.events[0]
	assert.Equal(t, OpSaveLimit, ev.Op)
	assert.Equal(t, "Food", ev.Key)
	assert.True(t, ev.RolledBack)
	assert.ErrorIs(t, ev.Err, errDiskFull)
	require.Len(t, ev.Previous.Limits, 1)
	assert.Equal(t, "500", ev.Previous.Limits[0].Limit.String())
}

func TestCoordinator_WriteFailureWithoutRollback(t *testing.T) {
	ctx := context.Background()
	cfg := DefaultConfig()
	cfg.RollbackOnFailure = false
	f := newFixture(t, WithConfig(cfg))
	f.store.failWrites = true

	err := f.coord.SaveTheme(ctx, model.ThemeDark)
	require.Error(t, err)

	assert.Equal(t, model.ThemeDark, f.coord.Theme(), "tentative change is kept")
	require.Len(t, f.events, 1)
	assert.False(t, f.events[0].RolledBack)
	assert.Equal(t, model.ThemeSystem, f.events[0].Previous.Theme)
}

func TestCoordinator_DeleteTransaction(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	txn, err := f.coord.SaveTransaction(ctx, draft("10", model.TypeIncome, model.MethodCash, model.CategoryAllowance))
	require.NoError(t, err)

	f.store.failWrites = true
	require.Error(t, f.coord.DeleteTransaction(ctx, txn.ID))
	assert.Len(t, f.coord.Transactions(), 1, "rolled back")

	f.store.failWrites = false
	require.NoError(t, f.coord.DeleteTransaction(ctx, txn.ID))
	require.NoError(t, f.coord.DeleteTransaction(ctx, "missing"))
	assert.Empty(t, f.coord.Transactions())
	assert.Empty(t, f.db.Transactions())
}

func TestCoordinator_Limits(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.coord.SaveLimit(ctx, model.BudgetLimit{Category: "Food", Limit: decimal.NewFromInt(500)}))
	require.NoError(t, f.coord.SaveLimit(ctx, model.BudgetLimit{Category: "Food", Limit: decimal.NewFromInt(650)}))
	require.NoError(t, f.coord.SaveLimit(ctx, model.BudgetLimit{Category: "Fun", Limit: decimal.NewFromInt(100)}))

	limits := f.coord.Limits()
	require.Len(t, limits, 2)
	assert.Equal(t, "650", limits[0].Limit.String())

	assert.ErrorIs(t, f.coord.SaveLimit(ctx, model.BudgetLimit{Category: "Food", Limit: decimal.NewFromInt(-1)}), model.ErrInvalidAmount)

	require.NoError(t, f.coord.DeleteLimit(ctx, "Fun"))
	assert.Len(t, f.coord.Limits(), 1)
}

func TestCoordinator_BudgetStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.coord.SaveTransaction(ctx, draft("1000", model.TypeIncome, model.MethodCash, model.CategoryAllowance))
	require.NoError(t, err)
	_, err = f.coord.SaveTransaction(ctx, draft("600", model.TypeExpense, model.MethodCash, model.CategoryFood))
	require.NoError(t, err)
	require.NoError(t, f.coord.SaveLimit(ctx, model.BudgetLimit{Category: model.CategoryFood, Limit: decimal.NewFromInt(500)}))

	status := f.coord.BudgetStatus()
	require.Len(t, status, 1)
	assert.Equal(t, "-100", status[0].Remaining.String())
	assert.True(t, status[0].IsOver)
}

func TestCoordinator_SaveCustomCategory(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	cat, err := f.coord.SaveCustomCategory(ctx, model.CustomCategory{Name: "  Gym ", IconKey: "Rocket"})
	require.NoError(t, err)
	assert.Equal(t, "Gym", cat.Name)
	assert.Equal(t, model.IconStar, cat.IconKey)
	assert.Equal(t, model.DefaultCustomColor, cat.Color)
	assert.NotEmpty(t, cat.ID)

	_, err = f.coord.SaveCustomCategory(ctx, model.CustomCategory{Name: " "})
	assert.ErrorIs(t, err, model.ErrMissingCategory)

	assert.Equal(t, model.KindCustom, f.coord.Catalog().Resolve("Gym").Kind)
	stored, err := f.db.Storage.ListCustomCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.CustomCategory{cat}, stored)
}

func TestCoordinator_ClearAllData(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.coord.SaveTransaction(ctx, draft("10", model.TypeIncome, model.MethodCash, model.CategoryAllowance))
	require.NoError(t, err)
	require.NoError(t, f.coord.SaveLimit(ctx, model.BudgetLimit{Category: "Food", Limit: decimal.NewFromInt(5)}))
	require.NoError(t, f.coord.SaveTheme(ctx, model.ThemeDark))

	f.store.failReset = true
	err = f.coord.ClearAllData(ctx)
	require.ErrorIs(t, err, common.ErrResetFailed)
	assert.Len(t, f.coord.Transactions(), 1, "state is untouched when the reset fails")
	assert.Equal(t, model.ThemeDark, f.coord.Theme())

	f.store.failReset = false
	require.NoError(t, f.coord.ClearAllData(ctx))
	assert.Empty(t, f.coord.Transactions())
	assert.Empty(t, f.coord.Limits())
	assert.Empty(t, f.coord.CustomCategories())
	assert.Equal(t, model.ThemeSystem, f.coord.Theme())

	for _, c := range service.Collections() {
		n, err := f.db.Storage.Count(ctx, c)
		require.NoError(t, err)
		assert.Zero(t, n, c)
	}
}

func TestCoordinator_ImportAndExport(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	existing, err := f.coord.SaveTransaction(ctx, draft("10", model.TypeIncome, model.MethodCash, model.CategoryAllowance))
	require.NoError(t, err)

	text := `Date,Type,Category,Amount,Method,Note
"2024-03-01 09:00","INCOME","Scholarship",5000,"CARD","semester"
"2024-03-02 09:00","EXPENSE","Food",x,"CASH","bad"
"2024-03-03 09:00","EXPENSE","Books",300,"CARD","Bought ""notes"", used"`

	summary, err := f.coord.ImportFromText(ctx, text)
	require.NoError(t, err)
	assert.Equal(t, ImportSummary{Imported: 2, Skipped: 1}, summary)

	txns := f.coord.Transactions()
	require.Len(t, txns, 3)
	assert.Equal(t, "semester", txns[0].Note)
	assert.Equal(t, `Bought "notes", used`, txns[1].Note)
	assert.Equal(t, existing.ID, txns[2].ID)
	assert.Len(t, f.db.Transactions(), 3)

	exported := f.coord.ExportToText()
	assert.Contains(t, exported, `"2024-03-03 09:00","EXPENSE","Books",300,"CARD","Bought ""notes"", used"`)

	fresh := newFixture(t)
	again, err := fresh.coord.ImportFromText(ctx, exported)
	require.NoError(t, err)
	assert.Equal(t, 3, again.Imported)
	assert.True(t, f.coord.Summary().TotalBalance.Equal(fresh.coord.Summary().TotalBalance))
}

func TestCoordinator_ImportPartialFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.store.failWrites = true

	summary, err := f.coord.ImportFromText(ctx, "header\n\"2024-03-01 09:00\",\"INCOME\",\"Fees\",1,\"CASH\",\"\"")
	require.ErrorIs(t, err, errDiskFull)
	assert.Zero(t, summary.Imported)
	require.Len(t, f.events, 1)
	assert.Equal(t, OpImport, f.events[0].Op)
}

func TestCoordinator_MergeTransactions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	batch := []model.Transaction{
		{ID: "ofx-1", Amount: decimal.NewFromInt(20), Type: model.TypeExpense, Method: model.MethodCard, Category: "Other", Date: now},
		{ID: "ofx-2", Amount: decimal.NewFromInt(500), Type: model.TypeIncome, Method: model.MethodCard, Category: "Other", Date: now},
	}
	added, err := f.coord.MergeTransactions(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	batch[0].Note = "updated"
	added, err = f.coord.MergeTransactions(ctx, batch)
	require.NoError(t, err)
	assert.Zero(t, added)

	assert.Len(t, f.coord.Transactions(), 2)
	got, ok := f.coord.Transaction("ofx-1")
	require.True(t, ok)
	assert.Equal(t, "updated", got.Note)
}

func TestCoordinator_Advice(t *testing.T) {
	ctx := context.Background()

	t.Run("no transactions", func(t *testing.T) {
		f := newFixture(t)
		assert.Equal(t, NoTransactionsAdvice, f.coord.Advice(ctx))
		assert.Empty(t, f.advisor.Calls())
	})

	t.Run("sends the newest sample", func(t *testing.T) {
		f := newFixture(t)
		for i := 0; i < 60; i++ {
			d := draft("1", model.TypeIncome, model.MethodCash, model.CategoryAllowance)
			d.Date = now.Add(time.Duration(i) * time.Minute)
			_, err := f.coord.SaveTransaction(ctx, d)
			require.NoError(t, err)
		}

		assert.Equal(t, "Spend less on Fun.", f.coord.Advice(ctx))
		calls := f.advisor.Calls()
		require.Len(t, calls, 1)
		require.Len(t, calls[0], 50)
		assert.True(t, calls[0][0].Date.Equal(now.Add(59*time.Minute)))
	})

	t.Run("advisor failure", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.coord.SaveTransaction(ctx, draft("1", model.TypeIncome, model.MethodCash, model.CategoryAllowance))
		require.NoError(t, err)

		f.advisor.Err = errors.New("401 unauthorized")
		assert.Equal(t, UnavailableAdvice, f.coord.Advice(ctx))

		f.advisor.Err = nil
		f.advisor.Reply = "   "
		assert.Equal(t, EmptyAdvice, f.coord.Advice(ctx))
	})

	t.Run("no advisor configured", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		coord := New(Dependencies{Storage: db.Storage, Clock: testutil.FixedClock{T: now}, IDs: &testutil.SequentialIDs{}})
		require.NoError(t, coord.Load(ctx))
		_, err := coord.SaveTransaction(ctx, draft("1", model.TypeIncome, model.MethodCash, model.CategoryAllowance))
		require.NoError(t, err)
		assert.Equal(t, UnavailableAdvice, coord.Advice(ctx))
	})
}

func TestCoordinator_LoadReadsAllCollections(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	older := testutil.Txn("a", "5", model.TypeIncome, model.MethodCash, "Fees", now.Add(-time.Hour))
	newer := testutil.Txn("b", "7", model.TypeIncome, model.MethodCash, "Fees", now)
	db.SeedTransactions(older, newer)
	db.SeedLimits(model.BudgetLimit{Category: "Fun", Limit: decimal.NewFromInt(1)}, model.BudgetLimit{Category: "Bills", Limit: decimal.NewFromInt(2)})
	require.NoError(t, db.Storage.SaveTheme(ctx, model.ThemeLight))

	coord := New(Dependencies{Storage: db.Storage, Clock: testutil.FixedClock{T: now}, IDs: &testutil.SequentialIDs{}})
	require.NoError(t, coord.Load(ctx))

	txns := coord.Transactions()
	require.Len(t, txns, 2)
	assert.Equal(t, "b", txns[0].ID)
	assert.Equal(t, "Bills", coord.Limits()[0].Category)
	assert.Equal(t, model.ThemeLight, coord.Theme())
}
