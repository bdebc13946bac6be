// Package engine coordinates the ledger's in-memory state with the record store.
//
// Every write is applied in two phases: the in-memory state changes first, then
// the change is written to the store. If the write fails a Reconciliation is
// emitted and, unless configured otherwise, the in-memory change is undone.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/MoneNarendra/unibudget/internal/budget"
	"github.com/MoneNarendra/unibudget/internal/common"
	"github.com/MoneNarendra/unibudget/internal/csvcodec"
	"github.com/MoneNarendra/unibudget/internal/ledger"
	"github.com/MoneNarendra/unibudget/internal/model"
	"github.com/MoneNarendra/unibudget/internal/service"
)

// Messages returned by Advice when no advisor output is available.
const (
	NoTransactionsAdvice = "Please add some transactions first so I can analyze your spending!"
	EmptyAdvice          = "Could not generate advice at the moment."
	UnavailableAdvice    = "Make sure your API key is set correctly to get smart insights! 🧠"
)

// Config holds configuration options for the coordinator.
type Config struct {
	// RollbackOnFailure restores the in-memory state when a store write fails.
	RollbackOnFailure bool
	// AdviceSampleSize is how many of the newest transactions are sent to the advisor.
	AdviceSampleSize int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		RollbackOnFailure: true,
		AdviceSampleSize:  50,
	}
}

// Snapshot is a copy of the coordinator's in-memory state.
type Snapshot struct {
	Theme            model.Theme
	Transactions     []model.Transaction
	Limits           []model.BudgetLimit
	CustomCategories []model.CustomCategory
}

// ImportSummary reports the outcome of a CSV import.
type ImportSummary struct {
	Imported int
	Skipped  int
}

// Coordinator owns the in-memory collections and keeps them in step with the store.
// Transactions are held newest first; imported and added rows are prepended.
type Coordinator struct {
	storage   service.Storage
	clock     service.Clock
	ids       service.IDGenerator
	advisor   service.Advisor
	codec     *csvcodec.Codec
	tracker   *budget.Tracker
	onFailure ReconcileHandler
	state     Snapshot
	config    Config
	mu        sync.Mutex
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithConfig overrides the default configuration.
func WithConfig(cfg Config) Option {
	return func(c *Coordinator) { c.config = cfg }
}

// WithReconcileHandler registers a handler for failed store writes.
func WithReconcileHandler(h ReconcileHandler) Option {
	return func(c *Coordinator) { c.onFailure = h }
}

// WithCodec sets the CSV codec used for import and export.
func WithCodec(codec *csvcodec.Codec) Option {
	return func(c *Coordinator) { c.codec = codec }
}

// New creates a coordinator. Call Load before reading state.
func New(deps Dependencies, opts ...Option) *Coordinator {
	c := &Coordinator{
		storage: deps.Storage,
		clock:   deps.Clock,
		ids:     deps.IDs,
		advisor: deps.Advisor,
		config:  DefaultConfig(),
		state:   Snapshot{Theme: model.DefaultTheme},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.codec == nil {
		c.codec = csvcodec.New(c.ids)
	}
	c.tracker = budget.NewTracker(c.clock)
	return c
}

// Load reads every collection from the store, replacing the in-memory state.
func (c *Coordinator) Load(ctx context.Context) error {
	var next Snapshot

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		txns, err := c.storage.ListTransactions(gctx)
		if err != nil {
			return fmt.Errorf("failed to load transactions: %w", err)
		}
		next.Transactions = ledger.Recent(txns, 0)
		return nil
	})
	g.Go(func() error {
		limits, err := c.storage.ListLimits(gctx)
		if err != nil {
			return fmt.Errorf("failed to load budget limits: %w", err)
		}
		slices.SortFunc(limits, func(a, b model.BudgetLimit) int { return strings.Compare(a.Category, b.Category) })
		next.Limits = limits
		return nil
	})
	g.Go(func() error {
		custom, err := c.storage.ListCustomCategories(gctx)
		if err != nil {
			return fmt.Errorf("failed to load custom categories: %w", err)
		}
		next.CustomCategories = custom
		return nil
	})
	g.Go(func() error {
		theme, err := c.storage.GetTheme(gctx)
		if err != nil {
			return fmt.Errorf("failed to load theme: %w", err)
		}
		next.Theme = theme
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	c.mu.Lock()
	c.state = next
	c.mu.Unlock()

	slog.Debug("Loaded ledger",
		"transactions", len(next.Transactions),
		"limits", len(next.Limits),
		"custom_categories", len(next.CustomCategories))
	return nil
}

// Snapshot returns a copy of the current in-memory state.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Transactions returns the transactions, newest first.
func (c *Coordinator) Transactions() []model.Transaction {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.state.Transactions)
}

// Transaction returns the transaction with the given ID.
func (c *Coordinator) Transaction(id string) (model.Transaction, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOfTransaction(id)
	if i < 0 {
		return model.Transaction{}, false
	}
	return c.state.Transactions[i], true
}

// Limits returns the budget limits.
func (c *Coordinator) Limits() []model.BudgetLimit {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.state.Limits)
}

// CustomCategories returns the user-defined categories.
func (c *Coordinator) CustomCategories() []model.CustomCategory {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.state.CustomCategories)
}

// Catalog returns a category catalog that includes the current custom categories.
func (c *Coordinator) Catalog() *model.Catalog {
	c.mu.Lock()
	defer c.mu.Unlock()
	return model.NewCatalog(c.state.CustomCategories)
}

// Theme returns the theme preference.
func (c *Coordinator) Theme() model.Theme {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Theme
}

// Summary computes the financial summary of all transactions.
func (c *Coordinator) Summary() model.FinancialSummary {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ledger.Summarize(c.state.Transactions)
}

// BudgetStatus evaluates every limit against the current month's spending.
func (c *Coordinator) BudgetStatus() []budget.LimitStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tracker.Status(c.state.Limits, c.state.Transactions)
}

// SaveTransaction adds a new transaction when draft.ID is empty and otherwise
// replaces the existing transaction with that ID. The entry is validated against
// the current balances before anything changes.
func (c *Coordinator) SaveTransaction(ctx context.Context, draft model.Transaction) (model.Transaction, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var existing *model.Transaction
	idx := -1
	if draft.ID != "" {
		idx = c.indexOfTransaction(draft.ID)
		if idx < 0 {
			return model.Transaction{}, fmt.Errorf("transaction %s: %w", draft.ID, common.ErrNotFound)
		}
		prev := c.state.Transactions[idx]
		existing = &prev
	}

	if err := model.ValidateEntry(draft, ledger.Summarize(c.state.Transactions), existing); err != nil {
		return model.Transaction{}, err
	}

	txn := draft
	if txn.ID == "" {
		txn.ID = c.ids.NewID()
	}

	err := c.apply(ctx, OpSaveTransaction, txn.ID, func() {
		if idx >= 0 {
			c.state.Transactions[idx] = txn
			return
		}
		c.state.Transactions = append([]model.Transaction{txn}, c.state.Transactions...)
	}, func(ctx context.Context) error {
		return c.storage.SaveTransaction(ctx, txn)
	})
	if err != nil {
		return model.Transaction{}, err
	}
	return txn, nil
}

// DeleteTransaction removes a transaction. Deleting an unknown ID is not an error.
func (c *Coordinator) DeleteTransaction(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.apply(ctx, OpDeleteTransaction, id, func() {
		c.state.Transactions = slices.DeleteFunc(c.state.Transactions, func(t model.Transaction) bool {
			return t.ID == id
		})
	}, func(ctx context.Context) error {
		return c.storage.DeleteTransaction(ctx, id)
	})
}

// SaveLimit sets the monthly limit of a category, replacing any existing limit.
func (c *Coordinator) SaveLimit(ctx context.Context, limit model.BudgetLimit) error {
	if err := limit.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.apply(ctx, OpSaveLimit, limit.Category, func() {
		for i, l := range c.state.Limits {
			if l.Category == limit.Category {
				c.state.Limits[i] = limit
				return
			}
		}
		c.state.Limits = append(c.state.Limits, limit)
	}, func(ctx context.Context) error {
		return c.storage.SaveLimit(ctx, limit)
	})
}

// DeleteLimit removes the limit of a category.
func (c *Coordinator) DeleteLimit(ctx context.Context, category string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.apply(ctx, OpDeleteLimit, category, func() {
		c.state.Limits = slices.DeleteFunc(c.state.Limits, func(l model.BudgetLimit) bool {
			return l.Category == category
		})
	}, func(ctx context.Context) error {
		return c.storage.DeleteLimit(ctx, category)
	})
}

// SaveCustomCategory adds a user-defined category. A missing ID is minted,
// a missing color gets the default and an unknown icon falls back to Star.
func (c *Coordinator) SaveCustomCategory(ctx context.Context, category model.CustomCategory) (model.CustomCategory, error) {
	category.Name = strings.TrimSpace(category.Name)
	if category.Name == "" {
		return model.CustomCategory{}, model.ErrMissingCategory
	}
	if !model.IsCustomIcon(category.IconKey) {
		category.IconKey = model.IconStar
	}
	if category.Color == "" {
		category.Color = model.DefaultCustomColor
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if category.ID == "" {
		category.ID = c.ids.NewID()
	}

	err := c.apply(ctx, OpSaveCustomCategory, category.Name, func() {
		c.state.CustomCategories = append(c.state.CustomCategories, category)
	}, func(ctx context.Context) error {
		return c.storage.SaveCustomCategory(ctx, category)
	})
	if err != nil {
		return model.CustomCategory{}, err
	}
	return category, nil
}

// SaveTheme stores the theme preference.
func (c *Coordinator) SaveTheme(ctx context.Context, theme model.Theme) error {
	if _, err := model.ParseTheme(string(theme)); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.apply(ctx, OpSaveTheme, string(theme), func() {
		c.state.Theme = theme
	}, func(ctx context.Context) error {
		return c.storage.SaveTheme(ctx, theme)
	})
}

// ClearAllData empties every collection. The store is reset first and the
// in-memory state is only cleared once that succeeded.
func (c *Coordinator) ClearAllData(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.storage.ResetAll(ctx); err != nil {
		return err
	}
	c.state = Snapshot{Theme: model.DefaultTheme}
	return nil
}

// ImportFromText stores the accepted rows of CSV text and prepends them, in
// file order, to the transactions. Rows stored before a failing row stay stored
// and are also added in memory.
func (c *Coordinator) ImportFromText(ctx context.Context, text string) (ImportSummary, error) {
	return c.ImportWithProgress(ctx, text, nil)
}

// ImportWithProgress is ImportFromText with a callback after each stored row.
func (c *Coordinator) ImportWithProgress(ctx context.Context, text string, onRow func(done, total int)) (ImportSummary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	importer := csvcodec.NewImporter(c.codec, c.storage)
	importer.OnRow = onRow

	res, err := importer.ImportString(ctx, text)
	if len(res.Imported) > 0 {
		c.state.Transactions = append(slices.Clone(res.Imported), c.state.Transactions...)
	}
	summary := ImportSummary{Imported: len(res.Imported), Skipped: res.Skipped}
	if err != nil {
		c.reconcile(Reconciliation{Op: OpImport, Key: fmt.Sprintf("row %d", summary.Imported+1), Err: err})
		return summary, err
	}
	return summary, nil
}

// MergeTransactions stores already-identified transactions, such as rows from
// a bank statement. A transaction whose ID is already known replaces it; new
// ones are prepended. It returns how many were new.
func (c *Coordinator) MergeTransactions(ctx context.Context, txns []model.Transaction) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	added := 0
	for _, txn := range txns {
		idx := c.indexOfTransaction(txn.ID)
		err := c.apply(ctx, OpImport, txn.ID, func() {
			if idx >= 0 {
				c.state.Transactions[idx] = txn
				return
			}
			c.state.Transactions = append([]model.Transaction{txn}, c.state.Transactions...)
		}, func(ctx context.Context) error {
			return c.storage.SaveTransaction(ctx, txn)
		})
		if err != nil {
			return added, err
		}
		if idx < 0 {
			added++
		}
	}
	return added, nil
}

// ExportToText renders all transactions, newest first, as CSV text.
func (c *Coordinator) ExportToText() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.codec.EncodeString(c.state.Transactions)
}

// Advice asks the advisor about the newest transactions. It never fails;
// problems are reported through the returned text.
func (c *Coordinator) Advice(ctx context.Context) string {
	c.mu.Lock()
	sample := ledger.Recent(c.state.Transactions, 0)
	c.mu.Unlock()

	if len(sample) == 0 {
		return NoTransactionsAdvice
	}
	if c.config.AdviceSampleSize > 0 && len(sample) > c.config.AdviceSampleSize {
		sample = sample[:c.config.AdviceSampleSize]
	}
	if c.advisor == nil {
		return UnavailableAdvice
	}

	text, err := c.advisor.Advise(ctx, sample)
	if err != nil {
		common.LogError(err, "Advisor request failed", common.Fields{"transactions": len(sample)})
		return UnavailableAdvice
	}
	if strings.TrimSpace(text) == "" {
		return EmptyAdvice
	}
	return text
}

// apply runs a two-phase write. Callers hold c.mu.
func (c *Coordinator) apply(ctx context.Context, op Op, key string, tentative func(), write func(context.Context) error) error {
	previous := c.state.clone()
	tentative()

	if err := write(ctx); err != nil {
		r := Reconciliation{Op: op, Key: key, Err: err, Previous: previous}
		if c.config.RollbackOnFailure {
			c.state = previous
			r.RolledBack = true
		}
		c.reconcile(r)
		return fmt.Errorf("%s %s: %w", op, key, err)
	}
	return nil
}

func (c *Coordinator) reconcile(r Reconciliation) {
	logReconciliation(r)
	if c.onFailure != nil {
		c.onFailure(r)
	}
}

func (c *Coordinator) indexOfTransaction(id string) int {
	return slices.IndexFunc(c.state.Transactions, func(t model.Transaction) bool {
		return t.ID == id
	})
}

func (s Snapshot) clone() Snapshot {
	return Snapshot{
		Theme:            s.Theme,
		Transactions:     slices.Clone(s.Transactions),
		Limits:           slices.Clone(s.Limits),
		CustomCategories: slices.Clone(s.CustomCategories),
	}
}
