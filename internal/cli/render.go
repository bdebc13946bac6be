package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MoneNarendra/unibudget/internal/budget"
	"github.com/MoneNarendra/unibudget/internal/ledger"
	"github.com/MoneNarendra/unibudget/internal/model"
)

// DateLayout is used for dates in tables.
const DateLayout = "2006-01-02 15:04"

// Renderer writes tables for the ledger collections.
type Renderer struct {
	out     io.Writer
	money   Money
	catalog *model.Catalog
	loc     *time.Location
}

// NewRenderer creates a renderer. catalog may be nil.
func NewRenderer(out io.Writer, m Money, catalog *model.Catalog) *Renderer {
	return &Renderer{out: out, money: m, catalog: catalog, loc: time.Local}
}

// In sets the location dates are shown in.
func (r *Renderer) In(loc *time.Location) *Renderer {
	if loc != nil {
		r.loc = loc
	}
	return r
}

func (r *Renderer) table() *tabwriter.Writer {
	return tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
}

func header(cols ...string) string {
	styled := make([]string, len(cols))
	for i, c := range cols {
		styled[i] = TableHeaderStyle.Render(c)
	}
	return strings.Join(styled, "\t")
}

// Transactions lists txns in the given order.
func (r *Renderer) Transactions(txns []model.Transaction) error {
	if len(txns) == 0 {
		_, err := fmt.Fprintln(r.out, InfoStyle.Render("No transactions yet. Use 'unibudget add' to record one."))
		return err
	}

	w := r.table()
	fmt.Fprintln(w, header("ID", "Date", "Category", "Method", "Amount", "Note"))
	for _, t := range txns {
		info := r.catalog.Resolve(t.Category)
		fmt.Fprintf(w, "%s\t%s\t%s %s\t%s\t%s\t%s\n",
			SubtleStyle.Render(shortID(t.ID)),
			t.Date.In(r.loc).Format(DateLayout),
			CategorySwatch(info.Color), t.Category,
			t.Method,
			r.money.Styled(t),
			t.Note)
	}
	return w.Flush()
}

// Summary renders the balance box.
func (r *Renderer) Summary(s model.FinancialSummary) error {
	lines := []string{
		fmt.Sprintf("Total balance  %s", BoldStyle.Render(r.money.Format(s.TotalBalance))),
		fmt.Sprintf("Cash           %s", r.money.Format(s.CashBalance)),
		fmt.Sprintf("Card           %s", r.money.Format(s.CardBalance)),
		fmt.Sprintf("Income         %s", IncomeStyle.Render(r.money.Format(s.TotalIncome))),
		fmt.Sprintf("Expense        %s", ExpenseStyle.Render(r.money.Format(s.TotalExpense))),
	}
	_, err := fmt.Fprintln(r.out, RenderBox(WalletIcon+" Summary", strings.Join(lines, "\n")))
	return err
}

// Limits renders budget progress for the current month.
func (r *Renderer) Limits(statuses []budget.LimitStatus) error {
	if len(statuses) == 0 {
		_, err := fmt.Fprintln(r.out, InfoStyle.Render("No budget limits set. Use 'unibudget limits set' to add one."))
		return err
	}

	w := r.table()
	fmt.Fprintln(w, header("Category", "Spent", "Limit", "Remaining", "Progress"))
	for _, s := range statuses {
		remaining := r.money.Format(s.Remaining)
		if s.IsOver {
			remaining = ErrorStyle.Render(remaining + " over")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			s.Limit.Category,
			r.money.Format(s.Spent),
			r.money.Format(s.Limit.Limit),
			remaining,
			limitBar(s))
	}
	return w.Flush()
}

// Categories renders the built-in and custom categories.
func (r *Renderer) Categories(custom []model.CustomCategory) error {
	w := r.table()
	fmt.Fprintln(w, header("", "Name", "Icon", "Kind"))
	for _, b := range model.BuiltinCategories() {
		kind := "expense"
		if b.Income {
			kind = "income"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", CategorySwatch(b.Color), b.Name, b.IconKey, kind)
	}
	for _, c := range custom {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", CategorySwatch(c.Color), c.Name, c.IconKey, "custom")
	}
	return w.Flush()
}

// MonthStats renders one month of analytics with its category breakdown.
func (r *Renderer) MonthStats(title string, stats ledger.MonthStats, breakdown []ledger.CategoryTotal) error {
	lines := []string{
		fmt.Sprintf("Transactions  %d", stats.Count),
		fmt.Sprintf("Income        %s", IncomeStyle.Render(r.money.Format(stats.Income))),
		fmt.Sprintf("Expense       %s", ExpenseStyle.Render(r.money.Format(stats.Expense))),
		fmt.Sprintf("Net           %s", BoldStyle.Render(r.money.Format(stats.Net))),
		fmt.Sprintf("Cash flow     %s", r.money.Format(stats.CashFlow)),
		fmt.Sprintf("Card flow     %s", r.money.Format(stats.CardFlow)),
	}
	if _, err := fmt.Fprintln(r.out, RenderBox(ChartIcon+" "+title, strings.Join(lines, "\n"))); err != nil {
		return err
	}
	if len(breakdown) == 0 {
		return nil
	}

	w := r.table()
	fmt.Fprintln(w, header("Category", "Spent", "Share"))
	for _, c := range breakdown {
		share := 0.0
		if stats.Expense.IsPositive() {
			share, _ = c.Total.Div(stats.Expense).Float64()
		}
		fmt.Fprintf(w, "%s %s\t%s\t%s\n",
			CategorySwatch(r.catalog.Resolve(c.Category).Color), c.Category,
			r.money.Format(c.Total),
			ProgressBar(share, 20))
	}
	return w.Flush()
}

// ProgressBar draws a fixed-width text bar for a 0..1 ratio, clamped.
func ProgressBar(ratio float64, width int) string {
	if ratio < 0 {
		ratio = 0
	}
	over := ratio > 1
	if over {
		ratio = 1
	}
	filled := int(decimal.NewFromFloat(ratio * float64(width)).Round(0).IntPart())
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	if over {
		return ErrorStyle.Render(bar)
	}
	return bar
}

func limitBar(s budget.LimitStatus) string {
	bar := ProgressBar(s.Progress, 20)
	if s.IsOver {
		return ErrorStyle.Render(bar)
	}
	return bar
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
