package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MoneNarendra/unibudget/internal/model"
)

// MonthStats holds the flows of one calendar month.
type MonthStats struct {
	Income   decimal.Decimal
	Expense  decimal.Decimal
	Net      decimal.Decimal
	CashFlow decimal.Decimal
	CardFlow decimal.Decimal
	Count    int
}

// CategoryTotal is the expense total of one category.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

// DayTotal is the income and expense of one day of a month.
type DayTotal struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Day     int
}

// Period is a half-open time range [Start, End).
type Period struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the period.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// MonthOf returns the calendar month containing t, in t's location.
func MonthOf(t time.Time) Period {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return Period{Start: start, End: start.AddDate(0, 1, 0)}
}

// Month returns the calendar month year/month in loc.
func Month(year int, month time.Month, loc *time.Location) Period {
	return MonthOf(time.Date(year, month, 1, 0, 0, 0, 0, loc))
}

// WeekOf returns the Monday-to-Sunday week containing t, in t's location.
func WeekOf(t time.Time) Period {
	offset := (int(t.Weekday()) + 6) % 7
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	start := day.AddDate(0, 0, -offset)
	return Period{Start: start, End: start.AddDate(0, 0, 7)}
}

// InRange returns the transactions dated inside p, newest first.
func InRange(txns []model.Transaction, p Period) []model.Transaction {
	var out []model.Transaction
	for _, t := range txns {
		if p.Contains(t.Date) {
			out = append(out, t)
		}
	}
	sortNewestFirst(out)
	return out
}

// Recent returns up to n transactions, newest first. n <= 0 returns all of them.
func Recent(txns []model.Transaction, n int) []model.Transaction {
	out := make([]model.Transaction, len(txns))
	copy(out, txns)
	sortNewestFirst(out)
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func sortNewestFirst(txns []model.Transaction) {
	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].Date.After(txns[j].Date)
	})
}

// Stats computes the flows of the transactions dated inside p.
func Stats(txns []model.Transaction, p Period) MonthStats {
	stats := MonthStats{
		Income:   decimal.Zero,
		Expense:  decimal.Zero,
		CashFlow: decimal.Zero,
		CardFlow: decimal.Zero,
	}

	for _, t := range txns {
		if !p.Contains(t.Date) {
			continue
		}
		stats.Count++

		signed := t.Amount
		if t.Type == model.TypeIncome {
			stats.Income = stats.Income.Add(t.Amount)
		} else {
			stats.Expense = stats.Expense.Add(t.Amount)
			signed = t.Amount.Neg()
		}
		if t.Method == model.MethodCash {
			stats.CashFlow = stats.CashFlow.Add(signed)
		} else {
			stats.CardFlow = stats.CardFlow.Add(signed)
		}
	}

	stats.Net = stats.Income.Sub(stats.Expense)
	return stats
}

// MonthlyStats computes the flows of one calendar month in loc.
func MonthlyStats(txns []model.Transaction, year int, month time.Month, loc *time.Location) MonthStats {
	return Stats(txns, Month(year, month, loc))
}

// CategoryBreakdown totals expenses inside p by category, largest first.
// Ties are ordered by category name.
func CategoryBreakdown(txns []model.Transaction, p Period) []CategoryTotal {
	totals := make(map[string]decimal.Decimal)
	for _, t := range txns {
		if t.Type != model.TypeExpense || !p.Contains(t.Date) {
			continue
		}
		totals[t.Category] = totals[t.Category].Add(t.Amount)
	}

	out := make([]CategoryTotal, 0, len(totals))
	for cat, total := range totals {
		out = append(out, CategoryTotal{Category: cat, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// DailyTotals returns one entry per day of the month with that day's income and expense.
func DailyTotals(txns []model.Transaction, year int, month time.Month, loc *time.Location) []DayTotal {
	p := Month(year, month, loc)
	days := p.End.AddDate(0, 0, -1).Day()

	out := make([]DayTotal, days)
	for i := range out {
		out[i] = DayTotal{Day: i + 1, Income: decimal.Zero, Expense: decimal.Zero}
	}

	for _, t := range txns {
		if !p.Contains(t.Date) {
			continue
		}
		d := &out[t.Date.In(loc).Day()-1]
		if t.Type == model.TypeIncome {
			d.Income = d.Income.Add(t.Amount)
		} else {
			d.Expense = d.Expense.Add(t.Amount)
		}
	}
	return out
}
