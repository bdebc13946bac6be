package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/MoneNarendra/unibudget/internal/cli"
	"github.com/MoneNarendra/unibudget/internal/ledger"
)

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{m.renderTabs()}
	if m.lastError != nil {
		sections = append(sections, m.theme.Error.Render("Failed to load data: "+m.lastError.Error()))
	}

	switch m.view {
	case ViewOverview:
		sections = append(sections, m.renderOverview())
	case ViewTransactions:
		sections = append(sections, m.table.View())
	case ViewBudgets:
		sections = append(sections, m.renderBudgets())
	case ViewAdvice:
		sections = append(sections, m.renderAdvice())
	}

	sections = append(sections, m.renderStatus(), m.help.View(m.keymap))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderTabs() string {
	tabs := make([]string, len(viewNames))
	for i, name := range viewNames {
		if View(i) == m.view {
			tabs[i] = m.theme.ActiveTab.Render(name)
		} else {
			tabs[i] = m.theme.InactiveTab.Render(name)
		}
	}
	title := m.theme.Title.Render(cli.WalletIcon + " unibudget")
	return lipgloss.JoinHorizontal(lipgloss.Center, append([]string{title}, tabs...)...)
}

func (m Model) renderOverview() string {
	s := m.source.Summary()
	balances := strings.Join([]string{
		m.theme.Title.Render("Balance"),
		"Total   " + m.money.Format(s.TotalBalance),
		"Cash    " + m.money.Format(s.CashBalance),
		"Card    " + m.money.Format(s.CardBalance),
		"Income  " + m.theme.Income.Render(m.money.Format(s.TotalIncome)),
		"Expense " + m.theme.Expense.Render(m.money.Format(s.TotalExpense)),
	}, "\n")

	now := m.now().In(m.location)
	stats := ledger.MonthlyStats(m.source.Transactions(), now.Year(), now.Month(), m.location)
	month := strings.Join([]string{
		m.theme.Title.Render(now.Format("January 2006")),
		fmt.Sprintf("Transactions %d", stats.Count),
		"Income  " + m.theme.Income.Render(m.money.Format(stats.Income)),
		"Expense " + m.theme.Expense.Render(m.money.Format(stats.Expense)),
		"Net     " + m.money.Format(stats.Net),
	}, "\n")

	top := []string{m.theme.Title.Render("Top spending")}
	breakdown := ledger.CategoryBreakdown(m.source.Transactions(), ledger.Month(now.Year(), now.Month(), m.location))
	for i, c := range breakdown {
		if i == 5 {
			break
		}
		color := m.source.Catalog().Resolve(c.Category).Color
		top = append(top, fmt.Sprintf("%s %-12s %s", cli.CategorySwatch(color), c.Category, m.money.Format(c.Total)))
	}
	if len(breakdown) == 0 {
		top = append(top, m.theme.Subtle.Render("No spending this month"))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		m.theme.Box.Render(balances),
		m.theme.Box.Render(month),
		m.theme.Box.Render(strings.Join(top, "\n")),
	)
}

func (m Model) renderBudgets() string {
	statuses := m.source.BudgetStatus()
	if len(statuses) == 0 {
		return m.theme.Subtle.Render("No budget limits set. Use 'unibudget limits set' to add one.")
	}

	lines := make([]string, 0, len(statuses))
	for _, s := range statuses {
		remaining := m.money.Format(s.Remaining) + " left"
		if s.IsOver {
			remaining = m.theme.Error.Render(m.money.Format(s.Remaining.Neg()) + " over")
		}
		lines = append(lines, fmt.Sprintf("%-14s %s %s / %s  %s",
			s.Limit.Category,
			m.bar.ViewAs(s.Progress),
			m.money.Format(s.Spent),
			m.money.Format(s.Limit.Limit),
			remaining))
	}
	return m.theme.Box.Render(strings.Join(lines, "\n"))
}

func (m Model) renderAdvice() string {
	switch {
	case m.advising:
		return m.spinner.View() + " Thinking about your spending..."
	case m.advice == "":
		return m.theme.Subtle.Render("Press 'a' to get tips based on your recent transactions.")
	}

	width := m.width - 4
	rendered, err := cli.RenderMarkdown(m.advice, m.source.Theme(), width)
	if err != nil {
		return m.advice
	}
	return rendered
}

func (m Model) renderStatus() string {
	if m.loading {
		return m.spinner.View() + " Loading..."
	}
	if m.lastLoaded.IsZero() {
		return ""
	}
	return m.theme.Subtle.Render(fmt.Sprintf("%d transactions · updated %s",
		len(m.source.Transactions()), m.lastLoaded.In(m.location).Format("15:04:05")))
}
