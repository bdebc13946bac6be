// Package tui implements the read-only unibudget dashboard.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MoneNarendra/unibudget/internal/budget"
	"github.com/MoneNarendra/unibudget/internal/cli"
	"github.com/MoneNarendra/unibudget/internal/model"
)

// Source is the data the dashboard reads. *engine.Coordinator implements it.
type Source interface {
	Load(ctx context.Context) error
	Transactions() []model.Transaction
	Summary() model.FinancialSummary
	BudgetStatus() []budget.LimitStatus
	Catalog() *model.Catalog
	Theme() model.Theme
	Advice(ctx context.Context) string
}

// View is a dashboard tab.
type View int

// Dashboard tabs in display order.
const (
	ViewOverview View = iota
	ViewTransactions
	ViewBudgets
	ViewAdvice
)

var viewNames = []string{"Overview", "Transactions", "Budgets", "Advice"}

func (v View) String() string {
	if int(v) < len(viewNames) {
		return viewNames[v]
	}
	return "Unknown"
}

// Config configures the dashboard.
type Config struct {
	Source   Source
	Money    cli.Money
	Location *time.Location
	Now      func() time.Time
	Width    int
	Height   int
}

// Model holds the dashboard state.
type Model struct {
	lastLoaded time.Time
	source     Source
	now        func() time.Time
	location   *time.Location
	lastError  error
	money      cli.Money
	theme      Theme
	advice     string
	keymap     KeyMap
	help       help.Model
	table      table.Model
	bar        progress.Model
	spinner    spinner.Model
	width      int
	height     int
	view       View
	loading    bool
	advising   bool
	quitting   bool
}

// New creates a dashboard model.
func New(cfg Config) Model {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		source:   cfg.Source,
		money:    cfg.Money,
		now:      now,
		location: loc,
		keymap:   DefaultKeyMap(),
		help:     help.New(),
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithWidth(30), progress.WithoutPercentage()),
		spinner:  sp,
		loading:  true,
		width:    cfg.Width,
		height:   cfg.Height,
		theme:    ThemeFor(cfg.Source.Theme()),
		table: table.New(
			table.WithColumns(transactionColumns(cfg.Width)),
			table.WithFocused(true),
			table.WithHeight(tableHeight(cfg.Height)),
		),
	}
	m.refreshRows()
	return m
}

// Init starts the initial load.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.load(), m.spinner.Tick)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table.SetColumns(transactionColumns(msg.Width))
		m.table.SetHeight(tableHeight(msg.Height))
		return m, nil

	case loadedMsg:
		m.loading = false
		m.lastError = msg.err
		if msg.err == nil {
			m.lastLoaded = m.now()
			m.theme = ThemeFor(m.source.Theme())
			m.refreshRows()
		}
		return m, nil

	case adviceMsg:
		m.advising = false
		m.advice = msg.text
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keymap.NextView):
		m.view = (m.view + 1) % View(len(viewNames))
		return m, nil
	case key.Matches(msg, m.keymap.PrevView):
		m.view = (m.view + View(len(viewNames)) - 1) % View(len(viewNames))
		return m, nil
	case key.Matches(msg, m.keymap.Refresh):
		if m.loading {
			return m, nil
		}
		return m, m.load()
	case key.Matches(msg, m.keymap.Advice):
		if m.advising {
			return m, nil
		}
		m.view = ViewAdvice
		return m, m.requestAdvice()
	}

	if m.view == ViewTransactions {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) refreshRows() {
	txns := m.source.Transactions()
	rows := make([]table.Row, len(txns))
	for i, t := range txns {
		rows[i] = table.Row{
			t.Date.In(m.location).Format(cli.DateLayout),
			t.Category,
			string(t.Method),
			m.money.Signed(t),
			t.Note,
		}
	}
	m.table.SetRows(rows)
}

func transactionColumns(width int) []table.Column {
	note := 24
	if width > 90 {
		note = width - 66
	}
	return []table.Column{
		{Title: "Date", Width: 16},
		{Title: "Category", Width: 14},
		{Title: "Method", Width: 6},
		{Title: "Amount", Width: 14},
		{Title: "Note", Width: note},
	}
}

func tableHeight(height int) int {
	if height <= 0 {
		return 10
	}
	return max(3, height-8)
}
