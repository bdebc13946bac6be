package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type loadedMsg struct {
	err error
}

type adviceMsg struct {
	text string
}

func (m *Model) load() tea.Cmd {
	m.loading = true
	source := m.source
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return loadedMsg{err: source.Load(ctx)}
	}
}

func (m *Model) requestAdvice() tea.Cmd {
	m.advising = true
	source := m.source
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		return adviceMsg{text: source.Advice(ctx)}
	}
}
