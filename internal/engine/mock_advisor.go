package engine

import (
	"context"
	"sync"

	"github.com/MoneNarendra/unibudget/internal/model"
)

// MockAdvisor is a test implementation of service.Advisor.
// It returns a fixed reply and records every request.
type MockAdvisor struct {
	Err   error
	Reply string
	calls [][]model.Transaction
	mu    sync.Mutex
}

// Advise records txns and returns the configured reply or error.
func (m *MockAdvisor) Advise(_ context.Context, txns []model.Transaction) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, txns)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Reply, nil
}

// Calls returns the transactions passed to each Advise call.
func (m *MockAdvisor) Calls() [][]model.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]model.Transaction, len(m.calls))
	copy(out, m.calls)
	return out
}
