package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MoneNarendra/unibudget/internal/common"
	"github.com/MoneNarendra/unibudget/internal/model"
	"github.com/MoneNarendra/unibudget/internal/testutil"
)

type scriptedClient struct {
	errs    []error
	reply   string
	prompts []Request
	mu      sync.Mutex
}

func (s *scriptedClient) Generate(_ context.Context, req Request) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, req)
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		return "", err
	}
	return s.reply, nil
}

func testConfig() Config {
	return Config{MaxRetries: 3, RetryDelay: time.Millisecond, RateLimit: 600}
}

func adviceSample() []model.Transaction {
	day := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	return []model.Transaction{
		testutil.Txn("1", "120.50", model.TypeExpense, model.MethodCash, "Food", day),
		testutil.Txn("2", "5000", model.TypeIncome, model.MethodCard, "Scholarship", day),
	}
}

func TestAdvisor_CachesIdenticalRequests(t *testing.T) {
	client := &scriptedClient{reply: "- cook more 🍳"}
	advisor := NewAdvisorWithClient(client, testConfig())

	first, err := advisor.Advise(context.Background(), adviceSample())
	require.NoError(t, err)
	second, err := advisor.Advise(context.Background(), adviceSample())
	require.NoError(t, err)

	assert.Equal(t, "- cook more 🍳", first)
	assert.Equal(t, first, second)
	assert.Len(t, client.prompts, 1)
	assert.Equal(t, 1, advisor.cache.size())
}

func TestAdvisor_RetriesTransientErrors(t *testing.T) {
	client := &scriptedClient{
		reply: "ok",
		errs:  []error{&common.RetryableError{Err: errors.New("502"), Retryable: true}},
	}
	advisor := NewAdvisorWithClient(client, testConfig())

	got, err := advisor.Advise(context.Background(), adviceSample())
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Len(t, client.prompts, 2)
}

func TestAdvisor_PermanentErrorIsUnavailable(t *testing.T) {
	client := &scriptedClient{errs: []error{errors.New("invalid api key")}}
	advisor := NewAdvisorWithClient(client, testConfig())

	_, err := advisor.Advise(context.Background(), adviceSample())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrAdvisorUnavailable)
	assert.Len(t, client.prompts, 1, "non-retryable errors are not retried")
	assert.Zero(t, advisor.cache.size())
}

func TestBuildPrompt(t *testing.T) {
	req, err := BuildPrompt(adviceSample())
	require.NoError(t, err)

	assert.Equal(t, systemPrompt, req.System)
	assert.Contains(t, req.Prompt, "₹")
	assert.Contains(t, req.Prompt, "3 short")

	start := strings.Index(req.Prompt, "[")
	end := strings.LastIndex(req.Prompt, "]")
	require.True(t, start >= 0 && end > start)

	var rows []map[string]string
	require.NoError(t, json.Unmarshal([]byte(req.Prompt[start:end+1]), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, map[string]string{
		"date": "2024-01-15", "type": "EXPENSE", "amount": "120.5", "category": "Food", "method": "CASH",
	}, rows[0])
}

func TestAdviceCache_Expires(t *testing.T) {
	c := newAdviceCache(time.Minute)
	now := time.Now()
	c.now = func() time.Time { return now }

	c.set("k", "v")
	got, ok := c.get("k")
	require.True(t, ok)
	assert.Equal(t, "v", got)

	now = now.Add(2 * time.Minute)
	_, ok = c.get("k")
	assert.False(t, ok)

	c.set("other", "x")
	assert.Equal(t, 1, c.size(), "expired entries are evicted on write")
}
