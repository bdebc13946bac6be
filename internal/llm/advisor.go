package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/MoneNarendra/unibudget/internal/common"
	"github.com/MoneNarendra/unibudget/internal/model"
	"github.com/MoneNarendra/unibudget/internal/service"
)

// Advisor produces spending advice from recent transactions.
// It implements service.Advisor.
type Advisor struct {
	client      Client
	cache       *adviceCache
	rateLimiter *rateLimiter
	retryOpts   service.RetryOptions
}

var _ service.Advisor = (*Advisor)(nil)

// NewAdvisor creates an advisor backed by the configured provider.
func NewAdvisor(ctx context.Context, cfg Config) (*Advisor, error) {
	client, err := NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewAdvisorWithClient(client, cfg), nil
}

// NewAdvisorWithClient wraps an existing client. Retry, cache and rate limit
// settings are taken from cfg.
func NewAdvisorWithClient(client Client, cfg Config) *Advisor {
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	retryDelay := cfg.RetryDelay
	if retryDelay <= 0 {
		retryDelay = time.Second
	}

	return &Advisor{
		client:      client,
		cache:       newAdviceCache(cfg.CacheTTL),
		rateLimiter: newRateLimiter(cfg.RateLimit),
		retryOpts: service.RetryOptions{
			MaxAttempts:  maxRetries,
			InitialDelay: retryDelay,
			MaxDelay:     retryDelay * 8,
			Multiplier:   2.0,
		},
	}
}

// Advise asks the model for tips on txns. Identical requests inside the
// cache TTL are served from the cache.
func (a *Advisor) Advise(ctx context.Context, txns []model.Transaction) (string, error) {
	req, err := BuildPrompt(txns)
	if err != nil {
		return "", err
	}

	key := cacheKey(req)
	if advice, ok := a.cache.get(key); ok {
		slog.Debug("Using cached advice", "transactions", len(txns))
		return advice, nil
	}

	var advice string
	err = common.WithRetry(ctx, func() error {
		if waitErr := a.rateLimiter.wait(ctx); waitErr != nil {
			return waitErr
		}
		var genErr error
		advice, genErr = a.client.Generate(ctx, req)
		return genErr
	}, a.retryOpts)
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrAdvisorUnavailable, err)
	}

	if advice != "" {
		a.cache.set(key, advice)
	}
	return advice, nil
}
