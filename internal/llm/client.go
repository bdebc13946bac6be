package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/MoneNarendra/unibudget/internal/common"
)

// Client defines the interface for LLM providers.
type Client interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Request is a single-turn text generation request.
type Request struct {
	System string
	Prompt string
}

// Config holds provider settings.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	MaxRetries  int
	RetryDelay  time.Duration
	CacheTTL    time.Duration
	RateLimit   int
	Temperature float64
	MaxTokens   int
}

func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 60 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 2,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// statusError classifies a non-200 provider response for retry purposes.
// retryAfter is the raw Retry-After header, if any.
func statusError(provider string, status int, body []byte, retryAfter string) error {
	err := fmt.Errorf("%s API error (status %d): %s", provider, status, string(body))
	switch {
	case status == http.StatusTooManyRequests:
		return &common.RetryableError{
			Err:        fmt.Errorf("%w: %w", common.ErrRateLimit, err),
			Retryable:  true,
			RetryAfter: common.ParseRetryAfter(retryAfter),
		}
	case status >= 500:
		return &common.RetryableError{Err: err, Retryable: true, RetryAfter: common.ParseRetryAfter(retryAfter)}
	default:
		return err
	}
}
