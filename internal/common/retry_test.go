package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MoneNarendra/unibudget/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry() service.RetryOptions {
	return service.RetryOptions{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     2 * time.Millisecond,
		Multiplier:   2,
	}
}

func TestWithRetry(t *testing.T) {
	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			if calls < 3 {
				return &RetryableError{Err: errors.New("503"), Retryable: true}
			}
			return nil
		}, fastRetry())
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("stops on non-retryable error", func(t *testing.T) {
		calls := 0
		boom := errors.New("bad request")
		err := WithRetry(context.Background(), func() error {
			calls++
			return boom
		}, fastRetry())
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, calls)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			return ErrRateLimit
		}, fastRetry())
		assert.ErrorIs(t, err, ErrMaxRetries)
		assert.ErrorIs(t, err, ErrRateLimit, "last error stays in the chain")
		assert.Equal(t, 3, calls)
	})

	t.Run("does not call operation when already canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		calls := 0
		err := WithRetry(ctx, func() error {
			calls++
			return nil
		}, fastRetry())
		assert.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, calls)
	})

	t.Run("honors cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		opts := fastRetry()
		opts.InitialDelay = time.Hour
		opts.MaxDelay = time.Hour
		err := WithRetry(ctx, func() error {
			return &RetryableError{Err: errors.New("timeout"), Retryable: true}
		}, opts)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestNextDelay(t *testing.T) {
	maxDelay := 10 * time.Second
	plain := &RetryableError{Err: errors.New("502"), Retryable: true}
	asked := &RetryableError{Err: ErrRateLimit, Retryable: true, RetryAfter: 3 * time.Second}
	greedy := &RetryableError{Err: ErrRateLimit, Retryable: true, RetryAfter: time.Minute}

	assert.Equal(t, time.Second, nextDelay(plain, time.Second, maxDelay))
	assert.Equal(t, maxDelay, nextDelay(plain, time.Hour, maxDelay))
	assert.Equal(t, 3*time.Second, nextDelay(asked, time.Second, maxDelay))
	assert.Equal(t, maxDelay, nextDelay(greedy, time.Second, maxDelay))
	assert.Equal(t, maxDelay, nextDelay(ErrRateLimit, time.Second, maxDelay))
}

func TestParseRetryAfter(t *testing.T) {
	assert.Equal(t, 7*time.Second, ParseRetryAfter(" 7 "))
	assert.Zero(t, ParseRetryAfter(""))
	assert.Zero(t, ParseRetryAfter("-1"))
	assert.Zero(t, ParseRetryAfter("Wed, 21 Oct 2015 07:28:00 GMT"))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(ErrRateLimit))
	assert.True(t, IsRetryable(context.DeadlineExceeded))
	assert.False(t, IsRetryable(context.Canceled))
	assert.False(t, IsRetryable(errors.New("plain")))
	assert.False(t, IsRetryable(&RetryableError{Err: errors.New("x"), Retryable: false}))
}

func TestUserError(t *testing.T) {
	err := NewUserError("Could not open the ledger", ErrStoreUnavailable)
	assert.Equal(t, "Could not open the ledger: store unavailable", err.Error())
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	var userErr *UserError
	require.ErrorAs(t, err, &userErr)
	assert.Equal(t, "Could not open the ledger", userErr.UserMessage)
}
