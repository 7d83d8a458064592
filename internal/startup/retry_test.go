package startup

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reeltv/reeltv/internal/metadata/tmdb"
	"github.com/reeltv/reeltv/internal/testutil"
)

func fastRetry() RetryConfig {
	return RetryConfig{InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, MaxAttempts: 3, Multiplier: 2}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"dns", &net.DNSError{Err: "no such host", Name: "api.themoviedb.org"}, true},
		{"refused", errors.New("dial tcp 127.0.0.1:443: connect: connection refused"), true},
		{"rate limited", fmt.Errorf("list: %w", tmdb.ErrRateLimited), true},
		{"bad key", fmt.Errorf("%w: invalid API key", tmdb.ErrAPIError), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestWithRetry_SucceedsAfterNetworkErrors(t *testing.T) {
	attempts := 0
	err := WithRetry(context.Background(), "op", fastRetry(), func(context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("i/o timeout")
		}
		return nil
	}, testutil.NopLogger())

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestWithRetry_StopsOnPermanentError(t *testing.T) {
	attempts := 0
	err := WithRetry(context.Background(), "op", fastRetry(), func(context.Context) error {
		attempts++
		return tmdb.ErrAPIKeyMissing
	}, testutil.NopLogger())

	assert.ErrorIs(t, err, tmdb.ErrAPIKeyMissing)
	assert.Equal(t, 1, attempts)
}

func TestWithRetry_GivesUp(t *testing.T) {
	attempts := 0
	err := WithRetry(context.Background(), "op", fastRetry(), func(context.Context) error {
		attempts++
		return tmdb.ErrRateLimited
	}, testutil.NopLogger())

	assert.ErrorIs(t, err, tmdb.ErrRateLimited)
	assert.Equal(t, 3, attempts)
}

func TestWithRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := fastRetry()
	cfg.InitialDelay = time.Hour

	err := WithRetry(ctx, "op", cfg, func(context.Context) error {
		cancel()
		return errors.New("connection reset by peer")
	}, testutil.NopLogger())
	assert.ErrorIs(t, err, context.Canceled)
}

type fakeRemote struct{ err error }

func (f fakeRemote) Name() string { return "tmdb" }
func (f fakeRemote) Test(ctx context.Context) error { return f.err }

func TestCheckRemote(t *testing.T) {
	assert.NoError(t, CheckRemote(context.Background(), fakeRemote{}, fastRetry(), testutil.NopLogger()))
	assert.Error(t, CheckRemote(context.Background(), fakeRemote{err: tmdb.ErrAPIKeyMissing}, fastRetry(), testutil.NopLogger()))
}
