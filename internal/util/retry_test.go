package util

import (
	"context"
	"errors"
	"testing"
	"time"

	"alexasensors2mqtt/pkg/alexasmarthome"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetrySucceedsAfterFailures(t *testing.T) {
	calls := 0
	value, err := Retry(context.Background(), 5, time.Millisecond, func(context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.New("transient")
		}
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, value)
	assert.Equal(t, 3, calls)
}

func TestRetryExhaustsAttempts(t *testing.T) {
	calls := 0
	_, err := Retry(context.Background(), 3, time.Millisecond, func(context.Context) (int, error) {
		calls++
		return 0, errors.New("still broken")
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryShortCircuitsOnReauth(t *testing.T) {
	calls := 0
	_, err := Retry(context.Background(), 5, time.Millisecond, func(context.Context) (int, error) {
		calls++
		return 0, alexasmarthome.ErrReauthRequired
	})
	require.ErrorIs(t, err, alexasmarthome.ErrReauthRequired)
	assert.Equal(t, 1, calls)
}

func TestRetryHonorsContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Retry(ctx, 3, time.Minute, func(context.Context) (int, error) {
		return 0, errors.New("transient")
	})
	require.ErrorIs(t, err, context.Canceled)
}
