package util

import (
	"context"
	"errors"
	"time"

	"alexasensors2mqtt/pkg/alexasmarthome"
)

// Retry runs fn with exponential backoff: the delay doubles after every
// failed attempt. A reauth error short-circuits immediately since retrying
// a dead session can only fail again.
func Retry[T any](ctx context.Context, attempts uint, delay time.Duration, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	var err error
	for attempt := uint(0); attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(delay << (attempt - 1)):
			}
		}
		var value T
		value, err = fn(ctx)
		if err == nil {
			return value, nil
		}
		if errors.Is(err, alexasmarthome.ErrReauthRequired) {
			return zero, err
		}
	}
	return zero, err
}
