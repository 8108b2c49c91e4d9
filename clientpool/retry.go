package clientpool

import (
	"context"
	"errors"

	"github.com/sony/gobreaker"
)

// shouldRetryConnect is the retry.RetryIf filter for Manager.Connect.
//
// Context errors and breaker rejections are final.
func shouldRetryConnect(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return false
	}
	return true
}
