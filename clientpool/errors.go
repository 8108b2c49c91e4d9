package clientpool

import (
	"errors"
	"fmt"
)

var (
	// ErrExhausted is the error returned by Get when ctx is done before a
	// connection slot becomes available.
	ErrExhausted = errors.New("clientpool: pool exhausted")

	// ErrClosed is the error returned by Get after Close.
	ErrClosed = errors.New("clientpool: pool closed")

	// ErrNotCheckedOut is the error returned by Release for a connection that
	// is not currently checked out from the pool.
	ErrNotCheckedOut = errors.New("clientpool: released connection was not checked out")
)

// ConfigError is the error type returned when trying to open a new client
// pool, but the configuration values passed in won't work.
type ConfigError struct {
	MinConnections int
	MaxConnections int
}

var _ error = (*ConfigError)(nil)

func (e *ConfigError) Error() string {
	if e.MaxConnections <= 0 {
		return fmt.Sprintf(
			"clientpool: maxConnections (%d) must be positive",
			e.MaxConnections,
		)
	}
	return fmt.Sprintf(
		"clientpool: minConnections (%d) > maxConnections (%d)",
		e.MinConnections,
		e.MaxConnections,
	)
}
