package clientpool

import (
	"context"
	"io"
)

// Manager creates and checks the connections of a Pool.
//
// Implementations must be safe for concurrent use. The pool guarantees that a
// connection handed to Validate or HasBroken is not used anywhere else during
// that call.
type Manager[C any] interface {
	// Connect opens a new connection.
	Connect(ctx context.Context) (C, error)

	// Validate checks that a pooled connection is still usable before handing
	// it out again. A non-nil error causes the pool to discard c.
	Validate(ctx context.Context, c C) error

	// HasBroken reports whether c is known to be unusable without doing any
	// I/O. It is called when a connection is released back to the pool.
	HasBroken(c C) bool
}

// Pool defines the generic connection pool interface.
type Pool[C any] interface {
	io.Closer

	// Get checks out a connection, waiting for a free slot when
	// MaxConnections connections are already checked out.
	Get(ctx context.Context) (C, error)

	// Release returns a connection got from Get back to the pool.
	Release(c C) error

	NumActiveClients() int32
	NumAllocated() int32
	IsExhausted() bool
}

// closeConn closes c if it implements io.Closer.
func closeConn(c any) error {
	if closer, ok := c.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
