package clientpool_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/maestro-org/tikvpool/clientpool"
)

var errClosedClient = errors.New("client is closed")

type testClient struct {
	closed atomic.Bool
	broken atomic.Bool
}

func (tc *testClient) Close() error {
	tc.closed.Store(true)
	return nil
}

// testManager opens testClients. Validate fails on closed clients, and
// HasBroken reports the broken flag.
type testManager struct {
	connects  atomic.Int32
	validates atomic.Int32

	// connectErr, when set, is called with the 1-based number of the connect
	// call and its result is returned by Connect.
	connectErr func(n int32) error
}

var _ clientpool.Manager[*testClient] = (*testManager)(nil)

func (m *testManager) Connect(ctx context.Context) (*testClient, error) {
	n := m.connects.Add(1)
	if m.connectErr != nil {
		if err := m.connectErr(n); err != nil {
			return nil, err
		}
	}
	return &testClient{}, nil
}

func (m *testManager) Validate(ctx context.Context, c *testClient) error {
	m.validates.Add(1)
	if c.closed.Load() {
		return errClosedClient
	}
	return nil
}

func (m *testManager) HasBroken(c *testClient) bool {
	return c.broken.Load()
}

func checkActiveAndAllocated[C any](t *testing.T, pool clientpool.Pool[C], expectedActive, expectedAllocated int) {
	t.Helper()

	active := pool.NumActiveClients()
	if active != int32(expectedActive) {
		t.Errorf(
			"pool.NumActiveClients() expected %d, got %d",
			expectedActive,
			active,
		)
	}

	allocated := pool.NumAllocated()
	if allocated != int32(expectedAllocated) {
		t.Errorf(
			"pool.NumAllocated() expected %d, got %d",
			expectedAllocated,
			allocated,
		)
	}
}
