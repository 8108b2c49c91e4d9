package clientpool_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/maestro-org/tikvpool/clientpool"
)

type session struct {
	id     int
	failed bool
}

// sessionManager is a Manager for sessions. Real managers open network
// connections in Connect and do a round trip in Validate.
type sessionManager struct {
	opened int
}

func (m *sessionManager) Connect(ctx context.Context) (*session, error) {
	m.opened++
	return &session{id: m.opened}, nil
}

func (m *sessionManager) Validate(ctx context.Context, s *session) error {
	if s.failed {
		return errors.New("session failed")
	}
	return nil
}

func (m *sessionManager) HasBroken(s *session) bool {
	return s.failed
}

// This example demonstrates how a Manager drives a pool.
func ExampleNewChannelPool() {
	ctx := context.Background()
	pool, err := clientpool.NewChannelPool[*session](
		ctx,
		clientpool.Config{
			Name:           "sessions",
			MinConnections: 1,
			MaxConnections: 4,
		},
		&sessionManager{},
	)
	if err != nil {
		panic(err)
	}
	defer pool.Close()

	s, err := pool.Get(ctx)
	if err != nil {
		panic(err)
	}
	fmt.Println(s.id)
	pool.Release(s)

	// Idle sessions are reused.
	s, _ = pool.Get(ctx)
	fmt.Println(s.id)

	// Broken sessions are dropped on Release.
	s.failed = true
	pool.Release(s)
	s, _ = pool.Get(ctx)
	fmt.Println(s.id)
	pool.Release(s)

	// Output:
	// 1
	// 1
	// 2
}
