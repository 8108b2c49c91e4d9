package clientpool

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/avast/retry-go"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"
	"golang.org/x/sync/semaphore"

	"github.com/maestro-org/tikvpool/log"
)

type channelPool[C comparable] struct {
	pool    chan C
	manager Manager[C]
	slots   *semaphore.Weighted
	breaker *connectBreaker

	cfg       Config
	name      string
	numActive atomic.Int32

	// checkedOut holds the connections currently given out by Get.
	checkedOutMu sync.Mutex
	checkedOut   map[C]struct{}

	// closeMu guards closed against connections being put back into pool
	// while Close drains it.
	closeMu sync.RWMutex
	closed  atomic.Bool

	activeGauge prometheus.Gauge
	idleGauge   prometheus.Gauge
}

// Make sure channelPool implements Pool interface.
var _ Pool[io.Closer] = (*channelPool[io.Closer])(nil)

// NewChannelPool creates a new connection pool implemented via channel.
//
// cfg.MinConnections connections are opened before returning. If any of them
// fails to open, the ones already opened are closed and the connect error is
// returned.
//
// C must be comparable so that the pool can tell connections apart. Values
// with non-comparable dynamic types behind an interface C cause a panic.
func NewChannelPool[C comparable](ctx context.Context, cfg Config, manager Manager[C]) (Pool[C], error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	name := cfg.name()
	cp := &channelPool[C]{
		pool:        make(chan C, cfg.MaxConnections),
		manager:     manager,
		slots:       semaphore.NewWeighted(int64(cfg.MaxConnections)),
		checkedOut:  make(map[C]struct{}, cfg.MaxConnections),
		cfg:         cfg,
		name:        name,
		activeGauge: activeGauge.With(prometheus.Labels{poolLabel: name}),
		idleGauge:   idleGauge.With(prometheus.Labels{poolLabel: name}),
	}
	if cfg.Breaker != nil {
		cp.breaker = newConnectBreaker(name, *cfg.Breaker)
	}

	for i := 0; i < cfg.MinConnections; i++ {
		c, err := cp.open(ctx)
		if err != nil {
			return nil, multierr.Append(err, cp.Close())
		}
		cp.pool <- c
	}
	cp.updateGauges()
	return cp, nil
}

// Get returns a connection from the pool.
//
// When MaxConnections connections are already checked out, Get waits until
// one is released or ctx is done. In the latter case the error returned
// matches both ErrExhausted and the ctx error.
func (cp *channelPool[C]) Get(ctx context.Context) (C, error) {
	var zero C
	if cp.closed.Load() {
		return zero, ErrClosed
	}

	if err := cp.slots.Acquire(ctx, 1); err != nil {
		exhaustedCounter.With(prometheus.Labels{poolLabel: cp.name}).Inc()
		return zero, fmt.Errorf("%w: %w", ErrExhausted, err)
	}

	if cp.closed.Load() {
		cp.slots.Release(1)
		return zero, ErrClosed
	}

	c, err := cp.checkout(ctx)
	if err != nil {
		cp.slots.Release(1)
		return zero, err
	}

	if err := cp.track(c); err != nil {
		cp.discard(ctx, c, reasonClosed)
		cp.slots.Release(1)
		cp.updateGauges()
		return zero, err
	}
	cp.updateGauges()
	return c, nil
}

// track marks c as checked out, unless Close ran while c was being
// checked out.
func (cp *channelPool[C]) track(c C) error {
	cp.closeMu.RLock()
	defer cp.closeMu.RUnlock()
	if cp.closed.Load() {
		return ErrClosed
	}

	cp.checkedOutMu.Lock()
	defer cp.checkedOutMu.Unlock()
	cp.checkedOut[c] = struct{}{}
	cp.numActive.Add(1)
	return nil
}

// untrack removes c from the checked out set. It returns false if c was not
// checked out.
func (cp *channelPool[C]) untrack(c C) bool {
	cp.checkedOutMu.Lock()
	defer cp.checkedOutMu.Unlock()
	if _, ok := cp.checkedOut[c]; !ok {
		return false
	}
	delete(cp.checkedOut, c)
	cp.numActive.Add(-1)
	return true
}

func (cp *channelPool[C]) checkout(ctx context.Context) (C, error) {
	for {
		select {
		case c := <-cp.pool:
			if cp.cfg.SkipValidation {
				return c, nil
			}

			err := cp.manager.Validate(ctx, c)
			validateCounter.With(resultLabelValues(cp.name, err)).Inc()
			if err == nil {
				return c, nil
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				// The probe was cut short by the caller, not by the connection.
				cp.putIdle(ctx, c)
				var zero C
				return zero, ctxErr
			}
			log.C(ctx).Debugw(
				"clientpool: discarding connection that failed validation",
				"pool", cp.name,
				"err", err,
			)
			cp.discard(ctx, c, reasonInvalid)

		default:
			return cp.open(ctx)
		}
	}
}

func (cp *channelPool[C]) open(ctx context.Context) (C, error) {
	var c C
	connect := func() (err error) {
		defer func() {
			connectCounter.With(resultLabelValues(cp.name, err)).Inc()
		}()
		if cp.breaker != nil {
			c, err = breakerConnect(cp.breaker, func() (C, error) {
				return cp.manager.Connect(ctx)
			})
			return err
		}
		c, err = cp.manager.Connect(ctx)
		return err
	}

	attempts := cp.cfg.ConnectAttempts
	if attempts == 0 {
		attempts = 1
	}
	if err := retry.Do(
		connect,
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(cp.cfg.ConnectRetryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(shouldRetryConnect),
	); err != nil {
		var zero C
		return zero, err
	}
	return c, nil
}

// Release releases a connection back to the pool.
//
// Connections reported by Manager.HasBroken are closed instead of being kept,
// and so are connections released while the pool is full or closed.
// The error returned in those cases is the error from closing the connection.
//
// Releasing a connection that is not currently checked out, including
// releasing the same connection twice, returns ErrNotCheckedOut.
func (cp *channelPool[C]) Release(c C) error {
	if !cp.untrack(c) {
		return ErrNotCheckedOut
	}
	defer cp.updateGauges()
	defer cp.slots.Release(1)

	if cp.manager.HasBroken(c) {
		return cp.discard(context.Background(), c, reasonBroken)
	}
	return cp.putIdle(context.Background(), c)
}

func (cp *channelPool[C]) putIdle(ctx context.Context, c C) error {
	cp.closeMu.RLock()
	defer cp.closeMu.RUnlock()

	if cp.closed.Load() {
		return cp.discard(ctx, c, reasonClosed)
	}
	select {
	case cp.pool <- c:
		return nil
	default:
		return cp.discard(ctx, c, reasonOverflow)
	}
}

func (cp *channelPool[C]) discard(ctx context.Context, c C, reason string) error {
	discardedCounter.With(prometheus.Labels{
		poolLabel:   cp.name,
		reasonLabel: reason,
	}).Inc()
	err := closeConn(c)
	if err != nil {
		log.C(ctx).Errorw(
			"clientpool: failed to close discarded connection",
			"pool", cp.name,
			"reason", reason,
			"err", err,
		)
	}
	return err
}

// Close closes the pool and all its idle connections.
//
// Connections still checked out are closed when they are released.
func (cp *channelPool[C]) Close() error {
	cp.closeMu.Lock()
	defer cp.closeMu.Unlock()

	cp.closed.Store(true)
	var err error
	for {
		select {
		case c := <-cp.pool:
			err = multierr.Append(err, closeConn(c))
		default:
			cp.updateGauges()
			return err
		}
	}
}

// NumActiveClients returns the number of connections currently given out for
// use.
func (cp *channelPool[C]) NumActiveClients() int32 {
	return cp.numActive.Load()
}

// NumAllocated returns the number of idle connections in the pool.
func (cp *channelPool[C]) NumAllocated() int32 {
	return int32(len(cp.pool))
}

// IsExhausted returns true when NumActiveClients >= MaxConnections.
func (cp *channelPool[C]) IsExhausted() bool {
	return cp.NumActiveClients() >= int32(cp.cfg.MaxConnections)
}

func (cp *channelPool[C]) updateGauges() {
	cp.activeGauge.Set(float64(cp.NumActiveClients()))
	cp.idleGauge.Set(float64(cp.NumAllocated()))
}
