package clientpool

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sony/gobreaker"

	"github.com/maestro-org/tikvpool/log"
)

// BreakerConfig configures the failure-ratio circuit breaker guarding
// Manager.Connect.
//
// Can be deserialized from YAML.
type BreakerConfig struct {
	// Minimum connect attempts during an Interval before the breaker is
	// eligible to trip.
	MinRequestsToTrip int `yaml:"minRequestsToTrip"`

	// Ratio of failed connect attempts in [0,1] that trips the breaker.
	FailureThreshold float64 `yaml:"failureThreshold"`

	// Connect attempts allowed through while half-open. 0 means 1.
	MaxRequestsHalfOpen uint32 `yaml:"maxRequestsHalfOpen"`

	// Interval is the cyclic period of the closed state after which counts
	// are reset. 0 never resets.
	Interval time.Duration `yaml:"interval"`

	// Timeout is how long the breaker stays open before going half-open.
	Timeout time.Duration `yaml:"timeout"`
}

type connectBreaker struct {
	cb *gobreaker.CircuitBreaker

	pool              string
	minRequestsToTrip int
	failureThreshold  float64
}

func newConnectBreaker(pool string, cfg BreakerConfig) *connectBreaker {
	b := &connectBreaker{
		pool:              pool,
		minRequestsToTrip: cfg.MinRequestsToTrip,
		failureThreshold:  cfg.FailureThreshold,
	}
	b.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:          pool,
		MaxRequests:   cfg.MaxRequestsHalfOpen,
		Interval:      cfg.Interval,
		Timeout:       cfg.Timeout,
		ReadyToTrip:   b.shouldTrip,
		OnStateChange: b.stateChanged,
	})
	breakerClosedGauge.With(prometheus.Labels{poolLabel: pool}).Set(1)
	return b
}

func (b *connectBreaker) shouldTrip(counts gobreaker.Counts) bool {
	if counts.Requests < uint32(b.minRequestsToTrip) {
		return false
	}
	failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
	return failureRatio >= b.failureThreshold
}

func (b *connectBreaker) stateChanged(name string, from gobreaker.State, to gobreaker.State) {
	log.Warnw(
		"clientpool: connect breaker state changed",
		"pool", name,
		"from", from.String(),
		"to", to.String(),
	)
	var closed float64
	if to == gobreaker.StateClosed {
		closed = 1
	}
	breakerClosedGauge.With(prometheus.Labels{poolLabel: b.pool}).Set(closed)
}

// State returns the current state of the breaker.
func (b *connectBreaker) State() gobreaker.State {
	return b.cb.State()
}

func breakerConnect[C any](b *connectBreaker, connect func() (C, error)) (C, error) {
	v, err := b.cb.Execute(func() (interface{}, error) {
		c, err := connect()
		return c, err
	})
	if err != nil {
		var zero C
		return zero, err
	}
	c, _ := v.(C)
	return c, nil
}
