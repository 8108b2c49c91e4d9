package clientpool

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	poolLabel    = "pool"
	successLabel = "success"
	reasonLabel  = "reason"
)

// Reasons a connection is discarded instead of being kept idle.
const (
	reasonInvalid  = "invalid"
	reasonBroken   = "broken"
	reasonOverflow = "overflow"
	reasonClosed   = "closed"
)

var (
	resultLabels = []string{
		poolLabel,
		successLabel,
	}

	connectCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clientpool_connect_total",
		Help: "Total number of Manager.Connect calls made by the pool",
	}, resultLabels)

	validateCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clientpool_validate_total",
		Help: "Total number of Manager.Validate calls made on idle connections",
	}, resultLabels)

	discardedCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clientpool_discarded_total",
		Help: "Total number of connections closed by the pool, by reason",
	}, []string{
		poolLabel,
		reasonLabel,
	})

	exhaustedCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clientpool_exhausted_total",
		Help: "Total number of Get calls that gave up waiting for a free slot",
	}, []string{poolLabel})

	activeGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "clientpool_active_connections",
		Help: "The number of connections currently checked out of the pool",
	}, []string{poolLabel})

	idleGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "clientpool_idle_connections",
		Help: "The number of idle connections kept by the pool",
	}, []string{poolLabel})

	breakerClosedGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "clientpool_connect_breaker_closed",
		Help: "0 means the connect breaker is currently tripped, 1 otherwise (closed)",
	}, []string{poolLabel})
)

func resultLabelValues(pool string, err error) prometheus.Labels {
	return prometheus.Labels{
		poolLabel:    pool,
		successLabel: strconv.FormatBool(err == nil),
	}
}
