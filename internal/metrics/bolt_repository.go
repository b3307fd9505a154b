package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/model"
)

var (
	boltRepoRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "btcbridge7000",
		Subsystem: "bolt_repository",
		Name:      "operations_total",
		Help:      "Count of bbolt repository operations.",
	}, []string{"operation", "network", "status"})
	boltRepoRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "btcbridge7000",
		Subsystem: "bolt_repository",
		Name:      "operation_duration_seconds",
		Help:      "Duration of bbolt repository operations.",
		Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
	}, []string{"operation", "network", "status"})
)

// BoltRepository tracks bbolt state store operations.
type BoltRepository struct {
	network string
}

// NewBoltRepository constructs a BoltRepository collector.
func NewBoltRepository(network model.Network) *BoltRepository {
	if network == "" {
		network = "unknown"
	}
	return &BoltRepository{network: string(network)}
}

func (m BoltRepository) Observe(operation string, err error, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	boltRepoRequestsTotal.WithLabelValues(operation, m.network, status).Inc()
	boltRepoRequestDuration.WithLabelValues(operation, m.network, status).Observe(time.Since(started).Seconds())
}
