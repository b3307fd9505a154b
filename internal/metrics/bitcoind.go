package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/model"
)

var (
	bitcoindCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "btcbridge7000",
		Subsystem: "bitcoind",
		Name:      "calls_total",
		Help:      "Calls the relayer made to its bitcoind node.",
	}, []string{"method", "network", "status"})
	bitcoindCallSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "btcbridge7000",
		Subsystem: "bitcoind",
		Name:      "call_seconds",
		Help:      "Latency of relayer calls to bitcoind.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"method", "network"})
	bitcoindLastSuccess = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "btcbridge7000",
		Subsystem: "bitcoind",
		Name:      "last_success_timestamp_seconds",
		Help:      "Unix time of the last bitcoind call that succeeded.",
	}, []string{"network"})
)

// Bitcoind records how the relayer's node calls fare.
type Bitcoind struct {
	network string
}

// NewBitcoind builds the node collector for a network.
func NewBitcoind(network model.Network) *Bitcoind {
	label := string(network.Normalize())
	if label == "" {
		label = "unknown"
	}
	return &Bitcoind{network: label}
}

// Observe records one node call.
func (m *Bitcoind) Observe(method string, err error, started time.Time) {
	status := "ok"
	if err != nil {
		status = "failed"
	}
	bitcoindCallsTotal.WithLabelValues(method, m.network, status).Inc()
	bitcoindCallSeconds.WithLabelValues(method, m.network).Observe(time.Since(started).Seconds())
	if err == nil {
		bitcoindLastSuccess.WithLabelValues(m.network).SetToCurrentTime()
	}
}
