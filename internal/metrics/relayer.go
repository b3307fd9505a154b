package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/model"
)

var (
	relayerPollTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "btcbridge7000",
		Subsystem: "relayer",
		Name:      "poll_total",
		Help:      "Count of relayer poll cycles.",
	}, []string{"network", "status"})

	relayerPollDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "btcbridge7000",
		Subsystem: "relayer",
		Name:      "poll_duration_seconds",
		Help:      "Duration of a relayer poll cycle.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"network", "status"})

	relayerBlocksPerPoll = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "btcbridge7000",
		Subsystem: "relayer",
		Name:      "blocks_per_poll",
		Help:      "Number of blocks relayed per poll cycle.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
	}, []string{"network"})

	relayerSubmitTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "btcbridge7000",
		Subsystem: "relayer",
		Name:      "submit_total",
		Help:      "Count of submissions to the bridge.",
	}, []string{"network", "kind", "status"})

	relayerNodeHeight = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "btcbridge7000",
		Subsystem: "relayer",
		Name:      "node_height",
		Help:      "Block count reported by bitcoind.",
	}, []string{"network"})
)

// Relayer tracks metrics for the relayer loop.
type Relayer struct {
	network string
}

// NewRelayer constructs a Relayer collector.
func NewRelayer(network model.Network) *Relayer {
	if network == "" {
		network = "unknown"
	}
	return &Relayer{network: string(network)}
}

// ObservePoll records one poll cycle and the number of blocks it relayed.
func (m Relayer) ObservePoll(err error, blocks int, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	relayerPollTotal.WithLabelValues(m.network, status).Inc()
	relayerPollDuration.WithLabelValues(m.network, status).Observe(time.Since(started).Seconds())
	if blocks > 0 {
		relayerBlocksPerPoll.WithLabelValues(m.network).Observe(float64(blocks))
	}
}

// ObserveSubmit records one header or transaction submission.
func (m Relayer) ObserveSubmit(kind string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	relayerSubmitTotal.WithLabelValues(m.network, kind, status).Inc()
}

func (m Relayer) SetNodeHeight(height int64) {
	relayerNodeHeight.WithLabelValues(m.network).Set(float64(height))
}
