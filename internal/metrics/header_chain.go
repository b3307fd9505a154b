package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/model"
)

var (
	headerSubmitTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "btcbridge7000",
		Subsystem: "header_chain",
		Name:      "submit_total",
		Help:      "Count of header submissions by outcome.",
	}, []string{"network", "outcome", "status"})
	headerSubmitDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "btcbridge7000",
		Subsystem: "header_chain",
		Name:      "submit_duration_seconds",
		Help:      "Duration of header submissions.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"network", "outcome", "status"})
	chainBestHeight = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "btcbridge7000",
		Subsystem: "header_chain",
		Name:      "best_height",
		Help:      "Height of the best header.",
	}, []string{"network"})
	chainConfirmedHeight = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "btcbridge7000",
		Subsystem: "header_chain",
		Name:      "confirmed_height",
		Help:      "Height of the confirmed header.",
	}, []string{"network"})
)

// HeaderChain tracks header verification.
type HeaderChain struct {
	network string
}

// NewHeaderChain constructs a HeaderChain collector.
func NewHeaderChain(network model.Network) *HeaderChain {
	if network == "" {
		network = "unknown"
	}
	return &HeaderChain{network: string(network)}
}

// ObserveSubmit records one header submission.
func (m HeaderChain) ObserveSubmit(outcome string, err error, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	if outcome == "" {
		outcome = "unknown"
	}
	headerSubmitTotal.WithLabelValues(m.network, outcome, status).Inc()
	headerSubmitDuration.WithLabelValues(m.network, outcome, status).Observe(time.Since(started).Seconds())
}

func (m HeaderChain) SetBestHeight(height uint32) {
	chainBestHeight.WithLabelValues(m.network).Set(float64(height))
}

func (m HeaderChain) SetConfirmedHeight(height uint32) {
	chainConfirmedHeight.WithLabelValues(m.network).Set(float64(height))
}
