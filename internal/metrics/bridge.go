package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/model"
)

var (
	bridgeOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "btcbridge7000",
		Subsystem: "bridge",
		Name:      "operations_total",
		Help:      "Count of bridge operations by error category.",
	}, []string{"network", "operation", "category"})
	bridgeOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "btcbridge7000",
		Subsystem: "bridge",
		Name:      "operation_duration_seconds",
		Help:      "Duration of bridge operations.",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"network", "operation", "category"})
	withdrawalRecords = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "btcbridge7000",
		Subsystem: "withdrawal",
		Name:      "records",
		Help:      "Live withdrawal records by state.",
	}, []string{"network", "state"})
	transitionStalled = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "btcbridge7000",
		Subsystem: "trustee",
		Name:      "transition_stalled",
		Help:      "1 while a trustee transition is past its deadline.",
	}, []string{"network"})
	alertsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "btcbridge7000",
		Subsystem: "bridge",
		Name:      "alerts_total",
		Help:      "Count of raised operator alerts.",
	}, []string{"network", "kind"})
)

var liveWithdrawalStates = []model.WithdrawalState{
	model.WithdrawalApplying,
	model.WithdrawalSigning,
	model.WithdrawalBroadcasting,
	model.WithdrawalProcessing,
	model.WithdrawalConfirming,
}

// Bridge tracks the bridge service.
type Bridge struct {
	network string
}

// NewBridge constructs a Bridge collector.
func NewBridge(network model.Network) *Bridge {
	if network == "" {
		network = "unknown"
	}
	return &Bridge{network: string(network)}
}

// ObserveOperation records an operation labelled with the category of its
// error, "success" when it had none.
func (m Bridge) ObserveOperation(operation string, err error, started time.Time) {
	category := "success"
	if err != nil {
		category = string(model.Category(err))
	}
	bridgeOperationsTotal.WithLabelValues(m.network, operation, category).Inc()
	bridgeOperationDuration.WithLabelValues(m.network, operation, category).Observe(time.Since(started).Seconds())
}

// SetWithdrawalStates publishes live record counts. States missing from
// counts are reset to zero.
func (m Bridge) SetWithdrawalStates(counts map[model.WithdrawalState]int) {
	for _, state := range liveWithdrawalStates {
		withdrawalRecords.WithLabelValues(m.network, state.String()).Set(float64(counts[state]))
	}
}

func (m Bridge) SetTransitionStalled(stalled bool) {
	v := 0.0
	if stalled {
		v = 1
	}
	transitionStalled.WithLabelValues(m.network).Set(v)
}

func (m Bridge) ObserveAlert(kind string) {
	if kind == "" {
		kind = "unknown"
	}
	alertsTotal.WithLabelValues(m.network, kind).Inc()
}
