package monitoring

import (
	"math/big"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tokend/logx"
)

type OpKind string

var (
	OpTransfer         OpKind = "transfer"
	OpApprove          OpKind = "approve"
	OpMint             OpKind = "mint"
	OpBurn             OpKind = "burn"
	OpSetAdministrator OpKind = "set_administrator"
	OpSetPause         OpKind = "set_pause"
	OpUpdateMetadata   OpKind = "update_metadata"
)

type nodePromMetrics struct {
	nodeUpUnixSeconds prometheus.Gauge
	totalSupply       prometheus.Gauge
	pausedFlag        prometheus.Gauge
	accountCount      prometheus.Gauge
	appliedOpCount    *prometheus.CounterVec
	rejectedOpCount   *prometheus.CounterVec
	panicCount        prometheus.Counter
}

func newNodePromMetrics() *nodePromMetrics {
	return &nodePromMetrics{
		nodeUpUnixSeconds: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "tokend_node_up_timestamp_unix_seconds",
				Help: "Unix timestamp of the node",
			},
		),
		totalSupply: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "tokend_total_supply",
				Help: "Current total supply of the token (lossy float mirror of the exact counter)",
			},
		),
		pausedFlag: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "tokend_paused",
				Help: "1 while the ledger is paused, 0 otherwise",
			},
		),
		accountCount: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "tokend_account_count",
				Help: "Number of materialized accounts",
			},
		),
		appliedOpCount: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tokend_applied_op_count",
				Help: "Number of applied ledger operations by kind",
			},
			[]string{"op"},
		),
		rejectedOpCount: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tokend_rejected_op_count",
				Help: "Number of rejected ledger operations by error code",
			},
			[]string{"reason"},
		),
		panicCount: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "tokend_panic_count",
				Help: "Number of recovered panics",
			},
		),
	}
}

var metrics = newNodePromMetrics()

// StartMetricsServer exposes /metrics on addr. Blocks, so run it under
// exception.SafeGo.
func StartMetricsServer(addr string) {
	metrics.nodeUpUnixSeconds.Set(float64(time.Now().Unix()))

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	logx.Info("MONITORING", "Serving prometheus metrics at ", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logx.Error("MONITORING", "metrics server stopped: ", err)
	}
}

func RecordAppliedOp(op OpKind) {
	metrics.appliedOpCount.WithLabelValues(string(op)).Inc()
}

func RecordRejectedOp(op OpKind, reason string) {
	metrics.rejectedOpCount.WithLabelValues(reason).Inc()
}

func SetTotalSupply(supply *big.Int) {
	f, _ := new(big.Float).SetInt(supply).Float64()
	metrics.totalSupply.Set(f)
}

func SetPaused(paused bool) {
	if paused {
		metrics.pausedFlag.Set(1)
	} else {
		metrics.pausedFlag.Set(0)
	}
}

func SetAccountCount(n int) {
	metrics.accountCount.Set(float64(n))
}

func IncreasePanicCount() {
	metrics.panicCount.Inc()
}
