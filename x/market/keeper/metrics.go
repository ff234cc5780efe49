package keeper

import (
	"context"
	"sync"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MarketMetrics holds all Prometheus metrics for the Market module
type MarketMetrics struct {
	// Job lifecycle metrics
	JobsOpened prometheus.Counter
	JobsClosed prometheus.Counter
	OpenJobs   prometheus.Gauge

	// Settlement metrics
	SettledAmount       *prometheus.CounterVec
	SettlementShortfall prometheus.Counter

	// Balance movement metrics
	DepositedAmount *prometheus.CounterVec
	WithdrawnAmount *prometheus.CounterVec
	RefundedAmount  *prometheus.CounterVec

	// Rate revision metrics
	RateRevisions *prometheus.CounterVec
}

var (
	marketMetricsOnce sync.Once
	marketMetrics     *MarketMetrics
)

// Escrow pool labels
const (
	poolCredit  = "credit"
	poolPrimary = "primary"
)

// NewMarketMetrics creates and registers Market metrics (singleton pattern)
func NewMarketMetrics() *MarketMetrics {
	marketMetricsOnce.Do(func() {
		marketMetrics = &MarketMetrics{
			JobsOpened: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "oyster",
					Subsystem: "market",
					Name:      "jobs_opened_total",
					Help:      "Total jobs opened",
				},
			),
			JobsClosed: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "oyster",
					Subsystem: "market",
					Name:      "jobs_closed_total",
					Help:      "Total jobs closed",
				},
			),
			OpenJobs: promauto.NewGauge(
				prometheus.GaugeOpts{
					Namespace: "oyster",
					Subsystem: "market",
					Name:      "open_jobs",
					Help:      "Jobs opened minus jobs closed since process start",
				},
			),
			SettledAmount: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "oyster",
					Subsystem: "market",
					Name:      "settled_amount_total",
					Help:      "Currency units paid to providers, by escrow pool",
				},
				[]string{"pool"},
			),
			SettlementShortfall: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "oyster",
					Subsystem: "market",
					Name:      "settlement_shortfalls_total",
					Help:      "Settlements where the job balance did not cover usage",
				},
			),
			DepositedAmount: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "oyster",
					Subsystem: "market",
					Name:      "deposited_amount_total",
					Help:      "Currency units deposited into job escrow, by escrow pool",
				},
				[]string{"pool"},
			),
			WithdrawnAmount: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "oyster",
					Subsystem: "market",
					Name:      "withdrawn_amount_total",
					Help:      "Currency units withdrawn from job escrow, by escrow pool",
				},
				[]string{"pool"},
			),
			RefundedAmount: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "oyster",
					Subsystem: "market",
					Name:      "refunded_amount_total",
					Help:      "Currency units refunded to owners on close, by escrow pool",
				},
				[]string{"pool"},
			),
			RateRevisions: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "oyster",
					Subsystem: "market",
					Name:      "rate_revisions_total",
					Help:      "Rate revision steps, by revision mode and step",
				},
				[]string{"mode", "step"},
			),
		}
	})
	return marketMetrics
}

func (m *MarketMetrics) addByPool(vec *prometheus.CounterVec, credit, primary uint64) {
	if credit > 0 {
		vec.WithLabelValues(poolCredit).Add(float64(credit))
	}
	if primary > 0 {
		vec.WithLabelValues(poolPrimary).Add(float64(primary))
	}
}

type pendingMetricsKey struct{}

// pendingMetrics holds metric updates made on a cached branch. They are
// applied only once the branch is written back.
type pendingMetrics struct {
	updates []func(*MarketMetrics)
}

func withPendingMetrics(ctx sdk.Context) (sdk.Context, *pendingMetrics) {
	pending := &pendingMetrics{}
	return ctx.WithValue(pendingMetricsKey{}, pending), pending
}

func (p *pendingMetrics) flush(m *MarketMetrics) {
	for _, update := range p.updates {
		update(m)
	}
	p.updates = nil
}

// recordMetrics applies update now, or defers it to the enclosing message
// when ctx is a pending branch.
func (k Keeper) recordMetrics(ctx context.Context, update func(m *MarketMetrics)) {
	if pending, ok := ctx.Value(pendingMetricsKey{}).(*pendingMetrics); ok {
		pending.updates = append(pending.updates, update)
		return
	}
	update(k.metrics)
}
