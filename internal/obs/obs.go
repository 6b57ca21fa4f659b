// Package obs wires the core's Observer interface to structured logging
// and Prometheus metrics: gauges for live reserves and supply, counters
// for swap and liquidity activity.
package obs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	core "github.com/synnergy-network/xyk-dex/core"
)

// Metrics holds the Prometheus collectors this package registers.
type Metrics struct {
	poolReserve     *prometheus.GaugeVec
	poolTotalSupply *prometheus.GaugeVec
	swapsTotal      *prometheus.CounterVec
	swapVolumeTotal *prometheus.CounterVec
	liquidityEvents *prometheus.CounterVec
}

// NewMetrics constructs and registers the dex_* collectors against reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		poolReserve: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "dex_pool_reserve",
			Help: "Live reserve of one asset side of a pool.",
		}, []string{"pool", "asset"}),
		poolTotalSupply: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "dex_pool_total_supply",
			Help: "Outstanding LP token supply for a pool.",
		}, []string{"pool"}),
		swapsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dex_swaps_total",
			Help: "Count of successful swaps executed against a DEX.",
		}, []string{"pool"}),
		swapVolumeTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dex_swap_volume_total",
			Help: "Cumulative swap volume moved through a DEX, by asset.",
		}, []string{"pool", "asset"}),
		liquidityEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dex_liquidity_events_total",
			Help: "Count of add/remove liquidity events against a pool.",
		}, []string{"pool", "kind"}),
	}
	reg.MustRegister(m.poolReserve, m.poolTotalSupply, m.swapsTotal, m.swapVolumeTotal, m.liquidityEvents)
	return m
}

// Observer implements core.Observer: every dispatched instruction is
// logged via logrus, and successful ones update the Metrics collectors.
type Observer struct {
	Log     *logrus.Logger
	Metrics *Metrics
}

// New returns an Observer logging to log and recording into metrics.
// Either may be nil, in which case that side is a no-op.
func New(log *logrus.Logger, metrics *Metrics) *Observer {
	return &Observer{Log: log, Metrics: metrics}
}

func (o *Observer) Dispatched(traceID, kind string, pair *core.TokenPairID, pool *core.PoolState, result core.Result, err error) {
	if err != nil {
		if o.Log != nil {
			o.Log.WithFields(logrus.Fields{"trace_id": traceID, "instruction": kind, "error": err}).Warn("instruction failed")
		}
		return
	}
	if o.Log != nil {
		o.Log.WithFields(logrus.Fields{"trace_id": traceID, "instruction": kind}).Info("instruction ok")
	}

	if pool != nil && pair != nil {
		o.recordPool(pair.String(), pair.Base, pair.Target, pool)
	}

	switch kind {
	case "SwapExactTokensForTokensOnXYKPool", "SwapTokensForExactTokensOnXYKPool":
		o.recordSwap(result)
	case "AddLiquidityToXYKPool":
		o.recordLiquidityEvent(pair, "add")
	case "RemoveLiquidityFromXYKPool":
		o.recordLiquidityEvent(pair, "remove")
	}
}

func (o *Observer) recordPool(poolLabel string, base, target core.AssetID, pool *core.PoolState) {
	if o.Log != nil {
		o.Log.WithFields(logrus.Fields{
			"pool":           poolLabel,
			"base_reserve":   pool.BaseAssetReserve,
			"target_reserve": pool.TargetAssetReserve,
			"total_supply":   pool.PoolTokenTotalSupply,
		}).Debug("pool updated")
	}
	if o.Metrics == nil {
		return
	}
	o.Metrics.poolReserve.WithLabelValues(poolLabel, string(base)).Set(float64(pool.BaseAssetReserve))
	o.Metrics.poolReserve.WithLabelValues(poolLabel, string(target)).Set(float64(pool.TargetAssetReserve))
	o.Metrics.poolTotalSupply.WithLabelValues(poolLabel).Set(float64(pool.PoolTokenTotalSupply))
}

func (o *Observer) recordSwap(result core.Result) {
	if o.Metrics == nil || len(result.Path) < 2 {
		return
	}
	dexLabel := string(result.DEX)
	o.Metrics.swapsTotal.WithLabelValues(dexLabel).Inc()
	inAsset, outAsset := result.Path[0], result.Path[len(result.Path)-1]
	o.Metrics.swapVolumeTotal.WithLabelValues(dexLabel, string(inAsset)).Add(float64(result.AmountIn))
	o.Metrics.swapVolumeTotal.WithLabelValues(dexLabel, string(outAsset)).Add(float64(result.AmountOut))
}

func (o *Observer) recordLiquidityEvent(pair *core.TokenPairID, eventKind string) {
	if o.Metrics == nil || pair == nil {
		return
	}
	o.Metrics.liquidityEvents.WithLabelValues(pair.String(), eventKind).Inc()
}
