// Package metrics defines the Prometheus collectors of the execution engine.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	ScanUnitCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shardexec",
			Subsystem: "scan",
			Name:      "units_total",
			Help:      "execution units run against data sources",
		}, []string{"data_source", "mode", "status"})

	ScanDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "shardexec",
			Subsystem: "scan",
			Name:      "duration_seconds",
			Help:      "execution unit statement latency",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2.0, 20),
		}, []string{"data_source"})

	StatementCacheCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shardexec",
			Subsystem: "scan",
			Name:      "statement_cache_total",
			Help:      "prepared statement cache lookups",
		}, []string{"result"})

	OperatorRowsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shardexec",
			Subsystem: "operator",
			Name:      "rows_total",
			Help:      "rows produced by blocking operators",
		}, []string{"operator"})

	DataSourceUpGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "shardexec",
			Subsystem: "datasource",
			Name:      "up",
			Help:      "1 when the last probe of the data source succeeded",
		}, []string{"data_source"})

	QueryCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shardexec",
			Subsystem: "query",
			Name:      "total",
			Help:      "queries executed",
		}, []string{"status"})
)

var (
	registry     = prometheus.NewRegistry()
	registerOnce sync.Once
)

// Registry returns the registry holding every engine collector.
func Registry() *prometheus.Registry {
	registerOnce.Do(func() {
		registry.MustRegister(
			ScanUnitCounter,
			ScanDurationHistogram,
			StatementCacheCounter,
			OperatorRowsCounter,
			DataSourceUpGauge,
			QueryCounter,
		)
	})
	return registry
}

// ObserveRows adds n produced rows for operator.
func ObserveRows(operator string, n int) {
	OperatorRowsCounter.WithLabelValues(operator).Add(float64(n))
}
