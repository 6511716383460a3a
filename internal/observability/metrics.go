package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// extraction pipeline.
type Metrics struct {
	RowsExtracted      *prometheus.CounterVec // label: table
	ValidationWarnings prometheus.Counter
	FilesWritten       prometheus.Counter
	PipelineRunning    prometheus.Gauge

	QueryDuration *prometheus.HistogramVec // label: table
	StageDuration *prometheus.HistogramVec // label: stage
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RowsExtracted,
		m.ValidationWarnings,
		m.FilesWritten,
		m.PipelineRunning,
		m.QueryDuration,
		m.StageDuration,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RowsExtracted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "genx_etl",
			Name:      "rows_extracted_total",
			Help:      "Rows read from the warehouse by table.",
		}, []string{"table"}),
		ValidationWarnings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "genx_etl",
			Name:      "validation_warnings_total",
			Help:      "Soft validation warnings emitted during a run.",
		}),
		FilesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "genx_etl",
			Name:      "files_written_total",
			Help:      "Output files written to the results folder.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "genx_etl",
			Name:      "pipeline_running",
			Help:      "1 while an extraction run is active, 0 otherwise.",
		}),
		QueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "genx_etl",
			Name:      "query_duration_seconds",
			Help:      "Warehouse query duration by table.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"table"}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "genx_etl",
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage.",
			Buckets:   []float64{0.01, 0.1, 0.5, 1, 5, 15, 30, 60, 120},
		}, []string{"stage"}),
	}
}
