package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// fetch-and-export job.
type Metrics struct {
	RecordsFetched  prometheus.Counter
	RecordsSkipped  prometheus.Counter
	RecordsExported prometheus.Counter
	WatchlistSize   prometheus.Gauge
	JobRunning      prometheus.Gauge

	FetchDuration prometheus.Histogram
	RunDuration   prometheus.Histogram

	// MOID enrichment metrics.
	MOIDLookups *prometheus.CounterVec // labels: outcome={success,error,empty}
	MOIDCache   *prometheus.CounterVec // labels: result={hit,miss}
}

// NewMetrics creates and registers all job metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RecordsFetched,
		m.RecordsSkipped,
		m.RecordsExported,
		m.WatchlistSize,
		m.JobRunning,
		m.FetchDuration,
		m.RunDuration,
		m.MOIDLookups,
		m.MOIDCache,
	)
	return m
}

// NewMetricsForTesting creates Metrics without touching the default registry,
// avoiding "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RecordsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "neowatch",
			Name:      "records_fetched_total",
			Help:      "Total close-approach rows received from the CAD API.",
		}),
		RecordsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "neowatch",
			Name:      "records_skipped_total",
			Help:      "Total malformed rows skipped during parsing.",
		}),
		RecordsExported: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "neowatch",
			Name:      "records_exported_total",
			Help:      "Total records written to the full CSV output.",
		}),
		WatchlistSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "neowatch",
			Name:      "watchlist_size",
			Help:      "Records selected into the watchlist on the last run.",
		}),
		JobRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "neowatch",
			Name:      "job_running",
			Help:      "1 while the job is active, 0 once finished.",
		}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "neowatch",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of the CAD API request.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "neowatch",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete fetch-derive-export run.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
		}),
		MOIDLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "neowatch",
			Name:      "moid_lookups_total",
			Help:      "SBDB MOID lookups by outcome.",
		}, []string{"outcome"}),
		MOIDCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "neowatch",
			Name:      "moid_cache_total",
			Help:      "MOID cache lookups by result.",
		}, []string{"result"}),
	}
}
