package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns the Prometheus collectors describing a gauntlet run.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         *prometheus.Registry

	// Fetch
	fetchDuration prometheus.Histogram
	fetchErrors   *prometheus.CounterVec
	crewFetched   prometheus.Gauge

	// Pipeline
	stageDuration     *prometheus.HistogramVec
	zeroMaxColumns    *prometheus.CounterVec
	rowsExported      prometheus.Gauge
	lastRunUnix       prometheus.Gauge
	lastRunSuccessful prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "gauntlet",
		subsystem:        "pipeline",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		constLabels:      map[string]string{},
		registry:         prometheus.NewRegistry(),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.fetchDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "fetch_duration_milliseconds",
		Help:        "Duration of the crew data download in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})

	m.fetchErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "fetch_errors_total",
		Help:        "Failed crew data downloads by reason",
		ConstLabels: m.constLabels,
	}, []string{"reason"})

	m.crewFetched = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "crew_fetched",
		Help:        "Number of crew records in the last download",
		ConstLabels: m.constLabels,
	})

	m.stageDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "stage_duration_milliseconds",
		Help:        "Duration of each pipeline stage in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"stage"})

	m.zeroMaxColumns = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "zero_max_columns_total",
		Help:        "Columns normalized to zero because their maximum was not positive",
		ConstLabels: m.constLabels,
	}, []string{"column"})

	m.rowsExported = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "rows_exported",
		Help:        "Rows written by the last report",
		ConstLabels: m.constLabels,
	})

	m.lastRunUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "last_run_unix",
		Help:        "Unix timestamp of the last finished run",
		ConstLabels: m.constLabels,
	})

	m.lastRunSuccessful = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "last_run_success",
		Help:        "1 if the last run succeeded, 0 otherwise",
		ConstLabels: m.constLabels,
	})
}

// Registry returns the registry the manager's collectors live in.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveFetch records a download duration.
func (m *Manager) ObserveFetch(d time.Duration) {
	m.fetchDuration.Observe(float64(d) / float64(time.Millisecond))
}

// RecordFetchError counts a failed download.
func (m *Manager) RecordFetchError(reason string) {
	m.fetchErrors.WithLabelValues(reason).Inc()
}

// SetCrewFetched sets the crew count of the last download.
func (m *Manager) SetCrewFetched(n int) {
	m.crewFetched.Set(float64(n))
}

// ObserveStage records the duration of a pipeline stage.
func (m *Manager) ObserveStage(stage string, d time.Duration) {
	m.stageDuration.WithLabelValues(stage).Observe(float64(d) / float64(time.Millisecond))
}

// RecordZeroMaxColumn counts a column whose normalization fell back to zero.
func (m *Manager) RecordZeroMaxColumn(column string) {
	m.zeroMaxColumns.WithLabelValues(column).Inc()
}

// SetRowsExported sets the number of rows in the last report.
func (m *Manager) SetRowsExported(n int) {
	m.rowsExported.Set(float64(n))
}

// MarkRun stamps the end of a run.
func (m *Manager) MarkRun(at time.Time, ok bool) {
	m.lastRunUnix.Set(float64(at.Unix()))
	if ok {
		m.lastRunSuccessful.Set(1)
	} else {
		m.lastRunSuccessful.Set(0)
	}
}

// WriteTextfile dumps the registry in the node-exporter textfile format.
func (m *Manager) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteTextfile, path, err)
	}
	return nil
}

// Global returns the process-wide manager.
func Global() *Manager {
	return globalManager
}
