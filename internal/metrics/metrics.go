// Package metrics records conversion runs as Prometheus metrics and writes them
// in the node exporter textfile format.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/JonMunkholm/poiconv/internal/core"
)

// Metrics bundles conversion metrics on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	RowsTotal       *prometheus.CounterVec
	RejectionsTotal *prometheus.CounterVec
	InputBytes      prometheus.Gauge
	OutputBytes     prometheus.Gauge
	SizeDelta       prometheus.Gauge
	RunDuration     prometheus.Gauge
	LastRunSuccess  prometheus.Gauge
	LastRunTime     prometheus.Gauge
}

// New constructs and registers metrics.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RowsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "poiconv_rows_total",
				Help: "Data rows processed by outcome",
			},
			[]string{"outcome"},
		),
		RejectionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "poiconv_rejections_total",
				Help: "Rejected data rows by kind",
			},
			[]string{"kind"},
		),
		InputBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "poiconv_input_bytes",
			Help: "Size of the input CSV in bytes",
		}),
		OutputBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "poiconv_output_bytes",
			Help: "Size of the output JSON in bytes",
		}),
		SizeDelta: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "poiconv_size_delta_percent",
			Help: "Output size change relative to input, in percent",
		}),
		RunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "poiconv_run_duration_seconds",
			Help: "Duration of the last conversion run",
		}),
		LastRunSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "poiconv_last_run_success",
			Help: "1 if the last run succeeded, 0 otherwise",
		}),
		LastRunTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "poiconv_last_run_timestamp_seconds",
			Help: "Unix time the last run finished",
		}),
	}
	m.registry.MustRegister(
		m.RowsTotal,
		m.RejectionsTotal,
		m.InputBytes,
		m.OutputBytes,
		m.SizeDelta,
		m.RunDuration,
		m.LastRunSuccess,
		m.LastRunTime,
	)

	// Pre-create label values so every series is exported even when zero.
	m.RowsTotal.WithLabelValues("accepted")
	m.RowsTotal.WithLabelValues("rejected")
	for _, kind := range []core.RejectKind{core.RejectShape, core.RejectCoercion, core.RejectSemantic} {
		m.RejectionsTotal.WithLabelValues(string(kind))
	}
	return m
}

// Registry returns the registry holding the conversion metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Observe records the outcome of a run. result may be nil when err is set.
func (m *Metrics) Observe(result *core.ConversionResult, err error, finished time.Time) {
	m.LastRunTime.Set(float64(finished.Unix()))

	if err != nil || result == nil {
		m.LastRunSuccess.Set(0)
		return
	}
	m.LastRunSuccess.Set(1)

	m.RowsTotal.WithLabelValues("accepted").Add(float64(result.Accepted))
	m.RowsTotal.WithLabelValues("rejected").Add(float64(result.Skipped()))
	for kind, n := range result.RejectionCounts() {
		m.RejectionsTotal.WithLabelValues(string(kind)).Add(float64(n))
	}

	m.InputBytes.Set(float64(result.InputBytes))
	m.OutputBytes.Set(float64(result.OutputBytes))
	m.SizeDelta.Set(result.DeltaPercent)
	m.RunDuration.Set(result.Duration.Seconds())
}

// WriteTextfile writes the metrics to path for the node exporter textfile
// collector. The directory is created if needed.
func (m *Metrics) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
