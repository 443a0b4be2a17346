package metrics

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "deskwise"

// Metrics holds the collectors shared by the report, export and schedule features.
type Metrics struct {
	registry *prometheus.Registry

	queryTotal       *prometheus.CounterVec
	queryDuration    *prometheus.HistogramVec
	exportTotal      *prometheus.CounterVec
	executionTotal   *prometheus.CounterVec
	executionSeconds prometheus.Histogram
	sweepDue         prometheus.Gauge
}

func NewMetrics() *Metrics {
	return NewMetricsWithRegistry(prometheus.NewRegistry())
}

// NewMetricsWithRegistry registers every collector on reg. Tests pass a fresh registry.
func NewMetricsWithRegistry(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: reg,
		queryTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_queries_total",
			Help:      "Report queries executed, by data source and outcome.",
		}, []string{"data_source", "status"}),
		queryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "report_query_duration_seconds",
			Help:      "Report query execution time.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"data_source"}),
		exportTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_exports_total",
			Help:      "Export calls, by format and outcome.",
		}, []string{"format", "status"}),
		executionTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schedule_executions_total",
			Help:      "Scheduled report executions, by outcome.",
		}, []string{"status"}),
		executionSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "schedule_execution_duration_seconds",
			Help:      "Scheduled report execution time.",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 5, 15, 60},
		}),
		sweepDue: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "schedule_sweep_due",
			Help:      "Due schedules found by the last sweep.",
		}),
	}

	reg.MustRegister(
		m.queryTotal,
		m.queryDuration,
		m.exportTotal,
		m.executionTotal,
		m.executionSeconds,
		m.sweepDue,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ObserveQuery(dataSource string, elapsed time.Duration, err error) {
	m.queryTotal.WithLabelValues(dataSource, outcome(err)).Inc()
	m.queryDuration.WithLabelValues(dataSource).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveExport(format string, err error) {
	m.exportTotal.WithLabelValues(format, outcome(err)).Inc()
}

func (m *Metrics) ObserveExecution(elapsed time.Duration, err error) {
	m.executionTotal.WithLabelValues(outcome(err)).Inc()
	m.executionSeconds.Observe(elapsed.Seconds())
}

func (m *Metrics) SetDueSchedules(n int) {
	m.sweepDue.Set(float64(n))
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

func outcome(err error) string {
	if err != nil {
		return "failed"
	}
	return "success"
}
