package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "damage_api"

// Metrics - коллекторы Prometheus для HTTP API и подсчёта ущерба
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec   // labels: route, status
	RequestDuration *prometheus.HistogramVec // labels: route

	// подсчёт
	ScanDuration     *prometheus.HistogramVec // labels: operation={summary,hexagon}
	BuildingsScanned *prometheus.CounterVec   // labels: strategy={index,linear}
	ScansInFlight    prometheus.Gauge

	// наборы данных и кэш
	DatasetLoads        *prometheus.CounterVec   // labels: dataset, outcome={success,error}
	DatasetLoadDuration *prometheus.HistogramVec // labels: dataset
	ResultCache         *prometheus.CounterVec   // labels: operation, result={hit,miss,error}
}

// NewMetrics создает метрики в глобальном реестре Prometheus
func NewMetrics() *Metrics {
	return NewMetricsWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsForTesting создает метрики в отдельном реестре для тестов
func NewMetricsForTesting() *Metrics {
	return NewMetricsWithRegistry(prometheus.NewRegistry())
}

// NewMetricsWithRegistry создает метрики и регистрирует их в reg
func NewMetricsWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"route"}),
		ScanDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scan_duration_seconds",
			Help:      "Duration of a damage aggregation over the buildings collection.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		}, []string{"operation"}),
		BuildingsScanned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "buildings_scanned_total",
			Help:      "Buildings tested against a hexagon, by candidate strategy.",
		}, []string{"strategy"}),
		ScansInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "scans_in_flight",
			Help:      "Aggregations currently holding a scan slot.",
		}),
		DatasetLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_loads_total",
			Help:      "GeoJSON dataset loads by dataset and outcome.",
		}, []string{"dataset", "outcome"}),
		DatasetLoadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dataset_load_duration_seconds",
			Help:      "Time to read, decode and index a dataset file.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"dataset"}),
		ResultCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "result_cache_total",
			Help:      "Result cache lookups by operation and result.",
		}, []string{"operation", "result"}),
	}

	reg.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.ScanDuration,
		m.BuildingsScanned,
		m.ScansInFlight,
		m.DatasetLoads,
		m.DatasetLoadDuration,
		m.ResultCache,
	)

	return m
}
