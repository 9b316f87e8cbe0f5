// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "billsplit"

// Metrics groups the service's collectors.
type Metrics struct {
	RPCRequests     *prometheus.CounterVec
	RPCDuration     *prometheus.HistogramVec
	ScanOutcomes    *prometheus.CounterVec
	ScanDuration    prometheus.Histogram
	Extractions     *prometheus.CounterVec
	ItemsExtracted  prometheus.Counter
	SessionsEvicted prometheus.Counter
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RPCRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "RPC calls by procedure and result code.",
		}, []string{"procedure", "code"}),
		RPCDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "RPC latency by procedure.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		ScanOutcomes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scan_outcomes_total",
			Help:      "Bill scans by outcome.",
		}, []string{"outcome"}),
		ScanDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scan_duration_seconds",
			Help:      "Time spent waiting for the scanning service.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		Extractions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extractions_total",
			Help:      "Uploads handled by /scan-bill by media type and result.",
		}, []string{"media_type", "result"}),
		ItemsExtracted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_extracted_total",
			Help:      "Line items returned by /scan-bill.",
		}),
		SessionsEvicted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_evicted_total",
			Help:      "Bill sessions evicted after idling past their TTL.",
		}),
	}
}

// WatchSessions exports the number of live sessions reported by count.
func WatchSessions(reg prometheus.Registerer, count func() int) {
	promauto.With(reg).NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sessions_active",
		Help:      "Bill sessions currently held in memory.",
	}, func() float64 { return float64(count()) })
}

// ObserveScan records a scan outcome and how long it took.
func (m *Metrics) ObserveScan(outcome string, elapsed time.Duration) {
	m.ScanOutcomes.WithLabelValues(outcome).Inc()
	m.ScanDuration.Observe(elapsed.Seconds())
}
