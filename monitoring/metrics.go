package monitoring

import "github.com/prometheus/client_golang/prometheus"

var (
	HttpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"path"},
	)

	HttpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path"},
	)

	ActiveConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_connections",
			Help: "Number of active connections",
		},
	)

	GraphMutationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graph_mutations_total",
			Help: "Total number of successful graph mutations",
		},
		[]string{"operation"},
	)

	GraphRejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graph_rejections_total",
			Help: "Total number of graph operations rejected by a precondition",
		},
		[]string{"operation", "reason"},
	)

	RelayedTransactionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "relayed_transactions_total",
			Help: "Total number of transactions forwarded through the relay",
		},
	)
)

func init() {
	prometheus.MustRegister(
		HttpRequestsTotal,
		HttpRequestDuration,
		ActiveConnections,
		GraphMutationsTotal,
		GraphRejectionsTotal,
		RelayedTransactionsTotal,
	)
}
