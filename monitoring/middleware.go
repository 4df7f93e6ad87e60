package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
)

type PrometheusMiddleware struct {
	handler http.Handler
	routes  map[string]struct{}
}

func (m *PrometheusMiddleware) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	if path == "/metrics" {
		// Skip collecting metrics from metrics endpoint itself
		m.handler.ServeHTTP(w, r)
		return
	}

	// Unmatched paths share one label so arbitrary probe traffic cannot
	// grow the label space
	label := path
	if _, ok := m.routes[path]; !ok {
		label = "other"
	}

	// begin timer to measure the requests duration
	timer := prometheus.NewTimer(HttpRequestDuration.WithLabelValues(label))

	// increment total request counter
	HttpRequestsTotal.WithLabelValues(label).Inc()

	// increment number of active connections
	ActiveConnections.Inc()

	// complete processing request
	m.handler.ServeHTTP(w, r)

	// record request duration (post processing)
	timer.ObserveDuration()

	// decrement total number of active connections (post processing)
	ActiveConnections.Dec()
}

func NewPrometheusMiddleware(handlerToWrap http.Handler, routes ...string) *PrometheusMiddleware {
	knownRoutes := make(map[string]struct{}, len(routes))
	for _, route := range routes {
		knownRoutes[route] = struct{}{}
	}
	return &PrometheusMiddleware{
		handler: handlerToWrap,
		routes:  knownRoutes,
	}
}
