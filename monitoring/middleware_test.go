package monitoring

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddlewareNormalizesUnknownPaths(t *testing.T) {
	noop := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
	handler := NewPrometheusMiddleware(noop, "/known")

	knownBefore := testutil.ToFloat64(HttpRequestsTotal.WithLabelValues("/known"))
	otherBefore := testutil.ToFloat64(HttpRequestsTotal.WithLabelValues("other"))

	for _, target := range []string{"/known", "/unknown", "/unknown/deep/path"} {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", target, nil))
	}

	if got := testutil.ToFloat64(HttpRequestsTotal.WithLabelValues("/known")) - knownBefore; got != 1 {
		t.Errorf("known path counter delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(HttpRequestsTotal.WithLabelValues("other")) - otherBefore; got != 2 {
		t.Errorf("other counter delta = %v, want 2", got)
	}
}
