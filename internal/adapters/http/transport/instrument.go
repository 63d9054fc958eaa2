package transport

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/okian/befa-admin/pkg/metrics"
)

// instrumentedTransport records request count, latency and in-flight gauge per route.
type instrumentedTransport struct {
	next http.RoundTripper
}

// instrument wraps hc's transport without mutating hc.
func instrument(hc *http.Client) *http.Client {
	next := hc.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	if _, ok := next.(*instrumentedTransport); ok {
		return hc
	}
	cp := *hc
	cp.Transport = &instrumentedTransport{next: next}
	return &cp
}

func (t *instrumentedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	metrics.IncInFlight()
	defer metrics.DecInFlight()

	resp, err := t.next.RoundTrip(req)

	status := "error"
	if err == nil {
		status = strconv.Itoa(resp.StatusCode)
	}
	metrics.RecordAPIRequest(routeLabel(req.URL.Path), req.Method, status, metrics.Since(start))
	return resp, err
}

// routeLabel collapses numeric path segments so ids do not explode label cardinality.
func routeLabel(path string) string {
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if p == "" {
			continue
		}
		if _, err := strconv.ParseInt(p, 10, 64); err == nil {
			parts[i] = "{id}"
		}
	}
	return strings.Join(parts, "/")
}
