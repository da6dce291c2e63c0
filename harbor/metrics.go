package harbor

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"

	kithttp "github.com/marinadb/marina/kit/transport/http"
)

// Metrics instruments the HTTP surface with per-route request counts
// and latencies.
func Metrics(serviceName string, reg prometheus.Registerer) kithttp.Middleware {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: serviceName,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Number of HTTP requests received",
	}, []string{"method", "path", "status"})

	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: serviceName,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Time taken to respond to HTTP requests",
	}, []string{"method", "path", "status"})

	reg.MustRegister(requests, durations)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := &statusWriter{ResponseWriter: w}
			start := time.Now()

			next.ServeHTTP(sw, r)

			path := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if p := rctx.RoutePattern(); p != "" {
					path = p
				}
			}

			labels := prometheus.Labels{
				"method": r.Method,
				"path":   path,
				"status": strconv.Itoa(sw.code()),
			}
			requests.With(labels).Inc()
			durations.With(labels).Observe(time.Since(start).Seconds())
		})
	}
}

// statusWriter records the status code written to the response.
type statusWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.statusCode == 0 {
		w.statusCode = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

func (w *statusWriter) code() int {
	if w.statusCode == 0 {
		return http.StatusOK
	}
	return w.statusCode
}
