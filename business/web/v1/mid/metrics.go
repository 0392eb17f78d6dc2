package mid

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/qcbit/escrow-gateway/foundation/web"
)

const metricsNamespace = "gateway"

var (
	requests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of API requests",
		},
		[]string{"method", "code"},
	)

	requestLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of API requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	panics = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "panics_total",
			Help:      "Total number of recovered panics",
		},
	)
)

// Metrics updates program counters.
func Metrics() web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			err := handler(ctx, w, r)

			// Errors are answered further up the chain so the status code
			// is not known yet.
			code := "error"
			if v, verr := web.GetValues(ctx); verr == nil {
				if err == nil && v.StatusCode != 0 {
					code = strconv.Itoa(v.StatusCode)
				}
				requestLatency.WithLabelValues(r.Method).Observe(time.Since(v.Now).Seconds())
			}
			requests.WithLabelValues(r.Method, code).Inc()

			return err
		}

		return h
	}

	return m
}
