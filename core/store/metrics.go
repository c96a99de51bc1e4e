package store

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics instruments the backend calls made by a Store.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "happyfox",
			Subsystem: "dashboard",
			Name:      "api_requests_total",
			Help:      "Backend API calls made by the dashboard store.",
		}, []string{"type", "op", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "happyfox",
			Subsystem: "dashboard",
			Name:      "api_request_duration_seconds",
			Help:      "Latency of backend API calls made by the dashboard store.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"type", "op"}),
	}
	for _, c := range []prometheus.Collector{m.requests, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(key OpKey, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.requests.WithLabelValues(string(key.Type), string(key.Op), outcome).Inc()
	m.duration.WithLabelValues(string(key.Type), string(key.Op)).Observe(time.Since(start).Seconds())
}
