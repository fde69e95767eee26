package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "talento",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	importRows = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "talento",
			Name:      "import_rows_total",
			Help:      "Imported rows by kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)

	notificationsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "talento",
			Name:      "notifications_sent_total",
			Help:      "Notification sends by channel and outcome.",
		},
		[]string{"channel", "outcome"},
	)

	scheduleFires = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "talento",
			Name:      "schedule_fires_total",
			Help:      "Scheduled notification firings by type.",
		},
		[]string{"type"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, importRows, notificationsSent, scheduleFires)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

// IncImportRows counts one imported row with its outcome ("ok" or "error").
func IncImportRows(kind, outcome string) {
	importRows.WithLabelValues(kind, outcome).Inc()
}

// IncNotification counts one channel send attempt.
func IncNotification(channel string, ok bool) {
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	notificationsSent.WithLabelValues(channel, outcome).Inc()
}

// IncScheduleFire counts one trigger firing for a schedule type.
func IncScheduleFire(scheduleType string) {
	scheduleFires.WithLabelValues(scheduleType).Inc()
}
