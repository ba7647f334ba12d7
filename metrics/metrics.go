package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	bookingCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "cozy_hotel",
			Name:      "booking_created_total",
			Help:      "Count of bookings created.",
		},
	)

	bookingCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "cozy_hotel",
			Name:      "booking_cancelled_total",
			Help:      "Count of bookings cancelled.",
		},
	)

	loginAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cozy_hotel",
			Name:      "login_attempts_total",
			Help:      "Count of login attempts by outcome.",
		},
		[]string{"outcome"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cozy_hotel",
			Name:      "http_requests_total",
			Help:      "Count of HTTP requests by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingCreated, bookingCancelled, loginAttempts, httpRequests)
	})
}

func IncBookingCreated() {
	bookingCreated.Inc()
}

func IncBookingCancelled() {
	bookingCancelled.Inc()
}

func IncLogin(outcome string) {
	loginAttempts.WithLabelValues(outcome).Inc()
}

func IncHTTPRequest(method, route, status string) {
	httpRequests.WithLabelValues(method, route, status).Inc()
}
