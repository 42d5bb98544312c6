package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// APIMetrics exposes counters/histograms for the appointment API and the AI
// relay endpoints.
type APIMetrics struct {
	appointmentOps *prometheus.CounterVec
	relayRequests  *prometheus.CounterVec
	relayLatency   *prometheus.HistogramVec
}

func NewAPIMetrics(reg prometheus.Registerer) *APIMetrics {
	m := &APIMetrics{
		appointmentOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "health_assistant",
			Subsystem: "appointments",
			Name:      "operations_total",
			Help:      "Total appointment operations by op and HTTP status",
		}, []string{"op", "status"}),
		relayRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "health_assistant",
			Subsystem: "relay",
			Name:      "requests_total",
			Help:      "Total relay requests by relay and HTTP status",
		}, []string{"relay", "status"}),
		relayLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "health_assistant",
			Subsystem: "relay",
			Name:      "latency_seconds",
			Help:      "Latency of upstream relay calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"relay"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.appointmentOps, m.relayRequests, m.relayLatency)
	return m
}

func (m *APIMetrics) ObserveAppointmentOp(op string, status int) {
	if m == nil {
		return
	}
	m.appointmentOps.WithLabelValues(op, strconv.Itoa(status)).Inc()
}

func (m *APIMetrics) ObserveRelay(relay string, status int) {
	if m == nil {
		return
	}
	m.relayRequests.WithLabelValues(relay, strconv.Itoa(status)).Inc()
}

func (m *APIMetrics) ObserveRelayLatency(relay string, seconds float64) {
	if m == nil {
		return
	}
	m.relayLatency.WithLabelValues(relay).Observe(seconds)
}
