package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveAppointmentOp(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewAPIMetrics(reg)

	m.ObserveAppointmentOp("create", 201)
	m.ObserveAppointmentOp("create", 201)
	m.ObserveAppointmentOp("delete", 404)

	if got := testutil.ToFloat64(m.appointmentOps.WithLabelValues("create", "201")); got != 2 {
		t.Errorf("expected 2 create/201 observations, got %v", got)
	}
	if got := testutil.ToFloat64(m.appointmentOps.WithLabelValues("delete", "404")); got != 1 {
		t.Errorf("expected 1 delete/404 observation, got %v", got)
	}
}

func TestObserveRelay(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewAPIMetrics(reg)

	m.ObserveRelay("chat", 200)
	m.ObserveRelayLatency("chat", 0.42)

	if got := testutil.ToFloat64(m.relayRequests.WithLabelValues("chat", "200")); got != 1 {
		t.Errorf("expected 1 chat/200 observation, got %v", got)
	}
}

func TestNilReceiverIsSafe(t *testing.T) {
	var m *APIMetrics
	m.ObserveAppointmentOp("create", 201)
	m.ObserveRelay("chat", 502)
	m.ObserveRelayLatency("chat", 1)
}
