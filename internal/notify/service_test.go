package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sathviktm/AI-Health-Assistant/internal/appointments"
)

type captureSender struct {
	messages []EmailMessage
	fail     bool
}

func (c *captureSender) Send(_ context.Context, msg EmailMessage) error {
	c.messages = append(c.messages, msg)
	if c.fail {
		return &DeliveryError{Transport: "test", Err: errors.New("boom")}
	}
	return nil
}

func sampleAppointment() appointments.Appointment {
	return appointments.Appointment{
		ID:       "appt-123",
		UserID:   "u1",
		DateTime: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
		Purpose:  "checkup",
		Status:   appointments.StatusScheduled,
		Email:    "u1@example.com",
	}
}

func TestAppointmentCreatedEmail(t *testing.T) {
	sender := &captureSender{}
	svc := NewService(sender, nil)

	err := svc.AppointmentCreated(context.Background(), sampleAppointment())
	require.NoError(t, err)
	require.Len(t, sender.messages, 1)

	msg := sender.messages[0]
	assert.Equal(t, "u1@example.com", msg.To)
	assert.Equal(t, "Appointment Confirmation", msg.Subject)
	for _, want := range []string{"Saturday, June 1, 2024", "10:00 AM", "checkup", "appt-123"} {
		assert.True(t, strings.Contains(msg.Body, want), "body missing %q:\n%s", want, msg.Body)
	}
}

func TestAppointmentUpdatedEmail(t *testing.T) {
	sender := &captureSender{}
	svc := NewService(sender, nil)

	err := svc.AppointmentUpdated(context.Background(), sampleAppointment())
	require.NoError(t, err)
	require.Len(t, sender.messages, 1)

	msg := sender.messages[0]
	assert.Equal(t, "Appointment Update Notification", msg.Subject)
	assert.Contains(t, msg.Body, "has been updated")
}

func TestAppointmentCancelledEmail(t *testing.T) {
	sender := &captureSender{}
	svc := NewService(sender, nil)

	err := svc.AppointmentCancelled(context.Background(), sampleAppointment(), "schedule conflict")
	require.NoError(t, err)
	require.Len(t, sender.messages, 1)

	msg := sender.messages[0]
	assert.Equal(t, "Appointment Cancellation Confirmation", msg.Subject)
	assert.Contains(t, msg.Body, "Reason for cancellation: schedule conflict")
}

func TestSendFailurePropagatesDeliveryError(t *testing.T) {
	sender := &captureSender{fail: true}
	svc := NewService(sender, nil)

	err := svc.AppointmentCreated(context.Background(), sampleAppointment())
	var de *DeliveryError
	assert.True(t, errors.As(err, &de), "expected DeliveryError, got %v", err)
}

func TestNilSenderSkipsQuietly(t *testing.T) {
	svc := NewService(nil, nil)

	err := svc.AppointmentCreated(context.Background(), sampleAppointment())
	assert.NoError(t, err)
}
