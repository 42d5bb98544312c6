package notify

import (
	"context"
	"fmt"

	"github.com/sathviktm/AI-Health-Assistant/internal/appointments"
	"github.com/sathviktm/AI-Health-Assistant/pkg/logging"
)

const (
	dateLayout = "Monday, January 2, 2006"
	timeLayout = "3:04 PM"
)

// Service formats and delivers appointment notification emails. Each send is
// a single best-effort attempt; failures surface as DeliveryError and are
// never retried here.
type Service struct {
	email  EmailSender
	logger *logging.Logger
}

// NewService creates a notification service.
func NewService(email EmailSender, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		email:  email,
		logger: logger,
	}
}

// AppointmentCreated sends a creation-confirmation email.
func (s *Service) AppointmentCreated(ctx context.Context, appt appointments.Appointment) error {
	body := fmt.Sprintf(`Dear Patient,

Your appointment has been confirmed:

Date: %s
Time: %s
Purpose: %s
Appointment ID: %s

If you need to reschedule or cancel, please contact us with your appointment ID.

Thank you,
Health Assistant Team`,
		appt.DateTime.Format(dateLayout),
		appt.DateTime.Format(timeLayout),
		appt.Purpose,
		appt.ID,
	)

	return s.send(ctx, appt.Email, "Appointment Confirmation", body)
}

// AppointmentUpdated sends an update-notification email.
func (s *Service) AppointmentUpdated(ctx context.Context, appt appointments.Appointment) error {
	body := fmt.Sprintf(`Dear Patient,

Your appointment has been updated:

Date: %s
Time: %s
Purpose: %s
Appointment ID: %s

If you need to make further changes, please contact us with your appointment ID.

Thank you,
Health Assistant Team`,
		appt.DateTime.Format(dateLayout),
		appt.DateTime.Format(timeLayout),
		appt.Purpose,
		appt.ID,
	)

	return s.send(ctx, appt.Email, "Appointment Update Notification", body)
}

// AppointmentCancelled sends a cancellation confirmation carrying the reason.
func (s *Service) AppointmentCancelled(ctx context.Context, appt appointments.Appointment, reason string) error {
	body := fmt.Sprintf(`Dear Patient,

Your appointment has been cancelled:

Date: %s
Time: %s
Purpose: %s
Reason for cancellation: %s

If you wish to reschedule, please contact us.

Thank you,
Health Assistant Team`,
		appt.DateTime.Format(dateLayout),
		appt.DateTime.Format(timeLayout),
		appt.Purpose,
		reason,
	)

	return s.send(ctx, appt.Email, "Appointment Cancellation Confirmation", body)
}

func (s *Service) send(ctx context.Context, to, subject, body string) error {
	if s.email == nil {
		s.logger.Debug("notify: email sender not configured, skipping", "subject", subject)
		return nil
	}
	return s.email.Send(ctx, EmailMessage{
		To:      to,
		Subject: subject,
		Body:    body,
	})
}

var _ appointments.Notifier = (*Service)(nil)
