package appointments

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sathviktm/AI-Health-Assistant/internal/dates"
	"github.com/sathviktm/AI-Health-Assistant/pkg/logging"
)

// DefaultCancellationReason is recorded when a delete request carries no
// explicit reason.
const DefaultCancellationReason = "User requested cancellation"

// Notifier delivers appointment confirmation emails. Delivery is best-effort
// from the service's perspective.
type Notifier interface {
	AppointmentCreated(ctx context.Context, appt Appointment) error
	AppointmentUpdated(ctx context.Context, appt Appointment) error
	AppointmentCancelled(ctx context.Context, appt Appointment, reason string) error
}

// NotificationOutcome reports whether the best-effort notification for a
// mutation was attempted and whether it succeeded. A failed notification
// never rolls back the mutation that triggered it.
type NotificationOutcome struct {
	Attempted bool   `json:"attempted"`
	Sent      bool   `json:"sent"`
	Error     string `json:"error,omitempty"`
}

// MutationResult pairs a committed appointment mutation with its
// notification outcome.
type MutationResult struct {
	Appointment  Appointment
	Notification NotificationOutcome
}

// DeleteResult confirms a deletion and carries its notification outcome.
type DeleteResult struct {
	Appointment  Appointment
	Reason       string
	Notification NotificationOutcome
}

// Service orchestrates validation, date interpretation, store mutation and
// notification dispatch for appointments.
type Service struct {
	store         *Store
	parser        *dates.Parser
	notifier      Notifier
	logger        *logging.Logger
	notifyTimeout time.Duration
	now           func() time.Time
}

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithNotifyTimeout bounds each notification attempt so a slow mail
// transport cannot stall the mutation result.
func WithNotifyTimeout(d time.Duration) ServiceOption {
	return func(s *Service) {
		if d > 0 {
			s.notifyTimeout = d
		}
	}
}

// WithClock injects the reference clock used for date interpretation and
// creation timestamps.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates an appointment service. The notifier may be nil, in
// which case mutations succeed with an unattempted notification outcome.
func NewService(store *Store, parser *dates.Parser, notifier Notifier, logger *logging.Logger, opts ...ServiceOption) *Service {
	if store == nil {
		panic("appointments: store required")
	}
	if parser == nil {
		parser = dates.NewParser()
	}
	if logger == nil {
		logger = logging.Default()
	}
	s := &Service{
		store:         store,
		parser:        parser,
		notifier:      notifier,
		logger:        logger,
		notifyTimeout: 10 * time.Second,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates the request, resolves the date, assigns a fresh id,
// commits the record and sends a creation confirmation.
func (s *Service) Create(ctx context.Context, req CreateAppointmentRequest) (MutationResult, error) {
	if err := req.Validate(); err != nil {
		return MutationResult{}, err
	}

	now := s.now().UTC()
	dt, err := s.parser.Parse(req.DateTime, now)
	if err != nil {
		return MutationResult{}, err
	}

	appt := Appointment{
		ID:        uuid.NewString(),
		UserID:    strings.TrimSpace(req.UserID),
		DateTime:  dt,
		Purpose:   req.Purpose,
		Status:    StatusScheduled,
		Email:     req.Email,
		CreatedAt: now,
	}
	if err := s.store.Insert(ctx, appt); err != nil {
		return MutationResult{}, err
	}

	outcome := s.notify(ctx, appt.Email, "create", appt.ID, func(nctx context.Context) error {
		return s.notifier.AppointmentCreated(nctx, appt)
	})
	return MutationResult{Appointment: appt, Notification: outcome}, nil
}

// List returns the user's live appointments in creation order.
func (s *Service) List(ctx context.Context, userID string) ([]Appointment, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrMissingUserID
	}
	return s.store.ListByUser(ctx, userID)
}

// Update applies only the supplied fields, re-resolving the date when one is
// given, and sends an update notification.
func (s *Service) Update(ctx context.Context, id string, req UpdateAppointmentRequest) (MutationResult, error) {
	if err := req.Validate(); err != nil {
		return MutationResult{}, err
	}

	fields := UpdateFields{
		Purpose: req.Purpose,
		Email:   req.Email,
	}
	if req.DateTime != nil {
		dt, err := s.parser.Parse(*req.DateTime, s.now().UTC())
		if err != nil {
			return MutationResult{}, err
		}
		fields.DateTime = &dt
	}

	updated, err := s.store.Update(ctx, id, fields)
	if err != nil {
		return MutationResult{}, err
	}

	outcome := s.notify(ctx, updated.Email, "update", updated.ID, func(nctx context.Context) error {
		return s.notifier.AppointmentUpdated(nctx, updated)
	})
	return MutationResult{Appointment: updated, Notification: outcome}, nil
}

// Delete removes the appointment, logs the cancellation reason and sends a
// cancellation notice. Deleted ids stay gone; re-deleting fails with
// ErrNotFound.
func (s *Service) Delete(ctx context.Context, id, reason string) (DeleteResult, error) {
	appt, err := s.store.Get(ctx, id)
	if err != nil {
		return DeleteResult{}, err
	}

	if strings.TrimSpace(reason) == "" {
		reason = DefaultCancellationReason
	}
	s.store.LogCancellation(ctx, id, reason, s.now().UTC())

	if err := s.store.Delete(ctx, id); err != nil {
		return DeleteResult{}, err
	}

	outcome := s.notify(ctx, appt.Email, "delete", appt.ID, func(nctx context.Context) error {
		return s.notifier.AppointmentCancelled(nctx, appt, reason)
	})
	return DeleteResult{Appointment: appt, Reason: reason, Notification: outcome}, nil
}

// notify runs a single best-effort notification attempt under a bounded
// timeout. The mutation has already committed by the time this runs, so the
// two failure domains stay decoupled.
func (s *Service) notify(ctx context.Context, email, op, id string, send func(context.Context) error) NotificationOutcome {
	if s.notifier == nil || email == "" {
		return NotificationOutcome{}
	}

	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTimeout)
	defer cancel()

	if err := send(nctx); err != nil {
		s.logger.Warn("appointment notification failed",
			"op", op,
			"appointment_id", id,
			"error", err,
		)
		return NotificationOutcome{Attempted: true, Error: err.Error()}
	}
	return NotificationOutcome{Attempted: true, Sent: true}
}
