package appointments

import (
	"context"
	"sync"
	"time"
)

// UpdateFields carries the mutable fields for a partial update. Nil fields
// are left untouched; id and user_id can never change.
type UpdateFields struct {
	DateTime *time.Time
	Purpose  *string
	Email    *string
}

// Store is an in-memory appointment store. A primary map keyed by
// appointment id is kept consistent with a per-user index ordered by
// creation time. All operations are atomic with respect to each other; a
// single mutex over the whole store is sufficient for the expected load.
type Store struct {
	mu            sync.RWMutex
	appointments  map[string]*Appointment
	byUser        map[string][]string
	cancellations map[string]Cancellation
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		appointments:  make(map[string]*Appointment),
		byUser:        make(map[string][]string),
		cancellations: make(map[string]Cancellation),
	}
}

// Insert stores a new appointment. The caller guarantees id uniqueness.
func (s *Store) Insert(ctx context.Context, appt Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := appt
	s.appointments[appt.ID] = &stored
	s.byUser[appt.UserID] = append(s.byUser[appt.UserID], appt.ID)
	return nil
}

// Get returns the appointment with the given id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	appt, ok := s.appointments[id]
	if !ok {
		return Appointment{}, ErrNotFound
	}
	return *appt, nil
}

// ListByUser returns all live appointments for a user in creation order.
// A user with no appointments yields an empty slice, not an error.
func (s *Store) ListByUser(ctx context.Context, userID string) ([]Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byUser[userID]
	out := make([]Appointment, 0, len(ids))
	for _, id := range ids {
		if appt, ok := s.appointments[id]; ok {
			out = append(out, *appt)
		}
	}
	return out, nil
}

// Update replaces only the supplied mutable fields of the appointment,
// returning the updated record. Fails with ErrNotFound for unknown ids.
func (s *Store) Update(ctx context.Context, id string, fields UpdateFields) (Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	appt, ok := s.appointments[id]
	if !ok {
		return Appointment{}, ErrNotFound
	}
	if fields.DateTime != nil {
		appt.DateTime = fields.DateTime.UTC()
	}
	if fields.Purpose != nil {
		appt.Purpose = *fields.Purpose
	}
	if fields.Email != nil {
		appt.Email = *fields.Email
	}
	return *appt, nil
}

// Delete removes the appointment and its index entry. Deletion is permanent;
// the id is never reused.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	appt, ok := s.appointments[id]
	if !ok {
		return ErrNotFound
	}
	delete(s.appointments, id)

	ids := s.byUser[appt.UserID]
	for i, existing := range ids {
		if existing == id {
			s.byUser[appt.UserID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(s.byUser[appt.UserID]) == 0 {
		delete(s.byUser, appt.UserID)
	}
	return nil
}

// LogCancellation records the reason an appointment was cancelled. The log
// outlives the appointment record itself.
func (s *Store) LogCancellation(ctx context.Context, id, reason string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancellations[id] = Cancellation{
		AppointmentID: id,
		Reason:        reason,
		Timestamp:     at,
	}
}

// CancellationFor returns the logged cancellation for an appointment id.
func (s *Store) CancellationFor(ctx context.Context, id string) (Cancellation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.cancellations[id]
	return c, ok
}
