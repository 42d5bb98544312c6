package appointments

import (
	"regexp"
	"strings"
	"time"
)

// StatusScheduled is the status every live appointment carries. Deletion is
// physical, so no other states exist.
const StatusScheduled = "scheduled"

// Appointment represents a scheduled appointment owned by a user.
type Appointment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	DateTime  time.Time `json:"date_time"`
	Purpose   string    `json:"purpose"`
	Status    string    `json:"status"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Cancellation records why an appointment was deleted.
type Cancellation struct {
	AppointmentID string    `json:"appointment_id"`
	Reason        string    `json:"reason"`
	Timestamp     time.Time `json:"timestamp"`
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// CreateAppointmentRequest is the request body for creating an appointment.
type CreateAppointmentRequest struct {
	UserID   string `json:"user_id"`
	DateTime string `json:"date_time"`
	Purpose  string `json:"purpose"`
	Email    string `json:"email"`
}

// Validate checks all required fields before any store mutation.
func (r *CreateAppointmentRequest) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return ErrMissingUserID
	}
	if strings.TrimSpace(r.DateTime) == "" {
		return ErrMissingDateTime
	}
	if strings.TrimSpace(r.Purpose) == "" {
		return ErrMissingPurpose
	}
	if !emailPattern.MatchString(r.Email) {
		return ErrInvalidEmail
	}
	return nil
}

// UpdateAppointmentRequest is the request body for a partial update. Nil
// fields are left unchanged.
type UpdateAppointmentRequest struct {
	DateTime *string `json:"date_time,omitempty"`
	Purpose  *string `json:"purpose,omitempty"`
	Email    *string `json:"email,omitempty"`
}

// Validate checks only the fields that were supplied.
func (r *UpdateAppointmentRequest) Validate() error {
	if r.Purpose != nil && strings.TrimSpace(*r.Purpose) == "" {
		return ErrMissingPurpose
	}
	if r.Email != nil && !emailPattern.MatchString(*r.Email) {
		return ErrInvalidEmail
	}
	return nil
}
