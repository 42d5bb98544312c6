package appointments

import "errors"

var (
	// ErrMissingUserID is returned when the user id is empty
	ErrMissingUserID = errors.New("user_id is required")

	// ErrMissingDateTime is returned when the date is empty
	ErrMissingDateTime = errors.New("date_time is required")

	// ErrMissingPurpose is returned when the purpose is empty
	ErrMissingPurpose = errors.New("purpose is required")

	// ErrInvalidEmail is returned when the email address is not plausible
	ErrInvalidEmail = errors.New("a valid email address is required")

	// ErrNotFound is returned when an appointment is not found
	ErrNotFound = errors.New("appointment not found")
)
