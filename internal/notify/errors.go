package notify

import (
	"errors"
	"fmt"
)

var errNotConfigured = errors.New("sender not configured")

func statusError(code int) error {
	return fmt.Errorf("transport returned status %d", code)
}

// DeliveryError reports a transport-level delivery failure (auth rejected,
// connection refused, invalid recipient). It carries the transport's
// diagnostic and is non-fatal to the operation that triggered the send.
type DeliveryError struct {
	Transport string
	Err       error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("notify: %s delivery failed: %v", e.Transport, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
