package events

import (
	"errors"
	"fmt"
)

// ErrNotificationDeliveryFailed is matched by every *DeliveryError.
var ErrNotificationDeliveryFailed = errors.New("notification delivery failed")

// DeliveryError wraps a failure raised while delivering one notification.
type DeliveryError struct {
	Notification Notification
	Err          error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("notification delivery failed: %s on %s: %v", e.Notification.Kind, e.Notification.Target, e.Err)
}

// Unwrap returns the underlying error.
func (e *DeliveryError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrNotificationDeliveryFailed) succeed.
func (e *DeliveryError) Is(target error) bool {
	return target == ErrNotificationDeliveryFailed
}

// PanicError wraps a panic recovered from a Raiser.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("raiser panicked: %v", e.Value)
}
