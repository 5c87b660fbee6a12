// Package eligibility decides whether a worker may apply to a task.
package eligibility

import (
	"errors"
	"fmt"

	"github.com/iliyamo/gig-marketplace/internal/model"
	"github.com/iliyamo/gig-marketplace/internal/registration"
)

// ErrOffline is returned when the user has not marked themselves online.
var ErrOffline = errors.New("user must be online to apply for tasks")

// StatusError is returned when the user is online but not fully registered.
type StatusError struct {
	Status registration.Status
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("user must be fully registered to apply for tasks (registration status %d, required %d)",
		int(e.Status), int(registration.Verified))
}

// CanApply returns nil when u is online and verified.  Presence is checked
// first, so an offline user that is also unverified gets ErrOffline.
func CanApply(u *model.User) error {
	if !u.IsOnline {
		return ErrOffline
	}
	if s := registration.Status(u.RegistrationStatus); s != registration.Verified {
		return &StatusError{Status: s}
	}
	return nil
}
