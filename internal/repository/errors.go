// Package repository defines error types that are reused across multiple
// repositories. These values allow higher layers such as handlers to
// distinguish a missing record from a uniqueness conflict and from a
// transport failure without inspecting driver messages.
package repository

import (
	"errors"
	"fmt"

	"github.com/iliyamo/gig-marketplace/internal/database"
)

// ErrNotFound is matched by every *NotFoundError.  Handlers should
// translate it into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrConflict is matched by every *ConflictError.  It is returned when a
// write would violate a unique column.  Handlers should translate it into
// an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrStatusChanged is returned by a conditional status write when the
// user's registration status is no longer the one the caller observed.
var ErrStatusChanged = errors.New("registration status changed concurrently")

// Record kinds, used in error values.
const (
	KindUser            = "user"
	KindBankDetails     = "bank details"
	KindCompany         = "company"
	KindTask            = "task"
	KindTaskApplication = "task application"
	KindPayment         = "payment"
)

// NotFoundError reports which kind of record was missing.
type NotFoundError struct{ Kind string }

func (e *NotFoundError) Error() string { return e.Kind + " not found" }
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// Per-kind not-found values for errors.Is comparisons.
var (
	ErrUserNotFound            error = &NotFoundError{Kind: KindUser}
	ErrBankDetailsNotFound     error = &NotFoundError{Kind: KindBankDetails}
	ErrCompanyNotFound         error = &NotFoundError{Kind: KindCompany}
	ErrTaskNotFound            error = &NotFoundError{Kind: KindTask}
	ErrTaskApplicationNotFound error = &NotFoundError{Kind: KindTaskApplication}
	ErrPaymentNotFound         error = &NotFoundError{Kind: KindPayment}
)

// ConflictError names the unique column that a write collided with.  Field
// may be empty when the driver did not say.
type ConflictError struct {
	Kind  string
	Field string
}

func (e *ConflictError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s already exists", e.Kind)
	}
	return fmt.Sprintf("%s with this %s already exists", e.Kind, e.Field)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// writeErr converts driver constraint errors on a write of kind into
// repository errors.  A foreign-key failure means the referenced record
// vanished, reported as notFound.
func writeErr(kind string, err error, notFound error) error {
	if err == nil {
		return nil
	}
	if field, ok := database.DuplicateColumn(err); ok {
		return &ConflictError{Kind: kind, Field: field}
	}
	if notFound != nil && database.IsForeignKeyViolation(err) {
		return notFound
	}
	return err
}
