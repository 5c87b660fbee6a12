// Package registration implements the worker verification workflow.
//
// A user moves through four stages in one direction only:
//
//	New -> PersonalInfoDone -> BankInfoDone -> Verified
//
// Each move has a precondition, checked here without touching storage.
// Callers persist the move with a write conditioned on the observed status
// so that two concurrent requests cannot both advance the same user.
package registration

import (
	"fmt"
	"strings"
)

// Status is a user's registration stage as stored in users.registration_status.
type Status int

const (
	New              Status = 0 // mobile number registered
	PersonalInfoDone Status = 1 // identity, address and documents captured
	BankInfoDone     Status = 2 // payout account on record
	Verified         Status = 3 // police verification done, fully registered
)

func (s Status) String() string {
	switch s {
	case New:
		return "new"
	case PersonalInfoDone:
		return "personal_info_done"
	case BankInfoDone:
		return "bank_info_done"
	case Verified:
		return "verified"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Valid reports whether s is one of the four stages.
func (s Status) Valid() bool { return s >= New && s <= Verified }

// Transition names a step of the workflow.
type Transition string

const (
	CompletePersonal   Transition = "complete-personal-registration"
	AddBankDetails     Transition = "add-bank-details"
	PoliceVerification Transition = "complete-police-verification"
)

// NextStep is the hint returned to clients after a user reaches s.
func NextStep(s Status) string {
	switch s {
	case New:
		return "Complete personal registration"
	case PersonalInfoDone:
		return "Add bank details"
	case BankInfoDone:
		return "Complete police verification"
	case Verified:
		return "Registration complete; go online to apply for tasks"
	}
	return ""
}

// PreconditionError is returned when a transition cannot be taken.  Missing
// is set for CompletePersonal when request fields are absent; otherwise
// Status carries the blocking current status.
type PreconditionError struct {
	Transition Transition
	Status     Status
	Required   string   // human readable requirement on the status
	Missing    []string // request fields that were absent or blank
}

func (e *PreconditionError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("%s: missing required fields: %s", e.Transition, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("%s: registration status is %d, %s", e.Transition, int(e.Status), e.Required)
}

// PersonalFields lists, in order, the request fields that must all be
// present and non-blank to complete personal registration.
var PersonalFields = []string{
	"full_name",
	"current_address",
	"permanent_address",
	"vehicle_details",
	"aadhar_number",
	"qualification",
	"languages",
	"gender",
	"aadhar_front_url",
	"aadhar_back_url",
	"pan_url",
	"dl_url",
	"user_image_url",
	"pan_card",
}

// MissingPersonalFields returns the entries of PersonalFields whose value in
// fields is absent or blank after trimming, in PersonalFields order.
func MissingPersonalFields(fields map[string]string) []string {
	var missing []string
	for _, name := range PersonalFields {
		if strings.TrimSpace(fields[name]) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

// CanCompletePersonal checks the New -> PersonalInfoDone step.  The user
// must have a mobile number on record, be at New, and every personal field
// must be present.  Missing fields are reported before the status check so
// that a client sees everything it has to send.
func CanCompletePersonal(current Status, mobileNumber string, fields map[string]string) (Status, error) {
	if missing := MissingPersonalFields(fields); len(missing) > 0 {
		return current, &PreconditionError{Transition: CompletePersonal, Status: current, Missing: missing}
	}
	if strings.TrimSpace(mobileNumber) == "" {
		return current, &PreconditionError{Transition: CompletePersonal, Status: current, Missing: []string{"mobile_number"}}
	}
	if current != New {
		return current, &PreconditionError{Transition: CompletePersonal, Status: current, Required: "personal registration requires status 0"}
	}
	return PersonalInfoDone, nil
}

// CanAddBankDetails checks the PersonalInfoDone -> BankInfoDone step.  This
// gate is a floor (status >= 1), not an exact match.  The returned status
// never lowers the current one.
func CanAddBankDetails(current Status) (Status, error) {
	if current < PersonalInfoDone {
		return current, &PreconditionError{Transition: AddBankDetails, Status: current, Required: "bank details require status >= 1"}
	}
	if current > BankInfoDone {
		return current, nil
	}
	return BankInfoDone, nil
}

// CanCompletePoliceVerification checks the BankInfoDone -> Verified step.
// Unlike the bank gate it requires exactly BankInfoDone, so repeating the
// step on a verified user is rejected rather than treated as success.
func CanCompletePoliceVerification(current Status) (Status, error) {
	if current != BankInfoDone {
		return current, &PreconditionError{Transition: PoliceVerification, Status: current, Required: "police verification requires status 2"}
	}
	return Verified, nil
}
