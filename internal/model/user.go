package model

import "time"

// Gender values accepted for User.Gender.
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

// User is a worker registered with the marketplace.  It corresponds to a
// row in the `users` table.  Every optional column is a pointer so that NULL
// survives the round trip; the unique document columns rely on that because
// both backends allow any number of NULLs in a unique index.
//
// RegistrationStatus is the worker's verification stage (see package
// registration); it only ever moves forward.
type User struct {
	ID                 string    `json:"id"`                  // users.id (uuid)
	MobileNumber       string    `json:"mobile_number"`       // users.mobile_number, unique
	FullName           *string   `json:"full_name"`           // users.full_name
	CurrentAddress     *string   `json:"current_address"`     // users.current_address
	PermanentAddress   *string   `json:"permanent_address"`   // users.permanent_address
	VehicleDetails     *string   `json:"vehicle_details"`     // users.vehicle_details
	AadharNumber       *string   `json:"aadhar_number"`       // users.aadhar_number, unique
	DrivingLicense     *string   `json:"driving_license"`     // users.driving_license, unique
	PanCard            *string   `json:"pan_card"`            // users.pan_card, unique
	IsOnline           bool      `json:"is_online"`           // users.is_online
	AadharFrontURL     *string   `json:"aadhar_front_url"`    // users.aadhar_front_url, unique
	AadharBackURL      *string   `json:"aadhar_back_url"`     // users.aadhar_back_url, unique
	DLURL              *string   `json:"dl_url"`              // users.dl_url, unique
	PanURL             *string   `json:"pan_url"`             // users.pan_url, unique
	UserImageURL       *string   `json:"user_image_url"`      // users.user_image_url, unique
	RegistrationStatus int       `json:"registration_status"` // users.registration_status (0..3)
	Qualification      *string   `json:"qualification"`       // users.qualification
	Languages          *string   `json:"languages"`           // users.languages
	Gender             *string   `json:"gender"`              // users.gender (male/female/other)
	CreatedAt          time.Time `json:"created_at"`          // users.created_at
	UpdatedAt          time.Time `json:"updated_at"`          // users.updated_at

	// Relations, populated only when requested.
	BankDetails      *BankDetails      `json:"bankDetails,omitempty"`
	TaskApplications []TaskApplication `json:"taskApplications,omitempty"`
}

// PersonalInfo is the field set written by the personal registration step.
type PersonalInfo struct {
	FullName         string
	CurrentAddress   string
	PermanentAddress string
	VehicleDetails   string
	AadharNumber     string
	DrivingLicense   *string // optional in the request, unique when present
	PanCard          string
	Qualification    string
	Languages        string
	Gender           string
	AadharFrontURL   string
	AadharBackURL    string
	PanURL           string
	DLURL            string
	UserImageURL     string
}

// Documents holds the document URLs that may be captured before personal
// registration.  Nil fields are left untouched.
type Documents struct {
	AadharFrontURL *string
	DLURL          *string
	PanURL         *string
}

// Empty reports whether no document is set.
func (d Documents) Empty() bool {
	return d.AadharFrontURL == nil && d.DLURL == nil && d.PanURL == nil
}
