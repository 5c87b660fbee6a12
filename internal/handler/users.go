package handler // handler package contains the worker registration endpoints

import (
	"context"  // context carries the request scope to the publisher
	"errors"   // errors matches the not-found sentinel
	"net/http" // http provides status code constants
	"strings"  // strings trims incoming values
	"time"     // time stamps published events

	"github.com/labstack/echo/v4" // echo is the web framework used for handlers

	"github.com/iliyamo/gig-marketplace/internal/model"        // model holds the record types
	"github.com/iliyamo/gig-marketplace/internal/queue"        // queue defines event payloads
	"github.com/iliyamo/gig-marketplace/internal/registration" // registration holds the workflow rules
	"github.com/iliyamo/gig-marketplace/internal/repository"   // repository is the entity store
)

var userRelations = repository.UserRelations{BankDetails: true, TaskApplications: true}

// registered is the body returned by every registration step.
func registered(u *model.User, message string) echo.Map {
	return echo.Map{
		"message":   message,
		"user":      u,
		"next_step": registration.NextStep(registration.Status(u.RegistrationStatus)),
	}
}

// ListUsers handles GET /users
func (h *Handler) ListUsers(c echo.Context) error {
	users, err := h.Users.List(c.Request().Context(), userRelations)
	if err != nil {
		return fail(c, err, "fetch users")
	}
	return c.JSON(http.StatusOK, users)
}

// CreateUser handles POST /users and registers a mobile number at status 0
func (h *Handler) CreateUser(c echo.Context) error {
	var body struct {
		MobileNumber string  `json:"mobile_number" validate:"required,notblank,len=10,number"` // ten digits, unique
		FullName     *string `json:"full_name" validate:"omitempty,max=100"`                   // optional display name
	}
	if err := c.Bind(&body); err != nil {
		return fail(c, errInvalidBody, "create user")
	}
	body.MobileNumber = strings.TrimSpace(body.MobileNumber)
	if err := c.Validate(&body); err != nil {
		return fail(c, err, "create user")
	}
	u, err := h.Users.Create(c.Request().Context(), body.MobileNumber, trimmed(body.FullName))
	if err != nil {
		return fail(c, err, "create user")
	}
	return c.JSON(http.StatusCreated, registered(u, "User registered"))
}

// GetUser handles GET /users/:id
func (h *Handler) GetUser(c echo.Context) error {
	u, err := h.Users.GetByID(c.Request().Context(), c.Param("id"), userRelations)
	if err != nil {
		return fail(c, err, "fetch user")
	}
	return c.JSON(http.StatusOK, u)
}

// CheckMobile handles GET /users/check/:mobile and reports whether the
// mobile number is already registered
func (h *Handler) CheckMobile(c echo.Context) error {
	u, err := h.Users.GetByMobile(c.Request().Context(), c.Param("mobile"))
	if errors.Is(err, repository.ErrUserNotFound) {
		return c.JSON(http.StatusOK, echo.Map{"exists": false})
	}
	if err != nil {
		return fail(c, err, "check mobile number")
	}
	return c.JSON(http.StatusOK, echo.Map{"exists": true, "user": u})
}

// UpdateDocuments handles PATCH /users/:id/documents.  Any subset of the
// three document URLs may be sent regardless of registration status.
func (h *Handler) UpdateDocuments(c echo.Context) error {
	var body struct {
		AadharURL *string `json:"aadhar_url" validate:"omitempty,max=512"` // stored as aadhar_front_url
		DLURL     *string `json:"dl_url" validate:"omitempty,max=512"`
		PanURL    *string `json:"pan_url" validate:"omitempty,max=512"`
	}
	if err := c.Bind(&body); err != nil {
		return fail(c, errInvalidBody, "update documents")
	}
	body.AadharURL, body.DLURL, body.PanURL = trimmed(body.AadharURL), trimmed(body.DLURL), trimmed(body.PanURL)
	docs := model.Documents{AadharFrontURL: body.AadharURL, DLURL: body.DLURL, PanURL: body.PanURL}
	if docs.Empty() {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":          "At least one document URL is required",
			"missing_fields": []string{"aadhar_url", "dl_url", "pan_url"},
		})
	}
	if err := c.Validate(&body); err != nil {
		return fail(c, err, "update documents")
	}
	ctx := c.Request().Context()
	id := c.Param("id")
	if _, err := h.Users.GetByID(ctx, id, repository.UserRelations{}); err != nil {
		return fail(c, err, "update documents")
	}
	u, err := h.Users.UpdateDocuments(ctx, id, docs)
	if err != nil {
		return fail(c, err, "update documents")
	}
	return c.JSON(http.StatusCreated, registered(u, "Documents updated"))
}

// CompletePersonalRegistration handles PATCH /users/:id/complete-personal-registration
// and moves the user from status 0 to 1
func (h *Handler) CompletePersonalRegistration(c echo.Context) error {
	var body struct {
		FullName         string  `json:"full_name" validate:"max=100"`
		CurrentAddress   string  `json:"current_address"`
		PermanentAddress string  `json:"permanent_address"`
		VehicleDetails   string  `json:"vehicle_details" validate:"max=255"`
		AadharNumber     string  `json:"aadhar_number" validate:"max=12"`
		DrivingLicense   *string `json:"driving_license" validate:"omitempty,max=15"` // optional
		PanCard          string  `json:"pan_card" validate:"max=10"`
		Qualification    string  `json:"qualification" validate:"max=255"`
		Languages        string  `json:"languages" validate:"max=255"`
		Gender           string  `json:"gender" validate:"omitempty,oneof=male female other"`
		AadharFrontURL   string  `json:"aadhar_front_url" validate:"max=512"`
		AadharBackURL    string  `json:"aadhar_back_url" validate:"max=512"`
		PanURL           string  `json:"pan_url" validate:"max=512"`
		DLURL            string  `json:"dl_url" validate:"max=512"`
		UserImageURL     string  `json:"user_image_url" validate:"max=512"`
	}
	if err := c.Bind(&body); err != nil {
		return fail(c, errInvalidBody, "complete personal registration")
	}
	for _, s := range []*string{
		&body.FullName, &body.CurrentAddress, &body.PermanentAddress, &body.VehicleDetails,
		&body.AadharNumber, &body.PanCard, &body.Qualification, &body.Languages, &body.Gender,
		&body.AadharFrontURL, &body.AadharBackURL, &body.PanURL, &body.DLURL, &body.UserImageURL,
	} {
		*s = strings.TrimSpace(*s)
	}
	body.DrivingLicense = trimmed(body.DrivingLicense)
	body.Gender = strings.ToLower(body.Gender)
	info := model.PersonalInfo{
		FullName:         body.FullName,
		CurrentAddress:   body.CurrentAddress,
		PermanentAddress: body.PermanentAddress,
		VehicleDetails:   body.VehicleDetails,
		AadharNumber:     body.AadharNumber,
		DrivingLicense:   body.DrivingLicense,
		PanCard:          body.PanCard,
		Qualification:    body.Qualification,
		Languages:        body.Languages,
		Gender:           body.Gender,
		AadharFrontURL:   body.AadharFrontURL,
		AadharBackURL:    body.AadharBackURL,
		PanURL:           body.PanURL,
		DLURL:            body.DLURL,
		UserImageURL:     body.UserImageURL,
	}
	fields := personalFields(info)

	// 1. body completeness, 2. value formats, 3. user exists, 4. workflow precondition
	if missing := registration.MissingPersonalFields(fields); len(missing) > 0 {
		return fail(c, &registration.PreconditionError{Transition: registration.CompletePersonal, Missing: missing}, "complete personal registration")
	}
	if err := c.Validate(&body); err != nil {
		return fail(c, err, "complete personal registration")
	}
	ctx := c.Request().Context()
	id := c.Param("id")
	u, err := h.Users.GetByID(ctx, id, repository.UserRelations{})
	if err != nil {
		return fail(c, err, "complete personal registration")
	}
	from := registration.Status(u.RegistrationStatus)
	to, err := registration.CanCompletePersonal(from, u.MobileNumber, fields)
	if err != nil {
		return fail(c, err, "complete personal registration")
	}
	u, err = h.Users.CompletePersonal(ctx, id, info, from, to)
	if err != nil {
		return fail(c, err, "complete personal registration")
	}
	h.advanced(ctx, u.ID, registration.CompletePersonal, from, to)
	return c.JSON(http.StatusCreated, registered(u, "Personal registration completed"))
}

// ToggleOnline handles PATCH /users/:id/toggle-online.  An explicit
// is_online sets the flag; an empty body flips it.
func (h *Handler) ToggleOnline(c echo.Context) error {
	var body struct {
		IsOnline *bool `json:"is_online"`
	}
	if err := c.Bind(&body); err != nil {
		return fail(c, errInvalidBody, "toggle online status")
	}
	ctx := c.Request().Context()
	id := c.Param("id")
	if _, err := h.Users.GetByID(ctx, id, repository.UserRelations{}); err != nil {
		return fail(c, err, "toggle online status")
	}
	u, err := h.Users.SetOnline(ctx, id, body.IsOnline)
	if err != nil {
		return fail(c, err, "toggle online status")
	}
	msg := "User is now offline"
	if u.IsOnline {
		msg = "User is now online"
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": msg, "user": u, "is_online": u.IsOnline})
}

// CompletePoliceVerification handles PATCH /users/:id/complete-police-verification
// and moves the user from exactly status 2 to 3
func (h *Handler) CompletePoliceVerification(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")
	u, err := h.Users.GetByID(ctx, id, repository.UserRelations{})
	if err != nil {
		return fail(c, err, "complete police verification")
	}
	from := registration.Status(u.RegistrationStatus)
	to, err := registration.CanCompletePoliceVerification(from)
	if err != nil {
		return fail(c, err, "complete police verification")
	}
	u, err = h.Users.AdvanceStatus(ctx, id, from, to)
	if err != nil {
		return fail(c, err, "complete police verification")
	}
	h.advanced(ctx, u.ID, registration.PoliceVerification, from, to)
	return c.JSON(http.StatusCreated, registered(u, "Police verification completed"))
}

// advanced publishes a registration status change.
func (h *Handler) advanced(ctx context.Context, userID string, t registration.Transition, from, to registration.Status) {
	if from == to {
		return
	}
	h.Events.Publish(ctx, queue.RegistrationAdvanced{
		UserID:     userID,
		Transition: string(t),
		From:       int(from),
		To:         int(to),
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	})
}

// personalFields keys the personal registration values by request field name.
func personalFields(info model.PersonalInfo) map[string]string {
	return map[string]string{
		"full_name":         info.FullName,
		"current_address":   info.CurrentAddress,
		"permanent_address": info.PermanentAddress,
		"vehicle_details":   info.VehicleDetails,
		"aadhar_number":     info.AadharNumber,
		"qualification":     info.Qualification,
		"languages":         info.Languages,
		"gender":            info.Gender,
		"aadhar_front_url":  info.AadharFrontURL,
		"aadhar_back_url":   info.AadharBackURL,
		"pan_url":           info.PanURL,
		"dl_url":            info.DLURL,
		"user_image_url":    info.UserImageURL,
		"pan_card":          info.PanCard,
	}
}

// trimmed returns nil for a nil or blank value and the trimmed value otherwise.
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
