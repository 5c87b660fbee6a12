package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/gig-marketplace/internal/model"
	"github.com/iliyamo/gig-marketplace/internal/registration"
	"github.com/iliyamo/gig-marketplace/internal/repository"
)

// ListBankDetails handles GET /bank-details
func (h *Handler) ListBankDetails(c echo.Context) error {
	items, err := h.BankDetails.List(c.Request().Context(), repository.BankDetailsRelations{User: true})
	if err != nil {
		return fail(c, err, "fetch bank details")
	}
	return c.JSON(http.StatusOK, items)
}

// CreateBankDetails handles POST /bank-details.  The user must have
// completed personal registration; the insert moves them to status 2.
func (h *Handler) CreateBankDetails(c echo.Context) error {
	var body struct {
		UserID        string  `json:"user_id" validate:"required,notblank"`
		AccountNumber string  `json:"account_number" validate:"required,notblank,max=20"`
		IFSCCode      string  `json:"ifsc_code" validate:"required,notblank,max=11"`
		BankName      *string `json:"bank_name" validate:"omitempty,max=255"`
		BranchName    *string `json:"branch_name" validate:"omitempty,max=255"`
	}
	if err := bindAndValidate(c, &body); err != nil {
		return fail(c, err, "create bank details")
	}
	ctx := c.Request().Context()
	u, err := h.Users.GetByID(ctx, strings.TrimSpace(body.UserID), repository.UserRelations{})
	if err != nil {
		return fail(c, err, "create bank details")
	}
	from := registration.Status(u.RegistrationStatus)
	to, err := registration.CanAddBankDetails(from)
	if err != nil {
		return fail(c, err, "create bank details")
	}
	b := &model.BankDetails{
		UserID:        u.ID,
		AccountNumber: strings.TrimSpace(body.AccountNumber),
		IFSCCode:      strings.ToUpper(strings.TrimSpace(body.IFSCCode)),
		BankName:      trimmed(body.BankName),
		BranchName:    trimmed(body.BranchName),
	}
	if err := h.BankDetails.CreateAndAdvance(ctx, b, from, to); err != nil {
		return fail(c, err, "create bank details")
	}
	h.advanced(ctx, u.ID, registration.AddBankDetails, from, to)
	return c.JSON(http.StatusCreated, echo.Map{
		"message":             "Bank details added",
		"bank_details":        b,
		"registration_status": int(to),
		"next_step":           registration.NextStep(to),
	})
}
