package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/gig-marketplace/internal/model"
	"github.com/iliyamo/gig-marketplace/internal/repository"
)

var companyRelations = repository.CompanyRelations{Tasks: true}

// ListCompanies handles GET /companies
func (h *Handler) ListCompanies(c echo.Context) error {
	items, err := h.Companies.List(c.Request().Context(), companyRelations)
	if err != nil {
		return fail(c, err, "fetch companies")
	}
	return c.JSON(http.StatusOK, items)
}

// CreateCompany handles POST /companies
func (h *Handler) CreateCompany(c echo.Context) error {
	var body struct {
		CompanyName  string `json:"company_name" validate:"required,notblank,max=100"`
		ContactEmail string `json:"contact_email" validate:"required,notblank,email,max=50"`
		ContactPhone string `json:"contact_phone" validate:"required,notblank,max=20"`
		Address      string `json:"address" validate:"required,notblank"`
	}
	if err := c.Bind(&body); err != nil {
		return fail(c, errInvalidBody, "create company")
	}
	body.ContactEmail = strings.ToLower(strings.TrimSpace(body.ContactEmail))
	if err := c.Validate(&body); err != nil {
		return fail(c, err, "create company")
	}
	company := &model.Company{
		CompanyName:  strings.TrimSpace(body.CompanyName),
		ContactEmail: body.ContactEmail,
		ContactPhone: strings.TrimSpace(body.ContactPhone),
		Address:      strings.TrimSpace(body.Address),
	}
	if err := h.Companies.Create(c.Request().Context(), company); err != nil {
		return fail(c, err, "create company")
	}
	return c.JSON(http.StatusCreated, company)
}

// GetCompany handles GET /companies/:id
func (h *Handler) GetCompany(c echo.Context) error {
	company, err := h.Companies.GetByID(c.Request().Context(), c.Param("id"), companyRelations)
	if err != nil {
		return fail(c, err, "fetch company")
	}
	return c.JSON(http.StatusOK, company)
}
