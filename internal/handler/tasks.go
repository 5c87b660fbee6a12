package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/gig-marketplace/internal/model"
	"github.com/iliyamo/gig-marketplace/internal/repository"
)

var taskRelations = repository.TaskRelations{Company: true, Applications: true}

// ListTasks handles GET /tasks
func (h *Handler) ListTasks(c echo.Context) error {
	items, err := h.Tasks.List(c.Request().Context(), taskRelations)
	if err != nil {
		return fail(c, err, "fetch tasks")
	}
	return c.JSON(http.StatusOK, items)
}

// CreateTask handles POST /tasks for an existing company
func (h *Handler) CreateTask(c echo.Context) error {
	var body struct {
		CompanyID               string          `json:"company_id" validate:"required,notblank"`
		Title                   string          `json:"title" validate:"required,notblank,max=100"`
		JobRole                 string          `json:"job_role" validate:"required,notblank,max=100"`
		OfferedAmount           float64         `json:"offered_amount" validate:"required,gt=0"`
		Location                string          `json:"location" validate:"required,notblank"`
		LocationCoordinate      json.RawMessage `json:"location_coordinate" validate:"required,jsondoc"`
		RequiredNumberOfWorkers int             `json:"required_number_of_workers" validate:"required,gt=0"`
		ExpiresAt               *string         `json:"expires_at" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"` // RFC 3339
	}
	if err := bindAndValidate(c, &body); err != nil {
		return fail(c, err, "create task")
	}
	task := &model.Task{
		CompanyID:               strings.TrimSpace(body.CompanyID),
		Title:                   strings.TrimSpace(body.Title),
		JobRole:                 strings.TrimSpace(body.JobRole),
		OfferedAmount:           body.OfferedAmount,
		Location:                strings.TrimSpace(body.Location),
		LocationCoordinate:      body.LocationCoordinate,
		RequiredNumberOfWorkers: body.RequiredNumberOfWorkers,
	}
	if body.ExpiresAt != nil {
		ts, err := time.Parse(time.RFC3339, *body.ExpiresAt)
		if err != nil {
			return fail(c, errInvalidBody, "create task")
		}
		ts = ts.UTC()
		task.ExpiresAt = &ts
	}

	ctx := c.Request().Context()
	if _, err := h.Companies.GetByID(ctx, task.CompanyID, repository.CompanyRelations{}); err != nil {
		return fail(c, err, "create task")
	}
	if err := h.Tasks.Create(ctx, task); err != nil {
		return fail(c, err, "create task")
	}
	return c.JSON(http.StatusCreated, task)
}

// GetTask handles GET /tasks/:id
func (h *Handler) GetTask(c echo.Context) error {
	task, err := h.Tasks.GetByID(c.Request().Context(), c.Param("id"), taskRelations)
	if err != nil {
		return fail(c, err, "fetch task")
	}
	return c.JSON(http.StatusOK, task)
}
