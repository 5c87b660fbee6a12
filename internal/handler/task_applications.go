package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/gig-marketplace/internal/eligibility"
	"github.com/iliyamo/gig-marketplace/internal/queue"
	"github.com/iliyamo/gig-marketplace/internal/repository"
)

// ListTaskApplications handles GET /task-applications
func (h *Handler) ListTaskApplications(c echo.Context) error {
	rel := repository.TaskApplicationRelations{User: true, Task: true, Payment: true}
	items, err := h.Applications.List(c.Request().Context(), rel)
	if err != nil {
		return fail(c, err, "fetch task applications")
	}
	return c.JSON(http.StatusOK, items)
}

// CreateTaskApplication handles POST /task-applications.  The task and the
// user must exist, and the user must pass the eligibility guard, before
// anything is written.
func (h *Handler) CreateTaskApplication(c echo.Context) error {
	var body struct {
		TaskID string `json:"task_id" validate:"required,notblank"`
		UserID string `json:"user_id" validate:"required,notblank"`
	}
	if err := bindAndValidate(c, &body); err != nil {
		return fail(c, err, "create task application")
	}
	ctx := c.Request().Context()
	task, err := h.Tasks.GetByID(ctx, strings.TrimSpace(body.TaskID), repository.TaskRelations{})
	if err != nil {
		return fail(c, err, "create task application")
	}
	u, err := h.Users.GetByID(ctx, strings.TrimSpace(body.UserID), repository.UserRelations{})
	if err != nil {
		return fail(c, err, "create task application")
	}
	if err := eligibility.CanApply(u); err != nil {
		return fail(c, err, "create task application")
	}
	app, err := h.Applications.Create(ctx, task.ID, u.ID)
	if err != nil {
		return fail(c, err, "create task application")
	}
	h.Events.Publish(ctx, queue.TaskApplicationCreated{
		ApplicationID: app.ID,
		TaskID:        app.TaskID,
		UserID:        app.UserID,
		Status:        app.Status,
		AppliedAt:     app.AppliedAt.Format(time.RFC3339),
	})
	return c.JSON(http.StatusCreated, app)
}
