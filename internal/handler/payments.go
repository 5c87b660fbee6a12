package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/gig-marketplace/internal/model"
	"github.com/iliyamo/gig-marketplace/internal/queue"
	"github.com/iliyamo/gig-marketplace/internal/repository"
)

// ListPayments handles GET /payments
func (h *Handler) ListPayments(c echo.Context) error {
	items, err := h.Payments.List(c.Request().Context(), repository.PaymentRelations{TaskApplication: true})
	if err != nil {
		return fail(c, err, "fetch payments")
	}
	return c.JSON(http.StatusOK, items)
}

// CreatePayment handles POST /payments.  The record is passive: status
// starts as pending and no gateway is contacted.
func (h *Handler) CreatePayment(c echo.Context) error {
	var body struct {
		TaskApplicationID string  `json:"task_application_id" validate:"required,notblank"`
		Amount            float64 `json:"amount" validate:"required,gt=0"`
		PaymentMethod     *string `json:"payment_method" validate:"omitempty,max=50"`
		TransactionID     *string `json:"transaction_id" validate:"omitempty,max=255"`
	}
	if err := bindAndValidate(c, &body); err != nil {
		return fail(c, err, "create payment")
	}
	ctx := c.Request().Context()
	app, err := h.Applications.GetByID(ctx, strings.TrimSpace(body.TaskApplicationID), repository.TaskApplicationRelations{})
	if err != nil {
		return fail(c, err, "create payment")
	}
	p := &model.Payment{
		TaskApplicationID: app.ID,
		Amount:            body.Amount,
		PaymentMethod:     trimmed(body.PaymentMethod),
		TransactionID:     trimmed(body.TransactionID),
	}
	if err := h.Payments.Create(ctx, p); err != nil {
		return fail(c, err, "create payment")
	}
	ev := queue.PaymentCreated{
		PaymentID:         p.ID,
		TaskApplicationID: p.TaskApplicationID,
		Amount:            p.Amount,
		PaymentStatus:     p.PaymentStatus,
		CreatedAt:         p.CreatedAt.Format(time.RFC3339),
	}
	if p.TransactionID != nil {
		ev.TransactionID = *p.TransactionID
	}
	h.Events.Publish(ctx, ev)
	return c.JSON(http.StatusCreated, p)
}
