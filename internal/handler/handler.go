package handler // handler translates HTTP requests into store and workflow operations

import (
	"database/sql" // sql is the shared connection pool
	"errors"       // errors unwraps the domain error types
	"net/http"     // http provides status code constants
	"strings"      // strings builds client messages

	"github.com/labstack/echo/v4" // echo defines request context types

	"github.com/iliyamo/gig-marketplace/internal/eligibility"  // eligibility gates task applications
	"github.com/iliyamo/gig-marketplace/internal/events"       // events publishes domain events
	"github.com/iliyamo/gig-marketplace/internal/registration" // registration holds the workflow rules
	"github.com/iliyamo/gig-marketplace/internal/repository"   // repository is the entity store
	"github.com/iliyamo/gig-marketplace/internal/validation"   // validation reports body problems
)

// Handler bundles the repositories and the event publisher used by every endpoint.
type Handler struct {
	DB           *sql.DB                         // DB is probed by the health check
	Users        *repository.UserRepo            // Users persists workers and their status
	BankDetails  *repository.BankDetailsRepo     // BankDetails persists payout accounts
	Companies    *repository.CompanyRepo         // Companies persists employers
	Tasks        *repository.TaskRepo            // Tasks persists posted work
	Applications *repository.TaskApplicationRepo // Applications links users to tasks
	Payments     *repository.PaymentRepo         // Payments persists payout records
	Events       events.Publisher                // Events receives domain events, never nil
}

// New wires a Handler over db.  A nil publisher drops events.
func New(db *sql.DB, pub events.Publisher) *Handler {
	if db == nil {
		panic("nil db passed to handler.New")
	}
	if pub == nil {
		pub = events.Nop{}
	}
	return &Handler{
		DB:           db,
		Users:        repository.NewUserRepo(db),
		BankDetails:  repository.NewBankDetailsRepo(db),
		Companies:    repository.NewCompanyRepo(db),
		Tasks:        repository.NewTaskRepo(db),
		Applications: repository.NewTaskApplicationRepo(db),
		Payments:     repository.NewPaymentRepo(db),
		Events:       pub,
	}
}

// bindAndValidate decodes the JSON body into dst and runs its validate tags.
func bindAndValidate(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return errInvalidBody
	}
	return c.Validate(dst)
}

var errInvalidBody = errors.New("invalid request body")

// fail maps err to a status code and JSON body.  action completes the
// generic message used for unexpected failures, e.g. "create user".
func fail(c echo.Context, err error, action string) error {
	var (
		verr *validation.Error
		nf   *repository.NotFoundError
		ce   *repository.ConflictError
		pe   *registration.PreconditionError
		se   *eligibility.StatusError
	)
	switch {
	case errors.Is(err, errInvalidBody):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request body"})
	case errors.As(err, &verr):
		body := echo.Map{"error": verr.Error()}
		if len(verr.Missing) > 0 {
			body["missing_fields"] = verr.Missing
		}
		if len(verr.Invalid) > 0 {
			body["invalid_fields"] = verr.Invalid
		}
		return c.JSON(http.StatusBadRequest, body)
	case errors.As(err, &nf):
		return c.JSON(http.StatusNotFound, echo.Map{"error": capitalize(nf.Error())})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Referenced record not found"})
	case errors.As(err, &ce):
		body := echo.Map{"error": capitalize(ce.Error())}
		if ce.Field != "" {
			body["field"] = ce.Field
		}
		return c.JSON(http.StatusConflict, body)
	case errors.As(err, &pe):
		body := echo.Map{"error": capitalize(pe.Error())}
		if len(pe.Missing) > 0 {
			body["missing_fields"] = pe.Missing
		} else {
			body["registration_status"] = int(pe.Status)
		}
		return c.JSON(http.StatusBadRequest, body)
	case errors.Is(err, eligibility.ErrOffline):
		return c.JSON(http.StatusForbidden, echo.Map{"error": capitalize(err.Error()), "reason": "offline"})
	case errors.As(err, &se):
		return c.JSON(http.StatusForbidden, echo.Map{
			"error":               capitalize(se.Error()),
			"reason":              "registration_incomplete",
			"registration_status": int(se.Status),
		})
	case errors.Is(err, repository.ErrStatusChanged):
		return c.JSON(http.StatusConflict, echo.Map{"error": "Registration status changed, retry the request"})
	}
	c.Logger().Errorf("%s: %v", action, err) // raw cause stays in the log
	body := echo.Map{"error": "Failed to " + action}
	if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		body["request_id"] = id
	}
	return c.JSON(http.StatusInternalServerError, body)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
