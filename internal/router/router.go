package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"                   // import the Echo web framework to handle routing
	echomw "github.com/labstack/echo/v4/middleware" // import Echo's stock request id, logging and recover middleware
	"github.com/redis/go-redis/v9"                  // import the Redis client shared by the cache and the limiter

	"github.com/iliyamo/gig-marketplace/internal/config"     // import cache and rate limit settings
	"github.com/iliyamo/gig-marketplace/internal/handler"    // import the handlers that implement the endpoints
	"github.com/iliyamo/gig-marketplace/internal/middleware" // import the Redis backed middleware and the error handler
	"github.com/iliyamo/gig-marketplace/internal/validation" // import the request body validator
)

// Cache scopes.  A write to a scope purges every cached read in it.
const (
	scopeCompanies = "companies"
	scopeTasks     = "tasks"
)

// Deps carries the optional infrastructure the routes use.  A nil Redis
// client turns the cache and the rate limiter into pass-throughs.
type Deps struct {
	Redis     *redis.Client
	Cache     config.CacheConfig
	RateLimit config.RateLimitConfig
}

// New builds an Echo instance with the validator, the JSON error handler,
// the stock request middleware and every route registered.
func New(h *handler.Handler, deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = validation.New()
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Stamp each request with an id, log one line per request and turn panics into 500s.
	e.Use(echomw.RequestID())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			c.Logger().Infof("%s %s status=%d latency=%s request_id=%s", v.Method, v.URI, v.Status, v.Latency, v.RequestID)
			return nil
		},
	}))
	e.Use(echomw.Recover())

	RegisterRoutes(e, h, deps)
	return e
}

// RegisterRoutes maps every endpoint onto e.  Mutating routes go through the
// token bucket; company and task reads are cached in Redis and invalidated
// by writes to the same scope.
func RegisterRoutes(e *echo.Echo, h *handler.Handler, deps Deps) {
	limit := middleware.NewTokenBucket(deps.RateLimit, deps.Redis)
	cache := func(scope string) echo.MiddlewareFunc { return middleware.NewRedisCache(deps.Cache, deps.Redis, scope) }
	purge := func(scopes ...string) echo.MiddlewareFunc {
		return middleware.InvalidateCache(deps.Cache, deps.Redis, scopes...)
	}

	// Store connectivity probe.
	e.GET("/health", h.Health)

	// Worker registration workflow.
	e.GET("/users", h.ListUsers)
	e.POST("/users", h.CreateUser, limit)
	e.GET("/users/check/:mobile", h.CheckMobile)
	e.GET("/users/:id", h.GetUser)
	e.PATCH("/users/:id/documents", h.UpdateDocuments, limit)
	e.PATCH("/users/:id/complete-personal-registration", h.CompletePersonalRegistration, limit)
	e.PATCH("/users/:id/toggle-online", h.ToggleOnline, limit)
	e.PATCH("/users/:id/complete-police-verification", h.CompletePoliceVerification, limit)

	e.GET("/bank-details", h.ListBankDetails)
	e.POST("/bank-details", h.CreateBankDetails, limit)

	// Catalog; a new task also changes the company's task list.
	e.GET("/companies", h.ListCompanies, cache(scopeCompanies))
	e.POST("/companies", h.CreateCompany, limit, purge(scopeCompanies))
	e.GET("/companies/:id", h.GetCompany, cache(scopeCompanies))

	e.GET("/tasks", h.ListTasks, cache(scopeTasks))
	e.POST("/tasks", h.CreateTask, limit, purge(scopeTasks, scopeCompanies))
	e.GET("/tasks/:id", h.GetTask, cache(scopeTasks))

	// Applications change the tasks' application lists.
	e.GET("/task-applications", h.ListTaskApplications)
	e.POST("/task-applications", h.CreateTaskApplication, limit, purge(scopeTasks))

	e.GET("/payments", h.ListPayments)
	e.POST("/payments", h.CreatePayment, limit)
}
