package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Health pings the store and reports whether it answered within two seconds.
// It is used by load balancers and monitoring systems.
func (h *Handler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()
	if err := h.DB.PingContext(ctx); err != nil {
		c.Logger().Errorf("health: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"status": "ERROR", "message": "Database connection failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "OK", "message": "Database connected"})
}
