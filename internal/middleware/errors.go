package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorHandler renders errors that escape handlers as JSON.  Unknown routes
// and wrong methods on known paths are both reported as 404 "Route not
// found".  Server errors carry only a generic message and the request id;
// the cause is logged.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	body := echo.Map{"error": "Internal server error"}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		switch {
		case he.Code == http.StatusNotFound || he.Code == http.StatusMethodNotAllowed:
			status = http.StatusNotFound
			body = echo.Map{"error": "Route not found"}
		case he.Code < http.StatusInternalServerError:
			status = he.Code
			body = echo.Map{"error": clientMessage(he)}
		}
	}

	if status >= http.StatusInternalServerError {
		c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Request().URL.Path, err)
		if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
			body["request_id"] = id
		}
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		c.Logger().Error(err)
	}
}

func clientMessage(he *echo.HTTPError) string {
	if s, ok := he.Message.(string); ok && s != "" {
		return s
	}
	return http.StatusText(he.Code)
}
