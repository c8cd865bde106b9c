package httperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/products_api/internal/logging"
)

const apiPrefix = "/api/"

// Handler is the echo HTTPErrorHandler for the service. API requests get the
// uniform envelope, everything else keeps echo's default rendering.
func Handler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	if !strings.HasPrefix(c.Request().URL.Path, apiPrefix) {
		c.Echo().DefaultHTTPErrorHandler(err, c)
		return
	}

	e := translate(err, c)

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(e.Status)
	} else if e.Status == http.StatusUnprocessableEntity {
		body := echo.Map{"message": e.Message, "status": e.Status}
		if len(e.Fields) > 0 {
			body["errors"] = e.Fields
		}
		writeErr = c.JSON(e.Status, body)
	} else {
		writeErr = c.JSON(e.Status, echo.Map{"error": e.Message, "status": e.Status})
	}
	if writeErr != nil {
		logging.FromContext(c.Request().Context()).Error("error_response_failed", "error", writeErr)
	}
}

func translate(err error, c echo.Context) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		path := c.Request().URL.Path
		switch he.Code {
		case http.StatusNotFound:
			return NotFound(fmt.Sprintf("the route %s does not exist", path))
		case http.StatusMethodNotAllowed:
			return &Error{
				Status:  http.StatusMethodNotAllowed,
				Message: fmt.Sprintf("method not allowed for the route %s", path),
			}
		}
	}

	logging.FromContext(c.Request().Context()).Error("unhandled_error", "error", err)
	return Internal()
}
