package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nsyszr/rcm/pkg/api/resource"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// HTTPErrorHandler answers every error no handler dealt with itself.
// Unmatched routes get 404 {"error":"Route not found"}, anything unexpected,
// recovered panics included, a generic 500.
func (h *Handler) HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	out := &resource.ErrorResource{Error: "Internal server error"}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		switch he.Code {
		case http.StatusNotFound, http.StatusMethodNotAllowed:
			code = http.StatusNotFound
			out.Error = "Route not found"
		case http.StatusInternalServerError:
		default:
			code = he.Code
			out.Error = http.StatusText(he.Code)
		}
	}

	if code == http.StatusInternalServerError {
		log.WithError(err).WithFields(log.Fields{
			"method": c.Request().Method,
			"uri":    c.Request().RequestURI,
		}).Error("api: unhandled error")
		if h.development {
			out.Message = err.Error()
		}
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, out)
	}
	if err != nil {
		log.WithError(err).Error("api: failed to send error response")
	}
}
