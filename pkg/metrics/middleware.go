package metrics

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// unmatchedPath labels requests no route matched.
const unmatchedPath = "unmatched"

// Middleware observes every request by its route pattern. Errors are handed
// to the echo error handler first so the final status is recorded.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			path := c.Path()
			if path == "" || c.Response().Status == http.StatusNotFound && err != nil {
				path = unmatchedPath
			}
			m.ObserveRequest(c.Request().Method, path, c.Response().Status, time.Since(start).Seconds())

			return err
		}
	}
}
