package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nsyszr/rcm/pkg/api/resource"
)

// handleHealth never fails: it reports the store state without touching the
// network.
func (h *Handler) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, resource.NewHealth(h.store.State(), time.Now()))
}
