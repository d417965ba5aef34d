package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nsyszr/rcm/pkg/api/resource"
	"github.com/nsyszr/rcm/pkg/model"
	"github.com/nsyszr/rcm/pkg/notify"
	"github.com/nsyszr/rcm/pkg/storage"
)

func (h *Handler) handleFetchEvents(c echo.Context) error {
	events, err := h.store.Events().FetchAll(c.Request().Context())
	if err != nil {
		return h.storeFailed(c, notify.KindEvent, "fetch", "Failed to fetch events", err)
	}

	h.metrics.SetLevelCounts(model.CountByLevel(events))

	return c.JSON(http.StatusOK, resource.NewEventList(events))
}

func (h *Handler) handleCreateEvent(c echo.Context) error {
	var r resource.EventRequest
	if err := resource.DecodeBody(c.Request().Body, &r); err != nil {
		return h.decodeFailed(c, notify.KindEvent, err)
	}

	m, err := resource.ValidateEvent(&r)
	if err != nil {
		return h.createFailed(c, notify.KindEvent, "Failed to create event", err)
	}

	if err := h.store.Events().Create(c.Request().Context(), m); err != nil {
		return h.createFailed(c, notify.KindEvent, "Failed to create event", err)
	}
	h.metrics.RecordCreated(string(notify.KindEvent))

	out := resource.NewEvent(m)
	h.publish(notify.NewChange(notify.KindEvent, notify.ActionCreated, m.ID, out))

	return c.JSON(http.StatusCreated, out)
}

func (h *Handler) handleDeleteEvent(c echo.Context) error {
	id := c.Param("id")

	if err := h.store.Events().Delete(c.Request().Context(), id); err != nil {
		if storage.IsNotFound(err) {
			return c.JSON(http.StatusNotFound, &resource.ErrorResource{Error: "Event not found"})
		}
		return h.storeFailed(c, notify.KindEvent, "delete", "Failed to delete event", err)
	}
	h.metrics.RecordDeleted(string(notify.KindEvent))
	h.publish(notify.NewChange(notify.KindEvent, notify.ActionDeleted, id, nil))

	return c.JSON(http.StatusOK, &resource.DeletedResource{
		Message: "Event deleted successfully",
		ID:      id,
	})
}
