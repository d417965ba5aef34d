package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nsyszr/rcm/pkg/api/resource"
	"github.com/nsyszr/rcm/pkg/notify"
	"github.com/nsyszr/rcm/pkg/storage"
)

func (h *Handler) handleFetchPlans(c echo.Context) error {
	plans, err := h.store.Plans().FetchAll(c.Request().Context())
	if err != nil {
		return h.storeFailed(c, notify.KindPlan, "fetch", "Failed to fetch planning", err)
	}

	return c.JSON(http.StatusOK, resource.NewPlanList(plans))
}

func (h *Handler) handleCreatePlan(c echo.Context) error {
	var r resource.PlanRequest
	if err := resource.DecodeBody(c.Request().Body, &r); err != nil {
		return h.decodeFailed(c, notify.KindPlan, err)
	}

	m, err := resource.ValidatePlan(&r)
	if err != nil {
		return h.createFailed(c, notify.KindPlan, "Failed to create plan", err)
	}

	if err := h.store.Plans().Create(c.Request().Context(), m); err != nil {
		return h.createFailed(c, notify.KindPlan, "Failed to create plan", err)
	}
	h.metrics.RecordCreated(string(notify.KindPlan))

	out := resource.NewPlan(m)
	h.publish(notify.NewChange(notify.KindPlan, notify.ActionCreated, m.ID, out))

	return c.JSON(http.StatusCreated, out)
}

func (h *Handler) handleDeletePlan(c echo.Context) error {
	id := c.Param("id")

	if err := h.store.Plans().Delete(c.Request().Context(), id); err != nil {
		if storage.IsNotFound(err) {
			return c.JSON(http.StatusNotFound, &resource.ErrorResource{Error: "Plan not found"})
		}
		return h.storeFailed(c, notify.KindPlan, "delete", "Failed to delete plan", err)
	}
	h.metrics.RecordDeleted(string(notify.KindPlan))
	h.publish(notify.NewChange(notify.KindPlan, notify.ActionDeleted, id, nil))

	return c.JSON(http.StatusOK, &resource.DeletedResource{
		Message: "Plan deleted successfully",
		ID:      id,
	})
}
