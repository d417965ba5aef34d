package api

import (
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/nsyszr/rcm/pkg/api/resource"
	"github.com/nsyszr/rcm/pkg/metrics"
	"github.com/nsyszr/rcm/pkg/model"
	"github.com/nsyszr/rcm/pkg/notify"
	"github.com/nsyszr/rcm/pkg/storage"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Version is reported by the API description.
const Version = "1.0.0"

// Handler contains all properties to serve the API
type Handler struct {
	store       storage.Interface
	notifier    notify.Interface
	ownNotifier bool
	metrics     *metrics.Metrics
	development bool

	quit     chan struct{}
	quitOnce sync.Once
}

// NewHandler create a new API handler. With development set, 500 responses
// carry the error message. A nil notifier is replaced by an in-process hub
// owned and closed by the handler.
func NewHandler(store storage.Interface, notifier notify.Interface, m *metrics.Metrics, development bool) *Handler {
	h := &Handler{
		store:       store,
		notifier:    notifier,
		metrics:     m,
		development: development,
		quit:        make(chan struct{}),
	}
	if h.notifier == nil {
		h.notifier = notify.NewLocal()
		h.ownNotifier = true
	}
	return h
}

// RegisterRoutes attaches the handlers to the echo web server
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	log.Debug("Register API routes")

	e.GET("/", h.handleIndex)
	e.GET("/metrics", echo.WrapHandler(h.metrics.Handler()))

	api := e.Group("/api")
	api.GET("/health", h.handleHealth)

	api.GET("/events", h.handleFetchEvents)
	api.POST("/events", h.handleCreateEvent)
	api.DELETE("/events/:id", h.handleDeleteEvent)

	api.GET("/planning", h.handleFetchPlans)
	api.POST("/planning", h.handleCreatePlan)
	api.DELETE("/planning/:id", h.handleDeletePlan)

	api.GET("/realtime-events", h.realtimeEventsHandler())
}

// Close ends all open realtime feeds. Hijacked connections are not tracked
// by the HTTP server's shutdown.
func (h *Handler) Close() {
	h.quitOnce.Do(func() {
		close(h.quit)
		if h.ownNotifier {
			h.notifier.Close()
		}
	})
}

func (h *Handler) handleIndex(c echo.Context) error {
	return c.JSON(http.StatusOK, resource.NewIndex(Version))
}

// publish forwards a change to the notifier. A failure is logged and never
// fails the request that caused the change.
func (h *Handler) publish(ch *notify.Change) {
	if err := h.notifier.Publish(ch); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"kind":   ch.Kind,
			"action": ch.Action,
			"id":     ch.ID,
		}).Warn("api: failed to publish change")
	}
}

// decodeFailed answers an unreadable create request body. Bodies that are
// not JSON objects are validation failures, anything else (an oversized or
// aborted body) goes to the HTTP error handler and is not a store error.
func (h *Handler) decodeFailed(c echo.Context, kind notify.Kind, err error) error {
	if _, ok := asValidationError(err); ok {
		return h.createFailed(c, kind, "", err)
	}
	return err
}

// createFailed answers a rejected create request: 400 with the itemized
// messages for validation errors, 500 otherwise.
func (h *Handler) createFailed(c echo.Context, kind notify.Kind, msg string, err error) error {
	if verr, ok := asValidationError(err); ok {
		h.metrics.ValidationFailed(string(kind))
		return c.JSON(http.StatusBadRequest, &resource.ErrorResource{
			Error:   "Validation failed",
			Details: verr.Details,
		})
	}
	return h.storeFailed(c, kind, "create", msg, err)
}

// storeFailed logs err and answers 500 with msg.
func (h *Handler) storeFailed(c echo.Context, kind notify.Kind, operation, msg string, err error) error {
	h.metrics.StoreError(string(kind), operation)
	log.WithError(err).WithFields(log.Fields{
		"kind":      kind,
		"operation": operation,
	}).Error("api: store operation failed")

	out := &resource.ErrorResource{Error: msg}
	if h.development {
		out.Message = err.Error()
	}
	return c.JSON(http.StatusInternalServerError, out)
}

func asValidationError(err error) (*model.ValidationError, bool) {
	verr, ok := errors.Cause(err).(*model.ValidationError)
	return verr, ok
}
