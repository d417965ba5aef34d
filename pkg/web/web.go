// Package web serves the browser page of the service.
package web

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

// Prefix is the path the page is served under.
const Prefix = "/app"

//go:embed static
var assets embed.FS

// Handler serves the embedded page assets.
type Handler struct {
	files fs.FS
}

func NewHandler() *Handler {
	return &Handler{files: echo.MustSubFS(assets, "static")}
}

// RegisterRoutes attaches the page to the echo web server. Requests for
// Prefix without the trailing slash are redirected.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	log.Debug("Register web routes")

	e.GET(Prefix, func(c echo.Context) error {
		return c.Redirect(http.StatusMovedPermanently, Prefix+"/")
	})
	e.GET(Prefix+"/*", echo.StaticDirectoryHandler(h.files, false))
}
