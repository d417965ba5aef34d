package web

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEcho() *echo.Echo {
	e := echo.New()
	NewHandler().RegisterRoutes(e)
	return e
}

func TestServesPage(t *testing.T) {
	e := newEcho()

	tests := []struct {
		path        string
		contentType string
		contains    string
	}{
		{"/app/", "text/html", "<title>Railway Crowd Management</title>"},
		{"/app/index.html", "text/html", `<section id="reports"`},
		{"/app/script.js", "javascript", "function escapeHTML"},
		{"/app/style.css", "text/css", ".tab.active"},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, http.NoBody))

		assert.Equal(t, http.StatusOK, rec.Code, tt.path)
		assert.Contains(t, rec.Header().Get(echo.HeaderContentType), tt.contentType, tt.path)
		assert.Contains(t, rec.Body.String(), tt.contains, tt.path)
	}
}

func TestRedirectsPrefix(t *testing.T) {
	rec := httptest.NewRecorder()
	newEcho().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/app", http.NoBody))

	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/app/", rec.Header().Get(echo.HeaderLocation))
}

func TestMissingAsset(t *testing.T) {
	rec := httptest.NewRecorder()
	newEcho().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/app/missing.js", http.NoBody))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// scriptFunction returns the source of a top-level script function.
func scriptFunction(t *testing.T, script, name string) string {
	t.Helper()
	start := regexp.MustCompile(`(?m)^(async )?function ` + name + `\(`).FindStringIndex(script)
	require.NotNil(t, start, name)
	body := script[start[0]:]
	end := strings.Index(body, "\n}\n")
	require.NotEqual(t, -1, end, name)
	return body[:end+2]
}

func TestScriptBehaviour(t *testing.T) {
	raw, err := assets.ReadFile("static/script.js")
	require.NoError(t, err)
	script := string(raw)

	page, err := assets.ReadFile("static/index.html")
	require.NoError(t, err)
	assert.Contains(t, string(page), `id="dismissBanner"`)
	assert.Contains(t, script, "addEventListener('click', dismissBanner)")

	for _, tt := range []struct {
		name, reload, source string
	}{
		{"deleteEvent", "await loadEvents();", "eventsDelete"},
		{"deletePlan", "await loadPlanning();", "planningDelete"},
	} {
		fn := scriptFunction(t, script, tt.name)

		// confirmation comes before the request
		assert.Less(t, strings.Index(fn, "confirm("), strings.Index(fn, "await request("), tt.name)

		// a failed delete keeps its message and skips the reload
		failed := fn[strings.Index(fn, "catch (err)"):]
		failed = failed[:strings.Index(failed, "\n    }")]
		assert.Contains(t, failed, "setError('"+tt.source+"'", tt.name)
		assert.Contains(t, failed, "return;", tt.name)

		assert.Contains(t, fn, "clearError('"+tt.source+"');\n    "+tt.reload, tt.name)
	}

	for _, tt := range []struct {
		name, source string
	}{
		{"loadEvents", "eventsLoad"},
		{"loadPlanning", "planningLoad"},
	} {
		fn := scriptFunction(t, script, tt.name)
		assert.Contains(t, fn, "clearError('"+tt.source+"')", tt.name)
		assert.Contains(t, fn, "setError('"+tt.source+"'", tt.name)
		assert.NotContains(t, fn, "dismissBanner", tt.name)
	}

	add := scriptFunction(t, script, "addEvent")
	assert.Less(t, strings.Index(add, "closeForm('eventForm')"), strings.Index(add, "await loadEvents();"))
	add = scriptFunction(t, script, "addPlan")
	assert.Less(t, strings.Index(add, "closeForm('planForm')"), strings.Index(add, "await loadPlanning();"))

	assert.Contains(t, scriptFunction(t, script, "switchTab"), "updateStats()")

	// every record field rendered into markup is escaped
	for _, name := range []string{"displayEvents", "displayPlanning", "displayReports"} {
		fn := scriptFunction(t, script, name)
		unescaped := regexp.MustCompile(`\$\{(e|p)\.\w+\}`).FindAllString(fn, -1)
		assert.Empty(t, unescaped, name)
		assert.Contains(t, fn, "escapeHTML(", name)
	}
	assert.Contains(t, scriptFunction(t, script, "renderBanner"), ".textContent =")
}
