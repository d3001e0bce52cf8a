package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feecalc/internal/catalog"
	"feecalc/internal/form"
	applog "feecalc/internal/log"
	"feecalc/internal/session"
)

var (
	tokenRe = regexp.MustCompile(`name="page" value="([^"]+)"`)
	rowRe   = regexp.MustCompile(`name="fields\[([^\]]+)\]\.name"`)
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	now := func() time.Time { return time.Date(2026, time.October, 17, 9, 30, 0, 0, time.UTC) }
	pages := session.NewStore(session.DefaultConfig(), catalog.Default(), form.WithClock(now))
	logger := applog.New(applog.Config{Output: io.Discard})

	srv := NewServer(Config{Addr: ":0", RateLimitPerMinute: 1000}, pages, logger)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv
}

func do(t *testing.T, srv *Server, method, path string, values url.Values, htmx bool) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if values != nil {
		body = strings.NewReader(values.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if values != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func openPage(t *testing.T, srv *Server) string {
	t.Helper()
	rr := do(t, srv, http.MethodGet, "/", nil, false)
	require.Equal(t, http.StatusOK, rr.Code)
	m := tokenRe.FindStringSubmatch(rr.Body.String())
	require.Len(t, m, 2, "page token not rendered")
	return m[1]
}

func rowIDs(body string) []string {
	var ids []string
	for _, m := range rowRe.FindAllStringSubmatch(body, -1) {
		ids = append(ids, m[1])
	}
	return ids
}

func TestIndexAndHealth(t *testing.T) {
	srv := newTestServer(t)

	rr := do(t, srv, http.MethodGet, "/", nil, false)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "<h1>Fee Calculator</h1>")
	assert.Contains(t, rr.Body.String(), `<option value="KL">`)
	assert.Contains(t, rr.Body.String(), `<option value="Royal">`)
	assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))
	assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
	assert.NotContains(t, rr.Body.String(), "Total:")

	for _, path := range []string{"/healthz", "/readyz", "/metrics"} {
		rr := do(t, srv, http.MethodGet, path, nil, false)
		assert.Equal(t, http.StatusOK, rr.Code, path)
	}

	rr = do(t, srv, http.MethodGet, "/metrics", nil, false)
	assert.Contains(t, rr.Body.String(), "pages_opened_total 1")

	rr = do(t, srv, http.MethodGet, "/static/style.css", nil, false)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "public, max-age=3600", rr.Header().Get("Cache-Control"))

	rr = do(t, srv, http.MethodGet, "/nope", nil, false)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestEachLoadIsANewPage(t *testing.T) {
	srv := newTestServer(t)
	assert.NotEqual(t, openPage(t, srv), openPage(t, srv))
}

func TestAddFillCalculate(t *testing.T) {
	srv := newTestServer(t)
	token := openPage(t, srv)

	do(t, srv, http.MethodPost, "/fields", url.Values{"page": {token}}, true)
	rr := do(t, srv, http.MethodPost, "/fields", url.Values{"page": {token}}, true)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), "<html", "htmx requests get the partial")
	assert.Contains(t, rr.Header().Get("HX-Trigger"), `"fees:changed":{"rows":2}`)

	ids := rowIDs(rr.Body.String())
	require.Len(t, ids, 2)

	rr = do(t, srv, http.MethodPost, "/calculate", url.Values{
		"page":                          {token},
		"fields[" + ids[0] + "].name":  {"Rent"},
		"fields[" + ids[0] + "].value": {"100"},
		"fields[" + ids[1] + "].name":  {"Water"},
		"fields[" + ids[1] + "].value": {"250"},
	}, true)
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "Total: <strong>350</strong>")
	assert.Contains(t, body, "Date: T10/2026")
	assert.Contains(t, body, `value="Rent" placeholder="Field name" aria-label="Field name" readonly`)
	assert.Contains(t, rr.Header().Get("HX-Trigger"), `"fees:calculated"`)

	// a plain form post gets the whole page back
	rr = do(t, srv, http.MethodPost, "/fields", url.Values{
		"page":                          {token},
		"fields[" + ids[0] + "].name":  {"Changed"},
		"fields[" + ids[0] + "].value": {"100"},
		"fields[" + ids[1] + "].name":  {"Water"},
		"fields[" + ids[1] + "].value": {"250"},
	}, false)
	require.Equal(t, http.StatusOK, rr.Code)
	body = rr.Body.String()
	assert.Contains(t, body, "<!doctype html>")
	assert.Contains(t, body, `value="Rent"`, "calculated names are read-only")
	assert.NotContains(t, body, `value="Changed"`)
	assert.Contains(t, body, `value="250"`, "values survive adding a field")
	assert.Len(t, rowIDs(body), 3)
}

func TestCalculateValidation(t *testing.T) {
	srv := newTestServer(t)
	token := openPage(t, srv)

	rr := do(t, srv, http.MethodPost, "/fields", url.Values{"page": {token}}, true)
	ids := rowIDs(rr.Body.String())
	require.Len(t, ids, 1)

	rr = do(t, srv, http.MethodPost, "/calculate", url.Values{
		"page":                         {token},
		"fields[" + ids[0] + "].name": {"Rent"},
	}, true)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), "Enter a value")
	assert.NotContains(t, rr.Body.String(), "Total:")
}

func TestTemplateAndRemove(t *testing.T) {
	srv := newTestServer(t)
	token := openPage(t, srv)

	rr := do(t, srv, http.MethodPost, "/template", url.Values{"page": {token}, "template": {"Nope"}}, true)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), "Unknown template.")

	rr = do(t, srv, http.MethodPost, "/template", url.Values{"page": {token}, "template": {"KL"}}, true)
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `<option value="KL" selected>`)
	ids := rowIDs(body)
	require.Len(t, ids, 5)
	assert.Contains(t, body, `value="Rent"`)
	assert.Contains(t, body, `value="Service fee"`)

	rr = do(t, srv, http.MethodPost, "/fields/"+ids[0]+"/remove", url.Values{"page": {token}}, true)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, ids[1:], rowIDs(rr.Body.String()))
	assert.NotContains(t, rr.Body.String(), `value="Rent"`)

	rr = do(t, srv, http.MethodPost, "/reset", url.Values{"page": {token}}, true)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rowIDs(rr.Body.String()))
	assert.Contains(t, rr.Header().Get("HX-Trigger"), `"form:reset"`)
}

func TestUnknownPage(t *testing.T) {
	srv := newTestServer(t)

	rr := do(t, srv, http.MethodPost, "/fields", url.Values{"page": {"6f9619ff-8b86-d011-b42d-00cf4fc964ff"}}, true)
	assert.Equal(t, http.StatusGone, rr.Code)
	assert.Equal(t, "true", rr.Header().Get("HX-Refresh"))

	rr = do(t, srv, http.MethodPost, "/calculate", url.Values{}, false)
	assert.Equal(t, http.StatusGone, rr.Code)
}

func newLimitedServer(t *testing.T, perMinute int) *Server {
	t.Helper()
	pages := session.NewStore(session.DefaultConfig(), catalog.Default())
	srv := NewServer(Config{Addr: ":0", RateLimitPerMinute: perMinute}, pages, applog.New(applog.Config{Output: io.Discard}))
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv
}

func TestRateLimitOnPosts(t *testing.T) {
	srv := newLimitedServer(t, 2)

	token := openPage(t, srv)
	rr := do(t, srv, http.MethodPost, "/fields", url.Values{"page": {token}}, true)
	assert.Equal(t, http.StatusOK, rr.Code)
	rr = do(t, srv, http.MethodPost, "/fields", url.Values{"page": {token}}, true)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "60", rr.Header().Get("Retry-After"))
}

func TestRateLimitOnPageLoads(t *testing.T) {
	srv := newLimitedServer(t, 3)

	for i := 0; i < 3; i++ {
		openPage(t, srv)
	}
	assert.Equal(t, 3, srv.pages.Len())

	rr := do(t, srv, http.MethodGet, "/", nil, false)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, 3, srv.pages.Len(), "a limited load must not open a page")

	rr = do(t, srv, http.MethodGet, "/healthz", nil, false)
	assert.Equal(t, http.StatusOK, rr.Code)
}
