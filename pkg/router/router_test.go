package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"go-csv-aggregator/pkg/logger"
)

func text(body string) HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(body))
	}
}

func serve(r *Router, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestMatchWildcardRoute(t *testing.T) {
	tests := []struct {
		path, pattern string
		want          bool
	}{
		{"/api/v1/session/tables/input", "/api/v1/session/tables/*", true},
		{"/api/v1/session/tables/input/extra", "/api/v1/session/tables/*", true},
		{"/api/v1/session/tables", "/api/v1/session/tables/*", false},
		{"/api/v1/session/download/input", "/api/v1/session/tables/*", false},
		{"/a/b/c", "/a/*/c", true},
		{"/a/b/d", "/a/*/c", false},
		{"/a/b", "/a/*/c", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, matchWildcardRoute(tt.path, tt.pattern), "%s against %s", tt.path, tt.pattern)
	}
}

func TestDispatch(t *testing.T) {
	r := New(logger.NewNop())
	r.GET("/items", text("list"))
	r.POST("/items", text("create"))
	r.GET("/items/*/detail", text("detail"))
	r.GET("/items/*", text("item"))
	r.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("static"))
	}))

	assert.Equal(t, "list", serve(r, http.MethodGet, "/items").Body.String())
	assert.Equal(t, "create", serve(r, http.MethodPost, "/items").Body.String())
	assert.Equal(t, "detail", serve(r, http.MethodGet, "/items/7/detail").Body.String())
	assert.Equal(t, "item", serve(r, http.MethodGet, "/items/7").Body.String())
	assert.Equal(t, "static", serve(r, http.MethodGet, "/static/app.js").Body.String())

	assert.Equal(t, http.StatusMethodNotAllowed, serve(r, http.MethodDelete, "/items").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, serve(r, http.MethodPost, "/items/7").Code)
	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, "/other").Code)

	assert.Equal(t, []string{"/items", "/items/*/detail", "/items/*"}, r.Paths())
	assert.Len(t, r.Routes(), 4)
}

func TestAccessLog(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := New(logger.NewFromZap(zap.New(core)))
	r.GET("/missing", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	serve(r, http.MethodGet, "/missing")

	entries := logs.FilterMessage("GET /missing").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "http", fields["module"])
	details, ok := fields["details"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, http.StatusTeapot, details["status"])
}
