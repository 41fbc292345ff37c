package router

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"go-csv-aggregator/pkg/logger"
)

type HandlerFunc func(http.ResponseWriter, *http.Request)

type Router struct {
	routes   map[string]HandlerFunc // key = METHOD:PATH
	paths    []string               // registration order, wildcards matched in this order
	prefixes []prefixHandler
	logger   logger.Logger
}

type prefixHandler struct {
	prefix  string
	handler http.Handler
}

func New(l logger.Logger) *Router {
	return &Router{
		routes: make(map[string]HandlerFunc),
		logger: l,
	}
}

// ServeHTTP dispatches the request and writes one access log entry.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	start := time.Now()
	lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

	r.dispatch(lrw, req)

	r.logger.Info("http", req.Method+" "+req.URL.Path, map[string]interface{}{
		"status":      lrw.statusCode,
		"duration_ms": time.Since(start).Milliseconds(),
		"remote_addr": req.RemoteAddr,
	})
}

func (r *Router) dispatch(w http.ResponseWriter, req *http.Request) {
	key := req.Method + ":" + req.URL.Path
	if h, ok := r.routes[key]; ok {
		h(w, req)
		return
	}

	// Try to find a wildcard route
	pathExists := false
	for _, routePath := range r.paths {
		if routePath != req.URL.Path && !(strings.Contains(routePath, "*") && matchWildcardRoute(req.URL.Path, routePath)) {
			continue
		}
		if h, ok := r.routes[req.Method+":"+routePath]; ok {
			h(w, req)
			return
		}
		pathExists = true
	}

	for _, p := range r.prefixes {
		if strings.HasPrefix(req.URL.Path, p.prefix) {
			p.handler.ServeHTTP(w, req)
			return
		}
	}

	if pathExists {
		// Path exists but method not allowed
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	http.Error(w, "Not Found", http.StatusNotFound)
}

// matchWildcardRoute checks if a request path matches a wildcard route pattern
func matchWildcardRoute(requestPath, routePattern string) bool {
	requestSegments := strings.Split(strings.Trim(requestPath, "/"), "/")
	routeSegments := strings.Split(strings.Trim(routePattern, "/"), "/")

	// Handle single wildcard at the end (matches one or more remaining segments)
	if len(routeSegments) > 0 && routeSegments[len(routeSegments)-1] == "*" {
		if len(requestSegments) < len(routeSegments) {
			return false
		}
		for i := 0; i < len(routeSegments)-1; i++ {
			if routeSegments[i] != "*" && requestSegments[i] != routeSegments[i] {
				return false
			}
		}
		return true
	}

	if len(requestSegments) != len(routeSegments) {
		return false
	}
	for i, routeSegment := range routeSegments {
		if routeSegment == "*" {
			continue
		}
		if requestSegments[i] != routeSegment {
			return false
		}
	}
	return true
}

// --- Register paths ---
func (r *Router) register(method, path string, handler HandlerFunc) {
	key := method + ":" + path
	if _, exists := r.routes[key]; !exists {
		known := false
		for _, p := range r.paths {
			if p == path {
				known = true
				break
			}
		}
		if !known {
			r.paths = append(r.paths, path)
		}
	}
	r.routes[key] = handler
}

func (r *Router) GET(path string, handler HandlerFunc)   { r.register(http.MethodGet, path, handler) }
func (r *Router) POST(path string, handler HandlerFunc)  { r.register(http.MethodPost, path, handler) }
func (r *Router) PUT(path string, handler HandlerFunc)   { r.register(http.MethodPut, path, handler) }
func (r *Router) PATCH(path string, handler HandlerFunc) { r.register(http.MethodPatch, path, handler) }
func (r *Router) DELETE(path string, handler HandlerFunc) {
	r.register(http.MethodDelete, path, handler)
}

// Handle mounts h for every path under prefix that no route claims.
func (r *Router) Handle(prefix string, h http.Handler) {
	r.prefixes = append(r.prefixes, prefixHandler{prefix: prefix, handler: h})
}

// Getter methods for testing
func (r *Router) Routes() map[string]HandlerFunc {
	return r.routes
}

func (r *Router) Paths() []string {
	return r.paths
}

// --- Start server ---

// Start serves on addr until ctx is cancelled, then shuts down gracefully.
func (r *Router) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		r.logger.Info("http", "Server started", map[string]interface{}{"url": "http://localhost" + addr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		r.logger.Info("http", "Server shutting down", nil)
		return srv.Shutdown(shutdownCtx)
	}
}

// --- Logging response writer to capture status codes ---
type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}
