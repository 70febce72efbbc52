// ABOUTME: Request id, request logging, and HTTP metrics middleware.
// ABOUTME: Route paths are folded into a bounded label set before counting.
package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/trans/sfm-mcp/internal/api"
	"github.com/trans/sfm-mcp/internal/mcp"
	"github.com/trans/sfm-mcp/internal/metrics"
	"go.uber.org/zap"
)

// withRequestID assigns X-Request-ID when the client did not send one.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(api.RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(api.RequestIDHeader, id)
		}
		w.Header().Set(api.RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response code. It forwards Flush so SSE
// streams keep working through it.
type statusRecorder struct {
	http.ResponseWriter
	code int
}

var _ api.HeaderWriter = (*statusRecorder)(nil)

func (s *statusRecorder) WriteHeader(code int) {
	if s.code == 0 {
		s.code = code
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.code == 0 {
		s.code = http.StatusOK
	}
	return s.ResponseWriter.Write(b)
}

// HeaderWritten reports whether a status code has gone out.
func (s *statusRecorder) HeaderWritten() bool {
	return s.code != 0
}

func (s *statusRecorder) Flush() {
	if f, ok := s.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

func withRequestLog(logger *zap.Logger, routes *routeClassifier, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}

		next.ServeHTTP(rec, r)

		code := rec.code
		if code == 0 {
			code = http.StatusOK
		}
		route := routes.classify(r.URL.Path)
		metrics.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(code)).Inc()

		logger.Debug("http.request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("route", route),
			zap.Int("code", code),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", r.Header.Get(api.RequestIDHeader)),
		)
	})
}

// routeClassifier maps request paths onto a bounded set of metric labels.
type routeClassifier struct {
	exact map[string]bool
}

func newRouteClassifier(registry *mcp.Registry, metricsPath string) *routeClassifier {
	rc := &routeClassifier{exact: map[string]bool{"/health": true}}
	if metricsPath != "" {
		rc.exact[metricsPath] = true
	}
	for _, ep := range registry.Endpoints() {
		rc.exact[ep.SSEPath] = true
		rc.exact[ep.StreamPath()] = true
	}
	return rc
}

func (rc *routeClassifier) classify(path string) string {
	if rc.exact[path] {
		return path
	}
	if rest, ok := strings.CutPrefix(path, "/api/v1/"); ok {
		resource, _, _ := strings.Cut(rest, "/")
		switch resource {
		case "products", "nav":
			return "/api/v1/" + resource
		}
		return "/api/v1/other"
	}
	if strings.HasPrefix(path, mcp.PathPrefix) {
		return "/mcp/other"
	}
	return "other"
}
