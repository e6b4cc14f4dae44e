package web

import (
	"bufio"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net"
	"net/http"
	"runtime"
	"strings"
	"time"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// requestIDFrom returns the request id stashed by withRequestID, or "".
func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// getOrGenerateRequestID extracts the request ID from headers or generates
// a new one so every log line of a request can be correlated
func getOrGenerateRequestID(r *http.Request) string {
	if reqID := r.Header.Get("X-Request-ID"); reqID != "" {
		return reqID
	}

	// 16 hex characters (8 random bytes)
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		// Fallback to timestamp-based ID if random generation fails
		return fmt.Sprintf("req-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}

// withRequestID tags the request context and the response with an id.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := getOrGenerateRequestID(r)
		w.Header().Set("X-Request-ID", requestID)
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// recoverPanics turns handler panics into logged 500 responses instead of
// dropped connections.
func (s *Server) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				buf := make([]byte, 4096)
				n := runtime.Stack(buf, false)
				s.logger.Error("handler panic",
					"panic", rec,
					"path", r.URL.Path,
					"request_id", requestIDFrom(r.Context()),
					"stack", string(buf[:n]))
				s.writeJSONError(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for logging and metrics.
// Hijack is forwarded so the websocket upgrade keeps working behind it.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	if rec.status == 0 {
		rec.status = code
	}
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *statusRecorder) Write(b []byte) (int, error) {
	if rec.status == 0 {
		rec.status = http.StatusOK
	}
	return rec.ResponseWriter.Write(b)
}

func (rec *statusRecorder) Flush() {
	if f, ok := rec.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (rec *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := rec.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	if rec.status == 0 {
		rec.status = http.StatusSwitchingProtocols
	}
	return h.Hijack()
}

// logRequests emits one access log line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"remote", r.RemoteAddr,
			"request_id", requestIDFrom(r.Context()))
	})
}

// knownPaths bounds the path label cardinality of the HTTP metrics.
var knownPaths = map[string]bool{
	"/":                      true,
	"/health":                true,
	"/healthz":               true,
	"/login":                 true,
	"/logout":                true,
	"/admin":                 true,
	"/api/state":             true,
	"/api/toggle-ingredient": true,
	"/api/toggle-cocktail":   true,
	"/ws":                    true,
	"/metrics":               true,
}

func normalizePath(path string) string {
	if knownPaths[path] {
		return path
	}
	return "other"
}

// instrument records the request counter, duration histogram and in-flight
// gauge.
func (s *Server) instrument(next http.Handler) http.Handler {
	if s.metrics == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		s.metrics.IncInFlight()
		rec := &statusRecorder{ResponseWriter: w}
		defer func() {
			s.metrics.DecInFlight()
			status := rec.status
			if status == 0 {
				status = http.StatusOK
			}
			s.metrics.RecordHTTPRequest(r.Method, path, fmt.Sprintf("%d", status), time.Since(start))
		}()
		next.ServeHTTP(rec, r)
	})
}

// limitInFlight bounds concurrent request handling the way a fixed pool of
// workers would: requests over the limit queue until a slot frees or their
// context expires.
func (s *Server) limitInFlight(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := s.inflight.Acquire(r.Context(), 1); err != nil {
			// The client gave up or the request timed out while queued.
			s.writeJSONError(w, "service temporarily unavailable", http.StatusServiceUnavailable)
			return
		}
		defer s.inflight.Release(1)
		next.ServeHTTP(w, r)
	})
}

// requireAuth gates admin operations. API requests get a JSON 401,
// browsers a redirect to the login page.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.sessions.Authenticated(r.Context(), r) {
			next(w, r)
			return
		}
		if wantsJSON(r) {
			s.writeJSONError(w, "Authentication required", http.StatusUnauthorized)
			return
		}
		http.Redirect(w, r, "/login", http.StatusFound)
	}
}

func wantsJSON(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return true
	}
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

// clientHost extracts the host part of the remote address for rate
// limiting.
func clientHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
