package web

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/nmaupu/cocktails/errors"
)

// writeJSON writes a JSON response and logs encoding errors
func (s *Server) writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("Failed to encode JSON response", "error", err)
	}
}

// writeJSONStatus writes a JSON response with an explicit status code
func (s *Server) writeJSONStatus(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("Failed to encode JSON response", "error", err)
	}
}

// writeJSONError writes an error response in JSON format
func (s *Server) writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		s.logger.Error("Failed to encode error response", "error", err, "message", message)
	}
}

// writeError logs err and writes its sanitized JSON form. Handlers with an
// exact client-facing message call writeJSONError directly instead.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, component string, err error) {
	status := statusFromError(err)
	if s.metrics != nil {
		s.metrics.RecordError(component, errors.Classify(err).String())
	}
	logFn := s.logger.Warn
	if status >= http.StatusInternalServerError {
		logFn = s.logger.Error
	}
	logFn("request failed",
		"component", component,
		"error", err,
		"status", status,
		"request_id", requestIDFrom(r.Context()))
	s.writeJSONError(w, safeErrorMessage(err), status)
}

// statusFromError maps classified errors to HTTP status codes
func statusFromError(err error) int {
	switch {
	case err == nil:
		return http.StatusInternalServerError
	case errors.IsNotFound(err):
		return http.StatusNotFound
	case errors.IsUnauthorized(err):
		return http.StatusUnauthorized
	case errors.IsInvalid(err):
		return http.StatusBadRequest
	case errors.IsTransient(err):
		// Could be timeout, storage unavailable, etc.
		if strings.Contains(err.Error(), "timeout") {
			return http.StatusGatewayTimeout
		}
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// safeErrorMessage returns a safe error message for external clients.
// Internal details are logged but never exposed.
func safeErrorMessage(err error) string {
	switch {
	case err == nil:
		return "internal server error"
	case errors.IsNotFound(err):
		return "resource not found"
	case errors.IsUnauthorized(err):
		return "Authentication required"
	case errors.IsInvalid(err):
		return "invalid request"
	case errors.IsTransient(err):
		if strings.Contains(err.Error(), "timeout") {
			return "request timeout"
		}
		return "service temporarily unavailable"
	default:
		return "internal server error"
	}
}
