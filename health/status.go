package health

import (
	"regexp"
	"strings"
	"time"
)

// Component health states as they appear in JSON output.
const (
	StateHealthy   = "healthy"
	StateDegraded  = "degraded"
	StateUnhealthy = "unhealthy"
)

// Status is one component's health at a point in time. An aggregated
// system status carries its components in SubStatuses.
type Status struct {
	Component   string    `json:"component"`
	Healthy     bool      `json:"healthy"`
	Status      string    `json:"status"`
	Message     string    `json:"message"`
	Timestamp   time.Time `json:"timestamp"`
	SubStatuses []Status  `json:"sub_statuses,omitempty"`
}

// NewHealthy builds a healthy status for a component.
func NewHealthy(component, message string) Status {
	return Status{
		Component: component,
		Healthy:   true,
		Status:    StateHealthy,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// NewUnhealthy builds an unhealthy status for a component.
func NewUnhealthy(component, message string) Status {
	return Status{
		Component: component,
		Status:    StateUnhealthy,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// NewDegraded builds a degraded status: still serving, but impaired. A
// degraded component does not fail the probe on its own.
func NewDegraded(component, message string) Status {
	return Status{
		Component: component,
		Status:    StateDegraded,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// IsHealthy reports whether the status is healthy.
func (s Status) IsHealthy() bool { return s.Status == StateHealthy }

// IsDegraded reports whether the status is degraded.
func (s Status) IsDegraded() bool { return s.Status == StateDegraded }

// IsUnhealthy reports whether the status is unhealthy.
func (s Status) IsUnhealthy() bool { return s.Status == StateUnhealthy }

// FromError converts a check result into a status. A nil error is healthy;
// anything else is unhealthy with a sanitized message, since the probe
// endpoint that emits these messages is unauthenticated.
func FromError(name string, err error) Status {
	if err == nil {
		return NewHealthy(name, "Component healthy")
	}
	return NewUnhealthy(name, sanitizeErrorMessage(err.Error()))
}

// Sanitization patterns. URLs go first: stripping paths before URLs would
// leave the scheme and credentials behind.
var (
	urlRegex         = regexp.MustCompile(`(https?|rediss?|postgres(ql)?|wss?)://[^\s]+`)
	unixPathRegex    = regexp.MustCompile(`/[a-zA-Z0-9/_.-]+`)
	windowsPathRegex = regexp.MustCompile(`[A-Z]:\\[^:\s]+`)
	ipAddrRegex      = regexp.MustCompile(`\b\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}\b`)
	portRegex        = regexp.MustCompile(`:\d{2,5}\b`)
	credentialRegex  = regexp.MustCompile(`(?i)(password|token|key|secret|credential)[^a-zA-Z]*[:=][^,\s}]+`)
	credentialWords  = []string{"password", "token", "key", "secret", "credential"}
)

// sanitizeErrorMessage strips connection strings, file paths, addresses
// and credential fragments from error text before it can reach a client.
func sanitizeErrorMessage(msg string) string {
	if msg == "" {
		return ""
	}

	msg = urlRegex.ReplaceAllString(msg, "[URL]")
	msg = unixPathRegex.ReplaceAllString(msg, "[PATH]")
	msg = windowsPathRegex.ReplaceAllString(msg, "[PATH]")
	msg = ipAddrRegex.ReplaceAllString(msg, "[IP]")
	msg = portRegex.ReplaceAllString(msg, "[PORT]")

	lower := strings.ToLower(msg)
	for _, word := range credentialWords {
		if strings.Contains(lower, word) {
			msg = credentialRegex.ReplaceAllString(msg, "[REDACTED]")
			break
		}
	}

	return msg
}
