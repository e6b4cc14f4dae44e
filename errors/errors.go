// Package errors classifies errors for the cocktail menu service. Every
// layer wraps failures with a class (transient, invalid, fatal) and a
// "component.method: action failed" context line; the web layer maps
// classes to HTTP status codes and the startup path uses them to decide
// what is worth retrying.
package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrorClass decides how a failure is handled downstream.
type ErrorClass int

const (
	// ErrorTransient marks failures worth retrying: backend hiccups,
	// timeouts, saturation.
	ErrorTransient ErrorClass = iota
	// ErrorInvalid marks failures caused by the input: bad payloads,
	// unknown names, malformed configuration values.
	ErrorInvalid
	// ErrorFatal marks failures retrying cannot fix: broken setup,
	// corrupted data.
	ErrorFatal
)

// String renders the class as a metrics-friendly label.
func (ec ErrorClass) String() string {
	switch ec {
	case ErrorTransient:
		return "transient"
	case ErrorInvalid:
		return "invalid"
	case ErrorFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Sentinel errors shared across packages.
var (
	// ErrNotFound marks a request for an entity the catalog or a store
	// does not have.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized marks a request without a valid session.
	ErrUnauthorized = errors.New("authentication required")

	// ErrSessionExpired marks a session id the store no longer holds.
	// It implies ErrUnauthorized for HTTP mapping purposes.
	ErrSessionExpired = errors.New("session expired")

	// ErrRateLimited marks a request rejected by a rate limiter.
	ErrRateLimited = errors.New("rate limited")

	// ErrInvalidData marks content that failed structural validation.
	ErrInvalidData = errors.New("invalid data format")

	// ErrStorageUnavailable marks a state or session backend that cannot
	// be reached right now.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrInvalidConfig marks configuration the service refuses to start
	// with.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ClassifiedError carries an error class alongside the wrapped cause.
type ClassifiedError struct {
	Class     ErrorClass
	Err       error
	Message   string
	Component string
	Operation string
}

func (ce *ClassifiedError) Error() string {
	if ce.Message != "" {
		return ce.Message
	}
	return ce.Err.Error()
}

func (ce *ClassifiedError) Unwrap() error {
	return ce.Err
}

// Wrap adds "component.method: action failed" context without assigning a
// class. A nil err stays nil.
func Wrap(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s.%s: %s failed: %w", component, method, action, err)
}

// wrapOrNew builds the context line even without a cause; validation
// guards call the classified wrappers with nil.
func wrapOrNew(err error, component, method, action string) error {
	if err == nil {
		return fmt.Errorf("%s.%s: %s", component, method, action)
	}
	return Wrap(err, component, method, action)
}

func classified(class ErrorClass, err error, component, method, action string) error {
	wrapped := wrapOrNew(err, component, method, action)
	return &ClassifiedError{
		Class:     class,
		Err:       wrapped,
		Message:   wrapped.Error(),
		Component: component,
		Operation: method,
	}
}

// WrapTransient wraps err as transient with context.
func WrapTransient(err error, component, method, action string) error {
	return classified(ErrorTransient, err, component, method, action)
}

// WrapInvalid wraps err as invalid with context.
func WrapInvalid(err error, component, method, action string) error {
	return classified(ErrorInvalid, err, component, method, action)
}

// WrapFatal wraps err as fatal with context.
func WrapFatal(err error, component, method, action string) error {
	return classified(ErrorFatal, err, component, method, action)
}

// IsTransient reports whether err is worth retrying. Classified errors
// answer from their class; for everything else the sentinels and a message
// pattern fallback decide, so errors from drivers and the standard library
// classify usefully too.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class == ErrorTransient
	}

	if errors.Is(err, ErrStorageUnavailable) ||
		errors.Is(err, ErrRateLimited) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range []string{
		"timeout", "connection", "network", "temporary", "unavailable", "busy", "retry",
	} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

// IsInvalid reports whether err was caused by bad input.
func IsInvalid(err error) bool {
	if err == nil {
		return false
	}

	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class == ErrorInvalid
	}

	return errors.Is(err, ErrInvalidData)
}

// IsFatal reports whether err is unrecoverable.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}

	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class == ErrorFatal
	}

	if errors.Is(err, ErrInvalidConfig) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range []string{"fatal", "panic", "corrupted", "out of memory", "disk full"} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

// IsNotFound reports whether err indicates a missing entity. Not-found is
// orthogonal to the class: a classified invalid error wrapping ErrNotFound
// still answers true here, and the web layer checks it first.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNotFound) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "not found")
}

// IsUnauthorized reports whether err indicates missing or rejected
// authentication.
func IsUnauthorized(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrSessionExpired) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unauthorized") || strings.Contains(msg, "authentication")
}

// Classify returns the class of an arbitrary error. Unknown errors come
// back transient: the caller loses nothing by retrying them, where
// misclassifying a transient failure as fatal drops requests needlessly.
func Classify(err error) ErrorClass {
	switch {
	case err == nil:
		return ErrorTransient
	case IsTransient(err):
		return ErrorTransient
	case IsFatal(err):
		return ErrorFatal
	case IsInvalid(err):
		return ErrorInvalid
	default:
		return ErrorTransient
	}
}
