// Package errors provides standardized error handling patterns for the cocktail
// menu service.
//
// # Overview
//
// The errors package implements a three-class error classification system:
// Transient (temporary, retryable), Invalid (bad input, non-retryable), and
// Fatal (unrecoverable, stop processing).
//
// This classification enables intelligent error handling throughout the
// service, allowing handlers and storage backends to make informed decisions
// about retries, HTTP status codes, and failure recovery without hardcoded
// error string matching.
//
// # Error Classification
//
// Errors are automatically classified based on their type or content:
//
//   - Transient: network timeouts, connection issues, temporary unavailability (retry recommended)
//   - Invalid: malformed input, validation failures, bad configuration (do not retry)
//   - Fatal: data corruption, unrecoverable states (stop processing)
//
// The classification system integrates with Go's standard error handling,
// supporting errors.Is(), errors.As(), and error wrapping chains.
//
// # Quick Start
//
// Use standard error variables for common conditions:
//
//	if _, ok := catalog.Get(name); !ok {
//	    return errors.ErrNotFound
//	}
//
// Wrap errors with context for debugging:
//
//	if err := store.SetIngredientState(ctx, name, available); err != nil {
//	    return errors.Wrap(err, "ToggleService", "ToggleIngredient", "persist state")
//	}
//
// Check classification for retry or status-code logic:
//
//	if err := op(); err != nil && errors.IsTransient(err) {
//	    // retry, typically through pkg/retry
//	}
//
// # Error Wrapping Pattern
//
// All error wrapping follows the standardized format:
//
//	"component.method: action failed: %w"
//
// This format enables consistent log parsing and debugging across the
// service. The Wrap family of functions applies this pattern while preserving
// error classification through the chain:
//
//	errors.WrapTransient(err, "RedisStore", "Get", "fetch session")  // retryable
//	errors.WrapInvalid(err, "Catalog", "Load", "parse yaml")         // validation
//	errors.WrapFatal(err, "FileStore", "load", "decode state file")  // unrecoverable
//
// # Context Cancellation
//
// Context errors (context.DeadlineExceeded, context.Canceled) are classified
// as Transient, so request-timeout aborts and client disconnects flow through
// the same handling as network timeouts.
//
// # HTTP Mapping
//
// The web layer maps classes to status codes: Invalid → 400, not-found → 404,
// unauthorized → 401, Transient → 503 (timeout flavors → 504), Fatal and
// unknown → 500. See the web package for the mapping itself; this package only
// supplies the classification.
//
// # Thread Safety
//
// All classification and wrapping operations are thread-safe. Error variables
// are immutable and safe for concurrent access.
package errors
