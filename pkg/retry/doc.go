// Package retry provides bounded exponential backoff for operations that
// fail transiently.
//
// The main customer is startup: in an orchestrated deployment the database
// and session backends routinely come up after the service container, so
// the first connection attempts are expected to fail and then succeed.
//
//	store, err := retry.DoWithResult(ctx, retry.Startup(), func() (state.Store, error) {
//	    return state.Open(ctx, cfg)
//	})
//
// Errors wrapped with NonRetryable stop the loop immediately; everything
// else is retried until the attempt budget or the context runs out.
package retry
