// Package health tracks component health behind the service's probe
// endpoint.
//
// Three states exist: healthy, degraded and unhealthy. Degraded means a
// component is impaired but the service can still serve (a slow session
// backend, say); only unhealthy components fail the probe.
//
// A Monitor holds the latest Status per component. A Runner executes
// registered checks on an interval, each under its own timeout, writes the
// results into the Monitor and logs transitions:
//
//	monitor := health.NewMonitor()
//	runner := health.NewRunner(monitor,
//	    health.WithInterval(30*time.Second),
//	    health.WithCheckTimeout(3*time.Second),
//	)
//	runner.Register("catalog", func(ctx context.Context) error {
//	    return catalog.Verify(path)
//	})
//	runner.Register("state", store.Ping)
//	go runner.Run(ctx)
//
// The probe handler reads monitor.AggregateHealth and answers 503 when the
// aggregate is unhealthy. Check error messages pass through sanitization
// (connection URLs, paths, addresses, credentials) before they can appear
// on the endpoint, which is unauthenticated by nature: container probes
// cannot log in.
package health
