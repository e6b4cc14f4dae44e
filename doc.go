// Package cocktails is a self-hosted cocktail menu service: guests browse
// the menu from their phones, the bartender flips ingredients and cocktails
// on and off from an admin page, and every open browser updates live.
//
// # Overview
//
// The service is one HTTP process. The cocktail catalog is a YAML file read
// once at startup and immutable for the lifetime of the process; everything
// mutable (ingredient availability, manual per-cocktail overrides, admin
// sessions) lives in pluggable stores behind small interfaces. A cocktail is
// available when every ingredient it lists is available, unless an explicit
// override forces it on or off.
//
// # Request Path
//
// All traffic enters through a single port and a fixed middleware chain:
//
//	┌─────────────────────────────────────────────┐
//	│  recover → request-id → logging → metrics   │
//	└──────────────────────┬──────────────────────┘
//	          ┌────────────┼────────────┐
//	          ↓            ↓            ↓
//	     GET /ws      GET /metrics   everything else
//	   (websocket)    (Prometheus)        ↓
//	                              ┌───────────────┐
//	                              │ 120s timeout  │
//	                              │ 4-slot limit  │
//	                              └───────┬───────┘
//	                                      ↓
//	                               route handlers
//
// The in-flight limiter caps concurrent request handling at workers×threads
// (2×2 by default), mirroring the process/thread sizing of the deployment
// this service replaced; queued requests that outlive the request timeout
// are cut off by the serving layer, not by the handlers. The websocket and
// metrics endpoints sit outside the limiter so live updates and scrapes
// survive request saturation.
//
// # Packages
//
// Domain:
//   - catalog: YAML catalog loading, lookups, health verification
//   - menu: availability computation, grouping by main alcohol
//   - state: ingredient/override persistence (file, memory, sqlite, postgres)
//   - session: admin sessions with signed cookies (memory, redis)
//   - live: websocket hub broadcasting toggle events
//
// Serving:
//   - web: HTTP server, handlers, templates, middleware chain
//   - cmd/cocktails: binary entry point, flags, lifecycle
//
// Infrastructure:
//   - config: environment-driven configuration
//   - errors: classified error handling (transient, fatal, invalid)
//   - health: component health monitoring and aggregation
//   - metric: Prometheus metrics
//   - testutil: testcontainers helpers for integration tests
//
// # Configuration
//
// Configuration comes from environment variables, optionally seeded from a
// .env file in development (see .env.example). The defaults match the
// container deployment contract: bind :5000, catalog at cocktails.yaml,
// writable data directory, 120s request timeout, 4 concurrent requests.
// STATE_BACKEND and SESSION_BACKEND select persistence: the defaults keep
// everything on the local volume; postgres and redis move state and
// sessions out of the container for multi-replica deployments.
//
// # Health
//
// GET /health (and /healthz) reports 200 with a JSON body while the catalog
// file still exists and parses and the state and session backends answer;
// 503 otherwise. A background monitor re-checks each dependency on a fixed
// interval, and the same probe backs the container HEALTHCHECK through the
// binary's -healthcheck flag, so the image needs no curl or wget.
//
// # Binary
//
// Build and run:
//
//	go build -o cocktails ./cmd/cocktails
//	./cocktails
//
//	# or containerized
//	docker build -t cocktails .
//	docker run -p 5000:5000 -v cocktails-data:/app/data cocktails
//
// The menu is at /, the admin page at /admin (password from
// ADMIN_PASSWORD), metrics at /metrics.
//
// # Version
//
// Current: v0.1.0
package cocktails
