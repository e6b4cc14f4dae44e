// Package testutil provides testcontainers-based backends for integration
// tests.
//
// The helpers start disposable Postgres and Redis servers and hand back a
// connection URL; tests build their own stores on top, so the helpers stay
// free of domain imports. Each backend comes in two forms: a Start* function
// that takes testing.TB and registers cleanup, and a NewShared* function
// that returns errors for use in TestMain when several tests share one
// container.
//
// Tests built on these helpers skip under -short so the default test run
// needs no Docker daemon.
package testutil
