package main

import (
	"flag"
	"fmt"
	"os"
)

// CLIConfig holds command-line configuration. Everything else comes from
// environment variables; see printDetailedHelp for the list.
type CLIConfig struct {
	EnvFile     string
	HealthCheck bool
	ShowVersion bool
	ShowHelp    bool
}

// initializeCLI parses flags and handles the informational exits
func initializeCLI() (*CLIConfig, bool) {
	cfg := parseFlags()

	if cfg.ShowVersion {
		fmt.Printf("%s version %s (build %s)\n", appName, Version, BuildTime)
		return cfg, true
	}
	if cfg.ShowHelp {
		printDetailedHelp()
		return cfg, true
	}

	return cfg, false
}

func parseFlags() *CLIConfig {
	cfg := &CLIConfig{}

	flag.StringVar(&cfg.EnvFile, "env-file", "",
		"Path to a .env file to load before reading the environment")
	flag.BoolVar(&cfg.HealthCheck, "healthcheck", false,
		"Probe the local /health endpoint and exit 0 if healthy")
	flag.BoolVar(&cfg.ShowVersion, "version", false, "Show version information")
	flag.BoolVar(&cfg.ShowVersion, "v", false, "Show version information")
	flag.BoolVar(&cfg.ShowHelp, "help", false, "Show help information")
	flag.BoolVar(&cfg.ShowHelp, "h", false, "Show help information")

	flag.Usage = printDetailedHelp
	flag.Parse()

	return cfg
}

func printDetailedHelp() {
	_, _ = fmt.Fprintf(os.Stderr, `%s - Cocktail Menu Service

Usage: %s [options]

Options:
`, appName, os.Args[0])
	flag.PrintDefaults()
	_, _ = fmt.Fprintf(os.Stderr, `
Configuration is environment-driven:
  BIND_ADDR              Listen address (default :5000)
  WORKERS                Worker count for in-flight sizing (default 2)
  THREADS                Threads per worker (default 2)
  REQUEST_TIMEOUT        Per-request timeout (default 120s)
  SHUTDOWN_TIMEOUT       Graceful drain timeout (default 10s)
  CATALOG_PATH           Cocktail catalog YAML (default cocktails.yaml)
  DATA_DIR               Writable state directory (default data)
  SECRET_KEY             Session cookie signing key
  ADMIN_PASSWORD         Admin console password (default admin)
  SESSION_TTL            Session lifetime (default 24h)
  LOGIN_RATE_PER_MINUTE  Login attempts per host per minute (default 10)
  STATE_BACKEND          file, memory, sqlite or postgres (default file)
  DATABASE_URL           Postgres URL for the postgres backend
  SESSION_BACKEND        memory or redis (default memory)
  REDIS_URL              Redis URL for the redis backend
  HEALTH_INTERVAL        Background check cadence (default 30s)
  HEALTH_TIMEOUT         Per-check timeout (default 3s)
  LOG_LEVEL              debug, info, warn, error (default info)
  LOG_FORMAT             json or text (default json)

Examples:
  # Run with a local env file
  %s -env-file .env

  # Container healthcheck probe
  %s -healthcheck

Version: %s
Build: %s
`, os.Args[0], os.Args[0], Version, BuildTime)
}
