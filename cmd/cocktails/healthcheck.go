package main

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"
)

// selfProbe hits the local health endpoint and reports the result through
// the exit code. BIND_ADDR decides the port, matching the serving process
// in the same container.
func selfProbe() error {
	addr := os.Getenv("BIND_ADDR")
	if addr == "" {
		addr = ":5000"
	}
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("parse BIND_ADDR %q: %w", addr, err)
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}

	client := &http.Client{Timeout: 3 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://%s/health", net.JoinHostPort(host, port)))
	if err != nil {
		return fmt.Errorf("health probe: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("service unhealthy: status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
