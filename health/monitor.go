package health

import (
	"sync"
	"time"
)

// Monitor holds the latest status of every service component. The Runner
// writes into it on its check schedule; the probe handler reads the
// aggregate on each request.
type Monitor struct {
	mu       sync.RWMutex
	statuses map[string]Status
}

// NewMonitor returns an empty monitor.
func NewMonitor() *Monitor {
	return &Monitor{statuses: make(map[string]Status)}
}

// Update records the status under the given name. The name wins over
// whatever Component the status carries, and a missing timestamp is
// stamped with the current time.
func (m *Monitor) Update(name string, status Status) {
	status.Component = name
	if status.Timestamp.IsZero() {
		status.Timestamp = time.Now()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses[name] = status
}

// UpdateHealthy marks a component healthy.
func (m *Monitor) UpdateHealthy(name, message string) {
	m.Update(name, NewHealthy(name, message))
}

// UpdateUnhealthy marks a component unhealthy.
func (m *Monitor) UpdateUnhealthy(name, message string) {
	m.Update(name, NewUnhealthy(name, message))
}

// UpdateDegraded marks a component degraded.
func (m *Monitor) UpdateDegraded(name, message string) {
	m.Update(name, NewDegraded(name, message))
}

// Get returns the recorded status for a component.
func (m *Monitor) Get(name string) (Status, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	status, ok := m.statuses[name]
	return status, ok
}

// GetAll returns a copy of every recorded status keyed by component.
func (m *Monitor) GetAll() map[string]Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]Status, len(m.statuses))
	for name, status := range m.statuses {
		out[name] = status
	}
	return out
}

// AggregateHealth rolls every recorded status up into one system status.
func (m *Monitor) AggregateHealth(systemName string) Status {
	m.mu.RLock()
	subs := make([]Status, 0, len(m.statuses))
	for _, status := range m.statuses {
		subs = append(subs, status)
	}
	m.mu.RUnlock()

	return Aggregate(systemName, subs)
}

// Aggregate combines sub-statuses into one: any unhealthy component makes
// the whole unhealthy, otherwise any degraded component makes it degraded,
// otherwise it is healthy. No sub-statuses aggregate to healthy, so a
// monitor that has not completed its first pass does not fail the probe.
func Aggregate(component string, subStatuses []Status) Status {
	var unhealthy, degraded bool
	for _, sub := range subStatuses {
		switch {
		case sub.IsUnhealthy():
			unhealthy = true
		case sub.IsDegraded():
			degraded = true
		}
	}

	var status Status
	switch {
	case unhealthy:
		status = NewUnhealthy(component, "One or more sub-components are unhealthy")
	case degraded:
		status = NewDegraded(component, "One or more sub-components are degraded")
	default:
		status = NewHealthy(component, "All sub-components are healthy")
	}

	status.SubStatuses = make([]Status, len(subStatuses))
	copy(status.SubStatuses, subStatuses)
	return status
}
