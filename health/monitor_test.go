package health

import (
	"sync"
	"testing"
)

func TestMonitor_UpdateAndGet(t *testing.T) {
	monitor := NewMonitor()

	if _, ok := monitor.Get("catalog"); ok {
		t.Fatal("empty monitor should not know any component")
	}

	monitor.Update("catalog", Status{Status: StateHealthy, Message: "parsed"})

	status, ok := monitor.Get("catalog")
	if !ok {
		t.Fatal("expected catalog status after update")
	}
	if status.Component != "catalog" {
		t.Errorf("Update should stamp the component name, got %q", status.Component)
	}
	if status.Timestamp.IsZero() {
		t.Error("Update should stamp a missing timestamp")
	}
	if !status.IsHealthy() {
		t.Errorf("expected healthy, got %s", status.Status)
	}
}

func TestMonitor_UpdateOverridesComponentName(t *testing.T) {
	monitor := NewMonitor()
	monitor.Update("state", Status{Component: "something-else", Status: StateUnhealthy})

	status, ok := monitor.Get("state")
	if !ok {
		t.Fatal("expected state status")
	}
	if status.Component != "state" {
		t.Errorf("expected component 'state', got %q", status.Component)
	}
}

func TestMonitor_ConvenienceUpdates(t *testing.T) {
	monitor := NewMonitor()

	monitor.UpdateHealthy("catalog", "parsed")
	monitor.UpdateUnhealthy("state", "ping failed")
	monitor.UpdateDegraded("sessions", "slow responses")

	if s, _ := monitor.Get("catalog"); !s.IsHealthy() {
		t.Errorf("expected catalog healthy, got %s", s.Status)
	}
	if s, _ := monitor.Get("state"); !s.IsUnhealthy() || s.Message != "ping failed" {
		t.Errorf("expected state unhealthy with message, got %s %q", s.Status, s.Message)
	}
	if s, _ := monitor.Get("sessions"); !s.IsDegraded() {
		t.Errorf("expected sessions degraded, got %s", s.Status)
	}
}

func TestMonitor_GetAllReturnsCopy(t *testing.T) {
	monitor := NewMonitor()
	monitor.UpdateHealthy("catalog", "ok")
	monitor.UpdateHealthy("state", "ok")

	all := monitor.GetAll()
	if len(all) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(all))
	}

	all["catalog"] = Status{Component: "mutated"}
	if s, _ := monitor.Get("catalog"); s.Component != "catalog" {
		t.Error("mutating the GetAll result must not touch the monitor")
	}
}

func TestMonitor_AggregateHealth(t *testing.T) {
	monitor := NewMonitor()

	// An unpopulated monitor must not fail the probe.
	if agg := monitor.AggregateHealth("cocktail-menu"); !agg.IsHealthy() {
		t.Errorf("empty monitor should aggregate healthy, got %s", agg.Status)
	}

	monitor.UpdateHealthy("catalog", "ok")
	monitor.UpdateHealthy("state", "ok")
	if agg := monitor.AggregateHealth("cocktail-menu"); !agg.IsHealthy() {
		t.Errorf("all healthy should aggregate healthy, got %s", agg.Status)
	}

	monitor.UpdateDegraded("sessions", "slow")
	if agg := monitor.AggregateHealth("cocktail-menu"); !agg.IsDegraded() {
		t.Errorf("one degraded should aggregate degraded, got %s", agg.Status)
	}

	monitor.UpdateUnhealthy("state", "ping failed")
	agg := monitor.AggregateHealth("cocktail-menu")
	if !agg.IsUnhealthy() {
		t.Fatalf("one unhealthy should aggregate unhealthy, got %s", agg.Status)
	}
	if agg.Component != "cocktail-menu" {
		t.Errorf("expected aggregate component 'cocktail-menu', got %q", agg.Component)
	}
	if len(agg.SubStatuses) != 3 {
		t.Errorf("expected 3 sub-statuses, got %d", len(agg.SubStatuses))
	}
}

func TestAggregate_CopiesSubStatuses(t *testing.T) {
	subs := []Status{NewHealthy("catalog", "ok"), NewUnhealthy("state", "down")}
	agg := Aggregate("cocktail-menu", subs)

	subs[0] = Status{Component: "mutated"}
	if agg.SubStatuses[0].Component != "catalog" {
		t.Error("aggregate must hold its own copy of the sub-statuses")
	}
}

func TestMonitor_ConcurrentAccess(t *testing.T) {
	monitor := NewMonitor()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				monitor.UpdateHealthy("catalog", "ok")
				monitor.UpdateUnhealthy("state", "down")
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				monitor.Get("catalog")
				monitor.AggregateHealth("cocktail-menu")
				monitor.GetAll()
			}
		}()
	}
	wg.Wait()

	if len(monitor.GetAll()) != 2 {
		t.Errorf("expected 2 components after concurrent updates, got %d", len(monitor.GetAll()))
	}
}
