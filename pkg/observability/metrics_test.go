package observability_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/aretw0/statewalk"
	"github.com/aretw0/statewalk/pkg/domain"
	"github.com/aretw0/statewalk/pkg/observability"
)

func TestMetrics_CountsDispatches(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(reg)
	if err != nil {
		t.Fatalf("failed to create metrics: %v", err)
	}

	m, err := statewalk.New(&domain.MachineDef{
		ID:      "light",
		Initial: "green",
		States: []domain.StateDef{
			{Key: "green", On: []domain.EventDef{domain.On("TIMER", "yellow")}},
			{Key: "yellow", On: []domain.EventDef{domain.Forbid("TIMER")}},
		},
	}, statewalk.WithLifecycleHooks(metrics.Hooks()))
	if err != nil {
		t.Fatalf("failed to build machine: %v", err)
	}

	if _, err := m.Transition("green", "TIMER"); err != nil {
		t.Fatalf("transition failed: %v", err)
	}
	if _, err := m.Transition("yellow", "TIMER"); err != nil {
		t.Fatalf("transition failed: %v", err)
	}
	if _, err := m.Transition("green", "NOPE"); err != nil {
		t.Fatalf("transition failed: %v", err)
	}

	check := func(event, result string, want float64) {
		got := testutil.ToFloat64(metrics.Dispatches().WithLabelValues("light", event, result))
		if got != want {
			t.Errorf("dispatches{event=%s,result=%s}: expected %v, got %v", event, result, want, got)
		}
	}
	check("TIMER", "changed", 1)
	check("TIMER", "blocked", 1)
	check("NOPE", "unhandled", 1)
}

func TestMetrics_DoubleRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := observability.NewMetrics(reg); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	if _, err := observability.NewMetrics(reg); err == nil {
		t.Error("expected duplicate registration to fail")
	}
}
