/*
Package observability exports engine activity to monitoring systems.

The engine itself stays pure; observation happens through the lifecycle
hooks a Machine is constructed with. This package turns those hooks into
Prometheus counters, and helps hosts combine several hook sets.
*/
package observability

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/statewalk/pkg/domain"
)

// Metrics holds the Prometheus collectors for one or more machines.
// Machines are distinguished by the "machine" label, event types by
// "event", and outcomes by "result" (changed, unhandled, blocked).
type Metrics struct {
	dispatches *prometheus.CounterVec
	actions    *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors. Pass
// prometheus.DefaultRegisterer for the process-global registry.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "statewalk",
			Name:      "dispatches_total",
			Help:      "Event dispatches by machine, event type and outcome.",
		}, []string{"machine", "event", "result"}),
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "statewalk",
			Name:      "actions_collected_total",
			Help:      "Action identifiers collected on transitions, by machine.",
		}, []string{"machine"}),
	}
	for _, c := range []prometheus.Collector{m.dispatches, m.actions} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Dispatches exposes the dispatch counter, mainly for tests.
func (m *Metrics) Dispatches() *prometheus.CounterVec { return m.dispatches }

// Hooks returns the lifecycle hooks feeding these collectors. Pass the
// result to statewalk.WithLifecycleHooks, combining with other hook sets via
// domain.CombineHooks if needed.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(obs *domain.TransitionObservation) {
			m.dispatches.WithLabelValues(obs.MachineID, obs.Event.Type, string(obs.Result)).Inc()
			if len(obs.Actions) > 0 {
				m.actions.WithLabelValues(obs.MachineID).Add(float64(len(obs.Actions)))
			}
		},
	}
}
