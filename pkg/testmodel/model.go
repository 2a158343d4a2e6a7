/*
Package testmodel replays generated paths against a real system under test
and asserts that the observed state matches the machine's prediction at
every step.

The host supplies two collaborators: an Executor that applies an event to
the system (and returns only once its effect is observable), and an Observer
that reads the system's current state in any accepted external form. The
model owns nothing else; resetting the system between paths is the host's
job, via WithReset or its own harness.
*/
package testmodel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/statewalk"
	"github.com/aretw0/statewalk/internal/logging"
	"github.com/aretw0/statewalk/pkg/domain"
	"github.com/aretw0/statewalk/pkg/paths"
)

// Executor applies one event to the system under test. It must not return
// before the event's effect is observable.
type Executor func(ctx context.Context, event domain.Event) error

// Observer reads the system under test's current state. Any external
// configuration form is accepted (dotted string or nested mapping).
type Observer func(ctx context.Context) (any, error)

// AssertionError reports a step whose observed configuration diverged from
// the prediction.
type AssertionError struct {
	PathIndex int
	StepIndex int
	Expected  string
	Actual    string
	Event     domain.Event
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("path %d step %d: after event %q expected configuration %q, observed %q",
		e.PathIndex, e.StepIndex, e.Event.Type, e.Expected, e.Actual)
}

// Model binds a machine, a path generator, and the host collaborators.
type Model struct {
	machine    *statewalk.Machine
	generator  paths.Generator
	logger     *slog.Logger
	reset      func(ctx context.Context) error
	continueOn bool
}

// Option configures a Model.
type Option func(*Model)

// WithLogger injects a structured logger for per-step progress records.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Model) { m.logger = logger }
}

// WithReset registers a host callback invoked before each path, typically
// restoring the system under test to its initial state.
func WithReset(reset func(ctx context.Context) error) Option {
	return func(m *Model) { m.reset = reset }
}

// ContinueOnFailure keeps executing remaining paths after an assertion
// mismatch instead of stopping at the first one. Failed paths are abandoned
// at the failing step either way; the failures are collected in the report.
func ContinueOnFailure() Option {
	return func(m *Model) { m.continueOn = true }
}

// New builds a test model.
func New(machine *statewalk.Machine, generator paths.Generator, opts ...Option) *Model {
	m := &Model{
		machine:   machine,
		generator: generator,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run generates paths and replays each one against the system under test.
// Steps within a path are strictly sequential: execute, observe, assert.
// A mismatch fails the current path (remaining steps are abandoned) and, by
// default, stops the run with the AssertionError; ContinueOnFailure turns
// that into a collected failure instead. The returned report is valid in
// both cases.
func (m *Model) Run(ctx context.Context, executor Executor, observer Observer) (*Report, error) {
	generated, err := m.generator.Paths(m.machine)
	if err != nil {
		return nil, fmt.Errorf("path generation (%s) failed: %w", m.generator.Name(), err)
	}

	report := newReport(m.machine, m.generator.Name())
	for pathIndex, path := range generated {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if m.reset != nil {
			if err := m.reset(ctx); err != nil {
				return report, fmt.Errorf("reset before path %d failed: %w", pathIndex, err)
			}
		}
		report.visitConfiguration(m.machine.InitialState().Configuration)

		if err := m.runPath(ctx, pathIndex, path, executor, observer, report); err != nil {
			var mismatch *AssertionError
			if m.continueOn && errors.As(err, &mismatch) {
				report.Failures = append(report.Failures, mismatch)
				continue
			}
			return report, err
		}
		report.PathsExecuted++
	}
	return report, nil
}

func (m *Model) runPath(ctx context.Context, pathIndex int, path *domain.Path, executor Executor, observer Observer, report *Report) error {
	for stepIndex, step := range path.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := executor(ctx, step.Event); err != nil {
			return fmt.Errorf("path %d step %d: executor failed: %w", pathIndex, stepIndex, err)
		}
		observed, err := observer(ctx)
		if err != nil {
			return fmt.Errorf("path %d step %d: observer failed: %w", pathIndex, stepIndex, err)
		}
		actual, err := domain.ConfigurationFrom(observed)
		if err != nil {
			return fmt.Errorf("path %d step %d: observer returned an invalid configuration: %w", pathIndex, stepIndex, err)
		}

		expected := step.NextState
		m.logger.Debug("step",
			slog.Int("path", pathIndex),
			slog.Int("step", stepIndex),
			slog.String("event", step.Event.Type),
			slog.String("expected", expected.Key()),
			slog.String("observed", actual.Key()))

		if !actual.Equal(expected) {
			return &AssertionError{
				PathIndex: pathIndex,
				StepIndex: stepIndex,
				Expected:  expected.Key(),
				Actual:    actual.Key(),
				Event:     step.Event,
			}
		}
		report.visitStep(step)
	}
	return nil
}
