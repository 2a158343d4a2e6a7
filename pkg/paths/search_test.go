package paths_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/statewalk"
	"github.com/aretw0/statewalk/pkg/domain"
	"github.com/aretw0/statewalk/pkg/paths"
)

func lightMachine(t *testing.T) *statewalk.Machine {
	t.Helper()
	m, err := statewalk.New(&domain.MachineDef{
		ID:      "light",
		Initial: "green",
		States: []domain.StateDef{
			{Key: "green", On: []domain.EventDef{domain.On("TIMER", "yellow")}},
			{Key: "yellow", On: []domain.EventDef{domain.On("TIMER", "red")}},
			{
				Key:     "red",
				Initial: "walk",
				On:      []domain.EventDef{domain.On("TIMER", "green")},
				States: []domain.StateDef{
					{Key: "walk", On: []domain.EventDef{
						domain.On("PED_COUNTDOWN", "wait"),
						domain.Forbid("TIMER"),
					}},
					{Key: "wait", On: []domain.EventDef{
						domain.On("PED_COUNTDOWN", "stop"),
						domain.Forbid("TIMER"),
					}},
					{Key: "stop"},
				},
			},
		},
	})
	require.NoError(t, err)
	return m
}

func TestShortestPaths(t *testing.T) {
	m := lightMachine(t)

	set, order, err := paths.ShortestPaths(m)
	require.NoError(t, err)

	// Every reachable configuration gets exactly one path.
	require.Len(t, set, 5)
	for key, ps := range set {
		assert.Len(t, ps, 1, "configuration %s", key)
	}

	// The initial configuration carries the empty path.
	assert.Equal(t, 0, set["green"][0].Len())

	// Path lengths equal BFS depth.
	wantLen := map[string]int{
		"green":    0,
		"yellow":   1,
		"red.walk": 2,
		"red.wait": 3,
		"red.stop": 4,
	}
	for key, want := range wantLen {
		require.Contains(t, set, key)
		assert.Equal(t, want, set[key][0].Len(), "path length to %s", key)
	}

	// Discovery order is deterministic: BFS layer by layer.
	var keys []string
	for _, c := range order {
		keys = append(keys, c.Key())
	}
	assert.Equal(t, []string{"green", "yellow", "red.walk", "red.wait", "red.stop"}, keys)

	// Steps chain correctly.
	toStop := set["red.stop"][0]
	assert.Equal(t, "green", toStop.Steps[0].State.Key())
	for i := 1; i < len(toStop.Steps); i++ {
		assert.True(t, toStop.Steps[i].State.Equal(toStop.Steps[i-1].NextState),
			"step %d does not chain", i)
	}
}

func TestShortestPaths_PrefersDeclarationOrder(t *testing.T) {
	// b is reachable via E1 and E2 at the same depth; E1 is declared first
	// and must win the tie.
	m, err := statewalk.New(&domain.MachineDef{
		ID:      "tie",
		Initial: "a",
		States: []domain.StateDef{
			{Key: "a", On: []domain.EventDef{
				domain.On("E1", "b"),
				domain.On("E2", "b"),
			}},
			{Key: "b"},
		},
	})
	require.NoError(t, err)

	set, _, err := paths.ShortestPaths(m)
	require.NoError(t, err)
	require.Len(t, set["b"], 1)
	assert.Equal(t, "E1", set["b"][0].Steps[0].Event.Type)
}

func TestSimplePaths(t *testing.T) {
	m := lightMachine(t)

	set, _, err := paths.SimplePaths(m)
	require.NoError(t, err)

	// No path may visit the same configuration twice.
	for key, ps := range set {
		for _, p := range ps {
			seen := map[string]bool{}
			if p.Len() > 0 {
				seen[p.Steps[0].State.Key()] = true
			}
			for _, step := range p.Steps {
				assert.False(t, seen[step.NextState.Key()],
					"path to %s revisits %s", key, step.NextState.Key())
				seen[step.NextState.Key()] = true
			}
		}
	}

	// The light cycle has exactly one simple path per configuration.
	for key, ps := range set {
		assert.Len(t, ps, 1, "configuration %s", key)
	}
}

func TestSimplePaths_MultipleRoutes(t *testing.T) {
	// Diamond: a -> b -> d and a -> c -> d.
	m, err := statewalk.New(&domain.MachineDef{
		ID:      "diamond",
		Initial: "a",
		States: []domain.StateDef{
			{Key: "a", On: []domain.EventDef{
				domain.On("LEFT", "b"),
				domain.On("RIGHT", "c"),
			}},
			{Key: "b", On: []domain.EventDef{domain.On("DOWN", "d")}},
			{Key: "c", On: []domain.EventDef{domain.On("DOWN", "d")}},
			{Key: "d"},
		},
	})
	require.NoError(t, err)

	set, _, err := paths.SimplePaths(m)
	require.NoError(t, err)

	require.Len(t, set["d"], 2)
	assert.Equal(t, "LEFT", set["d"][0].Steps[0].Event.Type)
	assert.Equal(t, "RIGHT", set["d"][1].Steps[0].Event.Type)
}

func TestFromEvents(t *testing.T) {
	m := lightMachine(t)

	t.Run("records no-op steps", func(t *testing.T) {
		path, err := paths.FromEvents(m, []any{"TIMER", "TIMER", "TIMER"}, false)
		require.NoError(t, err)
		require.Equal(t, 3, path.Len())
		assert.Equal(t, "red.walk", path.Target.Key())

		// The third TIMER is forbidden on red.walk: recorded, not an error.
		last := path.Steps[2]
		assert.False(t, last.Changed)
		assert.Equal(t, "red.walk", last.NextState.Key())
	})

	t.Run("strict mode rejects no-ops", func(t *testing.T) {
		_, err := paths.FromEvents(m, []any{"TIMER", "TIMER", "TIMER"}, true)
		var replayErr *paths.ReplayError
		require.ErrorAs(t, err, &replayErr)
		assert.Equal(t, 2, replayErr.StepIndex)
	})

	t.Run("unknown event is a recorded no-op", func(t *testing.T) {
		path, err := paths.FromEvents(m, []any{"NOPE"}, false)
		require.NoError(t, err)
		assert.False(t, path.Steps[0].Changed)
	})

	t.Run("missing event fails", func(t *testing.T) {
		_, err := paths.FromEvents(m, []any{nil}, false)
		assert.True(t, errors.Is(err, domain.ErrMissingEvent))
	})
}

func TestGenerators(t *testing.T) {
	m := lightMachine(t)

	cases := []struct {
		gen       paths.Generator
		wantName  string
		wantPaths int
	}{
		{paths.Shortest(), "shortest-paths", 5},
		{paths.Simple(), "simple-paths", 5},
		{paths.Events([]any{"TIMER"}, false), "from-events", 1},
	}
	for _, tc := range cases {
		t.Run(tc.wantName, func(t *testing.T) {
			assert.Equal(t, tc.wantName, tc.gen.Name())
			got, err := tc.gen.Paths(m)
			require.NoError(t, err)
			assert.Len(t, got, tc.wantPaths)
		})
	}
}
