package runtime_test

import (
	"reflect"
	"testing"

	"github.com/aretw0/statewalk/internal/runtime"
	"github.com/aretw0/statewalk/pkg/domain"
)

func TestCompile_Invariants(t *testing.T) {
	cases := []struct {
		name string
		def  *domain.MachineDef
	}{
		{"no states", &domain.MachineDef{ID: "m", Initial: "a"}},
		{"missing root initial", &domain.MachineDef{ID: "m", States: []domain.StateDef{{Key: "a"}}}},
		{"initial not a child", &domain.MachineDef{ID: "m", Initial: "b", States: []domain.StateDef{{Key: "a"}}}},
		{"duplicate sibling key", &domain.MachineDef{ID: "m", Initial: "a", States: []domain.StateDef{{Key: "a"}, {Key: "a"}}}},
		{"dotted key", &domain.MachineDef{ID: "m", Initial: "a.b", States: []domain.StateDef{{Key: "a.b"}}}},
		{"compound without initial", &domain.MachineDef{ID: "m", Initial: "a", States: []domain.StateDef{
			{Key: "a", States: []domain.StateDef{{Key: "a1"}}},
		}}},
		{"initial on atomic", &domain.MachineDef{ID: "m", Initial: "a", States: []domain.StateDef{
			{Key: "a", Initial: "x"},
		}}},
		{"duplicate event entry", &domain.MachineDef{ID: "m", Initial: "a", States: []domain.StateDef{
			{Key: "a", On: []domain.EventDef{domain.On("T", "a"), domain.Forbid("T")}},
		}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := runtime.Compile(tc.def); err == nil {
				t.Error("expected compile to fail")
			}
		})
	}
}

func TestTreeEvents_DeclarationOrder(t *testing.T) {
	tree := trafficLight(t)
	want := []string{"TIMER", "PED_COUNTDOWN"}
	if got := tree.Events(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestResolve(t *testing.T) {
	tree := trafficLight(t)

	t.Run("compound node", func(t *testing.T) {
		node, err := tree.Resolve(domain.Configuration{"red"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if node.ID != "red" || node.Type != domain.NodeCompound {
			t.Errorf("unexpected node: %+v", node)
		}
	})

	t.Run("leaf node", func(t *testing.T) {
		node, err := tree.Resolve(domain.Configuration{"red", "wait"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if node.ID != "red.wait" {
			t.Errorf("expected red.wait, got %q", node.ID)
		}
	})

	t.Run("descent into atomic fails", func(t *testing.T) {
		_, err := tree.Resolve(domain.Configuration{"green", "deeper"})
		if !domain.ErrInvalidStateReference(err) {
			t.Errorf("expected invalid state reference, got %v", err)
		}
	})

	t.Run("unknown top-level key fails", func(t *testing.T) {
		_, err := tree.Resolve(domain.Configuration{"fake"})
		if !domain.ErrInvalidStateReference(err) {
			t.Errorf("expected invalid state reference, got %v", err)
		}
	})
}

func TestNodes_Snapshots(t *testing.T) {
	tree := trafficLight(t)
	nodes, err := tree.Nodes()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	byID := make(map[string]domain.NodeInfo)
	var order []string
	for _, n := range nodes {
		byID[n.ID] = n
		order = append(order, n.ID)
	}

	// Document order: parents before children, siblings in declaration order.
	want := []string{"green", "yellow", "red", "red.walk", "red.wait", "red.stop"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("expected order %v, got %v", want, order)
	}

	red := byID["red"]
	if red.Type != domain.NodeCompound || red.Initial != "walk" {
		t.Errorf("unexpected red snapshot: %+v", red)
	}
	if !reflect.DeepEqual(red.Children, []string{"red.walk", "red.wait", "red.stop"}) {
		t.Errorf("unexpected children: %v", red.Children)
	}

	// Targets are resolved to absolute IDs; forbidden entries carry none.
	walk := byID["red.walk"]
	if len(walk.Transitions) != 2 {
		t.Fatalf("expected 2 transitions, got %+v", walk.Transitions)
	}
	if walk.Transitions[0].Kind != domain.TransitionTargeted || walk.Transitions[0].Target != "red.wait" {
		t.Errorf("unexpected first transition: %+v", walk.Transitions[0])
	}
	if walk.Transitions[1].Kind != domain.TransitionForbidden || walk.Transitions[1].Target != "" {
		t.Errorf("unexpected second transition: %+v", walk.Transitions[1])
	}
}
