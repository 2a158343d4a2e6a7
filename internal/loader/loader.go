// Package loader parses YAML machine definitions into definition literals.
//
// Declaration order of states and events is semantically significant (it
// breaks ties in path search), so the loader walks yaml.Node mappings
// directly instead of decoding into Go maps, which would lose ordering.
package loader

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/statewalk/pkg/domain"
)

// Parse decodes a YAML machine definition.
//
// Format:
//
//	id: light
//	initial: green
//	states:
//	  green:
//	    on:
//	      TIMER: yellow
//	  red:
//	    initial: walk
//	    on:
//	      TIMER: green
//	    states:
//	      walk:
//	        on:
//	          PED_COUNTDOWN: wait
//	          TIMER: ~        # null marks the event explicitly forbidden
//	        on_entry: [startWalkSignal]
//
// A null transition value is the forbidden marker: the event is declared but
// blocked, which is different from omitting it (the event would bubble).
func Parse(data []byte) (*domain.MachineDef, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse machine definition: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("machine definition is empty")
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("machine definition must be a mapping, got %s", kindName(root))
	}

	def := &domain.MachineDef{}
	for _, pair := range mappingPairs(root) {
		key, value := pair.key, pair.value
		switch key.Value {
		case "id":
			def.ID = value.Value
		case "initial":
			def.Initial = value.Value
		case "states":
			states, err := parseStates(value)
			if err != nil {
				return nil, err
			}
			def.States = states
		default:
			return nil, fmt.Errorf("line %d: unknown machine field %q", key.Line, key.Value)
		}
	}
	if def.ID == "" {
		return nil, fmt.Errorf("machine definition is missing an id")
	}
	return def, nil
}

func parseStates(node *yaml.Node) ([]domain.StateDef, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: states must be a mapping, got %s", node.Line, kindName(node))
	}
	var states []domain.StateDef
	for _, pair := range mappingPairs(node) {
		key, value := pair.key, pair.value
		sd, err := parseState(key.Value, value)
		if err != nil {
			return nil, err
		}
		states = append(states, sd)
	}
	return states, nil
}

func parseState(key string, node *yaml.Node) (domain.StateDef, error) {
	sd := domain.StateDef{Key: key}
	if node.Tag == "!!null" {
		// A state with no body at all: an atomic sink.
		return sd, nil
	}
	if node.Kind != yaml.MappingNode {
		return sd, fmt.Errorf("line %d: state %q must be a mapping, got %s", node.Line, key, kindName(node))
	}
	for _, pair := range mappingPairs(node) {
		field, value := pair.key, pair.value
		switch field.Value {
		case "initial":
			sd.Initial = value.Value
		case "states":
			children, err := parseStates(value)
			if err != nil {
				return sd, err
			}
			sd.States = children
		case "on":
			events, err := parseTransitions(key, value)
			if err != nil {
				return sd, err
			}
			sd.On = events
		case "on_entry":
			ids, err := parseStringList(value)
			if err != nil {
				return sd, fmt.Errorf("state %q: on_entry: %w", key, err)
			}
			sd.OnEntry = ids
		case "on_exit":
			ids, err := parseStringList(value)
			if err != nil {
				return sd, fmt.Errorf("state %q: on_exit: %w", key, err)
			}
			sd.OnExit = ids
		case "activities":
			ids, err := parseStringList(value)
			if err != nil {
				return sd, fmt.Errorf("state %q: activities: %w", key, err)
			}
			sd.Activities = ids
		default:
			return sd, fmt.Errorf("line %d: state %q: unknown field %q", field.Line, key, field.Value)
		}
	}
	return sd, nil
}

func parseTransitions(state string, node *yaml.Node) ([]domain.EventDef, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: state %q: on must be a mapping, got %s", node.Line, state, kindName(node))
	}
	var events []domain.EventDef
	for _, pair := range mappingPairs(node) {
		key, value := pair.key, pair.value
		switch {
		case value.Tag == "!!null":
			events = append(events, domain.Forbid(key.Value))
		case value.Kind == yaml.ScalarNode:
			events = append(events, domain.On(key.Value, value.Value))
		default:
			return nil, fmt.Errorf("line %d: state %q: transition %q must be a target or null", value.Line, state, key.Value)
		}
	}
	return events, nil
}

func parseStringList(node *yaml.Node) ([]string, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: expected a sequence, got %s", node.Line, kindName(node))
	}
	var out []string
	for _, item := range node.Content {
		if item.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: expected a string, got %s", item.Line, kindName(item))
		}
		out = append(out, item.Value)
	}
	return out, nil
}

// mappingPair is a key/value node pair from a YAML mapping.
type mappingPair struct {
	key, value *yaml.Node
}

// mappingPairs returns the key/value node pairs of a YAML mapping in
// document order.
func mappingPairs(node *yaml.Node) []mappingPair {
	pairs := make([]mappingPair, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		pairs = append(pairs, mappingPair{key: node.Content[i], value: node.Content[i+1]})
	}
	return pairs
}

func kindName(node *yaml.Node) string {
	switch node.Kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}
