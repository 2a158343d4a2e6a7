package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Configuration identifies the active leaf state as the ordered list of node
// keys from the top of the tree down to the leaf. It is the canonical
// internal form of the two external representations the API accepts: the
// dotted string ("red.walk") and the nested mapping ({"red": "walk"}).
type Configuration []string

// ConfigurationFrom normalizes any accepted external representation into the
// canonical form. It accepts a dotted string, a nested mapping
// (map[string]any or map[string]string), an existing Configuration, or a
// *State (whose value is used). Structural problems (empty input, a mapping
// with more than one key per level, non-string leaves) are reported as
// InvalidStateReferenceError; whether the path exists in a particular tree
// is the resolver's concern.
func ConfigurationFrom(value any) (Configuration, error) {
	switch v := value.(type) {
	case nil:
		return nil, &InvalidStateReferenceError{Reference: "<nil>"}
	case Configuration:
		return v, nil
	case *State:
		if v == nil {
			return nil, &InvalidStateReferenceError{Reference: "<nil>"}
		}
		return v.Configuration, nil
	case string:
		if v == "" {
			return nil, &InvalidStateReferenceError{Reference: v}
		}
		return Configuration(strings.Split(v, ".")), nil
	case map[string]string:
		anyMap := make(map[string]any, len(v))
		for k, val := range v {
			anyMap[k] = val
		}
		return configurationFromMap(anyMap)
	case map[string]any:
		return configurationFromMap(v)
	default:
		return nil, &InvalidStateReferenceError{Reference: fmt.Sprintf("%v", value)}
	}
}

// configurationFromMap walks a nested single-key mapping down to its string
// leaf. The mapping form denotes exactly one active path, so every level
// must hold exactly one entry.
func configurationFromMap(m map[string]any) (Configuration, error) {
	var path Configuration
	current := any(m)
	for {
		switch level := current.(type) {
		case string:
			path = append(path, level)
			return path, nil
		case map[string]any:
			if len(level) != 1 {
				return nil, &InvalidStateReferenceError{Reference: renderMapRef(m)}
			}
			for k, v := range level {
				path = append(path, k)
				current = v
			}
		case map[string]string:
			if len(level) != 1 {
				return nil, &InvalidStateReferenceError{Reference: renderMapRef(m)}
			}
			for k, v := range level {
				path = append(path, k)
				current = any(v)
			}
		default:
			return nil, &InvalidStateReferenceError{Reference: renderMapRef(m)}
		}
	}
}

func renderMapRef(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "{" + strings.Join(keys, ",") + "}"
}

// Key returns the canonical dotted serialization ("red.walk"). It is total
// and injective over valid configurations (node keys cannot contain dots),
// so it is safe as a map key.
func (c Configuration) Key() string {
	return strings.Join(c, ".")
}

// Value renders the minimal external form: a bare string when the leaf sits
// directly under the root, a nested single-entry mapping otherwise.
func (c Configuration) Value() any {
	if len(c) == 0 {
		return ""
	}
	if len(c) == 1 {
		return c[0]
	}
	// Build inside-out: the innermost value is the leaf key.
	value := any(c[len(c)-1])
	for i := len(c) - 2; i >= 0; i-- {
		value = map[string]any{c[i]: value}
	}
	return value
}

// Leaf returns the key of the active leaf node.
func (c Configuration) Leaf() string {
	if len(c) == 0 {
		return ""
	}
	return c[len(c)-1]
}

// Equal reports whether two configurations denote the same active leaf.
func (c Configuration) Equal(other Configuration) bool {
	if len(c) != len(other) {
		return false
	}
	for i := range c {
		if c[i] != other[i] {
			return false
		}
	}
	return true
}

// MarshalJSON serializes the canonical dotted form.
func (c Configuration) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Key())
}

// UnmarshalJSON accepts either the dotted string or the nested mapping form.
func (c *Configuration) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ConfigurationFrom(raw)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
