package domain

import (
	"encoding/json"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Event is the normalized form of anything a caller may dispatch: a bare
// type string, or an object carrying a type plus free-form payload data.
// The payload never influences the transition algorithm; it rides along for
// hosts (test-model executors, HTTP clients) that need it.
type Event struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data,omitempty"`
}

// eventObject is the loosely-typed wire shape of an event. The remain tag
// sweeps every field other than "type" into the payload.
type eventObject struct {
	Type string         `mapstructure:"type"`
	Data map[string]any `mapstructure:",remain"`
}

// EventFrom normalizes an external event value. Accepted forms: a non-empty
// string, an Event, or a map with a string "type" entry. Anything else, and
// in particular a missing or empty event, yields ErrMissingEvent.
func EventFrom(value any) (Event, error) {
	switch v := value.(type) {
	case nil:
		return Event{}, ErrMissingEvent
	case Event:
		if v.Type == "" {
			return Event{}, ErrMissingEvent
		}
		return v, nil
	case *Event:
		if v == nil || v.Type == "" {
			return Event{}, ErrMissingEvent
		}
		return *v, nil
	case string:
		if v == "" {
			return Event{}, ErrMissingEvent
		}
		return Event{Type: v}, nil
	case map[string]any:
		var obj eventObject
		if err := mapstructure.Decode(v, &obj); err != nil {
			return Event{}, fmt.Errorf("%w: %v", ErrMissingEvent, err)
		}
		if obj.Type == "" {
			return Event{}, ErrMissingEvent
		}
		if len(obj.Data) == 0 {
			obj.Data = nil
		}
		return Event{Type: obj.Type, Data: obj.Data}, nil
	default:
		return Event{}, fmt.Errorf("%w: unsupported event value %T", ErrMissingEvent, value)
	}
}

// Key returns a canonical serialization usable as a map key. Events with the
// same type but different payloads get distinct keys; a bare event's key is
// just its type. encoding/json sorts map keys, which keeps the payload part
// stable.
func (e Event) Key() string {
	if len(e.Data) == 0 {
		return e.Type
	}
	data, err := json.Marshal(e.Data)
	if err != nil {
		// Unmarshalable payloads still need a stable key.
		return fmt.Sprintf("%s|%v", e.Type, e.Data)
	}
	return e.Type + "|" + string(data)
}
