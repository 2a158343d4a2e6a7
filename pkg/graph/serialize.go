package graph

import "github.com/aretw0/statewalk/pkg/domain"

// SerializeSnapshot returns the canonical key of a configuration, used to
// index graph nodes and adjacency entries. Total and injective: node keys
// cannot contain dots, so no two distinct configurations collide.
func SerializeSnapshot(config domain.Configuration) string {
	return config.Key()
}

// SerializeEvent returns the canonical key of an event, used to index edges.
// Events with equal types but different payloads serialize differently.
func SerializeEvent(event domain.Event) string {
	return event.Key()
}
