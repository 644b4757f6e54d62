package pipeline

import (
	"fabric-sync/core/collect"
	"fabric-sync/core/inventory"
)

// runContext is the mutable state of a single run: collected entities keyed
// by target plus the device set the run operates on. It is owned exclusively
// by the executor; steps run one at a time, so no locking.
type runContext struct {
	targets  []collect.DeviceTarget
	entities map[string][]inventory.Entity
}

func newRunContext(targets []collect.DeviceTarget) *runContext {
	return &runContext{
		targets:  targets,
		entities: make(map[string][]inventory.Entity),
	}
}

// set stores the entity list for a target, replacing any prior value.
func (rc *runContext) set(target string, entities []inventory.Entity) {
	rc.entities[target] = entities
}

// get returns the entity list for a target and whether one was collected.
func (rc *runContext) get(target string) ([]inventory.Entity, bool) {
	entities, ok := rc.entities[target]
	return entities, ok
}
