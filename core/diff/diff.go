package diff

import (
	"sort"

	"fabric-sync/core/inventory"
	"fabric-sync/core/registry"
)

// Change describes one pending update: the desired local state, the registry
// ID of the object to modify, and what differs.
type Change struct {
	// ID is the registry ID of the object to update.
	ID int `json:"id"`

	// Desired is the locally observed state to write.
	Desired inventory.Entity `json:"desired"`

	// Fields describes each differing comparable field, e.g.
	// "mtu: local=9000 remote=1500".
	Fields []string `json:"fields"`
}

// Diff is the classification of one category's local set against the
// registry's remote set.
type Diff struct {
	// Category is the entity category this diff covers.
	Category inventory.Category `json:"category"`

	// Creates holds local entities absent from the registry.
	Creates []inventory.Entity `json:"creates"`

	// Updates holds key matches with differing comparable fields.
	Updates []Change `json:"updates"`

	// DeleteCandidates holds registry objects absent locally. They are only
	// acted on when the caller enables cleanup.
	DeleteCandidates []registry.Item `json:"delete_candidates"`
}

// HasChanges reports whether the diff contains anything to act on.
// DeleteCandidates only count when cleanup is enabled.
func (d Diff) HasChanges(cleanup bool) bool {
	if len(d.Creates) > 0 || len(d.Updates) > 0 {
		return true
	}
	return cleanup && len(d.DeleteCandidates) > 0
}

// Calculate classifies local entities against remote registry items.
// Entities with empty identity keys are excluded. Duplicate local keys keep
// the first occurrence. Output buckets are sorted by key for deterministic
// reports.
func Calculate(category inventory.Category, local []inventory.Entity, remote []registry.Item) Diff {
	d := Diff{Category: category}

	localIndex := make(map[string]inventory.Entity, len(local))
	localOrder := make([]string, 0, len(local))
	for _, e := range local {
		key := e.Key()
		if key == "" {
			continue
		}
		if _, seen := localIndex[key]; seen {
			continue
		}
		localIndex[key] = e
		localOrder = append(localOrder, key)
	}

	remoteIndex := make(map[string]registry.Item, len(remote))
	remoteOrder := make([]string, 0, len(remote))
	for _, item := range remote {
		key := item.Key()
		if key == "" {
			continue
		}
		if _, seen := remoteIndex[key]; seen {
			continue
		}
		remoteIndex[key] = item
		remoteOrder = append(remoteOrder, key)
	}

	sort.Strings(localOrder)
	sort.Strings(remoteOrder)

	for _, key := range localOrder {
		entity := localIndex[key]
		remoteItem, exists := remoteIndex[key]
		if !exists {
			d.Creates = append(d.Creates, entity)
			continue
		}
		if fields := compareEntities(entity, remoteItem.Entity); len(fields) > 0 {
			d.Updates = append(d.Updates, Change{
				ID:      remoteItem.ID,
				Desired: entity,
				Fields:  fields,
			})
		}
	}

	for _, key := range remoteOrder {
		if _, exists := localIndex[key]; !exists {
			d.DeleteCandidates = append(d.DeleteCandidates, remoteIndex[key])
		}
	}

	return d
}
