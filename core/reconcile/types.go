package reconcile

import (
	"errors"

	"fabric-sync/core/inventory"
)

// ErrScopeNotFound indicates the scope (device or site) a sync was requested
// for does not exist in the registry.
var ErrScopeNotFound = errors.New("reconcile: scope not found in registry")

// ErrCleanupRequiresTenant indicates a device cleanup was requested without
// the tenant scope that gates destructive device operations.
var ErrCleanupRequiresTenant = errors.New("reconcile: device cleanup requires a tenant scope")

// Options controls behavior for a single sync call.
type Options struct {
	// DryRun computes statistics and details without performing any mutation.
	DryRun bool

	// Cleanup enables deletion of registry objects absent from the local set.
	Cleanup bool

	// UpdateExisting enables updates of objects whose comparable fields
	// differ. When false, pending updates are counted as skipped.
	UpdateExisting bool
}

// Action labels a change detail.
type Action string

const (
	// ActionCreate marks an object created in (or missing from) the registry.
	ActionCreate Action = "create"
	// ActionUpdate marks an object whose fields were (or would be) updated.
	ActionUpdate Action = "update"
	// ActionDelete marks a registry object removed (or removable) by cleanup.
	ActionDelete Action = "delete"
	// ActionSkip marks a change that was not applied because the
	// corresponding option (update_existing, cleanup) is disabled.
	ActionSkip Action = "skip"
)

// Detail records one observed or applied change for diff reports.
type Detail struct {
	// Action is what happened (or would happen) to the object.
	Action Action `json:"action"`

	// Key is the human-readable identity of the object.
	Key string `json:"key"`

	// Fields describes the differing fields for updates.
	Fields []string `json:"fields,omitempty"`

	// Error carries the per-item failure, if any.
	Error string `json:"error,omitempty"`
}

// Stats aggregates outcome counts for one or more sync calls.
type Stats struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Deleted int `json:"deleted"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// Add accumulates another stats block into this one.
func (s *Stats) Add(other Stats) {
	s.Created += other.Created
	s.Updated += other.Updated
	s.Deleted += other.Deleted
	s.Skipped += other.Skipped
	s.Failed += other.Failed
}

// Total returns the number of counted outcomes.
func (s Stats) Total() int {
	return s.Created + s.Updated + s.Deleted + s.Skipped + s.Failed
}

// Result is the outcome of one sync call.
type Result struct {
	// Category is the entity category that was synced.
	Category inventory.Category `json:"category"`

	// Stats holds the aggregate counts.
	Stats Stats `json:"stats"`

	// Details lists every change with its identity and outcome.
	Details []Detail `json:"details"`
}
