package registry

import (
	"context"
	"errors"

	"fabric-sync/core/inventory"
)

// ErrNotFound indicates the requested object does not exist in the registry.
var ErrNotFound = errors.New("registry: object not found")

// Item is an object as stored in the registry: the canonical entity plus the
// registry-assigned ID.
type Item struct {
	// ID is the registry-assigned numeric identifier.
	ID int `json:"id"`

	// Entity is the canonical representation of the stored object.
	Entity inventory.Entity `json:"entity"`
}

// Key returns the entity's identity key.
func (i Item) Key() string {
	if i.Entity == nil {
		return ""
	}
	return i.Entity.Key()
}

// Update describes a modification of an existing registry object.
type Update struct {
	// ID identifies the registry object to modify.
	ID int

	// Entity carries the desired state.
	Entity inventory.Entity

	// Fields lists the names of the fields that differ. Informational: the
	// full natural-key payload is sent, the registry merges it.
	Fields []string
}

// Scope narrows list operations and carries the tenant used by the device
// cleanup safety gate.
type Scope struct {
	// Device limits results to objects belonging to this device hostname.
	Device string

	// Site limits results to objects belonging to this site slug.
	Site string

	// Tenant is the tenant slug guarding destructive device operations.
	Tenant string
}

// Client is the registry access contract used by the reconciler.
type Client interface {
	// List returns all objects of the category inside the scope.
	List(ctx context.Context, category inventory.Category, scope Scope) ([]Item, error)

	// Create stores a new object and returns it with its assigned ID.
	Create(ctx context.Context, entity inventory.Entity) (Item, error)

	// CreateMany stores a batch of objects in one request.
	CreateMany(ctx context.Context, category inventory.Category, entities []inventory.Entity) ([]Item, error)

	// Update modifies an existing object.
	Update(ctx context.Context, update Update) error

	// UpdateMany modifies a batch of objects in one request.
	UpdateMany(ctx context.Context, category inventory.Category, updates []Update) error

	// Delete removes an object by ID.
	Delete(ctx context.Context, category inventory.Category, id int) error

	// DeleteMany removes a batch of objects in one request.
	DeleteMany(ctx context.Context, category inventory.Category, ids []int) error

	// LookupDevice resolves a device by hostname. Returns nil when absent.
	LookupDevice(ctx context.Context, hostname string) (*Item, error)

	// LookupSite reports whether a site with the given slug exists.
	LookupSite(ctx context.Context, slug string) (bool, error)
}
