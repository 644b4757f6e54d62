// Package inventory defines the canonical entity model shared by the
// collection, diffing, and registry layers.
//
// Every piece of network state handled by the application is expressed as one
// of six entity categories: devices, interfaces, IP addresses, VLANs, cables,
// and inventory items. Each entity carries a stable identity key derived from
// normalized fields, so the same real-world object always maps to the same
// key regardless of which source produced it.
//
// # Entity Interface
//
//	type Entity interface {
//	    Category() Category
//	    Key() string
//	    Label() string
//	}
//
// Key returns the normalized identity used for matching across sources. An
// empty key marks the entity as invalid; invalid entities are excluded from
// diffing. Label returns the human-readable identity used in change reports.
//
// # Normalization
//
// Vendor data is messy: interface names arrive abbreviated (Gi0/1), MAC
// addresses arrive in three competing formats, site names arrive with spaces
// and mixed case. The normalization helpers in this package canonicalize all
// of that before keys are built, so "Gi0/1" and "GigabitEthernet0/1" never
// diff against each other.
package inventory
