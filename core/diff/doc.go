// Package diff computes the three-bucket classification between locally
// observed entities and the registry's current state for one category.
//
// Local entities whose identity key has no remote match land in Creates.
// Key matches with at least one differing comparable field land in Updates,
// each carrying descriptions of the fields that differ. Remote objects with
// no local match land in DeleteCandidates; whether those are acted on is the
// reconciler's decision, not this package's.
//
// # Comparison Policy
//
// Only fields on the per-category comparable list participate. Fields the
// registry manages itself and fields that are observe-only (an interface's
// operational status) never produce updates. Values are compared normalized:
// VLAN sets are order-insensitive, interface modes and MAC addresses are
// canonicalized, site and tenant labels compare by slug.
package diff
