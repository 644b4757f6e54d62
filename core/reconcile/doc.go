// Package reconcile applies observed network state to the registry.
//
// The Engine consumes the locally collected entity set for one category and
// one scope, diffs it against the registry's current contents, and applies
// the minimal set of create, update, and delete operations. Creates run
// before updates, updates before deletes, so transient states never lose
// connectivity entities such as cables.
//
// # Mutation Strategy
//
// Each bucket is attempted as a single bulk call first. When the bulk call
// fails, the engine replays the same items one at a time: a single malformed
// item is recorded as failed with its error while its siblings still apply.
// No retry happens at this layer; the registry client owns rate-limit
// retries, and everything else is reported rather than retried.
//
// # Safety
//
// Deleting devices that vanished from the observed set is gated on an
// explicit tenant scope. Without one the engine refuses with
// ErrCleanupRequiresTenant before any mutation, in dry-run and apply alike.
//
// # Ordering
//
// Link aggregates are created and updated before their member interfaces,
// because a member's parent reference requires the aggregate to exist. This
// is an explicit pre-pass over the interface bucket, not a graph solver.
package reconcile
