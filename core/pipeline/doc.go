// Package pipeline defines declarative collection/sync/export pipelines and
// executes them.
//
// A Pipeline is an ordered list of steps. Each step names a type (collect,
// sync, export) and a target (a collector name or entity category). Steps
// declare dependencies by id; execution order stays the declared order, and
// validation checks that prerequisite sync steps exist, not that they are
// ordered correctly.
//
// # Validation
//
// Validate checks a definition before anything runs and returns every
// violation it finds as a list, so an operator fixes a bad pipeline in one
// round trip. The Store refuses to save definitions that do not validate.
//
// # Execution
//
// The Executor runs steps strictly one at a time. Collected entities live in
// a run context owned by the run; sync steps that find no data for their
// category trigger an implicit collect first. A failed step halts the run:
// no later step starts, and later enabled steps are reported skipped. Steps
// whose dependencies did not complete are skipped with "dependency not met"
// and never started.
//
// Progress callbacks fire once when a step starts and once when it finishes.
// Steps skipped before starting only get the finish callback.
//
// # Usage
//
//	store := pipeline.NewStore("pipelines", registry.Known())
//	p, err := store.Get("nightly-sync")
//	result := executor.Run(ctx, p, pipeline.RunOptions{DryRun: true})
package pipeline
