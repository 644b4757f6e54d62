// Package pipelines exposes pipeline management over HTTP.
//
// The feature is a thin surface over core/pipeline: definitions come from the
// file-backed store, runs go through the executor. Finished runs are handed
// to a RunRecorder when one is wired, so history persistence stays optional.
//
// # Endpoints
//
//   - GET /pipelines lists stored definitions with step counts and validity.
//   - POST /pipelines creates a definition from the request body.
//   - GET /pipelines/:id returns the full definition.
//   - DELETE /pipelines/:id removes a definition.
//   - GET /pipelines/:id/validate returns the validation report.
//   - POST /pipelines/:id/run executes the pipeline. dry_run defaults to
//     true; an apply must ask for dry_run=false explicitly.
//
// # Run deduplication
//
// Concurrent run requests for the same pipeline, mode and target filter join
// a single in-flight execution via singleflight. The key includes the
// dry-run flag, so a preview never satisfies a waiting apply.
package pipelines
