// Package runs persists and serves pipeline run history.
//
// Every finished pipeline run is recorded once: identity, status, timing and
// the per-step results as a JSON document. History is an audit trail, so
// recording is best effort; a failed insert logs a warning and never fails
// the run that produced it.
//
// # Storage
//
// The Store wraps the run history database (core/database). NewStore migrates
// the runs table; VerifySchema reports columns a hand-managed schema is
// missing, using the database inspector.
//
// # Endpoints
//
//   - GET /runs lists recent runs, newest first. Supports ?limit= and
//     ?pipeline= filters.
//   - GET /runs/:id returns one run with its step results decoded.
//
// The feature only loads when a database connection exists; without one the
// service runs with history disabled.
package runs
