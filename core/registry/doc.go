// Package registry provides the typed client for the source-of-truth
// inventory registry.
//
// The registry stores the authoritative copy of every entity category and
// assigns each object a numeric ID. This package hides its REST surface
// behind the Client interface: list objects inside a scope, create, update,
// and delete objects one at a time or in bulk, and resolve devices and sites
// by natural key.
//
// # Wire Format
//
// Payloads are natural-key JSON: a device is referenced by hostname, a site
// by slug, never by registry ID. IDs appear only on objects the registry
// returns and are required for updates and deletes.
//
// # Rate Limiting
//
// The registry throttles aggressive clients with HTTP 429. The client owns
// the retry policy: exponential backoff up to MaxRetries, honoring the
// server's Retry-After header when present. All other failures surface
// immediately; callers treat them as fatal for the running operation.
package registry
