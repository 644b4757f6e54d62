// Package export writes collected entities to files and, optionally, to
// object storage.
//
// The Service renders one entity category into CSV or JSON, writes the result
// under the configured directory as <target>-<timestamp>.<ext>, and uploads a
// copy to the configured bucket when storage is wired in. Pipelines consume it
// through their Exporter dependency.
//
// # Formats
//
//   - csv: one row per entity with a fixed column table per category.
//     Multi-valued fields (tagged VLANs) are comma-joined inside the cell.
//   - json: the entity list as an indented JSON array.
//
// # Retention
//
// When Config.Keep is positive, each export prunes older artifacts of the
// same target and format beyond that count, both on disk and in the bucket.
// Pruning is best effort: failures are logged, never returned.
//
// # Usage
//
//	svc := export.NewService(cfg, storageClient, "exports", logger)
//	artifact, err := svc.Export(ctx, "devices", entities, "csv")
package export
