// Package database handles database connections and schema inspection.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) to
// configure the run history database. mysql is the production driver; sqlite
// backs tests and single-binary setups.
//
// # Connect
//
// The Connect function establishes a connection based on the configured
// driver. Run history is optional, so a failed connection should degrade the
// service (no history), not stop it.
//
// # Schema Inspection
//
// GetTableColumns retrieves the column definitions of a table. The run
// history store uses it to detect schema drift on databases that are managed
// by hand rather than migrated.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    logger.Warn("Run history disabled", zap.Error(err))
//	}
//
//	columns, err := database.GetTableColumns(db, "runs")
package database
