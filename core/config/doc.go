// Package config provides configuration management for fabric-sync.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key)
//   - Database: run history connection details (mysql or sqlite)
//   - Storage: S3/MinIO credentials and the export bucket
//   - Log: Logging level and format
//   - Registry: registry URL, token and retry behavior
//   - Collect: SNMP defaults, worker count and the targets file
//   - Pipelines: pipeline definition directory
//   - Export: export directory and retention
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
