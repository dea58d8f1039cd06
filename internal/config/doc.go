// Package config loads the application configuration.
//
// Values are resolved in three layers, later layers winning:
//
//	1. Default()
//	2. a YAML file (INSIGHTS_CONFIG_FILE, config.yaml or configs/config.yaml)
//	3. INSIGHTS_* environment variables
//
// Nested sections map to underscored names, so the server port is
// INSIGHTS_SERVER_PORT and the sheet schema override is
// INSIGHTS_REPORT_SCHEMA_FILE.
package config
