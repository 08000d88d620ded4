// Package config provides configuration management for the bootstrap importer.
//
// This package handles loading, validating, and managing configuration from
// YAML files with environment variable overrides.
//
// # Configuration Loading
//
// Configuration can be loaded in two ways:
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("condconfig.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("condconfig.yaml")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention CONDCONFIG_SECTION_FIELD.
// For example:
//
//   - CONDCONFIG_BOOTSTRAP_ROOT overrides bootstrap.root
//   - CONDCONFIG_BOOTSTRAP_ON_MALFORMED overrides bootstrap.on_malformed
//   - CONDCONFIG_STORE_SQLITE_PATH overrides store.sqlite.path
//   - CONDCONFIG_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// Environment variables always take precedence over file-based configuration.
// Runtime settings under app_settings are not overridden here; they are read
// through the settings package, which consults AppSettings__<Name> variables.
//
// # Example
//
//	bootstrap:
//	  root: /srv/commerce/wwwroot
//	  on_malformed: abort
//
//	app_settings:
//	  Region: US
//	  Tier: gold
//
//	store:
//	  backend: sqlite
//	  sqlite:
//	    path: data/condconfig.db
//
//	telemetry:
//	  logging:
//	    level: info
//	    format: json
package config
