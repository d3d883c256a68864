// Package config provides configuration management for Custodia.
//
// This package handles loading, validating, and managing configuration from
// YAML files with environment variable overrides. It provides a type-safe
// configuration system with validation and sensible defaults.
//
// # Configuration Loading
//
// Configuration can be loaded in two ways:
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("config.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("config.yaml")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention CUSTODIA_SECTION_FIELD.
// For example:
//
//   - CUSTODIA_INTAKE_ORG_TAG overrides intake.org_tag
//   - CUSTODIA_STORAGE_SQLITE_PATH overrides storage.sqlite.path
//   - CUSTODIA_LOG_LEVEL overrides telemetry.logging.level
//
// Environment variables always take precedence over file-based configuration.
//
// # Configuration Precedence
//
// Configuration values are applied in the following order (later overrides earlier):
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Hot Reload
//
// Watcher monitors the configuration file with fsnotify and invokes a
// callback with the freshly loaded configuration on each change. Reloads
// that fail validation are skipped and the previous configuration stays in
// effect.
package config
