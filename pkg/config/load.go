package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any
// errors. Environment variables are not consulted; use
// LoadConfigWithEnvOverrides for that behavior.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	// Start from defaults so booleans that default to true survive an
	// absent key in the document.
	cfg := NewDefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention CUSTODIA_SECTION_FIELD (e.g., CUSTODIA_INTAKE_ORG_TAG) and
// always take precedence over file-based configuration.
//
// The loading sequence is:
//  1. Load YAML from file
//  2. Apply default values
//  3. Apply environment variable overrides
//  4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Variables use the format CUSTODIA_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	// Intake overrides
	if val := os.Getenv("CUSTODIA_INTAKE_ORG_TAG"); val != "" {
		cfg.Intake.OrgTag = val
	}
	if val := os.Getenv("CUSTODIA_INTAKE_TRANSITION_POLICY"); val != "" {
		cfg.Intake.TransitionPolicy = val
	}

	// Storage overrides
	if val := os.Getenv("CUSTODIA_STORAGE_BACKEND"); val != "" {
		cfg.Storage.Backend = val
	}
	if val := os.Getenv("CUSTODIA_STORAGE_SQLITE_PATH"); val != "" {
		cfg.Storage.SQLite.Path = val
	}
	if val := os.Getenv("CUSTODIA_STORAGE_SQLITE_BUSY_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Storage.SQLite.BusyTimeout = d
		}
	}

	// Blob overrides
	if val := os.Getenv("CUSTODIA_BLOB_DRIVER"); val != "" {
		cfg.Blob.Driver = val
	}
	if val := os.Getenv("CUSTODIA_BLOB_ROOT"); val != "" {
		cfg.Blob.Root = val
	}
	if val := os.Getenv("CUSTODIA_BLOB_S3_REGION"); val != "" {
		cfg.Blob.S3.Region = val
	}
	if val := os.Getenv("CUSTODIA_BLOB_S3_BUCKET"); val != "" {
		cfg.Blob.S3.Bucket = val
	}
	if val := os.Getenv("CUSTODIA_BLOB_S3_ENDPOINT"); val != "" {
		cfg.Blob.S3.Endpoint = val
	}
	if val := os.Getenv("CUSTODIA_BLOB_S3_ACCESS_KEY_ID"); val != "" {
		cfg.Blob.S3.AccessKeyID = val
	}
	if val := os.Getenv("CUSTODIA_BLOB_S3_SECRET_ACCESS_KEY"); val != "" {
		cfg.Blob.S3.SecretAccessKey = val
	}
	if val := os.Getenv("CUSTODIA_BLOB_S3_PATH_STYLE"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Blob.S3.PathStyle = b
		}
	}

	// Register overrides
	if val := os.Getenv("CUSTODIA_REGISTER_SNAPSHOT_SCHEDULE"); val != "" {
		cfg.Register.SnapshotSchedule = val
	}
	if val := os.Getenv("CUSTODIA_REGISTER_OUTPUT_DIR"); val != "" {
		cfg.Register.OutputDir = val
	}

	// Audit overrides
	if val := os.Getenv("CUSTODIA_AUDIT_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Audit.Enabled = b
		}
	}
	if val := os.Getenv("CUSTODIA_AUDIT_PATH"); val != "" {
		cfg.Audit.Path = val
	}

	// Telemetry overrides
	if val := os.Getenv("CUSTODIA_LOG_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("CUSTODIA_LOG_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("CUSTODIA_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
}
