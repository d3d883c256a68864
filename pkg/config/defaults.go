package config

import "time"

// Default values applied by ApplyDefaults.
const (
	DefaultOrgTag           = "ORG"
	DefaultTransitionPolicy = "permissive"
	DefaultStorageBackend   = "sqlite"
	DefaultSQLitePath       = "data/custodia.db"
	DefaultBusyTimeout      = 5 * time.Second
	DefaultBlobDriver       = "fs"
	DefaultBlobRoot         = "data/images"
	DefaultSnapshotSchedule = "0 3 * * *"
	DefaultRegisterDir      = "data/register"
	DefaultAuditPath        = "data/audit.db"
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "json"
)

// NewDefaultConfig returns a configuration populated entirely with defaults.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	cfg.Audit.Enabled = true
	cfg.Telemetry.Metrics.Enabled = true
	cfg.Register.SnapshotSchedule = DefaultSnapshotSchedule
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills in default values for any unset fields.
// Booleans that default to true are handled by the loader, which applies
// defaults before unmarshalling overwrites them.
func ApplyDefaults(cfg *Config) {
	if cfg.Intake.OrgTag == "" {
		cfg.Intake.OrgTag = DefaultOrgTag
	}
	if cfg.Intake.TransitionPolicy == "" {
		cfg.Intake.TransitionPolicy = DefaultTransitionPolicy
	}

	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = DefaultStorageBackend
	}
	if cfg.Storage.SQLite.Path == "" {
		cfg.Storage.SQLite.Path = DefaultSQLitePath
	}
	if cfg.Storage.SQLite.BusyTimeout == 0 {
		cfg.Storage.SQLite.BusyTimeout = DefaultBusyTimeout
	}

	if cfg.Blob.Driver == "" {
		cfg.Blob.Driver = DefaultBlobDriver
	}
	if cfg.Blob.Root == "" {
		cfg.Blob.Root = DefaultBlobRoot
	}

	if cfg.Register.OutputDir == "" {
		cfg.Register.OutputDir = DefaultRegisterDir
	}

	if cfg.Audit.Path == "" {
		cfg.Audit.Path = DefaultAuditPath
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLogLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLogFormat
	}
}
