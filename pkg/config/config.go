package config

import "time"

// Config is the root configuration structure for Custodia.
// It contains all configuration sections for intake, storage, image blobs,
// register snapshots, auditing, and telemetry.
type Config struct {
	// Intake contains intake and lifecycle controller configuration.
	Intake IntakeConfig `yaml:"intake"`

	// Storage contains evidence storage backend configuration.
	Storage StorageConfig `yaml:"storage"`

	// Blob contains device image storage configuration.
	Blob BlobConfig `yaml:"blob"`

	// Register contains register snapshot configuration.
	Register RegisterConfig `yaml:"register"`

	// Audit contains audit log configuration.
	Audit AuditConfig `yaml:"audit"`

	// Telemetry contains logging and metrics configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// IntakeConfig contains configuration for the intake controller.
type IntakeConfig struct {
	// OrgTag is the organization segment of generated exhibit numbers.
	// Default: "ORG"
	OrgTag string `yaml:"org_tag"`

	// TransitionPolicy controls status transitions: "permissive" allows any
	// valid status, "strict" only the forward lifecycle sequence.
	// Default: "permissive"
	TransitionPolicy string `yaml:"transition_policy"`
}

// StorageConfig contains configuration for the evidence storage backend.
type StorageConfig struct {
	// Backend selects the storage backend: "sqlite" or "memory".
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// SQLite contains SQLite-specific settings.
	SQLite SQLiteConfig `yaml:"sqlite"`
}

// SQLiteConfig contains SQLite backend settings.
type SQLiteConfig struct {
	// Path is the database file location.
	// Default: "data/custodia.db"
	Path string `yaml:"path"`

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// BlobConfig contains configuration for device image storage.
type BlobConfig struct {
	// Driver selects the blob backend: "fs", "s3", or "memory".
	// Default: "fs"
	Driver string `yaml:"driver"`

	// Root is the base directory for the filesystem driver.
	// Default: "data/images"
	Root string `yaml:"root"`

	// S3 contains settings for the s3 driver.
	S3 S3Config `yaml:"s3"`
}

// S3Config contains settings for the S3 blob driver.
type S3Config struct {
	// Region is the AWS region.
	Region string `yaml:"region"`

	// Bucket is the bucket images are stored in.
	Bucket string `yaml:"bucket"`

	// Endpoint overrides the S3 endpoint for S3-compatible stores.
	Endpoint string `yaml:"endpoint"`

	// AccessKeyID and SecretAccessKey are static credentials. When empty the
	// default AWS credential chain is used.
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`

	// PathStyle forces path-style addressing, needed by most S3-compatible
	// stores.
	PathStyle bool `yaml:"path_style"`
}

// RegisterConfig contains configuration for register snapshots.
type RegisterConfig struct {
	// SnapshotSchedule is a cron expression for periodic snapshots.
	// Empty disables scheduling. Default: "0 3 * * *"
	SnapshotSchedule string `yaml:"snapshot_schedule"`

	// OutputDir is where snapshot files are written.
	// Default: "data/register"
	OutputDir string `yaml:"output_dir"`
}

// AuditConfig contains configuration for the audit log.
type AuditConfig struct {
	// Enabled turns the audit log on.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the audit database file location.
	// Default: "data/audit.db"
	Path string `yaml:"path"`
}

// TelemetryConfig contains logging and metrics configuration.
type TelemetryConfig struct {
	// Logging contains structured logging settings.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics settings.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format: "json" or "text".
	// Default: "json"
	Format string `yaml:"format"`
}

// MetricsConfig contains Prometheus metrics settings.
type MetricsConfig struct {
	// Enabled turns metrics collection on.
	// Default: true
	Enabled bool `yaml:"enabled"`
}
