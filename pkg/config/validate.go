package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "storage.backend").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateIntake(&cfg.Intake)...)
	errs = append(errs, validateStorage(&cfg.Storage)...)
	errs = append(errs, validateBlob(&cfg.Blob)...)
	errs = append(errs, validateRegister(&cfg.Register)...)
	errs = append(errs, validateAudit(&cfg.Audit)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

func validateIntake(c *IntakeConfig) []FieldError {
	var errs []FieldError

	if c.OrgTag == "" {
		errs = append(errs, FieldError{
			Field:   "intake.org_tag",
			Message: "must not be empty",
		})
	}
	if strings.Contains(c.OrgTag, "/") {
		errs = append(errs, FieldError{
			Field:   "intake.org_tag",
			Message: "must not contain '/'",
		})
	}

	switch c.TransitionPolicy {
	case "permissive", "strict":
	default:
		errs = append(errs, FieldError{
			Field:   "intake.transition_policy",
			Message: fmt.Sprintf("must be 'permissive' or 'strict', got %q", c.TransitionPolicy),
		})
	}

	return errs
}

func validateStorage(c *StorageConfig) []FieldError {
	var errs []FieldError

	switch c.Backend {
	case "sqlite":
		if c.SQLite.Path == "" {
			errs = append(errs, FieldError{
				Field:   "storage.sqlite.path",
				Message: "must not be empty when backend is 'sqlite'",
			})
		}
		if c.SQLite.BusyTimeout < 0 {
			errs = append(errs, FieldError{
				Field:   "storage.sqlite.busy_timeout",
				Message: "must not be negative",
			})
		}
	case "memory":
	default:
		errs = append(errs, FieldError{
			Field:   "storage.backend",
			Message: fmt.Sprintf("must be 'sqlite' or 'memory', got %q", c.Backend),
		})
	}

	return errs
}

func validateBlob(c *BlobConfig) []FieldError {
	var errs []FieldError

	switch c.Driver {
	case "fs":
		if c.Root == "" {
			errs = append(errs, FieldError{
				Field:   "blob.root",
				Message: "must not be empty when driver is 'fs'",
			})
		}
	case "s3":
		if c.S3.Bucket == "" {
			errs = append(errs, FieldError{
				Field:   "blob.s3.bucket",
				Message: "must not be empty when driver is 's3'",
			})
		}
		if c.S3.Region == "" && c.S3.Endpoint == "" {
			errs = append(errs, FieldError{
				Field:   "blob.s3.region",
				Message: "region or endpoint must be set when driver is 's3'",
			})
		}
	case "memory":
	default:
		errs = append(errs, FieldError{
			Field:   "blob.driver",
			Message: fmt.Sprintf("must be 'fs', 's3', or 'memory', got %q", c.Driver),
		})
	}

	return errs
}

func validateRegister(c *RegisterConfig) []FieldError {
	var errs []FieldError

	if c.SnapshotSchedule != "" {
		if _, err := cron.ParseStandard(c.SnapshotSchedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "register.snapshot_schedule",
				Message: fmt.Sprintf("invalid cron expression: %v", err),
			})
		}
		if c.OutputDir == "" {
			errs = append(errs, FieldError{
				Field:   "register.output_dir",
				Message: "must not be empty when snapshots are scheduled",
			})
		}
	}

	return errs
}

func validateAudit(c *AuditConfig) []FieldError {
	var errs []FieldError

	if c.Enabled && c.Path == "" {
		errs = append(errs, FieldError{
			Field:   "audit.path",
			Message: "must not be empty when audit is enabled",
		})
	}

	return errs
}

func validateTelemetry(c *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("must be one of debug, info, warn, error; got %q", c.Logging.Level),
		})
	}

	switch c.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("must be 'json' or 'text', got %q", c.Logging.Format),
		})
	}

	return errs
}
