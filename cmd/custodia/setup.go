package main

import (
	"context"
	"fmt"
	"os/user"
	"strings"

	"evidex-hq/custodia/pkg/blob"
	"evidex-hq/custodia/pkg/config"
	"evidex-hq/custodia/pkg/exhibit"
	"evidex-hq/custodia/pkg/exhibit/auditlog"
	"evidex-hq/custodia/pkg/exhibit/intake"
	"evidex-hq/custodia/pkg/exhibit/storage"
	"evidex-hq/custodia/pkg/security/auth"
	"evidex-hq/custodia/pkg/telemetry/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

// openStorage builds the evidence storage backend selected by the
// configuration. The caller owns Close.
func openStorage(cfg *config.Config) (exhibit.Storage, error) {
	switch cfg.Storage.Backend {
	case "sqlite":
		return storage.NewSQLiteStorage(&storage.SQLiteConfig{
			Path:        cfg.Storage.SQLite.Path,
			WALMode:     true,
			BusyTimeout: cfg.Storage.SQLite.BusyTimeout,
		})
	case "memory":
		return storage.NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s (supported: sqlite, memory)", cfg.Storage.Backend)
	}
}

// openBlob builds the image blob store selected by the configuration.
func openBlob(ctx context.Context, cfg *config.Config) (blob.Store, error) {
	switch cfg.Blob.Driver {
	case "fs":
		return blob.NewFilesystem(cfg.Blob.Root)
	case "s3":
		return blob.NewS3(ctx, blob.S3Config{
			Region:          cfg.Blob.S3.Region,
			Bucket:          cfg.Blob.S3.Bucket,
			Endpoint:        cfg.Blob.S3.Endpoint,
			AccessKeyID:     cfg.Blob.S3.AccessKeyID,
			SecretAccessKey: cfg.Blob.S3.SecretAccessKey,
			PathStyle:       cfg.Blob.S3.PathStyle,
		})
	case "memory":
		return blob.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unsupported blob driver: %s (supported: fs, s3, memory)", cfg.Blob.Driver)
	}
}

// openMetrics returns the metrics collector, or nil when metrics are
// disabled. Callers must nil-check before recording.
func openMetrics(cfg *config.Config) *metrics.Collector {
	if !cfg.Telemetry.Metrics.Enabled {
		return nil
	}
	return metrics.NewCollector(prometheus.NewRegistry())
}

// controllerDeps bundles everything a command needs to run intake or
// lifecycle operations.
type controllerDeps struct {
	storage    exhibit.Storage
	controller *intake.Controller
	audit      *auditlog.Log
}

// close releases all owned resources.
func (d *controllerDeps) close() {
	if d.audit != nil {
		d.audit.Close()
	}
	if d.storage != nil {
		d.storage.Close()
	}
}

// buildController wires storage, blob store, and audit log into an intake
// controller per the configuration.
func buildController(ctx context.Context, cfg *config.Config) (*controllerDeps, error) {
	store, err := openStorage(cfg)
	if err != nil {
		return nil, err
	}

	deps := &controllerDeps{storage: store}

	images, err := openBlob(ctx, cfg)
	if err != nil {
		store.Close()
		return nil, err
	}

	ctrlCfg := &intake.Config{
		OrgTag:           cfg.Intake.OrgTag,
		TransitionPolicy: intake.TransitionPolicy(cfg.Intake.TransitionPolicy),
		Images:           images,
	}

	if coll := openMetrics(cfg); coll != nil {
		ctrlCfg.Metrics = coll
	}

	if cfg.Audit.Enabled {
		log, err := auditlog.Open(cfg.Audit.Path)
		if err != nil {
			store.Close()
			return nil, err
		}
		deps.audit = log
		ctrlCfg.Audit = log
	}

	deps.controller = intake.NewController(store, ctrlCfg)
	return deps, nil
}

// currentIdentity resolves the operator identity from flags, falling back to
// the OS user for the username.
func currentIdentity() (auth.Identity, error) {
	id := auth.Identity{
		Username:  operator.username,
		FirstName: operator.firstName,
		LastName:  operator.lastName,
	}

	if id.Username == "" {
		if u, err := user.Current(); err == nil {
			id.Username = u.Username
		} else {
			id.Username = "unknown"
		}
	}

	// Derive names from the username when not given explicitly, so list and
	// export commands work without the full identity flags.
	if id.FirstName == "" && id.LastName == "" && id.Username != "" {
		parts := strings.Fields(id.Username)
		if len(parts) >= 2 {
			id.FirstName, id.LastName = parts[0], parts[len(parts)-1]
		}
	}

	return id, nil
}
