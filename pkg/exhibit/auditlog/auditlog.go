// Package auditlog keeps an append-only record of intake submissions and
// status transitions. Every entry names the actor, the action, and the device
// it touched. Entries are never updated or deleted.
package auditlog

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"evidex-hq/custodia/pkg/exhibit"
)

// Action identifies what an audit entry records.
type Action string

const (
	ActionIntake       Action = "intake"
	ActionStatusChange Action = "status_change"
)

// Entry is one immutable audit event.
type Entry struct {
	ID            string    `json:"id"`
	Action        Action    `json:"action"`
	Actor         string    `json:"actor"`
	DeviceID      int64     `json:"device_id"`
	ExhibitNumber string    `json:"exhibit_number,omitempty"`
	FromStatus    string    `json:"from_status,omitempty"`
	ToStatus      string    `json:"to_status,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Log is a SQLite-backed append-only audit log. It implements the intake
// controller's Auditor interface.
type Log struct {
	db     *sql.DB
	logger *slog.Logger
}

const schema = `
CREATE TABLE IF NOT EXISTS audit_entries (
	id TEXT PRIMARY KEY,
	action TEXT NOT NULL,
	actor TEXT NOT NULL,
	device_id INTEGER NOT NULL,
	exhibit_number TEXT,
	from_status TEXT,
	to_status TEXT,
	occurred_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_audit_device ON audit_entries(device_id);
CREATE INDEX IF NOT EXISTS idx_audit_occurred ON audit_entries(occurred_at);
`

// Open opens (creating if needed) the audit log database at dbPath.
func Open(dbPath string) (*Log, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("audit log path cannot be empty")
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}

	// SQLite only supports a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize audit schema: %w", err)
	}

	return &Log{
		db:     db,
		logger: slog.Default().With("component", "exhibit.auditlog"),
	}, nil
}

// RecordIntake appends an entry for a committed intake.
func (l *Log) RecordIntake(ctx context.Context, actor string, deviceID int64, exhibitNumber string) error {
	return l.append(ctx, &Entry{
		ID:            uuid.New().String(),
		Action:        ActionIntake,
		Actor:         actor,
		DeviceID:      deviceID,
		ExhibitNumber: exhibitNumber,
		OccurredAt:    time.Now().UTC(),
	})
}

// RecordStatusChange appends an entry for a committed status transition.
func (l *Log) RecordStatusChange(ctx context.Context, actor string, deviceID int64, from, to exhibit.ExtractionStatus) error {
	return l.append(ctx, &Entry{
		ID:         uuid.New().String(),
		Action:     ActionStatusChange,
		Actor:      actor,
		DeviceID:   deviceID,
		FromStatus: string(from),
		ToStatus:   string(to),
		OccurredAt: time.Now().UTC(),
	})
}

func (l *Log) append(ctx context.Context, e *Entry) error {
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO audit_entries
			(id, action, actor, device_id, exhibit_number, from_status, to_status, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, string(e.Action), e.Actor, e.DeviceID,
		e.ExhibitNumber, e.FromStatus, e.ToStatus, e.OccurredAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}

// ListByDevice returns the audit trail for one device, oldest first.
func (l *Log) ListByDevice(ctx context.Context, deviceID int64) ([]*Entry, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, action, actor, device_id, exhibit_number, from_status, to_status, occurred_at
		FROM audit_entries
		WHERE device_id = ?
		ORDER BY occurred_at ASC`, deviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ListRecent returns up to limit entries, newest first.
func (l *Log) ListRecent(ctx context.Context, limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, action, actor, device_id, exhibit_number, from_status, to_status, occurred_at
		FROM audit_entries
		ORDER BY occurred_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]*Entry, error) {
	var entries []*Entry
	for rows.Next() {
		var e Entry
		var action string
		var exhibitNumber, fromStatus, toStatus sql.NullString
		var occurredAt int64
		if err := rows.Scan(&e.ID, &action, &e.Actor, &e.DeviceID,
			&exhibitNumber, &fromStatus, &toStatus, &occurredAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		e.Action = Action(action)
		e.ExhibitNumber = exhibitNumber.String
		e.FromStatus = fromStatus.String
		e.ToStatus = toStatus.String
		e.OccurredAt = time.Unix(0, occurredAt).UTC()
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// Close closes the underlying database.
func (l *Log) Close() error {
	return l.db.Close()
}
