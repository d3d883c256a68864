package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"evidex-hq/custodia/pkg/exhibit"
)

// SQLiteConfig contains configuration for the SQLite storage backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections to the database.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/custodia.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStorage implements the exhibit.Storage interface using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStorage creates a new SQLite storage backend.
// It initializes the database schema and enables WAL mode if configured.
func NewSQLiteStorage(config *SQLiteConfig) (*SQLiteStorage, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}

	logger := slog.Default().With("component", "exhibit.storage.sqlite")

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, exhibit.NewStorageError("sqlite", "open", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &SQLiteStorage{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite storage initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
		"max_open_conns", config.MaxOpenConns,
	)

	return s, nil
}

// initialize sets up the database schema and connection pragmas.
func (s *SQLiteStorage) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return exhibit.NewStorageError("sqlite", "enable_wal", err)
		}
		s.logger.Debug("WAL mode enabled")
	}

	// The requests table relies on the devices foreign key being enforced.
	if _, err := s.db.Exec("PRAGMA foreign_keys=ON;"); err != nil {
		return exhibit.NewStorageError("sqlite", "enable_foreign_keys", err)
	}

	busyTimeoutMs := s.config.BusyTimeout.Milliseconds()
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs)); err != nil {
		return exhibit.NewStorageError("sqlite", "set_busy_timeout", err)
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return exhibit.NewStorageError("sqlite", "create_schema", err)
	}
	s.logger.Debug("database schema created")

	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return exhibit.NewStorageError("sqlite", "insert_schema_version", err)
	}

	var version int
	err := s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return exhibit.NewStorageError("sqlite", "get_schema_version", err)
	}
	if version != SchemaVersion {
		return exhibit.NewStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	return nil
}

// Intake runs fn inside a single database transaction. Any error from fn
// rolls the whole unit of work back, so a failed intake leaves no device row
// without an exhibit number and no orphaned request row.
func (s *SQLiteStorage) Intake(ctx context.Context, fn func(tx exhibit.IntakeTx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return exhibit.NewStorageError("sqlite", "begin", err)
	}

	if err := fn(&sqliteIntakeTx{tx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Error("rollback failed", "error", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return exhibit.NewStorageError("sqlite", "commit", err)
	}
	return nil
}

// sqliteIntakeTx exposes the intake writes over one open transaction.
type sqliteIntakeTx struct {
	tx *sql.Tx
}

// CreateDevice inserts a device row with the exhibit number unset and returns
// the assigned row id.
func (t *sqliteIntakeTx) CreateDevice(ctx context.Context, d *exhibit.Device) (int64, error) {
	query := `
		INSERT INTO devices (
			device_type, custom_device_type, make, model, color,
			reference_number, description, serial_number, imei_number,
			front_image_key, back_image_key, pin_password_pattern, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	res, err := t.tx.ExecContext(ctx, query,
		string(d.DeviceType), nullIfEmpty(d.CustomDeviceType),
		nullIfEmpty(d.Make), nullIfEmpty(d.Model), nullIfEmpty(d.Color),
		d.ReferenceNumber, nullIfEmpty(d.Description),
		nullIfEmpty(d.SerialNumber), nullIfEmpty(d.IMEINumber),
		nullIfEmpty(d.FrontImageKey), nullIfEmpty(d.BackImageKey),
		nullIfEmpty(d.PINPasswordPattern), d.CreatedAt,
	)
	if err != nil {
		return 0, exhibit.NewStorageError("sqlite", "create_device", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, exhibit.NewStorageError("sqlite", "create_device", err)
	}
	return id, nil
}

// AssignExhibitNumber sets the exhibit number on exactly one device row.
func (t *sqliteIntakeTx) AssignExhibitNumber(ctx context.Context, deviceID int64, exhibitNumber string) error {
	res, err := t.tx.ExecContext(ctx,
		"UPDATE devices SET exhibit_number = ? WHERE device_id = ?",
		exhibitNumber, deviceID,
	)
	if err != nil {
		return exhibit.NewStorageError("sqlite", "assign_exhibit_number", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return exhibit.NewStorageError("sqlite", "assign_exhibit_number", err)
	}
	if affected == 0 {
		return exhibit.NewNotFoundError(deviceID)
	}
	return nil
}

// CreateRequest inserts the request row linked to r.DeviceID.
func (t *sqliteIntakeTx) CreateRequest(ctx context.Context, r *exhibit.Request) error {
	query := `
		INSERT INTO requests (
			device_id, unit, department, investigator_name, investigator_phone,
			date_of_use, extraction_status,
			release_contact_name, release_contact_phone, release_date
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := t.tx.ExecContext(ctx, query,
		r.DeviceID, nullIfEmpty(r.Unit), nullIfEmpty(r.Department),
		r.InvestigatorName, nullIfEmpty(r.InvestigatorPhone),
		r.DateOfUse, string(r.ExtractionStatus),
		nullIfEmpty(r.ReleaseContactName), nullIfEmpty(r.ReleaseContactPhone),
		r.ReleaseDate,
	)
	if err != nil {
		return exhibit.NewStorageError("sqlite", "create_request", err)
	}
	return nil
}

// evidenceColumns is the joined column list shared by every read path.
const evidenceColumns = `
	d.device_id, d.device_type, d.custom_device_type, d.make, d.model, d.color,
	d.reference_number, d.exhibit_number, d.description, d.serial_number,
	d.imei_number, d.front_image_key, d.back_image_key, d.pin_password_pattern,
	d.created_at,
	r.unit, r.department, r.investigator_name, r.investigator_phone,
	r.date_of_use, r.extraction_status,
	r.release_contact_name, r.release_contact_phone, r.release_date
`

// validSortColumns whitelists the sort fields accepted from callers and maps
// them to their qualified column names.
var validSortColumns = map[string]string{
	"created_at":       "d.created_at",
	"device_id":        "d.device_id",
	"exhibit_number":   "d.exhibit_number",
	"reference_number": "d.reference_number",
	"date_of_use":      "r.date_of_use",
}

// listQuery builds the joined SELECT for a query: exact filters, whitelist
// sort, LIMIT/OFFSET. Shared by ListEvidence and StreamEvidence.
func listQuery(q *exhibit.Query) (string, []interface{}, error) {
	whereClause, args := buildWhereClause(q)

	sqlQuery := "SELECT " + evidenceColumns + " FROM devices d JOIN requests r ON d.device_id = r.device_id"
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}

	if q.SortBy != "" {
		column, ok := validSortColumns[q.SortBy]
		if !ok {
			return "", nil, fmt.Errorf("invalid sort field: %s", q.SortBy)
		}
		order := "ASC"
		if q.SortOrder == "desc" {
			order = "DESC"
		}
		sqlQuery += fmt.Sprintf(" ORDER BY %s %s", column, order)
	}

	if q.Limit > 0 {
		sqlQuery += fmt.Sprintf(" LIMIT %d", q.Limit)
		if q.Offset > 0 {
			sqlQuery += fmt.Sprintf(" OFFSET %d", q.Offset)
		}
	}
	return sqlQuery, args, nil
}

// ListEvidence returns joined Device/Request rows matching the query.
func (s *SQLiteStorage) ListEvidence(ctx context.Context, q *exhibit.Query) ([]*exhibit.Record, error) {
	records := []*exhibit.Record{}
	err := s.StreamEvidence(ctx, q, func(r *exhibit.Record) error {
		records = append(records, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// StreamEvidence runs the list query and hands rows to fn one at a time as
// they are scanned. Feeds the register snapshotter without holding the full
// register in memory.
func (s *SQLiteStorage) StreamEvidence(ctx context.Context, q *exhibit.Query, fn func(*exhibit.Record) error) error {
	if q == nil {
		q = &exhibit.Query{}
	}

	sqlQuery, args, err := listQuery(q)
	if err != nil {
		return exhibit.NewStorageError("sqlite", "list", err)
	}

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return exhibit.NewStorageError("sqlite", "list", err)
	}
	defer rows.Close()

	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return exhibit.NewStorageError("sqlite", "scan", err)
		}
		if err := fn(record); err != nil {
			return err
		}
	}

	if err := rows.Err(); err != nil {
		return exhibit.NewStorageError("sqlite", "list", err)
	}
	return nil
}

// GetByDeviceID returns the joined record for one device.
func (s *SQLiteStorage) GetByDeviceID(ctx context.Context, deviceID int64) (*exhibit.Record, error) {
	sqlQuery := "SELECT " + evidenceColumns +
		" FROM devices d JOIN requests r ON d.device_id = r.device_id WHERE d.device_id = ?"

	rows, err := s.db.QueryContext(ctx, sqlQuery, deviceID)
	if err != nil {
		return nil, exhibit.NewStorageError("sqlite", "get", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, exhibit.NewStorageError("sqlite", "get", err)
		}
		return nil, exhibit.NewNotFoundError(deviceID)
	}

	record, err := scanRecord(rows)
	if err != nil {
		return nil, exhibit.NewStorageError("sqlite", "scan", err)
	}
	return record, nil
}

// UpdateStatus mutates the extraction status of an existing request. Release
// fields are written for the Released status and cleared for every other one.
func (s *SQLiteStorage) UpdateStatus(ctx context.Context, deviceID int64, status exhibit.ExtractionStatus, release *exhibit.ReleaseInfo, releaseDate *time.Time) error {
	var contactName, contactPhone interface{}
	if release != nil {
		contactName = release.ContactName
		contactPhone = release.ContactPhone
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE requests
		SET extraction_status = ?, release_contact_name = ?, release_contact_phone = ?, release_date = ?
		WHERE device_id = ?`,
		string(status), contactName, contactPhone, releaseDate, deviceID,
	)
	if err != nil {
		return exhibit.NewStorageError("sqlite", "update_status", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return exhibit.NewStorageError("sqlite", "update_status", err)
	}
	if affected == 0 {
		return exhibit.NewNotFoundError(deviceID)
	}
	return nil
}

// Count returns the number of stored evidence records.
func (s *SQLiteStorage) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM devices d JOIN requests r ON d.device_id = r.device_id",
	).Scan(&count)
	if err != nil {
		return 0, exhibit.NewStorageError("sqlite", "count", err)
	}
	return count, nil
}

// Close releases resources held by the storage backend.
func (s *SQLiteStorage) Close() error {
	if err := s.db.Close(); err != nil {
		return exhibit.NewStorageError("sqlite", "close", err)
	}
	s.logger.Info("SQLite storage closed")
	return nil
}

// buildWhereClause builds a SQL WHERE clause from the query's exact-match
// filters. The free-text search term is applied by the query package, not
// here. Returns the clause (without "WHERE") and its arguments.
func buildWhereClause(q *exhibit.Query) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if q.DeviceType != "" {
		conditions = append(conditions, "d.device_type = ?")
		args = append(args, string(q.DeviceType))
	}
	if q.Status != "" {
		conditions = append(conditions, "r.extraction_status = ?")
		args = append(args, string(q.Status))
	}

	whereClause := ""
	for i, condition := range conditions {
		if i > 0 {
			whereClause += " AND "
		}
		whereClause += condition
	}
	return whereClause, args
}

// scanRecord scans one joined row into a Record.
func scanRecord(rows *sql.Rows) (*exhibit.Record, error) {
	var record exhibit.Record
	var deviceType, status string
	var customType, mk, model, color, description, serial, imei sql.NullString
	var frontKey, backKey, pin sql.NullString
	var unit, department, invPhone sql.NullString
	var releaseName, releasePhone sql.NullString
	var dateOfUse, releaseDate sql.NullTime

	err := rows.Scan(
		&record.Device.ID, &deviceType, &customType, &mk, &model, &color,
		&record.Device.ReferenceNumber, &record.Device.ExhibitNumber,
		&description, &serial, &imei, &frontKey, &backKey, &pin,
		&record.Device.CreatedAt,
		&unit, &department, &record.Request.InvestigatorName, &invPhone,
		&dateOfUse, &status,
		&releaseName, &releasePhone, &releaseDate,
	)
	if err != nil {
		return nil, err
	}

	record.Device.DeviceType = exhibit.DeviceType(deviceType)
	record.Device.CustomDeviceType = customType.String
	record.Device.Make = mk.String
	record.Device.Model = model.String
	record.Device.Color = color.String
	record.Device.Description = description.String
	record.Device.SerialNumber = serial.String
	record.Device.IMEINumber = imei.String
	record.Device.FrontImageKey = frontKey.String
	record.Device.BackImageKey = backKey.String
	record.Device.PINPasswordPattern = pin.String

	record.Request.DeviceID = record.Device.ID
	record.Request.Unit = unit.String
	record.Request.Department = department.String
	record.Request.InvestigatorPhone = invPhone.String
	if dateOfUse.Valid {
		record.Request.DateOfUse = dateOfUse.Time
	}
	record.Request.ExtractionStatus = exhibit.ExtractionStatus(status)
	record.Request.ReleaseContactName = releaseName.String
	record.Request.ReleaseContactPhone = releasePhone.String
	if releaseDate.Valid {
		t := releaseDate.Time
		record.Request.ReleaseDate = &t
	}

	return &record, nil
}

// nullIfEmpty maps empty optional strings to NULL so absent fields stay
// absent in the schema.
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
