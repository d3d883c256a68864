package storage

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the evidence database schema.
// Devices and requests are separate tables joined one-to-one on device_id;
// the UNIQUE constraint on requests.device_id enforces the pairing.
const Schema = `
-- Devices under examination
CREATE TABLE IF NOT EXISTS devices (
    device_id INTEGER PRIMARY KEY AUTOINCREMENT,
    device_type TEXT NOT NULL,
    custom_device_type TEXT,
    make TEXT,
    model TEXT,
    color TEXT,
    reference_number TEXT NOT NULL,
    exhibit_number TEXT,
    description TEXT,
    serial_number TEXT,
    imei_number TEXT,
    front_image_key TEXT,
    back_image_key TEXT,
    pin_password_pattern TEXT,
    created_at TIMESTAMP NOT NULL
);

-- Investigative requests, one per device
CREATE TABLE IF NOT EXISTS requests (
    device_id INTEGER NOT NULL UNIQUE REFERENCES devices(device_id),
    unit TEXT,
    department TEXT,
    investigator_name TEXT NOT NULL,
    investigator_phone TEXT,
    date_of_use TIMESTAMP,
    extraction_status TEXT NOT NULL,
    release_contact_name TEXT,
    release_contact_phone TEXT,
    release_date TIMESTAMP
);

-- Schema version table
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

-- Indexes for the reporting view's search fields
CREATE INDEX IF NOT EXISTS idx_devices_reference_number ON devices(reference_number);
CREATE INDEX IF NOT EXISTS idx_devices_exhibit_number ON devices(exhibit_number);
CREATE INDEX IF NOT EXISTS idx_devices_device_type ON devices(device_type);
CREATE INDEX IF NOT EXISTS idx_requests_investigator_name ON requests(investigator_name);
CREATE INDEX IF NOT EXISTS idx_requests_extraction_status ON requests(extraction_status);
`

// InsertSchemaVersion inserts the schema version into the schema_version table.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion retrieves the current schema version from the database.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`
