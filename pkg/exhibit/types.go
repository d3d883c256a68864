package exhibit

import (
	"context"
	"time"
)

// DeviceType classifies the physical or digital item under examination.
type DeviceType string

const (
	DeviceSmartphone DeviceType = "Smartphone"
	DeviceLaptop     DeviceType = "Laptop"
	DeviceHardDrive  DeviceType = "HardDrive"
	DeviceFlashDrive DeviceType = "FlashDrive"
	DeviceDrone      DeviceType = "Drone"
	DeviceOther      DeviceType = "Other"
)

// Valid reports whether the device type is one of the known categories.
func (t DeviceType) Valid() bool {
	switch t {
	case DeviceSmartphone, DeviceLaptop, DeviceHardDrive, DeviceFlashDrive, DeviceDrone, DeviceOther:
		return true
	}
	return false
}

// ExtractionStatus is the lifecycle state of evidence processing.
type ExtractionStatus string

const (
	StatusPending    ExtractionStatus = "Pending"
	StatusProcessing ExtractionStatus = "Processing"
	StatusCompleted  ExtractionStatus = "Completed"
	StatusReleased   ExtractionStatus = "Released"
)

// Valid reports whether the status is one of the known lifecycle states.
func (s ExtractionStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusReleased:
		return true
	}
	return false
}

// Next returns the status that follows s in the forward lifecycle sequence
// Pending -> Processing -> Completed -> Released. Released has no successor.
func (s ExtractionStatus) Next() (ExtractionStatus, bool) {
	switch s {
	case StatusPending:
		return StatusProcessing, true
	case StatusProcessing:
		return StatusCompleted, true
	case StatusCompleted:
		return StatusReleased, true
	}
	return "", false
}

// MaxDescriptionLen bounds the free-text device description.
const MaxDescriptionLen = 150

// Device is one item of evidence under examination. The storage backend
// assigns ID on creation; ExhibitNumber is assigned exactly once, inside the
// same unit of work, after ID is known. Every device visible to queries has a
// non-empty exhibit number.
type Device struct {
	ID               int64      `json:"device_id"`
	DeviceType       DeviceType `json:"device_type"`
	CustomDeviceType string     `json:"custom_device_type,omitempty"` // required iff DeviceType == DeviceOther
	Make             string     `json:"make,omitempty"`
	Model            string     `json:"model,omitempty"`
	Color            string     `json:"color,omitempty"`
	ReferenceNumber  string     `json:"reference_number"` // case number, not unique
	ExhibitNumber    string     `json:"exhibit_number"`
	Description      string     `json:"description,omitempty"`
	SerialNumber     string     `json:"serial_number,omitempty"`
	IMEINumber       string     `json:"imei_number,omitempty"`

	// Blob store keys for the intake photographs. The image bytes themselves
	// live in the blob store, not in the evidence tables.
	FrontImageKey string `json:"front_image_key,omitempty"`
	BackImageKey  string `json:"back_image_key,omitempty"`

	PINPasswordPattern string `json:"-"` // never serialized

	CreatedAt time.Time `json:"created_at"`
}

// Request is the investigative context tied one-to-one to a Device.
type Request struct {
	DeviceID          int64            `json:"device_id"`
	Unit              string           `json:"unit,omitempty"`
	Department        string           `json:"department,omitempty"`
	InvestigatorName  string           `json:"investigator_name"`
	InvestigatorPhone string           `json:"investigator_phone,omitempty"`
	DateOfUse         time.Time        `json:"date_of_use"`
	ExtractionStatus  ExtractionStatus `json:"extraction_status"`

	// Release fields are present iff ExtractionStatus == StatusReleased.
	// ReleaseDate is stamped by the lifecycle controller at the moment of the
	// transition, never accepted from caller input.
	ReleaseContactName  string     `json:"release_contact_name,omitempty"`
	ReleaseContactPhone string     `json:"release_contact_phone,omitempty"`
	ReleaseDate         *time.Time `json:"release_date,omitempty"`
}

// Record is one joined Device/Request row as served to the reporting view.
type Record struct {
	Device  Device  `json:"device"`
	Request Request `json:"request"`
}

// Query defines filter parameters for listing evidence records.
type Query struct {
	// SearchTerm is matched case-insensitively as a substring of
	// reference_number, exhibit_number, or investigator_name.
	SearchTerm string `json:"search_term,omitempty"`

	// Exact-match filters.
	DeviceType DeviceType       `json:"device_type,omitempty"`
	Status     ExtractionStatus `json:"status,omitempty"`

	// Pagination.
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`

	// Sorting.
	SortBy    string `json:"sort_by,omitempty"`
	SortOrder string `json:"sort_order,omitempty"` // "asc" or "desc"
}

// ReleaseInfo carries the contact details recorded when evidence is released.
type ReleaseInfo struct {
	ContactName  string
	ContactPhone string
}

// IntakeTx exposes the three repository writes that make up one intake.
// All three run inside a single transaction owned by Storage.Intake; a
// failure in any of them rolls the whole unit of work back.
type IntakeTx interface {
	// CreateDevice inserts a device row with the exhibit number unset and
	// returns the storage-assigned identity.
	CreateDevice(ctx context.Context, d *Device) (int64, error)

	// AssignExhibitNumber sets the exhibit number on exactly one device row.
	// Returns a NotFoundError if no such device exists.
	AssignExhibitNumber(ctx context.Context, deviceID int64, exhibitNumber string) error

	// CreateRequest inserts the request row linked to r.DeviceID. Fails if
	// the device does not exist or already has a request.
	CreateRequest(ctx context.Context, r *Request) error
}

// Storage defines the contract the evidence repository requires from its
// storage backend. Implementations must be safe for concurrent use.
type Storage interface {
	// Intake runs fn inside a single unit of work. If fn returns an error the
	// transaction is rolled back and no partial writes remain visible.
	Intake(ctx context.Context, fn func(tx IntakeTx) error) error

	// ListEvidence returns joined Device/Request rows matching the query.
	// Source ordering is whatever the backend returns unless a sort is set.
	ListEvidence(ctx context.Context, q *Query) ([]*Record, error)

	// StreamEvidence passes each matching row to fn in the same order
	// ListEvidence would return them, without materializing the full set.
	// The first error from fn stops iteration and is returned unchanged.
	StreamEvidence(ctx context.Context, q *Query, fn func(*Record) error) error

	// GetByDeviceID returns the joined record for one device.
	// Returns a NotFoundError if the device does not exist.
	GetByDeviceID(ctx context.Context, deviceID int64) (*Record, error)

	// UpdateStatus mutates the extraction status of an existing request.
	// release must be non-nil iff status == StatusReleased; releaseDate is
	// stored alongside it and cleared for every other status.
	UpdateStatus(ctx context.Context, deviceID int64, status ExtractionStatus, release *ReleaseInfo, releaseDate *time.Time) error

	// Count returns the number of stored evidence records.
	Count(ctx context.Context) (int64, error)

	// Close releases any resources held by the backend.
	Close() error
}
