package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"evidex-hq/custodia/pkg/exhibit"
)

// MemoryStorage implements the exhibit.Storage interface using in-memory
// maps. This implementation is intended for testing only and should not be
// used in production.
type MemoryStorage struct {
	devices  map[int64]*exhibit.Device
	requests map[int64]*exhibit.Request
	nextID   int64
	mu       sync.RWMutex
}

// NewMemoryStorage creates a new in-memory storage backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		devices:  make(map[int64]*exhibit.Device),
		requests: make(map[int64]*exhibit.Request),
		nextID:   1,
	}
}

// memoryIntakeTx stages intake writes against copies of the maps so a failed
// unit of work leaves the live state untouched.
type memoryIntakeTx struct {
	parent   *MemoryStorage
	devices  map[int64]*exhibit.Device
	requests map[int64]*exhibit.Request
	nextID   int64
}

// Intake runs fn against a staged copy of the store. The staged state is
// swapped in only when fn succeeds, which gives the same all-or-nothing
// visibility as a database transaction.
func (s *MemoryStorage) Intake(ctx context.Context, fn func(tx exhibit.IntakeTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memoryIntakeTx{
		parent:   s,
		devices:  make(map[int64]*exhibit.Device, len(s.devices)),
		requests: make(map[int64]*exhibit.Request, len(s.requests)),
		nextID:   s.nextID,
	}
	for id, d := range s.devices {
		tx.devices[id] = d
	}
	for id, r := range s.requests {
		tx.requests[id] = r
	}

	if err := fn(tx); err != nil {
		return err
	}

	s.devices = tx.devices
	s.requests = tx.requests
	s.nextID = tx.nextID
	return nil
}

// CreateDevice inserts a device copy and returns the assigned identity.
func (t *memoryIntakeTx) CreateDevice(ctx context.Context, d *exhibit.Device) (int64, error) {
	deviceCopy := *d
	deviceCopy.ID = t.nextID
	t.nextID++
	t.devices[deviceCopy.ID] = &deviceCopy
	return deviceCopy.ID, nil
}

// AssignExhibitNumber sets the exhibit number on an existing staged device.
func (t *memoryIntakeTx) AssignExhibitNumber(ctx context.Context, deviceID int64, exhibitNumber string) error {
	d, ok := t.devices[deviceID]
	if !ok {
		return exhibit.NewNotFoundError(deviceID)
	}
	deviceCopy := *d
	deviceCopy.ExhibitNumber = exhibitNumber
	t.devices[deviceID] = &deviceCopy
	return nil
}

// CreateRequest inserts the linked request, enforcing the same foreign-key
// and uniqueness constraints as the SQLite schema.
func (t *memoryIntakeTx) CreateRequest(ctx context.Context, r *exhibit.Request) error {
	if _, ok := t.devices[r.DeviceID]; !ok {
		return exhibit.NewStorageError("memory", "create_request",
			fmt.Errorf("no device with id %d", r.DeviceID))
	}
	if _, ok := t.requests[r.DeviceID]; ok {
		return exhibit.NewStorageError("memory", "create_request",
			fmt.Errorf("request already exists for device %d", r.DeviceID))
	}
	requestCopy := *r
	t.requests[r.DeviceID] = &requestCopy
	return nil
}

// ListEvidence returns joined Device/Request rows matching the query.
func (s *MemoryStorage) ListEvidence(ctx context.Context, q *exhibit.Query) ([]*exhibit.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(q), nil
}

// StreamEvidence passes each matching row to fn in list order. The rows are
// copies collected up front, so fn may block without holding the store lock.
func (s *MemoryStorage) StreamEvidence(ctx context.Context, q *exhibit.Query, fn func(*exhibit.Record) error) error {
	s.mu.RLock()
	records := s.collect(q)
	s.mu.RUnlock()

	for _, r := range records {
		if err := fn(r); err != nil {
			return err
		}
	}
	return nil
}

// collect applies the query's filters, sort, and pagination over copies of
// the stored rows. Callers hold s.mu.
func (s *MemoryStorage) collect(q *exhibit.Query) []*exhibit.Record {
	if q == nil {
		q = &exhibit.Query{}
	}

	records := []*exhibit.Record{}
	for id, d := range s.devices {
		r, ok := s.requests[id]
		if !ok {
			continue
		}
		if q.DeviceType != "" && d.DeviceType != q.DeviceType {
			continue
		}
		if q.Status != "" && r.ExtractionStatus != q.Status {
			continue
		}
		records = append(records, &exhibit.Record{Device: *d, Request: *r})
	}

	// Map iteration order is random; sort by id for a stable baseline, then
	// apply the requested ordering.
	sort.Slice(records, func(i, j int) bool {
		return records[i].Device.ID < records[j].Device.ID
	})
	if q.SortBy != "" {
		sortRecords(records, q.SortBy, q.SortOrder)
	}

	// Pagination.
	start := q.Offset
	if start > len(records) {
		return []*exhibit.Record{}
	}
	records = records[start:]
	if q.Limit > 0 && q.Limit < len(records) {
		records = records[:q.Limit]
	}
	return records
}

// sortRecords orders records in place by the named field.
func sortRecords(records []*exhibit.Record, sortBy, sortOrder string) {
	less := func(i, j int) bool { return records[i].Device.ID < records[j].Device.ID }
	switch sortBy {
	case "created_at":
		less = func(i, j int) bool { return records[i].Device.CreatedAt.Before(records[j].Device.CreatedAt) }
	case "exhibit_number":
		less = func(i, j int) bool { return records[i].Device.ExhibitNumber < records[j].Device.ExhibitNumber }
	case "reference_number":
		less = func(i, j int) bool { return records[i].Device.ReferenceNumber < records[j].Device.ReferenceNumber }
	case "date_of_use":
		less = func(i, j int) bool { return records[i].Request.DateOfUse.Before(records[j].Request.DateOfUse) }
	}
	if sortOrder == "desc" {
		inner := less
		less = func(i, j int) bool { return inner(j, i) }
	}
	sort.SliceStable(records, less)
}

// GetByDeviceID returns the joined record for one device.
func (s *MemoryStorage) GetByDeviceID(ctx context.Context, deviceID int64) (*exhibit.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.devices[deviceID]
	if !ok {
		return nil, exhibit.NewNotFoundError(deviceID)
	}
	r, ok := s.requests[deviceID]
	if !ok {
		return nil, exhibit.NewNotFoundError(deviceID)
	}
	return &exhibit.Record{Device: *d, Request: *r}, nil
}

// UpdateStatus mutates the extraction status of an existing request.
func (s *MemoryStorage) UpdateStatus(ctx context.Context, deviceID int64, status exhibit.ExtractionStatus, release *exhibit.ReleaseInfo, releaseDate *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.requests[deviceID]
	if !ok {
		return exhibit.NewNotFoundError(deviceID)
	}

	requestCopy := *r
	requestCopy.ExtractionStatus = status
	if release != nil {
		requestCopy.ReleaseContactName = release.ContactName
		requestCopy.ReleaseContactPhone = release.ContactPhone
	} else {
		requestCopy.ReleaseContactName = ""
		requestCopy.ReleaseContactPhone = ""
	}
	requestCopy.ReleaseDate = releaseDate
	s.requests[deviceID] = &requestCopy
	return nil
}

// Count returns the number of stored evidence records.
func (s *MemoryStorage) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for id := range s.devices {
		if _, ok := s.requests[id]; ok {
			count++
		}
	}
	return count, nil
}

// Close is a no-op for the in-memory backend.
func (s *MemoryStorage) Close() error {
	return nil
}
