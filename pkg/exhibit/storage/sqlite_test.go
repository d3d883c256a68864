package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"evidex-hq/custodia/pkg/exhibit"
)

// createTempDB creates a temporary SQLite database for testing.
func createTempDB(t *testing.T) (*SQLiteStorage, string) {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	config := &SQLiteConfig{
		Path:         dbPath,
		MaxOpenConns: 5,
		MaxIdleConns: 2,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}

	storage, err := NewSQLiteStorage(config)
	if err != nil {
		t.Fatalf("Failed to create SQLite storage: %v", err)
	}

	return storage, dbPath
}

// submitIntake runs a full intake against the store and returns the device id.
func submitIntake(t *testing.T, s exhibit.Storage, refNumber, investigator, exhibitNumber string) int64 {
	t.Helper()

	var deviceID int64
	err := s.Intake(context.Background(), func(tx exhibit.IntakeTx) error {
		id, err := tx.CreateDevice(context.Background(), &exhibit.Device{
			DeviceType:      exhibit.DeviceSmartphone,
			Make:            "Apple",
			Model:           "iPhone 11 Pro Max",
			ReferenceNumber: refNumber,
			CreatedAt:       time.Now().UTC().Truncate(time.Millisecond),
		})
		if err != nil {
			return err
		}
		deviceID = id

		if err := tx.AssignExhibitNumber(context.Background(), id, fmt.Sprintf("%s/%d", exhibitNumber, id)); err != nil {
			return err
		}

		return tx.CreateRequest(context.Background(), &exhibit.Request{
			DeviceID:         id,
			Unit:             "Cybercrime Lab",
			InvestigatorName: investigator,
			DateOfUse:        time.Now().UTC().Truncate(time.Millisecond),
			ExtractionStatus: exhibit.StatusPending,
		})
	})
	if err != nil {
		t.Fatalf("Intake() failed: %v", err)
	}
	return deviceID
}

func TestSQLiteStorage_Initialize(t *testing.T) {
	storage, dbPath := createTempDB(t)
	defer storage.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestSQLiteStorage_IntakeAndList(t *testing.T) {
	storage, _ := createTempDB(t)
	defer storage.Close()

	ctx := context.Background()
	deviceID := submitIntake(t, storage, "CASE-1", "Sam", "ORG/SP/0126/JD")

	records, err := storage.ListEvidence(ctx, &exhibit.Query{})
	if err != nil {
		t.Fatalf("ListEvidence() failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}

	got := records[0]
	if got.Device.ID != deviceID {
		t.Errorf("Expected device id %d, got %d", deviceID, got.Device.ID)
	}
	if got.Device.ExhibitNumber == "" {
		t.Error("Expected exhibit number to be assigned")
	}
	if got.Request.DeviceID != deviceID {
		t.Errorf("Expected request device id %d, got %d", deviceID, got.Request.DeviceID)
	}
	if got.Request.ExtractionStatus != exhibit.StatusPending {
		t.Errorf("Expected status Pending, got %s", got.Request.ExtractionStatus)
	}
	if got.Request.ReleaseContactName != "" || got.Request.ReleaseDate != nil {
		t.Error("Expected release fields to be absent for Pending status")
	}
}

func TestSQLiteStorage_IntakeRollback(t *testing.T) {
	storage, _ := createTempDB(t)
	defer storage.Close()

	ctx := context.Background()
	boom := errors.New("create_request failed")

	err := storage.Intake(ctx, func(tx exhibit.IntakeTx) error {
		id, err := tx.CreateDevice(ctx, &exhibit.Device{
			DeviceType:      exhibit.DeviceLaptop,
			ReferenceNumber: "CASE-2",
			CreatedAt:       time.Now(),
		})
		if err != nil {
			return err
		}
		if err := tx.AssignExhibitNumber(ctx, id, "ORG/L/0126/JD/1"); err != nil {
			return err
		}
		// Simulates create_request failing after the first two writes
		// succeeded: all three must be rolled back.
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Intake() error = %v, want %v", err, boom)
	}

	count, err := storage.Count(ctx)
	if err != nil {
		t.Fatalf("Count() failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 records after rollback, got %d", count)
	}

	records, err := storage.ListEvidence(ctx, &exhibit.Query{})
	if err != nil {
		t.Fatalf("ListEvidence() failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("Expected no visible records after rollback, got %d", len(records))
	}
}

func TestSQLiteStorage_DuplicateRequestRollsBack(t *testing.T) {
	storage, _ := createTempDB(t)
	defer storage.Close()

	ctx := context.Background()

	err := storage.Intake(ctx, func(tx exhibit.IntakeTx) error {
		id, err := tx.CreateDevice(ctx, &exhibit.Device{
			DeviceType:      exhibit.DeviceHardDrive,
			ReferenceNumber: "CASE-3",
			CreatedAt:       time.Now(),
		})
		if err != nil {
			return err
		}
		if err := tx.AssignExhibitNumber(ctx, id, "ORG/HD/0126/JD/1"); err != nil {
			return err
		}
		req := &exhibit.Request{
			DeviceID:         id,
			InvestigatorName: "Sam",
			ExtractionStatus: exhibit.StatusPending,
			DateOfUse:        time.Now(),
		}
		if err := tx.CreateRequest(ctx, req); err != nil {
			return err
		}
		// Second request for the same device violates the uniqueness
		// constraint and must poison the whole unit of work.
		return tx.CreateRequest(ctx, req)
	})

	var storageErr *exhibit.StorageError
	if !errors.As(err, &storageErr) {
		t.Fatalf("Intake() error = %v, want *exhibit.StorageError", err)
	}

	count, err := storage.Count(ctx)
	if err != nil {
		t.Fatalf("Count() failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 records after rollback, got %d", count)
	}
}

func TestSQLiteStorage_AssignExhibitNumberNotFound(t *testing.T) {
	storage, _ := createTempDB(t)
	defer storage.Close()

	ctx := context.Background()
	err := storage.Intake(ctx, func(tx exhibit.IntakeTx) error {
		return tx.AssignExhibitNumber(ctx, 9999, "ORG/SP/0126/JD/9999")
	})

	var notFound *exhibit.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Intake() error = %v, want *exhibit.NotFoundError", err)
	}
	if notFound.DeviceID != 9999 {
		t.Errorf("NotFoundError.DeviceID = %d, want 9999", notFound.DeviceID)
	}
}

func TestSQLiteStorage_RequestWithoutDeviceFails(t *testing.T) {
	storage, _ := createTempDB(t)
	defer storage.Close()

	ctx := context.Background()
	err := storage.Intake(ctx, func(tx exhibit.IntakeTx) error {
		return tx.CreateRequest(ctx, &exhibit.Request{
			DeviceID:         1234,
			InvestigatorName: "Sam",
			ExtractionStatus: exhibit.StatusPending,
			DateOfUse:        time.Now(),
		})
	})

	var storageErr *exhibit.StorageError
	if !errors.As(err, &storageErr) {
		t.Fatalf("Intake() error = %v, want *exhibit.StorageError (foreign key violation)", err)
	}
}

func TestSQLiteStorage_ListFilters(t *testing.T) {
	storage, _ := createTempDB(t)
	defer storage.Close()

	ctx := context.Background()
	submitIntake(t, storage, "CASE-A", "Sam", "ORG/SP/0126/SJ")
	submitIntake(t, storage, "CASE-B", "Ada", "ORG/SP/0126/AL")
	submitIntake(t, storage, "CASE-C", "Sam", "ORG/SP/0126/SJ")

	records, err := storage.ListEvidence(ctx, &exhibit.Query{DeviceType: exhibit.DeviceSmartphone})
	if err != nil {
		t.Fatalf("ListEvidence() failed: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("DeviceType filter: expected 3 records, got %d", len(records))
	}

	records, err = storage.ListEvidence(ctx, &exhibit.Query{DeviceType: exhibit.DeviceDrone})
	if err != nil {
		t.Fatalf("ListEvidence() failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("DeviceType filter: expected 0 records, got %d", len(records))
	}

	records, err = storage.ListEvidence(ctx, &exhibit.Query{
		SortBy:    "reference_number",
		SortOrder: "desc",
		Limit:     2,
	})
	if err != nil {
		t.Fatalf("ListEvidence() failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Limit: expected 2 records, got %d", len(records))
	}
	if records[0].Device.ReferenceNumber != "CASE-C" {
		t.Errorf("Sort desc: expected CASE-C first, got %s", records[0].Device.ReferenceNumber)
	}
}

func TestSQLiteStorage_GetByDeviceID(t *testing.T) {
	storage, _ := createTempDB(t)
	defer storage.Close()

	ctx := context.Background()
	deviceID := submitIntake(t, storage, "CASE-G", "Sam", "ORG/SP/0126/SJ")

	record, err := storage.GetByDeviceID(ctx, deviceID)
	if err != nil {
		t.Fatalf("GetByDeviceID() failed: %v", err)
	}
	if record.Device.ReferenceNumber != "CASE-G" {
		t.Errorf("Expected reference CASE-G, got %s", record.Device.ReferenceNumber)
	}

	_, err = storage.GetByDeviceID(ctx, 9999)
	var notFound *exhibit.NotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("GetByDeviceID(9999) error = %v, want *exhibit.NotFoundError", err)
	}
}

func TestSQLiteStorage_UpdateStatus(t *testing.T) {
	storage, _ := createTempDB(t)
	defer storage.Close()

	ctx := context.Background()
	deviceID := submitIntake(t, storage, "CASE-U", "Sam", "ORG/SP/0126/SJ")

	releaseDate := time.Now().UTC().Truncate(time.Millisecond)
	err := storage.UpdateStatus(ctx, deviceID, exhibit.StatusReleased,
		&exhibit.ReleaseInfo{ContactName: "Kwame Mensah", ContactPhone: "0800-555"},
		&releaseDate,
	)
	if err != nil {
		t.Fatalf("UpdateStatus() failed: %v", err)
	}

	record, err := storage.GetByDeviceID(ctx, deviceID)
	if err != nil {
		t.Fatalf("GetByDeviceID() failed: %v", err)
	}
	if record.Request.ExtractionStatus != exhibit.StatusReleased {
		t.Errorf("Expected status Released, got %s", record.Request.ExtractionStatus)
	}
	if record.Request.ReleaseContactName != "Kwame Mensah" {
		t.Errorf("Expected release contact, got %q", record.Request.ReleaseContactName)
	}
	if record.Request.ReleaseDate == nil {
		t.Fatal("Expected release date to be set")
	}

	// Moving away from Released clears the release fields.
	err = storage.UpdateStatus(ctx, deviceID, exhibit.StatusCompleted, nil, nil)
	if err != nil {
		t.Fatalf("UpdateStatus() failed: %v", err)
	}
	record, err = storage.GetByDeviceID(ctx, deviceID)
	if err != nil {
		t.Fatalf("GetByDeviceID() failed: %v", err)
	}
	if record.Request.ReleaseContactName != "" || record.Request.ReleaseDate != nil {
		t.Error("Expected release fields to be cleared")
	}

	err = storage.UpdateStatus(ctx, 9999, exhibit.StatusProcessing, nil, nil)
	var notFound *exhibit.NotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("UpdateStatus(9999) error = %v, want *exhibit.NotFoundError", err)
	}
}

func TestSQLiteStorage_InvalidSortField(t *testing.T) {
	storage, _ := createTempDB(t)
	defer storage.Close()

	_, err := storage.ListEvidence(context.Background(), &exhibit.Query{SortBy: "pin_password_pattern; DROP TABLE devices"})
	if err == nil {
		t.Fatal("ListEvidence() succeeded with invalid sort field")
	}
}

func TestSQLiteStorage_StreamEvidence(t *testing.T) {
	storage, _ := createTempDB(t)
	defer storage.Close()
	ctx := context.Background()

	submitIntake(t, storage, "CASE-A", "Sam", "ORG/SP/0126/SJ")
	submitIntake(t, storage, "CASE-B", "Sam", "ORG/SP/0126/SJ")
	submitIntake(t, storage, "CASE-C", "Sam", "ORG/SP/0126/SJ")

	q := &exhibit.Query{SortBy: "reference_number", SortOrder: "asc"}
	listed, err := storage.ListEvidence(ctx, q)
	if err != nil {
		t.Fatalf("ListEvidence() failed: %v", err)
	}

	var streamed []string
	err = storage.StreamEvidence(ctx, q, func(r *exhibit.Record) error {
		streamed = append(streamed, r.Device.ReferenceNumber)
		return nil
	})
	if err != nil {
		t.Fatalf("StreamEvidence() failed: %v", err)
	}

	if len(streamed) != len(listed) {
		t.Fatalf("StreamEvidence() yielded %d rows, ListEvidence() %d", len(streamed), len(listed))
	}
	for i, r := range listed {
		if streamed[i] != r.Device.ReferenceNumber {
			t.Errorf("row %d: streamed %q, listed %q", i, streamed[i], r.Device.ReferenceNumber)
		}
	}
}

func TestSQLiteStorage_StreamEvidenceStopsOnError(t *testing.T) {
	storage, _ := createTempDB(t)
	defer storage.Close()
	ctx := context.Background()
	boom := errors.New("sink full")

	submitIntake(t, storage, "CASE-A", "Sam", "ORG/SP/0126/SJ")
	submitIntake(t, storage, "CASE-B", "Sam", "ORG/SP/0126/SJ")

	seen := 0
	err := storage.StreamEvidence(ctx, &exhibit.Query{}, func(r *exhibit.Record) error {
		seen++
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("StreamEvidence() error = %v, want %v", err, boom)
	}
	if seen != 1 {
		t.Errorf("callback ran %d times after error, want 1", seen)
	}
}
