package query

import (
	"context"
	"fmt"
	"testing"
	"time"

	"evidex-hq/custodia/pkg/exhibit"
	"evidex-hq/custodia/pkg/exhibit/storage"
)

func seedSearchRecord(t *testing.T, s exhibit.Storage, ref, investigator string) {
	t.Helper()

	err := s.Intake(context.Background(), func(tx exhibit.IntakeTx) error {
		id, err := tx.CreateDevice(context.Background(), &exhibit.Device{
			DeviceType:      exhibit.DeviceSmartphone,
			ReferenceNumber: ref,
			CreatedAt:       time.Now().UTC(),
		})
		if err != nil {
			return err
		}
		if err := tx.AssignExhibitNumber(context.Background(), id, fmt.Sprintf("ORG/SP/0126/JD/%d", id)); err != nil {
			return err
		}
		return tx.CreateRequest(context.Background(), &exhibit.Request{
			DeviceID:         id,
			InvestigatorName: investigator,
			DateOfUse:        time.Now().UTC(),
			ExtractionStatus: exhibit.StatusPending,
		})
	})
	if err != nil {
		t.Fatalf("seeding record: %v", err)
	}
}

// A search must see the whole register, not just the first page: the match
// may sort after the page the limit would fetch from storage.
func TestSearch_MatchBeyondFirstPage(t *testing.T) {
	store := storage.NewMemoryStorage()
	defer store.Close()

	seedSearchRecord(t, store, "CASE-0", "Jane Doe")
	seedSearchRecord(t, store, "CASE-1", "Jane Doe")
	seedSearchRecord(t, store, "CASE-2", "Jane Doe")

	// device_id desc sorts CASE-0 (id 1) last, outside a page of 2.
	q := &exhibit.Query{
		SearchTerm: "case-0",
		Limit:      2,
		SortBy:     "device_id",
		SortOrder:  "desc",
	}

	records, err := Search(context.Background(), store, q)
	if err != nil {
		t.Fatalf("Search() failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Search() returned %d records, want 1", len(records))
	}
	if got := records[0].Device.ReferenceNumber; got != "CASE-0" {
		t.Errorf("ReferenceNumber = %q, want %q", got, "CASE-0")
	}
}

func TestSearch_PaginatesFilteredMatches(t *testing.T) {
	store := storage.NewMemoryStorage()
	defer store.Close()

	for i := 1; i <= 5; i++ {
		seedSearchRecord(t, store, fmt.Sprintf("CASE-%d", i), "Jane Doe")
	}

	q := &exhibit.Query{
		SearchTerm: "case",
		Limit:      2,
		Offset:     2,
		SortBy:     "device_id",
		SortOrder:  "asc",
	}

	records, err := Search(context.Background(), store, q)
	if err != nil {
		t.Fatalf("Search() failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Search() returned %d records, want 2", len(records))
	}
	if records[0].Device.ID != 3 || records[1].Device.ID != 4 {
		t.Errorf("page ids = %d, %d, want 3, 4", records[0].Device.ID, records[1].Device.ID)
	}
}

func TestSearch_OffsetPastMatches(t *testing.T) {
	store := storage.NewMemoryStorage()
	defer store.Close()

	seedSearchRecord(t, store, "CASE-1", "Jane Doe")

	q := &exhibit.Query{SearchTerm: "case", Offset: 5, Limit: 10}
	records, err := Search(context.Background(), store, q)
	if err != nil {
		t.Fatalf("Search() failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("Search() returned %d records, want 0", len(records))
	}
}

func TestSearch_EmptyTermPassesQueryThrough(t *testing.T) {
	store := storage.NewMemoryStorage()
	defer store.Close()

	for i := 1; i <= 3; i++ {
		seedSearchRecord(t, store, fmt.Sprintf("CASE-%d", i), "Jane Doe")
	}

	q := &exhibit.Query{Limit: 2, SortBy: "device_id", SortOrder: "asc"}
	records, err := Search(context.Background(), store, q)
	if err != nil {
		t.Fatalf("Search() failed: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("Search() returned %d records, want 2 (storage limit)", len(records))
	}
}
