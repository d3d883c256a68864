package export

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"evidex-hq/custodia/pkg/exhibit"
)

// TestJSONExporter_EmptyRecords tests exporting an empty record set.
func TestJSONExporter_EmptyRecords(t *testing.T) {
	exporter := NewJSONExporter(false)
	var buf bytes.Buffer

	err := exporter.Export(context.Background(), []*exhibit.Record{}, &buf)
	if err != nil {
		t.Fatalf("Export() failed: %v", err)
	}
	if buf.String() != "[]" {
		t.Errorf("expected empty array, got %q", buf.String())
	}
}

// TestJSONExporter_RoundTrip tests that exported records decode back
// into equivalent structures.
func TestJSONExporter_RoundTrip(t *testing.T) {
	exporter := NewJSONExporter(false)
	var buf bytes.Buffer

	records := []*exhibit.Record{testRecord(1), testRecord(2)}
	if err := exporter.Export(context.Background(), records, &buf); err != nil {
		t.Fatalf("Export() failed: %v", err)
	}

	var decoded []exhibit.Record
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("expected 2 records, got %d", len(decoded))
	}
	if decoded[0].Device.ExhibitNumber != "ORG/SP/0126/JD/1" {
		t.Errorf("exhibit number mismatch: %q", decoded[0].Device.ExhibitNumber)
	}
	if decoded[1].Request.InvestigatorName != "Jane Doe" {
		t.Errorf("investigator mismatch: %q", decoded[1].Request.InvestigatorName)
	}
}

// TestJSONExporter_Pretty tests pretty-printed output.
func TestJSONExporter_Pretty(t *testing.T) {
	exporter := NewJSONExporter(true)
	var buf bytes.Buffer

	if err := exporter.Export(context.Background(), []*exhibit.Record{testRecord(1)}, &buf); err != nil {
		t.Fatalf("Export() failed: %v", err)
	}
	if !strings.Contains(buf.String(), "\n  ") {
		t.Error("expected indented output")
	}
}

// TestJSONExporter_ExportOne tests single-record export as an object.
func TestJSONExporter_ExportOne(t *testing.T) {
	exporter := NewJSONExporter(false)
	var buf bytes.Buffer

	if err := exporter.ExportOne(context.Background(), testRecord(7), &buf); err != nil {
		t.Fatalf("ExportOne() failed: %v", err)
	}

	var decoded exhibit.Record
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not a JSON object: %v", err)
	}
	if decoded.Device.ID != 7 {
		t.Errorf("expected device id 7, got %d", decoded.Device.ID)
	}
}

// TestJSONExporter_OmitsPIN verifies PIN/password material is never
// serialized.
func TestJSONExporter_OmitsPIN(t *testing.T) {
	exporter := NewJSONExporter(false)
	var buf bytes.Buffer

	record := testRecord(1)
	record.Device.PINPasswordPattern = "sekrit-pattern"

	if err := exporter.Export(context.Background(), []*exhibit.Record{record}, &buf); err != nil {
		t.Fatalf("Export() failed: %v", err)
	}
	if strings.Contains(buf.String(), "sekrit-pattern") {
		t.Error("PIN material leaked into JSON output")
	}
	if strings.Contains(buf.String(), "pin_password") {
		t.Error("PIN field name leaked into JSON output")
	}
}
