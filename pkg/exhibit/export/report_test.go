package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"evidex-hq/custodia/pkg/exhibit"
)

// textRenderer is a plain-text DocumentRenderer used in tests.
type textRenderer struct{}

func (textRenderer) Render(ctx context.Context, title string, fields []Field, w io.Writer) error {
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	for _, f := range fields {
		if _, err := fmt.Fprintf(w, "%s: %s\n", f.Label, f.Value); err != nil {
			return err
		}
	}
	return nil
}

// TestReportFields_Order verifies the exhibit number leads the report and
// PIN material is absent.
func TestReportFields_Order(t *testing.T) {
	record := testRecord(1)
	record.Device.PINPasswordPattern = "sekrit-pattern"

	fields := ReportFields(record)

	if fields[0].Label != "Exhibit Number" || fields[0].Value != "ORG/SP/0126/JD/1" {
		t.Errorf("expected exhibit number first, got %+v", fields[0])
	}
	for _, f := range fields {
		if strings.Contains(f.Value, "sekrit-pattern") {
			t.Errorf("PIN material leaked into field %q", f.Label)
		}
	}
}

// TestReportFields_ReleaseSection verifies release fields appear only for
// released exhibits.
func TestReportFields_ReleaseSection(t *testing.T) {
	record := testRecord(1)
	fields := ReportFields(record)
	for _, f := range fields {
		if f.Label == "Released To" {
			t.Fatal("release section present on a pending exhibit")
		}
	}

	releaseDate := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	record.Request.ExtractionStatus = exhibit.StatusReleased
	record.Request.ReleaseContactName = "Officer Kim"
	record.Request.ReleaseContactPhone = "555-0100"
	record.Request.ReleaseDate = &releaseDate

	fields = ReportFields(record)
	var releasedTo, released string
	for _, f := range fields {
		switch f.Label {
		case "Released To":
			releasedTo = f.Value
		case "Release Date":
			released = f.Value
		}
	}
	if releasedTo != "Officer Kim" {
		t.Errorf("expected release contact, got %q", releasedTo)
	}
	if released != "2026-02-01" {
		t.Errorf("expected release date 2026-02-01, got %q", released)
	}
}

// TestReportFields_CustomDeviceType verifies Other devices report their
// custom type label.
func TestReportFields_CustomDeviceType(t *testing.T) {
	record := testRecord(1)
	record.Device.DeviceType = exhibit.DeviceOther
	record.Device.CustomDeviceType = "Smartwatch"

	for _, f := range ReportFields(record) {
		if f.Label == "Device Type" {
			if f.Value != "Smartwatch" {
				t.Errorf("expected custom type, got %q", f.Value)
			}
			return
		}
	}
	t.Fatal("device type field missing")
}

// TestReportExporter_Render exercises the exporter through a renderer.
func TestReportExporter_Render(t *testing.T) {
	exporter := NewReportExporter(textRenderer{})
	var buf bytes.Buffer

	if err := exporter.Export(context.Background(), testRecord(1), &buf); err != nil {
		t.Fatalf("Export() failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Exhibit Report ORG/SP/0126/JD/1") {
		t.Error("expected report title with exhibit number")
	}
	if !strings.Contains(out, "Investigator: Jane Doe") {
		t.Error("expected investigator field in rendered report")
	}
}

// failingRenderer always fails, to exercise error wrapping.
type failingRenderer struct{}

func (failingRenderer) Render(ctx context.Context, title string, fields []Field, w io.Writer) error {
	return fmt.Errorf("renderer down")
}

func TestReportExporter_WrapsRendererError(t *testing.T) {
	exporter := NewReportExporter(failingRenderer{})
	var buf bytes.Buffer

	err := exporter.Export(context.Background(), testRecord(1), &buf)
	if err == nil {
		t.Fatal("expected error")
	}
	var exportErr *exhibit.ExportError
	if !errors.As(err, &exportErr) {
		t.Fatalf("expected ExportError, got %T", err)
	}
	if exportErr.Format != "report" {
		t.Errorf("expected format report, got %q", exportErr.Format)
	}
}
