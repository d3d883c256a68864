package export

import (
	"context"
	"fmt"
	"io"
	"time"

	"evidex-hq/custodia/pkg/exhibit"
)

// Field is one labelled value on a printed exhibit report.
type Field struct {
	Label string
	Value string
}

// DocumentRenderer lays out a single-exhibit report. Concrete renderers
// (PDF generators, print templates) live outside this package; exporters
// only hand them the ordered field list.
type DocumentRenderer interface {
	// Render writes a document for one exhibit to w. Fields arrive in
	// display order; empty values are rendered or skipped at the renderer's
	// discretion.
	Render(ctx context.Context, title string, fields []Field, w io.Writer) error
}

// ReportFields flattens one joined record into the ordered label/value pairs
// of the exhibit report. PIN/password material is never included.
func ReportFields(record *exhibit.Record) []Field {
	formatTime := func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02")
	}

	deviceType := string(record.Device.DeviceType)
	if record.Device.DeviceType == exhibit.DeviceOther && record.Device.CustomDeviceType != "" {
		deviceType = record.Device.CustomDeviceType
	}

	fields := []Field{
		{"Exhibit Number", record.Device.ExhibitNumber},
		{"Reference Number", record.Device.ReferenceNumber},
		{"Device ID", fmt.Sprintf("%d", record.Device.ID)},
		{"Device Type", deviceType},
		{"Make", record.Device.Make},
		{"Model", record.Device.Model},
		{"Color", record.Device.Color},
		{"Serial Number", record.Device.SerialNumber},
		{"IMEI Number", record.Device.IMEINumber},
		{"Description", record.Device.Description},
		{"Unit", record.Request.Unit},
		{"Department", record.Request.Department},
		{"Investigator", record.Request.InvestigatorName},
		{"Investigator Phone", record.Request.InvestigatorPhone},
		{"Date of Use", formatTime(record.Request.DateOfUse)},
		{"Extraction Status", string(record.Request.ExtractionStatus)},
	}

	if record.Request.ExtractionStatus == exhibit.StatusReleased {
		releaseDate := ""
		if record.Request.ReleaseDate != nil {
			releaseDate = formatTime(*record.Request.ReleaseDate)
		}
		fields = append(fields,
			Field{"Released To", record.Request.ReleaseContactName},
			Field{"Release Contact Phone", record.Request.ReleaseContactPhone},
			Field{"Release Date", releaseDate},
		)
	}

	fields = append(fields, Field{"Received", formatTime(record.Device.CreatedAt)})
	return fields
}

// ReportExporter renders single-exhibit reports through a DocumentRenderer.
type ReportExporter struct {
	renderer DocumentRenderer
}

// NewReportExporter creates a report exporter backed by the given renderer.
func NewReportExporter(renderer DocumentRenderer) *ReportExporter {
	return &ReportExporter{renderer: renderer}
}

// Export renders the report for one exhibit to w.
func (e *ReportExporter) Export(ctx context.Context, record *exhibit.Record, w io.Writer) error {
	title := fmt.Sprintf("Exhibit Report %s", record.Device.ExhibitNumber)
	if err := e.renderer.Render(ctx, title, ReportFields(record), w); err != nil {
		return exhibit.NewExportError("report", 1, err)
	}
	return nil
}
