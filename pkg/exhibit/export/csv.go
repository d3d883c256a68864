package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"evidex-hq/custodia/pkg/exhibit"
)

// CSVExporter exports evidence records to CSV format.
type CSVExporter struct {
	// IncludeHeader includes a header row with column names.
	IncludeHeader bool
}

// NewCSVExporter creates a new CSV exporter.
func NewCSVExporter(includeHeader bool) *CSVExporter {
	return &CSVExporter{
		IncludeHeader: includeHeader,
	}
}

// Export writes evidence records to the provided writer in CSV format.
// Each row is one joined device/request pair in register column order.
func (e *CSVExporter) Export(ctx context.Context, records []*exhibit.Record, w io.Writer) error {
	cw := NewCSVWriter(w, e.IncludeHeader)

	for _, record := range records {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	return cw.Flush()
}

// CSVWriter writes one record at a time in register column order, for
// callers that stream rows instead of materializing the full set. The
// header, when requested, is written before the first row and survives an
// empty stream via Flush.
type CSVWriter struct {
	w     *csv.Writer
	err   error
	count int
}

// NewCSVWriter creates a streaming CSV writer over w.
func NewCSVWriter(w io.Writer, includeHeader bool) *CSVWriter {
	cw := &CSVWriter{w: csv.NewWriter(w)}
	if includeHeader {
		cw.err = cw.w.Write(headerRow())
	}
	return cw
}

// Write appends one record row. After the first error every call fails.
func (cw *CSVWriter) Write(record *exhibit.Record) error {
	if cw.err != nil {
		return exhibit.NewExportError("csv", cw.count, cw.err)
	}
	if err := cw.w.Write(recordRow(record)); err != nil {
		cw.err = err
		return exhibit.NewExportError("csv", cw.count, err)
	}
	cw.count++
	return nil
}

// Flush writes any buffered rows through to the underlying writer.
func (cw *CSVWriter) Flush() error {
	if cw.err != nil {
		return exhibit.NewExportError("csv", cw.count, cw.err)
	}
	cw.w.Flush()
	if err := cw.w.Error(); err != nil {
		cw.err = err
		return exhibit.NewExportError("csv", cw.count, err)
	}
	return nil
}

// headerRow returns the CSV header row.
func headerRow() []string {
	return []string{
		"device_id", "exhibit_number", "reference_number",
		"device_type", "custom_device_type", "make", "model", "color",
		"serial_number", "imei_number", "description",
		"unit", "department", "investigator_name", "investigator_phone",
		"date_of_use", "extraction_status",
		"release_contact_name", "release_contact_phone", "release_date",
		"created_at",
	}
}

// recordRow converts an evidence record to a CSV row.
func recordRow(record *exhibit.Record) []string {
	formatTime := func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format(time.RFC3339)
	}

	releaseDate := ""
	if record.Request.ReleaseDate != nil {
		releaseDate = formatTime(*record.Request.ReleaseDate)
	}

	return []string{
		fmt.Sprintf("%d", record.Device.ID),
		record.Device.ExhibitNumber,
		record.Device.ReferenceNumber,
		string(record.Device.DeviceType),
		record.Device.CustomDeviceType,
		record.Device.Make,
		record.Device.Model,
		record.Device.Color,
		record.Device.SerialNumber,
		record.Device.IMEINumber,
		record.Device.Description,
		record.Request.Unit,
		record.Request.Department,
		record.Request.InvestigatorName,
		record.Request.InvestigatorPhone,
		formatTime(record.Request.DateOfUse),
		string(record.Request.ExtractionStatus),
		record.Request.ReleaseContactName,
		record.Request.ReleaseContactPhone,
		releaseDate,
		formatTime(record.Device.CreatedAt),
	}
}
