package export

import (
	"context"
	"encoding/json"
	"io"

	"evidex-hq/custodia/pkg/exhibit"
)

// JSONExporter exports evidence records to JSON format.
type JSONExporter struct {
	// Pretty enables pretty-printing with indentation.
	Pretty bool
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(pretty bool) *JSONExporter {
	return &JSONExporter{
		Pretty: pretty,
	}
}

// Export writes evidence records to the provided writer as a JSON array.
// If Pretty is true, the JSON will be indented for readability.
//
// PIN/password material never appears in exports: the device field carrying
// it is excluded from serialization at the type level.
func (e *JSONExporter) Export(ctx context.Context, records []*exhibit.Record, w io.Writer) error {
	if len(records) == 0 {
		_, err := w.Write([]byte("[]"))
		if err != nil {
			return exhibit.NewExportError("json", 0, err)
		}
		return nil
	}

	var data []byte
	var err error
	if e.Pretty {
		data, err = json.MarshalIndent(records, "", "  ")
	} else {
		data, err = json.Marshal(records)
	}
	if err != nil {
		return exhibit.NewExportError("json", len(records), err)
	}

	if _, err := w.Write(data); err != nil {
		return exhibit.NewExportError("json", len(records), err)
	}
	return nil
}

// ExportOne writes a single joined record as a JSON object.
func (e *JSONExporter) ExportOne(ctx context.Context, record *exhibit.Record, w io.Writer) error {
	var data []byte
	var err error
	if e.Pretty {
		data, err = json.MarshalIndent(record, "", "  ")
	} else {
		data, err = json.Marshal(record)
	}
	if err != nil {
		return exhibit.NewExportError("json", 1, err)
	}

	if _, err := w.Write(data); err != nil {
		return exhibit.NewExportError("json", 1, err)
	}
	return nil
}
