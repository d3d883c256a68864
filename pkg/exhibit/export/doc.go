// Package export serializes evidence records for reporting.
//
// # Export Formats
//
// The export package provides exporters for:
//
//   - JSON: Single record or array, with optional pretty-printing
//   - CSV: Flattened register schema with header row and proper escaping
//   - Report: ordered field-name/value pairs handed to a DocumentRenderer
//
// # CSV Export
//
// The CSV exporter writes the full register in the flat column layout used
// for handover paperwork:
//
//	exporter := export.NewCSVExporter(true)
//
//	f, _ := os.Create("register.csv")
//	defer f.Close()
//
//	err := exporter.Export(ctx, records, f)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Single-Exhibit Reports
//
// ReportFields flattens one record into the ordered label/value pairs a
// document renderer lays out on a printed exhibit report. The renderer itself
// is a collaborator injected behind the DocumentRenderer interface; this
// package never depends on a concrete document library.
//
// # Error Handling
//
// Exporters return ExportError if the export fails:
//
//   - JSON encoding errors
//   - CSV escaping errors
//   - Writer errors
package export
