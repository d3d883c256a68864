// Package exhibit defines the core types and contracts of the evidence
// intake and exhibit lifecycle manager: devices, their linked investigative
// requests, the storage contract, and the error taxonomy shared by every
// component.
//
// # Data Model
//
// A Device is one physical or digital item submitted to the forensics unit.
// A Request is the investigative context tied one-to-one to that device.
// The pair is always created together as a single unit of work and is never
// deleted by this core; after commit the joined rows are read-only to the
// reporting view.
//
// # Exhibit Numbers
//
// Every visible device carries an exhibit number of the form
//
//	ORG/<device code>/<MMYY>/<handler initials>/<device id>
//
// derived deterministically from the device type, the submitting handler's
// name, and the storage-assigned device id. Because the id is part of the
// identifier, the number is written in a second statement inside the same
// transaction that inserted the device row.
//
// # Intake Flow
//
//	Form → Validator → CreateDevice → Generate Number
//	     → AssignExhibitNumber → CreateRequest → Commit
//
// Any failure after the device insert rolls back all three writes. Partial
// intakes are never visible to readers.
//
// # Subpackages
//
//   - number: pure exhibit number generation
//   - intake: form validation and the lifecycle controller
//   - storage: SQLite and in-memory storage backends
//   - query: search filtering and query parameter validation
//   - export: CSV/JSON register export and report field mapping
//   - register: scheduled register snapshots
//   - auditlog: append-only trail of intakes and status changes
package exhibit
