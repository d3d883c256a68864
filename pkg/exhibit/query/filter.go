// Package query filters stored evidence records for the reporting view and
// validates query parameters before they reach the storage backend.
package query

import (
	"strings"

	"evidex-hq/custodia/pkg/exhibit"
)

// Filter returns the records whose reference number, exhibit number, or
// investigator name contains term as a case-insensitive substring. An empty
// term returns all records unchanged. The input slice is never mutated; each
// call produces a new filtered view.
func Filter(records []*exhibit.Record, term string) []*exhibit.Record {
	if term == "" {
		return records
	}

	term = strings.ToLower(term)
	matched := make([]*exhibit.Record, 0, len(records))
	for _, r := range records {
		if Matches(r, term) {
			matched = append(matched, r)
		}
	}
	return matched
}

// Matches reports whether the record contains the already-lowercased term in
// any of the three searched fields.
func Matches(r *exhibit.Record, lowerTerm string) bool {
	return strings.Contains(strings.ToLower(r.Device.ReferenceNumber), lowerTerm) ||
		strings.Contains(strings.ToLower(r.Device.ExhibitNumber), lowerTerm) ||
		strings.Contains(strings.ToLower(r.Request.InvestigatorName), lowerTerm)
}
