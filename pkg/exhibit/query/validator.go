package query

import (
	"fmt"

	"evidex-hq/custodia/pkg/exhibit"
)

const (
	// DefaultLimit is the default number of records to return if not specified.
	DefaultLimit = 100

	// MaxLimit is the maximum number of records that can be returned in a single query.
	MaxLimit = 10000
)

// ValidSortFields contains the fields that can be used for sorting.
var ValidSortFields = map[string]bool{
	"created_at":       true,
	"device_id":        true,
	"exhibit_number":   true,
	"reference_number": true,
	"date_of_use":      true,
}

// ValidSortOrders contains the valid sort orders.
var ValidSortOrders = map[string]bool{
	"asc":  true,
	"desc": true,
}

// Validate validates a query and returns an error if any parameters are invalid.
func Validate(q *exhibit.Query) error {
	if q.Limit < 0 {
		return exhibit.NewInvalidFieldError("limit",
			fmt.Sprintf("must be >= 0, got %d", q.Limit))
	}
	if q.Limit > MaxLimit {
		return exhibit.NewInvalidFieldError("limit",
			fmt.Sprintf("must be <= %d, got %d", MaxLimit, q.Limit))
	}

	if q.Offset < 0 {
		return exhibit.NewInvalidFieldError("offset",
			fmt.Sprintf("must be >= 0, got %d", q.Offset))
	}

	if q.SortBy != "" && !ValidSortFields[q.SortBy] {
		return exhibit.NewInvalidFieldError("sort_by",
			fmt.Sprintf("invalid sort field: %s", q.SortBy))
	}
	if q.SortOrder != "" && !ValidSortOrders[q.SortOrder] {
		return exhibit.NewInvalidFieldError("sort_order",
			fmt.Sprintf("invalid sort order: %s (must be 'asc' or 'desc')", q.SortOrder))
	}

	if q.DeviceType != "" && !q.DeviceType.Valid() {
		return exhibit.NewInvalidFieldError("device_type",
			fmt.Sprintf("unknown device type %q", q.DeviceType))
	}
	if q.Status != "" && !q.Status.Valid() {
		return exhibit.NewInvalidFieldError("status",
			fmt.Sprintf("unknown status %q", q.Status))
	}

	return nil
}

// ApplyDefaults applies default values to a query.
func ApplyDefaults(q *exhibit.Query) {
	if q.Limit == 0 {
		q.Limit = DefaultLimit
	}
	if q.SortBy == "" {
		q.SortBy = "created_at"
	}
	if q.SortOrder == "" {
		q.SortOrder = "desc"
	}
}
