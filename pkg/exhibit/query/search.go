package query

import (
	"context"

	"evidex-hq/custodia/pkg/exhibit"
)

// Search lists records matching q, composing the free-text search with
// pagination. The storage backends apply exact filters, sorting, and
// LIMIT/OFFSET only; the substring match runs in Filter. Paginating in
// storage before filtering would drop matches outside the first page, so
// when a term is present the full sorted set is fetched and the requested
// page is cut from the matches.
func Search(ctx context.Context, store exhibit.Storage, q *exhibit.Query) ([]*exhibit.Record, error) {
	if q.SearchTerm == "" {
		return store.ListEvidence(ctx, q)
	}

	full := *q
	full.Limit = MaxLimit
	full.Offset = 0

	records, err := store.ListEvidence(ctx, &full)
	if err != nil {
		return nil, err
	}
	records = Filter(records, q.SearchTerm)

	if q.Offset >= len(records) {
		return []*exhibit.Record{}, nil
	}
	records = records[q.Offset:]
	if q.Limit > 0 && q.Limit < len(records) {
		records = records[:q.Limit]
	}
	return records, nil
}
