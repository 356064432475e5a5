package sheets

import (
	"context"

	"golang.org/x/sync/singleflight"

	"remape/internal/core"
)

type deduped struct {
	next  RowFetcher
	group singleflight.Group
}

// WithDedupe collapses concurrent fetches of the same worksheet into one
// upstream call. Nothing is retained after the call returns, so every
// request still sees a fresh fetch.
func WithDedupe(next RowFetcher) RowFetcher {
	return &deduped{next: next}
}

func (d *deduped) FetchRows(ctx context.Context, spreadsheetID, worksheet string) (core.Table, error) {
	key := spreadsheetID + "!" + worksheet
	// The first caller's context drives the shared flight.
	v, err, _ := d.group.Do(key, func() (interface{}, error) {
		return d.next.FetchRows(ctx, spreadsheetID, worksheet)
	})
	if err != nil {
		return core.Table{}, err
	}
	return v.(core.Table), nil
}
