// Package sheets defines the outbound port for spreadsheet data sources
// and the decorators (retry, in-flight dedupe) wrapped around them.
package sheets

import (
	"context"
	"errors"
	"fmt"

	"remape/internal/core"
)

// RowFetcher retrieves the full raw table of one worksheet. Every request
// re-fetches; nothing is cached between calls. An empty worksheet name
// addresses the first sheet of the spreadsheet.
type RowFetcher interface {
	FetchRows(ctx context.Context, spreadsheetID, worksheet string) (core.Table, error)
}

// FetchError wraps any failure to reach or read a source. Handlers surface
// only the sheet name; the cause stays in server logs.
type FetchError struct {
	SpreadsheetID string
	Worksheet     string
	Err           error
}

func (e *FetchError) Error() string {
	ws := e.Worksheet
	if ws == "" {
		ws = "(first sheet)"
	}
	return fmt.Sprintf("fetch %s of spreadsheet %s: %v", ws, e.SpreadsheetID, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ErrWorksheetNotFound marks a fetch against a sheet the source does not have.
var ErrWorksheetNotFound = errors.New("worksheet not found")
