package core

import (
	"errors"
	"strings"
	"time"
)

// ErrUnknownKind is returned when the filter pipeline is asked about a kind
// outside the closed set.
var ErrUnknownKind = errors.New("unknown sheet kind")

// Criteria narrows a sheet for one request. Zero times mean "no bound".
type Criteria struct {
	Start time.Time
	End   time.Time

	// Requesting identity. The super-user is exempt from vendor restriction.
	Login       string
	DisplayName string
	SuperUser   bool
}

// Filter runs the row filter pipeline for one sheet kind: date range
// filtering, per-vendor restriction and column projection, driven entirely
// by the kind descriptor.
//
// Fail-open rules, kept from the system this replaces and documented as
// policy: a missing date column skips range filtering, a missing vendor
// column skips the vendor restriction, and a missing projection column is
// silently omitted. Callers that want to degrade further (serve the input
// unchanged) do so on the returned error.
func Filter(t Table, kind Kind, c Criteria) (Table, error) {
	if !kind.Valid() {
		return Table{}, ErrUnknownKind
	}
	d := kind.Descriptor()

	out := filterByDate(t, d, c.Start, c.End)
	out = restrictToVendor(out, d, c)
	return out.Project(d.Columns), nil
}

// filterByDate keeps rows whose normalized date falls inside [start, end].
// Rows with an unparseable date carry the sentinel zero date and always
// pass. Absence of the date column short-circuits the whole stage.
func filterByDate(t Table, d Descriptor, start, end time.Time) Table {
	if start.IsZero() && end.IsZero() {
		return t
	}
	if !t.HasColumn(d.DateColumn) {
		return t
	}
	if !start.IsZero() {
		start = dateOnly(start)
	}
	if !end.IsZero() {
		end = dateOnly(end)
	}
	out := Table{Columns: t.Columns, Rows: make([]Row, 0, len(t.Rows))}
	for _, r := range t.Rows {
		when := ParseCellDate(d.DateLayouts, r.Get(d.DateColumn))
		if !when.IsZero() {
			day := dateOnly(when)
			if !start.IsZero() && day.Before(start) {
				continue
			}
			if !end.IsZero() && day.After(end) {
				continue
			}
		}
		out.Rows = append(out.Rows, r)
	}
	return out
}

// restrictToVendor keeps only the rows belonging to the requesting
// identity. The super-user sees everything. A sheet without the vendor
// column passes through unchanged (fail open).
func restrictToVendor(t Table, d Descriptor, c Criteria) Table {
	if c.SuperUser {
		return t
	}
	if !t.HasColumn(d.VendorColumn) {
		return t
	}
	out := Table{Columns: t.Columns, Rows: make([]Row, 0, len(t.Rows))}
	for _, r := range t.Rows {
		cell := r.Get(d.VendorColumn)
		var keep bool
		switch d.VendorMatch {
		case MatchDisplayName:
			keep = strings.EqualFold(strings.TrimSpace(cell), strings.TrimSpace(c.DisplayName))
		default:
			keep = cell == c.Login
		}
		if keep {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}
