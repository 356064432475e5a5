// Package services orchestrates the reporting flow: resolve the sheet
// source, fetch, filter, aggregate.
package services

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"context"

	"remape/internal/auth"
	"remape/internal/core"
	"remape/internal/sheets"
)

// SheetSource locates one kind's data: which spreadsheet and which
// worksheet inside it. An empty worksheet means the first sheet.
type SheetSource struct {
	SpreadsheetID string
	Worksheet     string
}

// Report is the full result for one sheet request.
type Report struct {
	Kind    core.Kind
	Table   core.Table
	Summary core.Summary
	// VendorFiltered tells the presentation layer whether the rows were
	// restricted to the requester's own records.
	VendorFiltered bool
}

// ReportService builds per-request reports. Read-only after construction.
type ReportService struct {
	fetcher   sheets.RowFetcher
	sources   map[core.Kind]SheetSource
	superUser string

	// filterFn is core.Filter; swappable in tests to exercise the
	// degrade-on-error boundary.
	filterFn func(core.Table, core.Kind, core.Criteria) (core.Table, error)
}

func NewReportService(fetcher sheets.RowFetcher, sources map[core.Kind]SheetSource, superUser string) *ReportService {
	return &ReportService{
		fetcher:   fetcher,
		sources:   sources,
		superUser: superUser,
		filterFn:  core.Filter,
	}
}

// BuildReport fetches the sheet for the kind, narrows it for the
// requesting identity and date bounds, and aggregates the result.
//
// Filtering failures degrade rather than fail: the raw fetched table is
// served unfiltered and unprojected, and the incident is logged. This is
// the documented policy of the system, not an accident; fetch failures by
// contrast are real errors and surface to the caller.
func (s *ReportService) BuildReport(ctx context.Context, kind core.Kind, requester auth.Identity, start, end time.Time) (Report, error) {
	src, ok := s.sources[kind]
	if !ok {
		return Report{}, fmt.Errorf("no source configured for sheet %s", kind)
	}

	raw, err := s.fetcher.FetchRows(ctx, src.SpreadsheetID, src.Worksheet)
	if err != nil {
		return Report{}, fmt.Errorf("build report for %s: %w", kind, err)
	}

	criteria := core.Criteria{
		Start:       start,
		End:         end,
		Login:       requester.Login,
		DisplayName: requester.DisplayName,
		SuperUser:   strings.EqualFold(requester.Login, s.superUser),
	}

	filtered, err := s.filterFn(raw, kind, criteria)
	if err != nil {
		slog.WarnContext(ctx, "Filter pipeline failed, serving unfiltered rows",
			"sheet", kind.Name(), "login", requester.Login, "error", err)
		filtered = raw
	}

	return Report{
		Kind:           kind,
		Table:          filtered,
		Summary:        core.Aggregate(filtered, kind),
		VendorFiltered: !criteria.SuperUser,
	}, nil
}

// SuperUser returns the login exempt from vendor restriction.
func (s *ReportService) SuperUser() string { return s.superUser }
