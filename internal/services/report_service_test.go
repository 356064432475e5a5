package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remape/internal/auth"
	"remape/internal/core"
	"remape/internal/sheets"
	"remape/internal/sheets/memory"
)

const (
	mainID  = "main-spreadsheet"
	salesID = "sales-spreadsheet"
)

func testSources() map[core.Kind]SheetSource {
	sources := make(map[core.Kind]SheetSource)
	for _, k := range core.Kinds() {
		if k == core.KindSales {
			sources[k] = SheetSource{SpreadsheetID: salesID, Worksheet: ""}
			continue
		}
		sources[k] = SheetSource{SpreadsheetID: mainID, Worksheet: k.Name()}
	}
	return sources
}

func testService() *ReportService {
	store := memory.NewWithSamples(mainID, salesID)
	return NewReportService(store, testSources(), "rafael@remape.com")
}

func TestBuildReportSalesForVendor(t *testing.T) {
	svc := testService()
	ana := auth.Identity{Login: "ana@remape.com", DisplayName: "Ana", Active: true}

	rep, err := svc.BuildReport(context.Background(), core.KindSales, ana, time.Time{}, time.Time{})
	require.NoError(t, err)

	assert.True(t, rep.VendorFiltered)
	assert.Equal(t, 2, rep.Summary.Count)
	require.NotNil(t, rep.Summary.Sales)
	assert.Equal(t, int64(40000), rep.Summary.Sales.TotalCents)
	for _, r := range rep.Table.Rows {
		assert.Equal(t, "Ana", r.Get("VENDEDOR"))
	}
}

func TestBuildReportSuperUserUnrestricted(t *testing.T) {
	svc := testService()
	boss := auth.Identity{Login: "Rafael@REMAPE.com", DisplayName: "Rafael", Active: true}

	rep, err := svc.BuildReport(context.Background(), core.KindSales, boss, time.Time{}, time.Time{})
	require.NoError(t, err)

	assert.False(t, rep.VendorFiltered, "super-user match is case-insensitive on login")
	assert.Equal(t, 3, rep.Summary.Count)
}

func TestBuildReportExpensesDateRange(t *testing.T) {
	svc := testService()
	boss := auth.Identity{Login: "rafael@remape.com", DisplayName: "Rafael", Active: true}

	start := time.Date(2023, 12, 2, 0, 0, 0, 0, time.UTC)
	rep, err := svc.BuildReport(context.Background(), core.KindExpenses, boss, start, time.Time{})
	require.NoError(t, err)

	assert.Equal(t, 1, rep.Summary.Count)
	require.NotNil(t, rep.Summary.Expenses)
	assert.Equal(t, float64(80), rep.Summary.Expenses.DistanceKM)
}

func TestBuildReportFetchErrorSurfaces(t *testing.T) {
	store := memory.New() // nothing seeded
	svc := NewReportService(store, testSources(), "rafael@remape.com")

	_, err := svc.BuildReport(context.Background(), core.KindVisits,
		auth.Identity{Login: "ana@remape.com"}, time.Time{}, time.Time{})
	require.Error(t, err)
	var fe *sheets.FetchError
	assert.ErrorAs(t, err, &fe)
}

func TestBuildReportUnconfiguredKind(t *testing.T) {
	svc := NewReportService(memory.New(), map[core.Kind]SheetSource{}, "rafael@remape.com")
	_, err := svc.BuildReport(context.Background(), core.KindVisits,
		auth.Identity{Login: "ana@remape.com"}, time.Time{}, time.Time{})
	assert.Error(t, err)
}

func TestBuildReportDegradesOnFilterError(t *testing.T) {
	svc := testService()
	svc.filterFn = func(core.Table, core.Kind, core.Criteria) (core.Table, error) {
		return core.Table{}, errors.New("boom")
	}
	ana := auth.Identity{Login: "ana@remape.com", DisplayName: "Ana", Active: true}

	rep, err := svc.BuildReport(context.Background(), core.KindSales, ana, time.Time{}, time.Time{})
	require.NoError(t, err, "filter failure must not fail the request")
	// Degraded output is the raw table: all three sample rows, no vendor cut.
	assert.Equal(t, 3, rep.Summary.Count)
}
