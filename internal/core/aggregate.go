package core

import (
	"math"
	"sort"
)

// Column names the aggregation engine reads.
const (
	colDistance = "KM TOTAL"
	colParking  = "ESTACIONAMENTO"
	colToll     = "PEDÁGIO"
	colOther    = "OUTRAS DESPESAS"
	colValue    = "VALOR"
	colIndustry = "INDÚSTRIA"
	colGroup    = "GRUPO"
)

// ExpenseTotals carries the four column sums of the expenses sheet.
// Distance is a plain number; the rest are monetary cents.
type ExpenseTotals struct {
	DistanceKM   float64
	ParkingCents int64
	TollCents    int64
	OtherCents   int64
}

// Slice is one entry of a percentage breakdown: summed value, its share of
// the total, and the color assigned for charting.
type Slice struct {
	Label   string
	Cents   int64
	Percent float64
	Color   string
}

// SalesTotals carries the sales sheet aggregates: grand total plus the two
// breakdown tables.
type SalesTotals struct {
	TotalCents int64
	ByIndustry []Slice
	ByGroup    []Slice
}

// Summary is the per-kind aggregate result. Count is always set; Expenses
// and Sales are populated only for their kinds.
type Summary struct {
	Count    int
	Label    string
	Expenses *ExpenseTotals
	Sales    *SalesTotals
}

// Aggregate computes the summary for an already filtered table.
func Aggregate(t Table, kind Kind) Summary {
	d := kind.Descriptor()
	s := Summary{Count: len(t.Rows), Label: d.Label}
	switch d.Aggregate {
	case AggregateExpenses:
		s.Expenses = aggregateExpenses(t)
	case AggregateSales:
		s.Sales = aggregateSales(t)
	}
	return s
}

// aggregateExpenses sums each relevant column independently; an absent
// column simply leaves its sum at zero.
func aggregateExpenses(t Table) *ExpenseTotals {
	out := &ExpenseTotals{}
	for _, r := range t.Rows {
		if t.HasColumn(colDistance) {
			out.DistanceKM += ParseNumber(r.Get(colDistance))
		}
		if t.HasColumn(colParking) {
			out.ParkingCents += ParseBRL(r.Get(colParking))
		}
		if t.HasColumn(colToll) {
			out.TollCents += ParseBRL(r.Get(colToll))
		}
		if t.HasColumn(colOther) {
			out.OtherCents += ParseBRL(r.Get(colOther))
		}
	}
	return out
}

func aggregateSales(t Table) *SalesTotals {
	out := &SalesTotals{}
	if !t.HasColumn(colValue) {
		return out
	}
	for _, r := range t.Rows {
		out.TotalCents += ParseBRL(r.Get(colValue))
	}
	if t.HasColumn(colIndustry) {
		out.ByIndustry = breakdown(t, colIndustry, out.TotalCents, industryColor)
	}
	if t.HasColumn(colGroup) {
		out.ByGroup = breakdown(t, colGroup, out.TotalCents, groupColor)
	}
	return out
}

// breakdown groups rows by a label column, sums the value column per
// label, computes each label's share of the total and sorts descending by
// summed value. Colors are assigned in sorted output order. A zero total
// yields zero percentages rather than a division by zero.
func breakdown(t Table, labelCol string, totalCents int64, colorFor func(label string, pos int) string) []Slice {
	sums := map[string]int64{}
	order := make([]string, 0)
	for _, r := range t.Rows {
		label := r.Get(labelCol)
		if _, seen := sums[label]; !seen {
			order = append(order, label)
		}
		sums[label] += ParseBRL(r.Get(colValue))
	}

	out := make([]Slice, 0, len(order))
	for _, label := range order {
		out = append(out, Slice{Label: label, Cents: sums[label]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Cents > out[j].Cents })

	for i := range out {
		if totalCents > 0 {
			out[i].Percent = round2(float64(out[i].Cents) / float64(totalCents) * 100)
		}
		out[i].Color = colorFor(out[i].Label, i)
	}
	return out
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
