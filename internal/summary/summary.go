// Package summary aggregates normalized billing records into per-upload
// cost summaries.
package summary

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/satoshitrading/oci-calculator-backend/internal/model"
)

// Build aggregates a batch of normalized records. invoiceTax is the
// invoice-level tax figure reconciled into the grand total when the
// document carried one; nil means the subtotal stands alone.
//
// All monetary outputs are rounded to cents, half-up, as the final step.
// Intermediate sums are kept at full precision.
func Build(records []model.BillingRecord, invoiceTax *float64) model.CostSummary {
	byCategory := newGrouper()
	byRegion := newGrouper()
	subtotal := decimal.Zero

	var start, end *time.Time
	currencies := map[string]struct{}{}

	for _, rec := range records {
		if rec.Cost == nil {
			continue
		}
		cost := decimal.NewFromFloat(*rec.Cost)
		subtotal = subtotal.Add(cost)

		byCategory.add(categoryKey(rec), cost)
		byRegion.add(regionKey(rec), cost)

		start = minTime(start, rec.UsageStart, rec.UsageEnd)
		end = maxTime(end, rec.UsageStart, rec.UsageEnd)

		if rec.Currency != "" {
			currencies[rec.Currency] = struct{}{}
		}
	}

	sum := model.CostSummary{
		ByCategory:  byCategory.totals(),
		ByRegion:    byRegion.totals(),
		Subtotal:    cents(subtotal),
		PeriodStart: start,
		PeriodEnd:   end,
		Currency:    consensusCurrency(currencies),
	}

	grand := subtotal
	if invoiceTax != nil {
		tax := cents(decimal.NewFromFloat(*invoiceTax))
		sum.Tax = &tax
		grand = grand.Add(decimal.NewFromFloat(*invoiceTax))
	}
	sum.GrandTotal = cents(grand)

	return sum
}

// categoryKey falls back to the product name when the record carries no
// category, so uncategorizable rows still land in a visible bucket.
func categoryKey(rec model.BillingRecord) string {
	if rec.Category != "" {
		return string(rec.Category)
	}
	if rec.ProductName != "" {
		return rec.ProductName
	}
	return string(model.CategoryOther)
}

func regionKey(rec model.BillingRecord) string {
	if rec.Region != "" {
		return rec.Region
	}
	return "Unknown"
}

// grouper accumulates decimal totals per key, preserving first-seen key
// order so output is deterministic.
type grouper struct {
	order []string
	sums  map[string]decimal.Decimal
}

func newGrouper() *grouper {
	return &grouper{sums: map[string]decimal.Decimal{}}
}

func (g *grouper) add(key string, v decimal.Decimal) {
	if _, ok := g.sums[key]; !ok {
		g.order = append(g.order, key)
	}
	g.sums[key] = g.sums[key].Add(v)
}

func (g *grouper) totals() []model.GroupTotal {
	out := make([]model.GroupTotal, 0, len(g.order))
	for _, key := range g.order {
		out = append(out, model.GroupTotal{Key: key, Total: cents(g.sums[key])})
	}
	return out
}

// cents rounds half-up to 2 decimal places.
func cents(d decimal.Decimal) float64 {
	v, _ := d.Round(2).Float64()
	return v
}

func consensusCurrency(seen map[string]struct{}) string {
	if len(seen) == 1 {
		for c := range seen {
			return c
		}
	}
	return "USD"
}

func minTime(current *time.Time, candidates ...*time.Time) *time.Time {
	for _, c := range candidates {
		if c == nil {
			continue
		}
		if current == nil || c.Before(*current) {
			t := *c
			current = &t
		}
	}
	return current
}

func maxTime(current *time.Time, candidates ...*time.Time) *time.Time {
	for _, c := range candidates {
		if c == nil {
			continue
		}
		if current == nil || c.After(*current) {
			t := *c
			current = &t
		}
	}
	return current
}
