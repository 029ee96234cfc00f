package model

import "time"

// GroupTotal is a summed cost bucket keyed by category or region.
type GroupTotal struct {
	Key   string  `json:"key"`
	Total float64 `json:"total"`
}

// CostSummary is the per-upload aggregation of normalized line items.
// Monetary values are rounded to cents, half-up, as the final step.
type CostSummary struct {
	ByCategory  []GroupTotal `json:"by_category"`
	ByRegion    []GroupTotal `json:"by_region"`
	Subtotal    float64      `json:"subtotal"`
	Tax         *float64     `json:"tax,omitempty"`
	GrandTotal  float64      `json:"grand_total"`
	PeriodStart *time.Time   `json:"period_start,omitempty"`
	PeriodEnd   *time.Time   `json:"period_end,omitempty"`
	Currency    string       `json:"currency"`
}
