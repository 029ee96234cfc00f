// Package docai turns PDF invoices into structured invoice documents via
// interchangeable extraction backends, then maps them onto canonical line
// items.
package docai

import (
	"context"
	"time"
)

// minKeyValueConfidence gates whether a key-value pair reported by a
// document service is trusted.
const minKeyValueConfidence = 0.4

// KeyValue is a label/value pair detected in a document, with the
// backend's confidence on a 0-1 scale.
type KeyValue struct {
	Key        string  `json:"key"`
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
}

// Table is a detected tabular region.
type Table struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// Document is the backend-independent extraction result: a document-level
// summary plus zero or more tables.
type Document struct {
	InvoiceID   string     `json:"invoice_id,omitempty"`
	AccountID   string     `json:"account_id,omitempty"`
	Vendor      string     `json:"vendor,omitempty"`
	Currency    string     `json:"currency,omitempty"`
	TaxTotal    *float64   `json:"tax_total,omitempty"`
	Total       *float64   `json:"total,omitempty"`
	PeriodStart *time.Time `json:"period_start,omitempty"`
	PeriodEnd   *time.Time `json:"period_end,omitempty"`
	KeyValues   []KeyValue `json:"key_values,omitempty"`
	Tables      []Table    `json:"tables,omitempty"`
	Text        string     `json:"text,omitempty"`
}

// Extractor is a structured-document extraction backend. Both the document
// service and the generative-AI extractor deliver the same logical output.
type Extractor interface {
	Extract(ctx context.Context, pdf []byte) (*Document, error)
}
