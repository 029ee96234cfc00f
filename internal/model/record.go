// Package model holds the canonical billing data shapes shared across the
// ingestion and cost-modeling pipeline.
package model

import (
	"strings"
	"time"
)

// Provider identifies a source cloud provider.
type Provider string

// Known providers.
const (
	ProviderAWS     Provider = "aws"
	ProviderAzure   Provider = "azure"
	ProviderGCP     Provider = "gcp"
	ProviderOCI     Provider = "oci"
	ProviderUnknown Provider = "unknown"
)

// ServiceCategory is the canonical OCI-style service category.
type ServiceCategory string

// Closed set of service categories.
const (
	CategoryCompute  ServiceCategory = "Compute"
	CategoryStorage  ServiceCategory = "Storage"
	CategoryNetwork  ServiceCategory = "Network"
	CategoryDatabase ServiceCategory = "Database"
	CategoryGenAI    ServiceCategory = "GenAI"
	CategoryOther    ServiceCategory = "Other"
)

// RawRow is an unordered mapping from verbatim column name to string value,
// as produced by a format extractor. Column order is preserved for audit.
type RawRow struct {
	Columns []string          `json:"columns"`
	Values  map[string]string `json:"values"`
}

// NewRawRow builds a RawRow from parallel header and value slices. Extra
// values beyond the headers are dropped; missing values are empty strings.
func NewRawRow(headers, values []string) RawRow {
	row := RawRow{
		Columns: make([]string, len(headers)),
		Values:  make(map[string]string, len(headers)),
	}
	copy(row.Columns, headers)
	for i, h := range headers {
		if i < len(values) {
			row.Values[h] = values[i]
		} else {
			row.Values[h] = ""
		}
	}
	return row
}

// Get returns the value for a column name, or "" if absent.
func (r RawRow) Get(column string) string {
	return r.Values[column]
}

// Empty reports whether every cell in the row is blank.
func (r RawRow) Empty() bool {
	for _, v := range r.Values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// LineItem is the canonical line-item shape produced by the format
// extractors, prior to normalization. Numeric fields are nil when the
// source did not carry them.
type LineItem struct {
	InvoiceID    string     `json:"invoice_id,omitempty"`
	AccountID    string     `json:"account_id,omitempty"`
	ResourceID   string     `json:"resource_id,omitempty"`
	ProductCode  string     `json:"product_code,omitempty"`
	ProductName  string     `json:"product_name,omitempty"`
	CategoryHint string     `json:"category_hint,omitempty"`
	UsageStart   *time.Time `json:"usage_start,omitempty"`
	UsageEnd     *time.Time `json:"usage_end,omitempty"`
	Quantity     *float64   `json:"quantity,omitempty"`
	Unit         string     `json:"unit,omitempty"`
	UnitPrice    *float64   `json:"unit_price,omitempty"`
	Cost         *float64   `json:"cost,omitempty"`
	Tax          *float64   `json:"tax,omitempty"`
	Currency     string     `json:"currency"`
	Region       string     `json:"region,omitempty"`
	Spot         bool       `json:"spot,omitempty"`
	Raw          RawRow     `json:"raw,omitempty"`
}

// BillingRecord is a LineItem enriched by the normalization engine. It is
// derived once per line item and never mutated afterward.
type BillingRecord struct {
	LineItem

	Provider       Provider        `json:"provider"`
	Category       ServiceCategory `json:"category"`
	OCIQuantity    *float64        `json:"oci_quantity,omitempty"`
	IsGenAI        bool            `json:"is_gen_ai,omitempty"`
	WindowsLicense bool            `json:"windows_license,omitempty"`
	LicensePart    string          `json:"license_part,omitempty"`
	IsPaidSku      bool            `json:"is_paid_sku"`
	BRLTax         *float64        `json:"brl_tax,omitempty"`
	CostAfterTax   *float64        `json:"cost_after_tax,omitempty"`
}
