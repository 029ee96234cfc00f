package parser

import (
	"strings"

	"github.com/satoshitrading/oci-calculator-backend/internal/docai"
	"github.com/satoshitrading/oci-calculator-backend/internal/fields"
	"github.com/satoshitrading/oci-calculator-backend/internal/model"
)

// ItemFromRow resolves a raw tabular row into a canonical line item. Every
// field is best-effort; an unresolvable field stays at its zero value.
func ItemFromRow(raw model.RawRow) model.LineItem {
	cols, vals := raw.Columns, raw.Values

	item := model.LineItem{
		Currency: "USD",
		Raw:      raw,
	}

	item.InvoiceID, _ = fields.Resolve(cols, vals, fields.InvoiceID)
	item.AccountID, _ = fields.Resolve(cols, vals, fields.AccountID)
	item.ResourceID, _ = fields.Resolve(cols, vals, fields.ResourceID)
	item.ProductCode, _ = fields.Resolve(cols, vals, fields.ProductCode)
	item.ProductName, _ = fields.Resolve(cols, vals, fields.Description)
	item.CategoryHint, _ = fields.Resolve(cols, vals, fields.CategoryHint)
	item.Unit, _ = fields.Resolve(cols, vals, fields.Unit)
	item.Region, _ = fields.Resolve(cols, vals, fields.Region)

	if v, ok := fields.Resolve(cols, vals, fields.Quantity); ok {
		item.Quantity = parseNumber(v)
	}
	if v, ok := fields.ResolveMonetary(cols, vals, fields.UnitPrice); ok {
		item.UnitPrice = parseNumber(v)
	}
	if v, ok := fields.ResolveMonetary(cols, vals, fields.Cost); ok {
		item.Cost = parseNumber(v)
	}
	if v, ok := fields.ResolveMonetary(cols, vals, fields.Tax); ok {
		item.Tax = parseNumber(v)
	}
	if v, ok := fields.Resolve(cols, vals, fields.Currency); ok {
		if c := strings.ToUpper(strings.TrimSpace(v)); len(c) == 3 {
			item.Currency = c
		}
	}
	if v, ok := fields.Resolve(cols, vals, fields.UsageStart); ok {
		item.UsageStart = docai.ParseDate(v)
	}
	if v, ok := fields.Resolve(cols, vals, fields.UsageEnd); ok {
		item.UsageEnd = docai.ParseDate(v)
	}

	usageType, _ := fields.Resolve(cols, vals, fields.UsageType)
	if usageType != "" && item.ProductCode == "" {
		item.ProductCode = usageType
	}
	item.Spot = isSpot(usageType, item.ProductName)

	return item
}

// isSpot detects spot/preemptible usage markers in the usage type or
// product description.
func isSpot(usageType, productName string) bool {
	joined := strings.ToLower(usageType + " " + productName)
	return strings.Contains(joined, "spotusage") ||
		strings.Contains(joined, "spot instance") ||
		strings.Contains(joined, "preemptible") ||
		strings.Contains(joined, "spot")
}
