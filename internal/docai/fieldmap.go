package docai

import (
	"strings"

	"github.com/satoshitrading/oci-calculator-backend/internal/fields"
	"github.com/satoshitrading/oci-calculator-backend/internal/model"
)

// Label candidates for document-level key-value pairs, English plus
// Brazilian-Portuguese, most-specific first.
var (
	invoiceLabels = []string{"invoice number", "invoice id", "número da fatura", "numero da fatura", "invoice", "fatura"}
	accountLabels = []string{"account id", "account number", "id da conta", "número da conta", "conta", "account"}
	vendorLabels  = []string{"vendor", "fornecedor", "emitente", "billed by", "seller", "vendedor"}
	taxLabels     = []string{"tax amount", "total tax", "valor do imposto", "imposto", "tax", "tributos"}
	totalLabels   = []string{"total amount", "amount due", "valor total", "total da fatura", "grand total", "total"}
	periodLabels  = []string{"billing period", "período de faturamento", "periodo de faturamento", "usage period", "período", "periodo", "period"}
)

// ApplySummary fills the document-level summary fields from detected
// key-value pairs. Pairs below the confidence gate are ignored. Fields
// already populated by the backend are kept.
func ApplySummary(doc *Document) {
	cols, vals := trustedPairs(doc.KeyValues)

	if doc.InvoiceID == "" {
		doc.InvoiceID, _ = fields.Resolve(cols, vals, invoiceLabels)
	}
	if doc.AccountID == "" {
		doc.AccountID, _ = fields.Resolve(cols, vals, accountLabels)
	}
	if doc.Vendor == "" {
		doc.Vendor, _ = fields.Resolve(cols, vals, vendorLabels)
	}
	if doc.Currency == "" {
		if v, ok := fields.Resolve(cols, vals, fields.Currency); ok {
			doc.Currency = strings.ToUpper(strings.TrimSpace(v))
		}
	}
	if doc.TaxTotal == nil {
		if v, ok := fields.ResolveMonetary(cols, vals, taxLabels); ok {
			doc.TaxTotal = ParseNumber(v)
		}
	}
	if doc.Total == nil {
		if v, ok := fields.ResolveMonetary(cols, vals, totalLabels); ok {
			doc.Total = ParseNumber(v)
		}
	}
	if doc.PeriodStart == nil && doc.PeriodEnd == nil {
		if v, ok := fields.Resolve(cols, vals, periodLabels); ok {
			doc.PeriodStart, doc.PeriodEnd = ParsePeriod(v)
		}
	}
}

// MapLineItems converts the document's tables into canonical line items
// using the same candidate-keyword resolution as tabular sources. When no
// table yields items, a single synthetic receipt-style item is built from
// the document summary, because ingestion must never return empty.
func MapLineItems(doc *Document) []model.LineItem {
	var items []model.LineItem

	for _, table := range doc.Tables {
		for _, row := range table.Rows {
			raw := model.NewRawRow(table.Headers, row)
			if raw.Empty() {
				continue
			}
			item := mapTableRow(doc, raw)
			if item.ProductName == "" && item.Cost == nil {
				continue
			}
			items = append(items, item)
		}
	}

	if len(items) == 0 {
		items = append(items, receiptItem(doc))
	}
	return items
}

func mapTableRow(doc *Document, raw model.RawRow) model.LineItem {
	cols, vals := raw.Columns, raw.Values

	item := model.LineItem{
		InvoiceID:  doc.InvoiceID,
		AccountID:  doc.AccountID,
		Currency:   currencyOrUSD(doc.Currency),
		UsageStart: doc.PeriodStart,
		UsageEnd:   doc.PeriodEnd,
		Raw:        raw,
	}

	item.ProductName, _ = fields.Resolve(cols, vals, fields.Description)
	item.ProductCode, _ = fields.Resolve(cols, vals, fields.ProductCode)
	item.CategoryHint, _ = fields.Resolve(cols, vals, fields.CategoryHint)
	item.Unit, _ = fields.Resolve(cols, vals, fields.Unit)
	item.Region, _ = fields.Resolve(cols, vals, fields.Region)

	if v, ok := fields.Resolve(cols, vals, fields.Quantity); ok {
		item.Quantity = ParseNumber(v)
	}
	if v, ok := fields.ResolveMonetary(cols, vals, fields.UnitPrice); ok {
		item.UnitPrice = ParseNumber(v)
	}
	if v, ok := fields.ResolveMonetary(cols, vals, fields.Cost); ok {
		item.Cost = ParseNumber(v)
	}
	if v, ok := fields.ResolveMonetary(cols, vals, fields.Tax); ok {
		item.Tax = ParseNumber(v)
	}
	if v, ok := fields.Resolve(cols, vals, fields.Currency); ok && strings.TrimSpace(v) != "" {
		item.Currency = strings.ToUpper(strings.TrimSpace(v))
	}
	if v, ok := fields.Resolve(cols, vals, fields.UsageStart); ok {
		if t := ParseDate(v); t != nil {
			item.UsageStart = t
		}
	}
	if v, ok := fields.Resolve(cols, vals, fields.UsageEnd); ok {
		if t := ParseDate(v); t != nil {
			item.UsageEnd = t
		}
	}

	return item
}

// receiptItem builds the single catch-all item used when structured
// extraction found no table line items.
func receiptItem(doc *Document) model.LineItem {
	name := doc.Vendor
	if name == "" {
		name = "Invoice total"
	}
	return model.LineItem{
		InvoiceID:   doc.InvoiceID,
		AccountID:   doc.AccountID,
		ProductName: name,
		Cost:        doc.Total,
		Tax:         doc.TaxTotal,
		Currency:    currencyOrUSD(doc.Currency),
		UsageStart:  doc.PeriodStart,
		UsageEnd:    doc.PeriodEnd,
	}
}

func trustedPairs(kvs []KeyValue) ([]string, map[string]string) {
	cols := make([]string, 0, len(kvs))
	vals := make(map[string]string, len(kvs))
	for _, kv := range kvs {
		if kv.Confidence < minKeyValueConfidence {
			continue
		}
		if kv.Key == "" {
			continue
		}
		cols = append(cols, kv.Key)
		if _, seen := vals[kv.Key]; !seen {
			vals[kv.Key] = kv.Value
		}
	}
	return cols, vals
}

func currencyOrUSD(c string) string {
	c = strings.ToUpper(strings.TrimSpace(c))
	if len(c) != 3 {
		return "USD"
	}
	return c
}
