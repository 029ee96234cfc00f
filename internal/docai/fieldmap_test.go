package docai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplySummaryConfidenceGate(t *testing.T) {
	t.Parallel()

	doc := &Document{
		KeyValues: []KeyValue{
			{Key: "Invoice Number", Value: "INV-001", Confidence: 0.95},
			{Key: "Fornecedor", Value: "Amazon Web Services", Confidence: 0.8},
			{Key: "Moeda", Value: "brl", Confidence: 0.7},
			{Key: "Valor do imposto", Value: "13,00", Confidence: 0.39}, // below gate
			{Key: "Total da fatura", Value: "BRL 113,00", Confidence: 0.9},
		},
	}
	ApplySummary(doc)

	assert.Equal(t, "INV-001", doc.InvoiceID)
	assert.Equal(t, "Amazon Web Services", doc.Vendor)
	assert.Equal(t, "BRL", doc.Currency)
	assert.Nil(t, doc.TaxTotal, "low-confidence pair must be ignored")
	require.NotNil(t, doc.Total)
	assert.InDelta(t, 113.00, *doc.Total, 0.001)
}

func TestApplySummaryBillingPeriod(t *testing.T) {
	t.Parallel()

	doc := &Document{
		KeyValues: []KeyValue{
			{Key: "Período de faturamento", Value: "1 de dez. de 2025 – 31 de dez. de 2025", Confidence: 0.9},
		},
	}
	ApplySummary(doc)

	require.NotNil(t, doc.PeriodStart)
	require.NotNil(t, doc.PeriodEnd)
	assert.Equal(t, 1, doc.PeriodStart.Day())
	assert.Equal(t, 31, doc.PeriodEnd.Day())
}

func TestMapLineItemsPortugueseTable(t *testing.T) {
	t.Parallel()

	doc := &Document{
		InvoiceID: "INV-7",
		Currency:  "BRL",
		Tables: []Table{{
			Headers: []string{"Descrição", "Quantidade de uso", "Valor em USD"},
			Rows: [][]string{
				{"Amazon EC2 m5.xlarge", "100", "50,00"},
				{"", "", ""}, // blank row skipped
			},
		}},
	}

	items := MapLineItems(doc)
	require.Len(t, items, 1)

	item := items[0]
	assert.Equal(t, "Amazon EC2 m5.xlarge", item.ProductName)
	assert.Equal(t, "INV-7", item.InvoiceID)
	assert.Equal(t, "BRL", item.Currency)
	require.NotNil(t, item.Quantity)
	assert.InDelta(t, 100, *item.Quantity, 0.001)
	require.NotNil(t, item.Cost)
	assert.InDelta(t, 50.0, *item.Cost, 0.001)
}

func TestMapLineItemsReceiptFallback(t *testing.T) {
	t.Parallel()

	doc := &Document{
		Vendor:   "Microsoft Azure",
		Currency: "USD",
		Total:    f(199.90),
		TaxTotal: f(9.90),
	}

	items := MapLineItems(doc)
	require.Len(t, items, 1, "extraction must never return empty")

	item := items[0]
	assert.Equal(t, "Microsoft Azure", item.ProductName)
	require.NotNil(t, item.Cost)
	assert.InDelta(t, 199.90, *item.Cost, 0.001)
	assert.Equal(t, "USD", item.Currency)
}
