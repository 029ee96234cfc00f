package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satoshitrading/oci-calculator-backend/internal/model"
)

func f(v float64) *float64 { return &v }

func TestNormalizeBRLTax(t *testing.T) {
	t.Parallel()

	rec := Normalize(model.LineItem{
		ProductName: "Amazon EC2",
		Cost:        f(100),
		Currency:    "BRL",
	}, model.ProviderAWS)

	require.NotNil(t, rec.BRLTax)
	assert.InDelta(t, 13.00, *rec.BRLTax, 0.0001)
	require.NotNil(t, rec.CostAfterTax)
	assert.InDelta(t, 113.00, *rec.CostAfterTax, 0.0001)
}

func TestNormalizeNonBRLCurrencyPassesThrough(t *testing.T) {
	t.Parallel()

	for _, currency := range []string{"USD", "EUR", "GBP", ""} {
		rec := Normalize(model.LineItem{Cost: f(100), Currency: currency}, model.ProviderAWS)
		assert.Nil(t, rec.BRLTax, currency)
		require.NotNil(t, rec.CostAfterTax, currency)
		assert.InDelta(t, 100, *rec.CostAfterTax, 0.0001, currency)
	}
}

func TestNormalizeBRLCaseInsensitive(t *testing.T) {
	t.Parallel()

	rec := Normalize(model.LineItem{Cost: f(50), Currency: "brl"}, model.ProviderAWS)
	require.NotNil(t, rec.BRLTax)
	assert.InDelta(t, 6.5, *rec.BRLTax, 0.0001)
}

func TestEquivalentQuantityCompute(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		item    model.LineItem
		prov    model.Provider
		wantQty float64
	}{
		{
			name:    "vcpu keyword halves",
			item:    model.LineItem{ProductName: "Compute vCPU hours", Quantity: f(8)},
			prov:    model.ProviderGCP,
			wantQty: 4,
		},
		{
			name:    "boxusage halves",
			item:    model.LineItem{ProductCode: "BoxUsage:m5.xlarge", Quantity: f(100)},
			prov:    model.ProviderAWS,
			wantQty: 50,
		},
		{
			name:    "graviton arm bypasses",
			item:    model.LineItem{ProductName: "EC2 Graviton instance", Quantity: f(8)},
			prov:    model.ProviderAWS,
			wantQty: 8,
		},
		{
			name:    "a1 arm shape bypasses",
			item:    model.LineItem{ProductCode: "BoxUsage:a1.large", ProductName: "EC2 compute", Quantity: f(6)},
			prov:    model.ProviderAWS,
			wantQty: 6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := Normalize(tt.item, tt.prov)
			require.Equal(t, model.CategoryCompute, rec.Category)
			require.NotNil(t, rec.OCIQuantity)
			assert.InDelta(t, tt.wantQty, *rec.OCIQuantity, 0.0001)
		})
	}
}

func TestNonComputeQuantityUnchanged(t *testing.T) {
	t.Parallel()

	rec := Normalize(model.LineItem{
		ProductName: "Amazon S3 storage",
		Quantity:    f(500),
	}, model.ProviderAWS)

	assert.Equal(t, model.CategoryStorage, rec.Category)
	require.NotNil(t, rec.OCIQuantity)
	assert.InDelta(t, 500, *rec.OCIQuantity, 0.0001)
}

func TestCategoryResolution(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		item model.LineItem
		prov model.Provider
		want model.ServiceCategory
	}{
		{"aws compute", model.LineItem{ProductName: "Amazon Elastic Compute Cloud"}, model.ProviderAWS, model.CategoryCompute},
		{"aws database", model.LineItem{ProductName: "Amazon RDS for MySQL"}, model.ProviderAWS, model.CategoryDatabase},
		{"aws genai", model.LineItem{ProductName: "Amazon Bedrock Claude"}, model.ProviderAWS, model.CategoryGenAI},
		{"azure compute", model.LineItem{CategoryHint: "Virtual Machines", ProductName: "D4s v3"}, model.ProviderAzure, model.CategoryCompute},
		{"azure network", model.LineItem{CategoryHint: "Bandwidth", ProductName: "Data Transfer Out"}, model.ProviderAzure, model.CategoryNetwork},
		{"gcp database", model.LineItem{ProductName: "Cloud SQL for PostgreSQL"}, model.ProviderGCP, model.CategoryDatabase},
		{"unknown provider generic fallback", model.LineItem{ProductName: "virtual machine usage"}, model.ProviderUnknown, model.CategoryCompute},
		{"provider table miss falls back to generic", model.LineItem{ProductName: "object bucket archive"}, model.ProviderAWS, model.CategoryStorage},
		{"nothing matches", model.LineItem{ProductName: "Support plan"}, model.ProviderAWS, model.CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := Normalize(tt.item, tt.prov)
			assert.Equal(t, tt.want, rec.Category)
		})
	}
}

func TestWindowsLicenseDetection(t *testing.T) {
	t.Parallel()

	rec := Normalize(model.LineItem{
		ProductName: "EC2 running Windows Server",
	}, model.ProviderAWS)

	assert.True(t, rec.WindowsLicense)
	assert.Equal(t, WindowsLicensePart, rec.LicensePart)

	rec = Normalize(model.LineItem{ProductName: "EC2 running Linux"}, model.ProviderAWS)
	assert.False(t, rec.WindowsLicense)
	assert.Empty(t, rec.LicensePart)
}

func TestDeriveUnitPrice(t *testing.T) {
	t.Parallel()

	rec := Normalize(model.LineItem{Cost: f(50), Quantity: f(100), ProductName: "storage"}, model.ProviderAWS)
	require.NotNil(t, rec.UnitPrice)
	assert.InDelta(t, 0.5, *rec.UnitPrice, 1e-10)

	// Quantity zero or missing: never divide.
	rec = Normalize(model.LineItem{Cost: f(50), Quantity: f(0)}, model.ProviderAWS)
	assert.Nil(t, rec.UnitPrice)
	rec = Normalize(model.LineItem{Cost: f(50)}, model.ProviderAWS)
	assert.Nil(t, rec.UnitPrice)
}

func TestIsPaidSkuAlwaysTrue(t *testing.T) {
	t.Parallel()

	rec := Normalize(model.LineItem{}, model.ProviderUnknown)
	assert.True(t, rec.IsPaidSku)
}

func TestGenAIFlag(t *testing.T) {
	t.Parallel()

	rec := Normalize(model.LineItem{ProductName: "Amazon Bedrock"}, model.ProviderAWS)
	assert.True(t, rec.IsGenAI)

	rec = Normalize(model.LineItem{ProductName: "Amazon S3"}, model.ProviderAWS)
	assert.False(t, rec.IsGenAI)
}
