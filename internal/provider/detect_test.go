package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/satoshitrading/oci-calculator-backend/internal/model"
)

func TestFromFileName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		file string
		want model.Provider
	}{
		{"aws cur export", "cur-2025-12.csv", model.ProviderAWS},
		{"azure detail export", "AzureUsageDetails.csv", model.ProviderAzure},
		{"gcp billing export", "gcp_billing_export.csv", model.ProviderGCP},
		{"oci usage report", "oci_usage_2025.csv", model.ProviderOCI},
		{"no signal", "fatura_dezembro.pdf", model.ProviderUnknown},
		{"empty", "", model.ProviderUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, FromFileName(tt.file))
		})
	}
}

func TestFromColumns(t *testing.T) {
	t.Parallel()

	assert.Equal(t, model.ProviderAWS,
		FromColumns([]string{"lineItem/UsageAmount", "lineItem/UnblendedCost"}))
	assert.Equal(t, model.ProviderAzure,
		FromColumns([]string{"MeterCategory", "MeterName", "Quantity"}))
	assert.Equal(t, model.ProviderGCP,
		FromColumns([]string{"billing_account_id", "cost"}))
	assert.Equal(t, model.ProviderUnknown,
		FromColumns([]string{"Descrição", "Valor"}))
}

func TestFromText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, model.ProviderAWS, FromText("Amazon Web Services fatura"))
	assert.Equal(t, model.ProviderAzure, FromText("Microsoft Azure invoice"))
	assert.Equal(t, model.ProviderUnknown, FromText(""))
}
