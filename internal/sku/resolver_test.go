package sku

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satoshitrading/oci-calculator-backend/internal/model"
)

func record(prov model.Provider, cat model.ServiceCategory, code, name string) model.BillingRecord {
	return model.BillingRecord{
		LineItem: model.LineItem{ProductCode: code, ProductName: name},
		Provider: prov,
		Category: cat,
	}
}

func TestResolveAWS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		code       string
		wantType   string
		wantVCPU   int
		wantMult   float64
		wantPart   string
		wantLevel  model.ResolutionLevel
	}{
		{"box usage prefix", "BoxUsage:m5.xlarge", "m5.xlarge", 4, 2, ComputeStandardE4.PartNumber, model.ResolutionInstance},
		{"spot usage prefix", "SpotUsage:c5.2xlarge", "c5.2xlarge", 8, 4, ComputeOptimizedX9.PartNumber, model.ResolutionInstance},
		{"graviton per core", "BoxUsage:m6g.large", "m6g.large", 2, 2, ComputeAmpereA1.PartNumber, model.ResolutionInstance},
		{"a1 arm family", "BoxUsage:a1.xlarge", "a1.xlarge", 4, 4, ComputeAmpereA1.PartNumber, model.ResolutionInstance},
		{"gpu family", "BoxUsage:g4dn.xlarge", "g4dn.xlarge", 4, 2, ComputeGPUA10.PartNumber, model.ResolutionInstance},
		{"burstable sub large", "BoxUsage:t3.micro", "t3.micro", 2, 1, ComputeStandardE4.PartNumber, model.ResolutionInstance},
		{"metal", "BoxUsage:m5.metal", "m5.metal", 96, 48, ComputeStandardE4.PartNumber, model.ResolutionInstance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res := ResolveForRecord(record(model.ProviderAWS, model.CategoryCompute, tt.code, ""))
			require.NotNil(t, res)
			assert.Equal(t, tt.wantType, res.InstanceType)
			require.NotNil(t, res.VCPU)
			assert.Equal(t, tt.wantVCPU, *res.VCPU)
			assert.InDelta(t, tt.wantMult, res.Multiplier, 0.0001)
			assert.Equal(t, tt.wantPart, res.Sku.PartNumber)
			assert.Equal(t, tt.wantLevel, res.Level)
		})
	}
}

func TestResolveAzure(t *testing.T) {
	t.Parallel()

	res := ResolveForRecord(record(model.ProviderAzure, model.CategoryCompute, "", "Standard_D4s_v3"))
	require.NotNil(t, res)
	assert.Equal(t, "Standard_D4s_v3", res.InstanceType)
	require.NotNil(t, res.VCPU)
	assert.Equal(t, 4, *res.VCPU)
	assert.InDelta(t, 2, res.Multiplier, 0.0001)
	assert.Equal(t, ComputeStandardE4.PartNumber, res.Sku.PartNumber)

	// Ampere Altra shapes ("p" capability suffix) are billed per core.
	res = ResolveForRecord(record(model.ProviderAzure, model.CategoryCompute, "", "Standard_E8ps_v5"))
	require.NotNil(t, res)
	assert.Equal(t, ComputeAmpereA1.PartNumber, res.Sku.PartNumber)
	assert.InDelta(t, 8, res.Multiplier, 0.0001)

	res = ResolveForRecord(record(model.ProviderAzure, model.CategoryCompute, "", "Standard_F16s_v2"))
	require.NotNil(t, res)
	assert.Equal(t, ComputeOptimizedX9.PartNumber, res.Sku.PartNumber)
	assert.InDelta(t, 8, res.Multiplier, 0.0001)
}

func TestResolveGCP(t *testing.T) {
	t.Parallel()

	res := ResolveForRecord(record(model.ProviderGCP, model.CategoryCompute, "", "e2-standard-4"))
	require.NotNil(t, res)
	assert.Equal(t, "e2-standard-4", res.InstanceType)
	require.NotNil(t, res.VCPU)
	assert.Equal(t, 4, *res.VCPU)
	assert.InDelta(t, 2, res.Multiplier, 0.0001)

	// Named shared-core exceptions.
	res = ResolveForRecord(record(model.ProviderGCP, model.CategoryCompute, "", "f1-micro"))
	require.NotNil(t, res)
	require.NotNil(t, res.VCPU)
	assert.Equal(t, 1, *res.VCPU)

	res = ResolveForRecord(record(model.ProviderGCP, model.CategoryCompute, "", "e2-medium instance"))
	require.NotNil(t, res)
	require.NotNil(t, res.VCPU)
	assert.Equal(t, 2, *res.VCPU)

	// t2a is Ampere based.
	res = ResolveForRecord(record(model.ProviderGCP, model.CategoryCompute, "", "t2a-standard-8"))
	require.NotNil(t, res)
	assert.Equal(t, ComputeAmpereA1.PartNumber, res.Sku.PartNumber)
	assert.InDelta(t, 8, res.Multiplier, 0.0001)
}

func TestResolveDatabaseProviderAgnostic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		text     string
		wantPart string
	}{
		{"rds mysql", "Amazon RDS for MySQL db.r5.large", DatabaseMySQL.PartNumber},
		{"azure postgres", "Azure Database for PostgreSQL flexible server", DatabasePostgres.PartNumber},
		{"sql server", "SQL Server Standard vCore", DatabaseStandard.PartNumber},
		{"oracle", "Oracle Database Enterprise Edition", DatabaseEnterprise.PartNumber},
		{"dynamo", "Amazon DynamoDB write request units", DatabaseNoSQL.PartNumber},
		{"redis", "Cache for Redis premium", DatabaseCache.PartNumber},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res := ResolveForRecord(record(model.ProviderUnknown, model.CategoryDatabase, "", tt.text))
			require.NotNil(t, res)
			assert.Equal(t, tt.wantPart, res.Sku.PartNumber)
		})
	}
}

func TestResolveDatabaseInstanceClass(t *testing.T) {
	t.Parallel()

	res := ResolveForRecord(record(model.ProviderAWS, model.CategoryDatabase, "", "RDS MySQL db.m5.2xlarge"))
	require.NotNil(t, res)
	assert.Equal(t, "db.m5.2xlarge", res.InstanceType)
	require.NotNil(t, res.VCPU)
	assert.Equal(t, 8, *res.VCPU)
	assert.InDelta(t, 4, res.Multiplier, 0.0001)
	assert.Equal(t, model.ResolutionInstance, res.Level)
}

func TestResolveUnknownProviderUsesAWSPattern(t *testing.T) {
	t.Parallel()

	res := ResolveForRecord(record(model.ProviderUnknown, model.CategoryCompute, "", "usage for m5.large instances"))
	require.NotNil(t, res)
	assert.Equal(t, "m5.large", res.InstanceType)
}

func TestResolveNoToken(t *testing.T) {
	t.Parallel()

	res := ResolveForRecord(record(model.ProviderAWS, model.CategoryCompute, "", "Data processing fee"))
	assert.Nil(t, res)

	res = ResolveForRecord(model.BillingRecord{Provider: model.ProviderAWS, Category: model.CategoryCompute})
	assert.Nil(t, res)
}

func TestResolveFallsBackToRawCells(t *testing.T) {
	t.Parallel()

	rec := record(model.ProviderAWS, model.CategoryCompute, "", "")
	rec.Raw = model.NewRawRow([]string{"usage_type"}, []string{"BoxUsage:r5.4xlarge"})

	res := ResolveForRecord(rec)
	require.NotNil(t, res)
	assert.Equal(t, "r5.4xlarge", res.InstanceType)
	assert.InDelta(t, 8, res.Multiplier, 0.0001)
}

func TestMultiplier(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 1, multiplier(nil, false), 0.0001)
	assert.InDelta(t, 1, multiplier(intPtr(2), false), 0.0001)
	assert.InDelta(t, 2, multiplier(intPtr(3), false), 0.0001)
	assert.InDelta(t, 3, multiplier(intPtr(3), true), 0.0001)
}

func TestCatalogLookups(t *testing.T) {
	t.Parallel()

	d, ok := ByPart(model.WindowsLicensePart)
	require.True(t, ok)
	assert.Equal(t, WindowsServerLicense, d)

	_, ok = ByPart("B00000")
	assert.False(t, ok)

	d, ok = CategoryDefault(model.CategoryStorage)
	require.True(t, ok)
	assert.Equal(t, BlockStorage.PartNumber, d.PartNumber)

	_, ok = CategoryDefault(model.CategoryOther)
	assert.False(t, ok)
}
