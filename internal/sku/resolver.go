package sku

import (
	"math"
	"strconv"
	"strings"

	"github.com/satoshitrading/oci-calculator-backend/internal/model"
)

// ResolveForRecord matches a billing record's product text to an OCI
// part. Database records resolve by engine keyword regardless of
// provider; everything else dispatches to the provider's instance-type
// extractor, with the AWS pattern as the best-effort fallback for
// unknown providers. Returns nil only when no instance-type token could
// be extracted from any text field.
func ResolveForRecord(rec model.BillingRecord) *model.InstanceResolution {
	text := recordText(rec)
	if text == "" {
		return nil
	}

	if rec.Category == model.CategoryDatabase {
		return resolveDatabase(text)
	}

	switch rec.Provider {
	case model.ProviderAzure:
		return resolveAzure(text)
	case model.ProviderGCP:
		return resolveGCP(text)
	default:
		return resolveAWS(text)
	}
}

// recordText concatenates every text field an instance type could hide
// in, lower-cased. Raw cells are the last-resort fallback for sources
// whose product columns did not survive field resolution.
func recordText(rec model.BillingRecord) string {
	parts := []string{rec.ProductCode, rec.ProductName, rec.CategoryHint}
	for _, col := range rec.Raw.Columns {
		parts = append(parts, rec.Raw.Values[col])
	}
	return strings.ToLower(strings.TrimSpace(strings.Join(parts, " ")))
}

// multiplier converts a raw vCPU count into the target billing-quantity
// multiplier: two x86 vCPUs per OCPU, ARM billed per core, and 1 when
// the count is unknown (the caller keeps the source quantity unchanged).
func multiplier(vcpu *int, arm bool) float64 {
	if vcpu == nil {
		return 1
	}
	if arm {
		return float64(*vcpu)
	}
	return math.Max(1, math.Ceil(float64(*vcpu)/2))
}

func resolution(instanceType string, vcpu *int, desc model.SkuDescriptor) *model.InstanceResolution {
	level := model.ResolutionFamily
	if vcpu != nil {
		level = model.ResolutionInstance
	}
	return &model.InstanceResolution{
		InstanceType: instanceType,
		VCPU:         vcpu,
		Multiplier:   multiplier(vcpu, desc.ARM),
		Sku:          desc,
		Level:        level,
	}
}

func intPtr(v int) *int { return &v }

func atoiPositive(s string) (int, bool) {
	v, err := strconv.Atoi(s)
	return v, err == nil && v > 0
}
