// Package sku maps source-cloud instance types and database engines onto
// OCI catalog parts and computes target billing-quantity multipliers.
package sku

import (
	"github.com/satoshitrading/oci-calculator-backend/internal/model"
)

// Static OCI catalog. Fallback prices are the list prices bundled with
// the application, consulted when neither the cache nor the live price
// list yields a value.
var (
	ComputeStandardE4 = model.SkuDescriptor{
		PartNumber:       "B88514",
		DisplayName:      "Compute - Standard - E4 - OCPU",
		Unit:             "OCPU hour",
		FallbackPriceUSD: 0.025,
		SourceFamily:     "general-purpose",
	}
	ComputeOptimizedX9 = model.SkuDescriptor{
		PartNumber:       "B93313",
		DisplayName:      "Compute - Optimized - X9 - OCPU",
		Unit:             "OCPU hour",
		FallbackPriceUSD: 0.065,
		SourceFamily:     "compute-optimized",
	}
	ComputeAmpereA1 = model.SkuDescriptor{
		PartNumber:       "B93113",
		DisplayName:      "Compute - Ampere A1 - Core",
		Unit:             "core hour",
		FallbackPriceUSD: 0.01,
		SourceFamily:     "arm",
		ARM:              true,
	}
	ComputeGPUA10 = model.SkuDescriptor{
		PartNumber:       "B93404",
		DisplayName:      "Compute - GPU - A10",
		Unit:             "GPU hour",
		FallbackPriceUSD: 2.0,
		SourceFamily:     "gpu",
	}
	WindowsServerLicense = model.SkuDescriptor{
		PartNumber:       model.WindowsLicensePart,
		DisplayName:      "Compute - Windows Server license",
		Unit:             "OCPU hour",
		FallbackPriceUSD: 0.092,
	}

	BlockStorage = model.SkuDescriptor{
		PartNumber:       "B91961",
		DisplayName:      "Block Volume - Storage",
		Unit:             "GB month",
		FallbackPriceUSD: 0.0255,
	}
	NetworkEgress = model.SkuDescriptor{
		PartNumber:       "B88327",
		DisplayName:      "Outbound Data Transfer",
		Unit:             "GB",
		FallbackPriceUSD: 0.0085,
	}

	DatabaseMySQL = model.SkuDescriptor{
		PartNumber:       "B92941",
		DisplayName:      "MySQL Database - Standard - ECPU",
		Unit:             "ECPU hour",
		FallbackPriceUSD: 0.125,
		SourceFamily:     "mysql",
	}
	DatabasePostgres = model.SkuDescriptor{
		PartNumber:       "B95812",
		DisplayName:      "Database with PostgreSQL - OCPU",
		Unit:             "OCPU hour",
		FallbackPriceUSD: 0.1275,
		SourceFamily:     "postgresql",
	}
	DatabaseStandard = model.SkuDescriptor{
		PartNumber:       "B88331",
		DisplayName:      "Base Database - Standard Edition - OCPU",
		Unit:             "OCPU hour",
		FallbackPriceUSD: 0.4031,
		SourceFamily:     "sqlserver",
	}
	DatabaseEnterprise = model.SkuDescriptor{
		PartNumber:       "B88332",
		DisplayName:      "Base Database - Enterprise Edition - OCPU",
		Unit:             "OCPU hour",
		FallbackPriceUSD: 0.8063,
		SourceFamily:     "oracle",
	}
	DatabaseNoSQL = model.SkuDescriptor{
		PartNumber:       "B89739",
		DisplayName:      "NoSQL Database - Write Units",
		Unit:             "million writes",
		FallbackPriceUSD: 0.0133,
		SourceFamily:     "nosql",
	}
	DatabaseCache = model.SkuDescriptor{
		PartNumber:       "B108809",
		DisplayName:      "Cache with Redis - OCPU",
		Unit:             "OCPU hour",
		FallbackPriceUSD: 0.049,
		SourceFamily:     "cache",
	}

	GenAIChat = model.SkuDescriptor{
		PartNumber:       "B97454",
		DisplayName:      "Generative AI - Chat - 10K Transactions",
		Unit:             "10K transactions",
		FallbackPriceUSD: 0.0156,
	}
)

// Catalog returns every descriptor the resolver can hand out.
func Catalog() []model.SkuDescriptor {
	return []model.SkuDescriptor{
		ComputeStandardE4, ComputeOptimizedX9, ComputeAmpereA1, ComputeGPUA10,
		WindowsServerLicense, BlockStorage, NetworkEgress,
		DatabaseMySQL, DatabasePostgres, DatabaseStandard, DatabaseEnterprise,
		DatabaseNoSQL, DatabaseCache, GenAIChat,
	}
}

// ByPart looks a descriptor up by OCI part number.
func ByPart(part string) (model.SkuDescriptor, bool) {
	for _, d := range Catalog() {
		if d.PartNumber == part {
			return d, true
		}
	}
	return model.SkuDescriptor{}, false
}

// CategoryDefault is the part used when no fine-grained instance
// resolution is possible for a category. Other has no quantity-priced
// part; it is always estimated by ratio.
func CategoryDefault(cat model.ServiceCategory) (model.SkuDescriptor, bool) {
	switch cat {
	case model.CategoryCompute:
		return ComputeStandardE4, true
	case model.CategoryStorage:
		return BlockStorage, true
	case model.CategoryNetwork:
		return NetworkEgress, true
	case model.CategoryDatabase:
		return DatabaseStandard, true
	case model.CategoryGenAI:
		return GenAIChat, true
	default:
		return model.SkuDescriptor{}, false
	}
}
