// Package normalize maps raw line items onto canonical OCI-style billing
// records: service category, OCPU-equivalent quantity, licensing flags,
// derived unit price, and the BRL tax rule.
package normalize

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/satoshitrading/oci-calculator-backend/internal/model"
)

// WindowsLicensePart is the OCI part number attached to Windows-licensed
// compute records.
const WindowsLicensePart = model.WindowsLicensePart

// brlTaxRate is the flat Brazilian tax applied on top of BRL-denominated
// charges.
const brlTaxRate = 0.13

// ARM shapes are billed natively per core on OCI, so their quantities
// bypass the vCPU-to-OCPU halving.
var armKeywords = []string{"graviton", "ampere", "a1.", "arm64", "aarch64"}

// vCPU-counted shapes: two source vCPUs equal one OCPU.
var vcpuKeywords = []string{
	"vcpu", "vcore", "instance", "core", "vm", "boxusage", "spotusage",
	"compute engine", "virtual machine",
}

// Normalize derives a canonical billing record from a raw line item. Pure
// function, no I/O; the input item is never mutated.
func Normalize(item model.LineItem, prov model.Provider) model.BillingRecord {
	rec := model.BillingRecord{
		LineItem:  item,
		Provider:  prov,
		IsPaidSku: true, // free-tier entitlements are never modeled
	}

	catText := lowerJoin(item.CategoryHint, item.ProductName, item.ProductCode)
	rec.Category = resolveCategory(prov, catText)
	rec.IsGenAI = rec.Category == model.CategoryGenAI

	rec.OCIQuantity = equivalentQuantity(rec.Category, item.Quantity, catText)

	if strings.Contains(catText, "windows") {
		rec.WindowsLicense = true
		rec.LicensePart = WindowsLicensePart
	}

	rec.UnitPrice = deriveUnitPrice(item.Cost, item.Quantity)

	rec.BRLTax, rec.CostAfterTax = applyBRLTax(item.Currency, item.Cost)

	return rec
}

// NormalizeAll maps a batch of line items.
func NormalizeAll(items []model.LineItem, prov model.Provider) []model.BillingRecord {
	records := make([]model.BillingRecord, 0, len(items))
	for _, item := range items {
		records = append(records, Normalize(item, prov))
	}
	return records
}

// equivalentQuantity converts a source usage quantity to its OCI
// equivalent. Only Compute is converted: ARM shapes pass through 1:1,
// vCPU-counted shapes are halved (2 vCPU = 1 OCPU), anything else keeps
// the source quantity. The division is deliberately not rounded here.
func equivalentQuantity(cat model.ServiceCategory, qty *float64, lowerText string) *float64 {
	if qty == nil {
		return nil
	}
	v := *qty

	if cat != model.CategoryCompute {
		return &v
	}

	for _, kw := range armKeywords {
		if strings.Contains(lowerText, kw) {
			return &v
		}
	}
	for _, kw := range vcpuKeywords {
		if strings.Contains(lowerText, kw) {
			half := v / 2
			return &half
		}
	}
	return &v
}

// deriveUnitPrice computes cost/quantity to 10 decimal places. Nil when
// either operand is missing or the quantity is not positive.
func deriveUnitPrice(cost, qty *float64) *float64 {
	if cost == nil || qty == nil || *qty <= 0 {
		return nil
	}
	price, _ := decimal.NewFromFloat(*cost).
		Div(decimal.NewFromFloat(*qty)).
		Round(10).
		Float64()
	return &price
}

// applyBRLTax applies the flat 13% Brazilian tax to BRL-denominated
// costs. Every other currency passes through untouched.
func applyBRLTax(currency string, cost *float64) (tax, after *float64) {
	if cost == nil {
		return nil, nil
	}
	if !strings.EqualFold(strings.TrimSpace(currency), "BRL") {
		v := *cost
		return nil, &v
	}

	taxDec := decimal.NewFromFloat(*cost).Mul(decimal.NewFromFloat(brlTaxRate)).Round(4)
	afterDec := decimal.NewFromFloat(*cost).Add(taxDec).Round(4)

	t, _ := taxDec.Float64()
	a, _ := afterDec.Float64()
	return &t, &a
}

func lowerJoin(parts ...string) string {
	return strings.ToLower(strings.Join(parts, " "))
}
