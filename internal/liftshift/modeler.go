// Package liftshift models what an ingested cloud bill would cost after
// a lift-and-shift move onto OCI.
package liftshift

import (
	"context"
	"math"
	"sync"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/satoshitrading/oci-calculator-backend/internal/model"
	"github.com/satoshitrading/oci-calculator-backend/internal/pricing"
	"github.com/satoshitrading/oci-calculator-backend/internal/sku"
)

const (
	// networkFreeTierGB is the monthly outbound transfer allowance OCI
	// does not charge for.
	networkFreeTierGB = 10240.0

	// Quantity-based estimates whose ratio to the source cost falls
	// outside this band are treated as unit mismatches and discarded.
	plausibleRatioMin = 0.05
	plausibleRatioMax = 20.0

	priceFetchConcurrency = 8
)

// savingsFactors drive the ratio-based estimate path:
// estimate = source × (1 − factor).
var savingsFactors = map[model.ServiceCategory]float64{
	model.CategoryCompute:  0.50,
	model.CategoryStorage:  0.40,
	model.CategoryNetwork:  0.60,
	model.CategoryDatabase: 0.30,
	model.CategoryGenAI:    0.20,
	model.CategoryOther:    0.25,
}

// Storage is the slice of the document store the modeler touches.
type Storage interface {
	FindBillingRecords(ctx context.Context, uploadID string) ([]model.BillingRecord, error)
	DeleteModelRows(ctx context.Context, uploadID string) error
	InsertModelRows(ctx context.Context, rows []model.LiftShiftRow) error
	FindModelRows(ctx context.Context, uploadID string) ([]model.LiftShiftRow, error)
}

// Modeler runs the cost model over a batch of normalized records.
type Modeler struct {
	store  Storage
	prices pricing.Source
}

// NewModeler wires the persistence layer and the tiered price chain.
func NewModeler(st Storage, prices pricing.Source) *Modeler {
	return &Modeler{store: st, prices: prices}
}

// Model runs the full cost model for an upload batch and persists one
// output row per record. Re-running replaces the previous result.
func (m *Modeler) Model(ctx context.Context, uploadID, currency string) (*model.LiftShiftResult, error) {
	records, err := m.store.FindBillingRecords(ctx, uploadID)
	if err != nil {
		return nil, eris.Wrapf(err, "liftshift: load records for %s", uploadID)
	}
	if len(records) == 0 {
		return &model.LiftShiftResult{UploadID: uploadID, Currency: currency}, nil
	}

	if err := m.store.DeleteModelRows(ctx, uploadID); err != nil {
		return nil, eris.Wrapf(err, "liftshift: clear previous run for %s", uploadID)
	}

	resolutions := make([]*model.InstanceResolution, len(records))
	parts := map[string]struct{}{model.WindowsLicensePart: {}}
	for i, rec := range records {
		res := resolveTarget(rec)
		resolutions[i] = res
		if res != nil {
			parts[res.Sku.PartNumber] = struct{}{}
		}
	}

	prices, err := m.fetchPrices(ctx, parts, currency)
	if err != nil {
		return nil, err
	}

	rows := make([]model.LiftShiftRow, 0, len(records))
	for i, rec := range records {
		rows = append(rows, m.modelRecord(rec, resolutions[i], prices, uploadID))
	}

	if err := m.store.InsertModelRows(ctx, rows); err != nil {
		return nil, eris.Wrapf(err, "liftshift: persist rows for %s", uploadID)
	}

	result := aggregate(uploadID, currency, rows)
	return &result, nil
}

// Result reconstructs a previously computed batch from persisted rows,
// without re-running pricing. Spot-conversion and Windows-surcharge
// flags are not persisted and report false here; re-running Model
// recovers them.
func (m *Modeler) Result(ctx context.Context, uploadID, currency string) (*model.LiftShiftResult, error) {
	rows, err := m.store.FindModelRows(ctx, uploadID)
	if err != nil {
		return nil, eris.Wrapf(err, "liftshift: load result for %s", uploadID)
	}

	result := aggregate(uploadID, currency, rows)
	return &result, nil
}

// resolveTarget picks the OCI part for a record: fine-grained instance
// resolution for Compute and Database, the category default otherwise.
func resolveTarget(rec model.BillingRecord) *model.InstanceResolution {
	if rec.Category == model.CategoryCompute || rec.Category == model.CategoryDatabase {
		if res := sku.ResolveForRecord(rec); res != nil {
			return res
		}
	}
	desc, ok := sku.CategoryDefault(rec.Category)
	if !ok {
		return nil
	}
	return &model.InstanceResolution{
		Multiplier: 1,
		Sku:        desc,
		Level:      model.ResolutionFamily,
	}
}

// fetchPrices resolves every needed part concurrently through the
// price chain. A part without a price is simply absent from the map.
func (m *Modeler) fetchPrices(ctx context.Context, parts map[string]struct{}, currency string) (map[string]float64, error) {
	var mu sync.Mutex
	found := make(map[string]float64, len(parts))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(priceFetchConcurrency)
	for part := range parts {
		g.Go(func() error {
			price, ok, err := m.prices.Price(ctx, part, currency)
			if err != nil {
				zap.L().Warn("liftshift: price lookup failed",
					zap.String("part", part), zap.Error(err))
				return nil
			}
			if ok {
				mu.Lock()
				found[part] = price
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "liftshift: fetch prices")
	}
	return found, nil
}

func (m *Modeler) modelRecord(rec model.BillingRecord, res *model.InstanceResolution, prices map[string]float64, uploadID string) model.LiftShiftRow {
	sourceCost := recordSourceCost(rec)

	row := model.LiftShiftRow{
		ID:            uuid.New().String(),
		UploadID:      uploadID,
		ProductName:   rec.ProductName,
		Category:      rec.Category,
		Region:        rec.Region,
		SpotConverted: rec.Spot,
	}

	var targetQty *float64
	var unitPrice float64
	var priced bool
	if res != nil {
		row.TargetPart = res.Sku.PartNumber
		targetQty = targetQuantity(rec, res)
		unitPrice, priced = prices[res.Sku.PartNumber]
	}

	estimate, method := estimateCost(rec.Category, sourceCost, targetQty, unitPrice, priced)

	// Windows-licensed compute pays the license part on top of the
	// base estimate.
	if rec.WindowsLicense && rec.Category == model.CategoryCompute {
		if surcharge, ok := windowsSurcharge(targetQty, estimate, unitPrice, prices); ok {
			estimate += surcharge
			row.WindowsSurcharge = true
		}
	}

	savings := sourceCost - estimate

	row.SourceCost = round4(sourceCost)
	row.TargetQuantity = round4Ptr(targetQty)
	row.EstimatedCost = round4(estimate)
	row.Savings = round4(savings)
	row.SavingsPercent = round4(percent(savings, sourceCost))
	row.Method = method
	return row
}

// recordSourceCost is the post-tax cost when the tax rule applied,
// otherwise the raw cost. Records without a cost model as zero.
func recordSourceCost(rec model.BillingRecord) float64 {
	if rec.CostAfterTax != nil {
		return *rec.CostAfterTax
	}
	if rec.Cost != nil {
		return *rec.Cost
	}
	return 0
}

// targetQuantity converts source usage into target billing units. An
// instance-level resolution multiplies raw instance-hours by the
// per-instance core multiplier; otherwise the normalized equivalent
// quantity is used as-is.
func targetQuantity(rec model.BillingRecord, res *model.InstanceResolution) *float64 {
	if res.Level == model.ResolutionInstance && rec.Quantity != nil {
		q := *rec.Quantity * res.Multiplier
		return &q
	}
	if rec.OCIQuantity != nil {
		q := *rec.OCIQuantity
		return &q
	}
	return nil
}

// estimateCost picks between the quantity path and the ratio path.
// Quantity-based estimates are sanity-checked against the source cost;
// implausible ratios mean the source quantity was in an incompatible
// unit, and the ratio path is used instead.
func estimateCost(cat model.ServiceCategory, sourceCost float64, qty *float64, unitPrice float64, priced bool) (float64, model.EstimateMethod) {
	ratioEstimate := sourceCost * (1 - savingsFactors[cat])
	if sourceCost == 0 {
		ratioEstimate = 0
	}

	if cat == model.CategoryOther || !priced || qty == nil || *qty <= 0 || sourceCost <= 0 {
		return ratioEstimate, model.EstimateRatio
	}

	quantity := *qty
	if cat == model.CategoryNetwork {
		quantity = math.Max(0, quantity-networkFreeTierGB)
	}
	estimate := quantity * unitPrice

	if estimate == 0 {
		return estimate, model.EstimateQuantity
	}
	ratio := estimate / sourceCost
	if ratio < plausibleRatioMin || ratio > plausibleRatioMax {
		return ratioEstimate, model.EstimateRatio
	}
	return estimate, model.EstimateQuantity
}

// windowsSurcharge prices the Windows license part: precisely when the
// target quantity is known, by price ratio against the base compute
// part otherwise.
func windowsSurcharge(qty *float64, baseEstimate, basePrice float64, prices map[string]float64) (float64, bool) {
	licensePrice, ok := prices[model.WindowsLicensePart]
	if !ok {
		return 0, false
	}
	if qty != nil && *qty > 0 {
		return *qty * licensePrice, true
	}
	if basePrice > 0 && baseEstimate > 0 {
		return baseEstimate * (licensePrice / basePrice), true
	}
	return 0, false
}

// aggregate recomputes batch totals from per-row values. Sums are taken
// over the already-persisted row values; percents are derived last.
func aggregate(uploadID, currency string, rows []model.LiftShiftRow) model.LiftShiftResult {
	result := model.LiftShiftResult{
		UploadID: uploadID,
		Currency: currency,
		Rows:     rows,
	}

	byCat := map[model.ServiceCategory]*model.CategoryBreakdown{}
	var order []model.ServiceCategory
	var source, estimated decimal.Decimal

	for _, row := range rows {
		source = source.Add(decimal.NewFromFloat(row.SourceCost))
		estimated = estimated.Add(decimal.NewFromFloat(row.EstimatedCost))

		b, ok := byCat[row.Category]
		if !ok {
			b = &model.CategoryBreakdown{Category: row.Category}
			byCat[row.Category] = b
			order = append(order, row.Category)
		}
		b.SourceCost += row.SourceCost
		b.EstimatedCost += row.EstimatedCost
		b.Savings += row.Savings
	}

	for _, cat := range order {
		b := byCat[cat]
		b.SourceCost = round4(b.SourceCost)
		b.EstimatedCost = round4(b.EstimatedCost)
		b.Savings = round4(b.Savings)
		result.ByCategory = append(result.ByCategory, *b)
	}

	result.SourceTotal = round4(decimalFloat(source))
	result.EstimatedTotal = round4(decimalFloat(estimated))
	result.Savings = round4(result.SourceTotal - result.EstimatedTotal)
	result.SavingsPercent = round4(percent(result.Savings, result.SourceTotal))
	return result
}

// percent never divides by zero: a zero source cost reports 0%.
func percent(savings, source float64) float64 {
	if source == 0 {
		return 0
	}
	return savings / source * 100
}

func round4(v float64) float64 {
	out, _ := decimal.NewFromFloat(v).Round(4).Float64()
	return out
}

func round4Ptr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := round4(*v)
	return &r
}

func decimalFloat(d decimal.Decimal) float64 {
	v, _ := d.Float64()
	return v
}
