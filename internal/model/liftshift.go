package model

// EstimateMethod names the path that produced a row's OCI cost estimate.
type EstimateMethod string

// Estimate methods.
const (
	EstimateRatio    EstimateMethod = "ratio"
	EstimateQuantity EstimateMethod = "quantity"
)

// LiftShiftRow is the per-record output of the cost modeler.
type LiftShiftRow struct {
	ID               string          `json:"id"`
	UploadID         string          `json:"upload_id"`
	ProductName      string          `json:"product_name,omitempty"`
	Category         ServiceCategory `json:"category"`
	Region           string          `json:"region,omitempty"`
	SourceCost       float64         `json:"source_cost"`
	TargetPart       string          `json:"target_part,omitempty"`
	TargetQuantity   *float64        `json:"target_quantity,omitempty"`
	EstimatedCost    float64         `json:"estimated_cost"`
	Savings          float64         `json:"savings"`
	SavingsPercent   float64         `json:"savings_percent"`
	Method           EstimateMethod  `json:"method"`
	WindowsSurcharge bool            `json:"windows_surcharge,omitempty"`
	SpotConverted    bool            `json:"spot_converted,omitempty"`
}

// CategoryBreakdown is a per-category subtotal of the modeling run.
type CategoryBreakdown struct {
	Category      ServiceCategory `json:"category"`
	SourceCost    float64         `json:"source_cost"`
	EstimatedCost float64         `json:"estimated_cost"`
	Savings       float64         `json:"savings"`
}

// LiftShiftResult is the batch-level outcome of a modeling run. It is
// regenerated in full on every run for the same upload.
type LiftShiftResult struct {
	UploadID       string              `json:"upload_id"`
	Currency       string              `json:"currency"`
	SourceTotal    float64             `json:"source_total"`
	EstimatedTotal float64             `json:"estimated_total"`
	Savings        float64             `json:"savings"`
	SavingsPercent float64             `json:"savings_percent"`
	ByCategory     []CategoryBreakdown `json:"by_category"`
	Rows           []LiftShiftRow      `json:"rows"`
}
