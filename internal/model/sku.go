package model

// WindowsLicensePart is the OCI part number for the Windows Server
// license surcharge attached to Windows-licensed compute records.
const WindowsLicensePart = "B88318"

// SkuDescriptor is a static OCI catalog entry. The fallback price is the
// last pricing tier consulted when neither the cache nor the live price
// list yields a value.
type SkuDescriptor struct {
	PartNumber       string  `json:"part_number"`
	DisplayName      string  `json:"display_name"`
	Unit             string  `json:"unit"`
	FallbackPriceUSD float64 `json:"fallback_price_usd"`
	SourceFamily     string  `json:"source_family,omitempty"`
	ARM              bool    `json:"arm,omitempty"`
}

// ResolutionLevel tags how precisely an instance type was resolved.
type ResolutionLevel string

// Resolution levels, most precise first.
const (
	ResolutionInstance ResolutionLevel = "instance-level"
	ResolutionFamily   ResolutionLevel = "family-level"
)

// InstanceResolution is the result of matching a source product string to
// an OCI SKU. VCPU is nil when the core count could not be determined, in
// which case Multiplier is 1 and Level is family-level.
type InstanceResolution struct {
	InstanceType string          `json:"instance_type"`
	VCPU         *int            `json:"vcpu,omitempty"`
	Multiplier   float64         `json:"multiplier"`
	Sku          SkuDescriptor   `json:"sku"`
	Level        ResolutionLevel `json:"level"`
}
