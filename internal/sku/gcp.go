package sku

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/satoshitrading/oci-calculator-backend/internal/model"
)

// gcpMachineRe captures a Compute Engine machine type: family, class,
// optional trailing vCPU count ("e2-standard-4", "n2-highmem-8",
// "f1-micro", "e2-medium").
var gcpMachineRe = regexp.MustCompile(
	`\b([a-z]\d+[a-z]?)-(standard|highmem|highcpu|highgpu|megamem|ultramem|custom|micro|small|medium)(?:-(\d+))?\b`,
)

// Named shared-core shapes have no numeric suffix. The legacy f1/g1
// shapes expose a single vCPU; the e2 shared-core shapes expose two.
var gcpNamedShapeVCPU = map[string]int{
	"f1-micro": 1,
	"g1-small": 1,
	"micro":    2,
	"small":    2,
	"medium":   2,
}

// ARM families end with an "a" after the generation digit (t2a, c4a).
var gcpARMFamilyRe = regexp.MustCompile(`^[a-z]\d+a$`)

var gcpFamilySkus = []struct {
	re   *regexp.Regexp
	desc model.SkuDescriptor
}{
	{gcpARMFamilyRe, ComputeAmpereA1},
	{regexp.MustCompile(`^(c\d|h\d)`), ComputeOptimizedX9},
	{regexp.MustCompile(`^(a\d|g\d)`), ComputeGPUA10},
}

func resolveGCP(text string) *model.InstanceResolution {
	m := gcpMachineRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	family, class, countStr := m[1], m[2], m[3]

	instanceType := family + "-" + class
	if countStr != "" {
		instanceType += "-" + countStr
	}

	var vcpu *int
	switch {
	case countStr != "":
		if v, err := strconv.Atoi(countStr); err == nil && v > 0 {
			vcpu = intPtr(v)
		}
	default:
		if v, ok := gcpNamedShapeVCPU[instanceType]; ok {
			vcpu = intPtr(v)
		} else if v, ok := gcpNamedShapeVCPU[class]; ok {
			vcpu = intPtr(v)
		}
	}

	return resolution(instanceType, vcpu, gcpFamilySku(family))
}

func gcpFamilySku(family string) model.SkuDescriptor {
	family = strings.ToLower(family)
	for _, fs := range gcpFamilySkus {
		if fs.re.MatchString(family) {
			return fs.desc
		}
	}
	return ComputeStandardE4
}
