package sku

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/satoshitrading/oci-calculator-backend/internal/model"
)

// azureSkuRe captures an ARM VM SKU name: series letters, the embedded
// core count, capability suffix letters, optional version
// ("Standard_D4s_v3", "standard_e8ps_v5").
var azureSkuRe = regexp.MustCompile(`standard[_ ]([a-z]+)(\d+)(?:-\d+)?([a-z]*)(?:[_ ]v(\d+))?`)

// Ordered series-to-part table. Azure ARM shapes (Ampere Altra) are
// marked by a "p" in the capability suffix (D4ps, E8pds).
var azureSeriesSkus = []struct {
	re   *regexp.Regexp
	desc model.SkuDescriptor
}{
	{regexp.MustCompile(`^(f|fx|h|hb|hc)`), ComputeOptimizedX9},
	{regexp.MustCompile(`^(n|nc|nd|nv)`), ComputeGPUA10},
}

func resolveAzure(text string) *model.InstanceResolution {
	m := azureSkuRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	series, coreStr, suffix, version := m[1], m[2], m[3], m[4]

	instanceType := "Standard_" + strings.ToUpper(series) + coreStr + suffix
	if version != "" {
		instanceType += "_v" + version
	}

	var vcpu *int
	if cores, err := strconv.Atoi(coreStr); err == nil && cores > 0 {
		vcpu = intPtr(cores)
	}

	if strings.Contains(suffix, "p") {
		return resolution(instanceType, vcpu, ComputeAmpereA1)
	}
	for _, ss := range azureSeriesSkus {
		if ss.re.MatchString(series) {
			return resolution(instanceType, vcpu, ss.desc)
		}
	}
	return resolution(instanceType, vcpu, ComputeStandardE4)
}
