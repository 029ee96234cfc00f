package sku

import (
	"regexp"
	"strings"

	"github.com/satoshitrading/oci-calculator-backend/internal/model"
)

// awsInstanceRe captures an EC2 instance type, optionally preceded by a
// CUR usage-type prefix ("BoxUsage:m5.xlarge", "SpotUsage:c6g.large").
var awsInstanceRe = regexp.MustCompile(
	`(?:boxusage|spotusage|heavyusage|hostusage|dedicatedusage)?:?\s*\b([a-z][a-z0-9-]*\d[a-z]*)\.(nano|micro|small|medium|large|\d{1,2}xlarge|xlarge|metal)\b`,
)

// awsSizeVCPU is the canonical size-suffix to vCPU table for current
// generation shapes. Burstable sub-large sizes all expose 2 vCPUs.
var awsSizeVCPU = map[string]int{
	"nano":     2,
	"micro":    2,
	"small":    2,
	"medium":   2,
	"large":    2,
	"xlarge":   4,
	"2xlarge":  8,
	"3xlarge":  12,
	"4xlarge":  16,
	"6xlarge":  24,
	"8xlarge":  32,
	"9xlarge":  36,
	"10xlarge": 40,
	"12xlarge": 48,
	"16xlarge": 64,
	"18xlarge": 72,
	"24xlarge": 96,
	"32xlarge": 128,
	"48xlarge": 192,
	"96xlarge": 384,
	"metal":    96,
}

// Graviton families carry a "g" right after the generation digit
// (m6g, c7gn, r8g); a1 was the first ARM family. GPU families (g4dn,
// g5, p3) never match because their "g"/"p" precedes the digit.
var awsARMFamilyRe = regexp.MustCompile(`^(a1|[a-z]+\d+g[a-z]*)$`)

// Ordered family-to-part table, first match wins. Anything unmatched
// lands on the general-purpose default.
var awsFamilySkus = []struct {
	re   *regexp.Regexp
	desc model.SkuDescriptor
}{
	{awsARMFamilyRe, ComputeAmpereA1},
	{regexp.MustCompile(`^(p\d|g\d|inf\d?|trn\d?|dl\d?)`), ComputeGPUA10},
	{regexp.MustCompile(`^(c\d|hpc\d?)`), ComputeOptimizedX9},
}

func resolveAWS(text string) *model.InstanceResolution {
	m := awsInstanceRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	family, size := m[1], m[2]
	instanceType := family + "." + size

	var vcpu *int
	if v, ok := awsSizeVCPU[size]; ok {
		vcpu = intPtr(v)
	}

	return resolution(instanceType, vcpu, awsFamilySku(family))
}

func awsFamilySku(family string) model.SkuDescriptor {
	family = strings.ToLower(family)
	for _, fs := range awsFamilySkus {
		if fs.re.MatchString(family) {
			return fs.desc
		}
	}
	return ComputeStandardE4
}
