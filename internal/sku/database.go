package sku

import (
	"regexp"

	"github.com/satoshitrading/oci-calculator-backend/internal/model"
)

// Database engines are resolved provider-agnostically: a managed MySQL
// is a managed MySQL whether it came from RDS, Azure Database, or
// Cloud SQL. Ordered, first match wins.
var databaseEngines = []struct {
	name string
	re   *regexp.Regexp
	desc model.SkuDescriptor
}{
	{"mysql", regexp.MustCompile(`mysql|mariadb`), DatabaseMySQL},
	{"postgresql", regexp.MustCompile(`postgres|alloydb`), DatabasePostgres},
	{"sqlserver", regexp.MustCompile(`sql server|sqlserver|mssql`), DatabaseStandard},
	{"oracle", regexp.MustCompile(`oracle`), DatabaseEnterprise},
	{"nosql", regexp.MustCompile(`dynamodb|cosmos|bigtable|firestore|documentdb|mongo|nosql`), DatabaseNoSQL},
	{"cache", regexp.MustCompile(`redis|memcached|elasticache|memorystore|cache`), DatabaseCache},
}

// dbInstanceRe matches a managed database instance class, which reuses
// the EC2 shape grammar behind a "db." prefix ("db.r5.large").
var dbInstanceRe = regexp.MustCompile(`\bdb\.([a-z][a-z0-9-]*\d[a-z]*)\.(nano|micro|small|medium|large|\d{1,2}xlarge|xlarge|metal)\b`)

func resolveDatabase(text string) *model.InstanceResolution {
	for _, eng := range databaseEngines {
		if !eng.re.MatchString(text) {
			continue
		}

		instanceType := eng.name
		var vcpu *int
		if m := dbInstanceRe.FindStringSubmatch(text); m != nil {
			instanceType = "db." + m[1] + "." + m[2]
			if v, ok := awsSizeVCPU[m[2]]; ok {
				vcpu = intPtr(v)
			}
		} else if m := azureSkuRe.FindStringSubmatch(text); m != nil {
			if cores, ok := atoiPositive(m[2]); ok {
				vcpu = intPtr(cores)
			}
		}

		return resolution(instanceType, vcpu, eng.desc)
	}
	return nil
}
