// Package provider infers the source cloud of a billing artifact from its
// file name, column headers, or document text.
package provider

import (
	"strings"

	"github.com/satoshitrading/oci-calculator-backend/internal/model"
)

// Indicator keyword sets per provider. Membership is a plain substring
// test; the first provider with a hit wins. Callers apply the signal
// precedence (file name, then columns, then content) themselves.
var (
	awsIndicators = []string{
		"aws", "amazon", "ec2", "s3", "lineitem/", "unblended", "boxusage",
		"cloudfront", "dynamodb", "rds", "lambda", "cur-",
	}

	azureIndicators = []string{
		"azure", "microsoft", "metercategory", "metername", "meterid",
		"subscriptionid", "resourcegroup", "entra", "cosmos",
	}

	gcpIndicators = []string{
		"gcp", "google cloud", "googlecloud", "bigquery", "compute engine",
		"gce-", "cloud sql", "gke", "billing_account_id",
	}

	ociIndicators = []string{
		"oci", "oracle cloud", "oraclecloud", "ocid1", "ocpu",
	}
)

// FromFileName detects the provider from a file name.
func FromFileName(name string) model.Provider {
	return detect(strings.ToLower(name))
}

// FromColumns detects the provider from a set of column headers.
func FromColumns(columns []string) model.Provider {
	joined := strings.ToLower(strings.Join(columns, "|"))
	return detect(joined)
}

// FromText detects the provider from free document text.
func FromText(text string) model.Provider {
	return detect(strings.ToLower(text))
}

func detect(lower string) model.Provider {
	if lower == "" {
		return model.ProviderUnknown
	}
	for _, kw := range awsIndicators {
		if strings.Contains(lower, kw) {
			return model.ProviderAWS
		}
	}
	for _, kw := range azureIndicators {
		if strings.Contains(lower, kw) {
			return model.ProviderAzure
		}
	}
	for _, kw := range gcpIndicators {
		if strings.Contains(lower, kw) {
			return model.ProviderGCP
		}
	}
	for _, kw := range ociIndicators {
		if strings.Contains(lower, kw) {
			return model.ProviderOCI
		}
	}
	return model.ProviderUnknown
}
