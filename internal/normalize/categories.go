package normalize

import (
	"regexp"

	"github.com/satoshitrading/oci-calculator-backend/internal/model"
)

// categoryRule maps a compiled keyword pattern to a canonical category.
// Tables are evaluated top-down with first-match semantics, so more
// specific services must precede the broad catch-words.
type categoryRule struct {
	re       *regexp.Regexp
	category model.ServiceCategory
}

func rule(pattern string, cat model.ServiceCategory) categoryRule {
	return categoryRule{re: regexp.MustCompile(pattern), category: cat}
}

var awsCategoryRules = []categoryRule{
	rule(`bedrock|sagemaker|comprehend|rekognition|polly|transcribe|amazon q`, model.CategoryGenAI),
	rule(`\brds\b|aurora|dynamodb|documentdb|elasticache|redshift|neptune|memorydb`, model.CategoryDatabase),
	rule(`data transfer|cloudfront|route ?53|nat gateway|elastic load balancing|direct connect|api gateway|\bvpc\b`, model.CategoryNetwork),
	rule(`simple storage|\bs3\b|elastic block|\bebs\b|\befs\b|\bfsx\b|glacier|storage gateway|aws backup`, model.CategoryStorage),
	rule(`elastic compute|\bec2\b|boxusage|spotusage|lambda|fargate|\becs\b|\beks\b|lightsail`, model.CategoryCompute),
}

var azureCategoryRules = []categoryRule{
	rule(`openai|cognitive|azure ai|machine learning|bot service`, model.CategoryGenAI),
	rule(`sql database|sql managed|cosmos|mysql|postgresql|mariadb|cache for redis|synapse`, model.CategoryDatabase),
	rule(`bandwidth|virtual network|vpn gateway|load balancer|application gateway|front door|expressroute|content delivery|azure dns`, model.CategoryNetwork),
	rule(`blob|managed disks|azure files|data lake|storage`, model.CategoryStorage),
	rule(`virtual machines|app service|azure functions|container instances|kubernetes service`, model.CategoryCompute),
}

var gcpCategoryRules = []categoryRule{
	rule(`vertex|gemini|dialogflow|speech-to-text|text-to-speech|vision api`, model.CategoryGenAI),
	rule(`cloud sql|bigtable|firestore|spanner|memorystore|alloydb|bigquery`, model.CategoryDatabase),
	rule(`egress|cloud cdn|cloud dns|load balancing|interconnect|cloud nat`, model.CategoryNetwork),
	rule(`cloud storage|persistent disk|filestore|cloud backup`, model.CategoryStorage),
	rule(`compute engine|kubernetes engine|cloud run|cloud functions|app engine`, model.CategoryCompute),
}

// genericCategoryRules is the provider-agnostic fallback table, consulted
// when the provider is unrecognized or its table had no match.
var genericCategoryRules = []categoryRule{
	rule(`generative ai|gen ?ai|large language|llm|openai|anthropic`, model.CategoryGenAI),
	rule(`database|nosql|mysql|postgres|sql server|oracle db|mongo|redis`, model.CategoryDatabase),
	rule(`network|bandwidth|data transfer|egress|cdn|load balanc|dns`, model.CategoryNetwork),
	rule(`storage|disk|snapshot|backup|archive|bucket`, model.CategoryStorage),
	rule(`compute|instance|virtual machine|\bvm\b|server|vcpu|vcore|\bcore\b`, model.CategoryCompute),
}

var providerCategoryRules = map[model.Provider][]categoryRule{
	model.ProviderAWS:   awsCategoryRules,
	model.ProviderAzure: azureCategoryRules,
	model.ProviderGCP:   gcpCategoryRules,
}

// resolveCategory matches the lower-cased category hint + product text
// against the provider table, then the generic table. Default is Other.
func resolveCategory(prov model.Provider, lowerText string) model.ServiceCategory {
	if rules, ok := providerCategoryRules[prov]; ok {
		for _, r := range rules {
			if r.re.MatchString(lowerText) {
				return r.category
			}
		}
	}
	for _, r := range genericCategoryRules {
		if r.re.MatchString(lowerText) {
			return r.category
		}
	}
	return model.CategoryOther
}
