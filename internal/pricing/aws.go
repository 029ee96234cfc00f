package pricing

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awspricing "github.com/aws/aws-sdk-go-v2/service/pricing"
	"github.com/aws/aws-sdk-go-v2/service/pricing/types"
	"github.com/rotisserie/eris"
)

// The AWS Price List Query API is only served from us-east-1 and
// ap-south-1.
const awsPricingRegion = "us-east-1"

// ProductsAPI is the slice of the AWS Pricing client this package uses.
type ProductsAPI interface {
	GetProducts(ctx context.Context, params *awspricing.GetProductsInput, optFns ...func(*awspricing.Options)) (*awspricing.GetProductsOutput, error)
}

// AWSPricing answers source-cloud price questions: what an EC2 shape
// costs on demand today. Used to sanity-check modeled savings against
// live source prices.
type AWSPricing struct {
	client ProductsAPI
}

// NewAWSPricing builds a client from the default credential chain.
func NewAWSPricing(ctx context.Context) (*AWSPricing, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(awsPricingRegion))
	if err != nil {
		return nil, eris.Wrap(err, "pricing: load aws config")
	}
	return &AWSPricing{client: awspricing.NewFromConfig(cfg)}, nil
}

// NewAWSPricingFromAPI wires an existing client, mainly for tests.
func NewAWSPricingFromAPI(api ProductsAPI) *AWSPricing {
	return &AWSPricing{client: api}
}

// OnDemandHourly returns the on-demand USD hourly price for a Linux,
// shared-tenancy EC2 instance type in a region. Unknown shapes are
// (0, false, nil).
func (a *AWSPricing) OnDemandHourly(ctx context.Context, instanceType, region string) (float64, bool, error) {
	out, err := a.client.GetProducts(ctx, &awspricing.GetProductsInput{
		ServiceCode: aws.String("AmazonEC2"),
		MaxResults:  aws.Int32(1),
		Filters: []types.Filter{
			termMatch("instanceType", instanceType),
			termMatch("regionCode", region),
			termMatch("operatingSystem", "Linux"),
			termMatch("tenancy", "Shared"),
			termMatch("preInstalledSw", "NA"),
			termMatch("capacitystatus", "Used"),
		},
	})
	if err != nil {
		return 0, false, eris.Wrap(err, "pricing: query aws price list")
	}
	if len(out.PriceList) == 0 {
		return 0, false, nil
	}
	return parseOnDemandHourly(out.PriceList[0])
}

func termMatch(field, value string) types.Filter {
	return types.Filter{
		Type:  types.FilterTypeTermMatch,
		Field: aws.String(field),
		Value: aws.String(value),
	}
}

// priceDocument is the slice of an AWS price list document we care
// about: terms -> OnDemand -> offer -> priceDimensions -> pricePerUnit.
type priceDocument struct {
	Terms struct {
		OnDemand map[string]struct {
			PriceDimensions map[string]struct {
				PricePerUnit map[string]string `json:"pricePerUnit"`
			} `json:"priceDimensions"`
		} `json:"OnDemand"`
	} `json:"terms"`
}

func parseOnDemandHourly(doc string) (float64, bool, error) {
	var parsed priceDocument
	if err := json.Unmarshal([]byte(doc), &parsed); err != nil {
		return 0, false, eris.Wrap(err, "pricing: decode aws price document")
	}

	for _, offer := range parsed.Terms.OnDemand {
		for _, dim := range offer.PriceDimensions {
			usd, ok := dim.PricePerUnit["USD"]
			if !ok {
				continue
			}
			price, err := strconv.ParseFloat(usd, 64)
			if err != nil {
				return 0, false, eris.Wrap(err, "pricing: parse aws price value")
			}
			return price, true, nil
		}
	}
	return 0, false, nil
}
