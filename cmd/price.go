package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/satoshitrading/oci-calculator-backend/internal/pricing"
	"github.com/satoshitrading/oci-calculator-backend/internal/sku"
)

var (
	priceCurrency    string
	priceAWSInstance string
	priceAWSRegion   string
)

var priceCmd = &cobra.Command{
	Use:   "price [part-number]",
	Short: "Look up the unit price for an OCI part",
	Long:  "Resolves an OCI part number through the pricing chain (live price list, then the embedded catalog). With --aws-instance, also fetches the AWS on-demand rate for a side-by-side comparison.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if priceCurrency == "" {
			priceCurrency = cfg.Pricing.Currency
		}

		out := struct {
			Part        string   `json:"part,omitempty"`
			Name        string   `json:"name,omitempty"`
			Unit        string   `json:"unit,omitempty"`
			Currency    string   `json:"currency"`
			Price       *float64 `json:"price,omitempty"`
			AWSInstance string   `json:"aws_instance,omitempty"`
			AWSHourly   *float64 `json:"aws_hourly,omitempty"`
		}{Currency: priceCurrency}

		if len(args) == 1 {
			part := args[0]
			desc, ok := sku.ByPart(part)
			if !ok {
				return eris.Errorf("unknown part number: %s", part)
			}
			out.Part = part
			out.Name = desc.DisplayName
			out.Unit = desc.Unit

			price, ok, err := initPriceChain().Price(ctx, part, priceCurrency)
			if err != nil {
				return err
			}
			if ok {
				out.Price = &price
			}
		}

		if priceAWSInstance != "" {
			aws, err := pricing.NewAWSPricing(ctx)
			if err != nil {
				return err
			}
			hourly, ok, err := aws.OnDemandHourly(ctx, priceAWSInstance, priceAWSRegion)
			if err != nil {
				return err
			}
			out.AWSInstance = priceAWSInstance
			if ok {
				out.AWSHourly = &hourly
			}
		}

		if out.Part == "" && out.AWSInstance == "" {
			return eris.New("nothing to price: pass a part number or --aws-instance")
		}
		return printJSON(cmd.OutOrStdout(), out)
	},
}

func init() {
	priceCmd.Flags().StringVar(&priceCurrency, "currency", "", "price list currency (default from config)")
	priceCmd.Flags().StringVar(&priceAWSInstance, "aws-instance", "", "AWS instance type to price for comparison")
	priceCmd.Flags().StringVar(&priceAWSRegion, "aws-region", "us-east-1", "AWS region for the on-demand rate")
	rootCmd.AddCommand(priceCmd)
}
