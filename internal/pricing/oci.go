package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/satoshitrading/oci-calculator-backend/internal/resilience"
)

// DefaultPriceListURL is Oracle's public pay-as-you-go price list API.
const DefaultPriceListURL = "https://apexapps.oracle.com/pls/apex/cetools/api/v1/products/"

const payAsYouGoModel = "PAY_AS_YOU_GO"

// PriceList queries the public OCI price list. Requests are rate
// limited and retried on transient failures; a circuit breaker trips
// after repeated failures so lookups degrade to the next chain tier
// without waiting out timeouts.
type PriceList struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	retry      resilience.RetryConfig
	breaker    *resilience.Breaker
}

// NewPriceList builds a price list client. An empty baseURL selects the
// public endpoint.
func NewPriceList(baseURL string) *PriceList {
	if baseURL == "" {
		baseURL = DefaultPriceListURL
	}
	retry := resilience.DefaultRetryConfig()
	retry.OnRetry = resilience.RetryLogger("oci-price-list", "get_price")

	breakerCfg := resilience.DefaultBreakerConfig()
	breakerCfg.OnStateChange = func(from, to resilience.State) {
		zap.L().Warn("pricing: price list circuit state change",
			zap.String("from", from.String()),
			zap.String("to", to.String()),
		)
	}

	return &PriceList{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(5), 5),
		retry:      retry,
		breaker:    resilience.NewBreaker(breakerCfg),
	}
}

type priceListResponse struct {
	Items []struct {
		PartNumber    string `json:"partNumber"`
		Localizations []struct {
			CurrencyCode string `json:"currencyCode"`
			Prices       []struct {
				Model string  `json:"model"`
				Value float64 `json:"value"`
			} `json:"prices"`
		} `json:"currencyCodeLocalizations"`
	} `json:"items"`
}

// Price fetches the pay-as-you-go unit price for a part in a currency.
// An unknown part is (0, false, nil), not an error.
func (p *PriceList) Price(ctx context.Context, part, currency string) (float64, bool, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return 0, false, eris.Wrap(err, "pricing: rate limiter")
	}

	resp, err := resilience.Guard(ctx, p.breaker, func(ctx context.Context) (*priceListResponse, error) {
		return resilience.DoVal(ctx, p.retry, func(ctx context.Context) (*priceListResponse, error) {
			return p.fetch(ctx, part, currency)
		})
	})
	if err != nil {
		return 0, false, err
	}

	for _, item := range resp.Items {
		if item.PartNumber != part {
			continue
		}
		for _, loc := range item.Localizations {
			if loc.CurrencyCode != currency {
				continue
			}
			for _, pr := range loc.Prices {
				if pr.Model == payAsYouGoModel {
					zap.L().Debug("pricing: price list hit",
						zap.String("part", part),
						zap.String("currency", currency),
						zap.Float64("price", pr.Value),
					)
					return pr.Value, true, nil
				}
			}
		}
	}
	return 0, false, nil
}

func (p *PriceList) fetch(ctx context.Context, part, currency string) (*priceListResponse, error) {
	q := url.Values{}
	q.Set("partNumber", part)
	q.Set("currencyCode", currency)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "pricing: build price list request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "pricing: call price list")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, eris.Wrap(err, "pricing: read price list response")
	}

	if resp.StatusCode != http.StatusOK {
		err := eris.New(fmt.Sprintf("pricing: price list returned status %d", resp.StatusCode))
		return nil, resilience.FromHTTPStatus(err, resp.StatusCode)
	}

	var out priceListResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, eris.Wrap(err, "pricing: decode price list response")
	}
	return &out, nil
}
