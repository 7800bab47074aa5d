package taxjar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/vendora/taxengine/internal/config"
	"github.com/vendora/taxengine/internal/domain/provider"
	ierr "github.com/vendora/taxengine/internal/errors"
	"github.com/vendora/taxengine/internal/httpclient"
	"github.com/vendora/taxengine/internal/logger"
)

// Client adapts the external authoritative tax provider to the
// provider.Calculator contract. Used for US destinations only; the rate
// breakdown it returns is embedded verbatim in the calculation.
type Client struct {
	client httpclient.Client
	config config.ProviderConfig
	logger *logger.Logger
}

func NewClient(client httpclient.Client, cfg *config.Configuration, log *logger.Logger) *Client {
	return &Client{
		client: client,
		config: cfg.Provider,
		logger: log,
	}
}

// taxRequest is the provider's wire format. Amounts are major units.
type taxRequest struct {
	Amount    string `json:"amount"`
	Shipping  string `json:"shipping"`
	Quantity  int64  `json:"quantity"`
	ToCountry string `json:"to_country"`
	ToState   string `json:"to_state"`
	ToZip     string `json:"to_zip"`
}

type taxResponse struct {
	Tax struct {
		Rate          decimal.Decimal `json:"rate"`
		TaxableAmount decimal.Decimal `json:"taxable_amount"`
		Breakdown     struct {
			StateTaxRate          decimal.Decimal `json:"state_tax_rate"`
			CountyTaxRate         decimal.Decimal `json:"county_tax_rate"`
			CityTaxRate           decimal.Decimal `json:"city_tax_rate"`
			SpecialDistrictRate   decimal.Decimal `json:"special_district_tax_rate"`
			GSTTaxRate            decimal.Decimal `json:"gst_tax_rate"`
			PSTTaxRate            decimal.Decimal `json:"pst_tax_rate"`
			QSTTaxRate            decimal.Decimal `json:"qst_tax_rate"`
			StateName             string          `json:"state"`
			CountyName            string          `json:"county"`
			CityName              string          `json:"city"`
		} `json:"breakdown"`
	} `json:"tax"`
}

// CalculateTax requests a destination-based rate breakdown. Transport
// failures, timeouts and non-2xx responses all surface as
// provider-unavailable; a rate is never guessed and the call is never
// retried here, retry policy belongs to the caller.
func (c *Client) CalculateTax(ctx context.Context, req *provider.Request) (*provider.Result, error) {
	if req == nil {
		return nil, ierr.NewError("provider request cannot be nil").
			WithHint("Provider request is required").
			Mark(ierr.ErrValidation)
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout())
	defer cancel()

	quantity := req.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	body, err := json.Marshal(taxRequest{
		Amount:    centsToMajorUnits(req.AmountCents),
		Shipping:  centsToMajorUnits(req.ShippingCents),
		Quantity:  quantity,
		ToCountry: req.ToCountry,
		ToState:   req.ToState,
		ToZip:     req.ToZip,
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to encode provider request").
			Mark(ierr.ErrSystem)
	}

	resp, err := c.client.Send(ctx, &httpclient.Request{
		Method: http.MethodPost,
		URL:    fmt.Sprintf("%s/taxes", c.config.BaseURL),
		Headers: map[string]string{
			"Authorization": fmt.Sprintf("Bearer %s", c.config.APIKey),
		},
		Body: body,
	})
	if err != nil {
		c.logger.Errorw("tax provider call failed",
			"error", err,
			"to_country", req.ToCountry,
			"to_state", req.ToState,
		)
		return nil, ierr.WithError(err).
			WithHint("Tax provider is unavailable, please retry the purchase").
			Mark(ierr.ErrProviderUnavailable)
	}

	var parsed taxResponse
	if err := json.Unmarshal(resp.Body, &parsed); err != nil {
		c.logger.Errorw("tax provider returned an unreadable response",
			"error", err,
			"status_code", resp.StatusCode,
		)
		return nil, ierr.WithError(err).
			WithHint("Tax provider returned an invalid response").
			Mark(ierr.ErrProviderUnavailable)
	}

	return &provider.Result{
		CombinedRate:       parsed.Tax.Rate,
		TaxableAmountCents: parsed.Tax.TaxableAmount.Mul(decimal.NewFromInt(100)).Round(0).IntPart(),
		Breakdown: provider.Breakdown{
			StateRate:   parsed.Tax.Breakdown.StateTaxRate,
			CountyRate:  parsed.Tax.Breakdown.CountyTaxRate,
			CityRate:    parsed.Tax.Breakdown.CityTaxRate,
			SpecialRate: parsed.Tax.Breakdown.SpecialDistrictRate,
			GSTRate:     parsed.Tax.Breakdown.GSTTaxRate,
			PSTRate:     parsed.Tax.Breakdown.PSTTaxRate,
			QSTRate:     parsed.Tax.Breakdown.QSTTaxRate,
			StateName:   parsed.Tax.Breakdown.StateName,
			CountyName:  parsed.Tax.Breakdown.CountyName,
			CityName:    parsed.Tax.Breakdown.CityName,
		},
	}, nil
}

func centsToMajorUnits(cents int64) string {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).StringFixed(2)
}
