package provider

import (
	"context"

	"github.com/shopspring/decimal"
)

// Request is the destination-based quote the adapter sends to the external
// authoritative provider.
type Request struct {
	AmountCents   int64  `json:"amount_cents"`
	ShippingCents int64  `json:"shipping_cents"`
	Quantity      int64  `json:"quantity"`
	ToCountry     string `json:"to_country"`
	ToState       string `json:"to_state"`
	ToZip         string `json:"to_zip"`
}

// Breakdown is the per-level rate decomposition returned by the provider.
// US sales carry the state/county/city/special levels; Canadian sales carry
// the GST/PST/QST levels.
type Breakdown struct {
	StateRate   decimal.Decimal `json:"state_rate"`
	CountyRate  decimal.Decimal `json:"county_rate"`
	CityRate    decimal.Decimal `json:"city_rate"`
	SpecialRate decimal.Decimal `json:"special_rate"`
	GSTRate     decimal.Decimal `json:"gst_rate"`
	PSTRate     decimal.Decimal `json:"pst_rate"`
	QSTRate     decimal.Decimal `json:"qst_rate"`

	StateName  string `json:"state_name,omitempty"`
	CountyName string `json:"county_name,omitempty"`
	CityName   string `json:"city_name,omitempty"`
}

// Result is the provider's authoritative answer, embedded verbatim in the
// final calculation. Never mutated after construction.
type Result struct {
	// CombinedRate is the combined rate across all levels
	CombinedRate decimal.Decimal `json:"combined_rate"`

	// TaxableAmountCents is the amount the provider deemed taxable; shipping
	// taxability is entirely the provider's call
	TaxableAmountCents int64 `json:"taxable_amount_cents"`

	Breakdown Breakdown `json:"breakdown"`
}

// Calculator is the synchronous external tax provider contract. The single
// blocking call of a calculation; bounded by the context deadline. Failures
// must surface as provider-unavailable errors, never as substituted rates.
type Calculator interface {
	CalculateTax(ctx context.Context, req *Request) (*Result, error)
}
