package sale

import (
	"github.com/samber/lo"
	ierr "github.com/vendora/taxengine/internal/errors"
	"github.com/vendora/taxengine/internal/types"
)

// BuyerLocation is the buyer's declared location at checkout. Country is the
// only required field; state and postal code narrow the jurisdiction for
// federated countries.
type BuyerLocation struct {
	CountryCode string `json:"country"`
	State       string `json:"state,omitempty"`
	PostalCode  string `json:"postal_code,omitempty"`
}

// Validate checks the structural invariants of a buyer location. A missing or
// malformed postal code is NOT a validation failure; it resolves later to an
// unknown jurisdiction.
func (l BuyerLocation) Validate() error {
	if l.CountryCode == "" {
		return ierr.NewError("country is required").
			WithHint("Buyer location must include a country code").
			Mark(ierr.ErrValidation)
	}

	if !types.IsValidCountryCode(l.CountryCode) {
		return ierr.NewError("invalid country code").
			WithHintf("Country code %s is not a valid ISO-3166 alpha-2 code", l.CountryCode).
			WithReportableDetails(map[string]any{
				"country": l.CountryCode,
			}).
			Mark(ierr.ErrValidation)
	}

	return nil
}

// Normalized returns a copy with the country and state codes uppercased
func (l BuyerLocation) Normalized() BuyerLocation {
	return BuyerLocation{
		CountryCode: types.NormalizeCountryCode(l.CountryCode),
		State:       types.NormalizeStateCode(l.State),
		PostalCode:  l.PostalCode,
	}
}

// SellerTaxProfile carries the seller configuration that gates collection
type SellerTaxProfile struct {
	// OptedInToVATCollection marks sellers who asked the platform to collect
	// VAT on seller-responsible rate rows
	OptedInToVATCollection bool `json:"opted_in_to_vat_collection"`

	// MerchantAccountCountry is where the seller's settlement account lives.
	// Some settlement countries cannot support platform collection at all.
	MerchantAccountCountry string `json:"merchant_account_country,omitempty"`

	// NexusStates are the US states where the seller has registered nexus
	NexusStates []string `json:"nexus_states,omitempty"`
}

// HasNexus reports whether the seller collects in a US state
func (p SellerTaxProfile) HasNexus(state string) bool {
	normalized := types.NormalizeStateCode(state)
	return lo.ContainsBy(p.NexusStates, func(s string) bool {
		return types.NormalizeStateCode(s) == normalized
	})
}

// TaxableProduct is the tax-relevant slice of a catalog item
type TaxableProduct struct {
	IsPhysical       bool              `json:"is_physical"`
	IsEpublication   bool              `json:"is_epublication"`
	NativeType       types.ProductType `json:"native_type"`
	RequiresShipping bool              `json:"requires_shipping"`
	PriceCents       int64             `json:"price_cents"`
	ShippingRates    map[string]int64  `json:"shipping_rates,omitempty"`
}

// Validate checks the structural invariants of a taxable product
func (p TaxableProduct) Validate() error {
	if err := p.NativeType.Validate(); err != nil {
		return err
	}

	if p.PriceCents < 0 {
		return ierr.NewError("price_cents cannot be negative").
			WithHint("Product price must be a non-negative minor-unit amount").
			Mark(ierr.ErrValidation)
	}

	return nil
}

// ShippingCentsFor returns the configured shipping rate for a destination
// country, zero when none is configured
func (p TaxableProduct) ShippingCentsFor(countryCode string) int64 {
	if p.ShippingRates == nil {
		return 0
	}
	return p.ShippingRates[types.NormalizeCountryCode(countryCode)]
}
