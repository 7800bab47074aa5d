package dto

import (
	"github.com/vendora/taxengine/internal/domain/calculation"
	"github.com/vendora/taxengine/internal/domain/sale"
	"github.com/vendora/taxengine/internal/domain/taxrate"
	"github.com/vendora/taxengine/internal/validator"
)

// ContextFlags carry upstream eligibility context. They never participate in
// the rate math itself.
type ContextFlags struct {
	// from_recommendation_surface marks sales that originated from a
	// recommendation placement
	FromRecommendationSurface bool `json:"from_recommendation_surface,omitempty"`
}

// CalculateTaxRequest is the input contract for one tax determination
// @Description Request object for calculating the tax owed on a single sale
type CalculateTaxRequest struct {
	// product is the tax-relevant slice of the catalog item being sold (required)
	Product sale.TaxableProduct `json:"product"`

	// price_cents is the non-negative sale amount in minor units (required)
	PriceCents int64 `json:"price_cents" validate:"gte=0"`

	// buyer_location is the buyer's declared location; country is required
	BuyerLocation sale.BuyerLocation `json:"buyer_location"`

	// seller is the seller's tax configuration
	Seller sale.SellerTaxProfile `json:"seller"`

	// shipping_cents is the shipping amount in minor units, default 0
	ShippingCents int64 `json:"shipping_cents,omitempty" validate:"gte=0"`

	// quantity defaults to 1
	Quantity int64 `json:"quantity,omitempty" validate:"gte=0"`

	// buyer_business_tax_id is an optional VAT/QST/ABN/GST registration
	BuyerBusinessTaxID string `json:"buyer_business_tax_id,omitempty"`

	// context_flags affect upstream eligibility only, never the rate math
	ContextFlags ContextFlags `json:"context_flags,omitempty"`
}

// Validate checks the structural invariants of the request
func (r CalculateTaxRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	if err := r.Product.Validate(); err != nil {
		return err
	}

	return r.BuyerLocation.Validate()
}

// NormalizedQuantity applies the default quantity of 1
func (r CalculateTaxRequest) NormalizedQuantity() int64 {
	if r.Quantity <= 0 {
		return 1
	}
	return r.Quantity
}

// CalculateTaxResponse wraps the calculation result
// @Description Tax calculation result for one sale
type CalculateTaxResponse struct {
	*calculation.Calculation `json:",inline"`
}

// RateRowResponse exposes one rate dataset entry for receipts/admin surfaces
type RateRowResponse struct {
	*taxrate.RateRow `json:",inline"`
}

// ListRateRowsResponse lists the seeded rate dataset
type ListRateRowsResponse struct {
	Items []*RateRowResponse `json:"items"`
}
