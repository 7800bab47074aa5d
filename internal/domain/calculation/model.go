package calculation

import (
	"github.com/shopspring/decimal"
	"github.com/vendora/taxengine/internal/domain/provider"
	"github.com/vendora/taxengine/internal/domain/taxrate"
)

// Calculation is the outcome of one tax determination. Constructed fresh per
// call, never mutated, no persistence identity.
type Calculation struct {
	PriceCents int64 `json:"price_cents"`
	TaxCents   int64 `json:"tax_cents"`

	// UnroundedTax keeps the fractional-cent value for receipt display; any
	// chargeable amount uses TaxCents
	UnroundedTax decimal.Decimal `json:"unrounded_tax"`

	// RateSource is the matched rate row, attached for receipts even when
	// collection was suppressed
	RateSource *taxrate.RateRow `json:"rate_source,omitempty"`

	UsedExternalProvider bool             `json:"used_external_provider"`
	ProviderBreakdown    *provider.Result `json:"provider_breakdown,omitempty"`

	// HasBusinessTaxIDInput is true whenever business-ID input is
	// conceptually relevant for the jurisdiction of this sale, not strictly
	// when an ID was supplied
	HasBusinessTaxIDInput bool `json:"has_business_tax_id_input"`
}

// ZeroTax is the canonical zero-tax outcome: unknown jurisdiction, closed
// rollout gate, missing nexus, zero price, disallowed settlement.
func ZeroTax(priceCents int64) *Calculation {
	return &Calculation{
		PriceCents:   priceCents,
		TaxCents:     0,
		UnroundedTax: decimal.Zero,
	}
}

// ZeroBusinessVAT is the confirmed B2B reverse-charge outcome
func ZeroBusinessVAT(priceCents int64) *Calculation {
	c := ZeroTax(priceCents)
	c.HasBusinessTaxIDInput = true
	return c
}

// RoundHalfUp converts an unrounded tax amount to chargeable cents. Applied
// exactly once to the final combined rate, never accumulated across levels.
func RoundHalfUp(unrounded decimal.Decimal) int64 {
	return unrounded.Round(0).IntPart()
}
