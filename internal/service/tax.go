package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vendora/taxengine/internal/api/dto"
	"github.com/vendora/taxengine/internal/domain/calculation"
	"github.com/vendora/taxengine/internal/domain/provider"
	"github.com/vendora/taxengine/internal/domain/taxrate"
	"github.com/vendora/taxengine/internal/types"
)

// TaxService determines the indirect tax owed on a single sale. Each
// calculation is a stateless single pass over the request and the read-only
// reference data; the only blocking step is the external provider call for
// US destinations.
type TaxService interface {
	Calculate(ctx context.Context, req dto.CalculateTaxRequest) (*dto.CalculateTaxResponse, error)
	ListRates(ctx context.Context) (*dto.ListRateRowsResponse, error)
	ListCountryRates(ctx context.Context, countryCode string) (*dto.ListRateRowsResponse, error)
}

type taxService struct {
	ServiceParams
	location     LocationService
	exemption    ExemptionService
	rateResolver RateResolverService
}

// NewTaxService creates a new instance of TaxService
func NewTaxService(params ServiceParams) TaxService {
	return &taxService{
		ServiceParams: params,
		location:      NewLocationService(params),
		exemption:     NewExemptionService(params),
		rateResolver:  NewRateResolverService(params),
	}
}

// Calculate runs the determination pipeline: validate, zero-price exemption,
// jurisdiction resolution, business-ID exemption, then either the domestic
// rate table or the external provider, and a single final rounding.
func (s *taxService) Calculate(ctx context.Context, req dto.CalculateTaxRequest) (*dto.CalculateTaxResponse, error) {
	if err := req.Validate(); err != nil {
		s.Logger.Warnw("tax calculation validation failed",
			"error", err,
			"country", req.BuyerLocation.CountryCode,
		)
		return nil, err
	}

	// A free sale owes nothing anywhere; no lookup or provider call happens
	if req.PriceCents == 0 {
		return s.respond(calculation.ZeroTax(0)), nil
	}

	location, err := s.location.Resolve(ctx, req.BuyerLocation)
	if err != nil {
		return nil, err
	}

	if s.exemption.IsSettlementDisallowed(ctx, req.Seller) {
		return s.respond(calculation.ZeroTax(req.PriceCents)), nil
	}

	policy, known := s.Jurisdictions.Lookup(location.Country)
	if !known {
		s.Logger.Infow("no tax policy registered for country, returning zero tax",
			"country", location.Country,
		)
		return s.respond(calculation.ZeroTax(req.PriceCents)), nil
	}

	businessIDRelevant := s.exemption.BusinessIDRelevant(policy, location)

	if s.exemption.ConfirmBusinessID(ctx, policy, location, req.BuyerBusinessTaxID) {
		if policy.FacilitatorOverridesBusinessID {
			// Marketplace-facilitator rules mandate collection anyway; the
			// ID is kept for receipt display, not exemption
			s.Logger.Infow("business ID confirmed but facilitator rules force collection",
				"country", policy.Country,
			)
		} else {
			return s.respond(calculation.ZeroBusinessVAT(req.PriceCents)), nil
		}
	}

	if policy.UsesExternalProvider {
		result, err := s.calculateWithProvider(ctx, req, location)
		if err != nil {
			return nil, err
		}
		return s.respond(result), nil
	}

	result, err := s.calculateDomestic(ctx, req, location, policy, businessIDRelevant)
	if err != nil {
		return nil, err
	}
	return s.respond(result), nil
}

// calculateWithProvider handles US destinations. Postal-code and nexus gates
// both resolve to zero tax without ever reaching the provider.
func (s *taxService) calculateWithProvider(ctx context.Context, req dto.CalculateTaxRequest, location *ResolvedLocation) (*calculation.Calculation, error) {
	if !location.KnownJurisdiction {
		s.Logger.Infow("US buyer location has no valid zip code, skipping provider",
			"state", location.State,
		)
		return calculation.ZeroTax(req.PriceCents), nil
	}

	if !req.Seller.HasNexus(location.State) {
		s.Logger.Infow("seller has no nexus in buyer state, skipping provider",
			"state", location.State,
		)
		return calculation.ZeroTax(req.PriceCents), nil
	}

	shippingCents := req.ShippingCents
	if shippingCents == 0 {
		shippingCents = req.Product.ShippingCentsFor(location.Country)
	}

	result, err := s.TaxProvider.CalculateTax(ctx, &provider.Request{
		AmountCents:   req.PriceCents,
		ShippingCents: shippingCents,
		Quantity:      req.NormalizedQuantity(),
		ToCountry:     location.Country,
		ToState:       location.State,
		ToZip:         location.PostalCode,
	})
	if err != nil {
		s.Logger.Errorw("external tax provider call failed",
			"error", err,
			"state", location.State,
		)
		return nil, err
	}

	unrounded := result.CombinedRate.Mul(decimal.NewFromInt(result.TaxableAmountCents))

	return &calculation.Calculation{
		PriceCents:           req.PriceCents,
		TaxCents:             calculation.RoundHalfUp(unrounded),
		UnroundedTax:         unrounded,
		UsedExternalProvider: true,
		ProviderBreakdown:    result,
	}, nil
}

// calculateDomestic handles every non-US jurisdiction through the rate table
func (s *taxService) calculateDomestic(ctx context.Context, req dto.CalculateTaxRequest, location *ResolvedLocation, policy types.JurisdictionPolicy, businessIDRelevant bool) (*calculation.Calculation, error) {
	if !location.KnownJurisdiction {
		return calculation.ZeroTax(req.PriceCents), nil
	}

	if req.Product.IsPhysical && !policy.TaxesPhysicalGoods {
		s.Logger.Infow("jurisdiction taxes digital goods only, physical sale exempt",
			"country", policy.Country,
		)
		return calculation.ZeroTax(req.PriceCents), nil
	}

	if !policy.AlwaysOn && !s.Rollout.Enabled(location.Country) {
		s.Logger.Infow("rollout gate closed for country, returning zero tax",
			"country", location.Country,
		)
		return calculation.ZeroTax(req.PriceCents), nil
	}

	// The reduced e-publication cascade only runs where the jurisdiction has
	// adopted such a rate; the registry is the authority, not the row data
	epublication := req.Product.IsEpublication && policy.HasEpublicationRate

	year := time.Now().UTC().Year()
	row, err := s.rateResolver.ResolveRate(ctx, location, epublication, year)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return calculation.ZeroTax(req.PriceCents), nil
	}

	// Seller-responsible rows suppress platform collection unless the seller
	// opted in or facilitator rules apply to the sale; the row still rides
	// along for receipt display
	if row.IsSellerResponsible {
		facilitatorApplies := policy.FacilitatorCollection && !req.Product.IsPhysical
		if !facilitatorApplies && !req.Seller.OptedInToVATCollection {
			result := calculation.ZeroTax(req.PriceCents)
			result.RateSource = row
			result.HasBusinessTaxIDInput = businessIDRelevant
			return result, nil
		}
	}

	unrounded := row.CombinedRate.Mul(decimal.NewFromInt(req.PriceCents))

	return &calculation.Calculation{
		PriceCents:            req.PriceCents,
		TaxCents:              calculation.RoundHalfUp(unrounded),
		UnroundedTax:          unrounded,
		RateSource:            row,
		HasBusinessTaxIDInput: businessIDRelevant,
	}, nil
}

// ListRates exposes the seeded rate dataset for receipts and admin tooling
func (s *taxService) ListRates(ctx context.Context) (*dto.ListRateRowsResponse, error) {
	rows, err := s.TaxRateRepo.ListAll(ctx)
	if err != nil {
		s.Logger.Errorw("failed to list rate rows",
			"error", err,
		)
		return nil, err
	}

	return toRateRowsResponse(rows), nil
}

// ListCountryRates returns one country's rows across all scopes
func (s *taxService) ListCountryRates(ctx context.Context, countryCode string) (*dto.ListRateRowsResponse, error) {
	rows, err := s.TaxRateRepo.ListByCountry(ctx, countryCode)
	if err != nil {
		s.Logger.Errorw("failed to list rate rows for country",
			"error", err,
			"country", countryCode,
		)
		return nil, err
	}

	return toRateRowsResponse(rows), nil
}

func toRateRowsResponse(rows []*taxrate.RateRow) *dto.ListRateRowsResponse {
	items := make([]*dto.RateRowResponse, len(rows))
	for i, row := range rows {
		items[i] = &dto.RateRowResponse{RateRow: row}
	}
	return &dto.ListRateRowsResponse{Items: items}
}

func (s *taxService) respond(result *calculation.Calculation) *dto.CalculateTaxResponse {
	return &dto.CalculateTaxResponse{Calculation: result}
}
