package service

import (
	"context"

	"github.com/samber/lo"
	"github.com/vendora/taxengine/internal/domain/sale"
	"github.com/vendora/taxengine/internal/types"
)

// ExemptionService answers the outright zero-tax questions that run before
// any rate lookup or provider call.
type ExemptionService interface {
	// IsSettlementDisallowed reports whether the seller's merchant-account
	// country rules out platform collection entirely
	IsSettlementDisallowed(ctx context.Context, seller sale.SellerTaxProfile) bool

	// BusinessIDRelevant reports whether business-ID input is conceptually
	// part of this sale's jurisdiction, whether or not an ID was supplied
	BusinessIDRelevant(policy types.JurisdictionPolicy, location *ResolvedLocation) bool

	// ConfirmBusinessID reports whether a supplied buyer business tax ID
	// passes the issuing authority's format check and entitles the sale to
	// a B2B reverse charge
	ConfirmBusinessID(ctx context.Context, policy types.JurisdictionPolicy, location *ResolvedLocation, businessTaxID string) bool
}

type exemptionService struct {
	ServiceParams
}

func NewExemptionService(params ServiceParams) ExemptionService {
	return &exemptionService{
		ServiceParams: params,
	}
}

func (s *exemptionService) IsSettlementDisallowed(ctx context.Context, seller sale.SellerTaxProfile) bool {
	if seller.MerchantAccountCountry == "" {
		return false
	}

	country := types.NormalizeCountryCode(seller.MerchantAccountCountry)
	disallowed := lo.ContainsBy(s.Config.Tax.DisallowedSettlementCountries, func(c string) bool {
		return types.NormalizeCountryCode(c) == country
	})

	if disallowed {
		s.Logger.Infow("seller settlement configuration disallows collection",
			"merchant_account_country", country,
			"seller_id", types.GetSellerID(ctx),
		)
	}
	return disallowed
}

// BusinessIDRelevant scopes the Canadian QST authority to Quebec buyers;
// everywhere else relevance is a property of the jurisdiction alone.
func (s *exemptionService) BusinessIDRelevant(policy types.JurisdictionPolicy, location *ResolvedLocation) bool {
	if !policy.SupportsBusinessID {
		return false
	}
	if policy.BusinessIDAuthority == types.BusinessIDAuthorityCAQST {
		return location.IsQuebec
	}
	return true
}

func (s *exemptionService) ConfirmBusinessID(ctx context.Context, policy types.JurisdictionPolicy, location *ResolvedLocation, businessTaxID string) bool {
	if businessTaxID == "" {
		return false
	}

	if !s.BusinessIDRelevant(policy, location) || !policy.ReverseCharge {
		return false
	}

	if !types.ValidateBusinessID(policy.BusinessIDAuthority, businessTaxID) {
		s.Logger.Warnw("buyer business tax ID failed format validation",
			"country", policy.Country,
			"authority", policy.BusinessIDAuthority,
		)
		return false
	}

	return true
}
