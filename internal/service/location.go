package service

import (
	"context"

	"github.com/vendora/taxengine/internal/domain/sale"
	"github.com/vendora/taxengine/internal/types"
)

// ResolvedLocation is the jurisdiction key extracted from a buyer location
type ResolvedLocation struct {
	Country    string
	State      string
	PostalCode string

	// IsQuebec routes Canadian buyers onto the QST path
	IsQuebec bool

	// KnownJurisdiction is false for US/Canada buyers with a missing or
	// malformed postal code; the sale then resolves to zero tax
	KnownJurisdiction bool
}

type LocationService interface {
	Resolve(ctx context.Context, location sale.BuyerLocation) (*ResolvedLocation, error)
}

type locationService struct {
	ServiceParams
}

func NewLocationService(params ServiceParams) LocationService {
	return &locationService{
		ServiceParams: params,
	}
}

// Resolve validates and normalizes a buyer location. A malformed postal code
// in a federated country is NOT an error; it yields an unknown jurisdiction
// and a zero-tax outcome downstream.
func (s *locationService) Resolve(ctx context.Context, location sale.BuyerLocation) (*ResolvedLocation, error) {
	if err := location.Validate(); err != nil {
		s.Logger.Warnw("buyer location validation failed",
			"error", err,
			"country", location.CountryCode,
		)
		return nil, err
	}

	normalized := location.Normalized()

	resolved := &ResolvedLocation{
		Country:           normalized.CountryCode,
		State:             normalized.State,
		PostalCode:        normalized.PostalCode,
		KnownJurisdiction: true,
	}

	switch resolved.Country {
	case types.CountryUS:
		resolved.KnownJurisdiction = types.IsValidUSZipCode(normalized.PostalCode) &&
			types.IsValidUSStateCode(normalized.State)
	case types.CountryCanada:
		resolved.KnownJurisdiction = types.IsValidCAPostalCode(normalized.PostalCode)
		resolved.IsQuebec = types.IsQuebec(location.State)
		if types.IsQuebec(location.State) {
			resolved.State = types.ProvinceQuebec
		}
	}

	if !resolved.KnownJurisdiction {
		s.Logger.Infow("buyer postal code does not resolve to a known jurisdiction",
			"country", resolved.Country,
			"state", resolved.State,
		)
	}

	return resolved, nil
}
