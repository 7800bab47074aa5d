package service

import (
	"context"

	"github.com/samber/lo"
	"github.com/vendora/taxengine/internal/domain/taxrate"
)

// RateResolverService selects the most specific applicable rate row for a
// non-US jurisdiction.
type RateResolverService interface {
	// ResolveRate walks the zip > state > country cascade for the given
	// calendar year. A nil row with a nil error means no rate applies.
	ResolveRate(ctx context.Context, location *ResolvedLocation, isEpublication bool, year int) (*taxrate.RateRow, error)
}

type rateResolverService struct {
	ServiceParams
}

func NewRateResolverService(params ServiceParams) RateResolverService {
	return &rateResolverService{
		ServiceParams: params,
	}
}

func (s *rateResolverService) ResolveRate(ctx context.Context, location *ResolvedLocation, isEpublication bool, year int) (*taxrate.RateRow, error) {
	scopes := candidateScopes(location)

	// An e-publication always takes the e-publication row over the standard
	// row, even when that rate is lower or zero. Only when no jurisdiction
	// scope carries an e-publication row does the standard rate apply.
	if isEpublication {
		row, err := s.resolveForKind(ctx, scopes, true, year)
		if err != nil {
			return nil, err
		}
		if row != nil {
			return row, nil
		}
	}

	return s.resolveForKind(ctx, scopes, false, year)
}

func (s *rateResolverService) resolveForKind(ctx context.Context, scopes []taxrate.Scope, isEpublication bool, year int) (*taxrate.RateRow, error) {
	for _, scope := range scopes {
		rows, err := s.TaxRateRepo.ListByScope(ctx, scope)
		if err != nil {
			s.Logger.Errorw("failed to list rate rows for scope",
				"error", err,
				"country", scope.Country,
				"state", scope.State,
				"zip_code", scope.ZipCode,
			)
			return nil, err
		}

		candidates := lo.Filter(rows, func(row *taxrate.RateRow, _ int) bool {
			return row.IsEpublicationRate == isEpublication
		})
		if len(candidates) == 0 {
			continue
		}

		if row := pickRowForYear(candidates, year); row != nil {
			return row, nil
		}
	}

	return nil, nil
}

// candidateScopes orders lookups from most to least specific
func candidateScopes(location *ResolvedLocation) []taxrate.Scope {
	scopes := make([]taxrate.Scope, 0, 3)

	if location.State != "" && location.PostalCode != "" {
		scopes = append(scopes, taxrate.Scope{
			Country: location.Country,
			State:   location.State,
			ZipCode: location.PostalCode,
		})
	}
	if location.State != "" {
		scopes = append(scopes, taxrate.Scope{
			Country: location.Country,
			State:   location.State,
		})
	}
	scopes = append(scopes, taxrate.Scope{Country: location.Country})

	return scopes
}

// pickRowForYear selects the row covering the given year. Preference order:
// a row explicitly scoped to the year, then an always-applicable row, then
// the latest prior row. A rate sticks until superseded.
func pickRowForYear(rows []*taxrate.RateRow, year int) *taxrate.RateRow {
	var always *taxrate.RateRow
	var latestPrior *taxrate.RateRow
	latestPriorYear := 0

	for _, row := range rows {
		maxYear, scoped := row.MaxApplicableYear()
		if !scoped {
			always = row
			continue
		}

		if row.AppliesToYear(year) {
			return row
		}

		if maxYear < year && maxYear > latestPriorYear {
			latestPrior = row
			latestPriorYear = maxYear
		}
	}

	if always != nil {
		return always
	}
	return latestPrior
}
