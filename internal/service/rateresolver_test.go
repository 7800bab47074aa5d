package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/vendora/taxengine/internal/domain/taxrate"
	"github.com/vendora/taxengine/internal/repository/memory"
	"github.com/vendora/taxengine/internal/testutil"
	"github.com/vendora/taxengine/internal/types"
)

type RateResolverSuite struct {
	testutil.BaseServiceTestSuite
	resolver RateResolverService
}

func TestRateResolver(t *testing.T) {
	suite.Run(t, new(RateResolverSuite))
}

func (s *RateResolverSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.resolver = NewRateResolverService(ServiceParams{
		Logger:        s.GetLogger(),
		Config:        s.GetConfig(),
		TaxRateRepo:   s.GetStores().TaxRateRepo,
		Jurisdictions: types.NewJurisdictionRegistry(),
		Rollout:       types.NewRolloutConfig(),
	})
}

func (s *RateResolverSuite) addRows(rows ...*taxrate.RateRow) {
	s.GetStores().TaxRateRepo.(*memory.TaxRateStore).Add(rows...)
}

func (s *RateResolverSuite) location(country string) *ResolvedLocation {
	return &ResolvedLocation{Country: country, KnownJurisdiction: true}
}

func (s *RateResolverSuite) TestYearScopedRowsSelectByYear() {
	s.addRows(memory.SeedRateRows()...)
	loc := s.location("SG")

	cases := []struct {
		year int
		rate string
	}{
		{2021, "0.07"},
		{2023, "0.08"},
		{2024, "0.09"},
	}
	for _, tc := range cases {
		row, err := s.resolver.ResolveRate(s.GetContext(), loc, false, tc.year)
		s.NoError(err)
		s.Require().NotNil(row, "year %d", tc.year)
		s.True(row.CombinedRate.Equal(decimal.RequireFromString(tc.rate)), "year %d", tc.year)
	}
}

func (s *RateResolverSuite) TestLatestPriorRowSticksUntilSuperseded() {
	s.addRows(memory.SeedRateRows()...)

	// No Singapore row names 2026; the 2024 rate carries forward
	row, err := s.resolver.ResolveRate(s.GetContext(), s.location("SG"), false, 2026)
	s.NoError(err)
	s.Require().NotNil(row)
	s.True(row.CombinedRate.Equal(decimal.RequireFromString("0.09")))
}

func (s *RateResolverSuite) TestFutureOnlyRowsDoNotMatch() {
	s.addRows(&taxrate.RateRow{
		ID:              "rate_sg_standard_2030",
		Country:         "SG",
		CombinedRate:    decimal.RequireFromString("0.10"),
		ApplicableYears: []int{2030},
	})

	row, err := s.resolver.ResolveRate(s.GetContext(), s.location("SG"), false, 2026)
	s.NoError(err)
	s.Nil(row)
}

func (s *RateResolverSuite) TestExactYearBeatsAlwaysApplicableRow() {
	s.addRows(
		&taxrate.RateRow{
			ID:           "rate_sg_standard",
			Country:      "SG",
			CombinedRate: decimal.RequireFromString("0.10"),
		},
		&taxrate.RateRow{
			ID:              "rate_sg_standard_2023",
			Country:         "SG",
			CombinedRate:    decimal.RequireFromString("0.08"),
			ApplicableYears: []int{2023},
		},
	)

	row, err := s.resolver.ResolveRate(s.GetContext(), s.location("SG"), false, 2023)
	s.NoError(err)
	s.Equal("rate_sg_standard_2023", row.ID)

	row, err = s.resolver.ResolveRate(s.GetContext(), s.location("SG"), false, 2025)
	s.NoError(err)
	s.Equal("rate_sg_standard", row.ID)
}

func (s *RateResolverSuite) TestZipRowBeatsStateAndCountryRows() {
	s.addRows(
		&taxrate.RateRow{
			ID:           "rate_ca_standard",
			Country:      "CA",
			CombinedRate: decimal.RequireFromString("0.05"),
		},
		&taxrate.RateRow{
			ID:           "rate_ca_on_standard",
			Country:      "CA",
			State:        "ON",
			CombinedRate: decimal.RequireFromString("0.13"),
		},
		&taxrate.RateRow{
			ID:           "rate_ca_on_zip",
			Country:      "CA",
			State:        "ON",
			ZipCode:      "M5V 3L9",
			CombinedRate: decimal.RequireFromString("0.12"),
		},
	)

	loc := &ResolvedLocation{
		Country:           "CA",
		State:             "ON",
		PostalCode:        "M5V 3L9",
		KnownJurisdiction: true,
	}

	row, err := s.resolver.ResolveRate(s.GetContext(), loc, false, 2026)
	s.NoError(err)
	s.Equal("rate_ca_on_zip", row.ID)

	// Without the postal code the state row wins
	loc.PostalCode = ""
	row, err = s.resolver.ResolveRate(s.GetContext(), loc, false, 2026)
	s.NoError(err)
	s.Equal("rate_ca_on_standard", row.ID)
}

func (s *RateResolverSuite) TestEpublicationRowPreferredAtAnyScope() {
	s.addRows(
		&taxrate.RateRow{
			ID:           "rate_de_standard",
			Country:      "DE",
			CombinedRate: decimal.RequireFromString("0.19"),
		},
		&taxrate.RateRow{
			ID:                 "rate_de_epub",
			Country:            "DE",
			CombinedRate:       decimal.RequireFromString("0.07"),
			IsEpublicationRate: true,
		},
	)

	row, err := s.resolver.ResolveRate(s.GetContext(), s.location("DE"), true, 2026)
	s.NoError(err)
	s.Equal("rate_de_epub", row.ID)

	row, err = s.resolver.ResolveRate(s.GetContext(), s.location("DE"), false, 2026)
	s.NoError(err)
	s.Equal("rate_de_standard", row.ID)
}

func (s *RateResolverSuite) TestNoRowsYieldsNil() {
	row, err := s.resolver.ResolveRate(s.GetContext(), s.location("NO"), false, 2026)
	s.NoError(err)
	s.Nil(row)
}
