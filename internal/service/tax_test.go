package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/vendora/taxengine/internal/api/dto"
	"github.com/vendora/taxengine/internal/domain/provider"
	"github.com/vendora/taxengine/internal/domain/sale"
	"github.com/vendora/taxengine/internal/domain/taxrate"
	ierr "github.com/vendora/taxengine/internal/errors"
	"github.com/vendora/taxengine/internal/repository/memory"
	"github.com/vendora/taxengine/internal/testutil"
	"github.com/vendora/taxengine/internal/types"
)

type TaxServiceSuite struct {
	testutil.BaseServiceTestSuite
	service  TaxService
	provider *testutil.MockTaxProvider
	params   ServiceParams
}

func TestTaxService(t *testing.T) {
	suite.Run(t, new(TaxServiceSuite))
}

func (s *TaxServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.setupService()
}

func (s *TaxServiceSuite) setupService() {
	s.provider = testutil.NewMockTaxProvider()
	s.params = ServiceParams{
		Logger:        s.GetLogger(),
		Config:        s.GetConfig(),
		TaxRateRepo:   s.GetStores().TaxRateRepo,
		TaxProvider:   s.provider,
		Jurisdictions: types.NewJurisdictionRegistry(),
		Rollout:       types.NewRolloutConfig(),
	}
	s.service = NewTaxService(s.params)
}

func (s *TaxServiceSuite) addRow(row *taxrate.RateRow) {
	s.GetStores().TaxRateRepo.(*memory.TaxRateStore).Add(row)
}

func (s *TaxServiceSuite) seedShippedRates() {
	s.GetStores().TaxRateRepo.(*memory.TaxRateStore).Add(memory.SeedRateRows()...)
}

func digitalProduct() sale.TaxableProduct {
	return sale.TaxableProduct{
		NativeType: types.ProductTypeStandard,
	}
}

func (s *TaxServiceSuite) request(country string, priceCents int64) dto.CalculateTaxRequest {
	return dto.CalculateTaxRequest{
		Product:       digitalProduct(),
		PriceCents:    priceCents,
		BuyerLocation: sale.BuyerLocation{CountryCode: country},
	}
}

func (s *TaxServiceSuite) TestZeroPriceOwesNothing() {
	s.seedShippedRates()

	for _, country := range []string{"ES", "US", "CA", "AU", "XX"} {
		resp, err := s.service.Calculate(s.GetContext(), s.request(country, 0))
		s.NoError(err)
		s.Equal(int64(0), resp.TaxCents, "country %s", country)
		s.True(resp.UnroundedTax.IsZero())
	}
	s.Equal(0, s.provider.Calls())
}

func (s *TaxServiceSuite) TestNegativePriceFailsValidation() {
	req := s.request("ES", -100)

	resp, err := s.service.Calculate(s.GetContext(), req)
	s.Error(err)
	s.Nil(resp)
	s.True(ierr.IsValidation(err))
}

func (s *TaxServiceSuite) TestMissingCountryFailsValidation() {
	req := s.request("", 1000)

	resp, err := s.service.Calculate(s.GetContext(), req)
	s.Error(err)
	s.Nil(resp)
	s.True(ierr.IsValidation(err))
}

func (s *TaxServiceSuite) TestSpainStandardRate() {
	s.seedShippedRates()

	resp, err := s.service.Calculate(s.GetContext(), s.request("ES", 100))
	s.NoError(err)
	s.Equal(int64(21), resp.TaxCents)
	s.NotNil(resp.RateSource)
	s.Equal("rate_es_standard", resp.RateSource.ID)
	s.False(resp.UsedExternalProvider)

	// EU jurisdictions accept business-ID input even when none was supplied
	s.True(resp.HasBusinessTaxIDInput)
}

func (s *TaxServiceSuite) TestCalculationIsIdempotent() {
	s.seedShippedRates()

	first, err := s.service.Calculate(s.GetContext(), s.request("DE", 9999))
	s.NoError(err)
	second, err := s.service.Calculate(s.GetContext(), s.request("DE", 9999))
	s.NoError(err)

	s.Equal(first.TaxCents, second.TaxCents)
	s.True(first.UnroundedTax.Equal(second.UnroundedTax))
	s.Equal(first.RateSource.ID, second.RateSource.ID)
}

func (s *TaxServiceSuite) TestUnknownCountryYieldsZeroTax() {
	s.seedShippedRates()

	resp, err := s.service.Calculate(s.GetContext(), s.request("XX", 5000))
	s.NoError(err)
	s.Equal(int64(0), resp.TaxCents)
	s.Nil(resp.RateSource)
	s.Equal(0, s.provider.Calls())
}

func (s *TaxServiceSuite) TestProvinceRowBeatsCountryRow() {
	s.seedShippedRates()

	req := s.request("CA", 10000)
	req.BuyerLocation.State = "ON"
	req.BuyerLocation.PostalCode = "M5V 3L9"

	resp, err := s.service.Calculate(s.GetContext(), req)
	s.NoError(err)
	s.Equal(int64(1300), resp.TaxCents)
	s.Equal("rate_ca_on_standard", resp.RateSource.ID)
}

func (s *TaxServiceSuite) TestCanadaFallsBackToFederalRate() {
	s.seedShippedRates()

	// Alberta has no province row, the federal GST row applies
	req := s.request("CA", 10000)
	req.BuyerLocation.State = "AB"
	req.BuyerLocation.PostalCode = "T2P 1J9"

	resp, err := s.service.Calculate(s.GetContext(), req)
	s.NoError(err)
	s.Equal(int64(500), resp.TaxCents)
	s.Equal("rate_ca_standard", resp.RateSource.ID)
}

func (s *TaxServiceSuite) TestCanadaInvalidPostalCodeYieldsZeroTax() {
	s.seedShippedRates()

	req := s.request("CA", 10000)
	req.BuyerLocation.State = "ON"
	req.BuyerLocation.PostalCode = "99999"

	resp, err := s.service.Calculate(s.GetContext(), req)
	s.NoError(err)
	s.Equal(int64(0), resp.TaxCents)
	s.Nil(resp.RateSource)
}

func (s *TaxServiceSuite) TestEpublicationRateOverridesStandard() {
	s.seedShippedRates()

	req := s.request("GB", 10000)
	req.Product.IsEpublication = true

	resp, err := s.service.Calculate(s.GetContext(), req)
	s.NoError(err)

	// The UK zero-rates e-publications; the override applies even though the
	// resulting rate is lower than the standard one
	s.Equal(int64(0), resp.TaxCents)
	s.NotNil(resp.RateSource)
	s.Equal("rate_gb_epub", resp.RateSource.ID)
	s.True(resp.RateSource.IsEpublicationRate)
}

func (s *TaxServiceSuite) TestEpublicationFallsBackToStandardRate() {
	s.seedShippedRates()

	// Norway has no e-publication row, the standard 25% applies
	req := s.request("NO", 10000)
	req.Product.IsEpublication = true

	resp, err := s.service.Calculate(s.GetContext(), req)
	s.NoError(err)
	s.Equal(int64(2500), resp.TaxCents)
	s.Equal("rate_no_standard", resp.RateSource.ID)
}

func (s *TaxServiceSuite) TestRolloutGateSuppressesGatedCountry() {
	s.seedShippedRates()

	resp, err := s.service.Calculate(s.GetContext(), s.request("JP", 10000))
	s.NoError(err)
	s.Equal(int64(0), resp.TaxCents)
	s.Nil(resp.RateSource)
}

func (s *TaxServiceSuite) TestRolloutGateOpensWithoutDataDeploy() {
	s.seedShippedRates()
	s.params.Rollout = s.params.Rollout.Enable("JP")
	service := NewTaxService(s.params)

	resp, err := service.Calculate(s.GetContext(), s.request("JP", 10000))
	s.NoError(err)
	s.Equal(int64(1000), resp.TaxCents)
	s.Equal("rate_jp_standard", resp.RateSource.ID)
}

func (s *TaxServiceSuite) TestUSInvalidZipSkipsProvider() {
	req := s.request("US", 10000)
	req.BuyerLocation.State = "CA"
	req.BuyerLocation.PostalCode = "not-a-zip"
	req.Seller.NexusStates = []string{"CA"}

	resp, err := s.service.Calculate(s.GetContext(), req)
	s.NoError(err)
	s.Equal(int64(0), resp.TaxCents)
	s.Equal(0, s.provider.Calls())
}

func (s *TaxServiceSuite) TestUSMissingNexusSkipsProvider() {
	req := s.request("US", 10000)
	req.BuyerLocation.State = "CA"
	req.BuyerLocation.PostalCode = "94105"

	resp, err := s.service.Calculate(s.GetContext(), req)
	s.NoError(err)
	s.Equal(int64(0), resp.TaxCents)
	s.Equal(0, s.provider.Calls())
}

func (s *TaxServiceSuite) TestUSProviderResultRoundsHalfUp() {
	s.provider.SetResult(&provider.Result{
		CombinedRate:       decimal.RequireFromString("0.1025"),
		TaxableAmountCents: 1100,
	})

	req := s.request("US", 1000)
	req.BuyerLocation.State = "CA"
	req.BuyerLocation.PostalCode = "94105"
	req.Seller.NexusStates = []string{"CA"}
	req.ShippingCents = 100

	resp, err := s.service.Calculate(s.GetContext(), req)
	s.NoError(err)

	// 1100 * 0.1025 = 112.75, rounds half-up to 113
	s.Equal(int64(113), resp.TaxCents)
	s.True(resp.UnroundedTax.Equal(decimal.RequireFromString("112.75")))
	s.True(resp.UsedExternalProvider)
	s.NotNil(resp.ProviderBreakdown)
	s.Equal(1, s.provider.Calls())

	sent := s.provider.LastRequest()
	s.Equal(int64(1000), sent.AmountCents)
	s.Equal(int64(100), sent.ShippingCents)
	s.Equal("94105", sent.ToZip)
}

func (s *TaxServiceSuite) TestUSProviderFailurePropagates() {
	s.provider.SetError(ierr.NewError("upstream timeout").
		WithHint("The tax provider did not respond").
		Mark(ierr.ErrProviderUnavailable))

	req := s.request("US", 1000)
	req.BuyerLocation.State = "CA"
	req.BuyerLocation.PostalCode = "94105"
	req.Seller.NexusStates = []string{"CA"}

	resp, err := s.service.Calculate(s.GetContext(), req)
	s.Error(err)
	s.Nil(resp)
	s.True(ierr.IsProviderUnavailable(err))
	s.Equal(1, s.provider.Calls())
}

func (s *TaxServiceSuite) TestQuebecQSTReverseCharge() {
	s.seedShippedRates()

	req := s.request("CA", 10000)
	req.BuyerLocation.State = "QC"
	req.BuyerLocation.PostalCode = "H2Y 1C6"
	req.BuyerBusinessTaxID = "1234567890TQ1234"

	resp, err := s.service.Calculate(s.GetContext(), req)
	s.NoError(err)
	s.Equal(int64(0), resp.TaxCents)
	s.True(resp.HasBusinessTaxIDInput)
}

func (s *TaxServiceSuite) TestQSTIDIgnoredOutsideQuebec() {
	s.seedShippedRates()

	req := s.request("CA", 10000)
	req.BuyerLocation.State = "ON"
	req.BuyerLocation.PostalCode = "M5V 3L9"
	req.BuyerBusinessTaxID = "1234567890TQ1234"

	resp, err := s.service.Calculate(s.GetContext(), req)
	s.NoError(err)
	s.Equal(int64(1300), resp.TaxCents)
	s.False(resp.HasBusinessTaxIDInput)
}

func (s *TaxServiceSuite) TestEUVATIDReverseCharge() {
	s.seedShippedRates()

	req := s.request("DE", 10000)
	req.BuyerBusinessTaxID = "DE123456789"

	resp, err := s.service.Calculate(s.GetContext(), req)
	s.NoError(err)
	s.Equal(int64(0), resp.TaxCents)
	s.True(resp.HasBusinessTaxIDInput)
}

func (s *TaxServiceSuite) TestMalformedVATIDStillCollects() {
	s.seedShippedRates()

	req := s.request("DE", 10000)
	req.BuyerBusinessTaxID = "12345"

	resp, err := s.service.Calculate(s.GetContext(), req)
	s.NoError(err)
	s.Equal(int64(1900), resp.TaxCents)
	s.True(resp.HasBusinessTaxIDInput)
}

func (s *TaxServiceSuite) TestFacilitatorOverridesConfirmedBusinessID() {
	s.seedShippedRates()

	policy, ok := s.params.Jurisdictions.Lookup("DE")
	s.Require().True(ok)
	policy.FacilitatorOverridesBusinessID = true
	s.params.Jurisdictions.Register(policy)
	service := NewTaxService(s.params)

	req := s.request("DE", 10000)
	req.BuyerBusinessTaxID = "DE123456789"

	resp, err := service.Calculate(s.GetContext(), req)
	s.NoError(err)
	s.Equal(int64(1900), resp.TaxCents)
	s.True(resp.HasBusinessTaxIDInput)
}

func (s *TaxServiceSuite) TestSellerResponsibleRowSuppressesCollection() {
	s.addRow(&taxrate.RateRow{
		ID:                  "rate_no_standard",
		Country:             "NO",
		CombinedRate:        decimal.RequireFromString("0.25"),
		IsSellerResponsible: true,
	})

	resp, err := s.service.Calculate(s.GetContext(), s.request("NO", 10000))
	s.NoError(err)
	s.Equal(int64(0), resp.TaxCents)

	// The matched row still rides along for receipt display
	s.NotNil(resp.RateSource)
	s.Equal("rate_no_standard", resp.RateSource.ID)
}

func (s *TaxServiceSuite) TestSellerOptInRestoresCollection() {
	s.addRow(&taxrate.RateRow{
		ID:                  "rate_no_standard",
		Country:             "NO",
		CombinedRate:        decimal.RequireFromString("0.25"),
		IsSellerResponsible: true,
	})

	req := s.request("NO", 10000)
	req.Seller.OptedInToVATCollection = true

	resp, err := s.service.Calculate(s.GetContext(), req)
	s.NoError(err)
	s.Equal(int64(2500), resp.TaxCents)
}

func (s *TaxServiceSuite) TestFacilitatorCollectsOnSellerResponsibleRow() {
	s.addRow(&taxrate.RateRow{
		ID:                  "rate_fr_standard",
		Country:             "FR",
		CombinedRate:        decimal.RequireFromString("0.20"),
		IsSellerResponsible: true,
	})

	// EU marketplace-facilitator rules collect on digital sales regardless of
	// the row's seller-responsibility flag
	resp, err := s.service.Calculate(s.GetContext(), s.request("FR", 10000))
	s.NoError(err)
	s.Equal(int64(2000), resp.TaxCents)
}

func (s *TaxServiceSuite) TestDisallowedSettlementCountryYieldsZeroTax() {
	s.seedShippedRates()

	req := s.request("ES", 10000)
	req.Seller.MerchantAccountCountry = "BR"

	resp, err := s.service.Calculate(s.GetContext(), req)
	s.NoError(err)
	s.Equal(int64(0), resp.TaxCents)
	s.Nil(resp.RateSource)
}

func (s *TaxServiceSuite) TestPhysicalGoodsExemptOutsideUS() {
	s.seedShippedRates()

	req := s.request("GB", 10000)
	req.Product.IsPhysical = true

	resp, err := s.service.Calculate(s.GetContext(), req)
	s.NoError(err)
	s.Equal(int64(0), resp.TaxCents)
}

func (s *TaxServiceSuite) TestRoundingAppliedExactlyOnce() {
	s.addRow(&taxrate.RateRow{
		ID:           "rate_de_standard",
		Country:      "DE",
		CombinedRate: decimal.RequireFromString("0.19"),
	})

	// 33 * 0.19 = 6.27 rounds to 6; the fractional value survives unrounded
	resp, err := s.service.Calculate(s.GetContext(), s.request("DE", 33))
	s.NoError(err)
	s.Equal(int64(6), resp.TaxCents)
	s.True(resp.UnroundedTax.Equal(decimal.RequireFromString("6.27")))
}

func (s *TaxServiceSuite) TestBusinessIDFlagSetWithoutSuppliedID() {
	s.seedShippedRates()

	// Australia and Singapore take business-ID input, so the flag is on for
	// their sales even when no ID was supplied; the UK takes none
	resp, err := s.service.Calculate(s.GetContext(), s.request("AU", 10000))
	s.NoError(err)
	s.Equal(int64(1000), resp.TaxCents)
	s.True(resp.HasBusinessTaxIDInput)

	resp, err = s.service.Calculate(s.GetContext(), s.request("SG", 10000))
	s.NoError(err)
	s.True(resp.HasBusinessTaxIDInput)

	resp, err = s.service.Calculate(s.GetContext(), s.request("GB", 10000))
	s.NoError(err)
	s.False(resp.HasBusinessTaxIDInput)
}

func (s *TaxServiceSuite) TestEpublicationCascadeGatedByPolicy() {
	// A reduced row without the jurisdiction policy flag stays inert; the
	// registry decides whether the reduced cascade runs at all
	s.addRow(&taxrate.RateRow{
		ID:           "rate_no_standard",
		Country:      "NO",
		CombinedRate: decimal.RequireFromString("0.25"),
	})
	s.addRow(&taxrate.RateRow{
		ID:                 "rate_no_epub",
		Country:            "NO",
		CombinedRate:       decimal.RequireFromString("0.00"),
		IsEpublicationRate: true,
	})

	req := s.request("NO", 10000)
	req.Product.IsEpublication = true

	resp, err := s.service.Calculate(s.GetContext(), req)
	s.NoError(err)
	s.Equal(int64(2500), resp.TaxCents)
	s.Equal("rate_no_standard", resp.RateSource.ID)
}

func (s *TaxServiceSuite) TestListRates() {
	s.seedShippedRates()

	resp, err := s.service.ListRates(s.GetContext())
	s.NoError(err)
	s.Len(resp.Items, len(memory.SeedRateRows()))
}

func (s *TaxServiceSuite) TestListCountryRates() {
	s.seedShippedRates()

	resp, err := s.service.ListCountryRates(s.GetContext(), "ca")
	s.NoError(err)
	s.Len(resp.Items, 7)
	for _, item := range resp.Items {
		s.Equal("CA", item.Country)
	}

	_, err = s.service.ListCountryRates(s.GetContext(), "")
	s.Error(err)
	s.True(ierr.IsValidation(err))
}
