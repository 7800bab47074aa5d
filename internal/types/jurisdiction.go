package types

// BusinessIDAuthority identifies which issuing authority's format a buyer
// business tax ID is validated against.
type BusinessIDAuthority string

const (
	BusinessIDAuthorityNone  BusinessIDAuthority = ""
	BusinessIDAuthorityEUVAT BusinessIDAuthority = "eu_vat"
	BusinessIDAuthorityCAQST BusinessIDAuthority = "ca_qst"
	BusinessIDAuthorityAUABN BusinessIDAuthority = "au_abn"
	BusinessIDAuthoritySGGST BusinessIDAuthority = "sg_gst"
)

// JurisdictionPolicy describes how tax is determined for one country.
// Adding a country is a registry data change, not a code change.
type JurisdictionPolicy struct {
	Country string `json:"country"`

	// AlwaysOn jurisdictions bypass the rollout gate
	AlwaysOn bool `json:"always_on"`

	// UsesExternalProvider routes the calculation to the external tax
	// provider instead of the domestic rate table
	UsesExternalProvider bool `json:"uses_external_provider"`

	// HasEpublicationRate marks jurisdictions carrying a reduced rate for
	// digital publications
	HasEpublicationRate bool `json:"has_epublication_rate"`

	// SupportsBusinessID marks jurisdictions where a buyer business tax ID
	// is conceptually part of the sale, whether or not one was supplied
	SupportsBusinessID  bool                `json:"supports_business_id"`
	BusinessIDAuthority BusinessIDAuthority `json:"business_id_authority,omitempty"`

	// ReverseCharge allows a confirmed business buyer to self-assess,
	// zeroing the collected tax
	ReverseCharge bool `json:"reverse_charge"`

	// FacilitatorCollection forces platform collection on digital sales
	// regardless of the rate row's seller-responsibility flag
	FacilitatorCollection bool `json:"facilitator_collection"`

	// FacilitatorOverridesBusinessID forces collection even when a valid
	// business ID is supplied; the ID is kept for receipt display only
	FacilitatorOverridesBusinessID bool `json:"facilitator_overrides_business_id"`

	// TaxesPhysicalGoods marks jurisdictions whose rate rows also cover
	// physical goods; elsewhere physical products are out of scope
	TaxesPhysicalGoods bool `json:"taxes_physical_goods"`
}

// JurisdictionRegistry maps country codes to their tax policy descriptors
type JurisdictionRegistry struct {
	policies map[string]JurisdictionPolicy
}

// euEpublicationStates are EU members that have adopted the reduced
// e-publication VAT rate
var euEpublicationStates = map[string]bool{
	"AT": true, "BE": true, "DE": true, "ES": true, "FI": true,
	"FR": true, "IE": true, "IT": true, "LU": true, "MT": true,
	"NL": true, "PL": true, "PT": true, "SE": true, "SI": true,
}

// gatedCountries are jurisdictions with pre-seeded rate data that stay dark
// until their per-country rollout switch is flipped
var gatedCountries = []string{
	"AE", "BH", "BY", "CH", "CL", "CO", "CR", "EC", "EG", "GE",
	"ID", "IS", "JP", "KE", "KR", "KZ", "MD", "MX", "MY", "NG",
	"NZ", "OM", "RS", "TH", "TR", "TW", "UA", "UZ", "VN", "ZA",
}

// NewJurisdictionRegistry seeds the default per-country policy set
func NewJurisdictionRegistry() *JurisdictionRegistry {
	r := &JurisdictionRegistry{policies: make(map[string]JurisdictionPolicy)}

	for _, country := range EUMemberStates() {
		r.Register(JurisdictionPolicy{
			Country:               country,
			AlwaysOn:              true,
			HasEpublicationRate:   euEpublicationStates[country],
			SupportsBusinessID:    true,
			BusinessIDAuthority:   BusinessIDAuthorityEUVAT,
			ReverseCharge:         true,
			FacilitatorCollection: true,
		})
	}

	r.Register(JurisdictionPolicy{
		Country:              CountryUS,
		AlwaysOn:             true,
		UsesExternalProvider: true,
		TaxesPhysicalGoods:   true,
	})

	r.Register(JurisdictionPolicy{
		Country:             CountryCanada,
		AlwaysOn:            true,
		SupportsBusinessID:  true,
		BusinessIDAuthority: BusinessIDAuthorityCAQST,
		ReverseCharge:       true,
	})

	r.Register(JurisdictionPolicy{
		Country:             CountryAustralia,
		AlwaysOn:            true,
		SupportsBusinessID:  true,
		BusinessIDAuthority: BusinessIDAuthorityAUABN,
		ReverseCharge:       true,
	})

	r.Register(JurisdictionPolicy{
		Country:             CountrySingapore,
		AlwaysOn:            true,
		SupportsBusinessID:  true,
		BusinessIDAuthority: BusinessIDAuthoritySGGST,
		ReverseCharge:       true,
	})

	r.Register(JurisdictionPolicy{Country: CountryNorway, AlwaysOn: true})

	// The UK zero-rates e-publications
	r.Register(JurisdictionPolicy{
		Country:             CountryUK,
		AlwaysOn:            true,
		HasEpublicationRate: true,
	})

	for _, country := range gatedCountries {
		r.Register(JurisdictionPolicy{Country: country})
	}

	return r
}

// Register adds or replaces a country policy
func (r *JurisdictionRegistry) Register(policy JurisdictionPolicy) {
	r.policies[NormalizeCountryCode(policy.Country)] = policy
}

// Lookup returns the policy for a country, if one is registered. An
// unregistered country is a valid zero-tax outcome, never an error.
func (r *JurisdictionRegistry) Lookup(countryCode string) (JurisdictionPolicy, bool) {
	policy, ok := r.policies[NormalizeCountryCode(countryCode)]
	return policy, ok
}

// Countries returns the registered country codes
func (r *JurisdictionRegistry) Countries() []string {
	countries := make([]string, 0, len(r.policies))
	for country := range r.policies {
		countries = append(countries, country)
	}
	return countries
}
