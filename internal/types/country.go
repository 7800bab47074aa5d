package types

import (
	"regexp"
	"strings"

	"github.com/samber/lo"
)

const (
	CountryUS            = "US"
	CountryCanada        = "CA"
	CountryAustralia     = "AU"
	CountrySingapore     = "SG"
	CountryNorway        = "NO"
	CountryUK            = "GB"
	CountryNewZealand    = "NZ"
	CountrySwitzerland   = "CH"
	CountryJapan         = "JP"
	CountryIceland       = "IS"
	CountryBrazil        = "BR"
	ProvinceQuebec       = "QC"
	ProvinceQuebecLegacy = "QUEBEC"
)

// euMemberStates is the set of EU member states charging VAT under the
// one-stop-shop scheme, keyed by ISO-3166 alpha-2 code.
var euMemberStates = []string{
	"AT", "BE", "BG", "HR", "CY", "CZ", "DK", "EE", "FI", "FR",
	"DE", "GR", "HU", "IE", "IT", "LV", "LT", "LU", "MT", "NL",
	"PL", "PT", "RO", "SK", "SI", "ES", "SE",
}

// IsEUMemberState reports whether the country charges VAT as an EU member state
func IsEUMemberState(countryCode string) bool {
	return lo.Contains(euMemberStates, NormalizeCountryCode(countryCode))
}

// EUMemberStates returns a copy of the EU member state codes
func EUMemberStates() []string {
	out := make([]string, len(euMemberStates))
	copy(out, euMemberStates)
	return out
}

// NormalizeCountryCode uppercases and trims an ISO-3166 alpha-2 code
func NormalizeCountryCode(countryCode string) string {
	return strings.ToUpper(strings.TrimSpace(countryCode))
}

// NormalizeStateCode uppercases and trims a state/province code
func NormalizeStateCode(state string) string {
	return strings.ToUpper(strings.TrimSpace(state))
}

// IsQuebec reports whether a Canadian province value names Quebec. Buyers
// enter either the two-letter code or the full province name.
func IsQuebec(state string) bool {
	normalized := NormalizeStateCode(state)
	return normalized == ProvinceQuebec || normalized == ProvinceQuebecLegacy
}

var (
	usZipCodeRegex     = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
	caPostalCodeRegex  = regexp.MustCompile(`^[A-Za-z]\d[A-Za-z]\s?\d[A-Za-z]\d$`)
	usStateCodeRegex   = regexp.MustCompile(`^[A-Z]{2}$`)
	countryCodeRegex   = regexp.MustCompile(`^[A-Z]{2}$`)
	caProvinceCodeList = []string{"AB", "BC", "MB", "NB", "NL", "NS", "NT", "NU", "ON", "PE", "QC", "SK", "YT"}
)

// IsValidCountryCode reports whether the code looks like ISO-3166 alpha-2
func IsValidCountryCode(countryCode string) bool {
	return countryCodeRegex.MatchString(NormalizeCountryCode(countryCode))
}

// IsValidUSZipCode validates 5-digit and ZIP+4 formats
func IsValidUSZipCode(zipCode string) bool {
	return usZipCodeRegex.MatchString(strings.TrimSpace(zipCode))
}

// IsValidUSStateCode validates a two-letter US state code
func IsValidUSStateCode(state string) bool {
	return usStateCodeRegex.MatchString(NormalizeStateCode(state))
}

// IsValidCAPostalCode validates the A1A 1A1 Canadian postal format
func IsValidCAPostalCode(postalCode string) bool {
	return caPostalCodeRegex.MatchString(strings.TrimSpace(postalCode))
}

// IsValidCAProvinceCode validates a two-letter Canadian province code
func IsValidCAProvinceCode(state string) bool {
	return lo.Contains(caProvinceCodeList, NormalizeStateCode(state))
}
