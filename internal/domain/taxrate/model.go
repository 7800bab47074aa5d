package taxrate

import (
	"slices"

	"github.com/shopspring/decimal"
)

// RateRow is one entry of the jurisdiction rate dataset. Scope narrows from
// country-wide (State and ZipCode empty) down to a single postal code. Rows
// for a given (country, state, zip, epublication) tuple are disjoint per year.
type RateRow struct {
	ID                  string          `json:"id"`
	Country             string          `json:"country"`
	State               string          `json:"state,omitempty"`
	ZipCode             string          `json:"zip_code,omitempty"`
	CombinedRate        decimal.Decimal `json:"combined_rate"`
	IsSellerResponsible bool            `json:"is_seller_responsible"`
	IsEpublicationRate  bool            `json:"is_epublication_rate"`
	ApplicableYears     []int           `json:"applicable_years,omitempty"`
}

// AppliesToYear reports whether the row covers a calendar year. An empty
// year set means the row always applies.
func (r *RateRow) AppliesToYear(year int) bool {
	if len(r.ApplicableYears) == 0 {
		return true
	}
	return slices.Contains(r.ApplicableYears, year)
}

// MaxApplicableYear returns the latest year the row is explicitly scoped to.
// The second return is false for always-applicable rows.
func (r *RateRow) MaxApplicableYear() (int, bool) {
	if len(r.ApplicableYears) == 0 {
		return 0, false
	}
	return slices.Max(r.ApplicableYears), true
}

// Scope identifies one node of the zip > state > country cascade
type Scope struct {
	Country string
	State   string
	ZipCode string
}

// Specificity orders scopes for the cascade, higher is more specific
func (s Scope) Specificity() int {
	specificity := 0
	if s.State != "" {
		specificity++
	}
	if s.ZipCode != "" {
		specificity++
	}
	return specificity
}

// Matches reports whether a row belongs to exactly this scope
func (r *RateRow) Matches(scope Scope) bool {
	return r.Country == scope.Country && r.State == scope.State && r.ZipCode == scope.ZipCode
}
