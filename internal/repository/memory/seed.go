package memory

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/vendora/taxengine/internal/domain/taxrate"
	"github.com/vendora/taxengine/internal/types"
)

// Rate dataset shipped with the engine. Country-wide VAT/GST rates, the
// reduced e-publication rates for jurisdictions that adopted them, and
// Canadian province-level rows. Gated jurisdictions are pre-seeded so that
// flipping their rollout switch needs no data deploy.

type seedEntry struct {
	country string
	state   string
	rate    string
	epub    bool
	years   []int
}

func (e seedEntry) row() *taxrate.RateRow {
	kind := "standard"
	if e.epub {
		kind = "epub"
	}
	idParts := []string{types.UUID_PREFIX_RATE_ROW, strings.ToLower(e.country)}
	if e.state != "" {
		idParts = append(idParts, strings.ToLower(e.state))
	}
	idParts = append(idParts, kind)
	if len(e.years) > 0 {
		idParts = append(idParts, fmt.Sprintf("%d", e.years[0]))
	}

	return &taxrate.RateRow{
		ID:                 strings.Join(idParts, "_"),
		Country:            e.country,
		State:              e.state,
		CombinedRate:       decimal.RequireFromString(e.rate),
		IsEpublicationRate: e.epub,
		ApplicableYears:    e.years,
	}
}

// SeedRateRows builds the shipped dataset
func SeedRateRows() []*taxrate.RateRow {
	entries := []seedEntry{
		// EU standard VAT
		{country: "AT", rate: "0.20"},
		{country: "BE", rate: "0.21"},
		{country: "BG", rate: "0.20"},
		{country: "HR", rate: "0.25"},
		{country: "CY", rate: "0.19"},
		{country: "CZ", rate: "0.21"},
		{country: "DK", rate: "0.25"},
		{country: "EE", rate: "0.20", years: []int{2020, 2021, 2022, 2023}},
		{country: "EE", rate: "0.22", years: []int{2024}},
		{country: "FI", rate: "0.24", years: []int{2020, 2021, 2022, 2023}},
		{country: "FI", rate: "0.255", years: []int{2024}},
		{country: "FR", rate: "0.20"},
		{country: "DE", rate: "0.19"},
		{country: "GR", rate: "0.24"},
		{country: "HU", rate: "0.27"},
		{country: "IE", rate: "0.23"},
		{country: "IT", rate: "0.22"},
		{country: "LV", rate: "0.21"},
		{country: "LT", rate: "0.21"},
		{country: "LU", rate: "0.17"},
		{country: "MT", rate: "0.18"},
		{country: "NL", rate: "0.21"},
		{country: "PL", rate: "0.23"},
		{country: "PT", rate: "0.23"},
		{country: "RO", rate: "0.19"},
		{country: "SK", rate: "0.20"},
		{country: "SI", rate: "0.22"},
		{country: "ES", rate: "0.21"},
		{country: "SE", rate: "0.25"},

		// EU reduced e-publication rates
		{country: "AT", rate: "0.10", epub: true},
		{country: "BE", rate: "0.06", epub: true},
		{country: "DE", rate: "0.07", epub: true},
		{country: "ES", rate: "0.04", epub: true},
		{country: "FI", rate: "0.10", epub: true},
		{country: "FR", rate: "0.055", epub: true},
		{country: "IE", rate: "0.00", epub: true},
		{country: "IT", rate: "0.04", epub: true},
		{country: "LU", rate: "0.03", epub: true},
		{country: "MT", rate: "0.05", epub: true},
		{country: "NL", rate: "0.09", epub: true},
		{country: "PL", rate: "0.05", epub: true},
		{country: "PT", rate: "0.06", epub: true},
		{country: "SE", rate: "0.06", epub: true},
		{country: "SI", rate: "0.05", epub: true},

		// Other always-on markets
		{country: "GB", rate: "0.20"},
		{country: "GB", rate: "0.00", epub: true},
		{country: "NO", rate: "0.25"},
		{country: "AU", rate: "0.10"},
		{country: "SG", rate: "0.07", years: []int{2020, 2021, 2022}},
		{country: "SG", rate: "0.08", years: []int{2023}},
		{country: "SG", rate: "0.09", years: []int{2024}},

		// Canada: federal GST country-wide, HST/QST provinces narrower
		{country: "CA", rate: "0.05"},
		{country: "CA", state: "ON", rate: "0.13"},
		{country: "CA", state: "NB", rate: "0.15"},
		{country: "CA", state: "NL", rate: "0.15"},
		{country: "CA", state: "NS", rate: "0.15"},
		{country: "CA", state: "PE", rate: "0.15"},
		{country: "CA", state: "QC", rate: "0.14975"},

		// Gated jurisdictions, pre-seeded behind their rollout switches
		{country: "AE", rate: "0.05"},
		{country: "BH", rate: "0.10"},
		{country: "BY", rate: "0.20"},
		{country: "CH", rate: "0.081"},
		{country: "CL", rate: "0.19"},
		{country: "CO", rate: "0.19"},
		{country: "CR", rate: "0.13"},
		{country: "EC", rate: "0.15"},
		{country: "EG", rate: "0.14"},
		{country: "GE", rate: "0.18"},
		{country: "ID", rate: "0.11"},
		{country: "IS", rate: "0.24"},
		{country: "JP", rate: "0.10"},
		{country: "KE", rate: "0.16"},
		{country: "KR", rate: "0.10"},
		{country: "KZ", rate: "0.12"},
		{country: "MD", rate: "0.20"},
		{country: "MX", rate: "0.16"},
		{country: "MY", rate: "0.08"},
		{country: "NG", rate: "0.075"},
		{country: "NZ", rate: "0.15"},
		{country: "OM", rate: "0.05"},
		{country: "RS", rate: "0.20"},
		{country: "TH", rate: "0.07"},
		{country: "TR", rate: "0.20"},
		{country: "TW", rate: "0.05"},
		{country: "UA", rate: "0.20"},
		{country: "UZ", rate: "0.12"},
		{country: "VN", rate: "0.10"},
		{country: "ZA", rate: "0.15"},
	}

	rows := make([]*taxrate.RateRow, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, entry.row())
	}
	return rows
}
