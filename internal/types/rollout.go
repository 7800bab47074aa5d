package types

// RolloutConfig holds the per-country collection switches for jurisdictions
// outside the always-on set. It is an explicit value handed to the
// orchestrator at construction so calculations stay pure and testable.
type RolloutConfig struct {
	EnabledCountries map[string]bool `mapstructure:"enabled_countries"`
}

// NewRolloutConfig returns an empty rollout config with every gate closed
func NewRolloutConfig() RolloutConfig {
	return RolloutConfig{EnabledCountries: make(map[string]bool)}
}

// Enabled reports whether collection has been switched on for a country
func (c RolloutConfig) Enabled(countryCode string) bool {
	if c.EnabledCountries == nil {
		return false
	}
	return c.EnabledCountries[NormalizeCountryCode(countryCode)]
}

// Normalized returns a copy whose country keys are canonical uppercase
// codes. Viper lowercases map keys while unmarshaling, so a yaml
// `enabled_countries: {JP: true}` arrives as "jp" and would never match a
// lookup otherwise.
func (c RolloutConfig) Normalized() RolloutConfig {
	normalized := NewRolloutConfig()
	for country, enabled := range c.EnabledCountries {
		if enabled {
			normalized.EnabledCountries[NormalizeCountryCode(country)] = true
		}
	}
	return normalized
}

// Enable flips a country's gate open, returning the updated config
func (c RolloutConfig) Enable(countryCode string) RolloutConfig {
	if c.EnabledCountries == nil {
		c.EnabledCountries = make(map[string]bool)
	}
	c.EnabledCountries[NormalizeCountryCode(countryCode)] = true
	return c
}
