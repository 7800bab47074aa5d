package types

import (
	"regexp"
	"strings"
)

var (
	// Country prefix followed by 2-12 characters, per the VIES format family.
	// Individual member states vary; format validation is the gate here, the
	// authoritative confirmation happens out of band.
	euVatIDRegex = regexp.MustCompile(`^[A-Z]{2}[0-9A-Z]{2,12}$`)

	// Revenu Quebec QST registration: 10 digits, "TQ", 4-digit suffix
	caQSTIDRegex = regexp.MustCompile(`^\d{10}TQ\d{4}$`)

	// Australian Business Number: 11 digits
	auABNRegex = regexp.MustCompile(`^\d{11}$`)

	// IRAS GST registration: UEN-style or M-prefixed GST number
	sgGSTRegex = regexp.MustCompile(`^(M[0-9A-Z]\d{7}[0-9A-Z]|\d{8,9}[A-Z]|T\d{2}[A-Z]{2}\d{4}[A-Z])$`)
)

// ValidateBusinessID checks a buyer-supplied business tax ID against the
// issuing authority's published format. It deliberately stops at format:
// registry liveness checks are the caller's concern.
func ValidateBusinessID(authority BusinessIDAuthority, businessID string) bool {
	id := normalizeBusinessID(businessID)
	if id == "" {
		return false
	}

	switch authority {
	case BusinessIDAuthorityEUVAT:
		return euVatIDRegex.MatchString(id)
	case BusinessIDAuthorityCAQST:
		return caQSTIDRegex.MatchString(id)
	case BusinessIDAuthorityAUABN:
		return auABNRegex.MatchString(id)
	case BusinessIDAuthoritySGGST:
		return sgGSTRegex.MatchString(id)
	default:
		return false
	}
}

func normalizeBusinessID(businessID string) string {
	id := strings.ToUpper(strings.TrimSpace(businessID))
	id = strings.ReplaceAll(id, " ", "")
	id = strings.ReplaceAll(id, "-", "")
	id = strings.ReplaceAll(id, ".", "")
	return id
}
