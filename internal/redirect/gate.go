// Package redirect contains the pure redirect-decision logic: the country
// gate predicate and the round-robin fallback sequencer. No I/O happens here;
// every entry surface calls into this package instead of re-deriving policy.
package redirect

import "strings"

// UnknownCountry is the sentinel produced when geolocation fails.
const UnknownCountry = "XX"

// worldwide is the normalized form of the "no country restriction" token.
const worldwide = "WORLDWIDE"

// countryAliases maps lowercased allow-list tokens to ISO 3166-1 alpha-2
// codes. Admin-entered lists mix codes, full names, and the worldwide token.
var countryAliases = map[string]string{
	"worldwide": worldwide,
	"ww":        worldwide,

	"india":          "IN",
	"usa":            "US",
	"united states":  "US",
	"uk":             "GB",
	"united kingdom": "GB",
	"canada":         "CA",
	"australia":      "AU",
	"germany":        "DE",
	"france":         "FR",
	"spain":          "ES",
	"italy":          "IT",
	"brazil":         "BR",
	"mexico":         "MX",
	"japan":          "JP",
	"netherlands":    "NL",
	"singapore":      "SG",
	"uae":            "AE",
	"south africa":   "ZA",
}

// NormalizeCountryToken resolves a raw allow-list token to an uppercase
// country code or the worldwide marker. Unrecognized tokens are uppercased
// as-is so plain ISO codes pass through.
func NormalizeCountryToken(token string) string {
	t := strings.ToLower(strings.TrimSpace(token))
	if t == "" {
		return ""
	}
	if code, ok := countryAliases[t]; ok {
		return code
	}
	return strings.ToUpper(t)
}

// Allowed reports whether a visitor with the given country code passes the
// rule's allow-list.
//
// An absent or empty list is open to everyone. A worldwide token anywhere in
// the list admits every visitor, including unresolved ones. Otherwise an
// unresolved country (the "XX" sentinel) is denied: the gate fails closed.
func Allowed(allowed []string, userCountry string) bool {
	if len(allowed) == 0 {
		return true
	}

	user := strings.ToUpper(strings.TrimSpace(userCountry))

	match := false
	for _, token := range allowed {
		norm := NormalizeCountryToken(token)
		if norm == worldwide {
			return true
		}
		if norm != "" && norm == user {
			match = true
		}
	}

	if user == "" || user == UnknownCountry {
		return false
	}
	return match
}
