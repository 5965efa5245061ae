package vat

import (
	"sort"
	"strings"
)

// EUMemberStates are the 27 EU member states by ISO-3166 alpha-2 code.
var EUMemberStates = []string{
	"AT", "BE", "BG", "CY", "CZ", "DE", "DK", "EE", "ES", "FI",
	"FR", "GR", "HR", "HU", "IE", "IT", "LT", "LU", "LV", "MT",
	"NL", "PL", "PT", "RO", "SE", "SI", "SK",
}

// CountrySet is an immutable set of country codes.
type CountrySet struct {
	codes map[string]struct{}
}

// NewCountrySet builds a set from codes. Codes are upper-cased and the VAT
// prefix EL is stored as GR.
func NewCountrySet(codes []string) CountrySet {
	m := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		m[canonicalCountry(c)] = struct{}{}
	}
	return CountrySet{codes: m}
}

// Contains reports whether code is in the set.
func (s CountrySet) Contains(code string) bool {
	_, ok := s.codes[canonicalCountry(code)]
	return ok
}

// Len returns the number of countries.
func (s CountrySet) Len() int {
	return len(s.codes)
}

// Codes returns the sorted country codes.
func (s CountrySet) Codes() []string {
	out := make([]string, 0, len(s.codes))
	for c := range s.codes {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Greece uses EL as its VAT prefix but GR in ISO-3166.
func canonicalCountry(code string) string {
	c := strings.ToUpper(strings.TrimSpace(code))
	if c == "EL" {
		return "GR"
	}
	return c
}

func validCountryCode(code string) bool {
	if len(code) != 2 {
		return false
	}
	for _, r := range code {
		if (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') {
			return false
		}
	}
	return true
}
