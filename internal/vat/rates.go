package vat

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Rate types stored in the reference table.
const (
	RateTypeStandard = "standard"
	RateTypeReduced  = "reduced"
)

// Documented defaults used when the reference table has no row for a date.
var (
	DefaultStandardRate = decimal.RequireFromString("0.21")
	DefaultReducedRate  = decimal.RequireFromString("0.09")
)

// Rate is one versioned row of the VAT rate reference table.
type Rate struct {
	CountryCode   string
	RateType      string
	Rate          decimal.Decimal // fraction, 0.21 = 21%
	EffectiveFrom time.Time
	EffectiveTo   *time.Time // nil = still in force
}

// ValidOn reports whether the row applies on day.
func (r Rate) ValidOn(day time.Time) bool {
	if day.Before(r.EffectiveFrom) {
		return false
	}
	return r.EffectiveTo == nil || !day.After(*r.EffectiveTo)
}

// RateTable is an immutable lookup over versioned VAT rates. It is safe for
// concurrent use because nothing mutates it after NewRateTable returns.
type RateTable struct {
	rows map[string][]Rate // "NL/standard" -> rows sorted by EffectiveFrom desc
}

// NewRateTable validates rows and indexes them by country and rate type.
// Overlapping validity ranges for the same country and rate type are rejected.
func NewRateTable(rows []Rate) (*RateTable, error) {
	idx := make(map[string][]Rate)
	for i, r := range rows {
		if !validCountryCode(r.CountryCode) {
			return nil, fmt.Errorf("rate %d: invalid country code %q", i, r.CountryCode)
		}
		if r.RateType == "" {
			return nil, fmt.Errorf("rate %d: missing rate type", i)
		}
		if r.Rate.IsNegative() || r.Rate.GreaterThan(decimal.NewFromInt(1)) {
			return nil, fmt.Errorf("rate %d: rate %s outside 0..1", i, r.Rate)
		}
		if r.EffectiveTo != nil && r.EffectiveTo.Before(r.EffectiveFrom) {
			return nil, fmt.Errorf("rate %d: effective_to before effective_from", i)
		}
		r.CountryCode = canonicalCountry(r.CountryCode)
		k := rateKey(r.CountryCode, r.RateType)
		idx[k] = append(idx[k], r)
	}

	for k, rs := range idx {
		sort.Slice(rs, func(i, j int) bool { return rs[i].EffectiveFrom.After(rs[j].EffectiveFrom) })
		for i := 1; i < len(rs); i++ {
			older, newer := rs[i], rs[i-1]
			if older.EffectiveTo == nil || !older.EffectiveTo.Before(newer.EffectiveFrom) {
				return nil, fmt.Errorf("rates for %s overlap at %s", k, newer.EffectiveFrom.Format("2006-01-02"))
			}
		}
	}
	return &RateTable{rows: idx}, nil
}

// Lookup returns the rate of rateType in force in country on day.
func (t *RateTable) Lookup(country, rateType string, day time.Time) (decimal.Decimal, bool) {
	if t == nil {
		return decimal.Zero, false
	}
	for _, r := range t.rows[rateKey(canonicalCountry(country), rateType)] {
		if r.ValidOn(day) {
			return r.Rate, true
		}
	}
	return decimal.Zero, false
}

// Current returns every row for country that is in force on day, ordered by rate type.
func (t *RateTable) Current(country string, day time.Time) []Rate {
	if t == nil {
		return nil
	}
	prefix := canonicalCountry(country) + "/"
	var out []Rate
	for k, rs := range t.rows {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		for _, r := range rs {
			if r.ValidOn(day) {
				out = append(out, r)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RateType < out[j].RateType })
	return out
}

func rateKey(country, rateType string) string {
	return country + "/" + rateType
}
