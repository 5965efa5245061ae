package vat

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zzpboek/zzpbtw/internal/model"
)

// HomeCountry is the seller's VAT jurisdiction.
const HomeCountry = "NL"

var (
	hundred   = decimal.NewFromInt(100)
	tolerance = decimal.RequireFromString("0.01")
)

// ErrInconsistentTotals is returned when a supplied total disagrees with
// subtotal + VAT by more than one cent.
var ErrInconsistentTotals = errors.New("total does not match subtotal plus VAT")

// Rule names the classification branch that fired.
type Rule string

const (
	RuleOverride        Rule = "override"
	RuleDomestic        Rule = "domestic"
	RuleEUReverseCharge Rule = "eu_b2b_reverse_charge"
	RuleEUConsumer      Rule = "eu_b2c_or_unverified"
	RuleNonEUExport     Rule = "non_eu_export"
)

// Jurisdiction is the client data the classifier decides on.
type Jurisdiction struct {
	CountryCode  string
	IsBusiness   bool
	HasVATNumber bool
}

// JurisdictionOf extracts the classifier input from a client profile.
func JurisdictionOf(c model.ClientProfile) Jurisdiction {
	return Jurisdiction{
		CountryCode:  c.CountryCode,
		IsBusiness:   c.IsBusiness,
		HasVATNumber: c.HasVATNumber(),
	}
}

// AppliedRules records the facts the decision was based on.
type AppliedRules struct {
	ClientCountry      string
	ClientIsBusiness   bool
	ClientHasVATNumber bool
	IsEUCountry        bool
	IsDomestic         bool
}

// Result is an InvoiceCalculation plus the audit trail of how it was reached.
type Result struct {
	model.InvoiceCalculation
	Rule             Rule
	Explanation      string
	UsedFallbackRate bool
	AppliedRules     AppliedRules
}

// Classifier decides the VAT treatment of a transaction using injected
// reference data. It holds no mutable state.
type Classifier struct {
	rates           *RateTable
	eu              CountrySet
	home            string
	fallbackStd     decimal.Decimal
	fallbackReduced decimal.Decimal
}

// NewClassifier creates a Classifier for sellers in HomeCountry.
func NewClassifier(rates *RateTable, eu CountrySet) *Classifier {
	return &Classifier{
		rates:           rates,
		eu:              eu,
		home:            HomeCountry,
		fallbackStd:     DefaultStandardRate,
		fallbackReduced: DefaultReducedRate,
	}
}

// WithHomeCountry returns a copy of c that treats country as the seller's
// jurisdiction. Empty keeps the current one.
func (c *Classifier) WithHomeCountry(country string) *Classifier {
	cp := *c
	if strings.TrimSpace(country) != "" {
		cp.home = canonicalCountry(country)
	}
	return &cp
}

// WithFallbackRates returns a copy of c that uses the given rates when the
// table has no row for a date. Zero keeps the current fallback.
func (c *Classifier) WithFallbackRates(standard, reduced decimal.Decimal) *Classifier {
	cp := *c
	if !standard.IsZero() {
		cp.fallbackStd = standard
	}
	if !reduced.IsZero() {
		cp.fallbackReduced = reduced
	}
	return &cp
}

// Classify computes the VAT treatment and amounts for items sold to client
// on day. A non-empty override is used verbatim as the VAT type.
func (c *Classifier) Classify(items []model.LineItem, client Jurisdiction, override model.VATType, day time.Time) (Result, error) {
	var errs model.ValidationErrors
	if len(items) == 0 {
		errs.Add("items", "at least one item is required")
	}
	for i, it := range items {
		if !it.Quantity.IsPositive() {
			errs.Add(fmt.Sprintf("items[%d].quantity", i), "must be positive, got %s", it.Quantity)
		}
		if it.UnitPrice.IsNegative() {
			errs.Add(fmt.Sprintf("items[%d].unit_price", i), "must not be negative, got %s", it.UnitPrice)
		}
	}
	if !validCountryCode(client.CountryCode) {
		errs.Add("country_code", "must be exactly 2 letters, got %q", client.CountryCode)
	}
	if override != "" && !override.Valid() {
		errs.Add("vat_type_override", "unknown VAT type %q", override)
	}
	if err := errs.Err(); err != nil {
		return Result{}, err
	}

	country := canonicalCountry(client.CountryCode)
	applied := AppliedRules{
		ClientCountry:      country,
		ClientIsBusiness:   client.IsBusiness,
		ClientHasVATNumber: client.HasVATNumber,
		IsEUCountry:        c.eu.Contains(country),
		IsDomestic:         country == c.home,
	}

	vatType, rule := c.decide(applied, override)
	rate, fallback := c.rateFor(vatType, day)

	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Quantity.Mul(it.UnitPrice))
	}
	vatAmount := subtotal.Mul(rate).Round(2)

	return Result{
		InvoiceCalculation: model.InvoiceCalculation{
			Subtotal:    subtotal.Round(2),
			VATAmount:   vatAmount,
			TotalAmount: subtotal.Add(vatAmount).Round(2),
			VATRate:     rate,
			VATType:     vatType,
		},
		Rule:             rule,
		Explanation:      explain(vatType, rate),
		UsedFallbackRate: fallback,
		AppliedRules:     applied,
	}, nil
}

func (c *Classifier) decide(a AppliedRules, override model.VATType) (model.VATType, Rule) {
	switch {
	case override != "":
		return override, RuleOverride
	case a.IsDomestic:
		return model.VATStandard, RuleDomestic
	case a.IsEUCountry && a.ClientIsBusiness && a.ClientHasVATNumber:
		return model.VATReverseCharge, RuleEUReverseCharge
	case a.IsEUCountry:
		return model.VATStandard, RuleEUConsumer
	default:
		return model.VATExempt, RuleNonEUExport
	}
}

// rateFor resolves the home-country rate for vatType. The bool is true
// when the table had no row and a documented default was used.
func (c *Classifier) rateFor(vatType model.VATType, day time.Time) (decimal.Decimal, bool) {
	switch vatType {
	case model.VATStandard:
		if r, ok := c.rates.Lookup(c.home, RateTypeStandard, day); ok {
			return r, false
		}
		return c.fallbackStd, true
	case model.VATReduced:
		if r, ok := c.rates.Lookup(c.home, RateTypeReduced, day); ok {
			return r, false
		}
		return c.fallbackReduced, true
	default:
		return decimal.Zero, false
	}
}

func explain(vatType model.VATType, rate decimal.Decimal) string {
	pct := rate.Mul(hundred).Round(0).String()
	switch vatType {
	case model.VATStandard:
		return fmt.Sprintf("Standard Dutch VAT (%s%%) applied", pct)
	case model.VATReduced:
		return fmt.Sprintf("Reduced Dutch VAT rate (%s%%) applied", pct)
	case model.VATReverseCharge:
		return "Reverse charge (BTW verlegd) - VAT handled by customer"
	default:
		return "Export outside EU - VAT exempt"
	}
}

// CheckTotals rejects a caller-computed total that differs from
// subtotal + VAT by more than 0.01.
func CheckTotals(calc model.InvoiceCalculation, supplied decimal.Decimal) error {
	expected := calc.Subtotal.Add(calc.VATAmount)
	if expected.Sub(supplied).Abs().GreaterThan(tolerance) {
		return fmt.Errorf("%w: expected %s, got %s", ErrInconsistentTotals, expected.StringFixed(2), supplied.StringFixed(2))
	}
	return nil
}

// RuleDescription is one row of the published rule catalogue.
type RuleDescription struct {
	Rule        Rule
	VATType     model.VATType
	Rate        decimal.Decimal
	Description string
}

// DescribeRules lists the classification rules with the rates in force on day.
func (c *Classifier) DescribeRules(day time.Time) []RuleDescription {
	std, _ := c.rateFor(model.VATStandard, day)
	return []RuleDescription{
		{RuleDomestic, model.VATStandard, std, "Standard Dutch VAT for domestic sales"},
		{RuleEUReverseCharge, model.VATReverseCharge, decimal.Zero, "Reverse charge (BTW verlegd) for EU B2B with valid VAT number"},
		{RuleEUConsumer, model.VATStandard, std, "Dutch VAT for EU B2C or B2B without VAT number"},
		{RuleNonEUExport, model.VATExempt, decimal.Zero, "Export outside EU - VAT exempt"},
	}
}

// EUCountries returns the member state codes the classifier uses.
func (c *Classifier) EUCountries() []string {
	return c.eu.Codes()
}

// String renders a short one-line summary of r.
func (r Result) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: subtotal %s, vat %s (%s), total %s",
		r.VATType, r.Subtotal.StringFixed(2), r.VATAmount.StringFixed(2),
		r.VATRate.String(), r.TotalAmount.StringFixed(2))
	if r.UsedFallbackRate {
		b.WriteString(" [fallback rate]")
	}
	return b.String()
}
