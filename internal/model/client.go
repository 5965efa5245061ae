package model

import "strings"

// InvoicingFrequency is how often a client is billed for tracked time.
type InvoicingFrequency string

const (
	InvoicingOnDemand InvoicingFrequency = "on_demand"
	InvoicingWeekly   InvoicingFrequency = "weekly"
	InvoicingMonthly  InvoicingFrequency = "monthly"
)

// Normalize maps empty and unknown values to on_demand.
func (f InvoicingFrequency) Normalize() InvoicingFrequency {
	switch f {
	case InvoicingWeekly, InvoicingMonthly:
		return f
	default:
		return InvoicingOnDemand
	}
}

// ClientProfile is the jurisdiction and billing profile of a client.
type ClientProfile struct {
	ID                 string
	Name               string
	CountryCode        string // ISO-3166 alpha-2
	IsBusiness         bool
	VATNumber          string // empty when unknown
	InvoicingFrequency InvoicingFrequency
}

// HasVATNumber reports whether a VAT number is on file.
func (c ClientProfile) HasVATNumber() bool {
	return strings.TrimSpace(c.VATNumber) != ""
}
