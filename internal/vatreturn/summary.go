package vatreturn

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zzpboek/zzpbtw/internal/model"
	"github.com/zzpboek/zzpbtw/internal/period"
)

// DefaultHighVolumeThreshold is the quarterly ICP total above which monthly
// ICP filing is suggested.
var DefaultHighVolumeThreshold = decimal.NewFromInt(50000)

var alignmentTolerance = decimal.RequireFromString("0.01")

// ICPCustomer is the ICP declaration line for one customer VAT number.
type ICPCustomer struct {
	VATNumber        string
	ClientName       string
	CountryCode      string
	NetAmount        decimal.Decimal
	TransactionCount int
	InvoiceIDs       []string
}

// ICPSummary is the quarterly ICP declaration derived from a VAT return.
type ICPSummary struct {
	Quarter            int
	Year               int
	Customers          []ICPCustomer
	CountriesInvolved  []string
	TotalServices      decimal.Decimal
	RequiresSubmission bool
	SubmissionDeadline time.Time

	// Rubriek 3b of the BTW return must equal the ICP total.
	Rubriek3b  decimal.Decimal
	Difference decimal.Decimal
	Consistent bool

	Notes    []string
	Warnings []string
}

// SummaryOptions tunes Summarize.
type SummaryOptions struct {
	HighVolumeThreshold decimal.Decimal // zero = DefaultHighVolumeThreshold
}

// Summarize groups the ICP lines of ret per customer VAT number and checks
// them against the reverse-charge revenue of the return.
func Summarize(ret model.VATReturn, opts SummaryOptions) ICPSummary {
	threshold := opts.HighVolumeThreshold
	if threshold.IsZero() {
		threshold = DefaultHighVolumeThreshold
	}

	s := ICPSummary{
		Quarter:       ret.Quarter,
		Year:          ret.Year,
		TotalServices: decimal.Zero,
		Rubriek3b:     ret.ReverseChargeRevenue,
	}
	if deadline, err := period.SubmissionDeadline(ret.Year, ret.Quarter); err == nil {
		s.SubmissionDeadline = deadline
	}

	byVAT := make(map[string]*ICPCustomer)
	var order []string
	countries := make(map[string]struct{})
	for _, line := range ret.EUServices {
		c, ok := byVAT[line.VATNumber]
		if !ok {
			c = &ICPCustomer{
				VATNumber:   line.VATNumber,
				ClientName:  line.ClientName,
				CountryCode: line.CountryCode,
				NetAmount:   decimal.Zero,
			}
			byVAT[line.VATNumber] = c
			order = append(order, line.VATNumber)
		}
		c.NetAmount = c.NetAmount.Add(line.Amount)
		c.TransactionCount++
		if line.InvoiceID != "" {
			c.InvoiceIDs = append(c.InvoiceIDs, line.InvoiceID)
		}
		countries[line.CountryCode] = struct{}{}
		s.TotalServices = s.TotalServices.Add(line.Amount)
	}

	for _, k := range order {
		s.Customers = append(s.Customers, *byVAT[k])
	}
	for c := range countries {
		s.CountriesInvolved = append(s.CountriesInvolved, c)
	}
	sort.Strings(s.CountriesInvolved)

	s.TotalServices = s.TotalServices.Round(2)
	s.RequiresSubmission = len(s.Customers) > 0
	s.Difference = s.Rubriek3b.Sub(s.TotalServices).Abs()
	s.Consistent = s.Difference.LessThan(alignmentTolerance)

	if s.RequiresSubmission {
		s.Notes = append(s.Notes,
			"ICP declaration submission required due to intra-EU transactions",
			"ICP data must align with VAT return rubriek 3b totals",
		)
		if s.TotalServices.GreaterThan(threshold) {
			s.Warnings = append(s.Warnings, "High transaction volume - consider monthly ICP reporting instead of quarterly")
		}
	} else {
		s.Notes = append(s.Notes, "No ICP declaration required - no intra-EU transactions found")
	}

	if !s.Consistent {
		s.Warnings = append(s.Warnings, fmt.Sprintf("ICP total (EUR %s) does not match reverse charge revenue (EUR %s)",
			s.TotalServices.StringFixed(2), s.Rubriek3b.StringFixed(2)))
	}
	if ret.SkippedICPEntries > 0 {
		s.Warnings = append(s.Warnings, fmt.Sprintf("%d reverse charge invoice(s) left off the ICP list: missing client country or VAT number", ret.SkippedICPEntries))
	}

	return s
}
