package vatreturn

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/zzpboek/zzpbtw/internal/model"
	"github.com/zzpboek/zzpbtw/internal/period"
	"github.com/zzpboek/zzpbtw/internal/vat"
)

// DefaultServiceDescription is the ICP line description used when none is configured.
const DefaultServiceDescription = "Professional services"

// Options tunes the aggregation.
type Options struct {
	HomeCountry        string         // default "NL"
	ServiceDescription string         // default DefaultServiceDescription
	EUCountries        vat.CountrySet // default vat.EUMemberStates
}

func (o Options) withDefaults() Options {
	if o.HomeCountry == "" {
		o.HomeCountry = "NL"
	}
	if o.ServiceDescription == "" {
		o.ServiceDescription = DefaultServiceDescription
	}
	if o.EUCountries.Len() == 0 {
		o.EUCountries = vat.NewCountrySet(vat.EUMemberStates)
	}
	return o
}

// Aggregate builds the BTW return for quarter/year from the given invoices
// and expenses. Records outside the quarter are ignored, so callers may pass
// a superset. Only sent and paid invoices and deductible expenses count.
//
// Sums are kept exact and rounded to cents only on the returned values.
func Aggregate(invoices []model.Invoice, expenses []model.Expense, quarter, year int, opts Options) (model.VATReturn, error) {
	start, end, err := period.Quarter(year, quarter)
	if err != nil {
		var errs model.ValidationErrors
		errs.Add("quarter", "%v", err)
		return model.VATReturn{}, errs
	}
	opts = opts.withDefaults()

	ret := model.VATReturn{
		Quarter:     quarter,
		Year:        year,
		PeriodStart: start,
		PeriodEnd:   end,
		EUServices:  []model.ICPDeclaration{},
	}

	revenue := decimal.Zero
	collected := decimal.Zero
	reverseCharge := decimal.Zero

	for _, inv := range invoices {
		if !inv.Status.Reportable() || !period.Within(inv.InvoiceDate, start, end) {
			continue
		}

		revenue = revenue.Add(inv.Subtotal)

		switch inv.VATType {
		case model.VATStandard:
			collected = collected.Add(inv.VATAmount)
		case model.VATReverseCharge:
			reverseCharge = reverseCharge.Add(inv.Subtotal)

			switch icpEligibility(inv.Client, opts) {
			case icpMissingData:
				ret.SkippedICPEntries++
				ret.SkippedInvoiceIDs = append(ret.SkippedInvoiceIDs, inv.ID)
			case icpListed:
				ret.EUServices = append(ret.EUServices, model.ICPDeclaration{
					InvoiceID:          inv.ID,
					ClientName:         inv.Client.Name,
					VATNumber:          inv.Client.VATNumber,
					CountryCode:        strings.ToUpper(strings.TrimSpace(inv.Client.CountryCode)),
					Amount:             inv.Subtotal.Round(2),
					ServiceDescription: opts.ServiceDescription,
				})
			}
		}
	}

	expensesTotal := decimal.Zero
	paid := decimal.Zero

	for _, exp := range expenses {
		if !exp.IsDeductible || !period.Within(exp.ExpenseDate, start, end) {
			continue
		}
		expensesTotal = expensesTotal.Add(exp.Amount)
		if exp.VATRate.IsPositive() {
			paid = paid.Add(exp.VATAmount)
		}
	}

	ret.TotalRevenue = revenue.Round(2)
	ret.TotalVATCollected = collected.Round(2)
	ret.TotalExpenses = expensesTotal.Round(2)
	ret.TotalVATPaid = paid.Round(2)
	ret.ReverseChargeRevenue = reverseCharge.Round(2)
	ret.VATToPay = ret.TotalVATCollected.Sub(ret.TotalVATPaid).Round(2)

	return ret, nil
}

type icpStatus int

const (
	icpNotApplicable icpStatus = iota
	icpListed
	icpMissingData
)

// icpEligibility decides whether a reverse charge invoice belongs on the ICP
// list. Only EU businesses outside the home country are listed; a record
// counts as missing data only when it could have been one of those.
func icpEligibility(c *model.InvoiceClient, opts Options) icpStatus {
	if c == nil {
		return icpMissingData
	}
	if !c.IsBusiness {
		return icpNotApplicable
	}
	country := strings.TrimSpace(c.CountryCode)
	if country == "" {
		return icpMissingData
	}
	if strings.EqualFold(country, opts.HomeCountry) || !opts.EUCountries.Contains(country) {
		return icpNotApplicable
	}
	if strings.TrimSpace(c.VATNumber) == "" {
		return icpMissingData
	}
	return icpListed
}
