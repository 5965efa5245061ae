package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ICPDeclaration is one intra-community service line of the ICP filing.
type ICPDeclaration struct {
	InvoiceID          string
	ClientName         string
	VATNumber          string
	CountryCode        string
	Amount             decimal.Decimal
	ServiceDescription string
}

// VATReturn is the quarterly BTW return.
type VATReturn struct {
	Quarter              int
	Year                 int
	PeriodStart          time.Time
	PeriodEnd            time.Time
	TotalRevenue         decimal.Decimal
	TotalVATCollected    decimal.Decimal
	TotalExpenses        decimal.Decimal
	TotalVATPaid         decimal.Decimal
	VATToPay             decimal.Decimal // collected - paid; negative means a refund
	ReverseChargeRevenue decimal.Decimal
	EUServices           []ICPDeclaration

	// Reverse-charge invoices counted in the totals but left off the ICP
	// list because client country or VAT number data is missing.
	SkippedICPEntries int
	SkippedInvoiceIDs []string
}
