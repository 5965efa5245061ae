package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a booked expense as consumed by the VAT return.
type Expense struct {
	ID           string
	ExpenseDate  time.Time
	Description  string
	Amount       decimal.Decimal
	VATAmount    decimal.Decimal
	VATRate      decimal.Decimal // percent as booked, e.g. 21
	IsDeductible bool
	TemplateID   string // recurring template this was booked from, if any
}

// Frequency is the cadence of a recurring expense template.
type Frequency string

const (
	FrequencyWeekly    Frequency = "weekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyYearly    Frequency = "yearly"
)

// Valid reports whether f is a supported cadence.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyWeekly, FrequencyMonthly, FrequencyQuarterly, FrequencyYearly:
		return true
	}
	return false
}

// RecurringExpenseTemplate describes an expense that repeats on a fixed cadence.
type RecurringExpenseTemplate struct {
	ID                         string
	Name                       string
	Amount                     decimal.Decimal
	Frequency                  Frequency
	StartDate                  time.Time
	EndDate                    *time.Time
	DayOfMonth                 int             // 0 = day of StartDate
	AmountEscalationPercentage decimal.Decimal // zero = no escalation
	LastEscalationDate         *time.Time
	VATRate                    decimal.Decimal // percent
	IsVATDeductible            bool
	BusinessUsePercentage      decimal.Decimal // percent, zero = 100
	Paused                     bool            // paused templates project nothing
}

// Occurrence is one projected instance of a recurring expense.
type Occurrence struct {
	TemplateID          string
	Date                time.Time
	Amount              decimal.Decimal // escalated net amount
	VATAmount           decimal.Decimal
	GrossAmount         decimal.Decimal
	DeductibleVATAmount decimal.Decimal
}
