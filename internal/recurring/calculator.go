package recurring

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/zzpboek/zzpbtw/internal/model"
	"github.com/zzpboek/zzpbtw/internal/period"
)

var hundred = decimal.NewFromInt(100)

// occurrencesPerYear annualizes each cadence. Weekly is a flat 52.
var occurrencesPerYear = map[model.Frequency]int64{
	model.FrequencyWeekly:    52,
	model.FrequencyMonthly:   12,
	model.FrequencyQuarterly: 4,
	model.FrequencyYearly:    1,
}

var monthStep = map[model.Frequency]int{
	model.FrequencyMonthly:   1,
	model.FrequencyQuarterly: 3,
	model.FrequencyYearly:    12,
}

// Validate checks a template for the fields every calculation depends on.
func Validate(t model.RecurringExpenseTemplate) error {
	var errs model.ValidationErrors
	if !t.Amount.IsPositive() {
		errs.Add("amount", "must be positive, got %s", t.Amount)
	}
	if !t.Frequency.Valid() {
		errs.Add("frequency", "unsupported frequency %q", t.Frequency)
	}
	if t.StartDate.IsZero() {
		errs.Add("start_date", "is required")
	}
	if t.DayOfMonth < 0 || t.DayOfMonth > 31 {
		errs.Add("day_of_month", "must be between 0 and 31, got %d", t.DayOfMonth)
	}
	if t.AmountEscalationPercentage.IsNegative() {
		errs.Add("amount_escalation_percentage", "must not be negative, got %s", t.AmountEscalationPercentage)
	}
	if t.BusinessUsePercentage.IsNegative() || t.BusinessUsePercentage.GreaterThan(hundred) {
		errs.Add("business_use_percentage", "must be between 0 and 100, got %s", t.BusinessUsePercentage)
	}
	return errs.Err()
}

// dates calls fn with each occurrence date of t in order, starting at
// StartDate and never passing EndDate, until fn returns false.
func dates(t model.RecurringExpenseTemplate, fn func(time.Time) bool) {
	start := period.Day(t.StartDate)
	var end time.Time
	if t.EndDate != nil {
		end = period.Day(*t.EndDate)
		if start.After(end) {
			return
		}
	}

	day := t.DayOfMonth
	if day == 0 {
		day = start.Day()
	}

	for k := 0; ; k++ {
		var d time.Time
		if t.Frequency == model.FrequencyWeekly {
			d = start.AddDate(0, 0, 7*k)
		} else {
			d = period.MonthDay(start.Year(), start.Month(), day, k*monthStep[t.Frequency])
		}
		if d.Before(start) {
			continue
		}
		if t.EndDate != nil && d.After(end) {
			return
		}
		if !fn(d) {
			return
		}
	}
}

// AmountOn returns the template amount escalated to the level in force on day:
// compounded once per full year since LastEscalationDate, or StartDate when
// the template was never escalated.
func AmountOn(t model.RecurringExpenseTemplate, day time.Time) decimal.Decimal {
	pct := t.AmountEscalationPercentage
	if pct.IsZero() {
		return t.Amount.Round(2)
	}

	base := t.StartDate
	if t.LastEscalationDate != nil {
		base = *t.LastEscalationDate
	}

	factor := decimal.NewFromInt(1).Add(pct.Div(hundred))
	amount := t.Amount
	for i := 0; i < fullYears(base, day); i++ {
		amount = amount.Mul(factor)
	}
	return amount.Round(2)
}

// fullYears counts anniversaries of from reached on or before to.
func fullYears(from, to time.Time) int {
	from, to = period.Day(from), period.Day(to)
	years := to.Year() - from.Year()
	if to.Month() < from.Month() || (to.Month() == from.Month() && to.Day() < from.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// occurrenceOn builds the occurrence of t dated day.
func occurrenceOn(t model.RecurringExpenseTemplate, day time.Time) model.Occurrence {
	amount := AmountOn(t, day)
	vatAmount := amount.Mul(t.VATRate).Div(hundred).Round(2)

	deductible := decimal.Zero
	if t.IsVATDeductible {
		use := t.BusinessUsePercentage
		if use.IsZero() {
			use = hundred
		}
		deductible = vatAmount.Mul(use).Div(hundred).Round(2)
	}

	return model.Occurrence{
		TemplateID:          t.ID,
		Date:                day,
		Amount:              amount,
		VATAmount:           vatAmount,
		GrossAmount:         amount.Add(vatAmount),
		DeductibleVATAmount: deductible,
	}
}

// collect validates t and gathers occurrences for which keep returns
// (include, continue).
func collect(t model.RecurringExpenseTemplate, keep func(time.Time) (bool, bool)) ([]model.Occurrence, error) {
	if err := Validate(t); err != nil {
		return nil, err
	}
	out := []model.Occurrence{}
	if t.Paused {
		return out, nil
	}
	dates(t, func(d time.Time) bool {
		include, more := keep(d)
		if include {
			out = append(out, occurrenceOn(t, d))
		}
		return more
	})
	return out, nil
}
