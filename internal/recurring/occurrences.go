// Package recurring expands recurring expense templates into dated occurrences.
package recurring

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/zzpboek/zzpbtw/internal/model"
	"github.com/zzpboek/zzpbtw/internal/period"
)

func checkCount(count int) error {
	if count < 0 {
		var errs model.ValidationErrors
		errs.Add("count", "must not be negative, got %d", count)
		return errs
	}
	return nil
}

// Preview returns the first count occurrences of t from its start date.
func Preview(t model.RecurringExpenseTemplate, count int) ([]model.Occurrence, error) {
	return Upcoming(t, t.StartDate, count)
}

// Upcoming returns the next count occurrences of t on or after from.
func Upcoming(t model.RecurringExpenseTemplate, from time.Time, count int) ([]model.Occurrence, error) {
	if err := checkCount(count); err != nil {
		return nil, err
	}
	from = period.Day(from)
	n := 0
	return collect(t, func(d time.Time) (bool, bool) {
		if n >= count {
			return false, false
		}
		if d.Before(from) {
			return false, true
		}
		n++
		return true, n < count
	})
}

// FromStart returns every occurrence of t from its start through asOf.
func FromStart(t model.RecurringExpenseTemplate, asOf time.Time) ([]model.Occurrence, error) {
	asOf = period.Day(asOf)
	return collect(t, func(d time.Time) (bool, bool) {
		if d.After(asOf) {
			return false, false
		}
		return true, true
	})
}

// Project returns the occurrences of t dated within [from, from+daysAhead].
func Project(t model.RecurringExpenseTemplate, from time.Time, daysAhead int) ([]model.Occurrence, error) {
	if daysAhead < 0 {
		var errs model.ValidationErrors
		errs.Add("days_ahead", "must not be negative, got %d", daysAhead)
		return nil, errs
	}
	from = period.Day(from)
	until := from.AddDate(0, 0, daysAhead)
	return collect(t, func(d time.Time) (bool, bool) {
		if d.After(until) {
			return false, false
		}
		return !d.Before(from), true
	})
}

// Outstanding returns the occurrences of t up to asOf for which no expense
// was recorded on the same date.
func Outstanding(t model.RecurringExpenseTemplate, asOf time.Time, recorded []time.Time) ([]model.Occurrence, error) {
	seen := make(map[time.Time]struct{}, len(recorded))
	for _, r := range recorded {
		seen[period.Day(r)] = struct{}{}
	}

	all, err := FromStart(t, asOf)
	if err != nil {
		return nil, err
	}
	out := []model.Occurrence{}
	for _, o := range all {
		if _, ok := seen[o.Date]; !ok {
			out = append(out, o)
		}
	}
	return out, nil
}

// NextOccurrence returns the first occurrence of t strictly after after.
// ok is false when the template has ended or is paused.
func NextOccurrence(t model.RecurringExpenseTemplate, after time.Time) (occ model.Occurrence, ok bool, err error) {
	next, err := Upcoming(t, period.Day(after).AddDate(0, 0, 1), 1)
	if err != nil || len(next) == 0 {
		return model.Occurrence{}, false, err
	}
	return next[0], true, nil
}

// AnnualCost returns the yearly gross cost of t at the escalation level in
// force on asOf. Paused templates cost nothing.
func AnnualCost(t model.RecurringExpenseTemplate, asOf time.Time) (decimal.Decimal, error) {
	if err := Validate(t); err != nil {
		return decimal.Zero, err
	}
	if t.Paused {
		return decimal.Zero, nil
	}
	occ := occurrenceOn(t, period.Day(asOf))
	return occ.GrossAmount.Mul(decimal.NewFromInt(occurrencesPerYear[t.Frequency])).Round(2), nil
}
