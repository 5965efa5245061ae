// Package readiness decides whether tracked time can be invoiced yet.
package readiness

import (
	"fmt"
	"time"

	"github.com/zzpboek/zzpbtw/internal/model"
	"github.com/zzpboek/zzpbtw/internal/period"
)

const weekDays = 7

// IsReady applies the client's invoicing frequency to an entry date.
// Unknown frequencies behave as on demand.
func IsReady(entryDate time.Time, client model.ClientProfile, asOf time.Time) (bool, string) {
	freq := client.InvoicingFrequency
	switch freq.Normalize() {
	case model.InvoicingWeekly:
		days := period.DaysBetween(entryDate, asOf)
		if days >= weekDays {
			return true, fmt.Sprintf("Weekly invoicing - entry is %d days old", days)
		}
		return false, fmt.Sprintf("Weekly invoicing - %d days remaining", weekDays-days)

	case model.InvoicingMonthly:
		entryMonth := period.MonthDay(entryDate.Year(), entryDate.Month(), 1, 0)
		currentMonth := period.MonthDay(asOf.Year(), asOf.Month(), 1, 0)
		if entryMonth.Before(currentMonth) {
			return true, fmt.Sprintf("Monthly invoicing - entry from %s %d", entryDate.Month(), entryDate.Year())
		}
		next := entryMonth.AddDate(0, 1, 0)
		return false, fmt.Sprintf("Monthly invoicing - will be billable in %s %d", next.Month(), next.Year())
	}

	if freq != "" && freq != model.InvoicingOnDemand {
		return true, fmt.Sprintf("Unknown invoicing frequency %q - treated as on demand", string(freq))
	}
	return true, "Client invoices on demand - always ready"
}

// Classify returns the badge for one time entry. Invoiced wins over
// everything, then non-billable, then the frequency rule.
func Classify(entry model.TimeEntry, client model.ClientProfile, asOf time.Time) model.TimeEntryStatusInfo {
	if entry.Invoiced || entry.InvoiceID != "" {
		reason := "Already invoiced"
		if entry.InvoiceID != "" {
			reason = "Invoiced on invoice " + entry.InvoiceID
		}
		return model.TimeEntryStatusInfo{
			Status: model.StatusInvoiced,
			Label:  "Invoiced",
			Color:  model.ColorPurple,
			Reason: reason,
		}
	}

	if !entry.Billable {
		return model.TimeEntryStatusInfo{
			Status: model.StatusNotBillable,
			Label:  "Non-billable",
			Color:  model.ColorRed,
			Reason: "Marked as non-billable",
		}
	}

	ready, reason := IsReady(entry.EntryDate, client, asOf)
	if ready {
		return model.TimeEntryStatusInfo{
			Status: model.StatusBillable,
			Label:  "Billable",
			Color:  model.ColorGreen,
			Reason: reason,
		}
	}
	return model.TimeEntryStatusInfo{
		Status: model.StatusBillable,
		Label:  "Not yet billable",
		Color:  model.ColorOrange,
		Reason: reason,
	}
}

// ClassifyAll classifies entries keyed by entry ID. Entries without an ID
// are left out.
func ClassifyAll(entries []model.TimeEntry, client model.ClientProfile, asOf time.Time) map[string]model.TimeEntryStatusInfo {
	out := make(map[string]model.TimeEntryStatusInfo, len(entries))
	for _, e := range entries {
		if e.ID == "" {
			continue
		}
		out[e.ID] = Classify(e, client, asOf)
	}
	return out
}

// Summary counts time entries per status. Ready is the subset of Billable
// that can be invoiced now.
type Summary struct {
	NotBillable int
	Billable    int
	Ready       int
	Invoiced    int
	Total       int
}

// Summarize counts entries per status.
func Summarize(entries []model.TimeEntry, client model.ClientProfile, asOf time.Time) Summary {
	s := Summary{Total: len(entries)}
	for _, e := range entries {
		info := Classify(e, client, asOf)
		switch info.Status {
		case model.StatusNotBillable:
			s.NotBillable++
		case model.StatusBillable:
			s.Billable++
			if info.Ready() {
				s.Ready++
			}
		case model.StatusInvoiced:
			s.Invoiced++
		}
	}
	return s
}

// Invoiceable returns the entries that may be marked invoiced in bulk now,
// in input order.
func Invoiceable(entries []model.TimeEntry, client model.ClientProfile, asOf time.Time) []model.TimeEntry {
	out := []model.TimeEntry{}
	for _, e := range entries {
		if Classify(e, client, asOf).Ready() {
			out = append(out, e)
		}
	}
	return out
}
