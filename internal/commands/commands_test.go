package commands_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/zzpboek/zzpbtw/internal/books"
	"github.com/zzpboek/zzpbtw/internal/commands"
	"github.com/zzpboek/zzpbtw/internal/model"
)

func runZZPBTW(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := commands.NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// initBooks creates a project and fills it with a small first quarter.
func initBooks(t *testing.T) string {
	t.Helper()
	t.Setenv("ZZPBTW_CURRENT_DATE", "")
	t.Setenv("ZZPBTW_LOG_LEVEL", "error")

	dir := t.TempDir()
	_, err := runZZPBTW(t, "init", dir, "--name", "Jansen Development")
	require.NoError(t, err)

	clients := []model.ClientProfile{
		{ID: "acme", Name: "Acme BV", CountryCode: "NL", IsBusiness: true, VATNumber: "NL123456789B01", InvoicingFrequency: model.InvoicingMonthly},
		{ID: "muller", Name: "Muller GmbH", CountryCode: "DE", IsBusiness: true, VATNumber: "DE123456789", InvoicingFrequency: model.InvoicingOnDemand},
		{ID: "globex", Name: "Globex Inc", CountryCode: "US", IsBusiness: true, InvoicingFrequency: model.InvoicingWeekly},
	}
	invoices := []model.Invoice{
		{ID: "inv-1", Number: "2024-001", ClientID: "acme", InvoiceDate: date(2024, 1, 10), Status: model.InvoicePaid, Subtotal: dec("3000"), VATAmount: dec("630"), VATType: model.VATStandard},
		{ID: "inv-2", Number: "2024-002", ClientID: "muller", InvoiceDate: date(2024, 2, 1), Status: model.InvoiceSent, Subtotal: dec("1000"), VATAmount: decimal.Zero, VATType: model.VATReverseCharge},
		{ID: "inv-3", Number: "2024-003", ClientID: "acme", InvoiceDate: date(2024, 3, 20), Status: model.InvoiceDraft, Subtotal: dec("500"), VATAmount: dec("105"), VATType: model.VATStandard},
	}
	expenses := []model.Expense{
		{ID: "e1", ExpenseDate: date(2024, 3, 1), Description: "Monitor", Amount: dec("200"), VATAmount: dec("42"), VATRate: dec("21"), IsDeductible: true},
		{ID: "e2", ExpenseDate: date(2024, 1, 31), Description: "Coworking", Amount: dec("100"), VATAmount: dec("21"), VATRate: dec("21"), IsDeductible: true, TemplateID: "cowork"},
	}
	entries := []model.TimeEntry{
		{ID: "t1", ClientID: "acme", EntryDate: date(2024, 6, 30), Hours: dec("6"), Billable: true},
		{ID: "t2", ClientID: "acme", EntryDate: date(2024, 6, 3), Hours: dec("2"), Billable: true, Invoiced: true, InvoiceID: "inv-9"},
		{ID: "t3", ClientID: "acme", EntryDate: date(2024, 6, 10), Hours: dec("1"), Billable: false},
	}
	templates := []model.RecurringExpenseTemplate{
		{ID: "cowork", Name: "Coworking", Amount: dec("100"), Frequency: model.FrequencyMonthly, StartDate: date(2024, 1, 15), DayOfMonth: 31, VATRate: dec("21"), IsVATDeductible: true},
	}
	require.NoError(t, books.NewStore(clients, invoices, expenses, entries, templates).Save(dir))
	return dir
}
