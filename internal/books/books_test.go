package books

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zzpboek/zzpbtw/internal/model"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleClients() []model.ClientProfile {
	return []model.ClientProfile{
		{ID: "acme", Name: "Acme BV", CountryCode: "NL", IsBusiness: true, VATNumber: "NL123456789B01", InvoicingFrequency: model.InvoicingMonthly},
		{ID: "muller", Name: "Müller GmbH", CountryCode: "DE", IsBusiness: true, VATNumber: "DE123456789", InvoicingFrequency: model.InvoicingOnDemand},
	}
}

func sampleInvoices() []model.Invoice {
	return []model.Invoice{
		{ID: "inv-1", Number: "2024-001", ClientID: "acme", InvoiceDate: date(2024, 1, 10), Status: model.InvoicePaid, Subtotal: dec("3000"), VATAmount: dec("630"), VATType: model.VATStandard, ReminderLevel: model.ReminderNone},
		{ID: "inv-2", Number: "2024-002", ClientID: "muller", InvoiceDate: date(2024, 2, 1), Status: model.InvoiceSent, Subtotal: dec("1000"), VATAmount: decimal.Zero, VATType: model.VATReverseCharge, ReminderLevel: model.ReminderFirst},
		{ID: "inv-3", Number: "2024-003", ClientID: "gone", InvoiceDate: date(2024, 2, 5), Status: model.InvoiceSent, Subtotal: dec("50"), VATAmount: decimal.Zero, VATType: model.VATReverseCharge, ReminderLevel: model.ReminderNone},
	}
}

func TestClientsRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteClients(&buf, sampleClients()))
	assert.True(t, strings.HasPrefix(buf.String(), ClientsHeader+"\n"))

	got, err := ReadClients(&buf)
	require.NoError(t, err)
	assert.Equal(t, sampleClients(), got)
}

func TestUnmarshalClient_Defaults(t *testing.T) {
	c, err := UnmarshalClient([]string{"x", "Shop", "be", "false", "", ""})
	require.NoError(t, err)
	assert.Equal(t, "BE", c.CountryCode)
	assert.Equal(t, model.InvoicingOnDemand, c.InvoicingFrequency)
	assert.False(t, c.HasVATNumber())

	_, err = UnmarshalClient([]string{"x", "Shop", "BE", "maybe", "", ""})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is_business")
}

func TestInvoicesRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteInvoices(&buf, sampleInvoices()))

	got, err := ReadInvoices(&buf)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "2024-002", got[1].Number)
	assert.Equal(t, model.ReminderFirst, got[1].ReminderLevel)
	assert.Equal(t, model.ReminderNone, got[0].ReminderLevel)
	assert.True(t, got[0].VATAmount.Equal(dec("630")))
	assert.Nil(t, got[0].Client)
}

func TestReadInvoices_Errors(t *testing.T) {
	tests := []struct {
		name string
		row  string
		want string
	}{
		{"bad date", "i,1,c,10-01-2024,sent,1,0,standard,", "invoice_date"},
		{"bad subtotal", "i,1,c,2024-01-10,sent,abc,0,standard,", "subtotal"},
		{"bad vat type", "i,1,c,2024-01-10,sent,1,0,zero,", "vat_type"},
		{"short row", "i,1,c", "wrong number of fields"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadInvoices(strings.NewReader(InvoicesHeader + "\n" + tt.row + "\n"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestExpensesRoundTrip(t *testing.T) {
	expenses := []model.Expense{
		{ID: "e1", ExpenseDate: date(2024, 3, 1), Description: "Laptop, 14 inch", Amount: dec("1200.00"), VATAmount: dec("252.00"), VATRate: dec("21"), IsDeductible: true, TemplateID: ""},
		{ID: "e2", ExpenseDate: date(2024, 3, 5), Description: "Coworking", Amount: dec("250.00"), VATAmount: dec("52.50"), VATRate: dec("21"), IsDeductible: true, TemplateID: "cowork"},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteExpenses(&buf, expenses))

	got, err := ReadExpenses(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Laptop, 14 inch", got[0].Description)
	assert.Equal(t, "cowork", got[1].TemplateID)
	assert.True(t, got[1].VATAmount.Equal(dec("52.5")))
}

func TestTimeEntriesRoundTrip(t *testing.T) {
	entries := []model.TimeEntry{
		{ID: "t1", ClientID: "acme", EntryDate: date(2024, 6, 30), Hours: dec("7.5"), Description: "Sprint review", Billable: true},
		{ID: "t2", ClientID: "acme", EntryDate: date(2024, 6, 1), Hours: dec("2"), Billable: true, Invoiced: true, InvoiceID: "inv-1"},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteTimeEntries(&buf, entries))

	got, err := ReadTimeEntries(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, entries[0].ID, got[0].ID)
	assert.True(t, got[0].Hours.Equal(dec("7.5")))
	assert.True(t, got[1].Invoiced)
	assert.Equal(t, "inv-1", got[1].InvoiceID)
}

func TestTemplatesRoundTrip(t *testing.T) {
	end := date(2025, 12, 31)
	templates := []model.RecurringExpenseTemplate{
		{
			ID: "cowork", Name: "Coworking", Amount: dec("250"), Frequency: model.FrequencyMonthly,
			StartDate: date(2024, 1, 15), EndDate: &end, DayOfMonth: 31,
			AmountEscalationPercentage: dec("3"), VATRate: dec("21"), IsVATDeductible: true,
			BusinessUsePercentage: dec("80"),
		},
		{ID: "domain", Name: "Domain", Amount: dec("12.99"), Frequency: model.FrequencyYearly, StartDate: date(2024, 5, 1), Paused: true},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTemplates(&buf, templates))
	assert.Contains(t, buf.String(), "day_of_month: 31")

	got, err := ReadTemplates(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, model.FrequencyMonthly, got[0].Frequency)
	require.NotNil(t, got[0].EndDate)
	assert.Equal(t, end, *got[0].EndDate)
	assert.True(t, got[0].BusinessUsePercentage.Equal(dec("80")))
	assert.Nil(t, got[1].EndDate)
	assert.True(t, got[1].Paused)
	assert.True(t, got[1].Amount.Equal(dec("12.99")))
}

func TestReadTemplates_EmptyAndInvalid(t *testing.T) {
	got, err := ReadTemplates(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = ReadTemplates(strings.NewReader("templates:\n  - id: x\n    amount: 10\n    frequency: monthly\n    start_date: nope\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start_date")
}

func TestStore_SaveLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "books")
	expenses := []model.Expense{
		{ID: "e1", ExpenseDate: date(2024, 2, 15), Amount: dec("250"), VATAmount: dec("52.50"), VATRate: dec("21"), IsDeductible: true, TemplateID: "cowork"},
		{ID: "e2", ExpenseDate: date(2024, 3, 2), Amount: dec("20"), VATRate: dec("0"), IsDeductible: true},
	}
	entries := []model.TimeEntry{
		{ID: "t1", ClientID: "acme", EntryDate: date(2024, 6, 3), Hours: dec("4"), Billable: true},
		{ID: "t2", ClientID: "muller", EntryDate: date(2024, 6, 4), Hours: dec("1"), Billable: true},
	}
	templates := []model.RecurringExpenseTemplate{
		{ID: "cowork", Name: "Coworking", Amount: dec("250"), Frequency: model.FrequencyMonthly, StartDate: date(2024, 1, 15)},
	}

	require.NoError(t, NewStore(sampleClients(), sampleInvoices(), expenses, entries, templates).Save(dir))

	s, err := Load(dir)
	require.NoError(t, err)
	assert.Len(t, s.Clients(), 2)
	assert.Len(t, s.Expenses(), 2)
	assert.Len(t, s.Templates(), 1)

	c, ok := s.Client("muller")
	require.True(t, ok)
	assert.Equal(t, "DE", c.CountryCode)

	invoices := s.Invoices()
	require.Len(t, invoices, 3)
	require.NotNil(t, invoices[1].Client)
	assert.Equal(t, "DE123456789", invoices[1].Client.VATNumber)
	assert.True(t, invoices[1].Client.IsBusiness)
	assert.Nil(t, invoices[2].Client, "unknown client stays unjoined")

	assert.Len(t, s.TimeEntriesFor("acme"), 1)
	assert.Empty(t, s.TimeEntriesFor("nobody"))

	_, ok = s.Template("cowork")
	assert.True(t, ok)
	assert.Equal(t, []time.Time{date(2024, 2, 15)}, s.RecordedDates("cowork"))
}

func TestLoad_MissingFilesAreEmpty(t *testing.T) {
	s, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, s.Clients())
	assert.Empty(t, s.Invoices())
	assert.Empty(t, s.Templates())
}

func TestLoad_ReportsFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ExpensesFile), []byte(ExpensesHeader+"\ne1,2024-13-01,x,1,0,0,true,\n"), 0o644))

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ExpensesFile)
	assert.Contains(t, err.Error(), "row 2")
}
