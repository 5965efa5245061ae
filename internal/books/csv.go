package books

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zzpboek/zzpbtw/internal/model"
	"github.com/zzpboek/zzpbtw/internal/period"
)

// CSV headers, one per books file.
const (
	ClientsHeader     = "client_id,name,country_code,is_business,vat_number,invoicing_frequency"
	InvoicesHeader    = "invoice_id,number,client_id,invoice_date,status,subtotal,vat_amount,vat_type,reminder_level"
	ExpensesHeader    = "expense_id,expense_date,description,amount,vat_amount,vat_rate,is_deductible,template_id"
	TimeEntriesHeader = "entry_id,client_id,entry_date,hours,description,billable,invoiced,invoice_id"
)

const (
	clientFields   = 6
	colClientID    = 0
	colClientName  = 1
	colCountry     = 2
	colIsBusiness  = 3
	colVATNumber   = 4
	colInvoicingFq = 5
)

const (
	invoiceFields  = 9
	colInvoiceID   = 0
	colNumber      = 1
	colInvClient   = 2
	colInvoiceDate = 3
	colStatus      = 4
	colSubtotal    = 5
	colInvVAT      = 6
	colVATType     = 7
	colReminder    = 8
)

const (
	expenseFields  = 8
	colExpenseID   = 0
	colExpenseDate = 1
	colExpDesc     = 2
	colAmount      = 3
	colExpVAT      = 4
	colVATRate     = 5
	colDeductible  = 6
	colTemplateID  = 7
)

const (
	entryFields     = 8
	colEntryID      = 0
	colEntryClient  = 1
	colEntryDate    = 2
	colHours        = 3
	colEntryDesc    = 4
	colBillable     = 5
	colInvoiced     = 6
	colEntryInvoice = 7
)

// readRows reads a headed CSV and returns the data rows.
func readRows(r io.Reader, fields int, what string) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = fields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s CSV: %w", what, err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[1:], nil
}

// writeRows writes header and rows.
func writeRows(w io.Writer, header string, rows [][]string) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

func parseDecimal(field, s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing %s %q: %w", field, s, err)
	}
	return d, nil
}

func parseBool(field, s string) (bool, error) {
	if s == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("parsing %s %q: %w", field, s, err)
	}
	return b, nil
}

func parseDate(field, s string) (time.Time, error) {
	d, err := period.ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %s: %w", field, err)
	}
	return d, nil
}

// ReadClients reads clients.csv.
func ReadClients(r io.Reader) ([]model.ClientProfile, error) {
	rows, err := readRows(r, clientFields, "clients")
	if err != nil {
		return nil, err
	}
	var clients []model.ClientProfile
	for i, rec := range rows {
		c, err := UnmarshalClient(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		clients = append(clients, c)
	}
	return clients, nil
}

// WriteClients writes clients.csv (including header).
func WriteClients(w io.Writer, clients []model.ClientProfile) error {
	rows := make([][]string, len(clients))
	for i, c := range clients {
		rows[i] = MarshalClient(c)
	}
	return writeRows(w, ClientsHeader, rows)
}

// MarshalClient converts a client to a CSV row.
func MarshalClient(c model.ClientProfile) []string {
	row := make([]string, clientFields)
	row[colClientID] = c.ID
	row[colClientName] = c.Name
	row[colCountry] = c.CountryCode
	row[colIsBusiness] = strconv.FormatBool(c.IsBusiness)
	row[colVATNumber] = c.VATNumber
	row[colInvoicingFq] = string(c.InvoicingFrequency)
	return row
}

// UnmarshalClient converts a CSV row to a client. An empty invoicing
// frequency becomes on_demand.
func UnmarshalClient(record []string) (model.ClientProfile, error) {
	if len(record) != clientFields {
		return model.ClientProfile{}, fmt.Errorf("expected %d fields, got %d", clientFields, len(record))
	}
	isBusiness, err := parseBool("is_business", record[colIsBusiness])
	if err != nil {
		return model.ClientProfile{}, err
	}
	freq := model.InvoicingFrequency(record[colInvoicingFq])
	if freq == "" {
		freq = model.InvoicingOnDemand
	}
	return model.ClientProfile{
		ID:                 record[colClientID],
		Name:               record[colClientName],
		CountryCode:        strings.ToUpper(record[colCountry]),
		IsBusiness:         isBusiness,
		VATNumber:          record[colVATNumber],
		InvoicingFrequency: freq,
	}, nil
}

// ReadInvoices reads invoices.csv. Clients are not joined.
func ReadInvoices(r io.Reader) ([]model.Invoice, error) {
	rows, err := readRows(r, invoiceFields, "invoices")
	if err != nil {
		return nil, err
	}
	var invoices []model.Invoice
	for i, rec := range rows {
		inv, err := UnmarshalInvoice(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		invoices = append(invoices, inv)
	}
	return invoices, nil
}

// WriteInvoices writes invoices.csv (including header).
func WriteInvoices(w io.Writer, invoices []model.Invoice) error {
	rows := make([][]string, len(invoices))
	for i, inv := range invoices {
		rows[i] = MarshalInvoice(inv)
	}
	return writeRows(w, InvoicesHeader, rows)
}

// MarshalInvoice converts an invoice to a CSV row.
func MarshalInvoice(inv model.Invoice) []string {
	row := make([]string, invoiceFields)
	row[colInvoiceID] = inv.ID
	row[colNumber] = inv.Number
	row[colInvClient] = inv.ClientID
	row[colInvoiceDate] = period.FormatDate(inv.InvoiceDate)
	row[colStatus] = string(inv.Status)
	row[colSubtotal] = inv.Subtotal.StringFixed(2)
	row[colInvVAT] = inv.VATAmount.StringFixed(2)
	row[colVATType] = string(inv.VATType)
	if inv.ReminderLevel != model.ReminderNone {
		row[colReminder] = string(inv.ReminderLevel)
	}
	return row
}

// UnmarshalInvoice converts a CSV row to an invoice.
func UnmarshalInvoice(record []string) (model.Invoice, error) {
	if len(record) != invoiceFields {
		return model.Invoice{}, fmt.Errorf("expected %d fields, got %d", invoiceFields, len(record))
	}
	date, err := parseDate("invoice_date", record[colInvoiceDate])
	if err != nil {
		return model.Invoice{}, err
	}
	subtotal, err := parseDecimal("subtotal", record[colSubtotal])
	if err != nil {
		return model.Invoice{}, err
	}
	vatAmount, err := parseDecimal("vat_amount", record[colInvVAT])
	if err != nil {
		return model.Invoice{}, err
	}
	vatType := model.VATType(record[colVATType])
	if !vatType.Valid() {
		return model.Invoice{}, fmt.Errorf("unknown vat_type %q", record[colVATType])
	}
	reminder := model.ReminderLevel(record[colReminder])
	if reminder == "" {
		reminder = model.ReminderNone
	}
	return model.Invoice{
		ID:            record[colInvoiceID],
		Number:        record[colNumber],
		ClientID:      record[colInvClient],
		InvoiceDate:   date,
		Status:        model.InvoiceStatus(record[colStatus]),
		Subtotal:      subtotal,
		VATAmount:     vatAmount,
		VATType:       vatType,
		ReminderLevel: reminder,
	}, nil
}

// ReadExpenses reads expenses.csv.
func ReadExpenses(r io.Reader) ([]model.Expense, error) {
	rows, err := readRows(r, expenseFields, "expenses")
	if err != nil {
		return nil, err
	}
	var expenses []model.Expense
	for i, rec := range rows {
		exp, err := UnmarshalExpense(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		expenses = append(expenses, exp)
	}
	return expenses, nil
}

// WriteExpenses writes expenses.csv (including header).
func WriteExpenses(w io.Writer, expenses []model.Expense) error {
	rows := make([][]string, len(expenses))
	for i, exp := range expenses {
		rows[i] = MarshalExpense(exp)
	}
	return writeRows(w, ExpensesHeader, rows)
}

// MarshalExpense converts an expense to a CSV row.
func MarshalExpense(exp model.Expense) []string {
	row := make([]string, expenseFields)
	row[colExpenseID] = exp.ID
	row[colExpenseDate] = period.FormatDate(exp.ExpenseDate)
	row[colExpDesc] = exp.Description
	row[colAmount] = exp.Amount.StringFixed(2)
	row[colExpVAT] = exp.VATAmount.StringFixed(2)
	row[colVATRate] = exp.VATRate.String()
	row[colDeductible] = strconv.FormatBool(exp.IsDeductible)
	row[colTemplateID] = exp.TemplateID
	return row
}

// UnmarshalExpense converts a CSV row to an expense.
func UnmarshalExpense(record []string) (model.Expense, error) {
	if len(record) != expenseFields {
		return model.Expense{}, fmt.Errorf("expected %d fields, got %d", expenseFields, len(record))
	}
	date, err := parseDate("expense_date", record[colExpenseDate])
	if err != nil {
		return model.Expense{}, err
	}
	amount, err := parseDecimal("amount", record[colAmount])
	if err != nil {
		return model.Expense{}, err
	}
	vatAmount, err := parseDecimal("vat_amount", record[colExpVAT])
	if err != nil {
		return model.Expense{}, err
	}
	vatRate, err := parseDecimal("vat_rate", record[colVATRate])
	if err != nil {
		return model.Expense{}, err
	}
	deductible, err := parseBool("is_deductible", record[colDeductible])
	if err != nil {
		return model.Expense{}, err
	}
	return model.Expense{
		ID:           record[colExpenseID],
		ExpenseDate:  date,
		Description:  record[colExpDesc],
		Amount:       amount,
		VATAmount:    vatAmount,
		VATRate:      vatRate,
		IsDeductible: deductible,
		TemplateID:   record[colTemplateID],
	}, nil
}

// ReadTimeEntries reads time-entries.csv.
func ReadTimeEntries(r io.Reader) ([]model.TimeEntry, error) {
	rows, err := readRows(r, entryFields, "time entries")
	if err != nil {
		return nil, err
	}
	var entries []model.TimeEntry
	for i, rec := range rows {
		e, err := UnmarshalTimeEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// WriteTimeEntries writes time-entries.csv (including header).
func WriteTimeEntries(w io.Writer, entries []model.TimeEntry) error {
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = MarshalTimeEntry(e)
	}
	return writeRows(w, TimeEntriesHeader, rows)
}

// MarshalTimeEntry converts a time entry to a CSV row.
func MarshalTimeEntry(e model.TimeEntry) []string {
	row := make([]string, entryFields)
	row[colEntryID] = e.ID
	row[colEntryClient] = e.ClientID
	row[colEntryDate] = period.FormatDate(e.EntryDate)
	row[colHours] = e.Hours.String()
	row[colEntryDesc] = e.Description
	row[colBillable] = strconv.FormatBool(e.Billable)
	row[colInvoiced] = strconv.FormatBool(e.Invoiced)
	row[colEntryInvoice] = e.InvoiceID
	return row
}

// UnmarshalTimeEntry converts a CSV row to a time entry.
func UnmarshalTimeEntry(record []string) (model.TimeEntry, error) {
	if len(record) != entryFields {
		return model.TimeEntry{}, fmt.Errorf("expected %d fields, got %d", entryFields, len(record))
	}
	date, err := parseDate("entry_date", record[colEntryDate])
	if err != nil {
		return model.TimeEntry{}, err
	}
	hours, err := parseDecimal("hours", record[colHours])
	if err != nil {
		return model.TimeEntry{}, err
	}
	billable, err := parseBool("billable", record[colBillable])
	if err != nil {
		return model.TimeEntry{}, err
	}
	invoiced, err := parseBool("invoiced", record[colInvoiced])
	if err != nil {
		return model.TimeEntry{}, err
	}
	return model.TimeEntry{
		ID:          record[colEntryID],
		ClientID:    record[colEntryClient],
		EntryDate:   date,
		Hours:       hours,
		Description: record[colEntryDesc],
		Billable:    billable,
		Invoiced:    invoiced,
		InvoiceID:   record[colEntryInvoice],
	}, nil
}
