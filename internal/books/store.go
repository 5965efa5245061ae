// Package books reads and writes the file-backed bookkeeping records
// (clients, invoices, expenses, time entries, recurring templates) that
// feed the VAT calculations.
package books

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/zzpboek/zzpbtw/internal/model"
	"github.com/zzpboek/zzpbtw/internal/period"
)

// File names inside a books directory.
const (
	ClientsFile     = "clients.csv"
	InvoicesFile    = "invoices.csv"
	ExpensesFile    = "expenses.csv"
	TimeEntriesFile = "time-entries.csv"
	RecurringFile   = "recurring.yaml"
)

// Store provides in-memory lookup over one books directory.
type Store struct {
	clients     []model.ClientProfile
	invoices    []model.Invoice
	expenses    []model.Expense
	timeEntries []model.TimeEntry
	templates   []model.RecurringExpenseTemplate

	clientByID   map[string]model.ClientProfile
	templateByID map[string]model.RecurringExpenseTemplate
}

// NewStore indexes the given records and joins each invoice to its client.
// Invoices whose client is unknown keep a nil Client.
func NewStore(clients []model.ClientProfile, invoices []model.Invoice, expenses []model.Expense, entries []model.TimeEntry, templates []model.RecurringExpenseTemplate) *Store {
	s := &Store{
		clients:      clients,
		expenses:     expenses,
		timeEntries:  entries,
		templates:    templates,
		clientByID:   make(map[string]model.ClientProfile, len(clients)),
		templateByID: make(map[string]model.RecurringExpenseTemplate, len(templates)),
	}
	for _, c := range clients {
		s.clientByID[c.ID] = c
	}
	for _, t := range templates {
		s.templateByID[t.ID] = t
	}

	s.invoices = make([]model.Invoice, len(invoices))
	for i, inv := range invoices {
		if c, ok := s.clientByID[inv.ClientID]; ok {
			inv.Client = model.InvoiceClientOf(c)
		}
		s.invoices[i] = inv
	}
	return s
}

// Load reads every books file from dir. Missing files count as empty.
func Load(dir string) (*Store, error) {
	clients, err := readFile(dir, ClientsFile, ReadClients)
	if err != nil {
		return nil, err
	}
	invoices, err := readFile(dir, InvoicesFile, ReadInvoices)
	if err != nil {
		return nil, err
	}
	expenses, err := readFile(dir, ExpensesFile, ReadExpenses)
	if err != nil {
		return nil, err
	}
	entries, err := readFile(dir, TimeEntriesFile, ReadTimeEntries)
	if err != nil {
		return nil, err
	}
	templates, err := readFile(dir, RecurringFile, ReadTemplates)
	if err != nil {
		return nil, err
	}
	return NewStore(clients, invoices, expenses, entries, templates), nil
}

func readFile[T any](dir, name string, read func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(filepath.Join(dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", name, err)
	}
	defer f.Close()

	records, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return records, nil
}

func writeFile(dir, name string, write func(io.Writer) error) error {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return f.Close()
}

// Save writes every books file into dir, creating it if needed.
func (s *Store) Save(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating books dir: %w", err)
	}
	writers := []struct {
		name  string
		write func(io.Writer) error
	}{
		{ClientsFile, func(w io.Writer) error { return WriteClients(w, s.clients) }},
		{InvoicesFile, func(w io.Writer) error { return WriteInvoices(w, s.invoices) }},
		{ExpensesFile, func(w io.Writer) error { return WriteExpenses(w, s.expenses) }},
		{TimeEntriesFile, func(w io.Writer) error { return WriteTimeEntries(w, s.timeEntries) }},
		{RecurringFile, func(w io.Writer) error { return WriteTemplates(w, s.templates) }},
	}
	for _, fw := range writers {
		if err := writeFile(dir, fw.name, fw.write); err != nil {
			return err
		}
	}
	return nil
}

// Clients returns all clients.
func (s *Store) Clients() []model.ClientProfile {
	return s.clients
}

// Client returns a client by ID.
func (s *Store) Client(id string) (model.ClientProfile, bool) {
	c, ok := s.clientByID[id]
	return c, ok
}

// Invoices returns all invoices with their clients joined.
func (s *Store) Invoices() []model.Invoice {
	return s.invoices
}

// Expenses returns all expenses.
func (s *Store) Expenses() []model.Expense {
	return s.expenses
}

// TimeEntriesFor returns the time entries booked on a client.
func (s *Store) TimeEntriesFor(clientID string) []model.TimeEntry {
	var result []model.TimeEntry
	for _, e := range s.timeEntries {
		if e.ClientID == clientID {
			result = append(result, e)
		}
	}
	return result
}

// Templates returns all recurring expense templates.
func (s *Store) Templates() []model.RecurringExpenseTemplate {
	return s.templates
}

// Template returns a recurring expense template by ID.
func (s *Store) Template(id string) (model.RecurringExpenseTemplate, bool) {
	t, ok := s.templateByID[id]
	return t, ok
}

// RecordedDates returns the dates of expenses booked from a template.
func (s *Store) RecordedDates(templateID string) []time.Time {
	var dates []time.Time
	for _, e := range s.expenses {
		if e.TemplateID == templateID {
			dates = append(dates, period.Day(e.ExpenseDate))
		}
	}
	return dates
}
