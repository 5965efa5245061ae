// Package export renders a quarterly BTW return and its ICP declaration
// into files for the accountant or the tax portal.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/zzpboek/zzpbtw/internal/model"
	"github.com/zzpboek/zzpbtw/internal/period"
	"github.com/zzpboek/zzpbtw/internal/vatreturn"
)

// ReportsDir is the subdirectory for exported reports.
const ReportsDir = "reports"

// Report is everything an export writer renders.
type Report struct {
	ID          string
	GeneratedOn time.Time
	Business    string
	Return      model.VATReturn
	ICP         vatreturn.ICPSummary
}

// Writer renders a Report in one file format.
type Writer interface {
	Write(w io.Writer, rep Report) error
	Format() string
}

// Registry holds named writers.
type Registry struct {
	writers map[string]Writer
}

// NewRegistry creates an empty writer registry.
func NewRegistry() *Registry {
	return &Registry{writers: make(map[string]Writer)}
}

// Register adds a writer. Panics on duplicate format.
func (r *Registry) Register(w Writer) {
	key := strings.ToLower(w.Format())
	if _, ok := r.writers[key]; ok {
		panic("duplicate export format: " + key)
	}
	r.writers[key] = w
}

// Get returns the writer for format, or nil.
func (r *Registry) Get(format string) Writer {
	return r.writers[strings.ToLower(format)]
}

// Formats lists the registered formats in sorted order.
func (r *Registry) Formats() []string {
	out := make([]string, 0, len(r.writers))
	for k := range r.writers {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// DefaultRegistry returns a registry with all built-in writers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&CSVWriter{})
	r.Register(&XLSXWriter{})
	return r
}

// FileName is the report file name for a quarter, e.g. "btw-2024-Q1.xlsx".
func FileName(year, quarter int, format string) string {
	return fmt.Sprintf("btw-%s.%s", period.FormatQuarter(year, quarter), strings.ToLower(format))
}

// WriteFile renders rep with the writer for format into
// <root>/reports/ and returns the written path.
func (r *Registry) WriteFile(root, format string, rep Report) (string, error) {
	w := r.Get(format)
	if w == nil {
		return "", fmt.Errorf("unknown export format %q (have %s)", format, strings.Join(r.Formats(), ", "))
	}

	dir := filepath.Join(root, ReportsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating reports dir: %w", err)
	}

	path := filepath.Join(dir, FileName(rep.Return.Year, rep.Return.Quarter, w.Format()))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating report: %w", err)
	}
	if err := w.Write(f, rep); err != nil {
		f.Close()
		return "", fmt.Errorf("writing %s report: %w", w.Format(), err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing report: %w", err)
	}
	return path, nil
}

// summaryRows is the label/value listing of a return shared by the writers.
func summaryRows(rep Report) [][2]string {
	ret := rep.Return
	return [][2]string{
		{"Report ID", rep.ID},
		{"Business", rep.Business},
		{"Quarter", period.FormatQuarter(ret.Year, ret.Quarter)},
		{"Period start", period.FormatDate(ret.PeriodStart)},
		{"Period end", period.FormatDate(ret.PeriodEnd)},
		{"Total revenue", ret.TotalRevenue.StringFixed(2)},
		{"VAT collected", ret.TotalVATCollected.StringFixed(2)},
		{"Total expenses", ret.TotalExpenses.StringFixed(2)},
		{"VAT paid", ret.TotalVATPaid.StringFixed(2)},
		{"VAT to pay", ret.VATToPay.StringFixed(2)},
		{"Reverse charge revenue (3b)", ret.ReverseChargeRevenue.StringFixed(2)},
		{"ICP total", rep.ICP.TotalServices.StringFixed(2)},
		{"ICP submission deadline", period.FormatDate(rep.ICP.SubmissionDeadline)},
		{"Skipped ICP entries", fmt.Sprint(ret.SkippedICPEntries)},
	}
}

var icpHeader = []string{"vat_number", "client_name", "country_code", "net_amount", "transactions"}

func icpRow(c vatreturn.ICPCustomer) []string {
	return []string{c.VATNumber, c.ClientName, c.CountryCode, c.NetAmount.StringFixed(2), fmt.Sprint(c.TransactionCount)}
}
