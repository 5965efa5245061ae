// Package auditlog keeps an append-only record of generated VAT reports so
// every filing can be traced back to its inputs and reference date.
package auditlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zzpboek/zzpbtw/internal/period"
)

// Entry is one row in the audit log.
type Entry struct {
	ReportID  string
	Timestamp time.Time
	Action    string
	Period    string    // e.g. "2024-Q1"
	AsOf      time.Time // reference date the report was computed with
	Summary   string
	Output    string // path of the exported file, if any
}

// Actions recorded by the CLI.
const (
	ActionVATReturn = "vat_return"
	ActionICP       = "icp_declaration"
)

// Header is the CSV header for audit-log.csv.
const Header = "report_id,timestamp,action,period,as_of,summary,output"

const (
	numFields    = 7
	logDir       = "logs"
	logFile      = "logs/audit-log.csv"
	colReportID  = 0
	colTimestamp = 1
	colAction    = 2
	colPeriod    = 3
	colAsOf      = 4
	colSummary   = 5
	colOutput    = 6
)

// NewReportID returns a fresh random report ID.
func NewReportID() string {
	return uuid.NewString()
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colReportID] = e.ReportID
	row[colTimestamp] = e.Timestamp.UTC().Format(time.RFC3339)
	row[colAction] = e.Action
	row[colPeriod] = e.Period
	if !e.AsOf.IsZero() {
		row[colAsOf] = period.FormatDate(e.AsOf)
	}
	row[colSummary] = e.Summary
	row[colOutput] = e.Output
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	if _, err := uuid.Parse(record[colReportID]); err != nil {
		return Entry{}, fmt.Errorf("parsing report_id %q: %w", record[colReportID], err)
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	var asOf time.Time
	if record[colAsOf] != "" {
		asOf, err = period.ParseDate(record[colAsOf])
		if err != nil {
			return Entry{}, fmt.Errorf("parsing as_of: %w", err)
		}
	}

	return Entry{
		ReportID:  record[colReportID],
		Timestamp: ts,
		Action:    record[colAction],
		Period:    record[colPeriod],
		AsOf:      asOf,
		Summary:   record[colSummary],
		Output:    record[colOutput],
	}, nil
}

// Append writes entries to <root>/logs/audit-log.csv, creating the file and
// header if needed. Entries without a report ID get a new one.
func Append(root string, entries ...Entry) error {
	dir := filepath.Join(root, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(root, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening audit log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if e.ReportID == "" {
			e.ReportID = NewReportID()
		}
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	return cw.Error()
}

// Read returns all entries from <root>/logs/audit-log.csv.
// Returns an empty slice if the file does not exist.
func Read(root string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(root, logFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening audit log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

// Find returns the entry with the given report ID.
func Find(root, reportID string) (Entry, bool, error) {
	entries, err := Read(root)
	if err != nil {
		return Entry{}, false, err
	}
	for _, e := range entries {
		if e.ReportID == reportID {
			return e, true, nil
		}
	}
	return Entry{}, false, nil
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading audit log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
