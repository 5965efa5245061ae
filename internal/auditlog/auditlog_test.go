package auditlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2024, 4, 2, 10, 30, 0, 0, time.UTC)

func testEntry() Entry {
	return Entry{
		ReportID:  "7b1d5c1e-2f0a-4c52-9a47-2d6d3f6d9b10",
		Timestamp: testTime,
		Action:    ActionVATReturn,
		Period:    "2024-Q1",
		AsOf:      time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC),
		Summary:   "vat_to_pay=588.00",
		Output:    "reports/btw-2024-Q1.xlsx",
	}
}

func TestAppend_NewFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, testEntry()))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, testEntry(), entries[0])
}

func TestAppend_ExistingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, testEntry()))

	e2 := testEntry()
	e2.ReportID = ""
	e2.Action = ActionICP
	require.NoError(t, Append(dir, e2))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, ActionVATReturn, entries[0].Action)
	assert.Equal(t, ActionICP, entries[1].Action)

	_, err = uuid.Parse(entries[1].ReportID)
	assert.NoError(t, err, "missing report IDs are generated")

	data, err := os.ReadFile(filepath.Join(dir, logFile))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), Header))
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, testEntry()))

	e, ok, err := Find(dir, testEntry().ReportID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "2024-Q1", e.Period)

	_, ok, err = Find(dir, NewReportID())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRead_Missing(t *testing.T) {
	entries, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestUnmarshalEntry_Errors(t *testing.T) {
	row := MarshalEntry(testEntry())

	bad := append([]string(nil), row...)
	bad[colReportID] = "not-a-uuid"
	_, err := UnmarshalEntry(bad)
	assert.ErrorContains(t, err, "report_id")

	bad = append([]string(nil), row...)
	bad[colTimestamp] = "yesterday"
	_, err = UnmarshalEntry(bad)
	assert.ErrorContains(t, err, "timestamp")

	_, err = UnmarshalEntry(row[:3])
	assert.ErrorContains(t, err, "expected 7 fields")
}
