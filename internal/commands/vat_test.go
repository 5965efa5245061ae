package commands_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zzpboek/zzpbtw/internal/auditlog"
	"github.com/zzpboek/zzpbtw/internal/model"
	"github.com/zzpboek/zzpbtw/internal/vat"
)

func TestVATClassify_Domestic(t *testing.T) {
	dir := initBooks(t)
	out, err := runZZPBTW(t, "vat", "classify", "--repo", dir, "--date", "2024-06-15", "--country", "NL", "--item", "40:75")
	require.NoError(t, err, out)

	assert.Contains(t, out, "VAT type:    standard (domestic)")
	assert.Contains(t, out, "Subtotal:    3000.00")
	assert.Contains(t, out, "VAT amount:  630.00")
	assert.Contains(t, out, "Total:       3630.00")
	assert.Contains(t, out, "Standard Dutch VAT (21%) applied")
}

func TestVATClassify_ClientReverseCharge(t *testing.T) {
	dir := initBooks(t)
	out, err := runZZPBTW(t, "vat", "classify", "--repo", dir, "--date", "2024-06-15", "--client", "muller", "--item", "1:1000")
	require.NoError(t, err, out)

	assert.Contains(t, out, "VAT type:    reverse_charge")
	assert.Contains(t, out, "VAT amount:  0.00")
	assert.Contains(t, out, "Total:       1000.00")
}

func TestVATClassify_Export(t *testing.T) {
	dir := initBooks(t)
	out, err := runZZPBTW(t, "vat", "classify", "--repo", dir, "--date", "2024-06-15", "--client", "globex", "--item", "2:250", "--total", "500")
	require.NoError(t, err, out)

	assert.Contains(t, out, "VAT type:    exempt")
	assert.Contains(t, out, "Total check: ok")
}

func TestVATClassify_BlankVATNumberIsNotReverseCharge(t *testing.T) {
	dir := initBooks(t)
	out, err := runZZPBTW(t, "vat", "classify", "--repo", dir, "--date", "2024-06-15", "--country", "DE", "--business", "--vat-number", "  ", "--item", "1:100")
	require.NoError(t, err, out)

	assert.Contains(t, out, "VAT type:    standard (eu_b2c_or_unverified)")
	assert.Contains(t, out, "VAT amount:  21.00")
}

func TestVATClassify_Errors(t *testing.T) {
	dir := initBooks(t)

	_, err := runZZPBTW(t, "vat", "classify", "--repo", dir, "--country", "NL")
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrValidation))

	_, err = runZZPBTW(t, "vat", "classify", "--repo", dir, "--country", "NLD", "--item", "1:10")
	require.ErrorIs(t, err, model.ErrValidation)

	_, err = runZZPBTW(t, "vat", "classify", "--repo", dir, "--country", "NL", "--item", "1:100", "--total", "130")
	require.ErrorIs(t, err, vat.ErrInconsistentTotals)

	_, err = runZZPBTW(t, "vat", "classify", "--repo", dir, "--client", "nobody", "--item", "1:100")
	require.Error(t, err)

	_, err = runZZPBTW(t, "vat", "classify", "--repo", dir, "--country", "NL", "--item", "100")
	require.Error(t, err)
}

func TestVATRules(t *testing.T) {
	dir := initBooks(t)
	out, err := runZZPBTW(t, "vat", "rules", "--repo", dir, "--date", "2012-01-01")
	require.NoError(t, err, out)

	assert.Contains(t, out, "VAT rules on 2012-01-01")
	assert.Contains(t, out, "eu_b2b_reverse_charge")
	assert.Contains(t, out, "19%")
	assert.Contains(t, out, "EU member states:")
}

func TestVATReturn_ExportAndAudit(t *testing.T) {
	dir := initBooks(t)
	out, err := runZZPBTW(t, "vat", "return", "--repo", dir, "--date", "2024-04-02", "--quarter", "2024-Q1", "--export", "csv")
	require.NoError(t, err, out)

	assert.Contains(t, out, "BTW return 2024-Q1 (2024-01-01 to 2024-03-31)")
	assert.Regexp(t, `Revenue:\s+4000.00`, out)
	assert.Regexp(t, `VAT collected:\s+630.00`, out)
	assert.Regexp(t, `Deductible expenses:\s+300.00`, out)
	assert.Regexp(t, `VAT paid \(voorbelasting\):\s+63.00`, out)
	assert.Regexp(t, `VAT to pay:\s+567.00`, out)
	assert.Regexp(t, `Reverse charge \(3b\):\s+1000.00`, out)
	assert.Contains(t, out, "ICP declaration (deadline 2024-04-30)")
	assert.Contains(t, out, "DE123456789")

	report := filepath.Join(dir, "reports", "btw-2024-Q1.csv")
	_, err = os.Stat(report)
	require.NoError(t, err)

	entries, err := auditlog.Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, auditlog.ActionVATReturn, entries[0].Action)
	assert.Equal(t, "2024-Q1", entries[0].Period)
	assert.Equal(t, date(2024, 4, 2), entries[0].AsOf)
	assert.Equal(t, "vat_to_pay=567.00 icp_total=1000.00", entries[0].Summary)
	assert.Equal(t, report, entries[0].Output)
}

func TestVATReturn_DefaultsToPreviousQuarter(t *testing.T) {
	dir := initBooks(t)
	t.Setenv("ZZPBTW_CURRENT_DATE", "2024-05-10")

	out, err := runZZPBTW(t, "vat", "return", "--repo", dir, "--no-audit")
	require.NoError(t, err, out)
	assert.Contains(t, out, "BTW return 2024-Q1")

	entries, err := auditlog.Read(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestVATReturn_XLSXAndBadQuarter(t *testing.T) {
	dir := initBooks(t)
	_, err := runZZPBTW(t, "vat", "return", "--repo", dir, "--quarter", "2024-Q1", "--export", "xlsx")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "reports", "btw-2024-Q1.xlsx"))
	require.NoError(t, err)

	_, err = runZZPBTW(t, "vat", "return", "--repo", dir, "--quarter", "2024-Q5")
	require.Error(t, err)

	_, err = runZZPBTW(t, "vat", "return", "--repo", dir, "--quarter", "2024-Q1", "--export", "pdf")
	require.Error(t, err)
}
