package commands_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zzpboek/zzpbtw/internal/books"
	"github.com/zzpboek/zzpbtw/internal/config"
)

func TestInit_CreatesStructure(t *testing.T) {
	dir := t.TempDir()
	out, err := runZZPBTW(t, "init", dir, "--name", "Test Freelance")
	require.NoError(t, err)
	assert.Contains(t, out, "Initialized zzpbtw books for Test Freelance")

	for _, d := range []string{"logs", "reports"} {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir(), "%s should be a directory", d)
	}
	for _, f := range []string{books.ClientsFile, books.InvoicesFile, books.ExpensesFile, books.TimeEntriesFile, books.RecurringFile, ".gitignore"} {
		_, err := os.Stat(filepath.Join(dir, f))
		require.NoError(t, err, "file %s should exist", f)
	}

	s, err := books.Load(dir)
	require.NoError(t, err)
	assert.Empty(t, s.Clients())
}

func TestInit_Config(t *testing.T) {
	dir := t.TempDir()
	_, err := runZZPBTW(t, "init", dir, "--name", "My Company", "--vat-number", "NL001234567B01")
	require.NoError(t, err)

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, "My Company", cfg.Business.Name)
	assert.Equal(t, "NL001234567B01", cfg.Business.VATNumber)
	assert.Len(t, cfg.VAT.Rates, 4)
}

func TestInit_RequiresName(t *testing.T) {
	_, err := runZZPBTW(t, "init", t.TempDir())
	require.Error(t, err, "init without --name should fail")
}

func TestInit_RefusesExistingProject(t *testing.T) {
	dir := t.TempDir()
	_, err := runZZPBTW(t, "init", dir, "--name", "A")
	require.NoError(t, err)

	_, err = runZZPBTW(t, "init", dir, "--name", "B")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestCommands_RequireProject(t *testing.T) {
	_, err := runZZPBTW(t, "vat", "rules", "--repo", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "zzpbtw init")
}
