package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default("Test Platform", "sas")
	cfg.Report.Parallelism = 2

	path := filepath.Join(t.TempDir(), "fiscal.yaml")
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg.Business.Name, got.Business.Name)
	assert.Equal(t, cfg.Business.EntityType, got.Business.EntityType)
	assert.Equal(t, cfg.Fiscal, got.Fiscal)
	assert.Equal(t, cfg.Jurisdiction.Members, got.Jurisdiction.Members)
	assert.Equal(t, cfg.Accounts, got.Accounts)
	assert.Equal(t, cfg.Logging, got.Logging)
	assert.Equal(t, 2, got.Report.Parallelism)
}

func TestDefaults(t *testing.T) {
	cfg := Default("My Platform", "sas")

	assert.Equal(t, "My Platform", cfg.Business.Name)
	assert.Equal(t, "01-01", cfg.Fiscal.YearStart)
	assert.Equal(t, "FR", cfg.Fiscal.HomeCountry)
	assert.Equal(t, "EUR", cfg.Fiscal.Currency)
	assert.Len(t, cfg.Jurisdiction.Members, 27)
	assert.Equal(t, "20", cfg.Jurisdiction.Members["FR"])
	assert.Equal(t, "411", cfg.Accounts.Receivable)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 4, cfg.Report.Parallelism)
	assert.Equal(t, "Fiscal Engine", cfg.Git.AuthorName)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestYAMLFormat(t *testing.T) {
	cfg := Default("Test Platform", "sas")
	path := filepath.Join(t.TempDir(), "fiscal.yaml")
	require.NoError(t, Save(path, cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "name: Test Platform")
	assert.Contains(t, contents, "year_start: 01-01")
	assert.Contains(t, contents, "home_country: FR")
	assert.Contains(t, contents, "tax_collected: \"44571\"")
	assert.Contains(t, contents, "parallelism: 4")
}
