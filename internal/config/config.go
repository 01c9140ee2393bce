package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/fiscal/internal/accounts"
)

// Config represents the top-level fiscal.yaml configuration.
type Config struct {
	Business     BusinessConfig     `yaml:"business"`
	Fiscal       FiscalConfig       `yaml:"fiscal"`
	Jurisdiction JurisdictionConfig `yaml:"jurisdiction"`
	Accounts     accounts.Codes     `yaml:"accounts"`
	Logging      LoggingConfig      `yaml:"logging"`
	Report       ReportConfig       `yaml:"report"`
	Git          GitConfig          `yaml:"git"`
}

// BusinessConfig identifies the platform operator.
type BusinessConfig struct {
	Name       string `yaml:"name"`
	EntityType string `yaml:"entity_type"`
}

// FiscalConfig defines the fiscal year boundaries and home jurisdiction.
type FiscalConfig struct {
	YearStart   string `yaml:"year_start"` // "MM-DD" format, e.g. "01-01"
	HomeCountry string `yaml:"home_country"`
	Currency    string `yaml:"currency"`
}

// JurisdictionConfig lists the recognized tax-union member states and their
// standard VAT rates as decimal strings ("20", "5.5").
type JurisdictionConfig struct {
	Members map[string]string `yaml:"members"`
}

// LoggingConfig controls zerolog output.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ReportConfig tunes report generation.
type ReportConfig struct {
	Parallelism int `yaml:"parallelism"`
}

// GitConfig is the identity used to commit the journal of a project kept
// in git.
type GitConfig struct {
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a fiscal.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(businessName, entityType string) *Config {
	return &Config{
		Business: BusinessConfig{
			Name:       businessName,
			EntityType: entityType,
		},
		Fiscal: FiscalConfig{
			YearStart:   "01-01",
			HomeCountry: "FR",
			Currency:    "EUR",
		},
		Jurisdiction: JurisdictionConfig{
			Members: EUStandardRates(),
		},
		Accounts: accounts.DefaultCodes(),
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Report: ReportConfig{
			Parallelism: 4,
		},
		Git: GitConfig{
			AuthorName:  "Fiscal Engine",
			AuthorEmail: "fiscal@localhost",
		},
	}
}

// EUStandardRates returns the standard VAT rate of each EU member state.
func EUStandardRates() map[string]string {
	return map[string]string{
		"AT": "20", "BE": "21", "BG": "20", "CY": "19", "CZ": "21",
		"DE": "19", "DK": "25", "EE": "22", "ES": "21", "FI": "25.5",
		"FR": "20", "GR": "24", "HR": "25", "HU": "27", "IE": "23",
		"IT": "22", "LT": "21", "LU": "17", "LV": "21", "MT": "18",
		"NL": "21", "PL": "23", "PT": "23", "RO": "19", "SE": "25",
		"SI": "22", "SK": "23",
	}
}
