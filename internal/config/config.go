package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/zzpboek/zzpbtw/internal/logger"
	"github.com/zzpboek/zzpbtw/internal/period"
	"github.com/zzpboek/zzpbtw/internal/vat"
)

// FileName is the project configuration file at the books root.
const FileName = "zzpbtw.yaml"

// Environment overrides applied by ApplyEnv.
const (
	EnvLogLevel  = "ZZPBTW_LOG_LEVEL"
	EnvLogFormat = "ZZPBTW_LOG_FORMAT"
)

// Config represents the top-level zzpbtw.yaml configuration.
type Config struct {
	Business BusinessConfig `yaml:"business"`
	VAT      VATConfig      `yaml:"vat"`
	ICP      ICPConfig      `yaml:"icp"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// BusinessConfig identifies the freelancer's business.
type BusinessConfig struct {
	Name        string `yaml:"name"`
	VATNumber   string `yaml:"vat_number,omitempty"`
	HomeCountry string `yaml:"home_country"`
}

// VATConfig is the reference data the classifier runs on.
type VATConfig struct {
	EUCountries          []string    `yaml:"eu_countries"`
	FallbackStandardRate string      `yaml:"fallback_standard_rate"`
	FallbackReducedRate  string      `yaml:"fallback_reduced_rate"`
	Rates                []RateEntry `yaml:"rates"`
}

// RateEntry is one versioned rate row. Rates are fractions ("0.21") and
// dates are YYYY-MM-DD.
type RateEntry struct {
	CountryCode   string `yaml:"country_code"`
	RateType      string `yaml:"rate_type"`
	Rate          string `yaml:"rate"`
	EffectiveFrom string `yaml:"effective_from"`
	EffectiveTo   string `yaml:"effective_to,omitempty"`
}

// ICPConfig tunes the ICP declaration.
type ICPConfig struct {
	ServiceDescription  string `yaml:"service_description"`
	HighVolumeThreshold string `yaml:"high_volume_threshold"`
}

// LoggingConfig controls the zerolog setup.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads a zzpbtw.yaml file from disk.
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

// Default returns a Config with the Dutch rate history and the EU member
// states for a new project.
func Default(businessName string) *Config {
	return &Config{
		Business: BusinessConfig{
			Name:        businessName,
			HomeCountry: vat.HomeCountry,
		},
		VAT: VATConfig{
			EUCountries:          append([]string(nil), vat.EUMemberStates...),
			FallbackStandardRate: vat.DefaultStandardRate.String(),
			FallbackReducedRate:  vat.DefaultReducedRate.String(),
			Rates: []RateEntry{
				{CountryCode: "NL", RateType: vat.RateTypeStandard, Rate: "0.19", EffectiveFrom: "2001-01-01", EffectiveTo: "2012-09-30"},
				{CountryCode: "NL", RateType: vat.RateTypeStandard, Rate: "0.21", EffectiveFrom: "2012-10-01"},
				{CountryCode: "NL", RateType: vat.RateTypeReduced, Rate: "0.06", EffectiveFrom: "2001-01-01", EffectiveTo: "2018-12-31"},
				{CountryCode: "NL", RateType: vat.RateTypeReduced, Rate: "0.09", EffectiveFrom: "2019-01-01"},
			},
		},
		ICP: ICPConfig{
			ServiceDescription:  "Professional services",
			HighVolumeThreshold: "50000",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// ApplyEnv overlays environment overrides onto the logging section.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = v
	}
}

// LogConfig returns the logger settings.
func (c *Config) LogConfig() logger.LogConfig {
	lc := logger.DefaultConfig()
	if c.Logging.Level != "" {
		lc.Level = c.Logging.Level
	}
	if c.Logging.Format != "" {
		lc.Format = c.Logging.Format
	}
	return lc
}

// RateTable parses the configured rates into an immutable table.
func (c *Config) RateTable() (*vat.RateTable, error) {
	rows := make([]vat.Rate, 0, len(c.VAT.Rates))
	for i, e := range c.VAT.Rates {
		rate, err := decimal.NewFromString(e.Rate)
		if err != nil {
			return nil, fmt.Errorf("vat.rates[%d].rate: %w", i, err)
		}
		from, err := period.ParseDate(e.EffectiveFrom)
		if err != nil {
			return nil, fmt.Errorf("vat.rates[%d].effective_from: %w", i, err)
		}
		row := vat.Rate{CountryCode: e.CountryCode, RateType: e.RateType, Rate: rate, EffectiveFrom: from}
		if e.EffectiveTo != "" {
			to, err := period.ParseDate(e.EffectiveTo)
			if err != nil {
				return nil, fmt.Errorf("vat.rates[%d].effective_to: %w", i, err)
			}
			row.EffectiveTo = &to
		}
		rows = append(rows, row)
	}

	table, err := vat.NewRateTable(rows)
	if err != nil {
		return nil, fmt.Errorf("vat.rates: %w", err)
	}
	return table, nil
}

// EUCountries returns the configured member states, or the built-in list
// when none are configured.
func (c *Config) EUCountries() vat.CountrySet {
	if len(c.VAT.EUCountries) == 0 {
		return vat.NewCountrySet(vat.EUMemberStates)
	}
	return vat.NewCountrySet(c.VAT.EUCountries)
}

// Classifier wires the configured reference data into a VAT classifier.
func (c *Config) Classifier() (*vat.Classifier, error) {
	rates, err := c.RateTable()
	if err != nil {
		return nil, err
	}
	std, err := optionalDecimal(c.VAT.FallbackStandardRate)
	if err != nil {
		return nil, fmt.Errorf("vat.fallback_standard_rate: %w", err)
	}
	reduced, err := optionalDecimal(c.VAT.FallbackReducedRate)
	if err != nil {
		return nil, fmt.Errorf("vat.fallback_reduced_rate: %w", err)
	}
	return vat.NewClassifier(rates, c.EUCountries()).
		WithHomeCountry(c.Business.HomeCountry).
		WithFallbackRates(std, reduced), nil
}

// HighVolumeThreshold parses icp.high_volume_threshold; empty means zero.
func (c *Config) HighVolumeThreshold() (decimal.Decimal, error) {
	d, err := optionalDecimal(c.ICP.HighVolumeThreshold)
	if err != nil {
		return decimal.Zero, fmt.Errorf("icp.high_volume_threshold: %w", err)
	}
	return d, nil
}

func optionalDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
