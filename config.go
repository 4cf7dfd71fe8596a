package finsight

import (
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/maxencebernardhub/smb-finsight/date"
)

// AppConfig is the application-wide configuration, loaded from a TOML file.
// All relative paths in the file resolve against the file's own directory.
type AppConfig struct {
	FiscalYear         FiscalYear
	Standard           string
	Currency           string
	DatabasePath       string
	StandardConfig     StandardConfig
	BalanceSheetInputs map[string]float64
	HRInputs           map[string]float64
	PeriodDays         int
	RatiosEnabled      bool
	DefaultRatiosLevel string
	DisplayMode        string
	RatioDecimals      int
}

// StandardConfig holds everything that depends on the accounting standard
// (FR_PCG, CA_ASPE, US_GAAP, IFRS, ...): mapping files, chart of accounts,
// ratio rule files and statement labels.
type StandardConfig struct {
	Standard                string
	IncomeStatementMapping  string
	SecondaryMapping        string
	ChartOfAccounts         string
	RatiosRulesFile         string
	RatiosCustomFile        string
	PrimaryStatementLabel   string
	SecondaryStatementLabel string
}

type appConfigTOML struct {
	FiscalYear struct {
		StartDate string `toml:"start_date"`
		EndDate   string `toml:"end_date"`
	} `toml:"fiscal_year"`
	Accounting struct {
		Standard           string `toml:"standard"`
		Currency           string `toml:"currency"`
		StandardConfigFile string `toml:"standard_config_file"`
	} `toml:"accounting"`
	Database struct {
		Path string `toml:"path"`
	} `toml:"database"`
	Inputs struct {
		BalanceSheet map[string]float64 `toml:"balance_sheet"`
		HR           map[string]float64 `toml:"hr"`
		Period       struct {
			PeriodDays int `toml:"period_days"`
		} `toml:"period"`
	} `toml:"inputs"`
	Ratios struct {
		Enabled      *bool  `toml:"enabled"`
		DefaultLevel string `toml:"default_level"`
	} `toml:"ratios"`
	Display struct {
		Mode          string `toml:"mode"`
		RatioDecimals *int   `toml:"ratio_decimals"`
	} `toml:"display"`
}

type standardConfigTOML struct {
	Paths struct {
		Mapping struct {
			IncomeStatement  string `toml:"income_statement"`
			SecondaryMapping string `toml:"secondary_mapping"`
			ChartOfAccounts  string `toml:"chart_of_accounts"`
		} `toml:"mapping"`
	} `toml:"paths"`
	Ratios struct {
		RulesFile       string `toml:"rules_file"`
		CustomRulesFile string `toml:"custom_rules_file"`
	} `toml:"ratios"`
	Statements struct {
		PrimaryLabel   string `toml:"primary_label"`
		SecondaryLabel string `toml:"secondary_label"`
	} `toml:"statements"`
}

// LoadAppConfig loads and validates the application configuration.
func LoadAppConfig(path string) (*AppConfig, error) {
	var raw appConfigTOML
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, fmt.Errorf("loading config %q: %w", path, err)
	}
	baseDir := filepath.Dir(path)

	fyStart, err := date.Parse(raw.FiscalYear.StartDate)
	if err != nil {
		return nil, fmt.Errorf("config %q: [fiscal_year].start_date: %w", path, err)
	}
	fyEnd, err := date.Parse(raw.FiscalYear.EndDate)
	if err != nil {
		return nil, fmt.Errorf("config %q: [fiscal_year].end_date: %w", path, err)
	}
	if fyEnd.Before(fyStart) {
		return nil, fmt.Errorf("config %q: fiscal year end_date is before start_date", path)
	}
	fy := FiscalYear{Start: fyStart, End: fyEnd}

	cfg := &AppConfig{
		FiscalYear:         fy,
		Standard:           defaultString(raw.Accounting.Standard, "FR_PCG"),
		Currency:           defaultString(raw.Accounting.Currency, "EUR"),
		DatabasePath:       resolvePath(baseDir, defaultString(raw.Database.Path, "data/db/smb_finsight.sqlite")),
		BalanceSheetInputs: raw.Inputs.BalanceSheet,
		HRInputs:           raw.Inputs.HR,
		RatiosEnabled:      true,
		DefaultRatiosLevel: defaultString(raw.Ratios.DefaultLevel, "basic"),
		DisplayMode:        defaultString(raw.Display.Mode, "table"),
		RatioDecimals:      1,
	}
	if raw.Ratios.Enabled != nil {
		cfg.RatiosEnabled = *raw.Ratios.Enabled
	}
	if raw.Display.RatioDecimals != nil {
		cfg.RatioDecimals = *raw.Display.RatioDecimals
	}
	if raw.Inputs.Period.PeriodDays > 0 {
		cfg.PeriodDays = raw.Inputs.Period.PeriodDays
	} else {
		// Default to the actual fiscal year length, boundaries included.
		cfg.PeriodDays = fy.Range().Days()
	}

	cfg.StandardConfig, err = loadStandardConfig(cfg.Standard, baseDir, raw.Accounting.StandardConfigFile)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadStandardConfig loads the standard-specific file when one is
// configured; otherwise all paths stay empty and only labels default.
func loadStandardConfig(standard, baseDir, file string) (StandardConfig, error) {
	cfg := StandardConfig{
		Standard:              standard,
		PrimaryStatementLabel: "Income statement",
	}
	if file == "" {
		return cfg, nil
	}
	path := resolvePath(baseDir, file)
	var raw standardConfigTOML
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return cfg, fmt.Errorf("loading standard config %q: %w", path, err)
	}
	stdDir := filepath.Dir(path)
	cfg.IncomeStatementMapping = resolveOptional(stdDir, raw.Paths.Mapping.IncomeStatement)
	cfg.SecondaryMapping = resolveOptional(stdDir, raw.Paths.Mapping.SecondaryMapping)
	cfg.ChartOfAccounts = resolveOptional(stdDir, raw.Paths.Mapping.ChartOfAccounts)
	cfg.RatiosRulesFile = resolveOptional(stdDir, raw.Ratios.RulesFile)
	cfg.RatiosCustomFile = resolveOptional(stdDir, raw.Ratios.CustomRulesFile)
	if raw.Statements.PrimaryLabel != "" {
		cfg.PrimaryStatementLabel = raw.Statements.PrimaryLabel
	}
	cfg.SecondaryStatementLabel = raw.Statements.SecondaryLabel
	return cfg, nil
}

func defaultString(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func resolvePath(baseDir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(baseDir, p)
}

func resolveOptional(baseDir, p string) string {
	if p == "" {
		return ""
	}
	return resolvePath(baseDir, p)
}
