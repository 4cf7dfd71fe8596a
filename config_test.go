package finsight

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAppConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.toml", `
[fiscal_year]
start_date = "2025-01-01"
end_date = "2025-12-31"
`)

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig() error: %v", err)
	}

	if cfg.Standard != "FR_PCG" {
		t.Errorf("standard = %q, want FR_PCG", cfg.Standard)
	}
	if cfg.Currency != "EUR" {
		t.Errorf("currency = %q, want EUR", cfg.Currency)
	}
	if !cfg.RatiosEnabled {
		t.Error("ratios should default to enabled")
	}
	if cfg.DefaultRatiosLevel != "basic" {
		t.Errorf("level = %q, want basic", cfg.DefaultRatiosLevel)
	}
	if cfg.RatioDecimals != 1 {
		t.Errorf("ratio decimals = %d, want 1", cfg.RatioDecimals)
	}
	if cfg.PeriodDays != 365 {
		t.Errorf("period days = %d, want the fiscal year length 365", cfg.PeriodDays)
	}
	if want := filepath.Join(dir, "data/db/smb_finsight.sqlite"); cfg.DatabasePath != want {
		t.Errorf("database path = %q, want %q", cfg.DatabasePath, want)
	}
}

func TestLoadAppConfigFull(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "standards/fr_pcg.toml", `
[paths.mapping]
income_statement = "mappings/income.csv"
chart_of_accounts = "mappings/chart.csv"

[ratios]
rules_file = "ratios/rules.toml"

[statements]
primary_label = "Compte de résultat"
`)
	path := writeFile(t, dir, "config.toml", `
[fiscal_year]
start_date = "2025-01-01"
end_date = "2025-12-31"

[accounting]
standard = "FR_PCG"
currency = "EUR"
standard_config_file = "standards/fr_pcg.toml"

[database]
path = "db/entries.sqlite"

[inputs.balance_sheet]
total_assets = 50000.0

[inputs.hr]
fte_count = 4.0

[inputs.period]
period_days = 90

[ratios]
enabled = false
default_level = "advanced"

[display]
mode = "csv"
ratio_decimals = 3
`)

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig() error: %v", err)
	}

	if cfg.RatiosEnabled {
		t.Error("ratios should be disabled")
	}
	if cfg.DefaultRatiosLevel != "advanced" || cfg.DisplayMode != "csv" || cfg.RatioDecimals != 3 {
		t.Errorf("display config = %q %q %d", cfg.DefaultRatiosLevel, cfg.DisplayMode, cfg.RatioDecimals)
	}
	if cfg.PeriodDays != 90 {
		t.Errorf("period days = %d, want 90", cfg.PeriodDays)
	}
	if cfg.BalanceSheetInputs["total_assets"] != 50000 {
		t.Errorf("balance sheet inputs = %v", cfg.BalanceSheetInputs)
	}
	if cfg.HRInputs["fte_count"] != 4 {
		t.Errorf("hr inputs = %v", cfg.HRInputs)
	}

	// Standard config paths resolve against the standard file's directory.
	std := cfg.StandardConfig
	if want := filepath.Join(dir, "standards/mappings/income.csv"); std.IncomeStatementMapping != want {
		t.Errorf("mapping = %q, want %q", std.IncomeStatementMapping, want)
	}
	if want := filepath.Join(dir, "standards/ratios/rules.toml"); std.RatiosRulesFile != want {
		t.Errorf("rules = %q, want %q", std.RatiosRulesFile, want)
	}
	if std.PrimaryStatementLabel != "Compte de résultat" {
		t.Errorf("label = %q", std.PrimaryStatementLabel)
	}
	if std.SecondaryMapping != "" {
		t.Errorf("secondary mapping = %q, want empty", std.SecondaryMapping)
	}
}

func TestLoadAppConfigErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{
			name: "missing fiscal year",
			content: `
[accounting]
standard = "FR_PCG"
`,
		},
		{
			name: "inverted fiscal year",
			content: `
[fiscal_year]
start_date = "2025-12-31"
end_date = "2025-01-01"
`,
		},
		{
			name: "bad date",
			content: `
[fiscal_year]
start_date = "first of january"
end_date = "2025-12-31"
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.name+".toml", tt.content)
			if _, err := LoadAppConfig(path); err == nil {
				t.Error("expected a configuration error")
			}
		})
	}
}
