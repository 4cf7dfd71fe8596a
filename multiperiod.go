package finsight

import (
	"fmt"
	"sort"

	"github.com/maxencebernardhub/smb-finsight/date"
)

// EntrySource loads accounting entries for an inclusive date range. The
// SQLite store implements it; tests use in-memory slices.
type EntrySource interface {
	LoadEntries(from, to date.Date) ([]Entry, error)
}

// StatementLine is one statement row for one period, in long format.
type StatementLine struct {
	PeriodLabel string
	StatementRow
	Notes string
}

// MeasureValue is one measure value for one period, with its metadata.
type MeasureValue struct {
	PeriodLabel string
	Key         string
	Label       string
	Value       float64
	Unit        string
	Notes       string
	Kind        string
}

// RatioValue is one ratio result for one period.
type RatioValue struct {
	PeriodLabel string
	RatioResult
}

// MultiPeriodResult gathers statements, measures and ratios for a list of
// reporting periods, in long format keyed by PeriodLabel.
type MultiPeriodResult struct {
	Primary   []StatementLine
	Secondary []StatementLine
	Measures  []MeasureValue
	Ratios    []RatioValue
}

// ComputeAllPeriods computes statements, measures and ratios for every
// period in a single pass: entries are loaded once for the global
// [min(start), max(end)] range, then filtered per period.
//
// Per period: aggregate the primary (and optional secondary) statement,
// build canonical measures with the configured extras (balance-sheet
// inputs, HR inputs, period_days), apply derived-measure rules (standard
// file then custom file), and compute ratios at the configured level.
// Secondary canonical measures override primary ones on name collision.
func ComputeAllPeriods(src EntrySource, cfg *AppConfig, periods []Period) (*MultiPeriodResult, error) {
	if len(periods) == 0 {
		return nil, fmt.Errorf("at least one period is required")
	}
	std := cfg.StandardConfig
	if std.IncomeStatementMapping == "" {
		return nil, fmt.Errorf("no primary income statement mapping configured for standard %s", std.Standard)
	}

	globalStart, globalEnd := periods[0].Start, periods[0].End
	for _, p := range periods[1:] {
		globalStart = date.Min(globalStart, p.Start)
		globalEnd = date.Max(globalEnd, p.End)
	}
	all, err := src.LoadEntries(globalStart, globalEnd)
	if err != nil {
		return nil, fmt.Errorf("loading entries: %w", err)
	}

	primary, err := LoadTemplate(std.IncomeStatementMapping)
	if err != nil {
		return nil, err
	}
	var secondary *Template
	if std.SecondaryMapping != "" {
		if secondary, err = LoadTemplate(std.SecondaryMapping); err != nil {
			return nil, err
		}
	}

	meta, err := CanonicalMeasureMetadata(primary)
	if err != nil {
		return nil, err
	}
	if secondary != nil {
		secondaryMeta, err := CanonicalMeasureMetadata(secondary)
		if err != nil {
			return nil, err
		}
		// Secondary metadata overrides primary, consistent with how the
		// canonical values merge.
		for k, v := range secondaryMeta {
			meta[k] = v
		}
	}

	var standardRules, customRules *RatioRules
	if std.RatiosRulesFile != "" {
		if standardRules, err = LoadRatioRules(std.RatiosRulesFile); err != nil {
			return nil, err
		}
		for k, v := range DerivedMeasureMetadata(standardRules) {
			if _, ok := meta[k]; !ok {
				meta[k] = v
			}
		}
	}
	if std.RatiosCustomFile != "" {
		if customRules, err = LoadRatioRules(std.RatiosCustomFile); err != nil {
			return nil, err
		}
		for k, v := range DerivedMeasureMetadata(customRules) {
			if _, ok := meta[k]; !ok {
				meta[k] = v
			}
		}
	}

	extras := make(map[string]float64, len(cfg.BalanceSheetInputs)+len(cfg.HRInputs)+1)
	for k, v := range cfg.BalanceSheetInputs {
		extras[k] = v
	}
	for k, v := range cfg.HRInputs {
		extras[k] = v
	}
	extras["period_days"] = float64(cfg.PeriodDays)

	result := &MultiPeriodResult{}
	for _, period := range periods {
		entries := FilterByPeriod(all, period)

		primaryStmt, err := Aggregate(entries, primary)
		if err != nil {
			return nil, fmt.Errorf("period %q: %w", period.Label, err)
		}
		result.Primary = append(result.Primary, statementLines(period.Label, primaryStmt, primary)...)

		var secondaryStmt *Statement
		if secondary != nil {
			if secondaryStmt, err = Aggregate(entries, secondary); err != nil {
				return nil, fmt.Errorf("period %q: %w", period.Label, err)
			}
			result.Secondary = append(result.Secondary, statementLines(period.Label, secondaryStmt, secondary)...)
		}

		measures := CanonicalMeasures(primaryStmt, primary, extras)
		if secondaryStmt != nil {
			for k, v := range CanonicalMeasures(secondaryStmt, secondary, nil) {
				measures[k] = v
			}
		}
		if cfg.RatiosEnabled {
			if standardRules != nil {
				measures = DeriveMeasures(measures, standardRules)
			}
			if customRules != nil {
				measures = DeriveMeasures(measures, customRules)
			}
		}

		keys := make([]string, 0, len(measures))
		for k := range measures {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, key := range keys {
			m, ok := meta[key]
			if !ok {
				unit := "amount"
				if key == "period_days" {
					unit = "days"
				}
				m = MeasureMeta{Key: key, Label: key, Unit: unit, Kind: MeasureExtra}
			}
			result.Measures = append(result.Measures, MeasureValue{
				PeriodLabel: period.Label,
				Key:         key,
				Label:       m.Label,
				Value:       measures[key],
				Unit:        m.Unit,
				Notes:       m.Notes,
				Kind:        m.Kind,
			})
		}

		if cfg.RatiosEnabled {
			var ratios []RatioResult
			if standardRules != nil {
				ratios = append(ratios, ComputeRatios(measures, standardRules, cfg.DefaultRatiosLevel)...)
			}
			if customRules != nil {
				ratios = append(ratios, ComputeRatios(measures, customRules, cfg.DefaultRatiosLevel)...)
			}
			for _, r := range ratios {
				result.Ratios = append(result.Ratios, RatioValue{PeriodLabel: period.Label, RatioResult: r})
			}
		}
	}
	return result, nil
}

// statementLines converts a statement to long format, carrying the mapping
// notes of each row.
func statementLines(label string, stmt *Statement, template *Template) []StatementLine {
	lines := make([]StatementLine, 0, len(stmt.Rows))
	for _, row := range stmt.Rows {
		notes := ""
		if def, ok := template.Row(row.ID); ok {
			notes = def.Notes
		}
		lines = append(lines, StatementLine{PeriodLabel: label, StatementRow: row, Notes: notes})
	}
	return lines
}
