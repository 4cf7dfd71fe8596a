package finsight

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// LevelOrder is the logical ordering of ratio levels. Requesting a level
// includes every definition at that level or below: "advanced" includes
// "basic" and "advanced", "full" includes everything.
var LevelOrder = []string{"basic", "advanced", "full"}

// MeasureRule is one derived-measure definition from a rules file. Rules
// are kept in declaration order because a rule may reference the output of
// an earlier one.
type MeasureRule struct {
	Key     string
	Formula string
	Label   string
	Unit    string
	Notes   string
}

// RatioDef is one ratio definition from a rules file.
type RatioDef struct {
	Key     string
	Formula string // expression, or the bare name of an existing measure
	Label   string
	Unit    string
	Notes   string
	Level   string
}

// RatioResult is a computed ratio. Value is nil when the formula could not
// be evaluated; per-ratio failure is expected and non-fatal.
type RatioResult struct {
	Key   string
	Label string
	Value *float64
	Unit  string
	Notes string
	Level string
}

// RatioRules is a parsed rules file: ordered derived-measure definitions
// under [measures.*] and ratio definitions grouped by level under
// [ratios.<level>.*].
type RatioRules struct {
	Measures []MeasureRule
	Ratios   map[string][]RatioDef
}

type ruleSectionTOML struct {
	Formula string `toml:"formula"`
	Label   string `toml:"label"`
	Unit    string `toml:"unit"`
	Notes   string `toml:"notes"`
}

// LoadRatioRules reads a TOML rules file from disk.
func LoadRatioRules(path string) (*RatioRules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ratio rules: %w", err)
	}
	rules, err := ParseRatioRules(string(data))
	if err != nil {
		return nil, fmt.Errorf("parsing ratio rules %q: %w", path, err)
	}
	return rules, nil
}

// ParseRatioRules parses TOML rules content. Declaration order of
// [measures.*] sections is preserved; TOML table order within a ratio level
// is preserved as well.
func ParseRatioRules(data string) (*RatioRules, error) {
	var raw struct {
		Measures map[string]ruleSectionTOML            `toml:"measures"`
		Ratios   map[string]map[string]ruleSectionTOML `toml:"ratios"`
	}
	md, err := toml.Decode(data, &raw)
	if err != nil {
		return nil, err
	}

	rules := &RatioRules{Ratios: make(map[string][]RatioDef)}
	// toml.MetaData keys come back in file order, which is the one piece of
	// information the decoded maps lose.
	for _, key := range md.Keys() {
		switch {
		case len(key) == 2 && key[0] == "measures":
			name := key[1]
			cfg, ok := raw.Measures[name]
			if !ok {
				continue
			}
			rules.Measures = append(rules.Measures, MeasureRule{
				Key:     name,
				Formula: cfg.Formula,
				Label:   cfg.Label,
				Unit:    cfg.Unit,
				Notes:   cfg.Notes,
			})
		case len(key) == 3 && key[0] == "ratios":
			level, name := key[1], key[2]
			cfg, ok := raw.Ratios[level][name]
			if !ok {
				continue
			}
			rules.Ratios[level] = append(rules.Ratios[level], RatioDef{
				Key:     name,
				Formula: cfg.Formula,
				Label:   cfg.Label,
				Unit:    cfg.Unit,
				Notes:   cfg.Notes,
				Level:   level,
			})
		}
	}
	return rules, nil
}

// DeriveMeasures extends base measures with the derived-measure rules,
// evaluated in declaration order so that a rule can reference the output of
// an earlier one. A rule that fails to evaluate (unknown name, division by
// zero, bad syntax) is skipped; one bad definition never aborts the pass.
// A later rule redefining an existing name wins.
func DeriveMeasures(base map[string]float64, rules *RatioRules) map[string]float64 {
	all := make(map[string]float64, len(base)+len(rules.Measures))
	for k, v := range base {
		all[k] = v
	}
	for _, rule := range rules.Measures {
		if rule.Formula == "" {
			continue
		}
		v, err := EvalExpr(rule.Formula, all)
		if err != nil {
			continue
		}
		all[rule.Key] = v
	}
	return all
}

// DerivedMeasureMetadata returns presentation metadata for the derived
// measures of a rules file, keyed by measure name, with kind "extra".
func DerivedMeasureMetadata(rules *RatioRules) map[string]MeasureMeta {
	meta := make(map[string]MeasureMeta, len(rules.Measures))
	for _, rule := range rules.Measures {
		label := rule.Label
		if label == "" {
			label = rule.Key
		}
		unit := rule.Unit
		if unit == "" {
			unit = "amount"
		}
		meta[rule.Key] = MeasureMeta{
			Key:   rule.Key,
			Label: label,
			Unit:  unit,
			Notes: rule.Notes,
			Kind:  MeasureExtra,
		}
	}
	return meta
}

// includedLevels resolves the cumulative level selection: a known level
// includes every level up to it in LevelOrder, an unknown level selects only
// the section with that exact name.
func includedLevels(level string, rules *RatioRules) []string {
	for i, known := range LevelOrder {
		if known != level {
			continue
		}
		var levels []string
		for _, lvl := range LevelOrder[:i+1] {
			if _, ok := rules.Ratios[lvl]; ok {
				levels = append(levels, lvl)
			}
		}
		return levels
	}
	if _, ok := rules.Ratios[level]; ok {
		return []string{level}
	}
	return nil
}

// ComputeRatios evaluates the ratio definitions of every included level
// against the full measure set.
//
// A formula that exactly names an existing measure passes that value
// through; anything else is evaluated as an expression. Evaluation failure
// yields a nil Value for that one ratio and never aborts the computation.
// Results are grouped by ascending level and keep the rules-file order
// within a level; each result carries its own true level.
func ComputeRatios(measures map[string]float64, rules *RatioRules, level string) []RatioResult {
	var results []RatioResult
	for _, lvl := range includedLevels(level, rules) {
		for _, def := range rules.Ratios[lvl] {
			label := def.Label
			if label == "" {
				label = def.Key
			}
			unit := def.Unit
			if unit == "" {
				unit = "amount"
			}
			result := RatioResult{
				Key:   def.Key,
				Label: label,
				Unit:  unit,
				Notes: def.Notes,
				Level: lvl,
			}
			if def.Formula != "" {
				if v, ok := measures[def.Formula]; ok {
					result.Value = &v
				} else if v, err := EvalExpr(def.Formula, measures); err == nil {
					result.Value = &v
				}
			}
			results = append(results, result)
		}
	}
	return results
}
