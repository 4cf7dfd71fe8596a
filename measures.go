package finsight

import (
	"fmt"
	"math"
)

// Measure kinds, used by presentation layers to distinguish template-tagged
// measures from derived or caller-supplied ones.
const (
	MeasureCanonical = "canonical"
	MeasureExtra     = "extra"
)

// MeasureMeta carries the presentation metadata of a named measure.
type MeasureMeta struct {
	Key   string
	Label string
	Unit  string
	Notes string
	Kind  string // "canonical" or "extra"
}

// CanonicalMeasures projects a statement's row amounts onto the measure
// names tagged in the template, then merges extra caller-supplied values on
// top (e.g. balance-sheet figures that the ledger does not carry). Extras
// that are not finite numbers are dropped silently; they are optional
// enrichment, not required inputs.
//
// When measures from a primary and a secondary statement are combined, the
// caller merges the secondary map over the primary one: the secondary
// statement is assumed more specific.
func CanonicalMeasures(stmt *Statement, template *Template, extra map[string]float64) map[string]float64 {
	amounts := stmt.AmountsByID()
	measures := make(map[string]float64)
	for _, r := range template.rows {
		if r.CanonicalMeasure == "" {
			continue
		}
		v := amounts[r.ID].InexactFloat64()
		if math.IsNaN(v) || math.IsInf(v, 0) {
			v = 0
		}
		measures[r.CanonicalMeasure] = v
	}
	for k, v := range extra {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		measures[k] = v
	}
	return measures
}

// CanonicalMeasureMetadata returns the metadata of every canonical measure
// tagged in the template, keyed by measure name.
//
// This is also where template-level uniqueness is enforced: a duplicate row
// id or a duplicate canonical measure name is a structural error in the
// mapping source.
func CanonicalMeasureMetadata(template *Template) (map[string]MeasureMeta, error) {
	seenIDs := make(map[int]bool, len(template.rows))
	meta := make(map[string]MeasureMeta)
	for _, r := range template.rows {
		if seenIDs[r.ID] {
			return nil, fmt.Errorf("duplicate row id %d in mapping template", r.ID)
		}
		seenIDs[r.ID] = true
		if r.CanonicalMeasure == "" {
			continue
		}
		if _, dup := meta[r.CanonicalMeasure]; dup {
			return nil, fmt.Errorf("duplicate canonical measure %q in mapping template", r.CanonicalMeasure)
		}
		meta[r.CanonicalMeasure] = MeasureMeta{
			Key:   r.CanonicalMeasure,
			Label: r.Name,
			Unit:  "amount",
			Notes: r.Notes,
			Kind:  MeasureCanonical,
		}
	}
	return meta, nil
}
