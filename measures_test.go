package finsight

import (
	"math"
	"testing"
)

func TestCanonicalMeasures(t *testing.T) {
	tmpl := decodeTestTemplate(t, testTemplateCSV)
	stmt, err := Aggregate([]Entry{
		entry("2025-01-10", "701000", "1000"),
		entry("2025-02-15", "601000", "-300"),
	}, tmpl)
	if err != nil {
		t.Fatalf("Aggregate() error: %v", err)
	}

	measures := CanonicalMeasures(stmt, tmpl, map[string]float64{
		"total_assets": 5000,
		"bad_input":    math.NaN(),
		"worse_input":  math.Inf(1),
	})

	tests := []struct {
		key      string
		expected float64
	}{
		{key: "revenue", expected: 1000},
		{key: "gross_margin", expected: 700},
		{key: "total_assets", expected: 5000},
	}
	for _, tt := range tests {
		if got, ok := measures[tt.key]; !ok || got != tt.expected {
			t.Errorf("measures[%q] = %v (present %v), want %v", tt.key, got, ok, tt.expected)
		}
	}

	for _, key := range []string{"bad_input", "worse_input"} {
		if _, ok := measures[key]; ok {
			t.Errorf("non-finite extra %q should be dropped", key)
		}
	}
}

func TestCanonicalMeasuresExtraOverrides(t *testing.T) {
	tmpl := decodeTestTemplate(t, testTemplateCSV)
	stmt, err := Aggregate([]Entry{entry("2025-01-10", "701000", "1000")}, tmpl)
	if err != nil {
		t.Fatalf("Aggregate() error: %v", err)
	}
	measures := CanonicalMeasures(stmt, tmpl, map[string]float64{"revenue": 1})
	if measures["revenue"] != 1 {
		t.Errorf("revenue = %v, want the extra value 1", measures["revenue"])
	}
}

func TestCanonicalMeasureMetadata(t *testing.T) {
	tmpl := decodeTestTemplate(t, testTemplateCSV)
	meta, err := CanonicalMeasureMetadata(tmpl)
	if err != nil {
		t.Fatalf("CanonicalMeasureMetadata() error: %v", err)
	}
	m, ok := meta["revenue"]
	if !ok {
		t.Fatal("missing metadata for revenue")
	}
	if m.Label != "Revenue" || m.Unit != "amount" || m.Kind != MeasureCanonical || m.Notes != "net of rebates" {
		t.Errorf("revenue metadata = %+v", m)
	}
	if _, ok := meta["gross_margin"]; !ok {
		t.Error("missing metadata for gross_margin")
	}
}

func TestCanonicalMeasureMetadataDuplicates(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{
			name: "duplicate row id",
			csv: `display_order,id,name,type,level,accounts_to_include,accounts_to_exclude,formula,canonical_measure,notes
10,1,Revenue,acc,1,70*,,,,
20,1,Twin,acc,1,60*,,,,
`,
		},
		{
			name: "duplicate canonical measure",
			csv: `display_order,id,name,type,level,accounts_to_include,accounts_to_exclude,formula,canonical_measure,notes
10,1,Revenue,acc,1,70*,,,revenue,
20,2,Also revenue,acc,1,75*,,,revenue,
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl := decodeTestTemplate(t, tt.csv)
			if _, err := CanonicalMeasureMetadata(tmpl); err == nil {
				t.Error("expected a structural error")
			}
		})
	}
}
