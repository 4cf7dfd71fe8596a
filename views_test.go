package finsight

import (
	"testing"

	"github.com/shopspring/decimal"
)

const viewTemplateCSV = `display_order,id,name,type,level,accounts_to_include,accounts_to_exclude,formula,canonical_measure,notes
10,1,Total,calc,0,,,=2,,
20,2,Revenue,acc,1,70*,,,,
30,3,Services,acc,2,706*,,,,
40,4,Maintenance contracts,acc,3,7062*,,,,
`

func TestApplyViewLevelFilter(t *testing.T) {
	tmpl := decodeTestTemplate(t, viewTemplateCSV)
	stmt, err := Aggregate([]Entry{entry("2025-01-01", "706200", "100")}, tmpl)
	if err != nil {
		t.Fatalf("Aggregate() error: %v", err)
	}

	tests := []struct {
		view     string
		expected []int
	}{
		{view: "simplified", expected: []int{1, 2}},
		{view: "regular", expected: []int{1, 2, 3}},
		{view: "detailed", expected: []int{1, 2, 3, 4}},
		{view: "anything-else", expected: []int{1, 2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.view, func(t *testing.T) {
			rows := ApplyViewLevelFilter(stmt, tt.view)
			if len(rows) != len(tt.expected) {
				t.Fatalf("got %d rows, want %d", len(rows), len(tt.expected))
			}
			for i, r := range rows {
				if r.ID != tt.expected[i] {
					t.Errorf("row %d id = %d, want %d", i, r.ID, tt.expected[i])
				}
				if want := (i + 1) * 10; r.DisplayOrder != want {
					t.Errorf("row %d display_order = %d, want %d", i, r.DisplayOrder, want)
				}
			}
		})
	}
}

func TestBuildCompleteView(t *testing.T) {
	tmpl := decodeTestTemplate(t, viewTemplateCSV)
	entries := []Entry{
		entry("2025-01-01", "706210", "100"),
		entry("2025-01-02", "706220", "50"),
		entry("2025-01-03", "706230", "30"),
		entry("2025-01-04", "706230", "-30"), // zero total, skipped
	}
	stmt, err := Aggregate(entries, tmpl)
	if err != nil {
		t.Fatalf("Aggregate() error: %v", err)
	}

	rows := BuildCompleteView(stmt, entries, tmpl, map[string]string{
		"706210": "Maintenance gold",
		"706220": "Maintenance silver",
	})

	// 4 template rows plus 2 non-zero children under row 4.
	if len(rows) != 6 {
		t.Fatalf("got %d rows, want 6: %+v", len(rows), rows)
	}

	// Children immediately follow their parent, sorted by code.
	var parentIndex int
	for i, r := range rows {
		if r.ID == 4 {
			parentIndex = i
		}
	}
	first, second := rows[parentIndex+1], rows[parentIndex+2]
	if first.ID != 4001 || first.Name != "706210 Maintenance gold" || first.Level != 4 {
		t.Errorf("first child = %+v", first)
	}
	if !first.Amount.Equal(decimal.NewFromInt(100)) {
		t.Errorf("first child amount = %s, want 100", first.Amount)
	}
	if second.ID != 4002 || second.Name != "706220 Maintenance silver" {
		t.Errorf("second child = %+v", second)
	}

	// Renumbered sequentially.
	for i, r := range rows {
		if want := (i + 1) * 10; r.DisplayOrder != want {
			t.Errorf("row %d display_order = %d, want %d", i, r.DisplayOrder, want)
		}
	}
}

func TestBuildCompleteViewUnknownLabel(t *testing.T) {
	tmpl := decodeTestTemplate(t, viewTemplateCSV)
	entries := []Entry{entry("2025-01-01", "706210", "100")}
	stmt, err := Aggregate(entries, tmpl)
	if err != nil {
		t.Fatalf("Aggregate() error: %v", err)
	}
	rows := BuildCompleteView(stmt, entries, tmpl, nil)
	var child *StatementRow
	for i := range rows {
		if rows[i].ID == 4001 {
			child = &rows[i]
		}
	}
	if child == nil {
		t.Fatal("missing child row")
	}
	if child.Name != "706210" {
		t.Errorf("child name = %q, want the bare code", child.Name)
	}
}

func TestSortRatios(t *testing.T) {
	v := 1.0
	results := []RatioResult{
		{Key: "z_custom", Level: "special", Value: &v},
		{Key: "b", Level: "advanced"},
		{Key: "a", Level: "basic"},
		{Key: "c", Level: "basic"},
		{Key: "d", Level: "full"},
	}
	sorted := SortRatios(results)
	var keys []string
	for _, r := range sorted {
		keys = append(keys, r.Key)
	}
	want := []string{"a", "c", "b", "d", "z_custom"}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("order = %v, want %v", keys, want)
		}
	}
}
