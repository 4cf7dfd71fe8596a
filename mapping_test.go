package finsight

import (
	"reflect"
	"strings"
	"testing"
)

const testTemplateCSV = `display_order,id,name,type,level,accounts_to_include,accounts_to_exclude,formula,canonical_measure,notes
10,1,Revenue,acc,1,70*,709*,,revenue,net of rebates
20,2,Purchases,acc,1,60*,,,,
30,3,Gross margin,calc,0,,,=1+2,gross_margin,
40,4,Other income,acc,2,75*;76*,,,,
`

func decodeTestTemplate(t *testing.T, csv string) *Template {
	t.Helper()
	tmpl, err := DecodeTemplate(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("DecodeTemplate() error: %v", err)
	}
	return tmpl
}

func TestDecodeTemplate(t *testing.T) {
	tmpl := decodeTestTemplate(t, testTemplateCSV)

	rows := tmpl.Rows()
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want 4", len(rows))
	}

	want := RowDef{
		DisplayOrder:     10,
		ID:               1,
		Name:             "Revenue",
		Kind:             KindAccounts,
		Level:            1,
		Include:          "70*",
		Exclude:          "709*",
		CanonicalMeasure: "revenue",
		Notes:            "net of rebates",
	}
	if rows[0] != want {
		t.Errorf("first row = %+v, want %+v", rows[0], want)
	}

	r, ok := tmpl.Row(3)
	if !ok {
		t.Fatal("Row(3) not found")
	}
	if r.Kind != KindFormula || r.Formula != "=1+2" {
		t.Errorf("row 3 = %+v, want calc with formula =1+2", r)
	}
}

func TestDecodeTemplateErrors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{
			name: "missing id column",
			csv:  "display_order,name,type,level\n10,Revenue,acc,1\n",
		},
		{
			name: "invalid display_order",
			csv:  "display_order,id,name,type,level\nten,1,Revenue,acc,1\n",
		},
		{
			name: "invalid level",
			csv:  "display_order,id,name,type,level\n10,1,Revenue,acc,x\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeTemplate(strings.NewReader(tt.csv)); err == nil {
				t.Error("expected a decoding error")
			}
		})
	}
}

func TestDecodeTemplateHeaderCaseInsensitive(t *testing.T) {
	csv := "Display_Order,ID,Name,Type,Level\n10,1,Revenue,acc,1\n"
	tmpl := decodeTestTemplate(t, csv)
	if len(tmpl.Rows()) != 1 {
		t.Fatalf("got %d rows, want 1", len(tmpl.Rows()))
	}
}

func TestMatchRowsForCode(t *testing.T) {
	tmpl := decodeTestTemplate(t, testTemplateCSV)

	tests := []struct {
		code     string
		expected []int
	}{
		{code: "701000", expected: []int{1}},
		{code: "709100", expected: nil}, // excluded from row 1
		{code: "601000", expected: []int{2}},
		{code: "755000", expected: []int{4}},
		{code: "761000", expected: []int{4}},
		{code: "512000", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got := tmpl.MatchRowsForCode(tt.code)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("MatchRowsForCode(%q) = %v, want %v", tt.code, got, tt.expected)
			}
		})
	}
}

func TestMatchRowsForCodeFanOut(t *testing.T) {
	csv := `display_order,id,name,type,level,accounts_to_include,accounts_to_exclude,formula,canonical_measure,notes
10,1,All sales,acc,1,70*,,,,
20,2,Exports,acc,2,7012*,,,,
`
	tmpl := decodeTestTemplate(t, csv)
	got := tmpl.MatchRowsForCode("701200")
	if !reflect.DeepEqual(got, []int{1, 2}) {
		t.Errorf("MatchRowsForCode(701200) = %v, want [1 2]", got)
	}
}
