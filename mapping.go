package finsight

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// RowKind discriminates aggregation rows from formula rows.
const (
	KindAccounts = "acc"  // aggregation of account amounts
	KindFormula  = "calc" // formula over other row ids
)

// RowDef is the definition of a single mapping row (one output statement line).
type RowDef struct {
	DisplayOrder int    // ordering hint used when rendering the statement
	ID           int    // unique integer identifier, referenced by formulas
	Name         string // human-readable label
	Kind         string // "acc" or "calc"
	Level        int    // hierarchical level (0 = top)
	Include      string // semicolon-separated account patterns to include
	Exclude      string // semicolon-separated account patterns to exclude
	Formula      string // formula string for "calc" rows (e.g. "=1+2", "=SUM(4;5)")

	// CanonicalMeasure optionally names the row's computed value as a
	// standard-agnostic measure (e.g. "revenue"). At most one row per
	// template may carry a given name.
	CanonicalMeasure string
	Notes            string
}

// Template is the in-memory representation of a mapping template.
//
// A Template is built from a row-oriented CSV describing each output row.
// It maps account codes to row ids via include/exclude patterns and
// evaluates "calc" row formulas against already aggregated values.
// Templates are immutable once decoded.
type Template struct {
	rows []RowDef
	byID map[int]RowDef
}

// Rows returns the template rows in declaration order.
func (t *Template) Rows() []RowDef { return t.rows }

// Row returns the row definition for the given id.
func (t *Template) Row(id int) (RowDef, bool) {
	r, ok := t.byID[id]
	return r, ok
}

// Template CSV columns. Names are matched case-insensitively; only the
// numeric fields fail decoding, every optional text column defaults to "".
const (
	colDisplayOrder = "display_order"
	colID           = "id"
	colName         = "name"
	colKind         = "type"
	colLevel        = "level"
	colInclude      = "accounts_to_include"
	colExclude      = "accounts_to_exclude"
	colFormula      = "formula"
	colCanonical    = "canonical_measure"
	colNotes        = "notes"
)

// LoadTemplate reads a mapping template from a CSV file.
func LoadTemplate(path string) (*Template, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening mapping template: %w", err)
	}
	defer f.Close()
	t, err := DecodeTemplate(f)
	if err != nil {
		return nil, fmt.Errorf("decoding mapping template %q: %w", path, err)
	}
	return t, nil
}

// DecodeTemplate decodes a mapping template from CSV content.
func DecodeTemplate(r io.Reader) (*Template, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{colDisplayOrder, colID, colName, colKind, colLevel} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}

	field := func(record []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	t := &Template{byID: make(map[int]RowDef)}
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		row := RowDef{
			Name:             field(record, colName),
			Kind:             field(record, colKind),
			Include:          field(record, colInclude),
			Exclude:          field(record, colExclude),
			Formula:          field(record, colFormula),
			CanonicalMeasure: field(record, colCanonical),
			Notes:            field(record, colNotes),
		}
		if row.DisplayOrder, err = strconv.Atoi(field(record, colDisplayOrder)); err != nil {
			return nil, fmt.Errorf("line %d: invalid display_order: %w", line, err)
		}
		if row.ID, err = strconv.Atoi(field(record, colID)); err != nil {
			return nil, fmt.Errorf("line %d: invalid id: %w", line, err)
		}
		if row.Level, err = strconv.Atoi(field(record, colLevel)); err != nil {
			return nil, fmt.Errorf("line %d: invalid level: %w", line, err)
		}
		t.rows = append(t.rows, row)
		t.byID[row.ID] = row
	}
	return t, nil
}

// MatchRowsForCode returns the ids of all "acc" rows the account code maps to.
//
// A row matches when the code matches at least one include pattern and none
// of the exclude patterns. A code may feed zero, one or several rows; "calc"
// rows never claim a code directly.
func (t *Template) MatchRowsForCode(code string) []int {
	var ids []int
	for _, r := range t.rows {
		if r.Kind != KindAccounts {
			continue
		}
		inc := SplitPatterns(r.Include)
		exc := SplitPatterns(r.Exclude)
		if MatchesAny(code, inc) && !MatchesAny(code, exc) {
			ids = append(ids, r.ID)
		}
	}
	return ids
}
