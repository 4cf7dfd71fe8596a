package finsight

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// StatementRow is one line of an aggregated statement.
type StatementRow struct {
	Level        int
	DisplayOrder int
	ID           int
	Name         string
	Kind         string
	Amount       decimal.Decimal
}

// Statement is an aggregated financial statement: exactly one row per
// template row, sorted by (level, display_order) for presentation while
// remaining addressable by id.
type Statement struct {
	Rows []StatementRow
}

// Amount returns the amount of the row with the given id, or zero when the
// id is not part of the statement. The zero default mirrors the engine's
// general policy for unresolved references.
func (s *Statement) Amount(id int) decimal.Decimal {
	for _, r := range s.Rows {
		if r.ID == id {
			return r.Amount
		}
	}
	return decimal.Zero
}

// AmountsByID returns a row-id → amount lookup for the statement.
func (s *Statement) AmountsByID() map[int]decimal.Decimal {
	m := make(map[int]decimal.Decimal, len(s.Rows))
	for _, r := range s.Rows {
		m[r.ID] = r.Amount
	}
	return m
}

// Aggregate folds accounting entries into the statement described by the
// template.
//
// Every template row gets an accumulator initialized to zero, so rows with
// no matching entry still appear in the output with amount 0. Each entry is
// added to every row its code maps to (fan-out is intentional). "calc" rows
// are then evaluated in template declaration order: a formula may reference
// any "acc" row, but referencing a "calc" row declared later reads that
// row's pre-formula value. Template authors own that ordering contract; see
// LintForwardReferences.
//
// Amounts are rounded to 2 decimal places. A malformed formula aborts the
// whole aggregation; there is no partial statement.
func Aggregate(entries []Entry, template *Template) (*Statement, error) {
	amounts := make(map[int]decimal.Decimal, len(template.rows))
	for _, r := range template.rows {
		amounts[r.ID] = decimal.Zero
	}

	for _, e := range entries {
		for _, id := range template.MatchRowsForCode(e.Code) {
			amounts[id] = amounts[id].Add(e.Amount)
		}
	}

	for _, r := range template.rows {
		if r.Kind != KindFormula {
			continue
		}
		v, err := template.EvalFormula(r.ID, amounts)
		if err != nil {
			return nil, fmt.Errorf("aggregating: %w", err)
		}
		amounts[r.ID] = v
	}

	stmt := &Statement{Rows: make([]StatementRow, 0, len(template.rows))}
	for _, r := range template.rows {
		stmt.Rows = append(stmt.Rows, StatementRow{
			Level:        r.Level,
			DisplayOrder: r.DisplayOrder,
			ID:           r.ID,
			Name:         r.Name,
			Kind:         r.Kind,
			Amount:       amounts[r.ID].Round(2),
		})
	}
	sort.SliceStable(stmt.Rows, func(i, j int) bool {
		if stmt.Rows[i].Level != stmt.Rows[j].Level {
			return stmt.Rows[i].Level < stmt.Rows[j].Level
		}
		return stmt.Rows[i].DisplayOrder < stmt.Rows[j].DisplayOrder
	})
	return stmt, nil
}

// LintForwardReferences reports, as human-readable warnings, every "calc"
// formula that references a "calc" row declared later in the template. Such
// references read the referenced row's pre-formula value during aggregation,
// which is rarely what the template author intended.
func LintForwardReferences(template *Template) []string {
	declared := make(map[int]int, len(template.rows)) // id -> declaration index
	for i, r := range template.rows {
		declared[r.ID] = i
	}
	var warnings []string
	for i, r := range template.rows {
		if r.Kind != KindFormula {
			continue
		}
		for _, ref := range formulaRowRefs(r.Formula) {
			target, ok := template.byID[ref]
			if !ok || target.Kind != KindFormula {
				continue
			}
			if declared[ref] > i {
				warnings = append(warnings, fmt.Sprintf(
					"row %d (%s): formula references row %d (%s) declared later; it reads a stale value",
					r.ID, r.Name, ref, target.Name))
			}
		}
	}
	return warnings
}

// formulaRowRefs extracts the bare integer tokens (row ids) of a formula.
func formulaRowRefs(formula string) []int {
	var refs []int
	id, inID, isLiteral := 0, false, false
	flush := func() {
		if inID && !isLiteral {
			refs = append(refs, id)
		}
		id, inID, isLiteral = 0, false, false
	}
	for i := 0; i < len(formula); i++ {
		c := formula[i]
		switch {
		case isDigit(c):
			id = id*10 + int(c-'0')
			inID = true
		case c == '.':
			isLiteral = true
		default:
			flush()
		}
	}
	flush()
	return refs
}
