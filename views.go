package finsight

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Statement views. A view is a detail-level projection of an aggregated
// statement, ready for rendering or CSV export:
//
//	simplified  levels 0-1
//	regular     levels 0-2
//	detailed    every template row
//	complete    detailed plus per-account child lines under level-3 rows
//
// Views renumber display_order sequentially (10, 20, 30, ...) so exports
// stay stable regardless of the template's own numbering gaps.

// ApplyViewLevelFilter returns the view's rows, sorted by the template
// display_order and renumbered. Any view name other than "simplified" and
// "regular" keeps all rows and relies entirely on the mapping template.
func ApplyViewLevelFilter(stmt *Statement, view string) []StatementRow {
	maxLevel := -1
	switch view {
	case "simplified":
		maxLevel = 1
	case "regular":
		maxLevel = 2
	}
	var rows []StatementRow
	for _, r := range stmt.Rows {
		if maxLevel < 0 || r.Level <= maxLevel {
			rows = append(rows, r)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].DisplayOrder < rows[j].DisplayOrder })
	return renumber(rows)
}

// BuildCompleteView returns the detailed view with account-level child rows
// inserted under each level-3 "acc" row. Children aggregate the entries per
// account code (zero totals are skipped), are sorted by code, take the
// chart label when known, and get id = parent*1000 + position.
func BuildCompleteView(stmt *Statement, entries []Entry, template *Template, nameByCode map[string]string) []StatementRow {
	amounts := stmt.AmountsByID()

	// Per-code totals over the period.
	totals := make(map[string]decimal.Decimal)
	for _, e := range entries {
		code := strings.TrimSpace(e.Code)
		totals[code] = totals[code].Add(e.Amount)
	}

	type child struct {
		code   string
		amount decimal.Decimal
	}
	childrenByRow := make(map[int][]child)
	for code, amount := range totals {
		if amount.IsZero() {
			continue
		}
		for _, id := range template.MatchRowsForCode(code) {
			r, ok := template.Row(id)
			if !ok || r.Kind != KindAccounts || r.Level != 3 {
				continue
			}
			childrenByRow[id] = append(childrenByRow[id], child{code: code, amount: amount})
		}
	}
	for _, children := range childrenByRow {
		sort.Slice(children, func(i, j int) bool { return children[i].code < children[j].code })
	}

	ordered := append([]RowDef(nil), template.rows...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].DisplayOrder < ordered[j].DisplayOrder })

	var rows []StatementRow
	for _, r := range ordered {
		rows = append(rows, StatementRow{
			Level:        r.Level,
			DisplayOrder: r.DisplayOrder,
			ID:           r.ID,
			Name:         r.Name,
			Kind:         r.Kind,
			Amount:       amounts[r.ID].Round(2),
		})
		if r.Kind != KindAccounts || r.Level != 3 {
			continue
		}
		for i, c := range childrenByRow[r.ID] {
			name := strings.TrimSpace(c.code + " " + nameByCode[c.code])
			rows = append(rows, StatementRow{
				Level:  r.Level + 1,
				ID:     r.ID*1000 + i + 1,
				Name:   name,
				Kind:   KindAccounts,
				Amount: c.amount.Round(2),
			})
		}
	}
	return renumber(rows)
}

// renumber reassigns display_order sequentially, preserving row order.
func renumber(rows []StatementRow) []StatementRow {
	for i := range rows {
		rows[i].DisplayOrder = (i + 1) * 10
	}
	return rows
}

// SortRatios orders ratio results by level (basic, advanced, full, then
// custom levels) and key, for tabular display and export.
func SortRatios(results []RatioResult) []RatioResult {
	rank := func(level string) int {
		for i, known := range LevelOrder {
			if level == known {
				return i
			}
		}
		return len(LevelOrder)
	}
	sorted := append([]RatioResult(nil), results...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if ri, rj := rank(sorted[i].Level), rank(sorted[j].Level); ri != rj {
			return ri < rj
		}
		return sorted[i].Key < sorted[j].Key
	})
	return sorted
}
