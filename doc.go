// Package finsight turns raw accounting entries of a small business into
// financial statements, canonical measures and ratios. It is designed to be
// local-first and auditable: entries live in a local SQLite database, every
// statement line traces back to a mapping rule, and every ratio traces back
// to a formula in a rules file.
//
// The core functionalities include:
//   - Mapping Templates: CSV-defined statement layouts where each row either
//     aggregates account codes through include/exclude patterns or computes a
//     formula over other rows.
//   - Aggregation Engine: a stateless engine that folds dated entries into a
//     statement for any reporting period, rounding and ordering rows for
//     display.
//   - Canonical Measures: named values projected out of statement rows,
//     merged with external inputs such as balance-sheet or HR figures.
//   - Derived Measures and Ratios: rule files (TOML) that derive additional
//     measures and compute leveled ratios with a restricted expression
//     language.
//   - Periods and Views: fiscal-year aware reporting windows and
//     detail-level projections of a statement, down to per-account lines.
//   - Data Persistence: CSV import with duplicate detection, soft deletion
//     and batch tracking on top of SQLite.
//
// This package serves as the foundational logic for the `finsight`
// command-line tool.
package finsight
