package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/maxencebernardhub/smb-finsight/date"
)

// Duplicate resolution statuses.
const (
	DuplicatePending   = "pending"
	DuplicateKept      = "kept"
	DuplicateDiscarded = "discarded"
)

// Actors allowed to resolve a duplicate.
const (
	ResolvedByCLI    = "cli"
	ResolvedByWebUI  = "webui"
	ResolvedBySystem = "system"
)

// Duplicate is an imported row that matched an existing entry.
type Duplicate struct {
	ID              int64
	ImportBatchID   int64
	ExistingEntryID int64
	Date            date.Date
	Code            string
	Description     string
	AmountCents     int64
	Status          string
	Comment         string
	ResolvedBy      string
	ResolvedAt      string
	CreatedAt       string
}

// Amount returns the duplicate amount in currency units.
func (d Duplicate) Amount() decimal.Decimal { return decimal.New(d.AmountCents, -2) }

// DuplicateFilter selects duplicates for ListDuplicates. Zero-valued fields
// do not constrain.
type DuplicateFilter struct {
	Status        string
	ImportBatchID int64
	Start         date.Date
	End           date.Date
}

// ListDuplicates returns the duplicates matching the filter, newest first,
// plus the total match count ignoring pagination. A limit of 0 means no
// limit.
func (s *Store) ListDuplicates(f DuplicateFilter, limit, offset int) ([]Duplicate, int, error) {
	var where []string
	var args []any
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, f.Status)
	}
	if f.ImportBatchID != 0 {
		where = append(where, "import_batch_id = ?")
		args = append(args, f.ImportBatchID)
	}
	if !f.Start.IsZero() {
		where = append(where, "date >= ?")
		args = append(args, f.Start.String())
	}
	if !f.End.IsZero() {
		where = append(where, "date <= ?")
		args = append(args, f.End.String())
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM duplicate_entries"+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count duplicates: %w", err)
	}

	query := `SELECT id, COALESCE(import_batch_id, 0), COALESCE(existing_entry_id, 0),
	       date, code, description, amount_cents, status,
	       COALESCE(comment, ''), COALESCE(resolved_by, ''), COALESCE(resolved_at, ''), created_at
	FROM duplicate_entries` + clause + " ORDER BY id DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list duplicates: %w", err)
	}
	defer rows.Close()

	var dups []Duplicate
	for rows.Next() {
		var d Duplicate
		var day string
		if err := rows.Scan(&d.ID, &d.ImportBatchID, &d.ExistingEntryID,
			&day, &d.Code, &d.Description, &d.AmountCents, &d.Status,
			&d.Comment, &d.ResolvedBy, &d.ResolvedAt, &d.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan duplicate: %w", err)
		}
		if d.Date, err = date.Parse(day); err != nil {
			return nil, 0, fmt.Errorf("stored duplicate: %w", err)
		}
		dups = append(dups, d)
	}
	return dups, total, rows.Err()
}

// ResolveDuplicate settles a pending duplicate. Keeping it inserts the row
// as a regular entry; discarding it only records the decision. Already
// resolved duplicates are rejected.
func (s *Store) ResolveDuplicate(id int64, keep bool, comment, resolvedBy string) error {
	switch resolvedBy {
	case ResolvedByCLI, ResolvedByWebUI, ResolvedBySystem:
	default:
		return fmt.Errorf("unknown resolver %q", resolvedBy)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var d Duplicate
	var day string
	err = tx.QueryRow(
		`SELECT id, COALESCE(import_batch_id, 0), date, code, description, amount_cents, status
		 FROM duplicate_entries WHERE id = ?`, id).
		Scan(&d.ID, &d.ImportBatchID, &day, &d.Code, &d.Description, &d.AmountCents, &d.Status)
	if err == sql.ErrNoRows {
		return fmt.Errorf("duplicate %d not found", id)
	}
	if err != nil {
		return fmt.Errorf("get duplicate %d: %w", id, err)
	}
	if d.Status != DuplicatePending {
		return fmt.Errorf("duplicate %d already resolved (%s)", id, d.Status)
	}

	status := DuplicateDiscarded
	if keep {
		status = DuplicateKept
		var batchID any
		if d.ImportBatchID != 0 {
			batchID = d.ImportBatchID
		}
		if _, err := tx.Exec(
			`INSERT INTO entries (date, code, description, amount_cents, import_batch_id)
			 VALUES (?, ?, ?, ?, ?)`,
			day, d.Code, d.Description, d.AmountCents, batchID); err != nil {
			return fmt.Errorf("keep duplicate %d: %w", id, err)
		}
	}
	if _, err := tx.Exec(
		`UPDATE duplicate_entries
		 SET status = ?, comment = ?, resolved_by = ?, resolved_at = ?
		 WHERE id = ?`,
		status, comment, resolvedBy, nowUTC(), id); err != nil {
		return fmt.Errorf("resolve duplicate %d: %w", id, err)
	}
	return tx.Commit()
}

// DuplicateStats counts duplicates per resolution status.
type DuplicateStats struct {
	Pending   int
	Kept      int
	Discarded int
}

// CountDuplicates returns how many duplicates sit in each status.
func (s *Store) CountDuplicates() (DuplicateStats, error) {
	rows, err := s.db.Query(`SELECT status, COUNT(*) FROM duplicate_entries GROUP BY status`)
	if err != nil {
		return DuplicateStats{}, fmt.Errorf("count duplicates: %w", err)
	}
	defer rows.Close()

	var stats DuplicateStats
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return DuplicateStats{}, fmt.Errorf("scan duplicate count: %w", err)
		}
		switch status {
		case DuplicatePending:
			stats.Pending = n
		case DuplicateKept:
			stats.Kept = n
		case DuplicateDiscarded:
			stats.Discarded = n
		}
	}
	return stats, rows.Err()
}
