// Package store persists accounting entries in a local SQLite database.
//
// Amounts are stored as integer cents to keep arithmetic exact. Deleting an
// entry is a soft delete: the row stays, flagged with a reason, and can be
// restored. Imports are tracked as batches, and rows already present are
// parked in a duplicate table for later resolution instead of being silently
// inserted twice.
package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	finsight "github.com/maxencebernardhub/smb-finsight"
	"github.com/maxencebernardhub/smb-finsight/date"
)

const schema = `
CREATE TABLE IF NOT EXISTS import_batches (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	filename        TEXT NOT NULL,
	imported_at     TEXT NOT NULL DEFAULT (datetime('now')),
	row_count       INTEGER NOT NULL DEFAULT 0,
	inserted_count  INTEGER NOT NULL DEFAULT 0,
	duplicate_count INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS entries (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	date            TEXT NOT NULL,
	code            TEXT NOT NULL,
	description     TEXT NOT NULL DEFAULT '',
	amount_cents    INTEGER NOT NULL,
	import_batch_id INTEGER REFERENCES import_batches(id),
	is_deleted      INTEGER NOT NULL DEFAULT 0,
	deleted_at      TEXT,
	deleted_reason  TEXT,
	created_at      TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_entries_date ON entries(date);
CREATE INDEX IF NOT EXISTS idx_entries_code ON entries(code);

CREATE TABLE IF NOT EXISTS duplicate_entries (
	id                INTEGER PRIMARY KEY AUTOINCREMENT,
	import_batch_id   INTEGER REFERENCES import_batches(id),
	existing_entry_id INTEGER REFERENCES entries(id),
	date              TEXT NOT NULL,
	code              TEXT NOT NULL,
	description       TEXT NOT NULL DEFAULT '',
	amount_cents      INTEGER NOT NULL,
	status            TEXT NOT NULL DEFAULT 'pending',
	comment           TEXT,
	resolved_by       TEXT,
	resolved_at       TEXT,
	created_at        TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_duplicates_status ON duplicate_entries(status);
`

// Store wraps the SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and ensures the schema exists.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(1) // sqlite
	db.SetConnMaxLifetime(0)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Entry is one stored accounting entry.
type Entry struct {
	ID            int64
	Date          date.Date
	Code          string
	Description   string
	AmountCents   int64
	ImportBatchID int64
	IsDeleted     bool
	DeletedAt     string
	DeletedReason string
	CreatedAt     string
}

// Amount returns the entry amount in currency units.
func (e Entry) Amount() decimal.Decimal { return decimal.New(e.AmountCents, -2) }

// Cents converts a currency amount to integer cents, rounding half away from
// zero beyond two decimals.
func Cents(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

// Batch is one recorded import run.
type Batch struct {
	ID             int64
	Filename       string
	ImportedAt     string
	RowCount       int
	InsertedCount  int
	DuplicateCount int
}

// ImportResult summarizes what an import did.
type ImportResult struct {
	BatchID   int64
	Inserted  int
	Duplicate int
}

// Import inserts the rows as a new batch. A row whose (date, code,
// amount_cents, description) already exists among non-deleted entries is not
// inserted; it is recorded in duplicate_entries as pending, pointing at the
// existing entry.
func (s *Store) Import(filename string, rows []finsight.Entry) (*ImportResult, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO import_batches (filename, row_count) VALUES (?, ?)`,
		filename, len(rows))
	if err != nil {
		return nil, fmt.Errorf("create batch: %w", err)
	}
	batchID, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	result := &ImportResult{BatchID: batchID}
	for _, row := range rows {
		cents := Cents(row.Amount)
		var existingID int64
		err := tx.QueryRow(
			`SELECT id FROM entries
			 WHERE date = ? AND code = ? AND amount_cents = ? AND description = ?
			   AND is_deleted = 0
			 LIMIT 1`,
			row.Date.String(), row.Code, cents, row.Description).Scan(&existingID)
		switch {
		case err == sql.ErrNoRows:
			if _, err := tx.Exec(
				`INSERT INTO entries (date, code, description, amount_cents, import_batch_id)
				 VALUES (?, ?, ?, ?, ?)`,
				row.Date.String(), row.Code, row.Description, cents, batchID); err != nil {
				return nil, fmt.Errorf("insert entry: %w", err)
			}
			result.Inserted++
		case err != nil:
			return nil, fmt.Errorf("check duplicate: %w", err)
		default:
			if _, err := tx.Exec(
				`INSERT INTO duplicate_entries (import_batch_id, existing_entry_id, date, code, description, amount_cents)
				 VALUES (?, ?, ?, ?, ?, ?)`,
				batchID, existingID, row.Date.String(), row.Code, row.Description, cents); err != nil {
				return nil, fmt.Errorf("record duplicate: %w", err)
			}
			result.Duplicate++
		}
	}

	if _, err := tx.Exec(
		`UPDATE import_batches SET inserted_count = ?, duplicate_count = ? WHERE id = ?`,
		result.Inserted, result.Duplicate, batchID); err != nil {
		return nil, fmt.Errorf("update batch counters: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return result, nil
}

// LoadEntries returns the non-deleted entries dated in [from, to], boundaries
// included, ordered by date then id, converted to currency units.
func (s *Store) LoadEntries(from, to date.Date) ([]finsight.Entry, error) {
	rows, err := s.db.Query(
		`SELECT date, code, description, amount_cents
		 FROM entries
		 WHERE is_deleted = 0 AND date >= ? AND date <= ?
		 ORDER BY date ASC, id ASC`,
		from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var entries []finsight.Entry
	for rows.Next() {
		var day string
		var e finsight.Entry
		var cents int64
		if err := rows.Scan(&day, &e.Code, &e.Description, &cents); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		if e.Date, err = date.Parse(day); err != nil {
			return nil, fmt.Errorf("stored entry: %w", err)
		}
		e.Amount = decimal.New(cents, -2)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Insert adds a single entry outside of any import batch and returns its id.
func (s *Store) Insert(day date.Date, code, description string, amount decimal.Decimal) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO entries (date, code, description, amount_cents) VALUES (?, ?, ?, ?)`,
		day.String(), code, description, Cents(amount))
	if err != nil {
		return 0, fmt.Errorf("insert entry: %w", err)
	}
	return res.LastInsertId()
}

// EntryUpdate carries the fields of an update; nil fields keep their value.
type EntryUpdate struct {
	Date        *date.Date
	Code        *string
	Description *string
	Amount      *decimal.Decimal
}

// Update applies a partial update to the entry.
func (s *Store) Update(id int64, u EntryUpdate) error {
	var set []string
	var args []any
	if u.Date != nil {
		set = append(set, "date = ?")
		args = append(args, u.Date.String())
	}
	if u.Code != nil {
		set = append(set, "code = ?")
		args = append(args, *u.Code)
	}
	if u.Description != nil {
		set = append(set, "description = ?")
		args = append(args, *u.Description)
	}
	if u.Amount != nil {
		set = append(set, "amount_cents = ?")
		args = append(args, Cents(*u.Amount))
	}
	if len(set) == 0 {
		return nil
	}
	args = append(args, id)
	query := "UPDATE entries SET " + strings.Join(set, ", ") + " WHERE id = ?"
	res, err := s.db.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("update entry %d: %w", id, err)
	}
	return requireOneRow(res, id)
}

// SoftDelete flags the entry as deleted with a reason, keeping the row.
func (s *Store) SoftDelete(id int64, reason string) error {
	res, err := s.db.Exec(
		`UPDATE entries
		 SET is_deleted = 1, deleted_at = ?, deleted_reason = ?
		 WHERE id = ? AND is_deleted = 0`,
		nowUTC(), reason, id)
	if err != nil {
		return fmt.Errorf("delete entry %d: %w", id, err)
	}
	return requireOneRow(res, id)
}

// Restore brings a soft-deleted entry back.
func (s *Store) Restore(id int64) error {
	res, err := s.db.Exec(
		`UPDATE entries
		 SET is_deleted = 0, deleted_at = NULL, deleted_reason = NULL
		 WHERE id = ? AND is_deleted = 1`,
		id)
	if err != nil {
		return fmt.Errorf("restore entry %d: %w", id, err)
	}
	return requireOneRow(res, id)
}

// GetByID returns the entry, deleted or not.
func (s *Store) GetByID(id int64) (*Entry, error) {
	row := s.db.QueryRow(
		`SELECT id, date, code, description, amount_cents,
		        COALESCE(import_batch_id, 0), is_deleted,
		        COALESCE(deleted_at, ''), COALESCE(deleted_reason, ''), created_at
		 FROM entries WHERE id = ?`, id)
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("entry %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get entry %d: %w", id, err)
	}
	return e, nil
}

// ListBatches returns the import batches, most recent first.
func (s *Store) ListBatches() ([]Batch, error) {
	rows, err := s.db.Query(
		`SELECT id, filename, imported_at, row_count, inserted_count, duplicate_count
		 FROM import_batches
		 ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query batches: %w", err)
	}
	defer rows.Close()

	var batches []Batch
	for rows.Next() {
		var b Batch
		if err := rows.Scan(&b.ID, &b.Filename, &b.ImportedAt, &b.RowCount, &b.InsertedCount, &b.DuplicateCount); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		batches = append(batches, b)
	}
	return batches, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(r rowScanner) (*Entry, error) {
	var e Entry
	var day string
	var deleted int
	if err := r.Scan(&e.ID, &day, &e.Code, &e.Description, &e.AmountCents,
		&e.ImportBatchID, &deleted, &e.DeletedAt, &e.DeletedReason, &e.CreatedAt); err != nil {
		return nil, err
	}
	d, err := date.Parse(day)
	if err != nil {
		return nil, err
	}
	e.Date = d
	e.IsDeleted = deleted == 1
	return &e, nil
}

func requireOneRow(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("entry %d not found", id)
	}
	return nil
}

func nowUTC() string {
	return time.Now().UTC().Format("2006-01-02 15:04:05")
}
