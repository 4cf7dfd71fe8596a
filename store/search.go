package store

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/maxencebernardhub/smb-finsight/date"
)

// Filter selects entries for Search. Zero-valued fields do not constrain.
type Filter struct {
	Start               date.Date
	End                 date.Date
	CodeExact           string
	CodePrefix          string
	DescriptionContains string
	MinAmount           *decimal.Decimal
	MaxAmount           *decimal.Decimal
	ImportBatchID       int64
	IncludeDeleted      bool
	DeletedOnly         bool
}

// Order-by columns accepted by Search.
var searchOrders = map[string]string{
	"":        "date ASC, id ASC",
	"date":    "date ASC, id ASC",
	"-date":   "date DESC, id DESC",
	"amount":  "amount_cents ASC, id ASC",
	"-amount": "amount_cents DESC, id DESC",
	"code":    "code ASC, id ASC",
	"id":      "id ASC",
}

// Search returns the entries matching the filter, plus the total match count
// ignoring pagination. A limit of 0 means no limit.
func (s *Store) Search(f Filter, limit, offset int, orderBy string) ([]Entry, int, error) {
	order, ok := searchOrders[orderBy]
	if !ok {
		return nil, 0, fmt.Errorf("unknown order %q", orderBy)
	}

	var where []string
	var args []any
	switch {
	case f.DeletedOnly:
		where = append(where, "is_deleted = 1")
	case !f.IncludeDeleted:
		where = append(where, "is_deleted = 0")
	}
	if !f.Start.IsZero() {
		where = append(where, "date >= ?")
		args = append(args, f.Start.String())
	}
	if !f.End.IsZero() {
		where = append(where, "date <= ?")
		args = append(args, f.End.String())
	}
	if f.CodeExact != "" {
		where = append(where, "code = ?")
		args = append(args, f.CodeExact)
	}
	if f.CodePrefix != "" {
		where = append(where, "code LIKE ? ESCAPE '\\'")
		args = append(args, likePrefix(f.CodePrefix))
	}
	if f.DescriptionContains != "" {
		where = append(where, "description LIKE ? ESCAPE '\\'")
		args = append(args, "%"+escapeLike(f.DescriptionContains)+"%")
	}
	if f.MinAmount != nil {
		where = append(where, "amount_cents >= ?")
		args = append(args, Cents(*f.MinAmount))
	}
	if f.MaxAmount != nil {
		where = append(where, "amount_cents <= ?")
		args = append(args, Cents(*f.MaxAmount))
	}
	if f.ImportBatchID != 0 {
		where = append(where, "import_batch_id = ?")
		args = append(args, f.ImportBatchID)
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM entries"+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count entries: %w", err)
	}

	query := `SELECT id, date, code, description, amount_cents,
	       COALESCE(import_batch_id, 0), is_deleted,
	       COALESCE(deleted_at, ''), COALESCE(deleted_reason, ''), created_at
	FROM entries` + clause + " ORDER BY " + order
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)
	} else if offset > 0 {
		query += fmt.Sprintf(" LIMIT -1 OFFSET %d", offset)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("search entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, *e)
	}
	return entries, total, rows.Err()
}

// likePrefix builds a LIKE pattern matching the literal prefix.
func likePrefix(prefix string) string { return escapeLike(prefix) + "%" }

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)
	return r.Replace(s)
}
