package finsight

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/maxencebernardhub/smb-finsight/date"
)

// Accounting entries are imported from CSV in one of two shapes (header
// names are case-insensitive, "label" is accepted as an alias for
// "description"):
//
//	date,code,debit,credit,description   amount = credit - debit
//	date,code,amount,description         amount already signed
//
// Either way the result follows the credit-positive convention: revenues
// positive, expenses negative.

// ReadEntriesFile reads and normalizes accounting entries from a CSV file.
func ReadEntriesFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening entries file: %w", err)
	}
	defer f.Close()
	entries, err := DecodeEntries(f)
	if err != nil {
		return nil, fmt.Errorf("decoding entries %q: %w", path, err)
	}
	return entries, nil
}

// DecodeEntries decodes and normalizes accounting entries from CSV content.
func DecodeEntries(r io.Reader) ([]Entry, error) {
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
	if _, ok := index["description"]; !ok {
		if i, ok := index["label"]; ok {
			index["description"] = i
		}
	}

	has := func(names ...string) bool {
		for _, n := range names {
			if _, ok := index[n]; !ok {
				return false
			}
		}
		return true
	}
	debitCredit := has("date", "code", "debit", "credit")
	signed := has("date", "code", "amount")
	if !debitCredit && !signed {
		return nil, fmt.Errorf("unsupported entries structure: want date,code,debit,credit[,description] or date,code,amount[,description]")
	}

	field := func(record []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var entries []Entry
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		e := Entry{
			Code:        field(record, "code"),
			Description: field(record, "description"),
		}
		if e.Date, err = date.Parse(field(record, "date")); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if debitCredit {
			debit, err := decimal.NewFromString(zeroIfEmpty(field(record, "debit")))
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid debit: %w", line, err)
			}
			credit, err := decimal.NewFromString(zeroIfEmpty(field(record, "credit")))
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid credit: %w", line, err)
			}
			e.Amount = credit.Sub(debit)
		} else {
			if e.Amount, err = decimal.NewFromString(zeroIfEmpty(field(record, "amount"))); err != nil {
				return nil, fmt.Errorf("line %d: invalid amount: %w", line, err)
			}
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func zeroIfEmpty(s string) string {
	if s == "" {
		return "0"
	}
	return s
}

// EncodeStatementCSV writes a statement (or a projected view of one) as CSV,
// in export column order.
func EncodeStatementCSV(w io.Writer, rows []StatementRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"display_order", "id", "level", "name", "type", "amount"}); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			strconv.Itoa(r.DisplayOrder),
			strconv.Itoa(r.ID),
			strconv.Itoa(r.Level),
			r.Name,
			r.Kind,
			r.Amount.StringFixed(2),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// EncodeRatiosCSV writes ratio results as CSV. Values are rounded to the
// given number of decimals; non-computable ratios export an empty cell.
func EncodeRatiosCSV(w io.Writer, ratios []RatioResult, decimals int) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"key", "label", "value", "unit", "level", "notes"}); err != nil {
		return err
	}
	for _, r := range ratios {
		value := ""
		if r.Value != nil {
			value = strconv.FormatFloat(*r.Value, 'f', decimals, 64)
		}
		if err := cw.Write([]string{r.Key, r.Label, value, r.Unit, r.Level, r.Notes}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
