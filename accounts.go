package finsight

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Account is one line of the chart of accounts: a code and its label.
type Account struct {
	Code string
	Name string
}

// LoadChartOfAccounts reads the chart of accounts from a CSV file. The file
// must carry a code column (account_number, account or code) and a label
// column (name, label or description); header names are case-insensitive.
func LoadChartOfAccounts(path string) ([]Account, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening chart of accounts: %w", err)
	}
	defer f.Close()
	accounts, err := DecodeChartOfAccounts(f)
	if err != nil {
		return nil, fmt.Errorf("decoding chart of accounts %q: %w", path, err)
	}
	return accounts, nil
}

// DecodeChartOfAccounts decodes a chart of accounts from CSV content.
func DecodeChartOfAccounts(r io.Reader) ([]Account, error) {
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
	pick := func(candidates ...string) (int, bool) {
		for _, c := range candidates {
			if i, ok := index[c]; ok {
				return i, true
			}
		}
		return 0, false
	}
	codeCol, ok := pick("account_number", "account", "code")
	if !ok {
		return nil, fmt.Errorf("no account code column: want one of account_number, account, code")
	}
	nameCol, ok := pick("name", "label", "description")
	if !ok {
		return nil, fmt.Errorf("no account label column: want one of name, label, description")
	}

	var accounts []Account
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		a := Account{}
		if codeCol < len(record) {
			a.Code = strings.TrimSpace(record[codeCol])
		}
		if nameCol < len(record) {
			a.Name = strings.TrimSpace(record[nameCol])
		}
		if a.Code != "" {
			accounts = append(accounts, a)
		}
	}
	return accounts, nil
}

// AccountNames returns a code → label lookup for the chart.
func AccountNames(accounts []Account) map[string]string {
	names := make(map[string]string, len(accounts))
	for _, a := range accounts {
		names[a.Code] = a.Name
	}
	return names
}

// KnownCodes returns the set of account codes of the chart.
func KnownCodes(accounts []Account) map[string]bool {
	known := make(map[string]bool, len(accounts))
	for _, a := range accounts {
		known[a.Code] = true
	}
	return known
}

// ResolveKnownAccount returns the most specific known prefix of the code:
// "606300" resolves to "6063" when that prefix is in the chart, down to "60"
// or even "6". The empty string means no prefix of the code is known.
func ResolveKnownAccount(code string, known map[string]bool) string {
	code = strings.TrimSpace(code)
	for i := len(code); i > 0; i-- {
		if known[code[:i]] {
			return code[:i]
		}
	}
	return ""
}

// SplitUnknownAccounts partitions entries into those whose code resolves to
// a known account (exactly or through an ancestor prefix) and those that
// match nothing in the chart. Reporting the rejected entries is the
// caller's decision.
func SplitUnknownAccounts(entries []Entry, known map[string]bool) (kept, rejected []Entry) {
	for _, e := range entries {
		if ResolveKnownAccount(e.Code, known) != "" {
			kept = append(kept, e)
		} else {
			rejected = append(rejected, e)
		}
	}
	return kept, rejected
}

// UnknownAccountSummary aggregates the rejected entries of one account code.
type UnknownAccountSummary struct {
	Code         string
	EntriesCount int
	TotalAmount  decimal.Decimal
}

// SummarizeUnknownAccounts groups rejected entries by code with a count and
// a total amount, sorted by code.
func SummarizeUnknownAccounts(rejected []Entry) []UnknownAccountSummary {
	byCode := make(map[string]*UnknownAccountSummary)
	for _, e := range rejected {
		s, ok := byCode[e.Code]
		if !ok {
			s = &UnknownAccountSummary{Code: e.Code}
			byCode[e.Code] = s
		}
		s.EntriesCount++
		s.TotalAmount = s.TotalAmount.Add(e.Amount)
	}
	summaries := make([]UnknownAccountSummary, 0, len(byCode))
	for _, s := range byCode {
		summaries = append(summaries, *s)
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Code < summaries[j].Code })
	return summaries
}
