package finsight

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestDecodeEntriesDebitCredit(t *testing.T) {
	csv := `date,code,debit,credit,description
2025-01-10,701000,,1000.00,Invoice 42
2025-01-15,601000,300.50,,Office supplies
2025-01-20,512000,10,25,Mixed
`
	entries, err := DecodeEntries(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("DecodeEntries() error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}

	tests := []struct {
		i      int
		amount string
		desc   string
	}{
		{i: 0, amount: "1000", desc: "Invoice 42"},
		{i: 1, amount: "-300.5", desc: "Office supplies"},
		{i: 2, amount: "15", desc: "Mixed"},
	}
	for _, tt := range tests {
		e := entries[tt.i]
		if !e.Amount.Equal(decimal.RequireFromString(tt.amount)) {
			t.Errorf("entry %d amount = %s, want %s", tt.i, e.Amount, tt.amount)
		}
		if e.Description != tt.desc {
			t.Errorf("entry %d description = %q, want %q", tt.i, e.Description, tt.desc)
		}
	}
}

func TestDecodeEntriesSigned(t *testing.T) {
	csv := `Date,Code,Amount,Label
2025-01-10,701000,1000.00,Invoice 42
2025-01-15,601000,-300.50,Office supplies
`
	entries, err := DecodeEntries(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("DecodeEntries() error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	// "label" is accepted as an alias for "description".
	if entries[0].Description != "Invoice 42" {
		t.Errorf("description = %q", entries[0].Description)
	}
	if !entries[1].Amount.Equal(decimal.RequireFromString("-300.5")) {
		t.Errorf("amount = %s, want -300.5", entries[1].Amount)
	}
}

func TestDecodeEntriesErrors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{
			name: "unsupported structure",
			csv:  "date,code,value\n2025-01-10,701000,10\n",
		},
		{
			name: "bad date",
			csv:  "date,code,amount\nnot-a-date,701000,10\n",
		},
		{
			name: "bad amount",
			csv:  "date,code,amount\n2025-01-10,701000,ten\n",
		},
		{
			name: "bad debit",
			csv:  "date,code,debit,credit\n2025-01-10,701000,ten,\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeEntries(strings.NewReader(tt.csv)); err == nil {
				t.Error("expected a decoding error")
			}
		})
	}
}

func TestEncodeStatementCSV(t *testing.T) {
	rows := []StatementRow{
		{DisplayOrder: 10, ID: 1, Level: 1, Name: "Revenue", Kind: KindAccounts, Amount: decimal.RequireFromString("1500.555")},
		{DisplayOrder: 20, ID: 3, Level: 0, Name: "Gross margin", Kind: KindFormula, Amount: decimal.RequireFromString("1200")},
	}
	b := &strings.Builder{}
	if err := EncodeStatementCSV(b, rows); err != nil {
		t.Fatalf("EncodeStatementCSV() error: %v", err)
	}
	want := "display_order,id,level,name,type,amount\n" +
		"10,1,1,Revenue,acc,1500.56\n" +
		"20,3,0,Gross margin,calc,1200.00\n"
	if b.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", b.String(), want)
	}
}

func TestEncodeRatiosCSV(t *testing.T) {
	v := 15.26
	ratios := []RatioResult{
		{Key: "net_margin", Label: "Net margin %", Value: &v, Unit: "%", Level: "basic"},
		{Key: "impossible", Label: "impossible", Value: nil, Unit: "amount", Level: "full", Notes: "needs inputs"},
	}
	b := &strings.Builder{}
	if err := EncodeRatiosCSV(b, ratios, 1); err != nil {
		t.Fatalf("EncodeRatiosCSV() error: %v", err)
	}
	want := "key,label,value,unit,level,notes\n" +
		"net_margin,Net margin %,15.3,%,basic,\n" +
		"impossible,impossible,,amount,full,needs inputs\n"
	if b.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", b.String(), want)
	}
}
