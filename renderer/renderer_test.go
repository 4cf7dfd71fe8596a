package renderer

import (
	"testing"

	"github.com/shopspring/decimal"

	finsight "github.com/maxencebernardhub/smb-finsight"
)

func TestAmount(t *testing.T) {
	tests := []struct {
		value    string
		currency string
		want     string
	}{
		{value: "1500.56", currency: "EUR", want: "€1.500,56"},
		{value: "1500.555", currency: "EUR", want: "€1.500,56"},
		{value: "-300.5", currency: "EUR", want: "-€300,50"},
		{value: "0", currency: "EUR", want: "€0,00"},
		{value: "1500.56", currency: "USD", want: "$1,500.56"},
	}
	for _, tt := range tests {
		got := Amount(decimal.RequireFromString(tt.value), tt.currency)
		if got != tt.want {
			t.Errorf("Amount(%s, %s) = %q, want %q", tt.value, tt.currency, got, tt.want)
		}
	}
}

func TestNumber(t *testing.T) {
	if got := Number(15.26, 1); got != "15.3" {
		t.Errorf("Number(15.26, 1) = %q, want 15.3", got)
	}
	if got := Number(-0.5, 2); got != "-0.50" {
		t.Errorf("Number(-0.5, 2) = %q, want -0.50", got)
	}
}

func TestStatementMarkdown(t *testing.T) {
	rows := []finsight.StatementRow{
		{DisplayOrder: 10, ID: 1, Level: 1, Name: "Revenue", Kind: finsight.KindAccounts, Amount: decimal.RequireFromString("1000")},
		{DisplayOrder: 20, ID: 2, Level: 2, Name: "Exports", Kind: finsight.KindAccounts, Amount: decimal.RequireFromString("250.50")},
		{DisplayOrder: 30, ID: 3, Level: 0, Name: "Gross margin", Kind: finsight.KindFormula, Amount: decimal.RequireFromString("600")},
	}
	got := StatementMarkdown("Income statement, FY 2025", rows, "EUR")
	want := "## Income statement, FY 2025\n\n" +
		"| Line | Amount |\n" +
		"|:---|---:|\n" +
		"| \u00a0\u00a0Revenue | €1.000,00 |\n" +
		"| \u00a0\u00a0\u00a0\u00a0Exports | €250,50 |\n" +
		"| **Gross margin** | €600,00 |\n\n"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestStatementMarkdownNoTitle(t *testing.T) {
	got := StatementMarkdown("", nil, "EUR")
	want := "| Line | Amount |\n|:---|---:|\n\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestMeasuresMarkdown(t *testing.T) {
	values := []finsight.MeasureValue{
		{Key: "revenue", Label: "Revenue", Value: 1000, Unit: "amount", Kind: finsight.MeasureCanonical},
		{Key: "period_days", Label: "period_days", Value: 365, Unit: "days", Kind: finsight.MeasureExtra},
	}
	got := MeasuresMarkdown("Measures", values, "EUR")
	want := "## Measures\n\n" +
		"| Measure | Value | Kind |\n" +
		"|:---|---:|:---|\n" +
		"| Revenue | €1.000,00 | canonical |\n" +
		"| period_days | 365.00 | extra |\n\n"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestRatiosMarkdown(t *testing.T) {
	v := 15.26
	results := []finsight.RatioResult{
		{Key: "net_margin", Label: "Net margin %", Value: &v, Unit: "%", Level: "basic"},
		{Key: "dso", Label: "DSO", Value: nil, Unit: "days", Level: "advanced"},
	}
	got := RatiosMarkdown("Ratios", results, 1)
	want := "## Ratios\n\n" +
		"| Ratio | Value | Unit | Level |\n" +
		"|:---|---:|:---|:---|\n" +
		"| Net margin % | 15.3 | % | basic |\n" +
		"| DSO |  | days | advanced |\n\n"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestUnknownAccountsMarkdown(t *testing.T) {
	summaries := []finsight.UnknownAccountSummary{
		{Code: "512000", EntriesCount: 2, TotalAmount: decimal.RequireFromString("75")},
	}
	got := UnknownAccountsMarkdown(summaries, "EUR")
	want := "## Unknown accounts\n\n" +
		"| Account | Entries | Total |\n" +
		"|:---|---:|---:|\n" +
		"| 512000 | 2 | €75,00 |\n\n"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}

	empty := UnknownAccountsMarkdown(nil, "EUR")
	if empty != "## Unknown accounts\n\nEvery entry matches the chart of accounts.\n" {
		t.Errorf("empty = %q", empty)
	}
}
