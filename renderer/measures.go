package renderer

import (
	"fmt"
	"strings"

	finsight "github.com/maxencebernardhub/smb-finsight"
)

// MeasuresMarkdown renders measure values as a markdown table. Values whose
// unit is "amount" are formatted as money in the configured currency, other
// units (days, counts) as plain numbers.
func MeasuresMarkdown(title string, values []finsight.MeasureValue, currency string) string {
	b := &strings.Builder{}
	if title != "" {
		fmt.Fprintf(b, "## %s\n\n", title)
	}
	fmt.Fprintf(b, "| Measure | Value | Kind |\n")
	fmt.Fprintf(b, "|:---|---:|:---|\n")
	for _, v := range values {
		rendered := Number(v.Value, 2)
		if v.Unit == "amount" {
			rendered = AmountFloat(v.Value, currency)
		}
		fmt.Fprintf(b, "| %s | %s | %s |\n", v.Label, rendered, v.Kind)
	}
	fmt.Fprintf(b, "\n")
	return b.String()
}
