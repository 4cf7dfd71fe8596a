package renderer

import (
	"fmt"
	"strings"

	finsight "github.com/maxencebernardhub/smb-finsight"
)

// RatiosMarkdown renders ratio results as a markdown table. A ratio whose
// value is absent (its formula could not be computed for the period) gets a
// blank cell rather than a zero.
func RatiosMarkdown(title string, results []finsight.RatioResult, decimals int) string {
	b := &strings.Builder{}
	if title != "" {
		fmt.Fprintf(b, "## %s\n\n", title)
	}
	fmt.Fprintf(b, "| Ratio | Value | Unit | Level |\n")
	fmt.Fprintf(b, "|:---|---:|:---|:---|\n")
	for _, r := range results {
		value := ""
		if r.Value != nil {
			value = Number(*r.Value, decimals)
		}
		fmt.Fprintf(b, "| %s | %s | %s | %s |\n", r.Label, value, r.Unit, r.Level)
	}
	fmt.Fprintf(b, "\n")
	return b.String()
}
