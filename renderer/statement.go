package renderer

import (
	"fmt"
	"strings"

	finsight "github.com/maxencebernardhub/smb-finsight"
)

// StatementMarkdown renders statement rows as a markdown table. Row names
// are indented with non-breaking spaces according to their level, computed
// rows are bold, and amounts are right-aligned in the configured currency.
func StatementMarkdown(title string, rows []finsight.StatementRow, currency string) string {
	b := &strings.Builder{}
	if title != "" {
		fmt.Fprintf(b, "## %s\n\n", title)
	}
	fmt.Fprintf(b, "| Line | Amount |\n")
	fmt.Fprintf(b, "|:---|---:|\n")
	for _, r := range rows {
		name := indent(r.Level) + r.Name
		if r.Kind == finsight.KindFormula {
			name = indent(r.Level) + "**" + r.Name + "**"
		}
		fmt.Fprintf(b, "| %s | %s |\n", name, Amount(r.Amount, currency))
	}
	fmt.Fprintf(b, "\n")
	return b.String()
}

// indent returns the level's worth of non-breaking spaces, two per level, so
// the hierarchy survives markdown rendering.
func indent(level int) string {
	return strings.Repeat("\u00a0", 2*level)
}
