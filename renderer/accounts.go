package renderer

import (
	"fmt"
	"strings"

	finsight "github.com/maxencebernardhub/smb-finsight"
)

// UnknownAccountsMarkdown renders the per-code summary of entries whose
// account matches nothing in the chart of accounts.
func UnknownAccountsMarkdown(summaries []finsight.UnknownAccountSummary, currency string) string {
	b := &strings.Builder{}
	fmt.Fprintf(b, "## Unknown accounts\n\n")
	if len(summaries) == 0 {
		fmt.Fprintf(b, "Every entry matches the chart of accounts.\n")
		return b.String()
	}
	fmt.Fprintf(b, "| Account | Entries | Total |\n")
	fmt.Fprintf(b, "|:---|---:|---:|\n")
	for _, s := range summaries {
		fmt.Fprintf(b, "| %s | %d | %s |\n", s.Code, s.EntriesCount, Amount(s.TotalAmount, currency))
	}
	fmt.Fprintf(b, "\n")
	return b.String()
}
