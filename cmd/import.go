package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/subcommands"

	finsight "github.com/maxencebernardhub/smb-finsight"
)

type importCmd struct {
	allowUnknown bool
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import accounting entries from CSV files" }
func (*importCmd) Usage() string {
	return `finsight import [-allow-unknown] <file.csv> [<file.csv> ...]

  Import entries into the database, one batch per file. Rows already present
  (same date, account, amount and description) are parked as pending
  duplicates instead of being inserted again. Entries whose account matches
  nothing in the chart of accounts are rejected unless -allow-unknown is set.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.allowUnknown, "allow-unknown", false, "import entries even when their account is not in the chart of accounts")
}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: no file to import")
		return subcommands.ExitUsageError
	}
	cfg, err := LoadConfig()
	if err != nil {
		return fail(err)
	}
	db, err := OpenStore(cfg)
	if err != nil {
		return fail(err)
	}
	defer db.Close()

	var known map[string]bool
	if !c.allowUnknown && cfg.StandardConfig.ChartOfAccounts != "" {
		accounts, err := finsight.LoadChartOfAccounts(cfg.StandardConfig.ChartOfAccounts)
		if err != nil {
			return fail(err)
		}
		known = finsight.KnownCodes(accounts)
	}

	for _, path := range f.Args() {
		entries, err := finsight.ReadEntriesFile(path)
		if err != nil {
			return fail(err)
		}
		if known != nil {
			kept, rejected := finsight.SplitUnknownAccounts(entries, known)
			if len(rejected) > 0 {
				fmt.Fprintf(os.Stderr, "%s: %d entries rejected, accounts not in the chart:\n", path, len(rejected))
				for _, s := range finsight.SummarizeUnknownAccounts(rejected) {
					fmt.Fprintf(os.Stderr, "  %s: %d entries\n", s.Code, s.EntriesCount)
				}
			}
			entries = kept
		}
		result, err := db.Import(filepath.Base(path), entries)
		if err != nil {
			return fail(err)
		}
		fmt.Printf("%s: batch %d, %d inserted, %d duplicates pending\n",
			path, result.BatchID, result.Inserted, result.Duplicate)
	}
	return subcommands.ExitSuccess
}
