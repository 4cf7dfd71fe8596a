package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"

	"github.com/maxencebernardhub/smb-finsight/renderer"
	"github.com/maxencebernardhub/smb-finsight/store"
)

type duplicatesCmd struct {
	status  string
	batch   int64
	limit   int
	offset  int
	stats   bool
	resolve int64
	keep    bool
	discard bool
	comment string
}

func (*duplicatesCmd) Name() string     { return "duplicates" }
func (*duplicatesCmd) Synopsis() string { return "list and resolve import duplicates" }
func (*duplicatesCmd) Usage() string {
	return `finsight duplicates [-status <s>] [-batch <id>] [-limit <n>] [-offset <n>]
finsight duplicates -stats
finsight duplicates -resolve <id> (-keep | -discard) [-comment <text>]

  An import parks rows already present in the database as pending
  duplicates. Keeping one inserts it as a regular entry; discarding one
  records the decision without inserting anything.
`
}

func (c *duplicatesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.status, "status", store.DuplicatePending, "filter by status: pending, kept, discarded, or empty for all")
	f.Int64Var(&c.batch, "batch", 0, "filter by import batch id")
	f.IntVar(&c.limit, "limit", 50, "maximum number of duplicates to list, 0 for all")
	f.IntVar(&c.offset, "offset", 0, "number of duplicates to skip")
	f.BoolVar(&c.stats, "stats", false, "print duplicate counts per status")
	f.Int64Var(&c.resolve, "resolve", 0, "resolve the duplicate with this id")
	f.BoolVar(&c.keep, "keep", false, "with -resolve, insert the duplicate as a regular entry")
	f.BoolVar(&c.discard, "discard", false, "with -resolve, drop the duplicate")
	f.StringVar(&c.comment, "comment", "", "comment recorded with -resolve")
}

func (c *duplicatesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := LoadConfig()
	if err != nil {
		return fail(err)
	}
	db, err := OpenStore(cfg)
	if err != nil {
		return fail(err)
	}
	defer db.Close()

	if c.resolve != 0 {
		if c.keep == c.discard {
			return fail(fmt.Errorf("-resolve needs exactly one of -keep or -discard"))
		}
		if err := db.ResolveDuplicate(c.resolve, c.keep, c.comment, store.ResolvedByCLI); err != nil {
			return fail(err)
		}
		verdict := "discarded"
		if c.keep {
			verdict = "kept"
		}
		fmt.Printf("Duplicate %d %s.\n", c.resolve, verdict)
		return subcommands.ExitSuccess
	}

	if c.stats {
		stats, err := db.CountDuplicates()
		if err != nil {
			return fail(err)
		}
		fmt.Printf("pending: %d\nkept: %d\ndiscarded: %d\n", stats.Pending, stats.Kept, stats.Discarded)
		return subcommands.ExitSuccess
	}

	dups, total, err := db.ListDuplicates(store.DuplicateFilter{Status: c.status, ImportBatchID: c.batch}, c.limit, c.offset)
	if err != nil {
		return fail(err)
	}

	b := &strings.Builder{}
	fmt.Fprintf(b, "## Duplicates (%d of %d)\n\n", len(dups), total)
	fmt.Fprintf(b, "| Id | Date | Account | Description | Amount | Status | Matches entry |\n")
	fmt.Fprintf(b, "|---:|:---|:---|:---|---:|:---|---:|\n")
	for _, d := range dups {
		fmt.Fprintf(b, "| %d | %s | %s | %s | %s | %s | %d |\n",
			d.ID, d.Date, d.Code, d.Description,
			renderer.Amount(d.Amount(), cfg.Currency), d.Status, d.ExistingEntryID)
	}
	fmt.Fprintf(b, "\n")
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}
