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

type entriesCmd struct {
	periodFlags
	code        string
	codePrefix  string
	description string
	batch       int64
	deleted     bool
	limit       int
	offset      int
	orderBy     string

	deleteID int64
	reason   string
	restore  int64
}

func (*entriesCmd) Name() string     { return "entries" }
func (*entriesCmd) Synopsis() string { return "search, delete or restore stored entries" }
func (*entriesCmd) Usage() string {
	return `finsight entries [filters] [-limit <n>] [-offset <n>] [-order <col>]
finsight entries -delete <id> [-reason <text>]
finsight entries -restore <id>

  Without -delete or -restore, list the entries matching the filters.
  Deleting is always soft: the entry is flagged with a reason and can be
  restored later.
`
}

func (c *entriesCmd) SetFlags(f *flag.FlagSet) {
	c.periodFlags.SetFlags(f)
	f.StringVar(&c.code, "code", "", "exact account code")
	f.StringVar(&c.codePrefix, "code-prefix", "", "account code prefix")
	f.StringVar(&c.description, "search", "", "description substring")
	f.Int64Var(&c.batch, "batch", 0, "import batch id")
	f.BoolVar(&c.deleted, "deleted", false, "show only soft-deleted entries")
	f.IntVar(&c.limit, "limit", 50, "maximum number of entries to list, 0 for all")
	f.IntVar(&c.offset, "offset", 0, "number of entries to skip")
	f.StringVar(&c.orderBy, "order", "date", "order: date, -date, amount, -amount, code, id")
	f.Int64Var(&c.deleteID, "delete", 0, "soft-delete the entry with this id")
	f.StringVar(&c.reason, "reason", "", "reason recorded with -delete")
	f.Int64Var(&c.restore, "restore", 0, "restore the soft-deleted entry with this id")
}

func (c *entriesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := LoadConfig()
	if err != nil {
		return fail(err)
	}
	db, err := OpenStore(cfg)
	if err != nil {
		return fail(err)
	}
	defer db.Close()

	switch {
	case c.deleteID != 0:
		if err := db.SoftDelete(c.deleteID, c.reason); err != nil {
			return fail(err)
		}
		fmt.Printf("Entry %d deleted.\n", c.deleteID)
		return subcommands.ExitSuccess
	case c.restore != 0:
		if err := db.Restore(c.restore); err != nil {
			return fail(err)
		}
		fmt.Printf("Entry %d restored.\n", c.restore)
		return subcommands.ExitSuccess
	}

	period, err := c.resolve(cfg)
	if err != nil {
		return fail(err)
	}
	filter := store.Filter{
		CodeExact:           c.code,
		CodePrefix:          c.codePrefix,
		DescriptionContains: c.description,
		ImportBatchID:       c.batch,
		DeletedOnly:         c.deleted,
	}
	// Only constrain dates when the user asked for a period.
	if c.period != "" || c.from != "" || c.to != "" {
		filter.Start, filter.End = period.Start, period.End
	}

	entries, total, err := db.Search(filter, c.limit, c.offset, c.orderBy)
	if err != nil {
		return fail(err)
	}

	b := &strings.Builder{}
	fmt.Fprintf(b, "## Entries (%d of %d)\n\n", len(entries), total)
	fmt.Fprintf(b, "| Id | Date | Account | Description | Amount |\n")
	fmt.Fprintf(b, "|---:|:---|:---|:---|---:|\n")
	for _, e := range entries {
		desc := e.Description
		if e.IsDeleted {
			desc += " (deleted)"
		}
		fmt.Fprintf(b, "| %d | %s | %s | %s | %s |\n",
			e.ID, e.Date, e.Code, desc, renderer.Amount(e.Amount(), cfg.Currency))
	}
	fmt.Fprintf(b, "\n")
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}
