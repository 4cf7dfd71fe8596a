package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	finsight "github.com/maxencebernardhub/smb-finsight"
	"github.com/maxencebernardhub/smb-finsight/renderer"
)

type statementCmd struct {
	periodFlags
	view      string
	secondary bool
	csv       bool
}

func (*statementCmd) Name() string     { return "statement" }
func (*statementCmd) Synopsis() string { return "compute a financial statement for a period" }
func (*statementCmd) Usage() string {
	return `finsight statement [-view <view>] [-secondary] [-period <p> | -from <date> -to <date>] [-csv]

  Aggregate the entries of the period through the mapping template and print
  the statement. Views: simplified, regular, detailed, complete.
`
}

func (c *statementCmd) SetFlags(f *flag.FlagSet) {
	c.periodFlags.SetFlags(f)
	f.StringVar(&c.view, "view", "detailed", "detail level: simplified, regular, detailed, complete")
	f.BoolVar(&c.secondary, "secondary", false, "compute the secondary statement instead of the primary one")
	f.BoolVar(&c.csv, "csv", false, "write the statement as CSV on stdout instead of a table")
}

func (c *statementCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := LoadConfig()
	if err != nil {
		return fail(err)
	}
	period, err := c.resolve(cfg)
	if err != nil {
		return fail(err)
	}

	mapping := cfg.StandardConfig.IncomeStatementMapping
	label := cfg.StandardConfig.PrimaryStatementLabel
	if c.secondary {
		mapping = cfg.StandardConfig.SecondaryMapping
		label = cfg.StandardConfig.SecondaryStatementLabel
	}
	if mapping == "" {
		return fail(fmt.Errorf("no mapping configured for this statement in standard %s", cfg.Standard))
	}
	template, err := finsight.LoadTemplate(mapping)
	if err != nil {
		return fail(err)
	}

	db, err := OpenStore(cfg)
	if err != nil {
		return fail(err)
	}
	defer db.Close()
	entries, err := db.LoadEntries(period.Start, period.End)
	if err != nil {
		return fail(err)
	}

	stmt, err := finsight.Aggregate(entries, template)
	if err != nil {
		return fail(err)
	}

	var rows []finsight.StatementRow
	if c.view == "complete" {
		nameByCode := map[string]string{}
		if chart := cfg.StandardConfig.ChartOfAccounts; chart != "" {
			accounts, err := finsight.LoadChartOfAccounts(chart)
			if err != nil {
				return fail(err)
			}
			nameByCode = finsight.AccountNames(accounts)
		}
		rows = finsight.BuildCompleteView(stmt, entries, template, nameByCode)
	} else {
		rows = finsight.ApplyViewLevelFilter(stmt, c.view)
	}

	if c.csv {
		if err := finsight.EncodeStatementCSV(os.Stdout, rows); err != nil {
			return fail(err)
		}
		return subcommands.ExitSuccess
	}
	title := fmt.Sprintf("%s, %s", label, period.Label)
	printMarkdown(renderer.StatementMarkdown(title, rows, cfg.Currency))
	return subcommands.ExitSuccess
}
