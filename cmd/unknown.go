package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	finsight "github.com/maxencebernardhub/smb-finsight"
	"github.com/maxencebernardhub/smb-finsight/renderer"
)

type unknownCmd struct {
	periodFlags
}

func (*unknownCmd) Name() string     { return "unknown" }
func (*unknownCmd) Synopsis() string { return "report entries whose account is not in the chart" }
func (*unknownCmd) Usage() string {
	return `finsight unknown [-period <p> | -from <date> -to <date>]

  List the account codes of the period that match nothing in the chart of
  accounts, not even through an ancestor prefix, with entry counts and
  totals.
`
}

func (c *unknownCmd) SetFlags(f *flag.FlagSet) {
	c.periodFlags.SetFlags(f)
}

func (c *unknownCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := LoadConfig()
	if err != nil {
		return fail(err)
	}
	if cfg.StandardConfig.ChartOfAccounts == "" {
		return fail(fmt.Errorf("no chart of accounts configured for standard %s", cfg.Standard))
	}
	accounts, err := finsight.LoadChartOfAccounts(cfg.StandardConfig.ChartOfAccounts)
	if err != nil {
		return fail(err)
	}
	period, err := c.resolve(cfg)
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

	_, rejected := finsight.SplitUnknownAccounts(entries, finsight.KnownCodes(accounts))
	summaries := finsight.SummarizeUnknownAccounts(rejected)
	printMarkdown(renderer.UnknownAccountsMarkdown(summaries, cfg.Currency))
	return subcommands.ExitSuccess
}
