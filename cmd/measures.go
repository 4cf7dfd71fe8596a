package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	finsight "github.com/maxencebernardhub/smb-finsight"
	"github.com/maxencebernardhub/smb-finsight/renderer"
)

type measuresCmd struct {
	periodFlags
}

func (*measuresCmd) Name() string     { return "measures" }
func (*measuresCmd) Synopsis() string { return "compute canonical and derived measures for a period" }
func (*measuresCmd) Usage() string {
	return `finsight measures [-period <p> | -from <date> -to <date>]

  Print every measure available for the period: canonical measures exported
  by the statements, external inputs from the configuration, and measures
  derived by the ratio rules.
`
}

func (c *measuresCmd) SetFlags(f *flag.FlagSet) {
	c.periodFlags.SetFlags(f)
}

func (c *measuresCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := LoadConfig()
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

	result, err := finsight.ComputeAllPeriods(db, cfg, []finsight.Period{period})
	if err != nil {
		return fail(err)
	}
	title := fmt.Sprintf("Measures, %s", period.Label)
	printMarkdown(renderer.MeasuresMarkdown(title, result.Measures, cfg.Currency))
	return subcommands.ExitSuccess
}
