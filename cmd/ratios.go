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

type ratiosCmd struct {
	periodFlags
	level string
	csv   bool
}

func (*ratiosCmd) Name() string     { return "ratios" }
func (*ratiosCmd) Synopsis() string { return "compute financial ratios for a period" }
func (*ratiosCmd) Usage() string {
	return `finsight ratios [-level <level>] [-period <p> | -from <date> -to <date>] [-csv]

  Compute the ratios of the configured rules files at the given level.
  Levels are cumulative: basic, advanced, full.
`
}

func (c *ratiosCmd) SetFlags(f *flag.FlagSet) {
	c.periodFlags.SetFlags(f)
	f.StringVar(&c.level, "level", "", "ratio level: basic, advanced, full (defaults to the configured level)")
	f.BoolVar(&c.csv, "csv", false, "write the ratios as CSV on stdout instead of a table")
}

func (c *ratiosCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := LoadConfig()
	if err != nil {
		return fail(err)
	}
	if !cfg.RatiosEnabled {
		return fail(fmt.Errorf("ratios are disabled in the configuration"))
	}
	if c.level != "" {
		cfg.DefaultRatiosLevel = c.level
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
	ratios := make([]finsight.RatioResult, 0, len(result.Ratios))
	for _, r := range result.Ratios {
		ratios = append(ratios, r.RatioResult)
	}
	ratios = finsight.SortRatios(ratios)

	if c.csv {
		if err := finsight.EncodeRatiosCSV(os.Stdout, ratios, cfg.RatioDecimals); err != nil {
			return fail(err)
		}
		return subcommands.ExitSuccess
	}
	title := fmt.Sprintf("Ratios (%s), %s", cfg.DefaultRatiosLevel, period.Label)
	printMarkdown(renderer.RatiosMarkdown(title, ratios, cfg.RatioDecimals))
	return subcommands.ExitSuccess
}
