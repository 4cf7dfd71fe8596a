// Package cmd implements the CLI application to manage and report on a
// small-business accounting database.
package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	finsight "github.com/maxencebernardhub/smb-finsight"
	"github.com/maxencebernardhub/smb-finsight/date"
	"github.com/maxencebernardhub/smb-finsight/store"
)

// Register the subcommands.
// A main package calls Register() to declare the subcommands, and Execute()
// on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&importCmd{}, "data")
	c.Register(&entriesCmd{}, "data")
	c.Register(&duplicatesCmd{}, "data")

	c.Register(&statementCmd{}, "reports")
	c.Register(&measuresCmd{}, "reports")
	c.Register(&ratiosCmd{}, "reports")
	c.Register(&unknownCmd{}, "reports")

	c.Register(&topicCmd{}, "documentation")
}

// As a CLI application it has a very short lived lifecycle, so it is ok to
// use global variables.

var configFile = flag.String("config", "config.toml", "Path to the application configuration file")

// LoadConfig loads the application configuration from the -config flag.
func LoadConfig() (*finsight.AppConfig, error) {
	return finsight.LoadAppConfig(*configFile)
}

// OpenStore opens the entries database configured in cfg.
func OpenStore(cfg *finsight.AppConfig) (*store.Store, error) {
	return store.Open(cfg.DatabasePath)
}

// periodFlags are the reporting period flags shared by the report commands.
type periodFlags struct {
	period string
	from   string
	to     string
}

func (p *periodFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.period, "period", "", "named period: fy, ytd, mtd, last-month, last-fy")
	f.StringVar(&p.from, "from", "", "period start date (YYYY-MM-DD), defaults to the fiscal year start")
	f.StringVar(&p.to, "to", "", "period end date (YYYY-MM-DD), defaults to the fiscal year end")
}

// resolve turns the flags into a Period against the configured fiscal year.
func (p *periodFlags) resolve(cfg *finsight.AppConfig) (finsight.Period, error) {
	var from, to date.Date
	var err error
	if p.from != "" {
		if from, err = date.Parse(p.from); err != nil {
			return finsight.Period{}, err
		}
	}
	if p.to != "" {
		if to, err = date.Parse(p.to); err != nil {
			return finsight.Period{}, err
		}
	}
	return finsight.ResolvePeriod(p.period, from, to, cfg.FiscalYear, date.Today())
}

// printMarkdown renders markdown for the terminal. When rendering fails the
// raw markdown is still printed.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(0))
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// fail prints the error and returns the failure exit status.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return subcommands.ExitFailure
}
