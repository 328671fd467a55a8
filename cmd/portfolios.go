package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/holdings"
	"github.com/google/subcommands"
)

type lsCmd struct{}

func (*lsCmd) Name() string     { return "ls" }
func (*lsCmd) Synopsis() string { return "list the saved portfolios" }
func (*lsCmd) Usage() string {
	return `hld ls

  Lists the portfolios saved under the portfolio path, with their number of
  transactions.
`
}

func (*lsCmd) SetFlags(f *flag.FlagSet) {}

func (p *lsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledgers, err := holdings.FindLedgers(PortfolioPath(), "")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if len(ledgers) == 0 {
		fmt.Println("No portfolios found.")
		return subcommands.ExitSuccess
	}
	for _, ledger := range ledgers {
		fmt.Printf("%s\t%d transactions\n", ledger.Name(), ledger.Len())
	}
	return subcommands.ExitSuccess
}

type rmCmd struct {
	force bool
}

func (*rmCmd) Name() string     { return "rm" }
func (*rmCmd) Synopsis() string { return "delete a saved portfolio" }
func (*rmCmd) Usage() string {
	return `hld rm -f <name>

  Deletes a saved portfolio and its transactions. The -f flag is required:
  deletion is permanent.
`
}

func (p *rmCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&p.force, "f", false, "Confirm the deletion.")
}

func (p *rmCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one portfolio name.")
		return subcommands.ExitUsageError
	}
	name := f.Arg(0)

	if !p.force {
		fmt.Fprintf(os.Stderr, "Refusing to delete %q without -f.\n", name)
		return subcommands.ExitUsageError
	}

	if err := holdings.DeleteLedger(PortfolioPath(), name); err != nil {
		fmt.Fprintf(os.Stderr, "Error deleting portfolio %q: %v\n", name, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Deleted portfolio %q\n", name)
	return subcommands.ExitSuccess
}
