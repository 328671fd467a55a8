package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/holdings"
	"github.com/google/subcommands"
)

type importCmd struct {
	ledger string
	file   string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import transactions from a CSV spreadsheet" }
func (*importCmd) Usage() string {
	return `hld import -file <trades.csv> [-l <ledger>]

  Imports transactions from a CSV file into the ledger. Column headers are
  matched leniently, in English or Spanish (asset/activo, side/tipo,
  quantity/cantidad, price/precio, date/fecha). Rows that fail to parse are
  skipped and reported; the rest of the file still loads.

Usage Examples:
$ hld import -file trades.csv
$ hld import -file 2024.csv -l broker

`
}

func (p *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.ledger, "l", "", "Ledger to import into. Defaults to the only ledger if one exists.")
	f.StringVar(&p.file, "file", "", "CSV file to import.")
}

func (p *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.file == "" {
		fmt.Fprintln(os.Stderr, "Error: -file is required.")
		return subcommands.ExitUsageError
	}

	in, err := os.Open(p.file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %q: %v\n", p.file, err)
		return subcommands.ExitFailure
	}
	defer in.Close()

	ledger, err := DecodeLedger(p.ledger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	report, err := holdings.ImportCSV(in, ledger, *defaultCurrency)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error importing %q: %v\n", p.file, err)
		return subcommands.ExitFailure
	}

	for _, rejected := range report.Rejected() {
		fmt.Fprintf(os.Stderr, "row %d skipped: %v\n", rejected.Row+1, rejected.Err)
	}

	if report.Accepted() > 0 {
		if err := saveLedger(ledger); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving ledger %q: %v\n", ledger.Name(), err)
			return subcommands.ExitFailure
		}
	}

	fmt.Printf("Imported %d transactions into %q (%d skipped)\n",
		report.Accepted(), ledger.Name(), len(report.Rejected()))
	return subcommands.ExitSuccess
}
