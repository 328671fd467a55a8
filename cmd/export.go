package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/holdings"
	"github.com/google/subcommands"
)

type exportCmd struct {
	ledger string
	report string
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export a report as CSV" }
func (*exportCmd) Usage() string {
	return `hld export -report <summary|sales|tax> [-o <file>] [-l <ledger>]

  Writes a report as CSV, amounts rounded to cents, to stdout or to a file.

Usage Examples:
$ hld export -report tax -o tax_2025.csv
$ hld export -report sales

`
}

func (p *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.ledger, "l", "", "Ledger to report on. Defaults to the only ledger if one exists.")
	f.StringVar(&p.report, "report", "summary", "Report to export: summary, sales or tax.")
	f.StringVar(&p.output, "o", "", "Output file. Defaults to stdout.")
}

func (p *exportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := DecodeLedger(p.ledger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	var out io.Writer = os.Stdout
	if p.output != "" {
		file, err := os.Create(p.output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", p.output, err)
			return subcommands.ExitFailure
		}
		defer file.Close()
		out = file
	}

	switch p.report {
	case "summary":
		summary, err := holdings.Summarize(ledger, nil)
		if summary == nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, "Warning:", err)
		}
		err = holdings.ExportSummaryCSV(out, summary)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
	case "sales":
		fragments, err := replayAll(ledger)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		if err := holdings.ExportSalesCSV(out, holdings.BySale(fragments)); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
	case "tax":
		fragments, err := replayAll(ledger)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		if err := holdings.ExportTaxCSV(out, holdings.TaxYears(fragments)); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown report %q, expected summary, sales or tax.\n", p.report)
		return subcommands.ExitUsageError
	}
	return subcommands.ExitSuccess
}

// replayAll collects the realization fragments of every asset. Oversells are
// reported as warnings; the affected sells are simply absent from the report.
func replayAll(ledger *holdings.Ledger) ([]holdings.RealizationFragment, error) {
	var fragments []holdings.RealizationFragment
	for asset := range ledger.Assets() {
		_, f, err := ledger.Replay(asset)
		if err != nil {
			if !holdings.IsOversell(err) {
				return nil, err
			}
			fmt.Fprintln(os.Stderr, "Warning:", err)
		}
		fragments = append(fragments, f...)
	}
	return fragments, nil
}
