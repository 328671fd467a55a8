package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"slices"

	"github.com/etnz/holdings"
	"github.com/etnz/holdings/quote"
	"github.com/etnz/holdings/renderer"
	"github.com/google/subcommands"
)

type summaryCmd struct {
	ledger  string
	offline bool
}

func (*summaryCmd) Name() string { return "summary" }
func (*summaryCmd) Synopsis() string {
	return "show the portfolio summary with positions and gains"
}
func (*summaryCmd) Usage() string {
	return `hld summary [-offline] [-l <ledger>]

  Shows the whole-portfolio summary: per asset the open position, its
  average cost, the market value at the latest price, and the realized and
  unrealized gains. Assets without a market price are listed separately and
  never counted as zero.

Usage Examples:
$ hld summary
$ hld summary -offline

`
}

func (p *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.ledger, "l", "", "Ledger to report on. Defaults to the only ledger if one exists.")
	f.BoolVar(&p.offline, "offline", false, "Do not fetch market prices; all assets show as unpriced.")
}

func (p *summaryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := DecodeLedger(p.ledger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	var prices map[string]holdings.Money
	if !p.offline {
		prices, err = quote.Fetch(quote.NewYahoo(), slices.Collect(ledger.Assets()))
		if err != nil {
			fmt.Fprintln(os.Stderr, "Warning: some prices are missing:", err)
		}
	}

	summary, err := holdings.Summarize(ledger, prices)
	if summary == nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Warning:", err)
	}

	printMarkdown(renderer.SummaryMarkdown(summary))
	return subcommands.ExitSuccess
}

type gainsCmd struct {
	ledger string
}

func (*gainsCmd) Name() string     { return "gains" }
func (*gainsCmd) Synopsis() string { return "show the detail of every sale and its realized gain" }
func (*gainsCmd) Usage() string {
	return `hld gains [-l <ledger>]

  Shows one row per past sale: the quantity sold, the average cost of the
  matched lots, the sale price and the realized gain or loss.
`
}

func (p *gainsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.ledger, "l", "", "Ledger to report on. Defaults to the only ledger if one exists.")
}

func (p *gainsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := DecodeLedger(p.ledger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fragments, err := replayAll(ledger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.SalesMarkdown(holdings.BySale(fragments)))
	return subcommands.ExitSuccess
}

type taxCmd struct {
	ledger string
	year   int
}

func (*taxCmd) Name() string     { return "tax" }
func (*taxCmd) Synopsis() string { return "show realized gains grouped by asset and year" }
func (*taxCmd) Usage() string {
	return `hld tax [-y <year>] [-l <ledger>]

  Shows realized gains grouped by asset and calendar year of the sale, as
  needed for the tax declaration. Gains are attributed to the year of the
  sale, whatever the purchase year.

Usage Examples:
$ hld tax
$ hld tax -y 2025

`
}

func (p *taxCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.ledger, "l", "", "Ledger to report on. Defaults to the only ledger if one exists.")
	f.IntVar(&p.year, "y", 0, "Show only one year.")
}

func (p *taxCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := DecodeLedger(p.ledger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fragments, err := replayAll(ledger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	rows := holdings.TaxYears(fragments)
	if p.year != 0 {
		var filtered []holdings.TaxYearRow
		for _, row := range rows {
			if row.Year == p.year {
				filtered = append(filtered, row)
			}
		}
		rows = filtered
	}

	printMarkdown(renderer.TaxMarkdown(rows))
	return subcommands.ExitSuccess
}
