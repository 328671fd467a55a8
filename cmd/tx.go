package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/holdings"
	"github.com/etnz/holdings/date"
	"github.com/etnz/holdings/renderer"
	"github.com/google/subcommands"
)

// recordCmd holds the flags shared by the buy and sell commands.
type recordCmd struct {
	ledger   string
	date     string
	quantity string
	price    string
	class    string
	memo     string
}

func (p *recordCmd) setFlags(f *flag.FlagSet) {
	f.StringVar(&p.ledger, "l", "", "Ledger to record into. Defaults to the only ledger if one exists.")
	f.StringVar(&p.date, "d", date.Today().String(), "Date of the trade (YYYY-MM-DD).")
	f.StringVar(&p.quantity, "q", "", "Quantity traded.")
	f.StringVar(&p.price, "p", "", "Unit price paid or received.")
	f.StringVar(&p.class, "c", "", "Asset class (stock, etf, crypto, bond, commodity, other).")
	f.StringVar(&p.memo, "memo", "", "Free-form note attached to the transaction.")
}

// record parses the shared flags into a transaction and appends it.
func (p *recordCmd) record(side holdings.Side, f *flag.FlagSet) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one asset symbol.")
		return subcommands.ExitUsageError
	}
	asset := f.Arg(0)

	day, err := date.Parse(p.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitFailure
	}
	quantity, err := holdings.ParseQuantity(p.quantity)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing quantity %q: %v\n", p.quantity, err)
		return subcommands.ExitFailure
	}
	price, err := holdings.ParseQuantity(p.price)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing price %q: %v\n", p.price, err)
		return subcommands.ExitFailure
	}

	tx := holdings.Transaction{
		Asset:     asset,
		Class:     holdings.ParseAssetClass(p.class),
		Side:      side,
		Quantity:  quantity,
		UnitPrice: holdings.M(price.Decimal(), *defaultCurrency),
		Day:       day,
		Memo:      p.memo,
	}

	ledger, err := DecodeLedger(p.ledger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if _, err := ledger.Append(tx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid transaction: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := saveLedger(ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving ledger %q: %v\n", ledger.Name(), err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Recorded %s %s %s @ %s in ledger %q\n", side, quantity, asset, tx.UnitPrice, ledger.Name())
	return subcommands.ExitSuccess
}

type buyCmd struct{ recordCmd }

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "record a purchase in the ledger" }
func (*buyCmd) Usage() string {
	return `hld buy -q <quantity> -p <price> [-d <date>] [-c <class>] [-l <ledger>] <asset>

  Records a purchase. Each buy opens a new lot at the given unit price.

Usage Examples:
$ hld buy -q 10 -p 178.5 AAPL
$ hld buy -q 0.25 -p 58000 -c crypto BTC

`
}
func (p *buyCmd) SetFlags(f *flag.FlagSet) { p.setFlags(f) }
func (p *buyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return p.record(holdings.Buy, f)
}

type sellCmd struct{ recordCmd }

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "record a sale in the ledger" }
func (*sellCmd) Usage() string {
	return `hld sell -q <quantity> -p <price> [-d <date>] [-l <ledger>] <asset>

  Records a sale. The sale is matched against the oldest open lots when
  reports are computed; selling more than the open quantity is rejected at
  report time.

Usage Examples:
$ hld sell -q 4 -p 150 AAPL

`
}
func (p *sellCmd) SetFlags(f *flag.FlagSet) { p.setFlags(f) }
func (p *sellCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return p.record(holdings.Sell, f)
}

type txCmd struct {
	ledger string
	asset  string
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list the transactions in the ledger" }
func (*txCmd) Usage() string {
	return `hld tx [-a <asset>] [-l <ledger>]

  Lists the ledger transactions in chronological order.
`
}

func (p *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.ledger, "l", "", "Ledger to report on. Defaults to the only ledger if one exists.")
	f.StringVar(&p.asset, "a", "", "Show only the transactions of one asset.")
}

func (p *txCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := DecodeLedger(p.ledger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	if p.asset != "" {
		filtered := holdings.NewLedger()
		filtered.SetName(ledger.Name())
		for tx := range ledger.Transactions(holdings.ByAsset(p.asset)) {
			filtered.Append(tx)
		}
		ledger = filtered
	}

	printMarkdown(renderer.TransactionsMarkdown(ledger))
	return subcommands.ExitSuccess
}
