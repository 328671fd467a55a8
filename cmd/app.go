// Package cmd implements the CLI application to manage a transaction ledger
// and its cost-basis reports.
package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/holdings"
	"github.com/google/subcommands"
)

// Register registers all subcommands on the commander. A main package calls
// Register() and then Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&buyCmd{}, "transactions")
	c.Register(&sellCmd{}, "transactions")
	c.Register(&txCmd{}, "transactions")
	c.Register(&importCmd{}, "transactions")

	c.Register(&summaryCmd{}, "reports")
	c.Register(&gainsCmd{}, "reports")
	c.Register(&taxCmd{}, "reports")
	c.Register(&exportCmd{}, "reports")

	c.Register(&lsCmd{}, "portfolios")
	c.Register(&rmCmd{}, "portfolios")

	c.Register(&serveCmd{}, "server")
	c.Register(&assistCmd{}, "assistant")
	c.Register(&topicCmd{}, "documentation")
}

// As a CLI application the process is short lived, so global flags are fine.

var portfolioPath = flag.String("portfolio-path", defaultPortfolioPath(), "Path to the folder holding the portfolio ledger files")
var defaultCurrency = flag.String("currency", "EUR", "Currency assumed for prices without an explicit one")

func defaultPortfolioPath() string {
	if p := os.Getenv("HLD_PORTFOLIO_PATH"); p != "" {
		return p
	}
	return "."
}

// PortfolioPath returns the folder holding the ledger files.
func PortfolioPath() string { return *portfolioPath }

// DecodeLedger loads the named ledger from the portfolio path. An empty name
// selects the only ledger, or a fresh default one on a fresh directory.
func DecodeLedger(name string) (*holdings.Ledger, error) {
	ledger, err := holdings.FindLedger(PortfolioPath(), name)
	if err != nil {
		return nil, fmt.Errorf("could not load ledger: %w", err)
	}
	return ledger, nil
}

// saveLedger persists the ledger back under the portfolio path.
func saveLedger(ledger *holdings.Ledger) error {
	return holdings.SaveLedger(PortfolioPath(), ledger)
}

// printMarkdown renders markdown for the terminal. On any rendering trouble
// the raw markdown is still printed: reports must never be lost to styling.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Println(md)
		return
	}
	fmt.Print(out)
}
