// Package renderer turns the derived reports into markdown, ready for the
// terminal or for a model prompt.
package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/holdings"
)

// SummaryMarkdown renders the whole-portfolio rollup: one row per asset plus
// a totals row, followed by the portfolio level figures.
func SummaryMarkdown(summary *holdings.Summary) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Portfolio Summary\n\n")
	fmt.Fprintln(&b, "| Asset | Class | Open | Avg Cost | Invested | Market Value | Unrealized | Realized | Balance |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|---:|---:|---:|---:|")

	for _, a := range summary.Assets {
		marketValue, unrealized := "n/a", "n/a"
		if a.Priced {
			marketValue = a.MarketValue.String()
			unrealized = a.Unrealized.SignedString()
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			a.Asset, a.Class, a.Open, a.AverageCost, a.Invested,
			marketValue, unrealized,
			a.Realized.Gain.SignedString(), a.Balance.SignedString(),
		)
	}
	fmt.Fprintf(&b, "| **Total** | | | | **%s** | **%s** | **%s** | **%s** | **%s** |\n",
		summary.Invested, summary.MarketValue,
		summary.Unrealized.SignedString(), summary.Realized.SignedString(), summary.Net.SignedString(),
	)

	fmt.Fprintf(&b, "\nNet result: %s", summary.Net.SignedString())
	if roi, ok := summary.ROI(); ok {
		fmt.Fprintf(&b, " (realized ROI %s)", roi.SignedString())
	}
	fmt.Fprintln(&b)

	if len(summary.Unpriced) > 0 {
		fmt.Fprintf(&b, "\nNo market price for: %s. Their value is not counted above.\n",
			strings.Join(summary.Unpriced, ", "))
	}
	return b.String()
}

// PositionsMarkdown renders only the open side of the summary.
func PositionsMarkdown(summary *holdings.Summary) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Open Positions\n\n")
	fmt.Fprintln(&b, "| Asset | Class | Open | Lots | Avg Cost | Invested |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|---:|")

	for _, a := range summary.Assets {
		if !a.Open.IsPositive() {
			continue
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %d | %s | %s |\n",
			a.Asset, a.Class, a.Open, a.Lots, a.AverageCost, a.Invested)
	}
	fmt.Fprintf(&b, "| **Total** | | | | | **%s** |\n", summary.Invested)
	return b.String()
}

// SalesMarkdown renders one row per sale event, each with its
// quantity-weighted cost basis.
func SalesMarkdown(sales []holdings.SaleSummary) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Sales Detail\n\n")
	if len(sales) == 0 {
		fmt.Fprintln(&b, "No sales recorded.")
		return b.String()
	}

	fmt.Fprintln(&b, "| Asset | Date | Quantity | Avg Cost | Sale Price | Cost of Sold | Proceeds | Gain |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|---:|---:|---:|")
	var total holdings.Money
	for _, s := range sales {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s |\n",
			s.Asset, s.SaleDay, s.Quantity, s.AverageCost, s.SalePrice,
			s.CostOfSold, s.Proceeds, s.Gain.SignedString())
		total = total.Add(s.Gain)
	}
	fmt.Fprintf(&b, "| **Total** | | | | | | | **%s** |\n", total.SignedString())
	return b.String()
}

// TaxMarkdown renders the per-asset per-year realized results.
func TaxMarkdown(rows []holdings.TaxYearRow) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Tax Report\n\n")
	if len(rows) == 0 {
		fmt.Fprintln(&b, "No realized gains to declare.")
		return b.String()
	}

	fmt.Fprintln(&b, "| Asset | Year | Cost of Sold | Proceeds | Realized Gain |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|")
	var total holdings.Money
	for _, row := range rows {
		fmt.Fprintf(&b, "| %s | %d | %s | %s | %s |\n",
			row.Asset, row.Year, row.CostOfSold, row.Proceeds, row.Gain.SignedString())
		total = total.Add(row.Gain)
	}
	fmt.Fprintf(&b, "| **Total** | | | | **%s** |\n", total.SignedString())
	return b.String()
}

// TransactionsMarkdown renders the raw ledger rows.
func TransactionsMarkdown(ledger *holdings.Ledger) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Transactions (%s)\n\n", ledger.Name())
	fmt.Fprintln(&b, "| Date | Asset | Side | Quantity | Unit Price | Amount |")
	fmt.Fprintln(&b, "|:---|:---|:---|---:|---:|---:|")
	for tx := range ledger.Transactions() {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			tx.Day, tx.Asset, tx.Side, tx.Quantity, tx.UnitPrice, tx.Amount())
	}
	return b.String()
}
