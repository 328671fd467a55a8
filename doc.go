// Package holdings tracks positions in tradable assets bought and sold over
// time and computes, per asset, the open position, its cost basis, realized
// gains from sales, unrealized gains on the remaining position, and per-tax-
// year groupings of realized results.
//
// The core is the FIFO lot-matching engine: Replay consumes the chronological
// buy/sell sequence of one asset, maintains the queue of open purchase lots,
// matches every sale against the oldest lots first and emits one
// RealizationFragment per consumed lot. Everything else derives from that
// output:
//   - Position / Snapshot: open quantity, average cost, and (given a market
//     price) market value and unrealized gain.
//   - RealizedGains / SaleSummary: realized totals and per-sale rollups.
//   - TaxYears: realized results grouped by asset and calendar year of sale.
//   - Summarize: the whole-portfolio view.
//
// All computations use exact decimal arithmetic; rounding happens only at
// presentation boundaries. Replay is a pure function of its input: identical
// transaction sequences always produce identical lots and fragments, so a
// portfolio is recomputed from its full history on demand rather than
// updated incrementally.
//
// The package also handles persistence of named portfolios in a
// human-readable JSONL format, and CSV import/export, serving the `hld`
// command-line tool.
package holdings
