package holdings

import "errors"

// AssetSummary combines the open and closed sides of one asset.
type AssetSummary struct {
	Snapshot
	Realized RealizedGains
	Balance  Money // realized gain plus unrealized gain when priced
}

// ROI returns the realized gain relative to the cost basis consumed by
// sales. The boolean is false when nothing was sold: the ratio is "not
// applicable", never an error or an infinity.
func (a AssetSummary) ROI() (Percent, bool) {
	return Ratio(a.Realized.Gain, a.Realized.CostOfSold)
}

// Summary is the whole-portfolio rollup.
//
// Market-value totals cover only priced assets; the assets excluded for
// lack of a price are listed in Unpriced so the caller can see the gap
// instead of mistaking it for a zero.
type Summary struct {
	Assets   []AssetSummary
	Unpriced []string // assets with unknown price, excluded from market totals

	Invested    Money // cost of all open positions
	MarketValue Money // market value of open positions with a known price
	CostOfSold  Money
	Proceeds    Money
	Realized    Money
	Unrealized  Money // over priced assets only
	Net         Money // Realized + Unrealized
}

// ROI returns the portfolio realized gain relative to total cost of sold,
// or not-applicable when nothing was sold.
func (s *Summary) ROI() (Percent, bool) {
	return Ratio(s.Realized, s.CostOfSold)
}

// Summarize derives the whole-portfolio summary from a ledger and a price
// table. Assets missing from prices are reported unpriced, not zero-valued.
//
// When the ledger contains oversells the affected sells are skipped (see
// Replay) and the joined errors are returned alongside the summary built
// from the accepted transactions.
func Summarize(ledger *Ledger, prices map[string]Money) (*Summary, error) {
	summary := &Summary{}
	var errs error

	for asset := range ledger.Assets() {
		queue, fragments, err := ledger.Replay(asset)
		if err != nil {
			if !IsOversell(err) {
				return nil, err
			}
			errs = errors.Join(errs, err)
		}

		position := NewPosition(asset, ledger.Class(asset), queue)
		realized := Realize(fragments)

		var snapshot Snapshot
		if price, ok := prices[asset]; ok {
			snapshot = position.Value(price)
		} else {
			snapshot = position.Unpriced()
			if position.Open.IsPositive() {
				summary.Unpriced = append(summary.Unpriced, asset)
			}
		}

		balance := realized.Gain
		if snapshot.Priced {
			balance = balance.Add(snapshot.Unrealized)
		}
		summary.Assets = append(summary.Assets, AssetSummary{
			Snapshot: snapshot,
			Realized: realized,
			Balance:  balance,
		})

		summary.Invested = summary.Invested.Add(position.Invested)
		summary.CostOfSold = summary.CostOfSold.Add(realized.CostOfSold)
		summary.Proceeds = summary.Proceeds.Add(realized.Proceeds)
		summary.Realized = summary.Realized.Add(realized.Gain)
		if snapshot.Priced {
			summary.MarketValue = summary.MarketValue.Add(snapshot.MarketValue)
			summary.Unrealized = summary.Unrealized.Add(snapshot.Unrealized)
		}
	}

	summary.Net = summary.Realized.Add(summary.Unrealized)
	return summary, errs
}
