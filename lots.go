package holdings

import (
	"errors"
	"fmt"

	"github.com/etnz/holdings/date"
)

// Lot is an open purchase of an asset, tracked until sales consume it.
type Lot struct {
	Asset     string
	Remaining Quantity  // still-open quantity, always positive
	UnitCost  Money     // purchase price per unit
	Seq       int64     // sequence of the originating buy
	Day       date.Date // purchase date
}

// LotQueue is the FIFO queue of open lots for one asset, oldest first.
type LotQueue []Lot

// Open returns the total open quantity over all lots.
func (q LotQueue) Open() Quantity {
	var total Quantity
	for _, lot := range q {
		total = total.Add(lot.Remaining)
	}
	return total
}

// Invested returns the cost of the open position: sum of remaining quantity
// times unit cost over all lots.
func (q LotQueue) Invested() Money {
	var total Money
	for _, lot := range q {
		total = total.Add(lot.UnitCost.Mul(lot.Remaining))
	}
	return total
}

// AverageCost returns the quantity-weighted mean unit cost of the open lots.
// A flat position has no basis and reports zero, which is not an error.
func (q LotQueue) AverageCost() Money {
	open := q.Open()
	if open.IsZero() {
		return Money{}
	}
	return q.Invested().Div(open)
}

// RealizationFragment is the permanent record of one sale drawing on one lot.
// A sale that straddles several lots produces one fragment per lot.
type RealizationFragment struct {
	Asset     string
	SaleSeq   int64     // sequence of the sell transaction
	SaleDay   date.Date // gains are attributed to the tax year of this day
	Quantity  Quantity  // quantity matched against the lot
	UnitCost  Money     // cost basis per unit, from the consumed lot
	SalePrice Money     // sale price per unit
	Gain      Money     // Quantity * (SalePrice - UnitCost)
}

// CostOfSold returns the cost basis consumed by this fragment.
func (f RealizationFragment) CostOfSold() Money { return f.UnitCost.Mul(f.Quantity) }

// Proceeds returns the sale value of this fragment.
func (f RealizationFragment) Proceeds() Money { return f.SalePrice.Mul(f.Quantity) }

// OversellError reports a sell requesting more than the open position.
// The sell is rejected as a whole: no lot is consumed and no fragment is
// recorded for it.
type OversellError struct {
	Asset     string
	Seq       int64
	Day       date.Date
	Requested Quantity
	Open      Quantity
}

func (e *OversellError) Error() string {
	return fmt.Sprintf("oversell of %s on %s (seq %d): requested %s but only %s open",
		e.Asset, e.Day, e.Seq, e.Requested, e.Open)
}

// IsOversell reports whether err is (or wraps) an OversellError.
func IsOversell(err error) bool {
	var o *OversellError
	return errors.As(err, &o)
}

// Replay runs the FIFO engine over the ordered transactions of one asset.
//
// It is a pure function: replaying the same sequence yields an identical
// queue and identical fragments, with no dependence on clocks or prices.
//
// Buys append a lot to the queue tail. Sells consume the queue head first,
// splitting the head lot when it is larger than what remains to sell, and
// emit one RealizationFragment per lot they draw from. A sell larger than
// the open position is rejected atomically with an *OversellError and the
// replay continues with the next transaction; all oversell errors are
// joined into the returned error.
func Replay(txs []Transaction) (LotQueue, []RealizationFragment, error) {
	var queue LotQueue
	var fragments []RealizationFragment
	var errs error

	asset := ""
	for _, tx := range txs {
		if asset == "" {
			asset = tx.Asset
		} else if tx.Asset != asset {
			return nil, nil, fmt.Errorf("replay expects a single asset, got %q and %q", asset, tx.Asset)
		}

		switch tx.Side {
		case Buy:
			queue = append(queue, Lot{
				Asset:     tx.Asset,
				Remaining: tx.Quantity,
				UnitCost:  tx.UnitPrice,
				Seq:       tx.Seq,
				Day:       tx.Day,
			})
		case Sell:
			if open := queue.Open(); tx.Quantity.GreaterThan(open) {
				errs = errors.Join(errs, &OversellError{
					Asset:     tx.Asset,
					Seq:       tx.Seq,
					Day:       tx.Day,
					Requested: tx.Quantity,
					Open:      open,
				})
				continue
			}
			queue, fragments = consume(queue, fragments, tx)
		default:
			return nil, nil, fmt.Errorf("replay: unknown side %q (seq %d)", tx.Side, tx.Seq)
		}
	}
	return queue, fragments, errs
}

// consume matches an accepted sell against the queue head first. The caller
// has already checked that the open quantity covers the sell.
func consume(queue LotQueue, fragments []RealizationFragment, sell Transaction) (LotQueue, []RealizationFragment) {
	toSell := sell.Quantity
	for toSell.IsPositive() {
		lot := &queue[0]
		used := lot.Remaining.Min(toSell)

		fragments = append(fragments, RealizationFragment{
			Asset:     sell.Asset,
			SaleSeq:   sell.Seq,
			SaleDay:   sell.Day,
			Quantity:  used,
			UnitCost:  lot.UnitCost,
			SalePrice: sell.UnitPrice,
			Gain:      sell.UnitPrice.Sub(lot.UnitCost).Mul(used),
		})

		lot.Remaining = lot.Remaining.Sub(used)
		if lot.Remaining.IsZero() {
			queue = queue[1:]
		}
		toSell = toSell.Sub(used)
	}
	return queue, fragments
}
