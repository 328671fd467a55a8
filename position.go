package holdings

// Position is the open side of an asset, derived from its lot queue.
// It is recomputed on demand and never persisted.
type Position struct {
	Asset       string
	Class       AssetClass
	Open        Quantity // total still-open quantity
	AverageCost Money    // quantity-weighted mean unit cost, zero when flat
	Invested    Money    // cost of the open position
	Lots        int      // number of open lots
}

// NewPosition derives the open position from a lot queue.
func NewPosition(asset string, class AssetClass, queue LotQueue) Position {
	return Position{
		Asset:       asset,
		Class:       class,
		Open:        queue.Open(),
		AverageCost: queue.AverageCost(),
		Invested:    queue.Invested(),
		Lots:        len(queue),
	}
}

// Snapshot is a Position optionally valued at a market price.
//
// Priced distinguishes "price unknown" from "zero gain": when false, the
// MarketPrice, MarketValue and Unrealized fields are meaningless and must
// not be summed into totals.
type Snapshot struct {
	Position
	Priced      bool
	MarketPrice Money
	MarketValue Money
	Unrealized  Money
}

// Value prices the position at the given market price.
func (p Position) Value(price Money) Snapshot {
	value := price.Mul(p.Open)
	return Snapshot{
		Position:    p,
		Priced:      true,
		MarketPrice: price,
		MarketValue: value,
		Unrealized:  value.Sub(p.Invested),
	}
}

// Unpriced returns the snapshot of a position with no known market price.
// The unrealized fields stay unavailable rather than zero.
func (p Position) Unpriced() Snapshot {
	return Snapshot{Position: p}
}
