package holdings

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"sort"
)

// Ledger is an ordered, validated collection of transactions, possibly
// covering several assets.
//
// Transactions are always kept in (day, sequence) order: the sequence number
// is assigned at ingestion and breaks ties between same-day trades, so the
// FIFO engine sees a total order.
type Ledger struct {
	name         string
	transactions []Transaction
	nextSeq      int64
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{transactions: make([]Transaction, 0)}
}

// Name returns the portfolio name this ledger was loaded from, if any.
func (l *Ledger) Name() string { return l.name }

// SetName renames the ledger for persistence.
func (l *Ledger) SetName(name string) { l.name = name }

// Len returns the number of accepted transactions.
func (l *Ledger) Len() int { return len(l.transactions) }

// Append validates tx, assigns it the next sequence number and inserts it in
// chronological order. It returns the assigned sequence number, or a
// *ValidationError and the ledger untouched.
func (l *Ledger) Append(tx Transaction) (int64, error) {
	if err := tx.Validate(); err != nil {
		return 0, err
	}
	tx.Seq = l.nextSeq
	l.nextSeq++
	l.transactions = append(l.transactions, tx)
	l.stableSort()
	return tx.Seq, nil
}

// IngestResult reports the outcome of one row of a batch ingestion.
type IngestResult struct {
	Row      int    // zero-based position in the submitted batch
	Seq      int64  // assigned sequence number when accepted
	Accepted bool
	Err      error // the rejection reason, nil when accepted
}

// IngestReport is the per-row outcome of AppendAll.
type IngestReport struct {
	Results []IngestResult
}

// Accepted returns the number of accepted rows.
func (r IngestReport) Accepted() int {
	n := 0
	for _, res := range r.Results {
		if res.Accepted {
			n++
		}
	}
	return n
}

// Rejected returns the rows that were rejected with their reasons.
func (r IngestReport) Rejected() []IngestResult {
	var out []IngestResult
	for _, res := range r.Results {
		if !res.Accepted {
			out = append(out, res)
		}
	}
	return out
}

// AppendAll ingests a batch of transactions. Invalid rows are rejected
// individually; all valid rows in the batch are accepted. The batch is not
// atomic on purpose: one bad row in an imported file must not discard the
// rest of the file.
func (l *Ledger) AppendAll(txs ...Transaction) IngestReport {
	report := IngestReport{Results: make([]IngestResult, 0, len(txs))}
	for i, tx := range txs {
		seq, err := l.Append(tx)
		report.Results = append(report.Results, IngestResult{
			Row:      i,
			Seq:      seq,
			Accepted: err == nil,
			Err:      err,
		})
	}
	return report
}

// Transactions returns an iterator over all transactions in (day, seq) order,
// optionally filtered.
func (l *Ledger) Transactions(filters ...func(Transaction) bool) iter.Seq[Transaction] {
	return func(yield func(Transaction) bool) {
		for _, tx := range l.transactions {
			accept := true
			for _, filter := range filters {
				if !filter(tx) {
					accept = false
					break
				}
			}
			if !accept {
				continue
			}
			if !yield(tx) {
				return
			}
		}
	}
}

// AssetTransactions returns the ordered transactions of a single asset.
func (l *Ledger) AssetTransactions(asset string) []Transaction {
	var out []Transaction
	for tx := range l.Transactions(ByAsset(asset)) {
		out = append(out, tx)
	}
	return out
}

// Assets iterates over the distinct asset symbols of the ledger, sorted.
func (l *Ledger) Assets() iter.Seq[string] {
	return func(yield func(string) bool) {
		visited := make(map[string]struct{})
		for _, tx := range l.transactions {
			visited[tx.Asset] = struct{}{}
		}
		assets := slices.Collect(maps.Keys(visited))
		slices.Sort(assets)
		for _, asset := range assets {
			if !yield(asset) {
				return
			}
		}
	}
}

// Class returns the display class of an asset, as carried by its
// transactions. The latest tag wins when rows disagree.
func (l *Ledger) Class(asset string) AssetClass {
	class := Other
	for _, tx := range l.transactions {
		if tx.Asset == asset && tx.Class != "" {
			class = tx.Class
		}
	}
	return class
}

// ByAsset returns a predicate that filters transactions by asset symbol.
func ByAsset(asset string) func(Transaction) bool {
	return func(tx Transaction) bool { return tx.Asset == asset }
}

// BySide returns a predicate that filters transactions by side.
func BySide(side Side) func(Transaction) bool {
	return func(tx Transaction) bool { return tx.Side == side }
}

// stableSort sorts the ledger by (day, seq). The sort is stable so same-day
// transactions keep their ingestion order.
func (l *Ledger) stableSort() {
	sort.SliceStable(l.transactions, func(i, j int) bool {
		if l.transactions[i].Day != l.transactions[j].Day {
			return l.transactions[i].Day.Before(l.transactions[j].Day)
		}
		return l.transactions[i].Seq < l.transactions[j].Seq
	})
}

// Replay runs the FIFO engine over one asset of the ledger.
func (l *Ledger) Replay(asset string) (LotQueue, []RealizationFragment, error) {
	return Replay(l.AssetTransactions(asset))
}

// String implements fmt.Stringer with a short ledger description.
func (l *Ledger) String() string {
	return fmt.Sprintf("ledger %q (%d transactions)", l.name, len(l.transactions))
}
