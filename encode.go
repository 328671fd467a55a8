package holdings

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/etnz/holdings/date"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// The on-disk format is JSONL: one transaction per line, human readable and
// easy to diff or merge. Sequence numbers are not persisted; they are
// reassigned from line order at decode time, which preserves the same-day
// tie-break.

// jtransaction is the wire form of a Transaction.
type jtransaction struct {
	Side     Side            `json:"side"`
	Day      date.Date       `json:"date"`
	Asset    string          `json:"asset"`
	Class    AssetClass      `json:"class,omitempty"`
	Quantity Quantity        `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency,omitempty"`
	Memo     string          `json:"memo,omitempty"`
}

// EncodeTransaction marshals a single transaction to JSON and writes it to
// the writer, followed by a newline, in JSONL format.
func EncodeTransaction(w io.Writer, tx Transaction) error {
	var obj jsonObjectWriter
	obj.Append("side", tx.Side)
	obj.Append("date", tx.Day)
	obj.Append("asset", tx.Asset)
	obj.Optional("class", tx.Class)
	obj.Append("quantity", tx.Quantity)
	obj.Append("price", tx.UnitPrice.Decimal())
	obj.Optional("currency", tx.UnitPrice.Currency())
	obj.Optional("memo", tx.Memo)

	data, err := obj.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write transaction: %w", err)
	}
	return nil
}

// EncodeLedger persists the ledger to an io.Writer in canonical JSONL form:
// transactions ordered by (day, seq), sequence numbers implicit in the line
// order.
func EncodeLedger(w io.Writer, ledger *Ledger) error {
	for tx := range ledger.Transactions() {
		if err := EncodeTransaction(w, tx); err != nil {
			return err
		}
	}
	return nil
}

// DecodeLedger reads a JSONL stream of transactions and returns a validated,
// ordered Ledger. Any invalid line is an error: a persisted ledger is
// expected to be clean, unlike an imported spreadsheet.
func DecodeLedger(r io.Reader) (*Ledger, error) {
	ledger := NewLedger()
	scanner := bufio.NewScanner(r)

	line := 0
	for scanner.Scan() {
		line++
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}

		var jtx jtransaction
		if err := json.Unmarshal(lineBytes, &jtx); err != nil {
			return nil, fmt.Errorf("line %d: cannot parse transaction %q: %w", line, string(lineBytes), err)
		}

		tx := Transaction{
			Asset:     jtx.Asset,
			Class:     jtx.Class,
			Side:      jtx.Side,
			Quantity:  jtx.Quantity,
			UnitPrice: M(jtx.Price, jtx.Currency),
			Day:       jtx.Day,
			Memo:      jtx.Memo,
		}
		if _, err := ledger.Append(tx); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	return ledger, nil
}
