package holdings

import (
	"testing"

	"github.com/etnz/holdings/date"
)

func TestLedger_AppendRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		tx   Transaction
	}{
		{"empty asset", NewBuy(day("2025-01-10"), "", Stock, Q(10), EUR(100))},
		{"zero quantity", NewBuy(day("2025-01-10"), "AAPL", Stock, Q(0), EUR(100))},
		{"negative quantity", NewBuy(day("2025-01-10"), "AAPL", Stock, Q(-3), EUR(100))},
		{"negative price", NewBuy(day("2025-01-10"), "AAPL", Stock, Q(10), EUR(-1))},
		{"zero day", NewBuy(date.Date{}, "AAPL", Stock, Q(10), EUR(100))},
		{"unknown side", Transaction{Asset: "AAPL", Side: "short", Quantity: Q(10), UnitPrice: EUR(100), Day: day("2025-01-10")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := NewLedger()
			if _, err := ledger.Append(tt.tx); !IsValidation(err) {
				t.Errorf("Append() error = %v, want a validation error", err)
			}
			if ledger.Len() != 0 {
				t.Errorf("rejected transaction was stored, Len() = %d", ledger.Len())
			}
		})
	}
}

func TestLedger_AppendAllPartialSuccess(t *testing.T) {
	ledger := NewLedger()
	report := ledger.AppendAll(
		buy("2025-01-10", "AAPL", 10, 100),
		buy("2025-01-11", "", 5, 120), // missing asset, rejected
		sell("2025-02-01", "AAPL", 5, 150),
	)

	if got := report.Accepted(); got != 2 {
		t.Errorf("Accepted() = %d, want 2", got)
	}
	rejected := report.Rejected()
	if len(rejected) != 1 {
		t.Fatalf("Rejected() has %d rows, want 1", len(rejected))
	}
	if rejected[0].Row != 1 {
		t.Errorf("rejected row = %d, want 1", rejected[0].Row)
	}
	if !IsValidation(rejected[0].Err) {
		t.Errorf("rejection reason = %v, want a validation error", rejected[0].Err)
	}
	if ledger.Len() != 2 {
		t.Errorf("Len() = %d, want 2", ledger.Len())
	}
}

func TestLedger_ChronologicalOrder(t *testing.T) {
	// Out-of-order ingestion: the ledger reorders by day, and the engine sees
	// the historical order.
	ledger := NewLedger()
	ledger.AppendAll(
		sell("2025-03-01", "AAPL", 5, 160),
		buy("2025-01-10", "AAPL", 10, 100),
	)

	txs := ledger.AssetTransactions("AAPL")
	if len(txs) != 2 {
		t.Fatalf("AssetTransactions() = %d rows, want 2", len(txs))
	}
	if txs[0].Side != Buy || txs[1].Side != Sell {
		t.Errorf("order = [%s %s], want [buy sell]", txs[0].Side, txs[1].Side)
	}

	// The late-ingested buy still covers the sell.
	_, fragments, err := ledger.Replay("AAPL")
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	if len(fragments) != 1 {
		t.Errorf("Replay() produced %d fragments, want 1", len(fragments))
	}
}

func TestLedger_Assets(t *testing.T) {
	ledger := NewLedger()
	ledger.AppendAll(
		buy("2025-01-10", "GOOG", 1, 2800),
		buy("2025-01-11", "AAPL", 10, 100),
		sell("2025-02-01", "GOOG", 1, 2900),
	)

	var assets []string
	for a := range ledger.Assets() {
		assets = append(assets, a)
	}
	want := []string{"AAPL", "GOOG"}
	if len(assets) != len(want) || assets[0] != want[0] || assets[1] != want[1] {
		t.Errorf("Assets() = %v, want %v", assets, want)
	}
}

func TestLedger_Class(t *testing.T) {
	ledger := NewLedger()
	ledger.AppendAll(
		NewBuy(day("2025-01-10"), "BTC", Crypto, Q(1), EUR(20000)),
		NewSell(day("2025-02-01"), "BTC", "", Q(0.5), EUR(25000)),
	)
	if got := ledger.Class("BTC"); got != Crypto {
		t.Errorf("Class(BTC) = %s, want crypto", got)
	}
	if got := ledger.Class("UNKNOWN"); got != Other {
		t.Errorf("Class(UNKNOWN) = %s, want other", got)
	}
}

func TestLedger_TransactionsFilter(t *testing.T) {
	ledger := NewLedger()
	ledger.AppendAll(
		buy("2025-01-10", "AAPL", 10, 100),
		sell("2025-02-01", "AAPL", 5, 150),
		buy("2025-02-10", "GOOG", 1, 2800),
	)

	n := 0
	for range ledger.Transactions(ByAsset("AAPL"), BySide(Sell)) {
		n++
	}
	if n != 1 {
		t.Errorf("filtered count = %d, want 1", n)
	}
}
