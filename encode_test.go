package holdings

import (
	"bytes"
	"strings"
	"testing"
)

func TestEncodeLedger_RoundTrip(t *testing.T) {
	ledger := NewLedger()
	ledger.AppendAll(
		buy("2025-01-10", "AAPL", 10, 100),
		NewBuy(day("2025-01-10"), "BTC", Crypto, Q(0.5), EUR(20000)),
		sell("2025-02-01", "AAPL", 4, 150.5),
	)

	var buf bytes.Buffer
	if err := EncodeLedger(&buf, ledger); err != nil {
		t.Fatalf("EncodeLedger() error = %v", err)
	}

	decoded, err := DecodeLedger(&buf)
	if err != nil {
		t.Fatalf("DecodeLedger() error = %v", err)
	}
	if decoded.Len() != ledger.Len() {
		t.Fatalf("decoded %d transactions, want %d", decoded.Len(), ledger.Len())
	}

	original := ledger.AssetTransactions("AAPL")
	restored := decoded.AssetTransactions("AAPL")
	for i := range original {
		if !original[i].Equal(restored[i]) {
			t.Errorf("transaction %d: decoded %v, want %v", i, restored[i], original[i])
		}
	}
	if got := decoded.Class("BTC"); got != Crypto {
		t.Errorf("decoded Class(BTC) = %s, want crypto", got)
	}
}

func TestEncodeTransaction_Format(t *testing.T) {
	var buf bytes.Buffer
	tx := NewBuy(day("2025-01-10"), "AAPL", Stock, Q(10), EUR(100.5))
	if err := EncodeTransaction(&buf, tx); err != nil {
		t.Fatalf("EncodeTransaction() error = %v", err)
	}

	line := buf.String()
	if !strings.HasSuffix(line, "\n") {
		t.Error("encoded transaction is not newline terminated")
	}
	// Fields in a stable order keeps the file diffable.
	want := `{"side":"buy","date":"2025-01-10","asset":"AAPL","class":"stock","quantity":10,"price":100.5,"currency":"EUR"}` + "\n"
	if line != want {
		t.Errorf("encoded line = %s, want %s", line, want)
	}
}

func TestDecodeLedger_SkipsEmptyLines(t *testing.T) {
	input := `{"side":"buy","date":"2025-01-10","asset":"AAPL","quantity":10,"price":100,"currency":"EUR"}

{"side":"sell","date":"2025-02-01","asset":"AAPL","quantity":4,"price":150,"currency":"EUR"}
`
	ledger, err := DecodeLedger(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeLedger() error = %v", err)
	}
	if ledger.Len() != 2 {
		t.Errorf("Len() = %d, want 2", ledger.Len())
	}
}

func TestDecodeLedger_ReportsLineNumber(t *testing.T) {
	input := `{"side":"buy","date":"2025-01-10","asset":"AAPL","quantity":10,"price":100}
{"side":"buy","date":"2025-01-11","asset":"AAPL","quantity":`
	_, err := DecodeLedger(strings.NewReader(input))
	if err == nil {
		t.Fatal("DecodeLedger() error = nil, want parse error")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error %q does not name the failing line", err)
	}
}

func TestDecodeLedger_ReassignsSequenceFromLineOrder(t *testing.T) {
	// Two same-day buys: the line order decides which lot is consumed first.
	input := `{"side":"buy","date":"2025-01-10","asset":"AAPL","quantity":10,"price":120,"currency":"EUR"}
{"side":"buy","date":"2025-01-10","asset":"AAPL","quantity":10,"price":100,"currency":"EUR"}
{"side":"sell","date":"2025-02-01","asset":"AAPL","quantity":10,"price":150,"currency":"EUR"}
`
	ledger, err := DecodeLedger(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeLedger() error = %v", err)
	}
	_, fragments, err := ledger.Replay("AAPL")
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	if len(fragments) != 1 || !fragments[0].UnitCost.Equal(EUR(120)) {
		t.Errorf("consumed cost = %v, want the first line's 120", fragments)
	}
}
