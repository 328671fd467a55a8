package holdings

import (
	"errors"
	"reflect"
	"testing"
)

// replayLedger ingests the transactions through a ledger so they carry real
// sequence numbers, then replays the asset.
func replayLedger(t *testing.T, txs ...Transaction) (LotQueue, []RealizationFragment, error) {
	t.Helper()
	ledger := NewLedger()
	for _, tx := range txs {
		if _, err := ledger.Append(tx); err != nil {
			t.Fatalf("Append(%v) error = %v", tx, err)
		}
	}
	return ledger.Replay(txs[0].Asset)
}

func TestReplay_OnlyBuys(t *testing.T) {
	queue, fragments, err := replayLedger(t,
		buy("2025-01-10", "AAPL", 10, 100),
		buy("2025-02-10", "AAPL", 5, 120),
	)
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	if len(fragments) != 0 {
		t.Errorf("Replay() produced %d fragments for buys only, want 0", len(fragments))
	}
	if got, want := queue.Open(), Q(15); !got.Equal(want) {
		t.Errorf("Open() = %s, want %s", got, want)
	}
	// quantity-weighted mean: (10*100 + 5*120) / 15
	if got, want := queue.AverageCost(), EUR(1600.0/15.0); !got.Decimal().Sub(want.Decimal()).Abs().LessThan(Q(0.000001).value) {
		t.Errorf("AverageCost() = %s, want %s", got.Decimal(), want.Decimal())
	}
}

func TestReplay_FIFOOrdering(t *testing.T) {
	queue, fragments, err := replayLedger(t,
		buy("2025-01-10", "AAPL", 10, 100),
		buy("2025-01-20", "AAPL", 5, 120),
		sell("2025-02-01", "AAPL", 15, 150),
	)
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	if len(fragments) != 2 {
		t.Fatalf("Replay() produced %d fragments, want 2", len(fragments))
	}

	// Oldest lot first: 10@100 then 5@120.
	first, second := fragments[0], fragments[1]
	if !first.Quantity.Equal(Q(10)) || !first.UnitCost.Equal(EUR(100)) || !first.Gain.Equal(EUR(500)) {
		t.Errorf("first fragment = (%s, %s, %s), want (10, 100, +500)", first.Quantity, first.UnitCost.Decimal(), first.Gain.Decimal())
	}
	if !second.Quantity.Equal(Q(5)) || !second.UnitCost.Equal(EUR(120)) || !second.Gain.Equal(EUR(150)) {
		t.Errorf("second fragment = (%s, %s, %s), want (5, 120, +150)", second.Quantity, second.UnitCost.Decimal(), second.Gain.Decimal())
	}
	if !queue.Open().IsZero() {
		t.Errorf("Open() = %s after selling everything, want 0", queue.Open())
	}
}

func TestReplay_PartialLotConsumption(t *testing.T) {
	queue, fragments, err := replayLedger(t,
		buy("2025-01-10", "AAPL", 10, 100),
		buy("2025-01-20", "AAPL", 5, 120),
		sell("2025-02-01", "AAPL", 12, 150),
	)
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	if len(fragments) != 2 {
		t.Fatalf("Replay() produced %d fragments, want 2", len(fragments))
	}
	if !fragments[0].Quantity.Equal(Q(10)) || !fragments[0].Gain.Equal(EUR(500)) {
		t.Errorf("first fragment = (%s, gain %s), want (10, +500)", fragments[0].Quantity, fragments[0].Gain.Decimal())
	}
	if !fragments[1].Quantity.Equal(Q(2)) || !fragments[1].Gain.Equal(EUR(60)) {
		t.Errorf("second fragment = (%s, gain %s), want (2, +60)", fragments[1].Quantity, fragments[1].Gain.Decimal())
	}

	// Remaining lot is the tail of the second buy: 3 @ 120.
	if len(queue) != 1 {
		t.Fatalf("queue has %d lots, want 1", len(queue))
	}
	if !queue[0].Remaining.Equal(Q(3)) || !queue[0].UnitCost.Equal(EUR(120)) {
		t.Errorf("remaining lot = (%s @ %s), want (3 @ 120)", queue[0].Remaining, queue[0].UnitCost.Decimal())
	}
	if got := Realize(fragments).Gain; !got.Equal(EUR(560)) {
		t.Errorf("realized total = %s, want 560", got.Decimal())
	}
	if got := queue.AverageCost(); !got.Equal(EUR(120)) {
		t.Errorf("AverageCost() = %s, want 120", got.Decimal())
	}
}

func TestReplay_OversellRejectedAtomically(t *testing.T) {
	queue, fragments, err := replayLedger(t,
		buy("2025-01-10", "AAPL", 10, 100),
		sell("2025-02-01", "AAPL", 15, 150),
	)
	if err == nil {
		t.Fatal("Replay() error = nil, want OversellError")
	}
	var oversell *OversellError
	if !errors.As(err, &oversell) {
		t.Fatalf("Replay() error = %v, want *OversellError", err)
	}
	if !oversell.Requested.Equal(Q(15)) || !oversell.Open.Equal(Q(10)) {
		t.Errorf("OversellError = requested %s open %s, want 15 and 10", oversell.Requested, oversell.Open)
	}

	// The rejected sell must leave no trace.
	if len(fragments) != 0 {
		t.Errorf("Replay() produced %d fragments, want 0", len(fragments))
	}
	if got := queue.Open(); !got.Equal(Q(10)) {
		t.Errorf("Open() = %s after rejected oversell, want 10", got)
	}
}

func TestReplay_ContinuesAfterOversell(t *testing.T) {
	// The oversell is rejected; the later, valid sell still matches.
	queue, fragments, err := replayLedger(t,
		buy("2025-01-10", "BTC", 1, 20000),
		sell("2025-02-01", "BTC", 2, 30000),
		sell("2025-03-01", "BTC", 1, 25000),
	)
	if !IsOversell(err) {
		t.Fatalf("Replay() error = %v, want an oversell", err)
	}
	if len(fragments) != 1 {
		t.Fatalf("Replay() produced %d fragments, want 1 from the valid sell", len(fragments))
	}
	if !fragments[0].Gain.Equal(EUR(5000)) {
		t.Errorf("fragment gain = %s, want +5000", fragments[0].Gain.Decimal())
	}
	if !queue.Open().IsZero() {
		t.Errorf("Open() = %s, want 0", queue.Open())
	}
}

func TestReplay_SellConservation(t *testing.T) {
	// An accepted sell's fragments match its quantity exactly, even with a
	// fractional quantity across several lots.
	_, fragments, err := replayLedger(t,
		buy("2025-01-01", "ETH", 0.25, 2000),
		buy("2025-01-02", "ETH", 0.25, 2100),
		buy("2025-01-03", "ETH", 0.25, 2200),
		sell("2025-02-01", "ETH", 0.60000001, 2500),
	)
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	var matched Quantity
	for _, f := range fragments {
		matched = matched.Add(f.Quantity)
	}
	if want := Q(0.60000001); !matched.Equal(want) {
		t.Errorf("sum of matched quantities = %s, want %s", matched, want)
	}
}

func TestReplay_Idempotence(t *testing.T) {
	ledger := NewLedger()
	ledger.AppendAll(
		buy("2025-01-10", "AAPL", 10, 100),
		buy("2025-01-20", "AAPL", 5, 120),
		sell("2025-02-01", "AAPL", 12, 150),
		buy("2025-02-10", "AAPL", 7, 130),
		sell("2025-03-01", "AAPL", 8, 160),
	)

	q1, f1, err1 := ledger.Replay("AAPL")
	q2, f2, err2 := ledger.Replay("AAPL")
	if err1 != nil || err2 != nil {
		t.Fatalf("Replay() errors = %v, %v", err1, err2)
	}
	if !reflect.DeepEqual(q1, q2) {
		t.Errorf("two replays produced different queues:\n%v\n%v", q1, q2)
	}
	if !reflect.DeepEqual(f1, f2) {
		t.Errorf("two replays produced different fragments:\n%v\n%v", f1, f2)
	}
}

func TestReplay_SameDayTieBreakBySequence(t *testing.T) {
	// Two buys on the same day: FIFO follows ingestion order, not price.
	_, fragments, err := replayLedger(t,
		buy("2025-01-10", "AAPL", 10, 120), // ingested first, consumed first
		buy("2025-01-10", "AAPL", 10, 100),
		sell("2025-02-01", "AAPL", 10, 150),
	)
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	if len(fragments) != 1 {
		t.Fatalf("Replay() produced %d fragments, want 1", len(fragments))
	}
	if !fragments[0].UnitCost.Equal(EUR(120)) {
		t.Errorf("consumed cost basis = %s, want the first-ingested 120", fragments[0].UnitCost.Decimal())
	}
}

func TestReplay_MixedAssetsRejected(t *testing.T) {
	_, _, err := Replay([]Transaction{
		buy("2025-01-10", "AAPL", 10, 100),
		buy("2025-01-11", "GOOG", 1, 2800),
	})
	if err == nil {
		t.Fatal("Replay() with mixed assets error = nil, want error")
	}
}

func TestLotQueue_AverageCostFlatPosition(t *testing.T) {
	var queue LotQueue
	if got := queue.AverageCost(); !got.IsZero() {
		t.Errorf("AverageCost() of empty queue = %s, want 0", got.Decimal())
	}
}
