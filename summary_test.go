package holdings

import (
	"math"
	"testing"
)

func TestSummarize_Totals(t *testing.T) {
	ledger := NewLedger()
	ledger.AppendAll(
		buy("2025-01-10", "AAPL", 10, 100),
		buy("2025-01-20", "AAPL", 5, 120),
		sell("2025-02-01", "AAPL", 12, 150),
	)

	summary, err := Summarize(ledger, map[string]Money{"AAPL": EUR(140)})
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if len(summary.Assets) != 1 {
		t.Fatalf("Assets = %d, want 1", len(summary.Assets))
	}

	// 3 shares left at cost 120, priced at 140.
	if !summary.Invested.Equal(EUR(360)) {
		t.Errorf("Invested = %s, want 360", summary.Invested.Decimal())
	}
	if !summary.MarketValue.Equal(EUR(420)) {
		t.Errorf("MarketValue = %s, want 420", summary.MarketValue.Decimal())
	}
	if !summary.Unrealized.Equal(EUR(60)) {
		t.Errorf("Unrealized = %s, want 60", summary.Unrealized.Decimal())
	}
	if !summary.Realized.Equal(EUR(560)) {
		t.Errorf("Realized = %s, want 560", summary.Realized.Decimal())
	}
	if !summary.Net.Equal(EUR(620)) {
		t.Errorf("Net = %s, want 620", summary.Net.Decimal())
	}
	if len(summary.Unpriced) != 0 {
		t.Errorf("Unpriced = %v, want none", summary.Unpriced)
	}
}

func TestSummarize_UnpricedAssetExcludedFromMarketTotals(t *testing.T) {
	ledger := NewLedger()
	ledger.AppendAll(
		buy("2025-01-10", "AAPL", 10, 100),
		buy("2025-01-10", "PHAG", 20, 30),
	)

	summary, err := Summarize(ledger, map[string]Money{"AAPL": EUR(110)})
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	// Market value covers AAPL only: an unknown price is not a zero price.
	if !summary.MarketValue.Equal(EUR(1100)) {
		t.Errorf("MarketValue = %s, want 1100 (AAPL only)", summary.MarketValue.Decimal())
	}
	if !summary.Unrealized.Equal(EUR(100)) {
		t.Errorf("Unrealized = %s, want 100", summary.Unrealized.Decimal())
	}
	if len(summary.Unpriced) != 1 || summary.Unpriced[0] != "PHAG" {
		t.Errorf("Unpriced = %v, want [PHAG]", summary.Unpriced)
	}
	// The cost side still counts both positions.
	if !summary.Invested.Equal(EUR(1600)) {
		t.Errorf("Invested = %s, want 1600", summary.Invested.Decimal())
	}

	for _, a := range summary.Assets {
		if a.Asset == "PHAG" && a.Priced {
			t.Errorf("PHAG snapshot reports Priced = true without a price")
		}
	}
}

func TestSummarize_ROINotApplicableWithoutSales(t *testing.T) {
	ledger := NewLedger()
	ledger.AppendAll(buy("2025-01-10", "AAPL", 10, 100))

	summary, err := Summarize(ledger, nil)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if roi, ok := summary.ROI(); ok {
		t.Errorf("ROI() = %v, true; want not-applicable with no sales", roi)
	}
}

func TestSummarize_ROI(t *testing.T) {
	ledger := NewLedger()
	ledger.AppendAll(
		buy("2025-01-10", "AAPL", 10, 100),
		sell("2025-02-01", "AAPL", 10, 150),
	)

	summary, err := Summarize(ledger, nil)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	roi, ok := summary.ROI()
	if !ok {
		t.Fatal("ROI() not applicable, want a value")
	}
	// gain 500 over cost of sold 1000
	if math.Abs(float64(roi)-50) > 1e-9 {
		t.Errorf("ROI() = %v, want 50%%", roi)
	}
}

func TestSummarize_SurfacesOversells(t *testing.T) {
	ledger := NewLedger()
	ledger.AppendAll(
		buy("2025-01-10", "AAPL", 10, 100),
		sell("2025-02-01", "AAPL", 20, 150), // oversell, skipped
		buy("2025-01-10", "GOOG", 1, 2800),
	)

	summary, err := Summarize(ledger, nil)
	if !IsOversell(err) {
		t.Fatalf("Summarize() error = %v, want an oversell", err)
	}
	if summary == nil {
		t.Fatal("Summarize() returned no summary alongside the oversell")
	}
	// The summary covers what was accepted.
	if len(summary.Assets) != 2 {
		t.Errorf("Assets = %d, want 2", len(summary.Assets))
	}
	if !summary.Invested.Equal(EUR(3800)) {
		t.Errorf("Invested = %s, want 3800", summary.Invested.Decimal())
	}
	if !summary.Realized.IsZero() {
		t.Errorf("Realized = %s, want 0", summary.Realized.Decimal())
	}
}

func TestAssetSummary_Balance(t *testing.T) {
	ledger := NewLedger()
	ledger.AppendAll(
		buy("2025-01-10", "AAPL", 10, 100),
		sell("2025-02-01", "AAPL", 4, 150),
	)

	summary, err := Summarize(ledger, map[string]Money{"AAPL": EUR(130)})
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	a := summary.Assets[0]
	// realized 4*(150-100) + unrealized 6*(130-100)
	if !a.Balance.Equal(EUR(380)) {
		t.Errorf("Balance = %s, want 380", a.Balance.Decimal())
	}
	roi, ok := a.ROI()
	if !ok || math.Abs(float64(roi)-50) > 1e-9 {
		t.Errorf("ROI() = %v, %v; want 50%%, true", roi, ok)
	}
}
