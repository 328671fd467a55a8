package holdings

import (
	"bytes"
	"strings"
	"testing"
)

func TestImportCSV_EnglishHeaders(t *testing.T) {
	input := `asset,side,quantity,price,date
AAPL,buy,10,100,2025-01-10
AAPL,sell,4,150,2025-02-01
`
	ledger := NewLedger()
	report, err := ImportCSV(strings.NewReader(input), ledger, "EUR")
	if err != nil {
		t.Fatalf("ImportCSV() error = %v", err)
	}
	if report.Accepted() != 2 {
		t.Errorf("Accepted() = %d, want 2", report.Accepted())
	}
	if ledger.Len() != 2 {
		t.Errorf("Len() = %d, want 2", ledger.Len())
	}
}

func TestImportCSV_SpanishHeaders(t *testing.T) {
	// Headers and sides as exported by the previous spreadsheet tool.
	input := `Fecha,Activo,Tipo de Transaccion,Cantidad,Precio_Unitario (EUR),Tipo_Activo
2025-01-10,PHAG,Compra,20,30.5,ETF
2025-02-01,PHAG,Venta,5,32,ETF
`
	ledger := NewLedger()
	report, err := ImportCSV(strings.NewReader(input), ledger, "EUR")
	if err != nil {
		t.Fatalf("ImportCSV() error = %v", err)
	}
	if report.Accepted() != 2 {
		t.Fatalf("Accepted() = %d, want 2 (rejections: %v)", report.Accepted(), report.Rejected())
	}

	txs := ledger.AssetTransactions("PHAG")
	if txs[0].Side != Buy || txs[1].Side != Sell {
		t.Errorf("sides = [%s %s], want [buy sell]", txs[0].Side, txs[1].Side)
	}
	if txs[0].Class != ETF {
		t.Errorf("Class = %s, want etf", txs[0].Class)
	}
	if !txs[0].UnitPrice.Equal(EUR(30.5)) {
		t.Errorf("UnitPrice = %s, want 30.5", txs[0].UnitPrice.Decimal())
	}
}

func TestImportCSV_RejectsRowsIndependently(t *testing.T) {
	input := `asset,side,quantity,price,date
AAPL,buy,10,100,2025-01-10
AAPL,hold,4,150,2025-02-01
AAPL,sell,not-a-number,150,2025-02-01
AAPL,sell,4,150,2025-03-01
`
	ledger := NewLedger()
	report, err := ImportCSV(strings.NewReader(input), ledger, "EUR")
	if err != nil {
		t.Fatalf("ImportCSV() error = %v", err)
	}
	if report.Accepted() != 2 {
		t.Errorf("Accepted() = %d, want 2", report.Accepted())
	}
	rejected := report.Rejected()
	if len(rejected) != 2 {
		t.Fatalf("Rejected() = %d rows, want 2", len(rejected))
	}
	if rejected[0].Row != 1 || rejected[1].Row != 2 {
		t.Errorf("rejected rows = %d, %d, want 1 and 2", rejected[0].Row, rejected[1].Row)
	}
	if ledger.Len() != 2 {
		t.Errorf("Len() = %d, want 2", ledger.Len())
	}
}

func TestImportCSV_MissingColumns(t *testing.T) {
	input := `asset,quantity,price
AAPL,10,100
`
	_, err := ImportCSV(strings.NewReader(input), NewLedger(), "EUR")
	if err == nil {
		t.Fatal("ImportCSV() error = nil, want missing-columns error")
	}
	if !strings.Contains(err.Error(), "side") || !strings.Contains(err.Error(), "date") {
		t.Errorf("error %q does not name the missing columns", err)
	}
}

func TestExportSummaryCSV(t *testing.T) {
	ledger := NewLedger()
	ledger.AppendAll(
		buy("2025-01-10", "AAPL", 10, 100),
		sell("2025-02-01", "AAPL", 4, 150),
	)
	summary, err := Summarize(ledger, map[string]Money{"AAPL": EUR(130)})
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	var buf bytes.Buffer
	if err := ExportSummaryCSV(&buf, summary); err != nil {
		t.Fatalf("ExportSummaryCSV() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("exported %d lines, want header + 1 row", len(lines))
	}
	row := strings.Split(lines[1], ",")
	if row[0] != "AAPL" {
		t.Errorf("asset column = %q, want AAPL", row[0])
	}
	// average_cost rounded to cents
	if row[3] != "100.00" {
		t.Errorf("average_cost column = %q, want 100.00", row[3])
	}
}

func TestExportSummaryCSV_UnpricedLeavesMarketBlank(t *testing.T) {
	ledger := NewLedger()
	ledger.AppendAll(buy("2025-01-10", "PHAG", 20, 30))
	summary, err := Summarize(ledger, nil)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	var buf bytes.Buffer
	if err := ExportSummaryCSV(&buf, summary); err != nil {
		t.Fatalf("ExportSummaryCSV() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	row := strings.Split(lines[1], ",")
	// market_value and unrealized_gain stay blank, not 0.00
	if row[5] != "" || row[6] != "" {
		t.Errorf("market columns = %q, %q, want blank for unpriced asset", row[5], row[6])
	}
}

func TestExportSalesCSV(t *testing.T) {
	_, fragments, err := replayLedger(t,
		buy("2025-01-10", "AAPL", 10, 100),
		sell("2025-02-01", "AAPL", 4, 150),
	)
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}

	var buf bytes.Buffer
	if err := ExportSalesCSV(&buf, BySale(fragments)); err != nil {
		t.Fatalf("ExportSalesCSV() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("exported %d lines, want header + 1 row", len(lines))
	}
	if want := "AAPL,2025-02-01,4,100.00,150.00,400.00,600.00,200.00"; lines[1] != want {
		t.Errorf("sale row = %q, want %q", lines[1], want)
	}
}

func TestExportTaxCSV(t *testing.T) {
	_, fragments, err := replayLedger(t,
		buy("2021-01-10", "AAPL", 10, 100),
		sell("2023-02-01", "AAPL", 10, 160),
	)
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}

	var buf bytes.Buffer
	if err := ExportTaxCSV(&buf, TaxYears(fragments)); err != nil {
		t.Fatalf("ExportTaxCSV() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if want := "AAPL,2023,1000.00,1600.00,600.00"; lines[1] != want {
		t.Errorf("tax row = %q, want %q", lines[1], want)
	}
}

func TestFmtMoney(t *testing.T) {
	if got := fmtMoney(EUR(100.456)); got != "100.46" {
		t.Errorf("fmtMoney(100.456) = %q, want 100.46", got)
	}
	if got := fmtMoney(EUR(-3)); got != "-3.00" {
		t.Errorf("fmtMoney(-3) = %q, want -3.00", got)
	}
}
