package holdings

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/etnz/holdings/date"
	"github.com/shopspring/decimal"
)

// this file contains functions to handle the import/export formats.
// Imported spreadsheets come from several brokers and from the hand-kept
// files of the previous tool, so header matching is deliberately lenient.

// columnAliases maps a canonical column to the header fragments that select
// it. Matching is case-insensitive and by substring, so "Precio_Unitario
// (EUR)" still selects "price".
var columnAliases = map[string][]string{
	"asset":    {"asset", "activo", "symbol", "ticker"},
	"side":     {"side", "tipo de transac", "tipo"},
	"quantity": {"quantity", "cantidad", "qty"},
	"price":    {"price", "precio"},
	"date":     {"date", "fecha"},
	"class":    {"class", "tipo_activo", "tipo de activo", "asset class"},
}

// required columns for an importable file; "class" is optional.
var requiredColumns = []string{"asset", "side", "quantity", "price", "date"}

// mapHeader resolves each canonical column to its index in the header row.
func mapHeader(header []string) (map[string]int, error) {
	index := make(map[string]int)
	for col, aliases := range columnAliases {
		for i, h := range header {
			h = strings.ToLower(strings.TrimSpace(h))
			matched := false
			for _, alias := range aliases {
				if strings.Contains(h, alias) {
					matched = true
					break
				}
			}
			if matched {
				if _, taken := index[col]; !taken {
					index[col] = i
				}
			}
		}
	}
	// "tipo" is a fragment of "tipo_activo"; make sure side and class did
	// not land on the same column.
	if si, ok := index["side"]; ok {
		if ci, ok := index["class"]; ok && si == ci {
			delete(index, "side")
			for i, h := range header {
				h = strings.ToLower(strings.TrimSpace(h))
				if i != ci && (strings.Contains(h, "tipo") || strings.Contains(h, "side")) {
					index["side"] = i
					break
				}
			}
		}
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return index, nil
}

// ImportCSV reads transactions from a CSV file into the ledger.
//
// The first row is the header; columns are matched leniently against
// English and Spanish names (asset/activo, side/tipo, quantity/cantidad,
// price/precio, date/fecha, class/tipo_activo). Sides accept buy/sell and
// compra/venta.
//
// Rows are accepted independently: a row that fails to parse or validate is
// rejected with its reason in the report while the rest of the file loads.
// Only a structurally broken file (unreadable CSV, missing columns) is an
// error.
func ImportCSV(r io.Reader, ledger *Ledger, currency string) (IngestReport, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return IngestReport{}, fmt.Errorf("cannot read CSV header: %w", err)
	}
	index, err := mapHeader(header)
	if err != nil {
		return IngestReport{}, err
	}

	var report IngestReport
	row := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return report, fmt.Errorf("cannot read CSV row %d: %w", row+1, err)
		}

		tx, err := parseRow(record, index, currency)
		if err != nil {
			report.Results = append(report.Results, IngestResult{Row: row, Err: err})
			row++
			continue
		}
		seq, err := ledger.Append(tx)
		report.Results = append(report.Results, IngestResult{
			Row:      row,
			Seq:      seq,
			Accepted: err == nil,
			Err:      err,
		})
		row++
	}
	return report, nil
}

// parseRow converts one CSV record into a transaction.
func parseRow(record []string, index map[string]int, currency string) (Transaction, error) {
	field := func(col string) string {
		i, ok := index[col]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	side, err := ParseSide(field("side"))
	if err != nil {
		return Transaction{}, err
	}
	quantity, err := ParseQuantity(field("quantity"))
	if err != nil {
		return Transaction{}, fmt.Errorf("invalid quantity %q: %w", field("quantity"), err)
	}
	price, err := decimal.NewFromString(field("price"))
	if err != nil {
		return Transaction{}, fmt.Errorf("invalid price %q: %w", field("price"), err)
	}
	day, err := date.Parse(field("date"))
	if err != nil {
		return Transaction{}, err
	}

	return Transaction{
		Asset:     field("asset"),
		Class:     ParseAssetClass(field("class")),
		Side:      side,
		Quantity:  quantity,
		UnitPrice: M(price, currency),
		Day:       day,
	}, nil
}

// fmtMoney formats a monetary value for tabular export: rounded to cents, no
// currency symbol, spreadsheet friendly.
func fmtMoney(m Money) string { return m.Decimal().StringFixed(2) }

// ExportSummaryCSV writes the per-asset summary rows, the original tool's
// "Posición Global" table.
func ExportSummaryCSV(w io.Writer, summary *Summary) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{
		"asset", "class", "open_quantity", "average_cost", "invested",
		"market_value", "unrealized_gain",
		"sold_quantity", "cost_of_sold", "proceeds", "realized_gain", "balance",
	}); err != nil {
		return err
	}
	for _, a := range summary.Assets {
		marketValue, unrealized := "", ""
		if a.Priced {
			marketValue, unrealized = fmtMoney(a.MarketValue), fmtMoney(a.Unrealized)
		}
		if err := cw.Write([]string{
			a.Asset, string(a.Class), a.Open.String(), fmtMoney(a.AverageCost), fmtMoney(a.Invested),
			marketValue, unrealized,
			a.Realized.Sold.String(), fmtMoney(a.Realized.CostOfSold), fmtMoney(a.Realized.Proceeds),
			fmtMoney(a.Realized.Gain), fmtMoney(a.Balance),
		}); err != nil {
			return err
		}
	}
	return cw.Error()
}

// ExportSalesCSV writes one row per sale event, the original tool's
// "Detalle de cada venta" download.
func ExportSalesCSV(w io.Writer, sales []SaleSummary) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{
		"asset", "sale_date", "quantity", "average_cost", "sale_price", "cost_of_sold", "proceeds", "gain",
	}); err != nil {
		return err
	}
	for _, s := range sales {
		if err := cw.Write([]string{
			s.Asset, s.SaleDay.String(), s.Quantity.String(), fmtMoney(s.AverageCost),
			fmtMoney(s.SalePrice), fmtMoney(s.CostOfSold), fmtMoney(s.Proceeds), fmtMoney(s.Gain),
		}); err != nil {
			return err
		}
	}
	return cw.Error()
}

// ExportTaxCSV writes the per-asset per-year realized results, the original
// tool's tax-report download.
func ExportTaxCSV(w io.Writer, rows []TaxYearRow) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"asset", "year", "cost_of_sold", "proceeds", "realized_gain"}); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write([]string{
			row.Asset, fmt.Sprintf("%d", row.Year),
			fmtMoney(row.CostOfSold), fmtMoney(row.Proceeds), fmtMoney(row.Gain),
		}); err != nil {
			return err
		}
	}
	return cw.Error()
}
