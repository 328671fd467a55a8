package holdings

import "sort"

// TaxYearRow groups the realized results of one asset in one calendar year.
//
// The year is the year of the sale: a lot bought in 2021 and sold in 2023
// contributes its whole gain to 2023. CostOfSold is the cost basis consumed
// by that year's sales, not the purchases made that year.
type TaxYearRow struct {
	Asset      string
	Year       int
	CostOfSold Money
	Proceeds   Money
	Gain       Money
	Fragments  int // number of matched-lot tranches behind the row
}

// TaxYears groups realization fragments by (asset, sale year), sorted by
// asset then year.
func TaxYears(fragments []RealizationFragment) []TaxYearRow {
	type key struct {
		asset string
		year  int
	}
	index := make(map[key]*TaxYearRow)

	for _, f := range fragments {
		k := key{asset: f.Asset, year: f.SaleDay.Year()}
		row, ok := index[k]
		if !ok {
			row = &TaxYearRow{Asset: k.asset, Year: k.year}
			index[k] = row
		}
		row.CostOfSold = row.CostOfSold.Add(f.CostOfSold())
		row.Proceeds = row.Proceeds.Add(f.Proceeds())
		row.Gain = row.Gain.Add(f.Gain)
		row.Fragments++
	}

	rows := make([]TaxYearRow, 0, len(index))
	for _, row := range index {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Asset != rows[j].Asset {
			return rows[i].Asset < rows[j].Asset
		}
		return rows[i].Year < rows[j].Year
	})
	return rows
}
