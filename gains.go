package holdings

import "github.com/etnz/holdings/date"

// RealizedGains rolls up realization fragments into totals.
type RealizedGains struct {
	Gain       Money // total realized gain or loss
	CostOfSold Money // cost basis consumed by sales
	Proceeds   Money // sale value received
	Sold       Quantity
}

// Realize aggregates the fragments of one asset.
func Realize(fragments []RealizationFragment) RealizedGains {
	var r RealizedGains
	for _, f := range fragments {
		r.Gain = r.Gain.Add(f.Gain)
		r.CostOfSold = r.CostOfSold.Add(f.CostOfSold())
		r.Proceeds = r.Proceeds.Add(f.Proceeds())
		r.Sold = r.Sold.Add(f.Quantity)
	}
	return r
}

// SaleSummary is one original sell event, reassembled from its fragments.
// Callers that want one row per sale use this instead of raw fragments.
type SaleSummary struct {
	Asset       string
	SaleSeq     int64
	SaleDay     date.Date
	Quantity    Quantity // total quantity of the sale
	AverageCost Money    // quantity-weighted cost basis across consumed lots
	SalePrice   Money    // unit sale price
	CostOfSold  Money
	Proceeds    Money
	Gain        Money
}

// BySale groups fragments on their sale sequence number, preserving the
// order sales were made. The engine itself never pre-aggregates: the
// per-fragment granularity stays available for the tax report.
func BySale(fragments []RealizationFragment) []SaleSummary {
	var sales []SaleSummary
	index := make(map[int64]int)

	for _, f := range fragments {
		i, ok := index[f.SaleSeq]
		if !ok {
			i = len(sales)
			index[f.SaleSeq] = i
			sales = append(sales, SaleSummary{
				Asset:     f.Asset,
				SaleSeq:   f.SaleSeq,
				SaleDay:   f.SaleDay,
				SalePrice: f.SalePrice,
			})
		}
		s := &sales[i]
		s.Quantity = s.Quantity.Add(f.Quantity)
		s.CostOfSold = s.CostOfSold.Add(f.CostOfSold())
		s.Proceeds = s.Proceeds.Add(f.Proceeds())
		s.Gain = s.Gain.Add(f.Gain)
	}

	for i := range sales {
		if sales[i].Quantity.IsPositive() {
			sales[i].AverageCost = sales[i].CostOfSold.Div(sales[i].Quantity)
		}
	}
	return sales
}
