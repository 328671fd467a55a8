package holdings

import "github.com/etnz/holdings/date"

// EUR is a helper for test to create euro money from const
func EUR(v float64) Money { return M(v, "EUR") }

// day is a helper for tests to build a date from its string form.
func day(s string) date.Date { return date.MustParse(s) }

// buy and sell build unsequenced transactions for a default test asset.
func buy(on, asset string, qty, price float64) Transaction {
	return NewBuy(day(on), asset, Stock, Q(qty), EUR(price))
}

func sell(on, asset string, qty, price float64) Transaction {
	return NewSell(day(on), asset, Stock, Q(qty), EUR(price))
}
