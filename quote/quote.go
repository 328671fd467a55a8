// Package quote fetches market prices for the assets of a ledger.
//
// Prices are best effort: a symbol that cannot be priced is simply absent
// from the result, and the summary layer reports it as unpriced instead of
// valuing it at zero.
package quote

import (
	"errors"

	"github.com/etnz/holdings"
)

// ErrUnavailable reports that a provider has no price for a symbol. It is a
// normal condition (unlisted fund, typo, market holiday), not a transport
// failure.
var ErrUnavailable = errors.New("price unavailable")

// Provider returns the latest known price for one symbol.
type Provider interface {
	Quote(symbol string) (holdings.Money, error)
}

// Fetch prices a batch of symbols. Each symbol fails independently: the
// returned map contains every symbol the provider could price, and errs
// joins the reasons for the rest.
func Fetch(p Provider, symbols []string) (prices map[string]holdings.Money, errs error) {
	prices = make(map[string]holdings.Money)
	for _, symbol := range symbols {
		price, err := p.Quote(symbol)
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		prices[symbol] = price
	}
	return prices, errs
}

// Static is a fixed price table, used in tests and for hand-priced assets.
type Static map[string]holdings.Money

func (s Static) Quote(symbol string) (holdings.Money, error) {
	price, ok := s[symbol]
	if !ok {
		return holdings.Money{}, ErrUnavailable
	}
	return price, nil
}
