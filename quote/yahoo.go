package quote

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/holdings"
)

// Yahoo prices symbols from the public chart endpoint.
//
// Ticker spellings vary by venue, so a symbol is resolved through an alias
// table first, then tried as-is, then with a "-EUR" and "-USD" suffix, which
// covers the usual crypto spellings (BTC resolves as BTC-EUR).
type Yahoo struct {
	BaseURL string            // endpoint prefix, the chart path is appended
	Client  *http.Client      // defaults to a daily-cached client
	Aliases map[string]string // symbol spelling fixups, tried first
}

// defaultAliases carries the known venue-specific spellings.
var defaultAliases = map[string]string{
	"PHAG": "PHAG.AS",
	"BTC":  "BTC-EUR",
	"ETH":  "ETH-EUR",
}

const yahooBase = "https://query1.finance.yahoo.com/v8/finance/chart/"

// NewYahoo returns a provider with the default endpoint, alias table and a
// client that caches responses on disk for the day.
func NewYahoo() *Yahoo {
	return &Yahoo{
		BaseURL: yahooBase,
		Client:  newDailyCachingClient(),
		Aliases: defaultAliases,
	}
}

// Quote implements Provider.
func (y *Yahoo) Quote(symbol string) (holdings.Money, error) {
	var lastErr error
	for _, candidate := range y.candidates(symbol) {
		price, currency, err := y.chart(candidate)
		if err != nil {
			lastErr = err
			continue
		}
		return holdings.M(price, currency), nil
	}
	return holdings.Money{}, fmt.Errorf("no price for %q: %w", symbol, lastErr)
}

// candidates lists the ticker spellings to try for a symbol, in order.
func (y *Yahoo) candidates(symbol string) []string {
	if alias, ok := y.Aliases[symbol]; ok {
		return []string{alias}
	}
	out := []string{symbol}
	if !strings.Contains(symbol, "-") && !strings.Contains(symbol, ".") {
		out = append(out, symbol+"-EUR", symbol+"-USD")
	}
	return out
}

// chart queries the chart endpoint for one exact ticker and extracts the
// regular market price and its currency.
//
//	{"chart": {"result": [{"meta": {
//	    "currency": "EUR",
//	    "regularMarketPrice": 31.205, ...
func (y *Yahoo) chart(ticker string) (price float64, currency string, err error) {
	client := y.Client
	if client == nil {
		client = newDailyCachingClient()
	}
	base := y.BaseURL
	if base == "" {
		base = yahooBase
	}
	addr := base + url.PathEscape(ticker) + "?interval=1d&range=1d"

	var jobj any
	if err := jwget(client, addr, &jobj); err != nil {
		return 0, "", fmt.Errorf("cannot fetch %q: %w", ticker, err)
	}

	jval, err := jsonpath.Get("$.chart.result[0].meta.regularMarketPrice", jobj)
	if err != nil {
		return 0, "", fmt.Errorf("%q: %w", ticker, ErrUnavailable)
	}
	// jsonpath sometimes wraps a single answer in a list, keep the first.
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	price, ok := jval.(float64)
	if !ok {
		return 0, "", fmt.Errorf("%q: price is %v: %w", ticker, jval, ErrUnavailable)
	}

	currency = "EUR"
	if jcur, err := jsonpath.Get("$.chart.result[0].meta.currency", jobj); err == nil {
		if s, ok := jcur.(string); ok && s != "" {
			currency = s
		}
	}
	return price, currency, nil
}
