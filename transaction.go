package holdings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/etnz/holdings/date"
)

// Side identifies the direction of a transaction.
type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

// ParseSide parses a string into a Side. It accepts the Spanish synonyms
// found in imported spreadsheets ("compra", "venta").
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy", "compra":
		return Buy, nil
	case "sell", "venta":
		return Sell, nil
	default:
		return "", fmt.Errorf("unknown transaction side: %q", s)
	}
}

// AssetClass tags an asset for display and grouping. The matching engine
// never looks at it.
type AssetClass string

const (
	ETF       AssetClass = "etf"
	Crypto    AssetClass = "crypto"
	Stock     AssetClass = "stock"
	Bond      AssetClass = "bond"
	Commodity AssetClass = "commodity"
	Other     AssetClass = "other"
)

// ParseAssetClass parses a string into an AssetClass, defaulting to Other
// for anything it does not recognize. Imported files carry free-form labels.
func ParseAssetClass(s string) AssetClass {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "etf":
		return ETF
	case "crypto", "cripto":
		return Crypto
	case "stock", "share", "accion", "acción":
		return Stock
	case "bond", "bono":
		return Bond
	case "commodity", "materia prima":
		return Commodity
	default:
		return Other
	}
}

// Transaction is a single buy or sell of an asset. Once accepted by a
// Ledger it is immutable; corrections are recorded as new offsetting
// transactions.
type Transaction struct {
	Asset     string     // asset symbol, e.g. "BTC", "SPY"
	Class     AssetClass // display-only tag
	Side      Side       // buy or sell
	Quantity  Quantity   // always positive
	UnitPrice Money      // price per unit, never negative
	Day       date.Date  // the trade date
	Seq       int64      // ingestion order, assigned by the Ledger
	Memo      string     // optional rationale
}

// Amount returns the total value of the transaction (quantity * unit price).
func (t Transaction) Amount() Money { return t.UnitPrice.Mul(t.Quantity) }

// NewBuy creates an unsequenced buy transaction.
func NewBuy(day date.Date, asset string, class AssetClass, quantity Quantity, unitPrice Money) Transaction {
	return Transaction{Asset: asset, Class: class, Side: Buy, Quantity: quantity, UnitPrice: unitPrice, Day: day}
}

// NewSell creates an unsequenced sell transaction.
func NewSell(day date.Date, asset string, class AssetClass, quantity Quantity, unitPrice Money) Transaction {
	return Transaction{Asset: asset, Class: class, Side: Sell, Quantity: quantity, UnitPrice: unitPrice, Day: day}
}

// ValidationError reports why a transaction was rejected at ingestion.
// Rejected transactions are never stored.
type ValidationError struct {
	Field  string // offending field name
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid transaction: %s: %s", e.Field, e.Reason)
}

// Validate checks the transaction fields ahead of ingestion.
func (t Transaction) Validate() error {
	if strings.TrimSpace(t.Asset) == "" {
		return &ValidationError{Field: "asset", Reason: "asset symbol is empty"}
	}
	if t.Side != Buy && t.Side != Sell {
		return &ValidationError{Field: "side", Reason: fmt.Sprintf("unknown side %q", t.Side)}
	}
	if !t.Quantity.IsPositive() {
		return &ValidationError{Field: "quantity", Reason: fmt.Sprintf("quantity must be positive, got %s", t.Quantity)}
	}
	if t.UnitPrice.IsNegative() {
		return &ValidationError{Field: "price", Reason: fmt.Sprintf("unit price must not be negative, got %s", t.UnitPrice)}
	}
	if t.Day.IsZero() {
		return &ValidationError{Field: "date", Reason: "date is missing"}
	}
	return nil
}

// Equal reports whether two transactions are the same trade, ignoring Seq.
func (t Transaction) Equal(o Transaction) bool {
	return t.Asset == o.Asset &&
		t.Class == o.Class &&
		t.Side == o.Side &&
		t.Quantity.Equal(o.Quantity) &&
		t.UnitPrice.Equal(o.UnitPrice) &&
		t.Day == o.Day &&
		t.Memo == o.Memo
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
