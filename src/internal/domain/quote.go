package domain

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits kept for cash balances and
// unit prices.
const MoneyScale int32 = 4

type Quote struct {
	Symbol string
	Name   string
	Price  decimal.Decimal
}

// QuoteProvider resolves the current price of a ticker. Implementations return
// ErrUnknownSymbol when the ticker does not exist and ErrQuoteUnavailable for
// transient failures.
type QuoteProvider interface {
	Lookup(ctx context.Context, symbol string) (Quote, error)
}

func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
