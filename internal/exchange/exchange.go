// Package exchange converts donation totals between currencies for
// display. Rates for ISO currencies come from the frankfurter.app feed;
// the Somali shillings are not on that feed, so they are bridged over a
// USD leg with static street rates.
package exchange

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Conversion is the outcome of converting one amount.
type Conversion struct {
	Amount decimal.Decimal `json:"amount"`
	Rate   decimal.Decimal `json:"rate"`
	AsOf   time.Time       `json:"asOf"`
}

// Converter converts a positive amount from one currency to another.
type Converter interface {
	Convert(ctx context.Context, amount decimal.Decimal, from, to string) (Conversion, error)
}

// ErrUnknownCurrency reports a currency the converter cannot price.
var ErrUnknownCurrency = errors.New("unknown currency")

// usdPerUnit holds the static USD value of one unit of each off-feed
// currency. Shilling street rates move slowly enough for display use.
var usdPerUnit = map[string]decimal.Decimal{
	"SLSH": decimal.New(1, 0).Div(decimal.NewFromInt(8500)),
	"SOS":  decimal.New(1, 0).Div(decimal.NewFromInt(26500)),
}

// staticUSDRate returns the USD value of one unit of currency, if the
// currency is one of the off-feed shillings.
func staticUSDRate(currency string) (decimal.Decimal, bool) {
	rate, ok := usdPerUnit[currency]
	return rate, ok
}
