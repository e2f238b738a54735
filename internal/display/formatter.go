package display

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"CrazyCarl/internal/model"
)

var (
	thousand = decimal.NewFromInt(1_000)
	million  = decimal.NewFromInt(1_000_000)
	billion  = decimal.NewFromInt(1_000_000_000)
)

// FormatPrice renders a price with precision growing as the price shrinks.
func FormatPrice(v float64) string {
	switch {
	case v < 0.0001:
		return exponential(v, 4)
	case v < 0.01:
		return strconv.FormatFloat(v, 'f', 6, 64)
	case v < 1:
		return strconv.FormatFloat(v, 'f', 4, 64)
	default:
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
}

// exponential formats like 5.0000e-5: no exponent padding, explicit sign.
func exponential(v float64, digits int) string {
	s := strconv.FormatFloat(v, 'e', digits, 64)
	mant, exp, ok := strings.Cut(s, "e")
	if !ok {
		return s
	}
	sign := exp[:1]
	exp = strings.TrimLeft(exp[1:], "0")
	if exp == "" {
		exp = "0"
	}
	return mant + "e" + sign + exp
}

// MarketCap is price times circulating supply.
func MarketCap(price, supply float64) decimal.Decimal {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromFloat(supply))
}

// FormatLargeNumber renders a dollar amount with a K/M/B suffix.
func FormatLargeNumber(v decimal.Decimal) string {
	switch {
	case v.GreaterThanOrEqual(billion):
		return "$" + v.Div(billion).StringFixed(2) + "B"
	case v.GreaterThanOrEqual(million):
		return "$" + v.Div(million).StringFixed(2) + "M"
	case v.GreaterThanOrEqual(thousand):
		return "$" + v.Div(thousand).StringFixed(2) + "K"
	default:
		return "$" + v.StringFixed(2)
	}
}

// FormatMarketCap is FormatLargeNumber(MarketCap(price, supply)).
func FormatMarketCap(price, supply float64) string {
	return FormatLargeNumber(MarketCap(price, supply))
}

// PercentChange compares the last point of the window against the first.
func PercentChange(window []model.SeriesPoint) string {
	if len(window) < 2 {
		return "0"
	}
	first := window[0].Value
	last := window[len(window)-1].Value
	return strconv.FormatFloat((last-first)/first*100, 'f', 2, 64)
}
